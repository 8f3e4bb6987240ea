package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/phyten/jaspace/internal/engine"
)

type SortKey struct {
	Name string
	Desc bool
}

type SortSpec struct {
	Keys []SortKey
}

// ParseSortSpec は "file,-line" 形式の並び順を解釈します。- は降順、+ は昇順です。
func ParseSortSpec(raw string) (SortSpec, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return SortSpec{}, nil
	}
	parts := strings.Split(raw, ",")
	keys := make([]SortKey, 0, len(parts))
	for _, part := range parts {
		token := strings.TrimSpace(part)
		if token == "" {
			return SortSpec{}, fmt.Errorf("invalid sort key: empty segment")
		}
		desc := false
		switch token[0] {
		case '+':
			token = token[1:]
		case '-':
			desc = true
			token = token[1:]
		}
		token = strings.TrimSpace(token)
		if token == "" {
			return SortSpec{}, fmt.Errorf("invalid sort key: sign without name")
		}
		name := strings.ToLower(token)
		switch name {
		case "column":
			name = "col"
		case "location":
			keys = append(keys, SortKey{Name: "file", Desc: desc}, SortKey{Name: "line", Desc: desc}, SortKey{Name: "col", Desc: desc})
			continue
		case "file", "line", "col", "kind", "action", "rule", "offset", "message":
			// accepted as is
		default:
			return SortSpec{}, fmt.Errorf("invalid sort key: %s", token)
		}
		keys = append(keys, SortKey{Name: name, Desc: desc})
	}
	return SortSpec{Keys: keys}, nil
}

// ApplySort は spec の順に安定ソートします。同順位は file, line, col の昇順です。
func ApplySort(items []engine.Item, spec SortSpec) {
	keys := append(append([]SortKey{}, spec.Keys...), SortKey{Name: "file"}, SortKey{Name: "line"}, SortKey{Name: "col"})
	sort.SliceStable(items, func(i, j int) bool {
		a := &items[i]
		b := &items[j]
		for _, key := range keys {
			if c := compareKey(a, b, key.Name); c != 0 {
				if key.Desc {
					return c > 0
				}
				return c < 0
			}
		}
		return false
	})
}

func compareKey(a, b *engine.Item, name string) int {
	switch name {
	case "file":
		return strings.Compare(a.File, b.File)
	case "line":
		return a.Line - b.Line
	case "col":
		return a.Column - b.Column
	case "offset":
		return a.Offset - b.Offset
	case "kind":
		return strings.Compare(a.Kind, b.Kind)
	case "action":
		return strings.Compare(a.Action, b.Action)
	case "rule":
		return strings.Compare(a.Rule, b.Rule)
	case "message":
		return strings.Compare(a.Message, b.Message)
	}
	return 0
}
