package link

import (
	"fmt"

	"github.com/phyten/jaspace/internal/detect"
	"github.com/phyten/jaspace/internal/gitremote"
)

// Blob はコミット SHA とファイルパス、行番号から GitHub 互換の blob URL を生成します。
// Markdown はレンダリングされると行アンカーが効かないため ?plain=1 を付けます。
func Blob(info gitremote.Info, sha, file string, line int) string {
	if sha == "" || file == "" || line <= 0 {
		return ""
	}
	path := gitremote.BlobPath(file)
	if isRendered(file) {
		return fmt.Sprintf("%s/blob/%s/%s?plain=1#L%d", info.WebURL(), sha, path, line)
	}
	return fmt.Sprintf("%s/blob/%s/%s#L%d", info.WebURL(), sha, path, line)
}

func isRendered(file string) bool {
	return detect.FromPathAndContent(file, nil).Name == "markdown"
}
