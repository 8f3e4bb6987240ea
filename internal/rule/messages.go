package rule

import "unicode/utf8"

const (
	msgPhraseSpaceRequired = "全角文字とスペースを含む半角文字列の間にはスペースを入れる必要があります: "
	msgWordSpaceForbidden  = "全角文字とスペースを含まない半角文字列の間にはスペースを入れないでください: "

	labelURL   = "URL"
	labelEmail = "メールアドレス"

	previewRunes = 10
)

func phraseBeforeMessage(adj rune, text string) string {
	return msgPhraseSpaceRequired + `"` + string(adj) + headRunes(text, previewRunes) + `..."`
}

func phraseAfterMessage(text string, adj rune) string {
	return msgPhraseSpaceRequired + `"...` + tailRunes(text, previewRunes) + string(adj) + `"`
}

func wordBeforeMessage(adj rune, text string) string {
	return msgWordSpaceForbidden + `"` + string(adj) + " " + text + `"`
}

func wordAfterMessage(text string, adj rune) string {
	return msgWordSpaceForbidden + `"` + text + " " + string(adj) + `"`
}

func linkBeforeMessage(typ LinkType) string {
	return "全角文字と" + linkLabel(typ) + "の間にはスペースを入れる必要があります"
}

func linkAfterMessage(typ LinkType) string {
	return linkLabel(typ) + "と全角文字の間にはスペースを入れる必要があります"
}

func linkLabel(typ LinkType) string {
	if typ == LinkEmail {
		return labelEmail
	}
	return labelURL
}

func headRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func tailRunes(s string, n int) string {
	count := utf8.RuneCountInString(s)
	if count <= n {
		return s
	}
	skip := count - n
	i := 0
	for pos := range s {
		if i == skip {
			return s[pos:]
		}
		i++
	}
	return s
}
