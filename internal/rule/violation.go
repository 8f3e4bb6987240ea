package rule

// ID はこのルールの識別子です。
const ID = "ja-space-around-phrase"

// Kind は違反の種類です。
type Kind string

const (
	KindPhraseSpaceRequired Kind = "phrase-space-required"
	KindWordSpaceForbidden  Kind = "word-space-forbidden"
	KindLinkSpaceRequired   Kind = "link-space-required"
)

// Action は修正位置で行うべき操作です。書き換え自体は行いません。
type Action string

const (
	ActionInsertSpace Action = "insert-space"
	ActionRemoveSpace Action = "remove-space"
)

// Violation は 1 件のスペース規則違反です。Index は報告対象ノード内のバイトオフセットです。
type Violation struct {
	Kind    Kind   `json:"kind"`
	Action  Action `json:"action"`
	Message string `json:"message"`
	Index   int    `json:"index"`
}
