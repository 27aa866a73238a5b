package model

// ContentKind names one of the content entity types that votes, comments
// and reports can attach to.
type ContentKind string

const (
	ContentKindQuestion ContentKind = "question"
	ContentKindAnswer   ContentKind = "answer"
	ContentKindComment  ContentKind = "comment"
)

// ContentRef identifies a single content row: a kind plus its numeric id.
type ContentRef struct {
	Kind ContentKind `json:"content_type"`
	ID   int64       `json:"object_id"`
}
