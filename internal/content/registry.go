package content

import (
	"errors"

	"github.com/studyflow/api/internal/model"
	"gorm.io/gorm"
)

// ErrUnknownKind is returned when a client-supplied content type is not in
// the supported enumeration.
var ErrUnknownKind = errors.New("unknown content type")

// Target is a resolved polymorphic reference: the content row exists, and
// the fields here are everything interaction handlers need from it.
type Target struct {
	Ref      model.ContentRef
	AuthorID int64
	Excerpt  string
}

type lookupFunc func(db *gorm.DB, id int64) (*Target, error)

// Registry maps content kind names to lookup functions. Interaction
// handlers resolve (kind, id) pairs through it instead of holding typed
// references to questions, answers or comments.
type Registry struct {
	lookups map[model.ContentKind]lookupFunc
}

func NewRegistry() *Registry {
	return &Registry{
		lookups: map[model.ContentKind]lookupFunc{
			model.ContentKindQuestion: lookupQuestion,
			model.ContentKindAnswer:   lookupAnswer,
			model.ContentKindComment:  lookupComment,
		},
	}
}

// Resolve translates a kind name plus id into an existing target. The kind
// must be in the allowed set for the calling interaction even if it would
// resolve elsewhere; ErrUnknownKind maps to 400 and gorm.ErrRecordNotFound
// to 404 at the handler boundary.
func (r *Registry) Resolve(db *gorm.DB, kind string, id int64, allowed ...model.ContentKind) (*Target, error) {
	k := model.ContentKind(kind)

	permitted := false
	for _, a := range allowed {
		if k == a {
			permitted = true
			break
		}
	}
	if !permitted {
		return nil, ErrUnknownKind
	}

	lookup, ok := r.lookups[k]
	if !ok {
		return nil, ErrUnknownKind
	}

	return lookup(db, id)
}

// Known reports whether the kind name is a supported content kind, without
// touching the database. Listing endpoints use it to return empty results
// for bogus kinds instead of erroring.
func (r *Registry) Known(kind string) bool {
	_, ok := r.lookups[model.ContentKind(kind)]
	return ok
}

func lookupQuestion(db *gorm.DB, id int64) (*Target, error) {
	var q model.Question
	if err := db.First(&q, id).Error; err != nil {
		return nil, err
	}
	return &Target{
		Ref:      model.ContentRef{Kind: model.ContentKindQuestion, ID: q.ID},
		AuthorID: q.UserID,
		Excerpt:  Truncate(q.Title, 80),
	}, nil
}

func lookupAnswer(db *gorm.DB, id int64) (*Target, error) {
	var a model.Answer
	if err := db.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &Target{
		Ref:      model.ContentRef{Kind: model.ContentKindAnswer, ID: a.ID},
		AuthorID: a.UserID,
		Excerpt:  Truncate(a.Body, 80),
	}, nil
}

func lookupComment(db *gorm.DB, id int64) (*Target, error) {
	var cm model.Comment
	if err := db.First(&cm, id).Error; err != nil {
		return nil, err
	}
	return &Target{
		Ref:      model.ContentRef{Kind: model.ContentKindComment, ID: cm.ID},
		AuthorID: cm.UserID,
		Excerpt:  Truncate(cm.Content, 80),
	}, nil
}

// Truncate shortens s to at most n runes, appending an ellipsis when it cut
// anything off.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
