package notify

import (
	"fmt"

	"github.com/studyflow/api/internal/content"
	"github.com/studyflow/api/internal/middleware"
	"github.com/studyflow/api/internal/model"
	"gorm.io/gorm"
)

// Dispatcher writes notification rows in reaction to content-creation
// events. It never notifies a user about their own action.
type Dispatcher struct {
	db *gorm.DB
}

func NewDispatcher(db *gorm.DB) *Dispatcher {
	return &Dispatcher{db: db}
}

// QuestionPosted confirms to the author that their question went live.
func (d *Dispatcher) QuestionPosted(q *model.Question) error {
	kind := model.ContentKindQuestion
	n := model.Notification{
		UserID:      q.UserID,
		Type:        model.NotificationTypeQuestion,
		Message:     fmt.Sprintf("Your question '%s' was posted successfully!", content.Truncate(q.Title, 30)),
		ContentType: &kind,
		ContentID:   &q.ID,
		Link:        fmt.Sprintf("/questions/%d", q.ID),
	}
	return d.create(&n)
}

// AnswerPosted tells the question author someone answered, unless they
// answered their own question.
func (d *Dispatcher) AnswerPosted(a *model.Answer, q *model.Question, actor *model.User) error {
	if actor.ID == q.UserID {
		return nil
	}

	kind := model.ContentKindAnswer
	n := model.Notification{
		UserID:      q.UserID,
		Type:        model.NotificationTypeAnswer,
		Message:     fmt.Sprintf("%s answered your question: %s", actor.Username, content.Truncate(q.Title, 30)),
		ActorID:     &actor.ID,
		ContentType: &kind,
		ContentID:   &a.ID,
		Link:        fmt.Sprintf("/questions/%d", q.ID),
	}
	return d.create(&n)
}

// BestAnswerChosen tells the answer author their answer was accepted.
func (d *Dispatcher) BestAnswerChosen(a *model.Answer, q *model.Question, actorID int64) error {
	if actorID == a.UserID {
		return nil
	}

	kind := model.ContentKindAnswer
	n := model.Notification{
		UserID:      a.UserID,
		Type:        model.NotificationTypeBestAnswer,
		Message:     fmt.Sprintf("Your answer was marked as the best answer for: %s", content.Truncate(q.Title, 30)),
		ActorID:     &actorID,
		ContentType: &kind,
		ContentID:   &a.ID,
		Link:        fmt.Sprintf("/questions/%d", q.ID),
	}
	return d.create(&n)
}

func (d *Dispatcher) create(n *model.Notification) error {
	if err := d.db.Create(n).Error; err != nil {
		return err
	}
	middleware.RecordNotification(n.Type)
	return nil
}
