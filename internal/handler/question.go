package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studyflow/api/internal/model"
	"github.com/studyflow/api/internal/notify"
	"gorm.io/gorm"
)

type QuestionHandler struct {
	db       *gorm.DB
	notifier *notify.Dispatcher
}

func NewQuestionHandler(db *gorm.DB, notifier *notify.Dispatcher) *QuestionHandler {
	return &QuestionHandler{db: db, notifier: notifier}
}

type CreateQuestionRequest struct {
	Title string   `json:"title" binding:"required"`
	Body  string   `json:"body" binding:"required"`
	Tags  []string `json:"tags"`
}

type UpdateQuestionRequest struct {
	Title    *string   `json:"title"`
	Body     *string   `json:"body"`
	IsClosed *bool     `json:"is_closed"`
	Tags     *[]string `json:"tags"`
}

type QuestionResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	User         userBrief `json:"user"`
	Tags         []string  `json:"tags"`
	Views        int64     `json:"views"`
	IsClosed     bool      `json:"is_closed"`
	VoteCount    int64     `json:"vote_count"`
	CommentCount int64     `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func questionResponse(q *model.Question, tally voteTally, comments int64) QuestionResponse {
	tags := make([]string, 0, len(q.Tags))
	for _, t := range q.Tags {
		tags = append(tags, t.Name)
	}
	return QuestionResponse{
		ID:           q.ID,
		Title:        q.Title,
		Body:         q.Body,
		User:         briefUser(&q.User),
		Tags:         tags,
		Views:        q.Views,
		IsClosed:     q.IsClosed,
		VoteCount:    tally.Net(),
		CommentCount: comments,
		CreatedAt:    q.CreatedAt,
		UpdatedAt:    q.UpdatedAt,
	}
}

// List returns all questions, newest first.
func (h *QuestionHandler) List(c *gin.Context) {
	var questions []model.Question
	if err := h.db.Preload("Tags").Preload("User").Order("created_at DESC").Find(&questions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list questions"})
		return
	}

	ids := make([]int64, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}

	tallies, err := voteTallies(h.db, model.ContentKindQuestion, ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count votes"})
		return
	}
	comments, err := commentCounts(h.db, model.ContentKindQuestion, ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count comments"})
		return
	}

	out := make([]QuestionResponse, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		out = append(out, questionResponse(q, tallies[q.ID], comments[q.ID]))
	}

	c.JSON(http.StatusOK, out)
}

// Create creates a question. Only students may ask; instructors answer.
func (h *QuestionHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	if currentRole(c) != model.RoleStudent {
		c.JSON(http.StatusForbidden, gin.H{"error": "only students can create questions"})
		return
	}

	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	question := model.Question{
		Title:  req.Title,
		Body:   req.Body,
		UserID: userID,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&question).Error; err != nil {
			return err
		}
		return syncQuestionTags(tx, &question, req.Tags)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create question"})
		return
	}

	if err := h.notifier.QuestionPosted(&question); err != nil {
		log.Printf("Warning: failed to dispatch question notification: %v", err)
	}

	h.db.Preload("Tags").Preload("User").First(&question, question.ID)
	c.JSON(http.StatusCreated, questionResponse(&question, voteTally{}, 0))
}

// Get returns one question and bumps its view counter.
func (h *QuestionHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question ID"})
		return
	}

	var question model.Question
	if err := h.db.Preload("Tags").Preload("User").First(&question, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
		return
	}

	// SQL-side increment so concurrent reads don't lose counts.
	h.db.Model(&question).UpdateColumn("views", gorm.Expr("views + 1"))
	question.Views++

	tallies, err := voteTallies(h.db, model.ContentKindQuestion, []int64{question.ID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count votes"})
		return
	}
	comments, err := commentCounts(h.db, model.ContentKindQuestion, []int64{question.ID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count comments"})
		return
	}

	c.JSON(http.StatusOK, questionResponse(&question, tallies[question.ID], comments[question.ID]))
}

// Update edits a question. Owner only; a supplied tag list replaces the
// previous set wholesale.
func (h *QuestionHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question ID"})
		return
	}

	var question model.Question
	if err := h.db.Preload("Tags").First(&question, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
		return
	}
	if question.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only edit your own questions"})
		return
	}

	var req UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if req.Title != nil {
			question.Title = *req.Title
		}
		if req.Body != nil {
			question.Body = *req.Body
		}
		if req.IsClosed != nil {
			question.IsClosed = *req.IsClosed
		}
		if err := tx.Save(&question).Error; err != nil {
			return err
		}
		if req.Tags != nil {
			return syncQuestionTags(tx, &question, *req.Tags)
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update question"})
		return
	}

	h.db.Preload("Tags").Preload("User").First(&question, question.ID)

	tallies, _ := voteTallies(h.db, model.ContentKindQuestion, []int64{question.ID})
	comments, _ := commentCounts(h.db, model.ContentKindQuestion, []int64{question.ID})
	c.JSON(http.StatusOK, questionResponse(&question, tallies[question.ID], comments[question.ID]))
}

// Delete removes a question, its answers and every interaction row
// referencing either, in one transaction. Owner only.
func (h *QuestionHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question ID"})
		return
	}

	var question model.Question
	if err := h.db.Preload("Tags").First(&question, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
		return
	}
	if question.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only delete your own questions"})
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		var answerIDs []int64
		if err := tx.Model(&model.Answer{}).Where("question_id = ?", question.ID).Pluck("id", &answerIDs).Error; err != nil {
			return err
		}

		type targetSet struct {
			kind model.ContentKind
			ids  []int64
		}
		refs := []targetSet{{model.ContentKindQuestion, []int64{question.ID}}}
		if len(answerIDs) > 0 {
			refs = append(refs, targetSet{model.ContentKindAnswer, answerIDs})
		}

		for _, ref := range refs {
			if err := tx.Where("content_type = ? AND content_id IN ?", ref.kind, ref.ids).Delete(&model.Vote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("content_type = ? AND content_id IN ?", ref.kind, ref.ids).Delete(&model.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("content_type = ? AND content_id IN ?", ref.kind, ref.ids).Delete(&model.Report{}).Error; err != nil {
				return err
			}
			if err := tx.Where("content_type = ? AND content_id IN ?", ref.kind, ref.ids).Delete(&model.Notification{}).Error; err != nil {
				return err
			}
		}

		for i := range question.Tags {
			if err := decrementTagUsage(tx, question.Tags[i].ID); err != nil {
				return err
			}
		}
		if err := tx.Model(&question).Association("Tags").Clear(); err != nil {
			return err
		}

		if len(answerIDs) > 0 {
			if err := tx.Where("question_id = ?", question.ID).Delete(&model.Answer{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&question).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete question"})
		return
	}

	c.Status(http.StatusNoContent)
}

// syncQuestionTags replaces the question's tag set with the given names:
// names are lower-cased, missing tags are created, newly attached tags gain
// a usage count and detached tags lose one.
func syncQuestionTags(tx *gorm.DB, q *model.Question, names []string) error {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			wanted[name] = true
		}
	}

	var current []model.Tag
	if err := tx.Model(q).Association("Tags").Find(&current); err != nil {
		return err
	}

	currentByName := make(map[string]model.Tag, len(current))
	for _, t := range current {
		currentByName[t.Name] = t
	}

	for name, t := range currentByName {
		if wanted[name] {
			continue
		}
		if err := tx.Model(q).Association("Tags").Delete(&t); err != nil {
			return err
		}
		if err := decrementTagUsage(tx, t.ID); err != nil {
			return err
		}
	}

	for name := range wanted {
		if _, attached := currentByName[name]; attached {
			continue
		}
		var tag model.Tag
		if err := tx.Where("name = ?", name).First(&tag).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			tag = model.Tag{Name: name}
			if err := tx.Create(&tag).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(q).Association("Tags").Append(&tag); err != nil {
			return err
		}
		if err := tx.Model(&model.Tag{}).Where("id = ?", tag.ID).
			UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error; err != nil {
			return err
		}
	}

	return nil
}

func decrementTagUsage(tx *gorm.DB, tagID int64) error {
	return tx.Model(&model.Tag{}).Where("id = ? AND usage_count > 0", tagID).
		UpdateColumn("usage_count", gorm.Expr("usage_count - 1")).Error
}
