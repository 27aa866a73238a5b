package handler

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studyflow/api/internal/model"
	"github.com/studyflow/api/internal/notify"
	"gorm.io/gorm"
)

type AnswerHandler struct {
	db       *gorm.DB
	notifier *notify.Dispatcher
}

func NewAnswerHandler(db *gorm.DB, notifier *notify.Dispatcher) *AnswerHandler {
	return &AnswerHandler{db: db, notifier: notifier}
}

type CreateAnswerRequest struct {
	QuestionID int64  `json:"question_id" binding:"required"`
	Body       string `json:"body" binding:"required"`
}

type UpdateAnswerRequest struct {
	Body string `json:"body" binding:"required"`
}

type AnswerResponse struct {
	ID           int64     `json:"id"`
	QuestionID   int64     `json:"question_id"`
	Body         string    `json:"body"`
	User         userBrief `json:"user"`
	IsBestAnswer bool      `json:"is_best_answer"`
	VoteCount    int64     `json:"vote_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func answerResponse(a *model.Answer, tally voteTally) AnswerResponse {
	return AnswerResponse{
		ID:           a.ID,
		QuestionID:   a.QuestionID,
		Body:         a.Body,
		User:         briefUser(&a.User),
		IsBestAnswer: a.IsBestAnswer,
		VoteCount:    tally.Net(),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// List returns answers, best answer first then newest. Filterable by
// question_id.
func (h *AnswerHandler) List(c *gin.Context) {
	query := h.db.Preload("User").Order("is_best_answer DESC, created_at DESC")

	if qid := c.Query("question_id"); qid != "" {
		id, err := strconv.ParseInt(qid, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question_id"})
			return
		}
		query = query.Where("question_id = ?", id)
	}

	var answers []model.Answer
	if err := query.Find(&answers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list answers"})
		return
	}

	ids := make([]int64, 0, len(answers))
	for _, a := range answers {
		ids = append(ids, a.ID)
	}
	tallies, err := voteTallies(h.db, model.ContentKindAnswer, ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count votes"})
		return
	}

	out := make([]AnswerResponse, 0, len(answers))
	for i := range answers {
		a := &answers[i]
		out = append(out, answerResponse(a, tallies[a.ID]))
	}
	c.JSON(http.StatusOK, out)
}

// Create posts an answer to a question and notifies the question author.
func (h *AnswerHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req CreateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var question model.Question
	if err := h.db.First(&question, req.QuestionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
		return
	}

	answer := model.Answer{
		QuestionID: question.ID,
		Body:       req.Body,
		UserID:     userID,
	}
	if err := h.db.Create(&answer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create answer"})
		return
	}

	var actor model.User
	if err := h.db.First(&actor, userID).Error; err == nil {
		if err := h.notifier.AnswerPosted(&answer, &question, &actor); err != nil {
			log.Printf("Warning: failed to dispatch answer notification: %v", err)
		}
	}

	h.db.Preload("User").First(&answer, answer.ID)
	c.JSON(http.StatusCreated, answerResponse(&answer, voteTally{}))
}

// Get returns a single answer.
func (h *AnswerHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid answer ID"})
		return
	}

	var answer model.Answer
	if err := h.db.Preload("User").First(&answer, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "answer not found"})
		return
	}

	tallies, err := voteTallies(h.db, model.ContentKindAnswer, []int64{answer.ID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count votes"})
		return
	}
	c.JSON(http.StatusOK, answerResponse(&answer, tallies[answer.ID]))
}

// Update edits an answer body. Owner only.
func (h *AnswerHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid answer ID"})
		return
	}

	var answer model.Answer
	if err := h.db.First(&answer, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "answer not found"})
		return
	}
	if answer.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only edit your own answers"})
		return
	}

	var req UpdateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	answer.Body = req.Body
	if err := h.db.Save(&answer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update answer"})
		return
	}

	h.db.Preload("User").First(&answer, answer.ID)
	tallies, _ := voteTallies(h.db, model.ContentKindAnswer, []int64{answer.ID})
	c.JSON(http.StatusOK, answerResponse(&answer, tallies[answer.ID]))
}

// Delete removes an answer and the interactions targeting it. Owner only.
func (h *AnswerHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid answer ID"})
		return
	}

	var answer model.Answer
	if err := h.db.First(&answer, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "answer not found"})
		return
	}
	if answer.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only delete your own answers"})
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		target := []interface{}{model.ContentKindAnswer, answer.ID}
		if err := tx.Where("content_type = ? AND content_id = ?", target...).Delete(&model.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("content_type = ? AND content_id = ?", target...).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("content_type = ? AND content_id = ?", target...).Delete(&model.Report{}).Error; err != nil {
			return err
		}
		if err := tx.Where("content_type = ? AND content_id = ?", target...).Delete(&model.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&answer).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete answer"})
		return
	}

	c.Status(http.StatusNoContent)
}

// MarkBest accepts an answer. Allowed for the parent question's author and
// for instructors; the response reports which permission applied. The flag
// swap runs in a transaction so two concurrent calls cannot leave a
// question with two accepted answers.
func (h *AnswerHandler) MarkBest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid answer ID"})
		return
	}

	var answer model.Answer
	if err := h.db.First(&answer, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "answer not found"})
		return
	}

	var question model.Question
	if err := h.db.First(&question, answer.QuestionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
		return
	}

	var markedBy string
	switch {
	case question.UserID == userID:
		markedBy = "question_author"
	case currentRole(c) == model.RoleInstructor:
		markedBy = "instructor"
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "only the question author or an instructor can mark the best answer"})
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Answer{}).
			Where("question_id = ? AND id <> ?", answer.QuestionID, answer.ID).
			Update("is_best_answer", false).Error; err != nil {
			return err
		}
		return tx.Model(&model.Answer{}).
			Where("id = ?", answer.ID).
			Update("is_best_answer", true).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark best answer"})
		return
	}

	answer.IsBestAnswer = true
	if err := h.notifier.BestAnswerChosen(&answer, &question, userID); err != nil {
		log.Printf("Warning: failed to dispatch best-answer notification: %v", err)
	}

	h.db.Preload("User").First(&answer, answer.ID)
	tallies, _ := voteTallies(h.db, model.ContentKindAnswer, []int64{answer.ID})
	c.JSON(http.StatusOK, gin.H{
		"message":   "answer marked as best",
		"marked_by": markedBy,
		"answer":    answerResponse(&answer, tallies[answer.ID]),
	})
}
