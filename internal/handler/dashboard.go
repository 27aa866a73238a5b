package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studyflow/api/internal/model"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

type DashboardStats struct {
	QuestionsAsked    int64              `json:"questions_asked"`
	QuestionsAnswered int64              `json:"questions_answered"`
	ReputationScore   int64              `json:"reputation_score"`
	Breakdown         DashboardBreakdown `json:"breakdown"`
}

type DashboardBreakdown struct {
	QuestionVotes int64 `json:"question_votes"`
	AnswerVotes   int64 `json:"answer_votes"`
}

// Get aggregates the requester's profile, authored content and reputation.
// Reputation is sum(up - down) over every vote targeting the user's
// questions and answers, recomputed on each call.
func (h *DashboardHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var user model.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	var questions []model.Question
	if err := h.db.Preload("Tags").Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").Find(&questions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load questions"})
		return
	}

	var answers []model.Answer
	if err := h.db.Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").Find(&answers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load answers"})
		return
	}

	questionVotes, err := h.netVotes(model.ContentKindQuestion, h.db.Model(&model.Question{}).Select("id").Where("user_id = ?", userID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute reputation"})
		return
	}
	answerVotes, err := h.netVotes(model.ContentKindAnswer, h.db.Model(&model.Answer{}).Select("id").Where("user_id = ?", userID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute reputation"})
		return
	}

	questionIDs := make([]int64, 0, len(questions))
	for _, q := range questions {
		questionIDs = append(questionIDs, q.ID)
	}
	answerIDs := make([]int64, 0, len(answers))
	for _, a := range answers {
		answerIDs = append(answerIDs, a.ID)
	}
	questionTallies, err := voteTallies(h.db, model.ContentKindQuestion, questionIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count votes"})
		return
	}
	questionComments, err := commentCounts(h.db, model.ContentKindQuestion, questionIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count comments"})
		return
	}
	answerTallies, err := voteTallies(h.db, model.ContentKindAnswer, answerIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count votes"})
		return
	}

	questionsOut := make([]QuestionResponse, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		questionsOut = append(questionsOut, questionResponse(q, questionTallies[q.ID], questionComments[q.ID]))
	}
	answersOut := make([]AnswerResponse, 0, len(answers))
	for i := range answers {
		a := &answers[i]
		answersOut = append(answersOut, answerResponse(a, answerTallies[a.ID]))
	}

	c.JSON(http.StatusOK, gin.H{
		"username":        user.Username,
		"email":           user.Email,
		"role":            user.Role,
		"bio":             user.Bio,
		"profile_picture": user.ProfilePicture,
		"questions":       questionsOut,
		"answers":         answersOut,
		"stats": DashboardStats{
			QuestionsAsked:    int64(len(questions)),
			QuestionsAnswered: int64(len(answers)),
			ReputationScore:   questionVotes + answerVotes,
			Breakdown: DashboardBreakdown{
				QuestionVotes: questionVotes,
				AnswerVotes:   answerVotes,
			},
		},
	})
}

// netVotes sums up-minus-down over every vote whose target is in the owned
// id subquery.
func (h *DashboardHandler) netVotes(kind model.ContentKind, owned *gorm.DB) (int64, error) {
	var net int64
	err := h.db.Model(&model.Vote{}).
		Select("COALESCE(SUM(CASE WHEN vote_type = ? THEN 1 ELSE -1 END), 0)", model.VoteTypeUp).
		Where("content_type = ? AND content_id IN (?)", kind, owned).
		Scan(&net).Error
	return net, err
}
