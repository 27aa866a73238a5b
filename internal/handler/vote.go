package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/studyflow/api/internal/content"
	"github.com/studyflow/api/internal/middleware"
	"github.com/studyflow/api/internal/model"
	"gorm.io/gorm"
)

type VoteHandler struct {
	db       *gorm.DB
	registry *content.Registry
}

func NewVoteHandler(db *gorm.DB, registry *content.Registry) *VoteHandler {
	return &VoteHandler{db: db, registry: registry}
}

type CreateVoteRequest struct {
	VoteType    string `json:"vote_type" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	ObjectID    int64  `json:"object_id" binding:"required"`
}

// Vote actions
const (
	voteActionCreated = "created"
	voteActionChanged = "changed"
	voteActionRemoved = "removed"
)

// Create applies toggle semantics for one (voter, target) pair: no existing
// vote creates one, the same direction removes it, the opposite direction
// flips it in place. The read-then-write runs inside a transaction and the
// composite unique index makes a concurrent duplicate create fail; that
// failure is retried once so the second writer lands in the toggle branch.
func (h *VoteHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req CreateVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.VoteType != model.VoteTypeUp && req.VoteType != model.VoteTypeDown {
		c.JSON(http.StatusBadRequest, gin.H{"error": "vote_type must be 'up' or 'down'"})
		return
	}

	target, err := h.registry.Resolve(h.db, req.ContentType, req.ObjectID,
		model.ContentKindQuestion, model.ContentKindAnswer)
	if err != nil {
		targetError(c, err)
		return
	}

	var action string
	for attempt := 0; attempt < 2; attempt++ {
		action, err = h.toggle(userID, req.VoteType, target.Ref)
		if err == nil {
			break
		}
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process vote"})
		return
	}

	middleware.RecordVote(action)

	status := http.StatusOK
	if action == voteActionCreated {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"action": action, "vote_type": req.VoteType})
}

func (h *VoteHandler) toggle(userID int64, voteType string, ref model.ContentRef) (string, error) {
	var action string
	err := h.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Vote
		err := tx.Where("user_id = ? AND content_type = ? AND content_id = ?",
			userID, ref.Kind, ref.ID).First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := model.Vote{
				UserID:      userID,
				VoteType:    voteType,
				ContentType: ref.Kind,
				ContentID:   ref.ID,
			}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			action = voteActionCreated
			return nil

		case err != nil:
			return err

		case existing.VoteType == voteType:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			action = voteActionRemoved
			return nil

		default:
			if err := tx.Model(&existing).Update("vote_type", voteType).Error; err != nil {
				return err
			}
			action = voteActionChanged
			return nil
		}
	})
	return action, err
}

// List returns the votes on one target plus its on-demand score. An
// unknown kind yields an empty result rather than an error.
func (h *VoteHandler) List(c *gin.Context) {
	kind := c.Query("content_type")
	objectID, err := strconv.ParseInt(c.Query("object_id"), 10, 64)

	if err != nil || !h.registry.Known(kind) {
		c.JSON(http.StatusOK, gin.H{"votes": []model.Vote{}, "up": 0, "down": 0, "score": 0})
		return
	}

	var votes []model.Vote
	if err := h.db.Where("content_type = ? AND content_id = ?", kind, objectID).
		Order("created_at ASC").Find(&votes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list votes"})
		return
	}

	var tally voteTally
	for _, v := range votes {
		if v.VoteType == model.VoteTypeUp {
			tally.Up++
		} else {
			tally.Down++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"votes": votes,
		"up":    tally.Up,
		"down":  tally.Down,
		"score": tally.Net(),
	})
}
