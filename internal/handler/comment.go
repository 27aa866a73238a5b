package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/studyflow/api/internal/content"
	"github.com/studyflow/api/internal/model"
	"gorm.io/gorm"
)

type CommentHandler struct {
	db       *gorm.DB
	registry *content.Registry
}

func NewCommentHandler(db *gorm.DB, registry *content.Registry) *CommentHandler {
	return &CommentHandler{db: db, registry: registry}
}

type CreateCommentRequest struct {
	Content       string `json:"content" binding:"required"`
	ContentType   string `json:"content_type" binding:"required"`
	ObjectID      int64  `json:"object_id" binding:"required"`
	ParentComment *int64 `json:"parent_comment"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// Create attaches a comment to a question or answer. A reply must name an
// existing parent on the same target.
func (h *CommentHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	target, err := h.registry.Resolve(h.db, req.ContentType, req.ObjectID,
		model.ContentKindQuestion, model.ContentKindAnswer)
	if err != nil {
		targetError(c, err)
		return
	}

	if req.ParentComment != nil {
		var parent model.Comment
		if err := h.db.First(&parent, *req.ParentComment).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "parent comment not found"})
			return
		}
		if parent.ContentType != target.Ref.Kind || parent.ContentID != target.Ref.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "parent comment belongs to a different target"})
			return
		}
	}

	comment := model.Comment{
		UserID:      userID,
		Content:     req.Content,
		ContentType: target.Ref.Kind,
		ContentID:   target.Ref.ID,
		ParentID:    req.ParentComment,
	}
	if err := h.db.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create comment"})
		return
	}

	h.db.Preload("User").First(&comment, comment.ID)
	c.JSON(http.StatusCreated, comment)
}

// List returns the comments on one target, oldest first. An unknown kind
// yields an empty result rather than an error.
func (h *CommentHandler) List(c *gin.Context) {
	kind := c.Query("content_type")
	objectID, err := strconv.ParseInt(c.Query("object_id"), 10, 64)

	if err != nil || !h.registry.Known(kind) {
		c.JSON(http.StatusOK, []model.Comment{})
		return
	}

	var comments []model.Comment
	if err := h.db.Preload("User").
		Where("content_type = ? AND content_id = ?", kind, objectID).
		Order("created_at ASC").Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list comments"})
		return
	}

	c.JSON(http.StatusOK, comments)
}

// Update edits a comment's text and marks it edited. Owner only; comments
// cannot be re-parented, which keeps the reply tree acyclic.
func (h *CommentHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment ID"})
		return
	}

	var comment model.Comment
	if err := h.db.First(&comment, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
		return
	}
	if comment.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only edit your own comments"})
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	comment.Content = req.Content
	comment.IsEdited = true
	if err := h.db.Save(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update comment"})
		return
	}

	h.db.Preload("User").First(&comment, comment.ID)
	c.JSON(http.StatusOK, comment)
}

// Delete removes a comment and its reply subtree. Owner only.
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment ID"})
		return
	}

	var comment model.Comment
	if err := h.db.First(&comment, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
		return
	}
	if comment.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only delete your own comments"})
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		// Collect the reply subtree level by level; depth is unbounded in
		// the schema.
		toDelete := []int64{comment.ID}
		frontier := []int64{comment.ID}
		for len(frontier) > 0 {
			var children []int64
			if err := tx.Model(&model.Comment{}).Where("parent_id IN ?", frontier).
				Pluck("id", &children).Error; err != nil {
				return err
			}
			toDelete = append(toDelete, children...)
			frontier = children
		}

		if err := tx.Where("content_type = ? AND content_id IN ?",
			model.ContentKindComment, toDelete).Delete(&model.Report{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", toDelete).Delete(&model.Comment{}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete comment"})
		return
	}

	c.Status(http.StatusNoContent)
}
