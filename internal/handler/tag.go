package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studyflow/api/internal/cache"
	"github.com/studyflow/api/internal/model"
	"gorm.io/gorm"
)

const popularTagsTTL = 60 * time.Second

type TagHandler struct {
	db    *gorm.DB
	cache *cache.RedisCache
}

func NewTagHandler(db *gorm.DB, redisCache *cache.RedisCache) *TagHandler {
	return &TagHandler{db: db, cache: redisCache}
}

type CreateTagRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// List returns all tags ordered by usage.
func (h *TagHandler) List(c *gin.Context) {
	var tags []model.Tag
	if err := h.db.Order("usage_count DESC, name ASC").Find(&tags).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tags"})
		return
	}
	c.JSON(http.StatusOK, tags)
}

// Create registers a tag. Names are case-normalized; duplicates are
// rejected.
func (h *TagHandler) Create(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	name := strings.ToLower(strings.TrimSpace(req.Name))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tag name required"})
		return
	}

	var existing model.Tag
	err := h.db.Where("name = ?", name).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tag already exists"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create tag"})
		return
	}

	tag := model.Tag{Name: name, Description: req.Description}
	if err := h.db.Create(&tag).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create tag"})
		return
	}

	c.JSON(http.StatusCreated, tag)
}

// Get returns one tag.
func (h *TagHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tag ID"})
		return
	}

	var tag model.Tag
	if err := h.db.First(&tag, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "tag not found"})
		return
	}
	c.JSON(http.StatusOK, tag)
}

// Popular returns the most-used tags, served from Redis when warm. The
// cache is fail-open: without Redis every call recomputes from SQL.
func (h *TagHandler) Popular(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	ctx := c.Request.Context()
	cacheKey := fmt.Sprintf("tags:popular:%d", limit)

	if h.cache != nil {
		if data, err := h.cache.Get(ctx, cacheKey); err == nil {
			var tags []model.Tag
			if json.Unmarshal(data, &tags) == nil {
				c.JSON(http.StatusOK, tags)
				return
			}
		}
	}

	var tags []model.Tag
	if err := h.db.Order("usage_count DESC, name ASC").Limit(limit).Find(&tags).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list popular tags"})
		return
	}

	if h.cache != nil {
		if data, err := json.Marshal(tags); err == nil {
			if err := h.cache.Set(context.WithoutCancel(ctx), cacheKey, data, popularTagsTTL); err != nil {
				log.Printf("Warning: failed to cache popular tags: %v", err)
			}
		}
	}

	c.JSON(http.StatusOK, tags)
}
