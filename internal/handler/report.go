package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studyflow/api/internal/content"
	"github.com/studyflow/api/internal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ReportHandler struct {
	db       *gorm.DB
	registry *content.Registry
}

func NewReportHandler(db *gorm.DB, registry *content.Registry) *ReportHandler {
	return &ReportHandler{db: db, registry: registry}
}

type CreateReportRequest struct {
	ReportType  string `json:"report_type" binding:"required"`
	Description string `json:"description" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	ObjectID    int64  `json:"object_id" binding:"required"`
}

type ResolveReportRequest struct {
	Status     string `json:"status" binding:"required"`
	AdminNotes string `json:"admin_notes"`
}

// Create files a report against a question, answer or comment, capturing a
// snapshot of the reported text so moderation outlives edits and deletes.
func (h *ReportHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	validTypes := map[string]bool{
		model.ReportTypeSpam:           true,
		model.ReportTypeHarassment:     true,
		model.ReportTypeInappropriate:  true,
		model.ReportTypeMisinformation: true,
		model.ReportTypeOther:          true,
	}
	if !validTypes[req.ReportType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report type"})
		return
	}

	target, err := h.registry.Resolve(h.db, req.ContentType, req.ObjectID,
		model.ContentKindQuestion, model.ContentKindAnswer, model.ContentKindComment)
	if err != nil {
		targetError(c, err)
		return
	}

	snapshot, err := json.Marshal(gin.H{
		"content_type": target.Ref.Kind,
		"object_id":    target.Ref.ID,
		"author_id":    target.AuthorID,
		"excerpt":      target.Excerpt,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create report"})
		return
	}

	report := model.Report{
		ReporterID:  userID,
		ReportType:  req.ReportType,
		Description: req.Description,
		ContentType: target.Ref.Kind,
		ContentID:   target.Ref.ID,
		Snapshot:    datatypes.JSON(snapshot),
		Status:      model.ReportStatusPending,
	}
	if err := h.db.Create(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create report"})
		return
	}

	c.JSON(http.StatusCreated, report)
}

// List returns reports for moderators, filterable by status and content
// type, paginated.
func (h *ReportHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	status := c.Query("status")
	contentType := c.Query("content_type")

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	offset := (page - 1) * limit

	query := h.db.Model(&model.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if contentType != "" {
		query = query.Where("content_type = ?", contentType)
	}

	var totalCount int64
	query.Count(&totalCount)

	var reports []model.Report
	query.Preload("Reporter").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reports)

	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))

	c.JSON(http.StatusOK, gin.H{
		"data":        reports,
		"page":        page,
		"limit":       limit,
		"total_count": totalCount,
		"total_pages": totalPages,
	})
}

// Resolve moves a report to under_review or a terminal status. Terminal
// statuses record the resolver and timestamp; a report that already reached
// a terminal status is immutable.
func (h *ReportHandler) Resolve(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	reportID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report ID"})
		return
	}

	var req ResolveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	validStatuses := map[string]bool{
		model.ReportStatusUnderReview: true,
		model.ReportStatusResolved:    true,
		model.ReportStatusRemoved:     true,
		model.ReportStatusDismissed:   true,
	}
	if !validStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	var report model.Report
	if err := h.db.First(&report, reportID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}

	if report.Resolved() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "report already resolved"})
		return
	}

	report.Status = req.Status
	if req.AdminNotes != "" {
		report.AdminNotes = req.AdminNotes
	}
	if report.Resolved() {
		now := time.Now()
		report.ResolvedBy = &userID
		report.ResolvedAt = &now
	}

	if err := h.db.Save(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update report"})
		return
	}

	c.JSON(http.StatusOK, report)
}
