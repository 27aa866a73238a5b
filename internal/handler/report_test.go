package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyflow/api/internal/model"
)

func TestReportCreate(t *testing.T) {
	r, db := setupTest(t)
	author := createUser(t, db, "author", model.RoleStudent)
	reporter := createUser(t, db, "reporter", model.RoleStudent)
	question := createQuestion(t, db, author, "Reported question")
	token := tokenFor(t, reporter)

	t.Run("captures a snapshot of the target", func(t *testing.T) {
		rec := doRequest(t, r, http.MethodPost, "/api/reports", token, gin.H{
			"report_type": "spam", "description": "looks like spam",
			"content_type": "question", "object_id": question.ID,
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var report model.Report
		decodeBody(t, rec, &report)
		assert.Equal(t, model.ReportStatusPending, report.Status)
		assert.Equal(t, reporter.ID, report.ReporterID)

		var snapshot map[string]interface{}
		require.NoError(t, json.Unmarshal(report.Snapshot, &snapshot))
		assert.Equal(t, float64(author.ID), snapshot["author_id"])
		assert.Contains(t, snapshot["excerpt"], "Reported question")
	})

	t.Run("comments are reportable", func(t *testing.T) {
		comment := model.Comment{
			UserID: author.ID, Content: "rude comment",
			ContentType: model.ContentKindQuestion, ContentID: question.ID,
		}
		require.NoError(t, db.Create(&comment).Error)

		rec := doRequest(t, r, http.MethodPost, "/api/reports", token, gin.H{
			"report_type": "harassment", "description": "rude",
			"content_type": "comment", "object_id": comment.ID,
		})
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("rejects unknown report type", func(t *testing.T) {
		rec := doRequest(t, r, http.MethodPost, "/api/reports", token, gin.H{
			"report_type": "boring", "description": "meh",
			"content_type": "question", "object_id": question.ID,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects unknown content kind", func(t *testing.T) {
		rec := doRequest(t, r, http.MethodPost, "/api/reports", token, gin.H{
			"report_type": "spam", "description": "spam",
			"content_type": "article", "object_id": question.ID,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing target is not found", func(t *testing.T) {
		rec := doRequest(t, r, http.MethodPost, "/api/reports", token, gin.H{
			"report_type": "spam", "description": "spam",
			"content_type": "question", "object_id": 99999,
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("requires authentication", func(t *testing.T) {
		rec := doRequest(t, r, http.MethodPost, "/api/reports", "", gin.H{
			"report_type": "spam", "description": "spam",
			"content_type": "question", "object_id": question.ID,
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestReportList(t *testing.T) {
	r, db := setupTest(t)
	author := createUser(t, db, "author", model.RoleStudent)
	reporter := createUser(t, db, "reporter", model.RoleStudent)
	instructor := createUser(t, db, "instructor", model.RoleInstructor)
	question := createQuestion(t, db, author, "Reported question")
	answer := createAnswer(t, db, question, author, "reported answer")

	for _, target := range []struct {
		kind model.ContentKind
		id   int64
	}{
		{model.ContentKindQuestion, question.ID},
		{model.ContentKindAnswer, answer.ID},
	} {
		report := model.Report{
			ReporterID:  reporter.ID,
			ReportType:  model.ReportTypeSpam,
			Description: "spam",
			ContentType: target.kind,
			ContentID:   target.id,
			Status:      model.ReportStatusPending,
		}
		require.NoError(t, db.Create(&report).Error)
	}

	t.Run("students are forbidden", func(t *testing.T) {
		rec := doRequest(t, r, http.MethodGet, "/api/reports", tokenFor(t, reporter), nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("instructor sees the paginated envelope", func(t *testing.T) {
		rec := doRequest(t, r, http.MethodGet, "/api/reports", tokenFor(t, instructor), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data       []model.Report `json:"data"`
			Page       int            `json:"page"`
			TotalCount int64          `json:"total_count"`
			TotalPages int            `json:"total_pages"`
		}
		decodeBody(t, rec, &resp)
		assert.Len(t, resp.Data, 2)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, int64(2), resp.TotalCount)
		assert.Equal(t, 1, resp.TotalPages)
	})

	t.Run("content type filter narrows the list", func(t *testing.T) {
		rec := doRequest(t, r, http.MethodGet, "/api/reports?content_type=answer", tokenFor(t, instructor), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data []model.Report `json:"data"`
		}
		decodeBody(t, rec, &resp)
		require.Len(t, resp.Data, 1)
		assert.Equal(t, model.ContentKindAnswer, resp.Data[0].ContentType)
	})
}

func TestReportResolve(t *testing.T) {
	r, db := setupTest(t)
	author := createUser(t, db, "author", model.RoleStudent)
	reporter := createUser(t, db, "reporter", model.RoleStudent)
	instructor := createUser(t, db, "instructor", model.RoleInstructor)
	question := createQuestion(t, db, author, "Reported question")

	newReport := func() *model.Report {
		report := model.Report{
			ReporterID:  reporter.ID,
			ReportType:  model.ReportTypeSpam,
			Description: "spam",
			ContentType: model.ContentKindQuestion,
			ContentID:   question.ID,
			Status:      model.ReportStatusPending,
		}
		require.NoError(t, db.Create(&report).Error)
		return &report
	}

	t.Run("students cannot resolve", func(t *testing.T) {
		report := newReport()
		rec := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/reports/%d/resolve", report.ID),
			tokenFor(t, reporter), gin.H{"status": "resolved"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("terminal status records resolver and timestamp", func(t *testing.T) {
		report := newReport()
		rec := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/reports/%d/resolve", report.ID),
			tokenFor(t, instructor), gin.H{"status": "resolved", "admin_notes": "handled"})
		require.Equal(t, http.StatusOK, rec.Code)

		var reloaded model.Report
		require.NoError(t, db.First(&reloaded, report.ID).Error)
		assert.Equal(t, model.ReportStatusResolved, reloaded.Status)
		assert.Equal(t, "handled", reloaded.AdminNotes)
		require.NotNil(t, reloaded.ResolvedBy)
		assert.Equal(t, instructor.ID, *reloaded.ResolvedBy)
		assert.NotNil(t, reloaded.ResolvedAt)
	})

	t.Run("resolved reports are immutable", func(t *testing.T) {
		report := newReport()
		path := fmt.Sprintf("/api/reports/%d/resolve", report.ID)
		require.Equal(t, http.StatusOK,
			doRequest(t, r, http.MethodPost, path, tokenFor(t, instructor), gin.H{"status": "dismissed"}).Code)

		rec := doRequest(t, r, http.MethodPost, path, tokenFor(t, instructor), gin.H{"status": "resolved"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("under_review stays open", func(t *testing.T) {
		report := newReport()
		path := fmt.Sprintf("/api/reports/%d/resolve", report.ID)
		require.Equal(t, http.StatusOK,
			doRequest(t, r, http.MethodPost, path, tokenFor(t, instructor), gin.H{"status": "under_review"}).Code)

		var reloaded model.Report
		require.NoError(t, db.First(&reloaded, report.ID).Error)
		assert.Nil(t, reloaded.ResolvedBy)

		rec := doRequest(t, r, http.MethodPost, path, tokenFor(t, instructor), gin.H{"status": "removed"})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		report := newReport()
		rec := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/reports/%d/resolve", report.ID),
			tokenFor(t, instructor), gin.H{"status": "shredded"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing report is not found", func(t *testing.T) {
		rec := doRequest(t, r, http.MethodPost, "/api/reports/99999/resolve",
			tokenFor(t, instructor), gin.H{"status": "resolved"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
