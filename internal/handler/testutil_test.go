package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/studyflow/api/internal/auth"
	"github.com/studyflow/api/internal/database"
	"github.com/studyflow/api/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-secret"

func setupTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// A named shared in-memory database keeps every pooled connection on
	// the same store while isolating tests from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db))

	r := gin.New()
	RegisterRoutes(r, db, nil, testJWTSecret)
	return r, db
}

func createUser(t *testing.T, db *gorm.DB, username, role string) *model.User {
	t.Helper()
	user := model.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	}
	require.NoError(t, user.SetPassword("testpass123"))
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func tokenFor(t *testing.T, user *model.User) string {
	t.Helper()
	token, err := auth.GenerateAccessToken(user, testJWTSecret)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func createQuestion(t *testing.T, db *gorm.DB, author *model.User, title string) *model.Question {
	t.Helper()
	q := model.Question{Title: title, Body: "body of " + title, UserID: author.ID}
	require.NoError(t, db.Create(&q).Error)
	return &q
}

func createAnswer(t *testing.T, db *gorm.DB, q *model.Question, author *model.User, body string) *model.Answer {
	t.Helper()
	a := model.Answer{QuestionID: q.ID, Body: body, UserID: author.ID}
	require.NoError(t, db.Create(&a).Error)
	return &a
}

func castVote(t *testing.T, r *gin.Engine, token string, voteType string, kind string, id int64) *httptest.ResponseRecorder {
	t.Helper()
	return doRequest(t, r, http.MethodPost, "/api/votes", token, gin.H{
		"vote_type":    voteType,
		"content_type": kind,
		"object_id":    id,
	})
}
