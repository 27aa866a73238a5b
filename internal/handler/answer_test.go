package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyflow/api/internal/model"
)

func TestAnswerCreate(t *testing.T) {
	r, db := setupTest(t)
	asker := createUser(t, db, "asker", model.RoleStudent)
	answerer := createUser(t, db, "answerer", model.RoleInstructor)
	question := createQuestion(t, db, asker, "Answer me")

	t.Run("requires authentication", func(t *testing.T) {
		rec := doRequest(t, r, http.MethodPost, "/api/answers", "", gin.H{
			"question_id": question.ID, "body": "an answer",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing question is not found", func(t *testing.T) {
		rec := doRequest(t, r, http.MethodPost, "/api/answers", tokenFor(t, answerer), gin.H{
			"question_id": 99999, "body": "an answer",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("instructor can answer", func(t *testing.T) {
		rec := doRequest(t, r, http.MethodPost, "/api/answers", tokenFor(t, answerer), gin.H{
			"question_id": question.ID, "body": "an answer",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp AnswerResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, question.ID, resp.QuestionID)
		assert.False(t, resp.IsBestAnswer)
		assert.Equal(t, "answerer", resp.User.Username)
	})
}

func TestAnswerOwnership(t *testing.T) {
	r, db := setupTest(t)
	owner := createUser(t, db, "owner", model.RoleStudent)
	other := createUser(t, db, "other", model.RoleStudent)
	question := createQuestion(t, db, owner, "Owned question")
	answer := createAnswer(t, db, question, owner, "original")

	path := fmt.Sprintf("/api/answers/%d", answer.ID)

	t.Run("owner can edit", func(t *testing.T) {
		rec := doRequest(t, r, http.MethodPatch, path, tokenFor(t, owner), gin.H{"body": "updated"})
		require.Equal(t, http.StatusOK, rec.Code)

		var reloaded model.Answer
		require.NoError(t, db.First(&reloaded, answer.ID).Error)
		assert.Equal(t, "updated", reloaded.Body)
	})

	t.Run("non-owner cannot edit", func(t *testing.T) {
		rec := doRequest(t, r, http.MethodPatch, path, tokenFor(t, other), gin.H{"body": "hijacked"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unauthenticated cannot edit", func(t *testing.T) {
		rec := doRequest(t, r, http.MethodPatch, path, "", gin.H{"body": "hijacked"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non-owner cannot delete", func(t *testing.T) {
		rec := doRequest(t, r, http.MethodDelete, path, tokenFor(t, other), nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.NoError(t, db.First(&model.Answer{}, answer.ID).Error)
	})

	t.Run("owner can delete", func(t *testing.T) {
		rec := doRequest(t, r, http.MethodDelete, path, tokenFor(t, owner), nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		var count int64
		db.Model(&model.Answer{}).Count(&count)
		assert.Zero(t, count)
	})
}

func TestMarkBestAnswer(t *testing.T) {
	r, db := setupTest(t)
	asker := createUser(t, db, "asker", model.RoleStudent)
	answerer := createUser(t, db, "answerer", model.RoleStudent)
	bystander := createUser(t, db, "bystander", model.RoleStudent)
	instructor := createUser(t, db, "instructor", model.RoleInstructor)
	question := createQuestion(t, db, asker, "Pick the best")
	first := createAnswer(t, db, question, answerer, "first answer")
	second := createAnswer(t, db, question, bystander, "second answer")

	markBest := func(token string, answerID int64) map[string]interface{} {
		rec := doRequest(t, r, http.MethodPost,
			fmt.Sprintf("/api/answers/%d/mark-best", answerID), token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]interface{}
		decodeBody(t, rec, &resp)
		return resp
	}

	t.Run("unauthenticated is rejected", func(t *testing.T) {
		rec := doRequest(t, r, http.MethodPost,
			fmt.Sprintf("/api/answers/%d/mark-best", first.ID), "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bystander is forbidden", func(t *testing.T) {
		rec := doRequest(t, r, http.MethodPost,
			fmt.Sprintf("/api/answers/%d/mark-best", first.ID), tokenFor(t, bystander), nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("question author can mark", func(t *testing.T) {
		resp := markBest(tokenFor(t, asker), first.ID)
		assert.Equal(t, "question_author", resp["marked_by"])

		var reloaded model.Answer
		require.NoError(t, db.First(&reloaded, first.ID).Error)
		assert.True(t, reloaded.IsBestAnswer)
	})

	t.Run("instructor can mark without authorship", func(t *testing.T) {
		resp := markBest(tokenFor(t, instructor), second.ID)
		assert.Equal(t, "instructor", resp["marked_by"])
	})

	t.Run("exactly one best answer regardless of call order", func(t *testing.T) {
		markBest(tokenFor(t, asker), first.ID)
		markBest(tokenFor(t, instructor), second.ID)
		markBest(tokenFor(t, asker), first.ID)

		var best int64
		db.Model(&model.Answer{}).Where("question_id = ? AND is_best_answer = ?", question.ID, true).Count(&best)
		assert.Equal(t, int64(1), best)

		var reloaded model.Answer
		require.NoError(t, db.First(&reloaded, first.ID).Error)
		assert.True(t, reloaded.IsBestAnswer)
	})
}

func TestAnswerListOrder(t *testing.T) {
	r, db := setupTest(t)
	asker := createUser(t, db, "asker", model.RoleStudent)
	answerer := createUser(t, db, "answerer", model.RoleStudent)
	question := createQuestion(t, db, asker, "Ordered question")
	createAnswer(t, db, question, answerer, "plain answer")
	best := createAnswer(t, db, question, answerer, "accepted answer")
	require.NoError(t, db.Model(best).Update("is_best_answer", true).Error)

	rec := doRequest(t, r, http.MethodGet,
		fmt.Sprintf("/api/answers?question_id=%d", question.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []AnswerResponse
	decodeBody(t, rec, &resp)
	require.Len(t, resp, 2)
	assert.True(t, resp[0].IsBestAnswer)
}
