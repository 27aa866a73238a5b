package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studyflow/api/internal/content"
	"github.com/studyflow/api/internal/model"
	"gorm.io/gorm"
)

func currentUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func currentRole(c *gin.Context) string {
	v, exists := c.Get("role")
	if !exists {
		return ""
	}
	role, _ := v.(string)
	return role
}

// targetError maps content-resolution failures onto the HTTP taxonomy:
// unknown kind is a client mistake, a missing row is not found.
func targetError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, content.ErrUnknownKind):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid content type"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "content not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve content"})
	}
}

type voteTally struct {
	Up   int64
	Down int64
}

func (t voteTally) Net() int64 {
	return t.Up - t.Down
}

// voteTallies computes up/down counts per content id for one kind, in a
// single grouped query. Scores are always computed on demand.
func voteTallies(db *gorm.DB, kind model.ContentKind, ids []int64) (map[int64]voteTally, error) {
	tallies := make(map[int64]voteTally, len(ids))
	if len(ids) == 0 {
		return tallies, nil
	}

	type row struct {
		ContentID int64
		VoteType  string
		Count     int64
	}
	var rows []row
	err := db.Model(&model.Vote{}).
		Select("content_id, vote_type, count(*) as count").
		Where("content_type = ? AND content_id IN ?", kind, ids).
		Group("content_id").
		Group("vote_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		t := tallies[r.ContentID]
		if r.VoteType == model.VoteTypeUp {
			t.Up += r.Count
		} else {
			t.Down += r.Count
		}
		tallies[r.ContentID] = t
	}
	return tallies, nil
}

func commentCounts(db *gorm.DB, kind model.ContentKind, ids []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	type row struct {
		ContentID int64
		Count     int64
	}
	var rows []row
	err := db.Model(&model.Comment{}).
		Select("content_id, count(*) as count").
		Where("content_type = ? AND content_id IN ?", kind, ids).
		Group("content_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		counts[r.ContentID] = r.Count
	}
	return counts, nil
}

// userBrief is the author shape embedded in content responses.
type userBrief struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Role           string `json:"role"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

func briefUser(u *model.User) userBrief {
	return userBrief{
		ID:             u.ID,
		Username:       u.Username,
		Role:           u.Role,
		ProfilePicture: u.ProfilePicture,
	}
}
