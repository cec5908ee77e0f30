package api

import (
	"net/http"
	"strconv"

	"github.com/190dpa/literate-umbrella/internal/constants"
	"github.com/190dpa/literate-umbrella/internal/dedupe"
	"github.com/190dpa/literate-umbrella/internal/game"

	"github.com/gin-gonic/gin"
)

// ListLeaderboard returns the top players, limited to 10 by default.
// Concurrent requests for the same limit collapse into one query.
func (h *Handler) ListLeaderboard(c *gin.Context) {
	limit := 10
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	v, err, _ := dedupe.LeaderboardGroup.Do("top:"+strconv.Itoa(limit), func() (interface{}, error) {
		return h.repo.GetTopPlayers(limit)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLeaderboard})
		return
	}
	users := v.([]game.User)
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{
			"username": u.Username,
			"level":    u.Level,
			"wins":     u.Wins,
			"losses":   u.Losses,
		})
	}
	c.JSON(http.StatusOK, out)
}
