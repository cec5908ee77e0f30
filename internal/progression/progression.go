// Package progression handles experience accrual and level-up resolution.
package progression

import (
	"math"

	"github.com/190dpa/literate-umbrella/internal/game"
)

// StatPointsPerLevel is granted on every level gained.
const StatPointsPerLevel = 5

// LevelUp describes one gained level. A single GainXP call can produce
// several when the overflow rolls through multiple thresholds.
type LevelUp struct {
	Level      int `json:"level"`
	StatPoints int `json:"stat_points"`
}

// XPToNext returns the experience required to clear the given level.
func XPToNext(level int) int {
	return int(math.Floor(100 * math.Pow(float64(level), 1.5)))
}

// GainXP adds amount to the user's experience and resolves every level-up
// the overflow produces, recomputing the threshold with the new level each
// iteration. It mutates the record in memory and returns one LevelUp per
// level gained; the caller persists the final record once.
func GainXP(u *game.User, amount int) []LevelUp {
	if amount < 0 {
		amount = 0
	}
	if u.Level < 1 {
		u.Level = 1
	}
	if u.XPToNextLevel <= 0 {
		u.XPToNextLevel = XPToNext(u.Level)
	}

	u.XP += amount
	var ups []LevelUp
	for u.XP >= u.XPToNextLevel {
		u.XP -= u.XPToNextLevel
		u.Level++
		u.StatPoints += StatPointsPerLevel
		u.XPToNextLevel = XPToNext(u.Level)
		ups = append(ups, LevelUp{Level: u.Level, StatPoints: StatPointsPerLevel})
	}
	return ups
}
