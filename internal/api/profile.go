package api

import (
	"net/http"

	"github.com/190dpa/literate-umbrella/internal/constants"

	"github.com/gin-gonic/gin"
)

// GetProfile returns the account record plus a preview of the combat build
// derived from the current inventory.
func (h *Handler) GetProfile(c *gin.Context) {
	userID, _, ok := sessionIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}
	u, b, err := h.arena.BuildFor(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrUserNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user": u,
		"build": gin.H{
			"total_power":  b.TotalPower,
			"total_health": b.TotalHealth,
			"weapon_bonus": b.WeaponBonus,
			"ability": func() interface{} {
				if a := b.Ability(); a != nil {
					return a
				}
				return nil
			}(),
		},
	})
}

type AllocateStatsRequest struct {
	Strength int `json:"strength"`
	Vitality int `json:"vitality"`
}

// AllocateStats spends banked stat points on base attributes.
func (h *Handler) AllocateStats(c *gin.Context) {
	userID, _, ok := sessionIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}
	var req AllocateStatsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Strength < 0 || req.Vitality < 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	spend := req.Strength + req.Vitality
	if spend == 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	u, err := h.repo.GetUserByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrUserNotFound})
		return
	}
	if u.StatPoints < spend {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNotEnoughStatPoints})
		return
	}
	u.StatPoints -= spend
	u.Strength += req.Strength
	u.Vitality += req.Vitality
	if err := h.repo.SaveUser(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	c.JSON(http.StatusOK, u)
}

// GetInventory lists the player's owned collectibles and weapons resolved
// against the catalog.
func (h *Handler) GetInventory(c *gin.Context) {
	userID, _, ok := sessionIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}
	ownedC, err := h.repo.GetOwnedCollectibles(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchInventory})
		return
	}
	ownedW, err := h.repo.GetOwnedWeapons(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchInventory})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"collectibles": h.catalog.ResolveCollectibles(ownedC),
		"weapons":      h.catalog.ResolveWeapons(ownedW),
	})
}
