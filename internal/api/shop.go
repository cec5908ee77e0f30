package api

import (
	"errors"
	"net/http"

	"github.com/190dpa/literate-umbrella/internal/constants"
	"github.com/190dpa/literate-umbrella/internal/loot"
	"github.com/190dpa/literate-umbrella/internal/storage"

	"github.com/gin-gonic/gin"
)

// RollCharacter charges the character price and grants one weighted draw.
func (h *Handler) RollCharacter(c *gin.Context) {
	userID, _, ok := sessionIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}
	rolled, err := h.shop.RollCharacter(userID)
	if err != nil {
		shopError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rolled": rolled, "cost": h.shop.CharacterCost})
}

// RollWeapon charges the weapon price and grants one weighted draw.
func (h *Handler) RollWeapon(c *gin.Context) {
	userID, _, ok := sessionIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
		return
	}
	rolled, err := h.shop.RollWeapon(userID)
	if err != nil {
		shopError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rolled": rolled, "cost": h.shop.WeaponCost})
}

func shopError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrInsufficientFunds):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNotEnoughCoins})
	case errors.Is(err, loot.ErrEmptyTable):
		c.JSON(http.StatusServiceUnavailable, gin.H{constants.JSONKeyError: constants.ErrShopUnavailable})
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{constants.JSONKeyError: constants.ErrShopUnavailable, constants.JSONKeyDetails: err.Error()})
	}
}
