package api

import (
	"github.com/190dpa/literate-umbrella/internal/game"
	"github.com/190dpa/literate-umbrella/internal/service"
	"github.com/190dpa/literate-umbrella/internal/storage"
)

// Handler groups the HTTP surface around the arena core: auth, profile,
// shop, inventory and the websocket upgrade.
type Handler struct {
	repo    storage.Repository
	catalog *game.Catalog
	shop    *service.Shop
	arena   *service.Arena
}

func NewHandler(repo storage.Repository, catalog *game.Catalog, shop *service.Shop, arena *service.Arena) *Handler {
	return &Handler{repo: repo, catalog: catalog, shop: shop, arena: arena}
}
