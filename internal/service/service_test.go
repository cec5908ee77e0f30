package service

import (
	"time"

	"github.com/190dpa/literate-umbrella/internal/game"
	"github.com/190dpa/literate-umbrella/internal/storage"
)

// mockRepo is the in-memory Repository used across the service tests.
type mockRepo struct {
	users        map[uint]*game.User
	collectibles map[uint][]game.OwnedCollectible
	weapons      map[uint][]game.OwnedWeapon

	coinCalls  []coinCall
	saved      []*game.User
	results    []resultCall
	purchases  []string
	purchaseErr error
}

type coinCall struct {
	userID uint
	delta  int
}

type resultCall struct {
	winnerID uint
	loserID  uint
}

func newMockRepo(users ...*game.User) *mockRepo {
	m := &mockRepo{
		users:        map[uint]*game.User{},
		collectibles: map[uint][]game.OwnedCollectible{},
		weapons:      map[uint][]game.OwnedWeapon{},
	}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockRepo) CreateUser(u *game.User) error {
	u.ID = uint(len(m.users) + 1)
	m.users[u.ID] = u
	return nil
}

func (m *mockRepo) GetUserByID(id uint) (*game.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockRepo) GetUserByUsername(username string) (*game.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockRepo) GetUserByEmail(email string) (*game.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockRepo) SaveUser(u *game.User) error {
	m.saved = append(m.saved, u)
	m.users[u.ID] = u
	return nil
}

func (m *mockRepo) AdjustCoins(userID uint, delta int) error {
	m.coinCalls = append(m.coinCalls, coinCall{userID: userID, delta: delta})
	if u, ok := m.users[userID]; ok {
		u.Coins += delta
		if u.Coins < 0 {
			u.Coins = 0
		}
	}
	return nil
}

func (m *mockRepo) GetOwnedCollectibles(userID uint) ([]game.OwnedCollectible, error) {
	return m.collectibles[userID], nil
}

func (m *mockRepo) GetOwnedWeapons(userID uint) ([]game.OwnedWeapon, error) {
	return m.weapons[userID], nil
}

func (m *mockRepo) GrantCollectible(userID uint, templateName string) error {
	m.collectibles[userID] = append(m.collectibles[userID], game.OwnedCollectible{UserID: userID, TemplateName: templateName})
	return nil
}

func (m *mockRepo) GrantWeapon(userID uint, templateName string) error {
	m.weapons[userID] = append(m.weapons[userID], game.OwnedWeapon{UserID: userID, TemplateName: templateName})
	return nil
}

func (m *mockRepo) PurchaseCollectible(userID uint, cost int, templateName string) error {
	if m.purchaseErr != nil {
		return m.purchaseErr
	}
	m.purchases = append(m.purchases, templateName)
	if err := m.AdjustCoins(userID, -cost); err != nil {
		return err
	}
	return m.GrantCollectible(userID, templateName)
}

func (m *mockRepo) PurchaseWeapon(userID uint, cost int, templateName string) error {
	if m.purchaseErr != nil {
		return m.purchaseErr
	}
	m.purchases = append(m.purchases, templateName)
	if err := m.AdjustCoins(userID, -cost); err != nil {
		return err
	}
	return m.GrantWeapon(userID, templateName)
}

func (m *mockRepo) RecordResult(winnerID, loserID uint) error {
	m.results = append(m.results, resultCall{winnerID: winnerID, loserID: loserID})
	return nil
}

func (m *mockRepo) GetTopPlayers(limit int) ([]game.User, error) {
	out := make([]game.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

// manualSched and recordEmitter mirror the battle test doubles for arena
// level scenarios.
type manualSched struct {
	fns []func()
}

func (s *manualSched) After(d time.Duration, fn func()) (stop func()) {
	idx := len(s.fns)
	s.fns = append(s.fns, fn)
	return func() { s.fns[idx] = nil }
}

type emitted struct {
	connID  string
	event   string
	payload interface{}
}

type recordEmitter struct {
	events []emitted
}

func (e *recordEmitter) Emit(connID string, event string, payload interface{}) {
	e.events = append(e.events, emitted{connID: connID, event: event, payload: payload})
}

func (e *recordEmitter) count(event string) int {
	n := 0
	for _, ev := range e.events {
		if ev.event == event {
			n++
		}
	}
	return n
}
