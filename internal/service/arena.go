package service

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/190dpa/literate-umbrella/internal/battle"
	"github.com/190dpa/literate-umbrella/internal/build"
	"github.com/190dpa/literate-umbrella/internal/game"
	"github.com/190dpa/literate-umbrella/internal/logging"
	"github.com/190dpa/literate-umbrella/internal/match"
	"github.com/190dpa/literate-umbrella/internal/storage"
)

var ErrNoOpponents = errors.New("no scripted opponents configured")

// Arena orchestrates battle starts, matchmaking and disconnect handling. It
// owns the injectable registries so handlers and tests never touch ambient
// state.
type Arena struct {
	repo     storage.Repository
	catalog  *game.Catalog
	registry *battle.Registry
	queue    *match.Queue
	sched    battle.Scheduler
	emit     battle.Emitter
	settle   battle.Settler

	mu  sync.Mutex
	rng *rand.Rand
}

// NewArena wires the registries together. alive reports whether a connection
// is still valid; the queue consults it at pairing time.
func NewArena(repo storage.Repository, catalog *game.Catalog, sched battle.Scheduler, emit battle.Emitter, settle battle.Settler, alive match.AliveFunc) *Arena {
	a := &Arena{
		repo:     repo,
		catalog:  catalog,
		registry: battle.NewRegistry(),
		sched:    sched,
		emit:     emit,
		settle:   settle,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	a.queue = match.NewQueue(alive, a.startPvp)
	return a
}

// Registry exposes the live-session index for inbound action routing.
func (a *Arena) Registry() *battle.Registry { return a.registry }

// Queue exposes the matchmaking queue.
func (a *Arena) Queue() *match.Queue { return a.queue }

// BuildFor recomputes the player's combat build from their current
// inventory. Called fresh at every battle start, never cached.
func (a *Arena) BuildFor(userID uint) (*game.User, build.PlayerBuild, error) {
	u, err := a.repo.GetUserByID(userID)
	if err != nil {
		return nil, build.PlayerBuild{}, err
	}
	ownedC, err := a.repo.GetOwnedCollectibles(userID)
	if err != nil {
		return nil, build.PlayerBuild{}, err
	}
	ownedW, err := a.repo.GetOwnedWeapons(userID)
	if err != nil {
		return nil, build.PlayerBuild{}, err
	}
	b := build.Compute(u.Strength, u.Vitality,
		a.catalog.ResolveCollectibles(ownedC),
		a.catalog.ResolveWeapons(ownedW))
	return u, b, nil
}

func (a *Arena) combatant(u *game.User, b build.PlayerBuild, connID string) battle.Combatant {
	return battle.Combatant{
		UserID:    u.ID,
		ConnID:    connID,
		Name:      u.Username,
		Health:    b.TotalHealth,
		MaxHealth: b.TotalHealth,
		Power:     b.TotalPower,
		Ability:   b.Ability(),
	}
}

func (a *Arena) newSessionID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func (a *Arena) newDice() battle.Dice {
	a.mu.Lock()
	defer a.mu.Unlock()
	return battle.NewDice(a.rng.Int63())
}

// StartPve creates a single-player battle against a uniformly chosen
// scripted opponent and returns the initial snapshot.
func (a *Arena) StartPve(userID uint, connID string) (battle.Snapshot, error) {
	// Starting a battle supersedes any pending matchmaking request.
	a.queue.Remove(connID)
	u, b, err := a.BuildFor(userID)
	if err != nil {
		return battle.Snapshot{}, err
	}
	opponents := a.catalog.Opponents()
	if len(opponents) == 0 {
		return battle.Snapshot{}, ErrNoOpponents
	}
	a.mu.Lock()
	opp := opponents[a.rng.Intn(len(opponents))]
	a.mu.Unlock()

	s := battle.NewPveSession(a.newSessionID("pve"), a.combatant(u, b, connID), opp, a.newDice(), a.sched, a.emit, a.settle)
	if err := a.registry.Add(s); err != nil {
		return battle.Snapshot{}, err
	}
	logging.Info("pve battle started", logging.Fields{"user_id": userID, "session": s.ID(), "opponent": opp.Name})
	return s.Snapshot(), nil
}

// EnqueueForMatch computes the player's build and joins the matchmaking
// queue. Returns true when the request paired immediately.
func (a *Arena) EnqueueForMatch(userID uint, connID string) (paired bool, err error) {
	if s, ok := a.registry.ByUser(userID); ok && !s.Done() {
		return false, battle.ErrAlreadyInBattle
	}
	u, b, err := a.BuildFor(userID)
	if err != nil {
		return false, err
	}
	entry := match.Entry{UserID: u.ID, Name: u.Username, ConnID: connID, Build: b}
	// The queue reports dequeueing, not completion: an aborted pairing puts
	// the entry back. The registry is the authority on a formed match.
	a.queue.Enqueue(entry)
	if s, ok := a.registry.ByUser(u.ID); ok && !s.Done() {
		return true, nil
	}
	return false, nil
}

// startPvp is the queue's pairing callback: both entries were validated
// alive moments ago, so construct the shared session and notify both sides.
func (a *Arena) startPvp(e1, e2 match.Entry) {
	u1, err := a.repo.GetUserByID(e1.UserID)
	if err != nil {
		logging.Error("pairing failed to load user", err, logging.Fields{"user_id": e1.UserID})
		return
	}
	u2, err := a.repo.GetUserByID(e2.UserID)
	if err != nil {
		logging.Error("pairing failed to load user", err, logging.Fields{"user_id": e2.UserID})
		return
	}

	s := battle.NewPvpSession(a.newSessionID("pvp"),
		a.combatant(u1, e1.Build, e1.ConnID),
		a.combatant(u2, e2.Build, e2.ConnID),
		a.newDice(), a.sched, a.emit, a.settle)
	if err := a.registry.Add(s); err != nil {
		logging.Error("pairing aborted", err, logging.Fields{"session": s.ID()})
		// One side entered another battle between enqueue and pairing.
		// The side that is still free keeps its place in line.
		for _, e := range []match.Entry{e2, e1} {
			if live, ok := a.registry.ByUser(e.UserID); ok && !live.Done() {
				continue
			}
			a.queue.Requeue(e)
		}
		return
	}
	logging.Info("pvp battle started", logging.Fields{"session": s.ID(), "p1": u1.Username, "p2": u2.Username})

	a.emit.Emit(e1.ConnID, battle.EventMatchFound, s.SnapshotFor(e1.UserID))
	a.emit.Emit(e2.ConnID, battle.EventMatchFound, s.SnapshotFor(e2.UserID))
}

// Submit routes one action to the session bound to the connection.
func (a *Arena) Submit(connID string, action battle.Action) (battle.Snapshot, error) {
	s, ok := a.registry.ByConn(connID)
	if !ok {
		return battle.Snapshot{}, battle.ErrStaleSession
	}
	var snap battle.Snapshot
	var err error
	switch sess := s.(type) {
	case *battle.PveSession:
		snap, err = sess.Submit(action)
	case *battle.PvpSession:
		var userID uint
		for _, p := range sess.Participants() {
			if p.ConnID == connID {
				userID = p.UserID
			}
		}
		snap, err = sess.Submit(userID, action)
	default:
		return battle.Snapshot{}, battle.ErrStaleSession
	}
	if s.Done() {
		a.registry.Remove(s.ID())
	}
	return snap, err
}

// OnDisconnect removes the connection from the queue and ends any live
// session it was part of: forfeit for PvP, silent abandonment for PvE.
func (a *Arena) OnDisconnect(connID string) {
	a.queue.Remove(connID)
	s, ok := a.registry.ByConn(connID)
	if !ok {
		return
	}
	switch sess := s.(type) {
	case *battle.PveSession:
		sess.Abandon()
	case *battle.PvpSession:
		sess.Forfeit(connID)
	}
	a.registry.Remove(s.ID())
}
