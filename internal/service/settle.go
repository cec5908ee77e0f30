package service

import (
	"github.com/190dpa/literate-umbrella/internal/battle"
	"github.com/190dpa/literate-umbrella/internal/logging"
	"github.com/190dpa/literate-umbrella/internal/progression"
	"github.com/190dpa/literate-umbrella/internal/storage"
)

// LevelUpNotifier receives one call per level gained during settlement so
// the transport can push level-up events to the player.
type LevelUpNotifier func(userID uint, up progression.LevelUp)

// Settlement applies terminal battle rewards: coins through the atomic
// wallet update, XP through the progression tracker with a single persist,
// and win/loss tallies. It implements battle.Settler.
type Settlement struct {
	repo   storage.Repository
	notify LevelUpNotifier
}

func NewSettlement(repo storage.Repository, notify LevelUpNotifier) *Settlement {
	if notify == nil {
		notify = func(uint, progression.LevelUp) {}
	}
	return &Settlement{repo: repo, notify: notify}
}

// SettlePve grants the fixed win reward or applies the loss penalty
// (clamped at zero by the wallet update).
func (s *Settlement) SettlePve(userID uint, won bool) error {
	if !won {
		if err := s.repo.AdjustCoins(userID, -battle.PveLossPenalty); err != nil {
			return err
		}
		return s.repo.RecordResult(0, userID)
	}
	if err := s.repo.AdjustCoins(userID, battle.PveWinCoins); err != nil {
		return err
	}
	if err := s.grantXP(userID, battle.PveWinXP); err != nil {
		return err
	}
	return s.repo.RecordResult(userID, 0)
}

// SettlePvp rewards the winner only; the loser keeps their coins.
func (s *Settlement) SettlePvp(winnerID, loserID uint) error {
	if err := s.repo.AdjustCoins(winnerID, battle.PvpWinCoins); err != nil {
		return err
	}
	if err := s.grantXP(winnerID, battle.PvpWinXP); err != nil {
		return err
	}
	return s.repo.RecordResult(winnerID, loserID)
}

// grantXP runs the level-up loop on a fresh record and persists it once.
func (s *Settlement) grantXP(userID uint, amount int) error {
	u, err := s.repo.GetUserByID(userID)
	if err != nil {
		return err
	}
	ups := progression.GainXP(u, amount)
	if err := s.repo.SaveUser(u); err != nil {
		return err
	}
	for _, up := range ups {
		logging.Info("level up", logging.Fields{"user_id": userID, "level": up.Level})
		s.notify(userID, up)
	}
	return nil
}
