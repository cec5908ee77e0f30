package battle

import "time"

// Event names pushed to connected clients. Delivery only has to be ordered
// per session; the transport is the hub's concern.
const (
	EventBattleUpdate      = "battle_update"
	EventBattleEnd         = "battle_end"
	EventAwakeningStarted  = "awakening_started"
	EventAwakeningEnded    = "awakening_ended"
	EventAwakeningCutscene = "awakening_cutscene"
	EventMatchFound        = "match_found"
)

// Scheduled delays. The opponent retaliation and the awakening cutscene both
// hold the session locked until their timer fires.
const (
	OpponentTurnDelay = 1500 * time.Millisecond
	CutsceneDelay     = 3 * time.Second
)

// Emitter delivers one event to one connection. Implementations must not
// call back into the session from Emit.
type Emitter interface {
	Emit(connID string, event string, payload interface{})
}

// Scheduler runs fn once after d. Sessions own the returned stop handle for
// the rare teardown-while-scheduled case. The default implementation uses
// time.AfterFunc; tests substitute a manual one.
type Scheduler interface {
	After(d time.Duration, fn func()) (stop func())
}

type timerScheduler struct{}

// NewScheduler returns the production timer-backed scheduler.
func NewScheduler() Scheduler { return timerScheduler{} }

func (timerScheduler) After(d time.Duration, fn func()) (stop func()) {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// AwakeningView mirrors Awakening for client payloads.
type AwakeningView struct {
	Active      bool   `json:"active"`
	AbilityName string `json:"ability_name,omitempty"`
	TurnsLeft   int    `json:"turns_left"`
}

// CombatantView is one side of a snapshot.
type CombatantView struct {
	Name        string        `json:"name"`
	Health      int           `json:"health"`
	MaxHealth   int           `json:"max_health"`
	Power       int           `json:"power"`
	IsDefending bool          `json:"is_defending"`
	AbilityUsed bool          `json:"ability_used"`
	Awakened    AwakeningView `json:"awakened"`
}

// Snapshot is the perspective-swapped battle state sent to one connection:
// the receiver is always "you".
type Snapshot struct {
	SessionID string        `json:"session_id"`
	You       CombatantView `json:"you"`
	Opponent  CombatantView `json:"opponent"`
	YourTurn  bool          `json:"your_turn"`
	Locked    bool          `json:"locked"`
	Log       []string      `json:"log"`
}

// Outcome is the terminal payload for one side. SettlementFailed marks a
// battle whose rewards could not be persisted; the client surfaces it as a
// retryable support condition instead of pretending the grant landed.
type Outcome struct {
	SessionID        string `json:"session_id"`
	Won              bool   `json:"won"`
	Forfeit          bool   `json:"forfeit,omitempty"`
	Coins            int    `json:"coins"`
	XP               int    `json:"xp"`
	SettlementFailed bool   `json:"settlement_failed,omitempty"`
}

// CutscenePayload is pushed to the non-acting side of a PvP battle when the
// opponent casts an awakening. Lines and audio theme vary by caster.
type CutscenePayload struct {
	SessionID   string   `json:"session_id"`
	CasterName  string   `json:"caster_name"`
	AbilityName string   `json:"ability_name"`
	Lines       []string `json:"lines,omitempty"`
	AudioTheme  string   `json:"audio_theme,omitempty"`
}
