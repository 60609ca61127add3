package services

import (
	"log"
	"sync"
	"time"

	"github.com/destinyOrji/Cademoh/models"
	"github.com/destinyOrji/Cademoh/utils"

	"github.com/google/uuid"
)

const (
	// Completed and abandoned sessions stay readable for an hour, then the
	// sweep drops them.
	sessionRetention = time.Hour
	// An active session with no EndSession after this long is considered
	// walked away from.
	sessionAbandonAfter = 24 * time.Hour
)

// SessionService owns the in-memory index of active play sessions and is the
// sole mutator of session status. The clock is injected so tests can drive
// retention and abandonment deterministically.
type SessionService struct {
	ledger *LedgerService

	mu       sync.Mutex
	sessions map[string]*models.GameSession
	now      func() time.Time
}

func NewSessionService(ledger *LedgerService) *SessionService {
	return &SessionService{
		ledger:   ledger,
		sessions: make(map[string]*models.GameSession),
		now:      time.Now,
	}
}

// StartSessionResult pairs the fresh session with a player snapshot for
// immediate UI feedback.
type StartSessionResult struct {
	Session models.GameSession    `json:"session"`
	Player  models.PlayerSnapshot `json:"user"`
}

// StartSession validates the address, lazily creates the player, and indexes
// a new active session.
func (s *SessionService) StartSession(playerAddress, gameID string) (*StartSessionResult, error) {
	if !utils.IsValidAddress(playerAddress) {
		return nil, NewValidationError("invalid wallet address format")
	}
	if gameID == "" {
		return nil, NewValidationError("gameId is required")
	}

	player, err := s.ledger.EnsurePlayer(playerAddress)
	if err != nil {
		return nil, err
	}

	session := &models.GameSession{
		SessionID:     uuid.NewString(),
		PlayerAddress: player.WalletAddress,
		GameID:        gameID,
		Status:        models.SessionActive,
		StartTime:     s.now(),
	}

	s.mu.Lock()
	s.sessions[session.SessionID] = session
	s.mu.Unlock()

	log.Printf("🎮 Started game session %s for %s (%s)", session.SessionID, player.WalletAddress, gameID)
	return &StartSessionResult{Session: *session, Player: player.Snapshot()}, nil
}

// EndSessionInput is the telemetry a client submits when a play ends. GameID
// overrides the session's stored game for the multiplier lookup when set.
type EndSessionInput struct {
	SessionID         string
	PlayerAddress     string
	Score             int64
	TimePlayedSeconds int
	LevelReached      int
	GameID            string
}

// EndSessionResult carries the reward breakdown, updated ledger snapshot and
// sealed session telemetry.
type EndSessionResult struct {
	SessionID         string
	Rewards           models.GameRewards
	Player            models.PlayerSnapshot
	LeveledUp         bool
	DurationSeconds   int
	Score             int64
	LevelReached      int
	TimePlayedSeconds int
}

// EndSession seals the session and applies the computed reward exactly once.
// The status flip happens under the index lock before the ledger write, so a
// concurrent or repeated call for the same id always fails with a conflict
// and can never re-apply the reward.
func (s *SessionService) EndSession(in EndSessionInput) (*EndSessionResult, error) {
	addr := utils.CanonicalAddress(in.PlayerAddress)

	s.mu.Lock()
	session, ok := s.sessions[in.SessionID]
	if !ok || session.PlayerAddress != addr {
		s.mu.Unlock()
		return nil, NewNotFoundError("session %s not found for %s", in.SessionID, addr)
	}
	if session.Status != models.SessionActive {
		s.mu.Unlock()
		return nil, NewConflictError("session %s already completed", in.SessionID)
	}

	score := in.Score
	if score < 0 {
		score = 0
	}
	timePlayed := in.TimePlayedSeconds
	if timePlayed < 0 {
		timePlayed = 0
	}
	levelReached := in.LevelReached
	if levelReached < 1 {
		levelReached = 1
	}
	gameID := session.GameID
	if in.GameID != "" {
		gameID = in.GameID
	}

	now := s.now()
	session.Status = models.SessionCompleted
	session.CompletedAt = now
	session.Score = score
	session.LevelReached = levelReached
	session.TimePlayedSeconds = timePlayed
	duration := int(now.Sub(session.StartTime).Seconds())
	s.mu.Unlock()

	rewards := CalculateRewards(score, timePlayed, levelReached, gameID)
	player, leveledUp, err := s.ledger.ApplyReward(addr, float64(rewards.Tokens), rewards.Experience)
	if err != nil {
		return nil, err
	}

	log.Printf("🏆 Game completed: %s, rewards: %d CADEM, %d XP", in.SessionID, rewards.Tokens, rewards.Experience)
	return &EndSessionResult{
		SessionID:         in.SessionID,
		Rewards:           rewards,
		Player:            player,
		LeveledUp:         leveledUp,
		DurationSeconds:   duration,
		Score:             score,
		LevelReached:      levelReached,
		TimePlayedSeconds: timePlayed,
	}, nil
}

// SessionView is a session copy with its live-computed duration.
type SessionView struct {
	models.GameSession
	DurationSeconds int `json:"duration"`
}

// GetSession returns a read-only copy; duration runs against the clock while
// the session is active and freezes at completion.
func (s *SessionService) GetSession(sessionID string) (*SessionView, error) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, NewNotFoundError("session %s not found", sessionID)
	}
	view := SessionView{GameSession: *session}
	s.mu.Unlock()

	end := view.CompletedAt
	if view.Status == models.SessionActive || end.IsZero() {
		end = s.now()
	}
	view.DurationSeconds = int(end.Sub(view.StartTime).Seconds())
	return &view, nil
}

// ActiveCount reports the number of indexed sessions still active.
func (s *SessionService) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, session := range s.sessions {
		if session.Status == models.SessionActive {
			n++
		}
	}
	return n
}

// Sweep drops completed and abandoned sessions past the retention window and
// marks long-idle active sessions abandoned. Driven by the scheduler, but
// callable directly so tests control time.
func (s *SessionService) Sweep() int {
	now := s.now()
	removed := 0

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, session := range s.sessions {
		switch session.Status {
		case models.SessionActive:
			if now.Sub(session.StartTime) >= sessionAbandonAfter {
				session.Status = models.SessionAbandoned
				session.CompletedAt = now
			}
		default:
			if now.Sub(session.CompletedAt) >= sessionRetention {
				delete(s.sessions, id)
				removed++
			}
		}
	}
	return removed
}
