package models

import "time"

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionAbandoned SessionStatus = "abandoned"
)

// GameSession is the ephemeral record of one play attempt. Sessions live only
// in the session manager's in-memory index; they are never persisted and are
// swept a fixed retention window after completion.
type GameSession struct {
	SessionID         string        `json:"sessionId"`
	PlayerAddress     string        `json:"walletAddress"`
	GameID            string        `json:"gameId"`
	Status            SessionStatus `json:"status"`
	StartTime         time.Time     `json:"startTime"`
	CompletedAt       time.Time     `json:"completedAt,omitempty"`

	// Telemetry, populated at completion only.
	Score             int64 `json:"score,omitempty"`
	LevelReached      int   `json:"levelReached,omitempty"`
	TimePlayedSeconds int   `json:"timePlayed,omitempty"`
}
