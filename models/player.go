package models

import "time"

// Player is the persistent per-wallet ledger record (one row per wallet
// address, created lazily on first reference). `level` is a cached projection
// of `experience`; every write path that touches experience must recompute it
// via LevelForExperience.
type Player struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	WalletAddress string    `gorm:"uniqueIndex;not null" json:"walletAddress"`
	Username      string    `json:"username"`
	Balance       float64   `gorm:"not null;default:0" json:"currentCademBalance"`
	TotalEarned   float64   `gorm:"not null;default:0" json:"totalCademEarned"`
	Level         int       `gorm:"not null;default:1" json:"level"`
	Experience    int64     `gorm:"not null;default:0" json:"experiencePoints"`
	CreatedAt     time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// LevelForExperience is the single level formula: floor(xp/1000)+1.
func LevelForExperience(xp int64) int {
	if xp < 0 {
		xp = 0
	}
	return int(xp/1000) + 1
}

// Snapshot captures the player fields returned to clients after a mutation.
func (p *Player) Snapshot() PlayerSnapshot {
	return PlayerSnapshot{
		WalletAddress: p.WalletAddress,
		Username:      p.Username,
		Balance:       p.Balance,
		TotalEarned:   p.TotalEarned,
		Level:         p.Level,
		Experience:    p.Experience,
	}
}

// PlayerSnapshot is a read-only view of the ledger row at a point in time.
type PlayerSnapshot struct {
	WalletAddress string  `json:"walletAddress"`
	Username      string  `json:"username"`
	Balance       float64 `json:"currentCademBalance"`
	TotalEarned   float64 `json:"totalCademEarned"`
	Level         int     `json:"level"`
	Experience    int64   `json:"experiencePoints"`
}
