package services

import (
	"errors"
	"log"
	"math"

	"github.com/destinyOrji/Cademoh/models"
	"github.com/destinyOrji/Cademoh/utils"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerService owns every mutation of the Player ledger. Reward grants go
// through a single atomic increment (never read-modify-write in application
// code) so concurrent sessions for the same player cannot lose updates.
type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

// EnsurePlayer returns the ledger row for address, creating it with default
// fields on first reference (idempotent under concurrent callers).
func (s *LedgerService) EnsurePlayer(address string) (*models.Player, error) {
	addr := utils.CanonicalAddress(address)

	var player models.Player
	err := s.DB.Where("wallet_address = ?", addr).First(&player).Error
	if err == nil {
		return &player, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := models.Player{
		ID:            uuid.NewString(),
		WalletAddress: addr,
		Username:      utils.DefaultUsername(addr),
		Level:         1,
	}
	if err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "wallet_address"}},
		DoNothing: true,
	}).Create(&fresh).Error; err != nil {
		return nil, err
	}
	// Re-read: a concurrent create may have won the conflict.
	if err := s.DB.Where("wallet_address = ?", addr).First(&player).Error; err != nil {
		return nil, err
	}
	log.Printf("✅ Created new player: %s", addr)
	return &player, nil
}

// GetPlayer fetches the ledger row without creating it.
func (s *LedgerService) GetPlayer(address string) (*models.Player, error) {
	addr := utils.CanonicalAddress(address)
	var player models.Player
	if err := s.DB.Where("wallet_address = ?", addr).First(&player).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("player %s not found", addr)
		}
		return nil, err
	}
	return &player, nil
}

// ApplyReward credits tokens and experience in one atomic increment, then
// recomputes the cached level from a fresh read taken after the increment
// commits. The two phases are required: level is a function of the
// post-increment experience and cannot be computed beforehand.
func (s *LedgerService) ApplyReward(address string, tokens float64, xp int64) (models.PlayerSnapshot, bool, error) {
	if tokens < 0 || xp < 0 {
		return models.PlayerSnapshot{}, false, NewValidationError("reward amounts must be non-negative")
	}
	addr := utils.CanonicalAddress(address)
	if _, err := s.EnsurePlayer(addr); err != nil {
		return models.PlayerSnapshot{}, false, err
	}

	if err := s.DB.Model(&models.Player{}).
		Where("wallet_address = ?", addr).
		Updates(map[string]interface{}{
			"balance":      gorm.Expr("balance + ?", tokens),
			"total_earned": gorm.Expr("total_earned + ?", tokens),
			"experience":   gorm.Expr("experience + ?", xp),
		}).Error; err != nil {
		return models.PlayerSnapshot{}, false, err
	}

	var player models.Player
	if err := s.DB.Where("wallet_address = ?", addr).First(&player).Error; err != nil {
		return models.PlayerSnapshot{}, false, err
	}

	leveledUp := false
	if newLevel := models.LevelForExperience(player.Experience); newLevel > player.Level {
		if err := s.DB.Model(&models.Player{}).
			Where("wallet_address = ?", addr).
			Update("level", newLevel).Error; err != nil {
			return models.PlayerSnapshot{}, false, err
		}
		player.Level = newLevel
		leveledUp = true
		log.Printf("🎉 %s leveled up to %d!", addr, newLevel)
	}

	return player.Snapshot(), leveledUp, nil
}

// OverwriteBalance sets the balance to the given value, last write wins.
// Reconciliation treats the balance source as ground truth, so the locally
// accrued balance is replaced, not merged.
func (s *LedgerService) OverwriteBalance(address string, balance float64) (models.PlayerSnapshot, error) {
	if balance < 0 {
		balance = 0
	}
	addr := utils.CanonicalAddress(address)
	if _, err := s.EnsurePlayer(addr); err != nil {
		return models.PlayerSnapshot{}, err
	}
	if err := s.DB.Model(&models.Player{}).
		Where("wallet_address = ?", addr).
		Update("balance", balance).Error; err != nil {
		return models.PlayerSnapshot{}, err
	}
	var player models.Player
	if err := s.DB.Where("wallet_address = ?", addr).First(&player).Error; err != nil {
		return models.PlayerSnapshot{}, err
	}
	return player.Snapshot(), nil
}

// UpdateUsername stores a slug-normalized display name.
func (s *LedgerService) UpdateUsername(address, username string) (*models.Player, error) {
	normalized := slug.Make(username)
	if normalized == "" {
		return nil, NewValidationError("username is required")
	}
	player, err := s.GetPlayer(address)
	if err != nil {
		return nil, err
	}
	if err := s.DB.Model(player).Update("username", normalized).Error; err != nil {
		return nil, err
	}
	player.Username = normalized
	return player, nil
}

// PlayerStats bundles the ledger row with ranking and level-progress data
// for the per-player stats endpoints.
type PlayerStats struct {
	Player       models.PlayerSnapshot `json:"user"`
	Rank         int64                 `json:"rank"`
	TotalPlayers int64                 `json:"totalUsers"`
	Percentile   int                   `json:"percentile"`

	CurrentLevelXP  int64 `json:"currentLevelXP"`
	NextLevelXP     int64 `json:"nextLevelXP"`
	ProgressPercent int   `json:"progressPercent"`
}

// GetPlayerStats computes rank by lifetime earnings plus progress toward the
// next level.
func (s *LedgerService) GetPlayerStats(address string) (*PlayerStats, error) {
	player, err := s.GetPlayer(address)
	if err != nil {
		return nil, err
	}

	var ahead, total int64
	if err := s.DB.Model(&models.Player{}).
		Where("total_earned > ?", player.TotalEarned).
		Count(&ahead).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Player{}).Count(&total).Error; err != nil {
		return nil, err
	}

	rank := ahead + 1
	percentile := 0
	if total > 0 {
		percentile = int(math.Round((1 - float64(rank-1)/float64(total)) * 100))
	}

	currentLevelXP := player.Experience % 1000
	return &PlayerStats{
		Player:          player.Snapshot(),
		Rank:            rank,
		TotalPlayers:    total,
		Percentile:      percentile,
		CurrentLevelXP:  currentLevelXP,
		NextLevelXP:     1000,
		ProgressPercent: int(math.Round(float64(currentLevelXP) / 10)),
	}, nil
}
