package services

import (
	"math"

	"github.com/destinyOrji/Cademoh/models"
	"github.com/destinyOrji/Cademoh/utils"

	"gorm.io/gorm"
)

// LeaderboardService derives ranked views from the Player ledger. Nothing is
// stored; ordering is the chosen metric descending with created_at ascending
// as the tie-break, so earlier joiners win ties and repeated reads are stable.
type LeaderboardService struct {
	DB *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{DB: db}
}

type leaderboardMetric struct {
	column string
	title  string
}

var leaderboardMetrics = map[string]leaderboardMetric{
	"tokens":     {column: "total_earned", title: "Top Token Earners"},
	"level":      {column: "level", title: "Highest Level Players"},
	"experience": {column: "experience", title: "Most Experienced Players"},
	"balance":    {column: "balance", title: "Richest Players"},
}

// LeaderboardPage is one ranked page plus pagination info.
type LeaderboardPage struct {
	Title   string                    `json:"title"`
	Metric  string                    `json:"type"`
	Entries []models.LeaderboardEntry `json:"users"`
	Total   int64                     `json:"total"`
	Limit   int                       `json:"limit"`
	Offset  int                       `json:"offset"`
	HasMore bool                      `json:"hasMore"`
}

// Rank returns one page of the board for a metric in {tokens, level,
// experience, balance}.
func (s *LeaderboardService) Rank(metric string, limit, offset int) (*LeaderboardPage, error) {
	m, ok := leaderboardMetrics[metric]
	if !ok {
		return nil, NewValidationError("invalid leaderboard type %q, use: tokens, level, experience, or balance", metric)
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var players []models.Player
	if err := s.DB.
		Order(m.column + " DESC, created_at ASC").
		Limit(limit).Offset(offset).
		Find(&players).Error; err != nil {
		return nil, err
	}

	var total int64
	if err := s.DB.Model(&models.Player{}).Count(&total).Error; err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, len(players))
	for i, p := range players {
		entries[i] = entryFor(&p, offset+i+1)
	}

	return &LeaderboardPage{
		Title:   m.title,
		Metric:  metric,
		Entries: entries,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+limit) < total,
	}, nil
}

// Position locates one player on the board: rank is the count of players
// strictly ahead plus one, plus up to five neighbors either side.
type Position struct {
	Player     models.LeaderboardEntry   `json:"user"`
	Rank       int64                     `json:"rank"`
	Total      int64                     `json:"totalUsers"`
	Percentile int                       `json:"percentile"`
	Above      []models.LeaderboardEntry `json:"usersAbove"`
	Below      []models.LeaderboardEntry `json:"usersBelow"`
}

func (s *LeaderboardService) PositionOf(metric, address string) (*Position, error) {
	m, ok := leaderboardMetrics[metric]
	if !ok {
		return nil, NewValidationError("invalid leaderboard type %q", metric)
	}

	addr := utils.CanonicalAddress(address)
	var player models.Player
	if err := s.DB.Where("wallet_address = ?", addr).First(&player).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewNotFoundError("player %s not found", addr)
		}
		return nil, err
	}

	value := metricValue(&player, metric)

	var ahead, total int64
	if err := s.DB.Model(&models.Player{}).
		Where(m.column+" > ?", value).
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

	var above []models.Player
	if err := s.DB.Where(m.column+" > ?", value).
		Order(m.column + " ASC, created_at DESC").
		Limit(5).Find(&above).Error; err != nil {
		return nil, err
	}
	// queried nearest-first; present best-first
	for i, j := 0, len(above)-1; i < j; i, j = i+1, j-1 {
		above[i], above[j] = above[j], above[i]
	}

	var below []models.Player
	if err := s.DB.Where(m.column+" < ?", value).
		Order(m.column + " DESC, created_at ASC").
		Limit(5).Find(&below).Error; err != nil {
		return nil, err
	}

	return &Position{
		Player:     entryFor(&player, int(rank)),
		Rank:       rank,
		Total:      total,
		Percentile: percentile,
		Above:      entriesFor(above),
		Below:      entriesFor(below),
	}, nil
}

// Overview summarizes the whole board for the stats endpoint.
type Overview struct {
	TotalPlayers      int64                     `json:"totalUsers"`
	TotalTokensEarned float64                   `json:"totalTokensEarned"`
	AverageLevel      int                       `json:"averageLevel"`
	TopPlayer         *models.LeaderboardEntry  `json:"topPlayer"`
	RecentPlayers     []models.LeaderboardEntry `json:"recentPlayers"`
}

func (s *LeaderboardService) Overview() (*Overview, error) {
	var total int64
	if err := s.DB.Model(&models.Player{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var totalEarned float64
	if err := s.DB.Model(&models.Player{}).
		Select("COALESCE(SUM(total_earned), 0)").
		Scan(&totalEarned).Error; err != nil {
		return nil, err
	}

	var avgLevel float64
	if err := s.DB.Model(&models.Player{}).
		Select("COALESCE(AVG(level), 1)").
		Scan(&avgLevel).Error; err != nil {
		return nil, err
	}

	overview := &Overview{
		TotalPlayers:      total,
		TotalTokensEarned: totalEarned,
		AverageLevel:      int(math.Round(avgLevel)),
	}

	var top models.Player
	err := s.DB.Order("total_earned DESC, created_at ASC").First(&top).Error
	if err == nil {
		entry := entryFor(&top, 1)
		overview.TopPlayer = &entry
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	var recent []models.Player
	if err := s.DB.Order("created_at DESC").Limit(5).Find(&recent).Error; err != nil {
		return nil, err
	}
	overview.RecentPlayers = entriesFor(recent)

	return overview, nil
}

func metricValue(p *models.Player, metric string) float64 {
	switch metric {
	case "level":
		return float64(p.Level)
	case "experience":
		return float64(p.Experience)
	case "balance":
		return p.Balance
	default:
		return p.TotalEarned
	}
}

func entryFor(p *models.Player, rank int) models.LeaderboardEntry {
	return models.LeaderboardEntry{
		Rank:          rank,
		WalletAddress: p.WalletAddress,
		Username:      p.Username,
		TotalEarned:   p.TotalEarned,
		Balance:       p.Balance,
		Level:         p.Level,
		Experience:    p.Experience,
		JoinedAt:      p.CreatedAt,
	}
}

func entriesFor(players []models.Player) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, len(players))
	for i, p := range players {
		entries[i] = entryFor(&p, 0)
	}
	return entries
}
