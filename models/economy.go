package models

import "time"

// RewardBreakdown itemizes every term of a session reward so clients (and
// tests) can audit how the total was produced. Bonus terms are floored for
// display; the total is floored once, after the multiplier.
type RewardBreakdown struct {
	Base       int     `json:"base"`
	ScoreBonus int     `json:"scoreBonus"`
	TimeBonus  int     `json:"timeBonus"`
	LevelBonus int     `json:"levelBonus"`
	Multiplier float64 `json:"multiplier"`
	Total      int64   `json:"total"`
}

// GameRewards is the output of the reward calculator.
type GameRewards struct {
	Tokens     int64           `json:"tokens"`
	Experience int64           `json:"experience"`
	Breakdown  RewardBreakdown `json:"breakdown"`
}

// LeaderboardEntry is derived on read from Player rows; never stored.
type LeaderboardEntry struct {
	Rank          int       `json:"rank"`
	WalletAddress string    `json:"walletAddress"`
	Username      string    `json:"username"`
	TotalEarned   float64   `json:"totalCademEarned"`
	Balance       float64   `json:"currentCademBalance"`
	Level         int       `json:"level"`
	Experience    int64     `json:"experiencePoints"`
	JoinedAt      time.Time `json:"joinedAt"`
}

// NFT is a display descriptor for one asset in a wallet's inventory.
type NFT struct {
	TokenID int64  `json:"tokenId"`
	Name    string `json:"name"`
	Image   string `json:"image"`
	Rarity  string `json:"rarity"`
}

// NetworkInfo describes the chain a balance source reads from.
type NetworkInfo struct {
	Name      string `json:"name"`
	ChainID   int64  `json:"chainId"`
	Connected bool   `json:"connected"`
}
