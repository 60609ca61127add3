package services

import (
	"math"

	"github.com/destinyOrji/Cademoh/models"
)

// GameMultipliers maps a game id to its reward multiplier. This is a policy
// table, not session state; unmapped games earn 1.0. Extend as games ship.
var GameMultipliers = map[string]float64{
	"puzzle_quest":  1.0,
	"tower_defense": 1.2,
	"racing_game":   0.8,
	"strategy_game": 1.5,
}

const (
	baseRewardTokens = 10.0
	baseRewardXP     = 50.0
)

// CalculateRewards maps session telemetry to a token/XP grant. Pure: no
// clock, no store, no randomness. Inputs are clamped to non-negative so no
// telemetry can produce a negative reward.
//
// Token terms:
//   - score bonus: score * 0.01, capped at the base so score cannot dominate
//   - time bonus: full 20%-of-base for 2-5 minutes of play, diminishing past
//     5 minutes down to zero, nothing under 2 minutes
//   - level bonus: 2 per level reached
//
// tokens = floor((base + scoreBonus + timeBonus + levelBonus) * multiplier)
// xp     = floor((baseXP + score*0.1 + levelReached*10) * multiplier)
func CalculateRewards(score int64, timePlayedSeconds, levelReached int, gameID string) models.GameRewards {
	if score < 0 {
		score = 0
	}
	if timePlayedSeconds < 0 {
		timePlayedSeconds = 0
	}
	if levelReached < 0 {
		levelReached = 0
	}

	multiplier, ok := GameMultipliers[gameID]
	if !ok {
		multiplier = 1.0
	}

	scoreBonus := math.Min(float64(score)*0.01, baseRewardTokens)

	var timeBonus float64
	switch {
	case timePlayedSeconds >= 120 && timePlayedSeconds <= 300:
		timeBonus = baseRewardTokens * 0.2
	case timePlayedSeconds > 300:
		timeBonus = math.Max(0, baseRewardTokens*0.1-float64(timePlayedSeconds-300)*0.1)
	}

	levelBonus := float64(levelReached * 2)

	tokens := int64(math.Floor((baseRewardTokens + scoreBonus + timeBonus + levelBonus) * multiplier))
	xp := int64(math.Floor((baseRewardXP + float64(score)*0.1 + float64(levelReached)*10) * multiplier))

	return models.GameRewards{
		Tokens:     tokens,
		Experience: xp,
		Breakdown: models.RewardBreakdown{
			Base:       int(baseRewardTokens),
			ScoreBonus: int(math.Floor(scoreBonus)),
			TimeBonus:  int(math.Floor(timeBonus)),
			LevelBonus: levelReached * 2,
			Multiplier: multiplier,
			Total:      tokens,
		},
	}
}
