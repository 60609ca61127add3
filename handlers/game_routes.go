// handlers/game_routes.go
package handlers

import (
	"github.com/destinyOrji/Cademoh/services"
	"github.com/destinyOrji/Cademoh/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupGameRoutes(app *fiber.App, sessions *services.SessionService, ledger *services.LedgerService) {
	game := app.Group("/api/game")

	game.Post("/sessions/start", func(c *fiber.Ctx) error {
		var req struct {
			WalletAddress string `json:"walletAddress"`
			GameID        string `json:"gameId"`
		}
		if err := c.BodyParser(&req); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
		}
		if req.WalletAddress == "" || req.GameID == "" {
			return errorJSON(c, fiber.StatusBadRequest, "walletAddress and gameId are required")
		}
		if !utils.IsValidAddress(req.WalletAddress) {
			return errorJSON(c, fiber.StatusBadRequest, "invalid wallet address format")
		}

		res, err := sessions.StartSession(req.WalletAddress, req.GameID)
		if err != nil {
			return respondError(c, err)
		}
		return dataJSON(c, fiber.Map{
			"sessionId":     res.Session.SessionID,
			"walletAddress": res.Session.PlayerAddress,
			"gameId":        res.Session.GameID,
			"startTime":     res.Session.StartTime,
			"user": fiber.Map{
				"level":          res.Player.Level,
				"currentBalance": res.Player.Balance,
				"totalEarned":    res.Player.TotalEarned,
			},
		})
	})

	game.Post("/sessions/end", func(c *fiber.Ctx) error {
		var req struct {
			SessionID     string `json:"sessionId"`
			WalletAddress string `json:"walletAddress"`
			Score         int64  `json:"score"`
			TimePlayed    int    `json:"timePlayed"`
			LevelReached  int    `json:"levelReached"`
			GameID        string `json:"gameId"`
		}
		if err := c.BodyParser(&req); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
		}
		if req.SessionID == "" || req.WalletAddress == "" {
			return errorJSON(c, fiber.StatusBadRequest, "sessionId and walletAddress are required")
		}
		if !utils.IsValidAddress(req.WalletAddress) {
			return errorJSON(c, fiber.StatusBadRequest, "invalid wallet address format")
		}

		res, err := sessions.EndSession(services.EndSessionInput{
			SessionID:         req.SessionID,
			PlayerAddress:     req.WalletAddress,
			Score:             req.Score,
			TimePlayedSeconds: req.TimePlayed,
			LevelReached:      req.LevelReached,
			GameID:            req.GameID,
		})
		if err != nil {
			return respondError(c, err)
		}
		return dataJSON(c, fiber.Map{
			"sessionId": res.SessionID,
			"rewards": fiber.Map{
				"tokens":     res.Rewards.Tokens,
				"experience": res.Rewards.Experience,
				"breakdown":  res.Rewards.Breakdown,
			},
			"user": fiber.Map{
				"newBalance":       res.Player.Balance,
				"totalEarned":      res.Player.TotalEarned,
				"level":            res.Player.Level,
				"experiencePoints": res.Player.Experience,
				"leveledUp":        res.LeveledUp,
			},
			"session": fiber.Map{
				"duration":     res.DurationSeconds,
				"score":        res.Score,
				"levelReached": res.LevelReached,
				"timePlayed":   res.TimePlayedSeconds,
			},
		})
	})

	game.Get("/sessions/:id", func(c *fiber.Ctx) error {
		view, err := sessions.GetSession(c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		return dataJSON(c, view)
	})

	game.Get("/stats/:address", func(c *fiber.Ctx) error {
		address := c.Params("address")
		if !utils.IsValidAddress(address) {
			return errorJSON(c, fiber.StatusBadRequest, "invalid wallet address format")
		}
		stats, err := ledger.GetPlayerStats(address)
		if err != nil {
			return respondError(c, err)
		}
		return dataJSON(c, stats)
	})
}
