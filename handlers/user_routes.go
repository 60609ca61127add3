// handlers/user_routes.go
package handlers

import (
	"github.com/destinyOrji/Cademoh/middleware"
	"github.com/destinyOrji/Cademoh/services"
	"github.com/destinyOrji/Cademoh/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, ledger *services.LedgerService) {
	users := app.Group("/api/users")

	users.Get("/:address", func(c *fiber.Ctx) error {
		address := c.Params("address")
		if !utils.IsValidAddress(address) {
			return errorJSON(c, fiber.StatusBadRequest, "invalid wallet address format")
		}
		player, err := ledger.EnsurePlayer(address)
		if err != nil {
			return respondError(c, err)
		}
		return dataJSON(c, player)
	})

	users.Put("/:address", func(c *fiber.Ctx) error {
		address := c.Params("address")
		if !utils.IsValidAddress(address) {
			return errorJSON(c, fiber.StatusBadRequest, "invalid wallet address format")
		}
		var req struct {
			Username string `json:"username"`
		}
		if err := c.BodyParser(&req); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
		}
		player, err := ledger.UpdateUsername(address, req.Username)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    player,
			"message": "Profile updated successfully",
		})
	})

	users.Get("/:address/stats", func(c *fiber.Ctx) error {
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

	// Direct token grants are an administrative action behind a real auth
	// boundary; grants flow through the same atomic reward path as sessions.
	admin := users.Group("/", middleware.AdminAuthMiddleware())

	admin.Post("/:address/add-tokens", func(c *fiber.Ctx) error {
		address := c.Params("address")
		if !utils.IsValidAddress(address) {
			return errorJSON(c, fiber.StatusBadRequest, "invalid wallet address format")
		}
		var req struct {
			Amount float64 `json:"amount"`
			Reason string  `json:"reason"`
		}
		if err := c.BodyParser(&req); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "invalid request body")
		}
		if req.Amount <= 0 {
			return errorJSON(c, fiber.StatusBadRequest, "invalid token amount")
		}

		// 10 XP per granted token
		snapshot, leveledUp, err := ledger.ApplyReward(address, req.Amount, int64(req.Amount*10))
		if err != nil {
			return respondError(c, err)
		}
		return dataJSON(c, fiber.Map{
			"user":        snapshot,
			"tokensAdded": req.Amount,
			"newBalance":  snapshot.Balance,
			"leveledUp":   leveledUp,
			"reason":      req.Reason,
		})
	})
}
