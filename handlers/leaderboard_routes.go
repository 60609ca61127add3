// handlers/leaderboard_routes.go
package handlers

import (
	"strconv"

	"github.com/destinyOrji/Cademoh/services"
	"github.com/destinyOrji/Cademoh/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupLeaderboardRoutes(app *fiber.App, leaderboard *services.LeaderboardService) {
	lb := app.Group("/api/leaderboard")

	// before /:metric so "stats" is not parsed as a metric
	lb.Get("/stats/overview", func(c *fiber.Ctx) error {
		overview, err := leaderboard.Overview()
		if err != nil {
			return respondError(c, err)
		}
		return dataJSON(c, overview)
	})

	lb.Get("/:metric", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		offset, _ := strconv.Atoi(c.Query("offset", "0"))

		page, err := leaderboard.Rank(c.Params("metric"), limit, offset)
		if err != nil {
			return respondError(c, err)
		}
		return dataJSON(c, fiber.Map{
			"title": page.Title,
			"type":  page.Metric,
			"users": page.Entries,
			"pagination": fiber.Map{
				"total":   page.Total,
				"limit":   page.Limit,
				"offset":  page.Offset,
				"hasMore": page.HasMore,
			},
		})
	})

	lb.Get("/:metric/position/:address", func(c *fiber.Ctx) error {
		address := c.Params("address")
		if !utils.IsValidAddress(address) {
			return errorJSON(c, fiber.StatusBadRequest, "invalid wallet address format")
		}

		position, err := leaderboard.PositionOf(c.Params("metric"), address)
		if err != nil {
			return respondError(c, err)
		}
		return dataJSON(c, fiber.Map{
			"user": position.Player,
			"position": fiber.Map{
				"rank":       position.Rank,
				"totalUsers": position.Total,
				"percentile": position.Percentile,
			},
			"context": fiber.Map{
				"usersAbove": position.Above,
				"usersBelow": position.Below,
			},
		})
	})
}
