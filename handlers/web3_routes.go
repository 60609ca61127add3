// handlers/web3_routes.go
package handlers

import (
	"os"

	"github.com/destinyOrji/Cademoh/services"
	"github.com/destinyOrji/Cademoh/utils"
	"github.com/destinyOrji/Cademoh/workers"

	"github.com/gofiber/fiber/v2"
)

func SetupWeb3Routes(app *fiber.App, source services.BalanceSource, reconciler *workers.Reconciler, ledger *services.LedgerService) {
	web3 := app.Group("/api/web3")

	web3.Get("/status", func(c *fiber.Ctx) error {
		network := source.NetworkInfo(c.Context())
		mode := "Mock Mode"
		if source.IsLive() {
			mode = "Live Blockchain"
		}
		return dataJSON(c, fiber.Map{
			"connected": source.IsLive(),
			"network":   network,
			"contracts": fiber.Map{
				"token": envOr("CADEM_TOKEN_ADDRESS", "Not configured"),
				"nft":   envOr("NFT_CONTRACT_ADDRESS", "Not configured"),
			},
			"mode": mode,
		})
	})

	web3.Get("/user/:address", func(c *fiber.Ctx) error {
		address := c.Params("address")
		if !utils.IsValidAddress(address) {
			return errorJSON(c, fiber.StatusBadRequest, "invalid wallet address format")
		}

		ctx := c.Context()
		balance := source.TokenBalance(ctx, address)
		nfts := source.NFTs(ctx, address)

		player, err := ledger.EnsurePlayer(address)
		if err != nil {
			return respondError(c, err)
		}

		combined := player.Balance
		if balance > combined {
			combined = balance
		}
		return dataJSON(c, fiber.Map{
			"walletAddress": player.WalletAddress,
			"blockchain": fiber.Map{
				"tokenBalance": balance,
				"nftCount":     len(nfts),
				"nfts":         nfts,
			},
			"database": player.Snapshot(),
			"combined": fiber.Map{
				"totalBalance": combined,
				"hasNFTs":      len(nfts) > 0,
			},
		})
	})

	web3.Get("/nft/:address", func(c *fiber.Ctx) error {
		address := c.Params("address")
		if !utils.IsValidAddress(address) {
			return errorJSON(c, fiber.StatusBadRequest, "invalid wallet address format")
		}

		nfts := source.NFTs(c.Context(), address)
		byRarity := make(map[string]int)
		for _, nft := range nfts {
			byRarity[nft.Rarity]++
		}
		return dataJSON(c, fiber.Map{
			"walletAddress": utils.CanonicalAddress(address),
			"nftCount":      len(nfts),
			"nfts":          nfts,
			"summary": fiber.Map{
				"total":    len(nfts),
				"byRarity": byRarity,
			},
		})
	})

	web3.Post("/sync/:address", func(c *fiber.Ctx) error {
		address := c.Params("address")
		if !utils.IsValidAddress(address) {
			return errorJSON(c, fiber.StatusBadRequest, "invalid wallet address format")
		}

		snapshot, err := reconciler.SyncBalance(c.Context(), address)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"walletAddress": snapshot.WalletAddress,
				"syncedBalance": snapshot.Balance,
				"user":          snapshot,
			},
			"message": "Balance synced successfully",
		})
	})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
