// workers/reconciler.go
package workers

import (
	"context"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/destinyOrji/Cademoh/models"
	"github.com/destinyOrji/Cademoh/services"

	"gorm.io/gorm"
)

// Reconciler synchronizes the Player ledger against the balance source. The
// source is treated as ground truth on explicit sync: its reported value
// overwrites the locally accrued balance, last write wins.
type Reconciler struct {
	DB     *gorm.DB
	Source services.BalanceSource
	Ledger *services.LedgerService
}

func NewReconciler(db *gorm.DB, source services.BalanceSource) *Reconciler {
	return &Reconciler{
		DB:     db,
		Source: source,
		Ledger: services.NewLedgerService(db),
	}
}

// SyncBalance overwrites the ledger balance with the source's reported value.
// Source failures never surface; the source degrades to mock data internally,
// so the only error here is a store failure.
func (r *Reconciler) SyncBalance(ctx context.Context, address string) (models.PlayerSnapshot, error) {
	balance := r.Source.TokenBalance(ctx, address)
	snapshot, err := r.Ledger.OverwriteBalance(address, balance)
	if err != nil {
		return models.PlayerSnapshot{}, err
	}
	log.Printf("🔄 Synced balance for %s: %.2f CADEM", snapshot.WalletAddress, balance)
	return snapshot, nil
}

// PollSimulatedTransfers periodically moves a small amount between two
// existing players through the balance source and reconciles both, modelling
// external transfer events without a live chain. Every failure is logged and
// swallowed; the schedule never stops until ctx is cancelled.
func PollSimulatedTransfers(ctx context.Context, r *Reconciler, interval time.Duration) {
	log.Println("Starting simulated transfer polling...")
	rng := rand.New(rand.NewSource(42)) // fixed seed keeps the event stream reproducible

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Simulated transfer polling stopped.")
			return
		case <-ticker.C:
			if err := r.runSimulatedTransfer(ctx, rng); err != nil {
				log.Printf("❌ Simulated transfer skipped: %v", err)
			}
		}
	}
}

func (r *Reconciler) runSimulatedTransfer(ctx context.Context, rng *rand.Rand) error {
	var players []models.Player
	if err := r.DB.Order("updated_at DESC").Limit(5).Find(&players).Error; err != nil {
		return err
	}
	if len(players) < 2 {
		return nil
	}
	from, to := players[0], players[1]

	// 1.00 to 11.00 CADEM, two decimals
	amount := math.Round((rng.Float64()*10+1)*100) / 100

	if err := r.Source.Transfer(ctx, from.WalletAddress, to.WalletAddress, amount); err != nil {
		return err
	}
	// Players may have been removed between selection and reconcile; the
	// ledger recreates lazily, so either way this is non-fatal.
	if _, err := r.SyncBalance(ctx, from.WalletAddress); err != nil {
		return err
	}
	if _, err := r.SyncBalance(ctx, to.WalletAddress); err != nil {
		return err
	}

	log.Printf("🤖 Simulated transfer: %s -> %s %.2f CADEM", from.WalletAddress, to.WalletAddress, amount)
	return nil
}
