// workers/snapshot_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/destinyOrji/Cademoh/services"
	"github.com/destinyOrji/Cademoh/utils"

	"gorm.io/gorm"
)

// LeaderboardSnapshotWorker periodically archives the top of the tokens
// board to R2 as JSON. Purely additive: a failed or skipped upload never
// affects the live board.
type LeaderboardSnapshotWorker struct {
	leaderboard *services.LeaderboardService
	interval    time.Duration
}

func NewLeaderboardSnapshotWorker(db *gorm.DB, interval time.Duration) *LeaderboardSnapshotWorker {
	return &LeaderboardSnapshotWorker{
		leaderboard: services.NewLeaderboardService(db),
		interval:    interval,
	}
}

func (w *LeaderboardSnapshotWorker) Start(ctx context.Context) {
	if !utils.R2Configured() {
		log.Println("⚠️  R2 not configured, leaderboard snapshot archival disabled")
		return
	}
	log.Println("🔁 Starting leaderboard snapshot worker...")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Leaderboard snapshot worker stopped.")
			return
		case <-ticker.C:
			if err := w.snapshot(ctx); err != nil {
				log.Printf("❌ Leaderboard snapshot failed: %v", err)
			}
		}
	}
}

func (w *LeaderboardSnapshotWorker) snapshot(ctx context.Context) error {
	page, err := w.leaderboard.Rank("tokens", 100, 0)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(struct {
		GeneratedAt time.Time                 `json:"generatedAt"`
		Board       *services.LeaderboardPage `json:"board"`
	}{
		GeneratedAt: time.Now().UTC(),
		Board:       page,
	})
	if err != nil {
		return err
	}

	key := fmt.Sprintf("leaderboards/tokens-%s.json", time.Now().UTC().Format("2006-01-02T15-04-05Z"))
	url, err := utils.UploadJSONToR2(ctx, key, payload)
	if err != nil {
		return err
	}
	log.Printf("✅ Leaderboard snapshot uploaded: %s", url)
	return nil
}
