package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/destinyOrji/Cademoh/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddr = "0x1a2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b"

func TestEnsurePlayerCreatesDefaults(t *testing.T) {
	ledger := NewLedgerService(newTestDB(t))

	player, err := ledger.EnsurePlayer(testAddr)
	require.NoError(t, err)
	assert.Equal(t, testAddr, player.WalletAddress)
	assert.Equal(t, "Player_0x1a2b3c", player.Username)
	assert.Zero(t, player.Balance)
	assert.Zero(t, player.TotalEarned)
	assert.Equal(t, 1, player.Level)
	assert.Zero(t, player.Experience)
}

func TestEnsurePlayerIsIdempotent(t *testing.T) {
	ledger := NewLedgerService(newTestDB(t))

	first, err := ledger.EnsurePlayer(testAddr)
	require.NoError(t, err)
	// mixed case resolves to the same canonical row
	second, err := ledger.EnsurePlayer("0x1A2B3C4D5E6F7A8B9C0D1E2F3A4B5C6D7E8F9A0B")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, ledger.DB.Model(&models.Player{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestApplyRewardMaintainsLevelProjection(t *testing.T) {
	ledger := NewLedgerService(newTestDB(t))

	snap, leveledUp, err := ledger.ApplyReward(testAddr, 10, 950)
	require.NoError(t, err)
	assert.False(t, leveledUp)
	assert.Equal(t, 1, snap.Level)

	snap, leveledUp, err = ledger.ApplyReward(testAddr, 10, 100)
	require.NoError(t, err)
	assert.True(t, leveledUp, "crossing 1000 XP must level up")
	assert.Equal(t, 2, snap.Level)
	assert.EqualValues(t, 1050, snap.Experience)
	assert.Equal(t, models.LevelForExperience(snap.Experience), snap.Level)

	// a grant within the same level reports no level-up
	snap, leveledUp, err = ledger.ApplyReward(testAddr, 1, 1)
	require.NoError(t, err)
	assert.False(t, leveledUp)
	assert.Equal(t, models.LevelForExperience(snap.Experience), snap.Level)
}

func TestApplyRewardMultiLevelJump(t *testing.T) {
	ledger := NewLedgerService(newTestDB(t))

	snap, leveledUp, err := ledger.ApplyReward(testAddr, 0, 5500)
	require.NoError(t, err)
	assert.True(t, leveledUp)
	assert.Equal(t, 6, snap.Level)
}

func TestApplyRewardRejectsNegativeAmounts(t *testing.T) {
	ledger := NewLedgerService(newTestDB(t))

	_, _, err := ledger.ApplyReward(testAddr, -5, 10)
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestApplyRewardConcurrentGrantsBothLand(t *testing.T) {
	ledger := NewLedgerService(newTestDB(t))
	_, err := ledger.EnsurePlayer(testAddr)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = ledger.ApplyReward(testAddr, 10, 50)
		}(i)
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	player, err := ledger.GetPlayer(testAddr)
	require.NoError(t, err)
	assert.EqualValues(t, 20, player.Balance)
	assert.EqualValues(t, 20, player.TotalEarned)
	assert.EqualValues(t, 100, player.Experience)
}

func TestOverwriteBalanceLastWriteWins(t *testing.T) {
	ledger := NewLedgerService(newTestDB(t))

	_, _, err := ledger.ApplyReward(testAddr, 500, 0)
	require.NoError(t, err)

	snap, err := ledger.OverwriteBalance(testAddr, 42.5)
	require.NoError(t, err)
	assert.Equal(t, 42.5, snap.Balance)
	// lifetime earnings are untouched by reconciliation
	assert.EqualValues(t, 500, snap.TotalEarned)
}

func TestUpdateUsernameNormalizes(t *testing.T) {
	ledger := NewLedgerService(newTestDB(t))
	_, err := ledger.EnsurePlayer(testAddr)
	require.NoError(t, err)

	player, err := ledger.UpdateUsername(testAddr, "Crypto Champ 99")
	require.NoError(t, err)
	assert.Equal(t, "crypto-champ-99", player.Username)

	_, err = ledger.UpdateUsername(testAddr, "   ")
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestGetPlayerStats(t *testing.T) {
	ledger := NewLedgerService(newTestDB(t))

	for i := 0; i < 4; i++ {
		addr := fmt.Sprintf("0x%040d", i)
		_, _, err := ledger.ApplyReward(addr, float64(100*(i+1)), int64(250*(i+1)))
		require.NoError(t, err)
	}

	top, err := ledger.GetPlayerStats(fmt.Sprintf("0x%040d", 3))
	require.NoError(t, err)
	assert.EqualValues(t, 1, top.Rank)
	assert.Equal(t, 100, top.Percentile)
	assert.EqualValues(t, 0, top.CurrentLevelXP) // 1000 % 1000

	last, err := ledger.GetPlayerStats(fmt.Sprintf("0x%040d", 0))
	require.NoError(t, err)
	assert.EqualValues(t, 4, last.Rank)
	assert.Equal(t, 25, last.Percentile)

	_, err = ledger.GetPlayerStats("0xffffffffffffffffffffffffffffffffffffffff")
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
