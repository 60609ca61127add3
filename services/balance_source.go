package services

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/destinyOrji/Cademoh/models"
	"github.com/destinyOrji/Cademoh/utils"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// BalanceSource is where the "true" token balance comes from: a live chain
// read or a deterministic mock. Implementations never surface transient
// failures to callers; the live variant degrades to mock data instead, so
// the economy flow always gets an answer.
type BalanceSource interface {
	TokenBalance(ctx context.Context, address string) float64
	NFTs(ctx context.Context, address string) []models.NFT
	// Transfer moves simulated funds between two wallets. Real on-chain
	// submission is out of scope; the live variant simulates too.
	Transfer(ctx context.Context, from, to string, amount float64) error
	IsLive() bool
	NetworkInfo(ctx context.Context) models.NetworkInfo
}

// NewBalanceSourceFromEnv selects the live variant when WEB3_PROVIDER_URL is
// configured and reachable, otherwise the mock. Chosen once at process start;
// no runtime reconfiguration.
func NewBalanceSourceFromEnv() BalanceSource {
	rpcURL := os.Getenv("WEB3_PROVIDER_URL")
	if rpcURL == "" || strings.Contains(rpcURL, "YOUR_PROJECT_ID") {
		log.Println("⚠️  WEB3_PROVIDER_URL not configured, balance source running in mock mode")
		return NewMockBalanceSource()
	}

	src, err := NewLiveBalanceSource(rpcURL, os.Getenv("CADEM_TOKEN_ADDRESS"), os.Getenv("NFT_CONTRACT_ADDRESS"))
	if err != nil {
		log.Printf("⚠️  Web3 initialization failed (%v), running in mock mode", err)
		return NewMockBalanceSource()
	}
	log.Println("✅ Web3 provider initialized")
	return src
}

var nftRarities = [5]string{"Common", "Uncommon", "Rare", "Epic", "Legendary"}

// MockBalanceSource derives balances deterministically from the address
// bytes, so repeated reads are stable with no external state. Simulated
// transfers are tracked in an overlay map layered over the derived base.
type MockBalanceSource struct {
	mu      sync.Mutex
	overlay map[string]float64
}

func NewMockBalanceSource() *MockBalanceSource {
	return &MockBalanceSource{overlay: make(map[string]float64)}
}

// Base balance: first four address bytes mod 10000.
func mockBaseBalance(address string) float64 {
	if len(address) < 10 {
		return 0
	}
	n, err := strconv.ParseUint(address[2:10], 16, 64)
	if err != nil {
		return 0
	}
	return float64(n % 10000)
}

func (m *MockBalanceSource) TokenBalance(_ context.Context, address string) float64 {
	addr := utils.CanonicalAddress(address)
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balanceLocked(addr)
}

func (m *MockBalanceSource) balanceLocked(addr string) float64 {
	if v, ok := m.overlay[addr]; ok {
		return v
	}
	return mockBaseBalance(addr)
}

func (m *MockBalanceSource) Transfer(_ context.Context, from, to string, amount float64) error {
	if amount <= 0 {
		return NewValidationError("transfer amount must be positive")
	}
	fromAddr := utils.CanonicalAddress(from)
	toAddr := utils.CanonicalAddress(to)

	m.mu.Lock()
	defer m.mu.Unlock()
	fromBalance := m.balanceLocked(fromAddr)
	if fromBalance < amount {
		return fmt.Errorf("insufficient balance: %s has %.2f, needs %.2f", fromAddr, fromBalance, amount)
	}
	m.overlay[fromAddr] = fromBalance - amount
	m.overlay[toAddr] = m.balanceLocked(toAddr) + amount
	return nil
}

func (m *MockBalanceSource) NFTs(_ context.Context, address string) []models.NFT {
	addr := utils.CanonicalAddress(address)
	if len(addr) < 6 {
		return nil
	}
	n, err := strconv.ParseUint(addr[2:6], 16, 64)
	if err != nil {
		return nil
	}
	count := int(n % 5)

	nfts := make([]models.NFT, 0, count)
	for i := 0; i < count; i++ {
		nfts = append(nfts, models.NFT{
			TokenID: int64(i + 1),
			Name:    fmt.Sprintf("Mock CADEM NFT #%d", i+1),
			Image:   fmt.Sprintf("https://via.placeholder.com/300x300?text=NFT+%d", i+1),
			Rarity:  nftRarities[i%5],
		})
	}
	return nfts
}

func (m *MockBalanceSource) IsLive() bool { return false }

func (m *MockBalanceSource) NetworkInfo(_ context.Context) models.NetworkInfo {
	return models.NetworkInfo{Name: "Mock Network", ChainID: 0, Connected: false}
}

// evmCaller is the subset of the Ethereum RPC the live source uses.
type evmCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	ChainID(ctx context.Context) (*big.Int, error)
}

const balanceSourceTimeout = 5 * time.Second

// ERC-20/ERC-721 balanceOf(address)
var balanceOfSelector = []byte{0x70, 0xa0, 0x82, 0x31}

// LiveBalanceSource reads balances from an EVM chain through a read-only
// client. Connectivity is probed once at construction; any per-call failure
// falls back to the embedded mock rather than erroring, and transfers are
// always simulated through the mock overlay.
type LiveBalanceSource struct {
	client    evmCaller
	tokenAddr common.Address
	nftAddr   common.Address
	hasToken  bool
	hasNFT    bool
	chainID   *big.Int
	connected bool
	fallback  *MockBalanceSource
}

func NewLiveBalanceSource(rpcURL, tokenAddress, nftAddress string) (*LiveBalanceSource, error) {
	endpoint := strings.TrimSpace(rpcURL)
	if endpoint == "" {
		return nil, fmt.Errorf("web3 endpoint required")
	}
	client, err := ethclient.Dial(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to dial web3 provider: %w", err)
	}

	src := &LiveBalanceSource{
		client:   client,
		fallback: NewMockBalanceSource(),
	}
	if common.IsHexAddress(tokenAddress) {
		src.tokenAddr = common.HexToAddress(tokenAddress)
		src.hasToken = true
		log.Printf("✅ Token contract configured: %s", src.tokenAddr.Hex())
	}
	if common.IsHexAddress(nftAddress) {
		src.nftAddr = common.HexToAddress(nftAddress)
		src.hasNFT = true
		log.Printf("✅ NFT contract configured: %s", src.nftAddr.Hex())
	}

	ctx, cancel := context.WithTimeout(context.Background(), balanceSourceTimeout)
	defer cancel()
	if id, err := client.ChainID(ctx); err == nil {
		src.chainID = id
		src.connected = true
	} else {
		log.Printf("⚠️  Web3 provider unreachable at startup: %v", err)
	}
	return src, nil
}

func (s *LiveBalanceSource) balanceOf(ctx context.Context, contract common.Address, owner string) (*big.Int, error) {
	data := make([]byte, 0, 36)
	data = append(data, balanceOfSelector...)
	data = append(data, common.LeftPadBytes(common.HexToAddress(owner).Bytes(), 32)...)

	ctx, cancel := context.WithTimeout(ctx, balanceSourceTimeout)
	defer cancel()
	out, err := s.client.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	if err != nil {
		return nil, err
	}
	if len(out) < 32 {
		return nil, fmt.Errorf("short balanceOf response (%d bytes)", len(out))
	}
	return new(big.Int).SetBytes(out[:32]), nil
}

func (s *LiveBalanceSource) TokenBalance(ctx context.Context, address string) float64 {
	if !s.connected || !s.hasToken {
		return s.fallback.TokenBalance(ctx, address)
	}
	wei, err := s.balanceOf(ctx, s.tokenAddr, address)
	if err != nil {
		log.Printf("⚠️  Token balance lookup failed for %s: %v (using mock)", address, err)
		return s.fallback.TokenBalance(ctx, address)
	}
	// 18-decimal token units
	amount, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(1e18)).Float64()
	return amount
}

func (s *LiveBalanceSource) NFTs(ctx context.Context, address string) []models.NFT {
	if !s.connected || !s.hasNFT {
		return s.fallback.NFTs(ctx, address)
	}
	held, err := s.balanceOf(ctx, s.nftAddr, address)
	if err != nil {
		log.Printf("⚠️  NFT lookup failed for %s: %v (using mock)", address, err)
		return s.fallback.NFTs(ctx, address)
	}

	count := held.Int64()
	if count > 10 {
		count = 10
	}
	nfts := make([]models.NFT, 0, count)
	for i := int64(0); i < count; i++ {
		nfts = append(nfts, models.NFT{
			TokenID: i + 1,
			Name:    fmt.Sprintf("CADEM NFT #%d", i+1),
			Image:   fmt.Sprintf("https://api.cadem.io/nft/%d/image", i+1),
			Rarity:  nftRarities[i%5],
		})
	}
	return nfts
}

func (s *LiveBalanceSource) Transfer(ctx context.Context, from, to string, amount float64) error {
	return s.fallback.Transfer(ctx, from, to, amount)
}

func (s *LiveBalanceSource) IsLive() bool { return s.connected }

func (s *LiveBalanceSource) NetworkInfo(ctx context.Context) models.NetworkInfo {
	if !s.connected {
		return s.fallback.NetworkInfo(ctx)
	}
	return models.NetworkInfo{
		Name:      chainName(s.chainID.Int64()),
		ChainID:   s.chainID.Int64(),
		Connected: true,
	}
}

func chainName(id int64) string {
	switch id {
	case 1:
		return "mainnet"
	case 11155111:
		return "sepolia"
	case 137:
		return "polygon"
	default:
		return fmt.Sprintf("chain-%d", id)
	}
}
