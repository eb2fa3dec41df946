package service

import (
	"testing"
	"time"

	"wallet-profiler/internal/domain/entity"
	"wallet-profiler/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics() *MetricsService {
	return NewMetricsService(logger.NewNop())
}

func TestComputeWalletAge(t *testing.T) {
	s := newTestMetrics()

	first := testNow.Add(-10 * 24 * time.Hour)
	data := &entity.WalletData{
		Address: testWallet,
		Chain:   entity.ChainEthereum,
		FirstTx: &entity.Transaction{TimeStamp: first.Unix()},
		Transactions: []entity.Transaction{
			{TimeStamp: testNow.Add(-2 * 24 * time.Hour).Unix()},
			{TimeStamp: testNow.Add(-5 * 24 * time.Hour).Unix()},
		},
	}

	got := s.Compute(data, testNow)
	assert.Equal(t, 10, got.WalletAgeDays)
	require.NotNil(t, got.FirstTransaction)
	assert.Equal(t, first.Unix(), got.FirstTransaction.Unix())
}

func TestComputeNoHistory(t *testing.T) {
	s := newTestMetrics()

	got := s.Compute(&entity.WalletData{Address: testWallet}, testNow)
	assert.Zero(t, got.WalletAgeDays)
	assert.Nil(t, got.FirstTransaction)
	assert.Nil(t, got.LastTransaction)
	assert.Zero(t, got.TxPerWeek)
	assert.Zero(t, got.UniqueTokens)
}

func TestComputePrefersIndependentFirstTx(t *testing.T) {
	s := newTestMetrics()

	// The provider list only reaches back 5 days, the independently fetched
	// first transaction is 100 days old. Age must follow the latter.
	data := &entity.WalletData{
		Address: testWallet,
		Chain:   entity.ChainEthereum,
		FirstTx: &entity.Transaction{TimeStamp: testNow.Add(-100 * 24 * time.Hour).Unix()},
		Transactions: []entity.Transaction{
			{TimeStamp: testNow.Add(-5 * 24 * time.Hour).Unix()},
			{TimeStamp: testNow.Add(-1 * 24 * time.Hour).Unix()},
		},
	}

	got := s.Compute(data, testNow)
	assert.Equal(t, 100, got.WalletAgeDays)
	require.NotNil(t, got.LastTransaction)
	assert.Equal(t, testNow.Add(-24*time.Hour).Unix(), got.LastTransaction.Unix())
}

func TestComputeFallsBackToOldestListed(t *testing.T) {
	s := newTestMetrics()

	data := &entity.WalletData{
		Address: testWallet,
		Chain:   entity.ChainEthereum,
		Transactions: []entity.Transaction{
			{TimeStamp: testNow.Add(-3 * 24 * time.Hour).Unix()},
			{TimeStamp: testNow.Add(-20 * 24 * time.Hour).Unix()},
			{TimeStamp: testNow.Add(-7 * 24 * time.Hour).Unix()},
		},
	}

	got := s.Compute(data, testNow)
	assert.Equal(t, 20, got.WalletAgeDays)
}

func TestComputeFirstTxOnly(t *testing.T) {
	s := newTestMetrics()

	// History exists but the capped list came back empty: last falls back to
	// first.
	first := testNow.Add(-30 * 24 * time.Hour)
	data := &entity.WalletData{
		Address: testWallet,
		Chain:   entity.ChainEthereum,
		FirstTx: &entity.Transaction{TimeStamp: first.Unix()},
	}

	got := s.Compute(data, testNow)
	assert.Equal(t, 30, got.WalletAgeDays)
	require.NotNil(t, got.LastTransaction)
	assert.Equal(t, first.Unix(), got.LastTransaction.Unix())
}

func TestComputeTxPerWeek(t *testing.T) {
	s := newTestMetrics()

	// 5 transactions over 10 days: 5 / (10/7) = 3.5 per week.
	txs := make([]entity.Transaction, 5)
	for i := range txs {
		txs[i] = entity.Transaction{TimeStamp: testNow.Add(-time.Duration(i) * 24 * time.Hour).Unix()}
	}
	data := &entity.WalletData{
		Address:      testWallet,
		Chain:        entity.ChainEthereum,
		FirstTx:      &entity.Transaction{TimeStamp: testNow.Add(-10 * 24 * time.Hour).Unix()},
		Transactions: txs,
	}

	got := s.Compute(data, testNow)
	assert.InDelta(t, 3.5, got.TxPerWeek, 0.001)
}

func TestComputeTxPerWeekYoungWallet(t *testing.T) {
	s := newTestMetrics()

	// Two days of history is still measured against one full week.
	data := &entity.WalletData{
		Address: testWallet,
		Chain:   entity.ChainEthereum,
		Transactions: []entity.Transaction{
			{TimeStamp: testNow.Add(-2 * 24 * time.Hour).Unix()},
			{TimeStamp: testNow.Add(-1 * 24 * time.Hour).Unix()},
			{TimeStamp: testNow.Add(-3 * time.Hour).Unix()},
		},
	}

	got := s.Compute(data, testNow)
	assert.InDelta(t, 3.0, got.TxPerWeek, 0.001)
}

func TestComputeUniqueTokensNormalizesPerChain(t *testing.T) {
	s := newTestMetrics()

	t.Run("ethereum case-folds contracts", func(t *testing.T) {
		data := &entity.WalletData{
			Address: testWallet,
			Chain:   entity.ChainEthereum,
			Transactions: []entity.Transaction{
				{TimeStamp: testNow.Add(-24 * time.Hour).Unix()},
			},
			TokenTransfers: []entity.TokenTransfer{
				{ContractAddress: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"},
				{ContractAddress: "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"},
				{ContractAddress: "0xdAC17F958D2ee523a2206206994597C13D831ec7"},
			},
		}
		assert.Equal(t, 2, s.Compute(data, testNow).UniqueTokens)
	})

	t.Run("solana mints stay case-sensitive", func(t *testing.T) {
		data := &entity.WalletData{
			Address: "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM",
			Chain:   entity.ChainSolana,
			Transactions: []entity.Transaction{
				{TimeStamp: testNow.Add(-24 * time.Hour).Unix()},
			},
			TokenTransfers: []entity.TokenTransfer{
				{ContractAddress: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"},
				{ContractAddress: "epjfwdd5aufqssqem2qn1xzybapc8g4weggkzwytdt1v"},
			},
		}
		assert.Equal(t, 2, s.Compute(data, testNow).UniqueTokens)
	})
}
