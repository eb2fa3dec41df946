package service

import (
	"context"
	"testing"
	"time"

	"wallet-profiler/internal/domain/entity"
	domain_service "wallet-profiler/internal/domain/service"
	"wallet-profiler/internal/infrastructure/config"
	"wallet-profiler/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

const (
	testWallet  = "0x1111111111111111111111111111111111111111"
	otherWallet = "0x2222222222222222222222222222222222222222"
)

// emptyRefs satisfies the reference repository with empty lists.
type emptyRefs struct{}

func (emptyRefs) IsMixer(entity.Chain, string) bool    { return false }
func (emptyRefs) IsExchange(entity.Chain, string) bool { return false }
func (emptyRefs) MixerCount(entity.Chain) int          { return 0 }
func (emptyRefs) ExchangeCount(entity.Chain) int       { return 0 }

func newTestAnalysis() *AnalysisService {
	cfg := &config.AnalysisConfig{
		WhaleThresholdEth:     100,
		WhaleThresholdSol:     1000,
		DustThresholdLamports: 1_000_000,
	}
	log := logger.NewNop()

	s := NewAnalysisService(
		domain_service.NewClassifierService(emptyRefs{}, cfg, log),
		domain_service.NewMetricsService(log),
		domain_service.NewConnectionsService(cfg, log),
		log,
	)
	s.now = func() time.Time { return testNow }
	return s
}

func TestAnalyzeProducesCompleteReport(t *testing.T) {
	s := newTestAnalysis()

	first := testNow.Add(-20 * 24 * time.Hour)
	data := &entity.WalletData{
		Address: testWallet,
		Chain:   entity.ChainEthereum,
		FirstTx: &entity.Transaction{TimeStamp: first.Unix()},
		Transactions: []entity.Transaction{
			{From: otherWallet, To: testWallet, Value: "5", Input: "0x", TimeStamp: first.Unix()},
			{From: otherWallet, To: testWallet, Value: "3", Input: "0x", TimeStamp: testNow.Add(-24 * time.Hour).Unix()},
		},
	}

	report, err := s.Analyze(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, testWallet, report.Address)
	assert.Equal(t, entity.ChainEthereum, report.Chain)
	assert.Equal(t, testNow, report.AnalyzedAt)

	// Two transactions: too sparse for any behavioral label.
	assert.Equal(t, entity.TypeFreshWallet, report.Classification.Type)
	assert.Equal(t, entity.ConfidenceHigh, report.Classification.Confidence)

	assert.Equal(t, 20, report.Metrics.WalletAgeDays)
	require.Len(t, report.Connections.TopReceivesFrom, 1)
	assert.Equal(t, entity.Counterparty{Address: otherWallet, Count: 2}, report.Connections.TopReceivesFrom[0])
	assert.Empty(t, report.Connections.TopSendsTo)
}

func TestAnalyzeNilData(t *testing.T) {
	s := newTestAnalysis()

	report, err := s.Analyze(context.Background(), nil)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrNoWalletData)
}

func TestAnalyzeRejectsInvalidAddress(t *testing.T) {
	s := newTestAnalysis()

	tests := []struct {
		name string
		data *entity.WalletData
	}{
		{"empty address", &entity.WalletData{Chain: entity.ChainEthereum}},
		{"truncated hex", &entity.WalletData{Address: "0x1234", Chain: entity.ChainEthereum}},
		{"ethereum address on solana", &entity.WalletData{Address: testWallet, Chain: entity.ChainSolana}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := s.Analyze(context.Background(), tt.data)
			assert.Nil(t, report)
			assert.Error(t, err)
		})
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	s := newTestAnalysis()

	data := &entity.WalletData{
		Address: testWallet,
		Chain:   entity.ChainEthereum,
		Transactions: []entity.Transaction{
			{From: otherWallet, To: testWallet, Value: "1", Input: "0x", TimeStamp: testNow.Add(-48 * time.Hour).Unix()},
		},
	}

	first, err := s.Analyze(context.Background(), data)
	require.NoError(t, err)
	second, err := s.Analyze(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
