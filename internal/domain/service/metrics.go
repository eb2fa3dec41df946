package service

import (
	"math"
	"time"

	"wallet-profiler/internal/domain/entity"
	"wallet-profiler/internal/infrastructure/logger"
)

const secondsPerDay = 86400

// MetricsService derives wallet-age, activity-rate and token-diversity
// statistics from the transaction history.
type MetricsService struct {
	logger *logger.Logger
}

// NewMetricsService creates a metrics calculator.
func NewMetricsService(log *logger.Logger) *MetricsService {
	return &MetricsService{logger: log.WithComponent("metrics")}
}

// Compute derives the metrics for one wallet. The independently fetched
// FirstTx timestamp is authoritative for wallet age because provider
// transaction lists may be capped and miss the true history start; the
// minimum over the list is only a fallback. With no history at all, zero
// values are returned.
func (s *MetricsService) Compute(data *entity.WalletData, now time.Time) entity.Metrics {
	txs := data.Transactions

	var firstTs, lastTs int64
	for _, tx := range txs {
		if tx.TimeStamp <= 0 {
			continue
		}
		if firstTs == 0 || tx.TimeStamp < firstTs {
			firstTs = tx.TimeStamp
		}
		if tx.TimeStamp > lastTs {
			lastTs = tx.TimeStamp
		}
	}

	if data.FirstTx != nil && data.FirstTx.TimeStamp > 0 {
		firstTs = data.FirstTx.TimeStamp
	}
	if firstTs == 0 {
		return entity.Metrics{}
	}
	if lastTs == 0 {
		lastTs = firstTs
	}

	ageDays := int((now.Unix() - firstTs) / secondsPerDay)

	// Wallets younger than a week are measured against one full week.
	weeks := float64(ageDays) / 7
	if weeks < 1 {
		weeks = 1
	}
	txPerWeek := math.Round(float64(len(txs))/weeks*10) / 10

	chain := data.Network()
	tokens := make(map[string]struct{}, len(data.TokenTransfers))
	for _, tt := range data.TokenTransfers {
		if tt.ContractAddress == "" {
			continue
		}
		tokens[chain.NormalizeAddress(tt.ContractAddress)] = struct{}{}
	}

	first := time.Unix(firstTs, 0).UTC()
	last := time.Unix(lastTs, 0).UTC()

	return entity.Metrics{
		WalletAgeDays:    ageDays,
		FirstTransaction: &first,
		LastTransaction:  &last,
		TxPerWeek:        txPerWeek,
		UniqueTokens:     len(tokens),
	}
}
