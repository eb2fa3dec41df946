package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallet-profiler/internal/domain/entity"
	domain_service "wallet-profiler/internal/domain/service"
	"wallet-profiler/internal/infrastructure/logger"

	"go.uber.org/zap"
)

// ErrNoWalletData is returned when an analysis is requested without a payload.
var ErrNoWalletData = errors.New("wallet data is required")

// AnalysisService runs one complete wallet analysis: classification, metrics
// and counterparty aggregation over a single materialized WalletData value.
// The three computations are independent and share nothing but the input and
// one captured wall-clock timestamp, so every invocation is deterministic for
// a fixed "now" and any number of invocations may run concurrently.
type AnalysisService struct {
	classifier  *domain_service.ClassifierService
	metrics     *domain_service.MetricsService
	connections *domain_service.ConnectionsService
	logger      *logger.Logger

	// now is swapped out in tests for deterministic reports.
	now func() time.Time
}

// NewAnalysisService creates the analysis orchestrator.
func NewAnalysisService(
	classifier *domain_service.ClassifierService,
	metrics *domain_service.MetricsService,
	connections *domain_service.ConnectionsService,
	log *logger.Logger,
) *AnalysisService {
	return &AnalysisService{
		classifier:  classifier,
		metrics:     metrics,
		connections: connections,
		logger:      log.WithComponent("analysis"),
		now:         time.Now,
	}
}

// Analyze produces a complete WalletReport for the given wallet data. The
// report is transient: recomputed from scratch on every call, never stored.
// Address syntax is validated here so the pure computation below never sees
// malformed identities; beyond that the pipeline degrades gracefully on
// partial upstream data (missing lists are treated as empty).
func (s *AnalysisService) Analyze(ctx context.Context, data *entity.WalletData) (*entity.WalletReport, error) {
	if data == nil {
		return nil, ErrNoWalletData
	}

	chain := data.Network()
	if err := chain.ValidateAddress(data.Address); err != nil {
		return nil, fmt.Errorf("invalid wallet address: %w", err)
	}

	start := s.now()

	classification := s.classifier.Classify(data, start)
	metrics := s.metrics.Compute(data, start)
	connections := s.connections.Aggregate(data)

	report := &entity.WalletReport{
		Address:        data.Address,
		Chain:          chain,
		Classification: classification,
		Metrics:        metrics,
		Connections:    connections,
		AnalyzedAt:     start.UTC(),
	}

	s.logger.Info("Wallet analyzed",
		zap.String("address", data.NormalizedAddress()),
		zap.String("chain", string(chain)),
		zap.String("type", string(classification.Type)),
		zap.String("confidence", string(classification.Confidence)),
		zap.Int("transactions", len(data.Transactions)),
		zap.Int("token_transfers", len(data.TokenTransfers)),
		zap.Duration("took", time.Since(start)))

	return report, nil
}
