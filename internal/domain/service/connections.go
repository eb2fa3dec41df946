package service

import (
	"sort"

	"wallet-profiler/internal/domain/entity"
	"wallet-profiler/internal/infrastructure/config"
	"wallet-profiler/internal/infrastructure/logger"
)

const topCounterparties = 5

// ConnectionsService tallies transfer counts per counterparty address and
// surfaces the top senders and receivers.
type ConnectionsService struct {
	cfg    *config.AnalysisConfig
	logger *logger.Logger
}

// NewConnectionsService creates a counterparty aggregator.
func NewConnectionsService(cfg *config.AnalysisConfig, log *logger.Logger) *ConnectionsService {
	return &ConnectionsService{cfg: cfg, logger: log.WithComponent("connections")}
}

// transferEdge is one directional transfer candidate, shape-agnostic across
// chains.
type transferEdge struct {
	from string
	to   string
}

// Aggregate tallies counterparties across the wallet's transfer sources and
// returns the top five in each direction, sorted by count descending. Ties
// keep first-encountered order. Self-transfers are excluded.
func (s *ConnectionsService) Aggregate(data *entity.WalletData) entity.Connections {
	chain := data.Network()
	wallet := data.NormalizedAddress()

	sends := newCounterpartyTally()
	receives := newCounterpartyTally()

	for _, edge := range s.transferEdges(data) {
		from := chain.NormalizeAddress(edge.from)
		to := chain.NormalizeAddress(edge.to)

		switch {
		case from == wallet && to != "" && to != wallet:
			sends.add(to)
		case to == wallet && from != "" && from != wallet:
			receives.add(from)
		}
	}

	return entity.Connections{
		TopSendsTo:      sends.top(topCounterparties),
		TopReceivesFrom: receives.top(topCounterparties),
	}
}

// transferEdges selects the transfer sources for the wallet's chain.
//
// Ethereum unions plain native transfers (value set, no calldata) with token
// transfers. Solana has no uniform from/to on plain transactions, so only
// token and native transfer records are used, with native transfers below the
// dust floor dropped: high-frequency sub-dust transfers are spam or airdrop
// noise, not counterparty relationships.
func (s *ConnectionsService) transferEdges(data *entity.WalletData) []transferEdge {
	var edges []transferEdge

	switch data.Network() {
	case entity.ChainSolana:
		for _, tt := range data.TokenTransfers {
			edges = append(edges, transferEdge{from: tt.From, to: tt.To})
		}
		for _, nt := range data.NativeTransfers {
			if nt.Amount < s.cfg.DustThresholdLamports {
				continue
			}
			edges = append(edges, transferEdge{from: nt.From, to: nt.To})
		}
	default:
		for _, tx := range data.Transactions {
			if tx.Value == "0" || tx.Input != "0x" || tx.To == "" {
				continue
			}
			edges = append(edges, transferEdge{from: tx.From, to: tx.To})
		}
		for _, tt := range data.TokenTransfers {
			edges = append(edges, transferEdge{from: tt.From, to: tt.To})
		}
	}

	return edges
}

// counterpartyTally counts occurrences per address while remembering insertion
// order, so ranking ties break deterministically.
type counterpartyTally struct {
	counts map[string]int
	order  []string
}

func newCounterpartyTally() *counterpartyTally {
	return &counterpartyTally{counts: make(map[string]int)}
}

func (t *counterpartyTally) add(addr string) {
	if _, seen := t.counts[addr]; !seen {
		t.order = append(t.order, addr)
	}
	t.counts[addr]++
}

func (t *counterpartyTally) top(n int) []entity.Counterparty {
	ranked := make([]entity.Counterparty, 0, len(t.order))
	for _, addr := range t.order {
		ranked = append(ranked, entity.Counterparty{Address: addr, Count: t.counts[addr]})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
