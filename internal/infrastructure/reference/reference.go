package reference

import (
	"embed"
	"encoding/json"
	"fmt"

	"wallet-profiler/internal/domain/entity"
	"wallet-profiler/internal/infrastructure/logger"

	"go.uber.org/zap"
)

//go:embed data/mixers.json data/exchanges.json
var dataFS embed.FS

// Lists holds the bundled mixer and exchange address sets, keyed by chain and
// normalized at load time. The maps are never written after construction, so
// membership checks are safe under concurrent analyses.
type Lists struct {
	mixers    map[entity.Chain]map[string]struct{}
	exchanges map[entity.Chain]map[string]struct{}
}

// chainLists is the on-disk shape: chain name -> address strings.
type chainLists map[string][]string

// NewLists loads and normalizes the embedded reference data. A load failure
// here is fatal at startup; the classifier must never run without its
// reference lists.
func NewLists(log *logger.Logger) (*Lists, error) {
	l := &Lists{
		mixers:    make(map[entity.Chain]map[string]struct{}),
		exchanges: make(map[entity.Chain]map[string]struct{}),
	}

	if err := loadInto(l.mixers, "data/mixers.json"); err != nil {
		return nil, fmt.Errorf("failed to load mixer list: %w", err)
	}
	if err := loadInto(l.exchanges, "data/exchanges.json"); err != nil {
		return nil, fmt.Errorf("failed to load exchange list: %w", err)
	}

	log.WithComponent("reference").Info("Reference lists loaded",
		zap.Int("ethereum_mixers", l.MixerCount(entity.ChainEthereum)),
		zap.Int("solana_mixers", l.MixerCount(entity.ChainSolana)),
		zap.Int("ethereum_exchanges", l.ExchangeCount(entity.ChainEthereum)),
		zap.Int("solana_exchanges", l.ExchangeCount(entity.ChainSolana)))

	return l, nil
}

func loadInto(dst map[entity.Chain]map[string]struct{}, path string) error {
	raw, err := dataFS.ReadFile(path)
	if err != nil {
		return err
	}

	var lists chainLists
	if err := json.Unmarshal(raw, &lists); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	for name, addrs := range lists {
		chain, err := entity.ParseChain(name)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		set := make(map[string]struct{}, len(addrs))
		for _, addr := range addrs {
			set[chain.NormalizeAddress(addr)] = struct{}{}
		}
		dst[chain] = set
	}
	return nil
}

// IsMixer reports whether a normalized address is a known mixing service.
func (l *Lists) IsMixer(chain entity.Chain, address string) bool {
	_, ok := l.mixers[chain][address]
	return ok
}

// IsExchange reports whether a normalized address is a known exchange wallet.
func (l *Lists) IsExchange(chain entity.Chain, address string) bool {
	_, ok := l.exchanges[chain][address]
	return ok
}

// MixerCount returns the number of mixer entries loaded for a chain.
func (l *Lists) MixerCount(chain entity.Chain) int {
	return len(l.mixers[chain])
}

// ExchangeCount returns the number of exchange entries loaded for a chain.
func (l *Lists) ExchangeCount(chain entity.Chain) int {
	return len(l.exchanges[chain])
}
