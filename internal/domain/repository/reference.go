package repository

import (
	"wallet-profiler/internal/domain/entity"
)

// ReferenceRepository exposes the static address intelligence the classifier
// depends on: known mixer addresses and known exchange addresses, per chain.
// Implementations load the lists once at process start, normalize every entry
// with entity.Chain.NormalizeAddress, and never mutate them afterwards, so
// lookups are safe for concurrent use across analysis requests.
type ReferenceRepository interface {
	// IsMixer reports whether the address belongs to a known mixing service
	// on the given chain. The address must already be normalized.
	IsMixer(chain entity.Chain, address string) bool

	// IsExchange reports whether the address is publicly attributed to a
	// centralized exchange on the given chain. The address must already be
	// normalized.
	IsExchange(chain entity.Chain, address string) bool

	// MixerCount returns the number of loaded mixer entries for a chain.
	// Used for startup sanity logging.
	MixerCount(chain entity.Chain) int

	// ExchangeCount returns the number of loaded exchange entries for a chain.
	ExchangeCount(chain entity.Chain) int
}
