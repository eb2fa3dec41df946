package reference

import (
	"testing"

	"wallet-profiler/internal/domain/entity"
	"wallet-profiler/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewListsLoadsEmbeddedData(t *testing.T) {
	l, err := NewLists(logger.NewNop())
	require.NoError(t, err)

	assert.Greater(t, l.MixerCount(entity.ChainEthereum), 0)
	assert.Greater(t, l.MixerCount(entity.ChainSolana), 0)
	assert.Greater(t, l.ExchangeCount(entity.ChainEthereum), 0)
	assert.Greater(t, l.ExchangeCount(entity.ChainSolana), 0)
}

func TestListsNormalizeEthereumEntries(t *testing.T) {
	l, err := NewLists(logger.NewNop())
	require.NoError(t, err)

	// Entries ship checksummed; lookups happen against lowercased addresses.
	assert.True(t, l.IsMixer(entity.ChainEthereum, "0x910cbd523d972eb0a6f4cae4618ad62622b39dbf"))
	assert.True(t, l.IsExchange(entity.ChainEthereum, "0x3f5ce5fbfe3e9af3971dd833d26ba9b5c936f0be"))

	// The checksummed form is not stored; callers must normalize first.
	assert.False(t, l.IsMixer(entity.ChainEthereum, "0x910Cbd523D972eb0a6f4cAe4618aD62622b39DbF"))
}

func TestListsSolanaEntriesAreExactCase(t *testing.T) {
	l, err := NewLists(logger.NewNop())
	require.NoError(t, err)

	assert.True(t, l.IsExchange(entity.ChainSolana, "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"))
	assert.False(t, l.IsExchange(entity.ChainSolana, "9wzdxwbbmkg8ztbnmquxvqrayrzzdsgydlvl9zytawwm"))
}

func TestListsUnknownAddress(t *testing.T) {
	l, err := NewLists(logger.NewNop())
	require.NoError(t, err)

	assert.False(t, l.IsMixer(entity.ChainEthereum, "0x1111111111111111111111111111111111111111"))
	assert.False(t, l.IsExchange(entity.ChainEthereum, "0x1111111111111111111111111111111111111111"))
}
