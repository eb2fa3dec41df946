package entity

import (
	"github.com/shopspring/decimal"
)

// Transaction is a native-asset transaction as reported by the chain's data
// provider. Ethereum rows carry the full from/to/value/input tuple; Solana rows
// are signature-derived and only carry Hash and TimeStamp.
type Transaction struct {
	Hash      string `json:"hash"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Value     string `json:"value,omitempty"`
	Input     string `json:"input,omitempty"`
	TimeStamp int64  `json:"time_stamp"`
}

// TokenTransfer covers fungible token and NFT transfer rows. For Solana the
// ContractAddress field carries the mint.
type TokenTransfer struct {
	ContractAddress string `json:"contract_address"`
	From            string `json:"from"`
	To              string `json:"to"`
	Value           string `json:"value,omitempty"`
	TimeStamp       int64  `json:"time_stamp"`
}

// NativeTransfer is a Solana SOL movement. Amount is in lamports.
type NativeTransfer struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
}

// WalletData is the materialized view of one wallet handed over by the fetch
// layer. Balance is in native units (ETH or SOL). FirstTx is fetched
// independently of the transaction list because provider lists may be capped
// and miss the true history start. The core treats the value as read-only.
type WalletData struct {
	Address         string           `json:"address"`
	Chain           Chain            `json:"chain,omitempty"`
	Balance         decimal.Decimal  `json:"balance"`
	Transactions    []Transaction    `json:"transactions"`
	TokenTransfers  []TokenTransfer  `json:"token_transfers"`
	NFTTransfers    []TokenTransfer  `json:"nft_transfers,omitempty"`
	NativeTransfers []NativeTransfer `json:"native_transfers,omitempty"`
	FirstTx         *Transaction     `json:"first_tx,omitempty"`
	IsContract      bool             `json:"is_contract"`
}

// Network returns the wallet's chain, defaulting to Ethereum when the fetch
// layer omitted the field.
func (w *WalletData) Network() Chain {
	if w.Chain == ChainSolana {
		return ChainSolana
	}
	return ChainEthereum
}

// NormalizedAddress is the wallet's own address in canonical form.
func (w *WalletData) NormalizedAddress() string {
	return w.Network().NormalizeAddress(w.Address)
}
