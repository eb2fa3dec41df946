package entity

import (
	"time"
)

// ClassificationType is the behavioral label assigned to a wallet. Exactly one
// is assigned per analysis.
type ClassificationType string

const (
	TypeContract       ClassificationType = "Contract"
	TypeExchangeWallet ClassificationType = "Exchange Wallet"
	TypeSuspicious     ClassificationType = "Suspicious"
	TypeBot            ClassificationType = "Bot"
	TypeWhale          ClassificationType = "Whale"
	TypeFreshWallet    ClassificationType = "Fresh Wallet"
	TypeNFTCollector   ClassificationType = "NFT Collector"
	TypeActiveTrader   ClassificationType = "Active Trader"
	TypeHodler         ClassificationType = "Hodler"
	TypeUnclassified   ClassificationType = "Unclassified"
)

// Confidence is a coarse reliability tag, not a calibrated probability.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Classification pairs a label with its confidence.
type Classification struct {
	Type       ClassificationType `json:"type"`
	Confidence Confidence         `json:"confidence"`
}

// Metrics summarizes a wallet's activity. First/LastTransaction are nil when
// the wallet has no observable history.
type Metrics struct {
	WalletAgeDays    int        `json:"wallet_age_days"`
	FirstTransaction *time.Time `json:"first_transaction"`
	LastTransaction  *time.Time `json:"last_transaction"`
	TxPerWeek        float64    `json:"tx_per_week"`
	UniqueTokens     int        `json:"unique_tokens"`
}

// Counterparty is one tallied counterparty address.
type Counterparty struct {
	Address string `json:"address"`
	Count   int    `json:"count"`
}

// Connections holds the top counterparties in each direction, sorted by count
// descending and truncated to five.
type Connections struct {
	TopSendsTo      []Counterparty `json:"top_sends_to"`
	TopReceivesFrom []Counterparty `json:"top_receives_from"`
}

// WalletReport is the complete analysis result. It is transient: recomputed
// from scratch on every request, never persisted.
type WalletReport struct {
	Address        string         `json:"address"`
	Chain          Chain          `json:"chain"`
	Classification Classification `json:"classification"`
	Metrics        Metrics        `json:"metrics"`
	Connections    Connections    `json:"connections"`
	AnalyzedAt     time.Time      `json:"analyzed_at"`
}
