package service

import (
	"sort"
	"time"

	"wallet-profiler/internal/domain/entity"
	"wallet-profiler/internal/domain/repository"
	"wallet-profiler/internal/infrastructure/config"
	"wallet-profiler/internal/infrastructure/logger"

	"go.uber.org/zap"
)

const (
	// A heuristic rule fires above this score, and reports high confidence
	// above scoreHighConfidence.
	scoreFireThreshold  = 0.7
	scoreHighConfidence = 0.9

	freshWalletTxLimit    = 5
	botMinTransactions    = 50
	botMinRecent          = 20
	traderMinTransactions = 20
	hodlerMinAgeDays      = 180
	nftMinTransfers       = 10
	nftRatioThreshold     = 0.5

	rapidIntervalSeconds = 60
	recentWindow         = 30 * 24 * time.Hour
)

// evalContext carries the per-invocation state every rule may look at. The
// wall clock is captured once per Classify call so all rules agree on "now".
type evalContext struct {
	data       *entity.WalletData
	chain      entity.Chain
	walletAddr string
	now        time.Time
}

// classificationRule is one entry of the ordered decision list. Evaluate
// returns nil when the rule does not apply; the first non-nil result wins.
type classificationRule struct {
	name     string
	evaluate func(ec *evalContext) *entity.Classification
}

// ClassifierService assigns exactly one behavioral label per wallet by walking
// an ordered decision list. Priority is a data structure, not a chain of
// conditionals, so it can be inspected and tested on its own.
type ClassifierService struct {
	rules  []classificationRule
	refs   repository.ReferenceRepository
	cfg    *config.AnalysisConfig
	logger *logger.Logger
}

// NewClassifierService creates a classifier backed by the given reference
// lists and thresholds.
func NewClassifierService(refs repository.ReferenceRepository, cfg *config.AnalysisConfig, log *logger.Logger) *ClassifierService {
	s := &ClassifierService{
		refs:   refs,
		cfg:    cfg,
		logger: log.WithComponent("classifier"),
	}

	// Highest precedence first. Structural facts beat external knowledge,
	// external knowledge beats inferred behavior, and the fresh-wallet guard
	// sits in front of every score so sparse data never produces spurious
	// Bot/Trader/Hodler labels.
	s.rules = []classificationRule{
		{name: "contract", evaluate: s.ruleContract},
		{name: "exchange_wallet", evaluate: s.ruleExchangeWallet},
		{name: "suspicious", evaluate: s.ruleSuspicious},
		{name: "fresh_wallet", evaluate: s.ruleFreshWallet},
		{name: "bot", evaluate: s.ruleBot},
		{name: "whale", evaluate: s.ruleWhale},
		{name: "nft_collector", evaluate: s.ruleNFTCollector},
		{name: "active_trader", evaluate: s.ruleActiveTrader},
		{name: "hodler", evaluate: s.ruleHodler},
		{name: "unclassified", evaluate: s.ruleUnclassified},
	}

	return s
}

// Classify evaluates the decision list against the wallet and returns the
// first matching label. It is pure computation over already-fetched data and
// always terminates with a result.
func (s *ClassifierService) Classify(data *entity.WalletData, now time.Time) entity.Classification {
	ec := &evalContext{
		data:       data,
		chain:      data.Network(),
		walletAddr: data.NormalizedAddress(),
		now:        now,
	}

	for _, rule := range s.rules {
		if result := rule.evaluate(ec); result != nil {
			s.logger.Debug("classification rule fired",
				zap.String("rule", rule.name),
				zap.String("address", ec.walletAddr),
				zap.String("chain", string(ec.chain)),
				zap.String("type", string(result.Type)),
				zap.String("confidence", string(result.Confidence)))
			return *result
		}
	}

	// The decision list ends with an unconditional fallback.
	return entity.Classification{Type: entity.TypeUnclassified, Confidence: entity.ConfidenceLow}
}

// ruleContract: contract bytecode (or a Solana executable account) is a
// structural fact, not a behavioral inference. Overrides everything.
func (s *ClassifierService) ruleContract(ec *evalContext) *entity.Classification {
	if !ec.data.IsContract {
		return nil
	}
	return &entity.Classification{Type: entity.TypeContract, Confidence: entity.ConfidenceHigh}
}

// ruleExchangeWallet: authoritative external knowledge beats inferred behavior.
func (s *ClassifierService) ruleExchangeWallet(ec *evalContext) *entity.Classification {
	if !s.refs.IsExchange(ec.chain, ec.walletAddr) {
		return nil
	}
	return &entity.Classification{Type: entity.TypeExchangeWallet, Confidence: entity.ConfidenceHigh}
}

// ruleSuspicious: any transaction touching a known mixer flags the wallet.
// Safety-relevant, so it must override the weaker positive labels below.
func (s *ClassifierService) ruleSuspicious(ec *evalContext) *entity.Classification {
	for _, tx := range ec.data.Transactions {
		from := ec.chain.NormalizeAddress(tx.From)
		to := ec.chain.NormalizeAddress(tx.To)
		if s.refs.IsMixer(ec.chain, from) || s.refs.IsMixer(ec.chain, to) {
			return &entity.Classification{Type: entity.TypeSuspicious, Confidence: entity.ConfidenceHigh}
		}
	}
	return nil
}

// ruleFreshWallet: too little data to support any behavioral inference.
func (s *ClassifierService) ruleFreshWallet(ec *evalContext) *entity.Classification {
	if len(ec.data.Transactions) >= freshWalletTxLimit {
		return nil
	}
	return &entity.Classification{Type: entity.TypeFreshWallet, Confidence: entity.ConfidenceHigh}
}

func (s *ClassifierService) ruleBot(ec *evalContext) *entity.Classification {
	return scoredClassification(entity.TypeBot, s.botScore(ec))
}

// ruleWhale: thresholds are chain-specific because unit economics differ.
func (s *ClassifierService) ruleWhale(ec *evalContext) *entity.Classification {
	if !ec.data.Balance.GreaterThan(s.cfg.WhaleThreshold(ec.chain)) {
		return nil
	}
	return &entity.Classification{Type: entity.TypeWhale, Confidence: entity.ConfidenceHigh}
}

// ruleNFTCollector: the ratio alone is unreliable for very small counts, so a
// minimum transfer count is required as well. Solana never populates
// NFTTransfers, so this rule cannot fire there.
func (s *ClassifierService) ruleNFTCollector(ec *evalContext) *entity.Classification {
	nftCount := len(ec.data.NFTTransfers)
	if nftCount <= nftMinTransfers {
		return nil
	}
	ratio := float64(nftCount) / float64(max(len(ec.data.Transactions), 1))
	if ratio <= nftRatioThreshold {
		return nil
	}
	return &entity.Classification{Type: entity.TypeNFTCollector, Confidence: entity.ConfidenceHigh}
}

func (s *ClassifierService) ruleActiveTrader(ec *evalContext) *entity.Classification {
	return scoredClassification(entity.TypeActiveTrader, s.traderScore(ec))
}

func (s *ClassifierService) ruleHodler(ec *evalContext) *entity.Classification {
	return scoredClassification(entity.TypeHodler, s.hodlerScore(ec))
}

func (s *ClassifierService) ruleUnclassified(ec *evalContext) *entity.Classification {
	return &entity.Classification{Type: entity.TypeUnclassified, Confidence: entity.ConfidenceLow}
}

// scoredClassification turns a blended sub-score into a result. Scores at or
// below the fire threshold fall through to the next rule.
func scoredClassification(t entity.ClassificationType, score float64) *entity.Classification {
	if score <= scoreFireThreshold {
		return nil
	}
	confidence := entity.ConfidenceMedium
	if score > scoreHighConfidence {
		confidence = entity.ConfidenceHigh
	}
	return &entity.Classification{Type: t, Confidence: confidence}
}

// botScore blends rapid-fire timing with round-the-clock activity over the
// trailing 30 days. Timing is weighted higher since it is the stronger bot
// signature. Timestamp-only, so it works on both chains. Returns 0 on
// insufficient data.
func (s *ClassifierService) botScore(ec *evalContext) float64 {
	txs := ec.data.Transactions
	if len(txs) < botMinTransactions {
		return 0
	}

	recent := transactionsSince(txs, ec.now.Add(-recentWindow))
	if len(recent) < botMinRecent {
		return 0
	}

	// Newest first.
	sort.Slice(recent, func(i, j int) bool {
		return recent[i].TimeStamp > recent[j].TimeStamp
	})

	rapid := 0
	for i := 1; i < len(recent); i++ {
		diff := recent[i-1].TimeStamp - recent[i].TimeStamp
		if diff > 0 && diff < rapidIntervalSeconds {
			rapid++
		}
	}
	rapidRatio := float64(rapid) / float64(len(recent))

	hours := make(map[int]struct{}, 24)
	for _, tx := range recent {
		hours[time.Unix(tx.TimeStamp, 0).UTC().Hour()] = struct{}{}
	}
	hourSpread := float64(len(hours)) / 24

	return 0.6*rapidRatio + 0.4*hourSpread
}

// traderScore blends recent transaction frequency (capped at 10 tx/day) with
// the share of activity that moves tokens. Returns 0 on insufficient data.
func (s *ClassifierService) traderScore(ec *evalContext) float64 {
	txs := ec.data.Transactions
	if len(txs) < traderMinTransactions {
		return 0
	}

	recent := transactionsSince(txs, ec.now.Add(-recentWindow))
	freqScore := min(float64(len(recent))/30/10, 1)
	tokenScore := min(float64(len(ec.data.TokenTransfers))/float64(max(len(txs), 1)), 1)

	return 0.5*freqScore + 0.5*tokenScore
}

// hodlerScore blends wallet age (capped at one year) with how rarely the
// wallet sends. The outgoing ratio compares every sender against the wallet's
// own normalized address. Returns 0 for wallets younger than 180 days.
func (s *ClassifierService) hodlerScore(ec *evalContext) float64 {
	txs := ec.data.Transactions
	if len(txs) == 0 {
		return 0
	}

	oldest := txs[0].TimeStamp
	for _, tx := range txs[1:] {
		if tx.TimeStamp < oldest {
			oldest = tx.TimeStamp
		}
	}

	ageDays := ec.now.Sub(time.Unix(oldest, 0)).Hours() / 24
	if ageDays < hodlerMinAgeDays {
		return 0
	}

	outgoing := 0
	for _, tx := range txs {
		if tx.From != "" && ec.chain.NormalizeAddress(tx.From) == ec.walletAddr {
			outgoing++
		}
	}
	outgoingRatio := float64(outgoing) / float64(len(txs))

	ageScore := min(ageDays/365, 1)
	return 0.4*ageScore + 0.6*(1-outgoingRatio)
}

// transactionsSince returns a copy of the transactions at or after the cutoff.
// The input order is irrelevant; callers sort the copy as needed.
func transactionsSince(txs []entity.Transaction, cutoff time.Time) []entity.Transaction {
	unix := cutoff.Unix()
	out := make([]entity.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.TimeStamp >= unix {
			out = append(out, tx)
		}
	}
	return out
}
