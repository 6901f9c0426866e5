package business

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"swapdesk/internal/models"
	"swapdesk/pkg/jupiter"
	"swapdesk/pkg/solana"
)

// fakeStore is an in-memory Store with per-call fault injection. Atomically
// runs fn against a copy and only merges on success, mirroring transaction
// rollback.
type fakeStore struct {
	quotes      map[string]*models.Quote
	swaps       map[string]*models.Swap
	fees        []*models.SwapFee
	commissions []*models.ReferralCommission
	referrals   map[string]*models.Referral
	holdings    map[string]*models.WalletHolding
	keys        map[string]*models.IdempotencyKey

	failCommission error
	failSwapFee    error
	failSaveSwap   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		quotes:    map[string]*models.Quote{},
		swaps:     map[string]*models.Swap{},
		referrals: map[string]*models.Referral{},
		holdings:  map[string]*models.WalletHolding{},
		keys:      map[string]*models.IdempotencyKey{},
	}
}

func (s *fakeStore) clone() *fakeStore {
	c := &fakeStore{
		quotes:         map[string]*models.Quote{},
		swaps:          map[string]*models.Swap{},
		referrals:      map[string]*models.Referral{},
		holdings:       map[string]*models.WalletHolding{},
		keys:           map[string]*models.IdempotencyKey{},
		failCommission: s.failCommission,
		failSwapFee:    s.failSwapFee,
		failSaveSwap:   s.failSaveSwap,
	}
	for k, v := range s.quotes {
		c.quotes[k] = v
	}
	for k, v := range s.swaps {
		c.swaps[k] = v
	}
	for k, v := range s.referrals {
		c.referrals[k] = v
	}
	for k, v := range s.holdings {
		c.holdings[k] = v
	}
	for k, v := range s.keys {
		c.keys[k] = v
	}
	c.fees = append(c.fees, s.fees...)
	c.commissions = append(c.commissions, s.commissions...)
	return c
}

func (s *fakeStore) Atomically(fn func(Store) error) error {
	tx := s.clone()
	if err := fn(tx); err != nil {
		return err
	}
	*s = *tx
	return nil
}

func (s *fakeStore) CreateQuote(q *models.Quote) error {
	s.quotes[q.ID] = q
	return nil
}

func (s *fakeStore) QuoteByID(id string) (*models.Quote, error) {
	q, ok := s.quotes[id]
	if !ok {
		return nil, &NotFoundError{Resource: "quote", ID: id}
	}
	return q, nil
}

func (s *fakeStore) CreateSwap(swap *models.Swap) error {
	s.swaps[swap.ID] = swap
	return nil
}

func (s *fakeStore) SwapByID(id string) (*models.Swap, error) {
	swap, ok := s.swaps[id]
	if !ok {
		return nil, &NotFoundError{Resource: "swap", ID: id}
	}
	return swap, nil
}

func (s *fakeStore) SwapByHash(hash, chain string) (*models.Swap, error) {
	for _, swap := range s.swaps {
		if swap.Hash == hash && swap.Chain == chain {
			return swap, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) CreateIdempotencyKey(k *models.IdempotencyKey) error {
	if _, ok := s.keys[k.Token]; ok {
		return fmt.Errorf("duplicate key value violates unique constraint %q", "idx_idempotency_keys_token")
	}
	k.ID = uint(len(s.keys) + 1)
	s.keys[k.Token] = k
	return nil
}

func (s *fakeStore) DeleteIdempotencyKey(k *models.IdempotencyKey) error {
	delete(s.keys, k.Token)
	return nil
}

func (s *fakeStore) LinkIdempotencyKey(keyID uint, swapID string) error {
	for _, k := range s.keys {
		if k.ID == keyID {
			id := swapID
			k.SwapID = &id
		}
	}
	return nil
}

func (s *fakeStore) SaveSwap(swap *models.Swap) error {
	if s.failSaveSwap != nil {
		return s.failSaveSwap
	}
	s.swaps[swap.ID] = swap
	return nil
}

func (s *fakeStore) NonTerminalSwaps(createdBefore time.Time, limit int) ([]models.Swap, error) {
	var out []models.Swap
	for _, swap := range s.swaps {
		if !swap.Status.Terminal() && swap.CreatedAt.Before(createdBefore) {
			out = append(out, *swap)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeStore) CreateSwapFee(f *models.SwapFee) error {
	if s.failSwapFee != nil {
		return s.failSwapFee
	}
	s.fees = append(s.fees, f)
	return nil
}

func (s *fakeStore) CreateReferralCommission(c *models.ReferralCommission) error {
	if s.failCommission != nil {
		return s.failCommission
	}
	s.commissions = append(s.commissions, c)
	return nil
}

func (s *fakeStore) ActiveReferralFor(traderUserID string) (*models.Referral, error) {
	return s.referrals[traderUserID], nil
}

func (s *fakeStore) HoldingFor(userID, mint string) (*models.WalletHolding, error) {
	return s.holdings[userID+"|"+mint], nil
}

// fakeProvider returns a canned quote.
type fakeProvider struct {
	quote *jupiter.QuoteResponse
	raw   []byte
	err   error

	lastFeeBps      int
	lastSlippageBps int
}

func (p *fakeProvider) GetQuote(ctx context.Context, inputMint, outputMint, amount string, slippageBps, feeBps int) (*jupiter.QuoteResponse, []byte, error) {
	p.lastFeeBps = feeBps
	p.lastSlippageBps = slippageBps
	if p.err != nil {
		return nil, nil, p.err
	}
	return p.quote, p.raw, nil
}

func (p *fakeProvider) BuildTransaction(ctx context.Context, rawQuote []byte, userPublicKey string) (*jupiter.SwapTransactionResponse, error) {
	return &jupiter.SwapTransactionResponse{SwapTransaction: "tx"}, nil
}

// fakePrices maps mints to USD prices; unknown mints resolve to nil.
type fakePrices struct {
	prices map[string]decimal.Decimal
	err    error
}

func (p *fakePrices) GetPriceUsd(ctx context.Context, mint string) (*decimal.Decimal, error) {
	if p.err != nil {
		return nil, p.err
	}
	price, ok := p.prices[mint]
	if !ok {
		return nil, nil
	}
	return &price, nil
}

// fakeAccounts answers the receiving-account check.
type fakeAccounts struct {
	hasAccount bool
	err        error
	calls      int
}

func (a *fakeAccounts) HasReceivingAccount(ctx context.Context, walletAddress, mint string) (bool, error) {
	a.calls++
	return a.hasAccount, a.err
}

// fakeLedger returns a scripted signature status.
type fakeLedger struct {
	status     *solana.SignatureStatus
	statusErr  error
	failReason string
}

func (l *fakeLedger) GetConfirmationStatus(ctx context.Context, hash string) (*solana.SignatureStatus, error) {
	if l.statusErr != nil {
		return nil, l.statusErr
	}
	return l.status, nil
}

func (l *fakeLedger) DecodeFailureReason(ctx context.Context, hash string) (string, error) {
	return l.failReason, nil
}

// fakeNotifier records emitted events and alerts.
type fakeNotifier struct {
	events []string
	alerts []string
}

func (n *fakeNotifier) AnalyticsEvent(event string, payload map[string]any) {
	n.events = append(n.events, event)
}

func (n *fakeNotifier) OpsAlert(message string, payload map[string]any) {
	n.alerts = append(n.alerts, message)
}

func errFor(name string) error {
	return fmt.Errorf("injected %s failure", name)
}
