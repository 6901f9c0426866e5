package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"swapdesk/internal/handlers/business"
	"swapdesk/internal/models"
	"swapdesk/internal/pricing"
)

// GormStore implements the business persistence contract over gorm.
// Atomically hands participants a store bound to the transaction handle, so
// every write in the unit shares one database transaction.
type GormStore struct {
	db *gorm.DB
}

// New creates a store over the given database handle.
func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ business.Store = (*GormStore)(nil)
var _ business.SampleSource = (*GormStore)(nil)

func (s *GormStore) Atomically(fn func(business.Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) CreateQuote(q *models.Quote) error {
	return s.db.Create(q).Error
}

func (s *GormStore) QuoteByID(id string) (*models.Quote, error) {
	var quote models.Quote
	if err := s.db.Where("id = ?", id).First(&quote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &business.NotFoundError{Resource: "quote", ID: id}
		}
		return nil, err
	}
	return &quote, nil
}

func (s *GormStore) CreateSwap(swap *models.Swap) error {
	return s.db.Create(swap).Error
}

func (s *GormStore) SwapByID(id string) (*models.Swap, error) {
	var swap models.Swap
	if err := s.db.Where("id = ?", id).First(&swap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &business.NotFoundError{Resource: "swap", ID: id}
		}
		return nil, err
	}
	return &swap, nil
}

func (s *GormStore) SwapByHash(hash, chain string) (*models.Swap, error) {
	var swap models.Swap
	if err := s.db.Where("hash = ? AND chain = ?", hash, chain).First(&swap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &swap, nil
}

func (s *GormStore) SaveSwap(swap *models.Swap) error {
	return s.db.Save(swap).Error
}

func (s *GormStore) NonTerminalSwaps(createdBefore time.Time, limit int) ([]models.Swap, error) {
	var swaps []models.Swap
	err := s.db.
		Where("status IN ? AND created_at < ?", []models.SwapStatus{
			models.SwapStatusPending,
			models.SwapStatusProcessed,
			models.SwapStatusConfirmed,
		}, createdBefore).
		Order("created_at asc").
		Limit(limit).
		Find(&swaps).Error
	if err != nil {
		return nil, err
	}
	return swaps, nil
}

func (s *GormStore) CreateSwapFee(f *models.SwapFee) error {
	return s.db.Create(f).Error
}

func (s *GormStore) CreateReferralCommission(c *models.ReferralCommission) error {
	return s.db.Create(c).Error
}

func (s *GormStore) CreateIdempotencyKey(k *models.IdempotencyKey) error {
	return s.db.Create(k).Error
}

func (s *GormStore) DeleteIdempotencyKey(k *models.IdempotencyKey) error {
	return s.db.Delete(k).Error
}

func (s *GormStore) LinkIdempotencyKey(keyID uint, swapID string) error {
	return s.db.Model(&models.IdempotencyKey{}).
		Where("id = ?", keyID).
		Update("swap_id", swapID).Error
}

func (s *GormStore) ActiveReferralFor(traderUserID string) (*models.Referral, error) {
	var referral models.Referral
	err := s.db.Where("trader_user_id = ? AND is_active = ?", traderUserID, true).
		First(&referral).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &referral, nil
}

// SamplesInRange loads the raw price samples for a mint, ordered by
// observation time.
func (s *GormStore) SamplesInRange(ctx context.Context, mint string, from, to time.Time) ([]pricing.Sample, error) {
	var rows []models.PriceSample
	err := s.db.WithContext(ctx).
		Where("mint = ? AND sampled_at >= ? AND sampled_at <= ?", mint, from, to).
		Order("sampled_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	samples := make([]pricing.Sample, 0, len(rows))
	for _, row := range rows {
		samples = append(samples, pricing.Sample{
			Timestamp: row.SampledAt,
			Open:      row.Open,
			High:      row.High,
			Low:       row.Low,
			Close:     row.Close,
			Value:     row.Value,
		})
	}
	return samples, nil
}

func (s *GormStore) HoldingFor(userID, mint string) (*models.WalletHolding, error) {
	var holding models.WalletHolding
	err := s.db.Where("user_id = ? AND mint = ?", userID, mint).First(&holding).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &holding, nil
}
