package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/coinvault/internal/backend"
	"github.com/dmitrijs2005/coinvault/internal/logging"
	"github.com/dmitrijs2005/coinvault/internal/models"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ErrValidation marks client-side validation failures; match with errors.Is.
var ErrValidation = errors.New("validation failed")

// MinYear is the oldest mint year the editing form accepts.
const MinYear = 1800

const (
	coinsCacheKey = "coins"
	coinsCacheTTL = 30 * time.Second
)

// CoinService wraps the backend data client with client-side validation and
// a short-lived read cache for the coin list. The cache is invalidated on
// every mutation, so reads after a write always see fresh data.
type CoinService struct {
	data  backend.DataClient
	cache *cache.Cache
	log   logging.Logger

	// test seam
	nowFn func() time.Time
}

func NewCoinService(data backend.DataClient, log logging.Logger) *CoinService {
	return &CoinService{
		data:  data,
		cache: cache.New(coinsCacheTTL, time.Minute),
		log:   log.With("component", "coins"),
		nowFn: time.Now,
	}
}

// List returns all coins in the collection, newest first, serving repeated
// calls from the cache until it expires or a mutation invalidates it.
func (s *CoinService) List(ctx context.Context) ([]models.Coin, error) {
	if v, ok := s.cache.Get(coinsCacheKey); ok {
		return v.([]models.Coin), nil
	}

	coins, err := s.data.ListCoins(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading coins: %w", err)
	}

	s.cache.SetDefault(coinsCacheKey, coins)
	return coins, nil
}

// Refresh drops the cache and reloads the list from the backend.
func (s *CoinService) Refresh(ctx context.Context) ([]models.Coin, error) {
	s.cache.Delete(coinsCacheKey)
	return s.List(ctx)
}

func (s *CoinService) Get(ctx context.Context, id string) (*models.Coin, error) {
	coin, err := s.data.GetCoin(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading coin %s: %w", id, err)
	}
	return coin, nil
}

// Add validates and creates a new coin record. The id is generated
// client-side so the record can be referenced before the backend responds.
func (s *CoinService) Add(ctx context.Context, coin *models.Coin) (*models.Coin, error) {
	if err := s.validate(coin); err != nil {
		return nil, err
	}

	if coin.ID == "" {
		coin.ID = uuid.NewString()
	}
	if coin.DateAdded.IsZero() {
		coin.DateAdded = s.nowFn().UTC()
	}

	created, err := s.data.CreateCoin(ctx, coin)
	if err != nil {
		return nil, fmt.Errorf("creating coin: %w", err)
	}

	s.cache.Delete(coinsCacheKey)
	return created, nil
}

// Update validates and persists changes to an existing coin.
func (s *CoinService) Update(ctx context.Context, coin *models.Coin) (*models.Coin, error) {
	if coin.ID == "" {
		return nil, fmt.Errorf("%w: missing coin id", ErrValidation)
	}
	if err := s.validate(coin); err != nil {
		return nil, err
	}

	updated, err := s.data.UpdateCoin(ctx, coin)
	if err != nil {
		return nil, fmt.Errorf("updating coin: %w", err)
	}

	s.cache.Delete(coinsCacheKey)
	return updated, nil
}

func (s *CoinService) Delete(ctx context.Context, id string) error {
	if err := s.data.DeleteCoin(ctx, id); err != nil {
		return fmt.Errorf("deleting coin: %w", err)
	}
	s.cache.Delete(coinsCacheKey)
	return nil
}

// validate enforces the editing form's rules. The query engine never
// validates; bad records must be rejected here, at creation/edit time.
func (s *CoinService) validate(coin *models.Coin) error {
	if coin.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if coin.Denomination == "" {
		return fmt.Errorf("%w: denomination is required", ErrValidation)
	}
	maxYear := s.nowFn().Year()
	if coin.Year < MinYear || coin.Year > maxYear {
		return fmt.Errorf("%w: year must be between %d and %d", ErrValidation, MinYear, maxYear)
	}
	if coin.EstimatedValueMin > 0 && coin.EstimatedValueMax > 0 &&
		coin.EstimatedValueMin > coin.EstimatedValueMax {
		return fmt.Errorf("%w: estimated value range is inverted", ErrValidation)
	}
	return nil
}
