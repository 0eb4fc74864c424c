package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/coinvault/internal/backend"
	"github.com/dmitrijs2005/coinvault/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCoinService(data *fakeDataClient) *CoinService {
	s := NewCoinService(data, testLogger())
	s.nowFn = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	return s
}

func validCoin() *models.Coin {
	return &models.Coin{Name: "One Rupee", Denomination: "₹1", Year: 1985}
}

func TestCoinList_CachesUntilInvalidated(t *testing.T) {
	data := &fakeDataClient{Coins: []models.Coin{{ID: "c1", Name: "One Rupee"}}}
	s := newCoinService(data)

	first, err := s.List(context.Background())
	require.NoError(t, err)
	second, err := s.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, data.ListCalls)
}

func TestCoinRefresh_BypassesCache(t *testing.T) {
	data := &fakeDataClient{Coins: []models.Coin{{ID: "c1"}}}
	s := newCoinService(data)

	_, err := s.List(context.Background())
	require.NoError(t, err)
	_, err = s.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, data.ListCalls)
}

func TestCoinList_ErrorIsNotCached(t *testing.T) {
	data := &fakeDataClient{ListErr: backend.ErrUnavailable}
	s := newCoinService(data)

	_, err := s.List(context.Background())
	require.ErrorIs(t, err, backend.ErrUnavailable)

	data.ListErr = nil
	data.Coins = []models.Coin{{ID: "c1"}}
	coins, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, coins, 1)
}

func TestCoinAdd_AssignsIDAndTimestampAndInvalidates(t *testing.T) {
	data := &fakeDataClient{}
	s := newCoinService(data)

	_, err := s.List(context.Background()) // warm the cache
	require.NoError(t, err)

	created, err := s.Add(context.Background(), validCoin())
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, s.nowFn(), created.DateAdded)

	coins, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, coins, 1)
	assert.Equal(t, 2, data.ListCalls)
}

func TestCoinUpdate_RequiresID(t *testing.T) {
	s := newCoinService(&fakeDataClient{})

	_, err := s.Update(context.Background(), validCoin())
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCoinDelete_InvalidatesCache(t *testing.T) {
	data := &fakeDataClient{Coins: []models.Coin{{ID: "c1"}}}
	s := newCoinService(data)

	_, err := s.List(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), "c1"))
	assert.Equal(t, []string{"c1"}, data.DeletedIDs)

	_, err = s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, data.ListCalls)
}

func TestCoinValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *models.Coin)
		wantErr string
	}{
		{name: "missing name", mutate: func(c *models.Coin) { c.Name = "" }, wantErr: "name is required"},
		{name: "missing denomination", mutate: func(c *models.Coin) { c.Denomination = "" }, wantErr: "denomination is required"},
		{name: "year too old", mutate: func(c *models.Coin) { c.Year = 1799 }, wantErr: "year must be between"},
		{name: "year in the future", mutate: func(c *models.Coin) { c.Year = 2025 }, wantErr: "year must be between"},
		{name: "inverted value range", mutate: func(c *models.Coin) {
			c.EstimatedValueMin = 500
			c.EstimatedValueMax = 100
		}, wantErr: "estimated value range is inverted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newCoinService(&fakeDataClient{})
			coin := validCoin()
			tt.mutate(coin)

			_, err := s.Add(context.Background(), coin)

			require.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCoinValidation_CurrentYearAccepted(t *testing.T) {
	s := newCoinService(&fakeDataClient{})
	coin := validCoin()
	coin.Year = 2024

	_, err := s.Add(context.Background(), coin)
	assert.NoError(t, err)
}
