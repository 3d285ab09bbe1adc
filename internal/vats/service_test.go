package vats

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerkit-dev/ledgerkit/internal/model"
)

func testRates() []model.Vat {
	return []model.Vat{
		{Code: "Z", Name: "Zero Rated", Rate: decimal.Zero, AccountID: 2210},
		{Code: "S", Name: "Standard Rate", Rate: decimal.NewFromInt(16), AccountID: 2210},
	}
}

func TestNewService(t *testing.T) {
	svc, err := NewService(testRates())
	require.NoError(t, err)
	assert.Len(t, svc.All(), 2)

	v, ok := svc.Vat("S")
	require.True(t, ok)
	assert.True(t, v.Rate.Equal(decimal.NewFromInt(16)))
	assert.False(t, v.ZeroRated())

	z, ok := svc.Vat("Z")
	require.True(t, ok)
	assert.True(t, z.ZeroRated())

	_, ok = svc.Vat("X")
	assert.False(t, ok)
}

func TestNewService_DuplicateCode(t *testing.T) {
	rates := append(testRates(), model.Vat{Code: "S", Name: "Again", Rate: decimal.NewFromInt(8)})
	_, err := NewService(rates)
	assert.Error(t, err)
}

func TestNewService_NegativeRate(t *testing.T) {
	_, err := NewService([]model.Vat{{Code: "N", Name: "Negative", Rate: decimal.NewFromInt(-1)}})
	assert.Error(t, err)
}

func TestNewService_MissingCode(t *testing.T) {
	_, err := NewService([]model.Vat{{Name: "Anonymous", Rate: decimal.Zero}})
	assert.Error(t, err)
}
