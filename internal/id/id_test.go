package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerkit-dev/ledgerkit/internal/model"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "PY00005", Format(model.KindSupplierPayment, 5))
	assert.Equal(t, "JN00123", Format(model.KindJournalEntry, 123))
	assert.Equal(t, "IN123456", Format(model.KindClientInvoice, 123456))
}

func TestParse(t *testing.T) {
	kind, seq, err := Parse("PY00005")
	require.NoError(t, err)
	assert.Equal(t, model.KindSupplierPayment, kind)
	assert.Equal(t, 5, seq)
}

func TestParse_RoundTrip(t *testing.T) {
	for _, kind := range []model.TransactionKind{model.KindCashSale, model.KindContraEntry} {
		number := Format(kind, 42)
		gotKind, gotSeq, err := Parse(number)
		require.NoError(t, err)
		assert.Equal(t, kind, gotKind)
		assert.Equal(t, 42, gotSeq)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, bad := range []string{"", "PY", "00005", "PYabc"} {
		_, _, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}
