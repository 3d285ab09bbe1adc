package accounts

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerkit-dev/ledgerkit/internal/model"
)

func TestRoundTrip(t *testing.T) {
	accounts := []model.Account{
		{ID: 1010, Name: "Business Checking", Type: model.AccountTypeBank, Description: "Primary checking account"},
		{ID: 2110, Name: "Trade Creditors", Type: model.AccountTypePayable, Description: "Supplier payables"},
	}

	var buf bytes.Buffer
	err := WriteAccounts(&buf, accounts)
	require.NoError(t, err)

	got, err := ReadAccounts(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, accounts[0].ID, got[0].ID)
	assert.Equal(t, accounts[0].Name, got[0].Name)
	assert.Equal(t, accounts[0].Type, got[0].Type)
	assert.Equal(t, accounts[0].Description, got[0].Description)

	assert.Equal(t, accounts[1].ID, got[1].ID)
	assert.Equal(t, accounts[1].Type, got[1].Type)
}

func TestParentID(t *testing.T) {
	accounts := []model.Account{
		{ID: 1010, Name: "Checking", Type: model.AccountTypeBank},
		{ID: 1011, Name: "Sub-checking", Type: model.AccountTypeBank, ParentID: 1010},
	}

	var buf bytes.Buffer
	err := WriteAccounts(&buf, accounts)
	require.NoError(t, err)

	got, err := ReadAccounts(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 0, got[0].ParentID)
	assert.Equal(t, 1010, got[1].ParentID)
}

func TestUnmarshalAccount_RejectsUnknownType(t *testing.T) {
	_, err := UnmarshalAccount([]string{"1010", "Checking", "asset", "", ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account_type")
}

func TestReadAccounts_Empty(t *testing.T) {
	got, err := ReadAccounts(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Empty(t, got)
}
