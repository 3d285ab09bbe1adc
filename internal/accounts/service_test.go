package accounts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerkit-dev/ledgerkit/internal/model"
)

func TestNewService(t *testing.T) {
	chart := DefaultChart()
	svc := NewService(chart)

	assert.Len(t, svc.All(), len(chart))
}

func TestAccountExists(t *testing.T) {
	svc := NewService(DefaultChart())

	acct, ok := svc.Account(1010)
	assert.True(t, ok)
	assert.Equal(t, "Business Checking", acct.Name)

	_, ok = svc.Account(9999)
	assert.False(t, ok)

	assert.True(t, svc.Exists(1010))
	assert.False(t, svc.Exists(9999))
}

func TestByType(t *testing.T) {
	svc := NewService(DefaultChart())

	banks := svc.ByType(model.AccountTypeBank)
	assert.Len(t, banks, 2, "expected Business Checking + Petty Cash")
	for _, a := range banks {
		assert.Equal(t, model.AccountTypeBank, a.Type)
	}

	expenses := svc.ByType(model.AccountTypeExpense)
	assert.Len(t, expenses, 3)
}

func TestAdd(t *testing.T) {
	svc := NewService(DefaultChart())

	err := svc.Add(model.Account{ID: 1030, Name: "Money Market", Type: model.AccountTypeBank})
	require.NoError(t, err)
	assert.True(t, svc.Exists(1030))

	err = svc.Add(model.Account{ID: 1030, Name: "Duplicate", Type: model.AccountTypeBank})
	assert.Error(t, err)

	err = svc.Add(model.Account{ID: 1040, Name: "Bad Type", Type: "asset"})
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	chart := DefaultChart()
	svc := NewService(chart)

	dir := t.TempDir()
	err := svc.Save(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "accounts", "chart-of-accounts.csv")
	_, err = os.Stat(path)
	require.NoError(t, err)

	svc2, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, svc2.All(), len(chart))
	assert.True(t, svc2.Exists(2110))
}

func TestDefaultChart_CoversRuleSetTypes(t *testing.T) {
	svc := NewService(DefaultChart())

	for _, accountType := range model.AccountTypes() {
		assert.NotEmpty(t, svc.ByType(accountType), "no account of type %s", accountType)
	}
}
