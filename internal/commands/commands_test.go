package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerkit-dev/ledgerkit/internal/book"
	"github.com/ledgerkit-dev/ledgerkit/internal/config"
)

// run executes the CLI in-process against a project directory.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--dir", dir}, args...))
	err := root.Execute()
	return out.String(), err
}

func initProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := run(t, dir, "init", dir, "--name", "Test Traders Ltd")
	require.NoError(t, err)
	return dir
}

func TestInit_CreatesProject(t *testing.T) {
	dir := initProject(t)

	for _, f := range []string{config.FileName, filepath.Join("accounts", "chart-of-accounts.csv"), "book.db"} {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, f)
	}

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "Test Traders Ltd", cfg.Entity.Name)
}

func TestAccountAddAndList(t *testing.T) {
	dir := initProject(t)

	out, err := run(t, dir, "account", "add", "--id", "1030", "--name", "Money Market", "--type", "bank")
	require.NoError(t, err)
	assert.Contains(t, out, "Added account 1030")

	out, err = run(t, dir, "account", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Money Market")
	assert.Contains(t, out, "Trade Creditors")
}

func TestTxnLifecycle(t *testing.T) {
	dir := initProject(t)

	out, err := run(t, dir, "txn", "new", "--kind", "PY", "--main-account", "2110", "--date", "2026-03-15", "--narration", "march rent")
	require.NoError(t, err)
	assert.Contains(t, out, "Created draft PY00001")

	out, err = run(t, dir, "txn", "add-line", "PY00001", "--account", "1010", "--amount", "100", "--quantity", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Added account 1010 for 200.00")

	out, err = run(t, dir, "txn", "post", "PY00001")
	require.NoError(t, err)
	assert.Contains(t, out, "Posted PY00001")

	out, err = run(t, dir, "txn", "show", "PY00001")
	require.NoError(t, err)
	assert.Contains(t, out, "posting: credit 200.00 on account 1010")
	assert.Contains(t, out, "posting: debit 200.00 on account 2110")

	out, err = run(t, dir, "ledger", "balances")
	require.NoError(t, err)
	assert.Contains(t, out, "Business Checking")
	assert.Contains(t, out, "200.00")
}

func TestTxnNew_WrongMainAccount(t *testing.T) {
	dir := initProject(t)

	_, err := run(t, dir, "txn", "new", "--kind", "PY", "--main-account", "1210")
	var mainErr *book.MainAccountError
	require.ErrorAs(t, err, &mainErr)
}

func TestTxnAddLine_VatCharge(t *testing.T) {
	dir := initProject(t)

	_, err := run(t, dir, "txn", "new", "--kind", "PY", "--main-account", "2110")
	require.NoError(t, err)

	_, err = run(t, dir, "txn", "add-line", "PY00001", "--account", "1010", "--amount", "50", "--vat", "S")
	var vatErr *book.VatChargeError
	require.ErrorAs(t, err, &vatErr)
}

func TestTxnPost_ThenImmutable(t *testing.T) {
	dir := initProject(t)

	_, err := run(t, dir, "txn", "new", "--kind", "PY", "--main-account", "2110")
	require.NoError(t, err)
	_, err = run(t, dir, "txn", "add-line", "PY00001", "--account", "1010", "--amount", "75")
	require.NoError(t, err)
	_, err = run(t, dir, "txn", "post", "PY00001")
	require.NoError(t, err)

	_, err = run(t, dir, "txn", "add-line", "PY00001", "--account", "1010", "--amount", "10")
	var posted *book.PostedTransactionError
	require.ErrorAs(t, err, &posted)
}

func TestTxnRecycleRestore(t *testing.T) {
	dir := initProject(t)

	_, err := run(t, dir, "txn", "new", "--kind", "JN", "--main-account", "1010")
	require.NoError(t, err)

	out, err := run(t, dir, "txn", "recycle", "JN00001")
	require.NoError(t, err)
	assert.Contains(t, out, "Recycled JN00001")

	out, err = run(t, dir, "txn", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "JN00001")

	out, err = run(t, dir, "txn", "restore", "JN00001")
	require.NoError(t, err)
	assert.Contains(t, out, "Restored JN00001")

	out, err = run(t, dir, "txn", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "JN00001")
}

func TestLedgerExport(t *testing.T) {
	dir := initProject(t)

	_, err := run(t, dir, "txn", "new", "--kind", "PY", "--main-account", "2110")
	require.NoError(t, err)
	_, err = run(t, dir, "txn", "add-line", "PY00001", "--account", "1010", "--amount", "40")
	require.NoError(t, err)
	_, err = run(t, dir, "txn", "post", "PY00001")
	require.NoError(t, err)

	exportPath := filepath.Join(dir, "ledgers.csv")
	_, err = run(t, dir, "ledger", "export", "-o", exportPath)
	require.NoError(t, err)

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "PY00001,1010,credit,40.00")
	assert.Contains(t, string(data), "PY00001,2110,debit,40.00")
}
