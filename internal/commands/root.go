package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ledgerkit-dev/ledgerkit/internal/accounts"
	"github.com/ledgerkit-dev/ledgerkit/internal/book"
	"github.com/ledgerkit-dev/ledgerkit/internal/buildinfo"
	"github.com/ledgerkit-dev/ledgerkit/internal/config"
	"github.com/ledgerkit-dev/ledgerkit/internal/store"
	"github.com/ledgerkit-dev/ledgerkit/internal/vats"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "ledgerkit",
		Short:   "Double-entry bookkeeping for small entities",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringP("dir", "C", ".", "project directory")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newAccountCommand())
	rootCmd.AddCommand(newTxnCommand())
	rootCmd.AddCommand(newLedgerCommand())

	return rootCmd
}

// project bundles the collaborators a command needs against one project dir.
type project struct {
	root    string
	cfg     *config.Config
	chart   *accounts.Service
	rates   *vats.Service
	store   *store.Sqlite
	service *book.Service
}

func (p *project) close() {
	if p.store != nil {
		p.store.Close()
	}
}

// openProject loads config, chart of accounts and the book database from
// the directory given by the --dir flag.
func openProject(cmd *cobra.Command) (*project, error) {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return nil, err
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return nil, err
	}

	chart, err := accounts.Load(root)
	if err != nil {
		return nil, err
	}

	rates, err := vats.NewService(cfg.Vats())
	if err != nil {
		return nil, err
	}

	st, err := store.Open(filepath.Join(root, cfg.Storage.Path), cfg.Entity.ID)
	if err != nil {
		return nil, err
	}

	return &project{
		root:    root,
		cfg:     cfg,
		chart:   chart,
		rates:   rates,
		store:   st,
		service: book.NewService(st, chart, rates),
	}, nil
}
