// Package cli implements the mnemos CLI commands.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mnemoslabs/mnemos/internal/compose"
	"github.com/mnemoslabs/mnemos/internal/config"
	"github.com/mnemoslabs/mnemos/internal/cortex"
	"github.com/mnemoslabs/mnemos/internal/embedding"
	"github.com/mnemoslabs/mnemos/internal/record"
	"github.com/mnemoslabs/mnemos/internal/semantic"
	"github.com/mnemoslabs/mnemos/internal/vault"
)

var (
	configPath string
	dataDir    string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "mnemos",
	Short: "Layered memory and context composition for a personal assistant",
	Long: "mnemos owns what the assistant remembers: three durable vaults (mind, body,\n" +
		"soul), five cortex layers, and the composer that blends them into prompt\n" +
		"context before every response. SQLite-backed, single binary.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ~/.mnemos/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "Data directory (default: $MNEMOS_DATA_DIR or ~/.mnemos)")
}

// engine bundles the shared stores a command may need.
type engine struct {
	cfg    config.Config
	vaults *vault.Store
	strata *cortex.Strata
	index  *semantic.Index // nil when disabled
}

func openEngine() (*engine, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	vaults, err := vault.Open(filepath.Join(cfg.DataDir, "vaults"), cfg.SoulPassphrase())
	if err != nil {
		return nil, err
	}

	strata, err := cortex.Open(filepath.Join(cfg.DataDir, "cortex.db"))
	if err != nil {
		vaults.Close()
		return nil, err
	}

	e := &engine{cfg: cfg, vaults: vaults, strata: strata}
	if emb := embedding.New(cfg.Semantic.Provider, cfg.Semantic.BaseURL, cfg.Semantic.Model); emb != nil {
		ix, err := semantic.Open(filepath.Join(cfg.DataDir, "semantic"), emb)
		if err != nil {
			e.Close()
			return nil, err
		}
		e.index = ix
	}
	return e, nil
}

func (e *engine) Close() {
	e.strata.Close()
	e.vaults.Close()
}

func (e *engine) composer() *compose.Composer {
	var searcher semantic.Searcher
	if e.index != nil {
		searcher = e.index
	}
	return compose.New(e.vaults, e.strata, searcher, compose.Options{
		Subject:       e.cfg.Subject,
		DecayRate:     e.cfg.Compose.DecayRate,
		EpisodicLimit: e.cfg.Compose.EpisodicLimit,
		Budget:        e.cfg.Compose.Budget,
		SemanticTopK:  e.cfg.Semantic.TopK,
		Weights:       e.cfg.Compose.Weights,
	})
}

func (e *engine) recorder() *record.Recorder {
	var indexer semantic.Indexer
	if e.index != nil {
		indexer = e.index
	}
	return record.New(e.strata, indexer, record.Options{
		Subject:       e.cfg.Subject,
		AssistantName: e.cfg.Record.AssistantName,
		Truncate:      e.cfg.Record.Truncate,
	})
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
