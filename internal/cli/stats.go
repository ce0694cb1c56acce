package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mnemoslabs/mnemos/internal/cortex"
	"github.com/mnemoslabs/mnemos/internal/vault"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show vault and cortex statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

type statsOut struct {
	Vaults *vault.Stats  `json:"vaults"`
	Cortex *cortex.Stats `json:"cortex"`
}

func runStats(cmd *cobra.Command, args []string) {
	e, err := openEngine()
	if err != nil {
		exitErr("open stores", err)
	}
	defer e.Close()

	vs, err := e.vaults.Stats(cmd.Context())
	if err != nil {
		exitErr("vault stats", err)
	}
	cs, err := e.strata.Stats(cmd.Context())
	if err != nil {
		exitErr("cortex stats", err)
	}

	b, _ := json.MarshalIndent(statsOut{Vaults: vs, Cortex: cs}, "", "  ")
	fmt.Println(string(b))
}
