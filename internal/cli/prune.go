package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mnemoslabs/mnemos/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Trim old entries from a cortex layer",
		Long:  "Delete all but the newest N entries in a layer. The store never evicts on its\nown; retention is an operator decision.",
		Run:   runPrune,
	}

	cmd.Flags().StringP("layer", "l", "stm", "Cortex layer to prune")
	cmd.Flags().Int("keep", 100, "Entries to keep")

	RootCmd.AddCommand(cmd)
}

func runPrune(cmd *cobra.Command, args []string) {
	layerStr, _ := cmd.Flags().GetString("layer")
	keep, _ := cmd.Flags().GetInt("keep")
	layer, err := model.ParseLayer(layerStr)
	if err != nil {
		exitErr("prune", err)
	}

	e, err := openEngine()
	if err != nil {
		exitErr("open stores", err)
	}
	defer e.Close()

	n, err := e.strata.Prune(cmd.Context(), layer, keep)
	if err != nil {
		exitErr("prune", err)
	}
	fmt.Printf("pruned %d entries from %s\n", n, layer)
}
