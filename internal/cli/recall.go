package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mnemoslabs/mnemos/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "recall <key-or-prefix>",
		Short: "Recall cortex memories",
		Long: "Recall a single cortex memory by exact key, or with --prefix the most recent\n" +
			"entries matching a layer-qualified key prefix, newest first.",
		Args: cobra.ExactArgs(1),
		Run:  runRecall,
	}

	cmd.Flags().StringP("layer", "l", "epm", "Cortex layer (exact-key mode)")
	cmd.Flags().BoolP("prefix", "p", false, "Treat the argument as a key prefix")
	cmd.Flags().IntP("limit", "n", 8, "Max entries in prefix mode")

	RootCmd.AddCommand(cmd)
}

func runRecall(cmd *cobra.Command, args []string) {
	prefixMode, _ := cmd.Flags().GetBool("prefix")
	limit, _ := cmd.Flags().GetInt("limit")

	e, err := openEngine()
	if err != nil {
		exitErr("open stores", err)
	}
	defer e.Close()

	if prefixMode {
		entries, err := e.strata.RecallPrefix(cmd.Context(), args[0], limit)
		if err != nil {
			exitErr("recall", err)
		}
		b, _ := json.MarshalIndent(entries, "", "  ")
		fmt.Println(string(b))
		return
	}

	layerStr, _ := cmd.Flags().GetString("layer")
	layer, err := model.ParseLayer(layerStr)
	if err != nil {
		exitErr("recall", err)
	}

	payload, err := e.strata.Recall(cmd.Context(), layer, args[0])
	if errors.Is(err, model.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "not found: %s\n", args[0])
		os.Exit(1)
	}
	if err != nil {
		exitErr("recall", err)
	}
	fmt.Println(payload)
}
