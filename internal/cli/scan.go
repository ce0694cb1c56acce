package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mnemoslabs/mnemos/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan [prefix]",
		Short: "List vault entries by key prefix",
		Args:  cobra.MaximumNArgs(1),
		Run:   runScan,
	}

	cmd.Flags().String("domain", "mind", "Vault domain: mind, body, soul")
	cmd.Flags().IntP("limit", "n", 20, "Max entries to return")

	RootCmd.AddCommand(cmd)
}

func runScan(cmd *cobra.Command, args []string) {
	domainStr, _ := cmd.Flags().GetString("domain")
	limit, _ := cmd.Flags().GetInt("limit")
	domain, err := model.ParseDomain(domainStr)
	if err != nil {
		exitErr("scan", err)
	}
	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}

	e, err := openEngine()
	if err != nil {
		exitErr("open stores", err)
	}
	defer e.Close()

	entries, err := e.vaults.ReadPrefix(cmd.Context(), domain, prefix, limit)
	if err != nil {
		exitErr("scan", err)
	}
	b, _ := json.MarshalIndent(entries, "", "  ")
	fmt.Println(string(b))
}
