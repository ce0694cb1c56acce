package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mnemoslabs/mnemos/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export vault entries as JSON",
		Long:  "Dump vault entries (decrypted) to stdout for backup. Pair with import.",
		Run:   runExport,
	}

	cmd.Flags().String("domain", "", "Limit to one vault domain (default: all)")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	domainStr, _ := cmd.Flags().GetString("domain")

	domains := model.Domains
	if domainStr != "" {
		d, err := model.ParseDomain(domainStr)
		if err != nil {
			exitErr("export", err)
		}
		domains = []model.Domain{d}
	}

	e, err := openEngine()
	if err != nil {
		exitErr("open stores", err)
	}
	defer e.Close()

	var all []model.VaultEntry
	for _, d := range domains {
		entries, err := e.vaults.ExportAll(cmd.Context(), d)
		if err != nil {
			exitErr("export", err)
		}
		all = append(all, entries...)
	}

	b, _ := json.MarshalIndent(all, "", "  ")
	fmt.Println(string(b))
}
