package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mnemoslabs/mnemos/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "forget <key>",
		Short: "Delete a vault entry",
		Long:  "Delete a key from a vault domain. Vault entries never expire on their own;\nthis is the only way one goes away.",
		Args:  cobra.ExactArgs(1),
		Run:   runForget,
	}

	cmd.Flags().String("domain", "mind", "Vault domain: mind, body, soul")

	RootCmd.AddCommand(cmd)
}

func runForget(cmd *cobra.Command, args []string) {
	domainStr, _ := cmd.Flags().GetString("domain")
	domain, err := model.ParseDomain(domainStr)
	if err != nil {
		exitErr("forget", err)
	}

	e, err := openEngine()
	if err != nil {
		exitErr("open stores", err)
	}
	defer e.Close()

	err = e.vaults.Delete(cmd.Context(), domain, args[0])
	if errors.Is(err, model.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "not found: %s/%s\n", domain, args[0])
		os.Exit(1)
	}
	if err != nil {
		exitErr("forget", err)
	}
	fmt.Printf("forgot %s/%s\n", domain, args[0])
}
