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
		Use:   "read <key>",
		Short: "Read a vault entry",
		Long:  "Print the value stored under a key. Soul values are decrypted transparently.",
		Args:  cobra.ExactArgs(1),
		Run:   runRead,
	}

	cmd.Flags().String("domain", "mind", "Vault domain: mind, body, soul")

	RootCmd.AddCommand(cmd)
}

func runRead(cmd *cobra.Command, args []string) {
	domainStr, _ := cmd.Flags().GetString("domain")
	domain, err := model.ParseDomain(domainStr)
	if err != nil {
		exitErr("read", err)
	}

	e, err := openEngine()
	if err != nil {
		exitErr("open stores", err)
	}
	defer e.Close()

	value, err := e.vaults.Read(cmd.Context(), domain, args[0])
	if errors.Is(err, model.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "not found: %s/%s\n", domain, args[0])
		os.Exit(1)
	}
	if err != nil {
		exitErr("read", err)
	}
	fmt.Println(value)
}
