package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mnemoslabs/mnemos/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "write <key> [value]",
		Short: "Store a vault entry",
		Long:  "Store a value in a vault domain. Value can be a positional arg or piped via stdin.\nWriting an existing key replaces its value.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runWrite,
	}

	cmd.Flags().String("domain", "mind", "Vault domain: mind, body, soul")

	RootCmd.AddCommand(cmd)
}

func runWrite(cmd *cobra.Command, args []string) {
	domainStr, _ := cmd.Flags().GetString("domain")
	domain, err := model.ParseDomain(domainStr)
	if err != nil {
		exitErr("write", err)
	}
	key := args[0]

	var value string
	if len(args) > 1 {
		value = strings.Join(args[1:], " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			value = strings.TrimRight(string(b), "\n")
		}
	}
	if value == "" {
		exitErr("write", fmt.Errorf("value is required (positional arg or stdin)"))
	}

	e, err := openEngine()
	if err != nil {
		exitErr("open stores", err)
	}
	defer e.Close()

	if err := e.vaults.Write(cmd.Context(), domain, key, value); err != nil {
		exitErr("write", err)
	}
	fmt.Printf("stored %s/%s\n", domain, key)
}
