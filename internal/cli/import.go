package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mnemoslabs/mnemos/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import vault entries from a JSON export",
		Long:  "Restore entries produced by export. Existing keys are overwritten.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	var data []byte
	var err error
	if len(args) > 0 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		exitErr("read import", err)
	}

	var entries []model.VaultEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		exitErr("parse import", err)
	}

	e, err := openEngine()
	if err != nil {
		exitErr("open stores", err)
	}
	defer e.Close()

	n, err := e.vaults.Import(cmd.Context(), entries)
	if err != nil {
		exitErr("import", err)
	}
	fmt.Printf("imported %d entries\n", n)
}
