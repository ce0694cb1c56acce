package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mnemoslabs/mnemos/internal/config"
)

func init() {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Run:   runInit,
	}

	cmd.Flags().Bool("force", false, "Overwrite an existing config file")

	RootCmd.AddCommand(cmd)
}

func runInit(cmd *cobra.Command, args []string) {
	force, _ := cmd.Flags().GetBool("force")

	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	if _, err := os.Stat(path); err == nil && !force {
		exitErr("init", fmt.Errorf("config already exists at %s (use --force to overwrite)", path))
	}

	cfg := config.Default()
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if err := cfg.Write(path); err != nil {
		exitErr("init", err)
	}
	fmt.Printf("wrote %s\n", path)
}
