package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mnemoslabs/mnemos/internal/cortex"
	"github.com/mnemoslabs/mnemos/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "etch [key] [payload]",
		Short: "Store a cortex memory",
		Long: "Store a payload in a cortex layer. With --auto-key the key is generated as\n" +
			"<layer>:<subject>:<padded-timestamp>; otherwise the key must carry its layer\nprefix (e.g. epm:dad:...). Payload can be piped via stdin.",
		Run: runEtch,
	}

	cmd.Flags().StringP("layer", "l", "epm", "Cortex layer: stm, wm, ltm, epm, rfm")
	cmd.Flags().Bool("auto-key", false, "Generate a timestamp key for the configured subject")

	RootCmd.AddCommand(cmd)
}

func runEtch(cmd *cobra.Command, args []string) {
	layerStr, _ := cmd.Flags().GetString("layer")
	autoKey, _ := cmd.Flags().GetBool("auto-key")
	layer, err := model.ParseLayer(layerStr)
	if err != nil {
		exitErr("etch", err)
	}

	e, err := openEngine()
	if err != nil {
		exitErr("open stores", err)
	}
	defer e.Close()

	var key string
	rest := args
	if autoKey {
		key = cortex.EpochKey(layer, e.cfg.Subject, time.Now())
	} else {
		if len(args) == 0 {
			exitErr("etch", fmt.Errorf("key is required without --auto-key"))
		}
		key = args[0]
		rest = args[1:]
	}

	var payload string
	if len(rest) > 0 {
		payload = strings.Join(rest, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			payload = strings.TrimRight(string(b), "\n")
		}
	}
	if payload == "" {
		exitErr("etch", fmt.Errorf("payload is required (positional arg or stdin)"))
	}

	if err := e.strata.Etch(cmd.Context(), layer, key, payload); err != nil {
		exitErr("etch", err)
	}
	fmt.Printf("etched %s\n", key)
}
