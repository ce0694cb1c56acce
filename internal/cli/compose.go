package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "compose <input>",
		Short: "Compose prompt context for a user turn",
		Long: "Read the vaults and cortex, apply decay weighting, and print the composed\n" +
			"context string an orchestrator would hand to the model alongside this input.",
		Args: cobra.MinimumNArgs(1),
		Run:  runCompose,
	}

	cmd.Flags().StringP("emotion", "e", "", "Inferred emotion hint")
	cmd.Flags().Bool("fragments", false, "Print weighted fragments as JSON instead of the context text")

	RootCmd.AddCommand(cmd)
}

func runCompose(cmd *cobra.Command, args []string) {
	emotion, _ := cmd.Flags().GetString("emotion")
	showFragments, _ := cmd.Flags().GetBool("fragments")
	input := strings.Join(args, " ")

	e, err := openEngine()
	if err != nil {
		exitErr("open stores", err)
	}
	defer e.Close()

	ctx, err := e.composer().Compose(cmd.Context(), input, emotion)
	if err != nil {
		exitErr("compose", err)
	}

	if showFragments {
		b, _ := json.MarshalIndent(ctx.Fragments, "", "  ")
		fmt.Println(string(b))
		return
	}
	fmt.Print(ctx.Text)
}
