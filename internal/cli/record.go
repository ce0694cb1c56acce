package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a completed exchange into episodic memory",
		Long: "Write a user/assistant exchange into the cortex's episodic layer. Called by\n" +
			"the turn orchestrator after the response has been delivered; the stored\nresponse is truncated to bound growth.",
		Run: runRecord,
	}

	cmd.Flags().StringP("input", "i", "", "User input (required)")
	cmd.Flags().StringP("response", "r", "", "Assistant response (required)")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("response")

	RootCmd.AddCommand(cmd)
}

func runRecord(cmd *cobra.Command, args []string) {
	input, _ := cmd.Flags().GetString("input")
	response, _ := cmd.Flags().GetString("response")

	e, err := openEngine()
	if err != nil {
		exitErr("open stores", err)
	}
	defer e.Close()

	// Recording failures are recoverable by contract: report, exit zero.
	if err := e.recorder().Record(cmd.Context(), input, response); err != nil {
		fmt.Printf("record failed (response already delivered): %v\n", err)
		return
	}
	fmt.Println("recorded")
}
