package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"gps/internal/format"
	"gps/internal/verify"
)

var verifyFlags struct {
	parallel int
	output   string
}

var verifyCmd = &cobra.Command{
	Use:   "verify [scenario...]",
	Short: "Solve scenarios and check the plans against their ground truth",
	Long: `Verify solves the named scenarios (the whole catalog when none are
given) and compares each plan with the recorded expectation. Exits
non-zero when any scenario fails.`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().IntVar(&verifyFlags.parallel, "parallel", 4, "number of scenarios to solve concurrently")
	verifyCmd.Flags().StringVar(&verifyFlags.output, "output", "table", "output format (table, markdown)")
}

func runVerify(cmd *cobra.Command, args []string) error {
	mode, err := format.ParseMode(verifyFlags.output)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	results := verify.Run(ctx, args, verifyFlags.parallel)
	fmt.Println(verify.Summarize(mode, results))
	if !verify.AllPassed(results) {
		return fmt.Errorf("verification failed")
	}
	return nil
}
