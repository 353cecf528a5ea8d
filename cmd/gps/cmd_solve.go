package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gps/internal/format"
	"gps/internal/logging"
	"gps/internal/problem"
	"gps/pkg/gps"
)

var solveFlags struct {
	timeout time.Duration
	output  string
}

var solveCmd = &cobra.Command{
	Use:   "solve <problem.yaml>",
	Short: "Solve a planning problem from a YAML file",
	Long: `Solve loads a problem definition (start state, goals, operations),
searches for a plan, and prints the operations in execution order.
Exits non-zero when no plan exists.`,
	Args: cobra.ExactArgs(1),
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().DurationVar(&solveFlags.timeout, "timeout", 0, "abort the search after this duration (0 = no limit)")
	solveCmd.Flags().StringVar(&solveFlags.output, "output", "table", "output format (table, markdown, names)")
}

func runSolve(cmd *cobra.Command, args []string) error {
	def, err := problem.LoadFile(args[0])
	if err != nil {
		return err
	}
	p, err := def.Build(nil)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()
	if solveFlags.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, solveFlags.timeout)
		defer cancel()
	}

	log := logging.New("solve")
	log.Info("solving", "problem", p.Name, "goals", len(p.Goals), "operations", len(p.Operations))

	start := time.Now()
	plan, err := p.Solver(gps.WithLogger(logging.New("solver"))).Solve(ctx)
	elapsed := time.Since(start)
	if errors.Is(err, gps.ErrNoPlan) {
		return fmt.Errorf("%s: %w", p.Name, err)
	}
	if err != nil {
		return err
	}
	log.Info("plan found", "steps", len(plan), "elapsed", format.FmtDuration(elapsed))

	if len(plan) == 0 {
		fmt.Println("All goals already satisfied; nothing to do.")
		return nil
	}

	if solveFlags.output == "names" {
		fmt.Println(strings.Join(gps.PlanNames(plan), "\n"))
		return nil
	}
	mode, err := format.ParseMode(solveFlags.output)
	if err != nil {
		return err
	}
	fmt.Println(format.PlanTable(mode, plan))
	return nil
}
