package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"gps/internal/format"
	"gps/internal/logging"
	"gps/internal/scenario"
	"gps/pkg/gps"
)

var demoFlags struct {
	scenario string
	output   string
}

var demoCmd = &cobra.Command{
	Use:   "demo [scenario]",
	Short: "Walk through a scenario from the embedded catalog",
	Long: `Demo loads an embedded scenario, prints the starting state, solves it,
and shows the plan together with the world state after executing it.

Usage:
  gps demo                      # The canonical school run
  gps demo school-taxi          # Scenario as positional arg
  gps demo --scenario=bank-balance`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().StringVar(&demoFlags.scenario, "scenario", "", "scenario name (see 'gps scenarios')")
	demoCmd.Flags().StringVar(&demoFlags.output, "output", "table", "output format (table, markdown)")
}

func runDemo(cmd *cobra.Command, args []string) error {
	mode, err := format.ParseMode(demoFlags.output)
	if err != nil {
		return err
	}
	name := demoFlags.scenario
	if name == "" && len(args) > 0 {
		name = args[0]
	}
	if name == "" {
		name = "school-run"
	}
	sc, err := scenario.Load(name)
	if err != nil {
		return err
	}
	p, err := sc.Build(nil)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	fmt.Printf("%s: %s\n\n", p.Name, p.Description)
	fmt.Println("Initial state:")
	fmt.Println(format.StateTable(mode, p.Initial))

	plan, err := p.Solver(gps.WithLogger(logging.New("solver"))).Solve(ctx)
	if errors.Is(err, gps.ErrNoPlan) {
		if sc.Unsolvable {
			fmt.Println("\nNo plan exists, as this scenario expects.")
			return nil
		}
		return fmt.Errorf("%s: %w", p.Name, err)
	}
	if err != nil {
		return err
	}

	if len(plan) == 0 {
		fmt.Println("\nAll goals already satisfied; nothing to do.")
		return nil
	}

	fmt.Println("\nPlan:")
	fmt.Println(format.PlanTable(mode, plan))

	final := p.Initial.Clone()
	for _, op := range plan {
		op.Apply(final)
	}
	fmt.Println("\nFinal state:")
	fmt.Println(format.StateTable(mode, final))
	return nil
}
