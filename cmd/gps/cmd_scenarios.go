package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gps/internal/format"
	"gps/internal/scenario"
)

var scenariosFlags struct {
	output string
}

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the embedded scenario catalog",
	RunE:  runScenarios,
}

func init() {
	scenariosCmd.Flags().StringVar(&scenariosFlags.output, "output", "table", "output format (table, markdown)")
}

func runScenarios(_ *cobra.Command, _ []string) error {
	mode, err := format.ParseMode(scenariosFlags.output)
	if err != nil {
		return err
	}

	t := format.NewTable(mode)
	t.Header("Scenario", "Description", "Ops", "Goals", "Expected")
	for _, name := range scenario.List() {
		sc, err := scenario.Load(name)
		if err != nil {
			return err
		}
		expected := strings.Join(sc.ExpectedPlan, ", ")
		switch {
		case sc.Unsolvable:
			expected = "no plan"
		case len(sc.ExpectedPlan) == 0:
			expected = "already satisfied"
		}
		t.Row(name, format.Truncate(sc.Description, 48), len(sc.Operations), len(sc.Goals), format.Truncate(expected, 44))
	}
	t.Columns(
		format.ColumnConfig{Number: 3, Align: format.AlignRight},
		format.ColumnConfig{Number: 4, Align: format.AlignRight},
	)
	fmt.Println(t.String())
	return nil
}
