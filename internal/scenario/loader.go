// Package scenario ships the embedded catalog of planning scenarios used
// by the demo, verify, and MCP surfaces. A scenario is a problem
// definition plus its ground truth: the expected plan, or the fact that
// no plan exists.
package scenario

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"gps/internal/problem"
)

//go:embed *.yaml
var scenarioFS embed.FS

// Scenario is a problem definition with ground truth attached. The file
// name (without extension) matches the embedded problem name.
type Scenario struct {
	problem.Def  `yaml:",inline"`
	ExpectedPlan []string `yaml:"expected_plan,omitempty"`
	Unsolvable   bool     `yaml:"unsolvable,omitempty"`
}

// Load reads a scenario by name from the embedded YAML files.
func Load(name string) (*Scenario, error) {
	data, err := scenarioFS.ReadFile(name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("scenario %q not found (available: %s): %w",
			name, strings.Join(List(), ", "), err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %q: %w", name, err)
	}
	return &s, nil
}

// List returns the names of all embedded scenarios, sorted.
func List() []string {
	entries, _ := scenarioFS.ReadDir(".")
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
		}
	}
	sort.Strings(names)
	return names
}
