package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/supplymate/qa/scenarios"
)

var (
	scenarioKind string
	scenarioOut  string
	scenarioSeed int64
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Work with allocation scenarios",
}

var scenarioGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a scenario file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return generateScenario(scenarioKind, scenarioSeed, scenarioOut, cmd.OutOrStdout())
	},
}

func init() {
	f := scenarioGenerateCmd.Flags()
	f.StringVarP(&scenarioKind, "kind", "k", scenarios.KindSample,
		"scenario kind: "+strings.Join(scenarios.Kinds(), "|"))
	f.StringVarP(&scenarioOut, "out", "o", "", "output file")
	f.Int64Var(&scenarioSeed, "seed", 0, "random seed, current time when 0")
	_ = scenarioGenerateCmd.MarkFlagRequired("out")
	scenarioCmd.AddCommand(scenarioGenerateCmd)
	rootCmd.AddCommand(scenarioCmd)
}

func generateScenario(kind string, seed int64, path string, stdout io.Writer) error {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sc, err := scenarios.NewGenerator(seed).Generate(kind)
	if err != nil {
		return err
	}
	if err := scenarios.Save(path, sc); err != nil {
		return fmt.Errorf("save scenario: %w", err)
	}
	_, err = fmt.Fprintf(stdout, "wrote %s\n", sc.Summary())
	return err
}
