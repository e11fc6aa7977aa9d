package cmd

import (
	"errors"
	"fmt"

	"github.com/jsphweid/voicelead/analyzer"
	"github.com/jsphweid/voicelead/indexer"
	"github.com/jsphweid/voicelead/piece"
	"github.com/jsphweid/voicelead/source"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var inspectFlags struct {
	chain    []string
	settings string
	rules    bool
	cached   bool
}

func init() {
	f := inspectCmd.Flags()
	f.StringSliceVarP(&inspectFlags.chain, "analyzer", "a", []string{"noterest"}, "analyzers to run in order")
	f.StringVarP(&inspectFlags.settings, "settings", "s", "", `settings in YAML, e.g. "{simple: true}"`)
	f.BoolVar(&inspectFlags.rules, "rules", false, "print the dissonance rules")
	f.BoolVar(&inspectFlags.cached, "cached", false, "list the results each piece computed on the way")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect path",
	Short: "Prints what an analyzer chain makes of one score",
	Long: `Prints what an analyzer chain makes of one score. Valid analyzers:
` + fmt.Sprint(analyzer.Valid()),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(args[0])
	},
}

func inspect(path string) error {
	var raw map[string]any
	if inspectFlags.settings != "" {
		if err := yaml.Unmarshal([]byte(inspectFlags.settings), &raw); err != nil {
			return fmt.Errorf("reading --settings: %w", err)
		}
	}
	pieces, err := piece.Import(source.Default(), path, false)
	var warning *piece.OpusWarning
	if errors.As(err, &warning) {
		fmt.Printf("Warning: %v\n", warning)
	} else if err != nil {
		return err
	}
	for _, p := range pieces {
		settings, err := p.DecodeChainSettings(inspectFlags.chain, raw)
		if err != nil {
			return err
		}
		data, err := p.GetData(inspectFlags.chain, settings)
		if err != nil {
			return err
		}
		fmt.Printf("%v\n%v\n", p, data)
		if inspectFlags.cached {
			for _, k := range p.Cached() {
				fmt.Printf("  %v\n", k)
			}
		}
	}
	if inspectFlags.rules {
		fmt.Print(indexer.RuleTable())
	}
	return nil
}
