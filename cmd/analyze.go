package cmd

import (
	"fmt"
	"log"

	"github.com/jsphweid/voicelead/config"
	"github.com/jsphweid/voicelead/source"
	"github.com/jsphweid/voicelead/workflow"
	"github.com/spf13/cobra"
)

var analyzeFlags struct {
	config    string
	workflow  string
	n         int
	continuer string
	quality   bool
	simple    bool
	repeats   bool
	offset    float64
	rests     bool
	export    string
	out       string
	top       int
	threshold float64
	maxNum    int
	metafile  string
	dynamo    bool
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVarP(&analyzeFlags.config, "config", "c", "", "YAML run configuration")
	f.StringVarP(&analyzeFlags.workflow, "workflow", "w", workflow.Intervals, "one of: "+fmt.Sprint(workflow.Instructions))
	f.IntVar(&analyzeFlags.n, "n", 2, "n-gram size")
	f.StringVar(&analyzeFlags.continuer, "continuer", workflow.DynamicQuality, "token for a voice that holds its note")
	f.BoolVar(&analyzeFlags.quality, "quality", false, "spell intervals with their quality")
	f.BoolVar(&analyzeFlags.simple, "simple", false, "reduce compound intervals")
	f.BoolVar(&analyzeFlags.repeats, "filter-repeats", false, "drop repeated values")
	f.Float64Var(&analyzeFlags.offset, "offset", 0, "sample every so many quarter notes")
	f.BoolVar(&analyzeFlags.rests, "rests", false, "count intervals and n-grams with rests")
	f.StringVar(&analyzeFlags.export, "export", "", "write the result as csv, yaml, gob or report")
	f.StringVarP(&analyzeFlags.out, "out", "o", "", "pathname of the exported result")
	f.IntVar(&analyzeFlags.top, "top", 20, "number of results to keep, 0 for all")
	f.Float64Var(&analyzeFlags.threshold, "threshold", 0, "keep results counted more often than this")
	f.IntVar(&analyzeFlags.maxNum, "max", 0, "analyze at most this many files")
	f.StringVar(&analyzeFlags.metafile, "metafile", "", "JSON or YAML file of scraped metadata")
	f.BoolVar(&analyzeFlags.dynamo, "dynamo", false, "read scraped metadata from DynamoDB")
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [paths...]",
	Short: "Counts intervals or interval n-grams across pieces",
	Long: `Counts intervals or interval n-grams across every score in the given
files and directories, highest count first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Defaults()
		if analyzeFlags.config != "" {
			var err error
			if cfg, err = config.Load(analyzeFlags.config); err != nil {
				return err
			}
		}
		overrideConfig(cmd, &cfg)
		return analyze(cfg, append(cfg.Pieces, args...))
	},
}

// overrideConfig lets flags given on the command line win over the file.
// Without a file every flag applies.
func overrideConfig(cmd *cobra.Command, cfg *config.Config) {
	changed := func(name string) bool {
		return analyzeFlags.config == "" || cmd.Flags().Changed(name)
	}
	if changed("workflow") {
		cfg.Workflow = analyzeFlags.workflow
	}
	if changed("n") {
		cfg.Run.N = analyzeFlags.n
	}
	if changed("continuer") {
		cfg.Run.Continuer = analyzeFlags.continuer
	}
	if changed("rests") {
		cfg.Run.IncludeRests = analyzeFlags.rests
	}
	if changed("metafile") {
		cfg.MetaFile = analyzeFlags.metafile
	}
	if changed("export") {
		cfg.Export.Format = analyzeFlags.export
	}
	if changed("out") {
		cfg.Export.Path = analyzeFlags.out
	}
	if changed("top") {
		cfg.Export.Top = analyzeFlags.top
	}
	if changed("threshold") {
		cfg.Export.Threshold = analyzeFlags.threshold
	}

	if cfg.Settings == nil {
		cfg.Settings = make(map[string]any)
	}
	flags := map[string]string{
		"quality":        workflow.IntervalQuality,
		"simple":         workflow.SimpleIntervals,
		"filter-repeats": workflow.FilterRepeats,
	}
	for flag, field := range flags {
		if changed(flag) {
			v, _ := cmd.Flags().GetBool(flag)
			cfg.Settings[field] = v
		}
	}
	if changed("offset") {
		cfg.Settings[workflow.OffsetInterval] = analyzeFlags.offset
	}
}

func analyze(cfg config.Config, args []string) error {
	paths, err := gatherPaths(args, analyzeFlags.maxNum)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no scores found in %v", args)
	}

	m, err := workflow.Open(source.Default(), paths, log.Default())
	if err != nil {
		return err
	}
	if err := attachMetadata(m.Pieces(), cfg.MetaFile, analyzeFlags.dynamo); err != nil {
		return err
	}
	if err := cfg.Apply(m); err != nil {
		return err
	}
	if err := m.Load("pieces"); err != nil {
		return err
	}

	res, err := m.Run(cfg.Workflow, cfg.Run)
	if err != nil {
		return err
	}
	fmt.Print(res.Filter(cfg.Export.Top, cfg.Export.Threshold))

	if cfg.Export.Format == "" {
		return nil
	}
	path, err := m.Export(cfg.Export.Format, cfg.Export.Path, cfg.Export.Top, cfg.Export.Threshold)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %v\n", path)
	return nil
}
