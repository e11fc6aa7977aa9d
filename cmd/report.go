package cmd

import (
	"fmt"

	"github.com/jsphweid/voicelead/file"
	"github.com/jsphweid/voicelead/piece"
	"github.com/jsphweid/voicelead/source"
	"github.com/jsphweid/voicelead/util"
	"github.com/spf13/cobra"
)

var reportFlags struct {
	maxNum   int
	metafile string
	dynamo   bool
}

func init() {
	f := reportCmd.Flags()
	f.IntVar(&reportFlags.maxNum, "max", 0, "report at most this many files")
	f.StringVar(&reportFlags.metafile, "metafile", "", "JSON or YAML file of scraped metadata")
	f.BoolVar(&reportFlags.dynamo, "dynamo", false, "read scraped metadata from DynamoDB")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report [paths...]",
	Short: "Summarizes the metadata of every score",
	Long:  `Summarizes the metadata of every score in the given files and directories.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return report(args)
	},
}

var reportFields = []string{"title", "composer", "date", "parts", "pieceRange", "anacrusis"}

func report(args []string) error {
	paths, err := gatherPaths(args, reportFlags.maxNum)
	if err != nil {
		return err
	}
	pieceNumMap := file.CreatePieceNumMap(paths)
	src := source.Default()

	pieces := make(map[int]*piece.Piece, len(pieceNumMap))
	all := make([]*piece.Piece, 0, len(pieceNumMap))
	for _, num := range util.GetKeys(pieceNumMap) {
		p := piece.New(pieceNumMap[num], src)
		pieces[num] = p
		all = append(all, p)
	}
	if err := attachMetadata(all, reportFlags.metafile, reportFlags.dynamo); err != nil {
		return err
	}
	fields := reportFields
	if reportFlags.metafile != "" || reportFlags.dynamo {
		fields = append(fields, piece.ExternalFields...)
	}

	for _, num := range util.GetKeys(pieces) {
		p := pieces[num]
		fmt.Printf("%v: %v\n", num, p.Pathname())
		for _, field := range fields {
			v, err := p.Metadata(field, nil)
			if err != nil {
				return err
			}
			if v != nil {
				fmt.Printf("  %v: %v\n", field, v)
			}
		}
	}
	fmt.Printf("%v pieces\n", len(pieces))
	return nil
}
