package cmd

import (
	"github.com/jsphweid/voicelead/constants"
	"github.com/jsphweid/voicelead/db"
	"github.com/jsphweid/voicelead/piece"
	"github.com/jsphweid/voicelead/util"
)

// gatherPaths expands every directory in args to the score files under it.
func gatherPaths(args []string, maxNum int) ([]string, error) {
	var res []string
	for _, arg := range args {
		paths, err := util.GatherAllScorePaths(arg, 0, constants.ScoreExtensions)
		if err != nil {
			return nil, err
		}
		res = append(res, paths...)
	}
	if maxNum > 0 && len(res) > maxNum {
		res = res[:maxNum]
	}
	return res, nil
}

// attachMetadata adds scraped fields from a metafile, or from DynamoDB when
// useDynamo is set.
func attachMetadata(pieces []*piece.Piece, metafile string, useDynamo bool) error {
	var src piece.MetadataSource
	switch {
	case metafile != "":
		m, err := db.ReadMetaFile(metafile)
		if err != nil {
			return err
		}
		src = m
	case useDynamo:
		d, err := db.DefaultDynamo()
		if err != nil {
			return err
		}
		paths := make([]string, 0, len(pieces))
		for _, p := range pieces {
			paths = append(paths, p.Pathname())
		}
		if err := d.Prefetch(paths); err != nil {
			return err
		}
		src = d
	default:
		return nil
	}
	for _, p := range pieces {
		if err := p.AttachMetadata(src); err != nil {
			return err
		}
	}
	return nil
}
