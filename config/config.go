// Package config reads the YAML file describing one analysis run.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/jsphweid/voicelead/util"
	"github.com/jsphweid/voicelead/workflow"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Export struct {
	Format    string  `yaml:"format"`
	Path      string  `yaml:"path"`
	Top       int     `yaml:"top"`
	Threshold float64 `yaml:"threshold"`
}

// Config is a whole run. Settings apply to every piece first, then
// PieceSettings override them for the piece at that index. Both use the
// workflow field names, e.g. "filter repeats".
type Config struct {
	Pieces        []string               `yaml:"pieces"`
	MetaFile      string                 `yaml:"metafile"`
	Workflow      string                 `yaml:"workflow"`
	Run           workflow.RunSettings   `yaml:"run"`
	Settings      map[string]any         `yaml:"settings"`
	PieceSettings map[int]map[string]any `yaml:"piece_settings"`
	Export        Export                 `yaml:"export"`
}

func Defaults() Config {
	return Config{
		Workflow: workflow.Intervals,
		Run:      workflow.DefaultRunSettings(),
		Export:   Export{Format: "csv"},
	}
}

// Load reads path over Defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading %s", path)
	}
	cfg, err := Parse(raw)
	if err != nil {
		return Config{}, errors.Wrapf(err, "parsing %s", path)
	}
	return cfg, nil
}

func Parse(raw []byte) (Config, error) {
	cfg := Defaults()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, err
	}
	return cfg, nil
}

// Apply sets the per-piece settings of m.
func (c Config) Apply(m *workflow.Manager) error {
	for _, field := range util.GetKeys(c.Settings) {
		if _, err := m.Settings(nil, field, c.Settings[field]); err != nil {
			return err
		}
	}
	for _, i := range util.GetKeys(c.PieceSettings) {
		overrides := c.PieceSettings[i]
		for _, field := range util.GetKeys(overrides) {
			if _, err := m.Settings(workflow.Index(i), field, overrides[field]); err != nil {
				return fmt.Errorf("piece %d: %w", i, err)
			}
		}
	}
	return nil
}
