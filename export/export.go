// Package export writes analysis results to files.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/google/uuid"
	"github.com/jsphweid/voicelead/model"
	"github.com/jsphweid/voicelead/util"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	CSV    Format = "csv"
	YAML   Format = "yaml"
	Gob    Format = "gob"
	Report Format = "report"
)

var extensions = map[Format]string{
	CSV:    ".csv",
	YAML:   ".yaml",
	Gob:    ".gob",
	Report: ".txt",
}

var aliases = map[string]Format{
	"csv":    CSV,
	"yaml":   YAML,
	"yml":    YAML,
	"gob":    Gob,
	"pickle": Gob,
	"report": Report,
	"text":   Report,
}

// ParseFormat accepts format names in any case.
func ParseFormat(form string) (Format, error) {
	f, ok := aliases[strings.ToLower(strings.TrimSpace(form))]
	if !ok {
		return "", fmt.Errorf("%w: %q (choose csv, yaml, gob or report)", model.ErrUnsupportedFormat, form)
	}
	return f, nil
}

// DefaultPath is a fresh pathname without extension inside dir.
func DefaultPath(dir string) string {
	return filepath.Join(dir, "output_result_"+uuid.NewString())
}

// withExtension appends the format's extension unless pathname already ends
// with it.
func withExtension(pathname string, f Format) string {
	ext := extensions[f]
	if strings.EqualFold(filepath.Ext(pathname), ext) {
		return pathname
	}
	return pathname + ext
}

// Write saves data in the given format and returns the pathname written.
func Write(form string, data model.Data, pathname string) (string, error) {
	f, err := ParseFormat(form)
	if err != nil {
		return "", err
	}
	pathname = withExtension(pathname, f)
	if err := util.EnsureDir(filepath.Dir(pathname)); err != nil {
		return "", err
	}

	if f == Gob {
		return pathname, util.CreateBinary(pathname, toBinary(Snapshot(data)))
	}

	var buf bytes.Buffer
	switch f {
	case CSV:
		err = writeCSV(&buf, data)
	case YAML:
		err = yaml.NewEncoder(&buf).Encode(Snapshot(data))
	case Report:
		title := strings.TrimSuffix(filepath.Base(pathname), filepath.Ext(pathname))
		err = writeReport(&buf, title, data)
	}
	if err != nil {
		return "", errors.Wrapf(err, "rendering %s", pathname)
	}
	return pathname, errors.Wrapf(os.WriteFile(pathname, buf.Bytes(), 0o644), "writing %s", pathname)
}

// Row is one line of a result: an offset or a token, then one cell per
// column. Missing cells are nil.
type Row struct {
	Key   string    `yaml:"key"`
	Cells []*string `yaml:"cells,flow"`
}

// Result is a result flattened for serialization.
type Result struct {
	Kind    string   `yaml:"kind"`
	Columns []string `yaml:"columns,flow"`
	Rows    []Row    `yaml:"rows"`
}

func cell(v model.Value) *string {
	if v.IsNA() {
		return nil
	}
	s := v.String()
	return &s
}

func Snapshot(data model.Data) Result {
	switch d := data.(type) {
	case *model.Table:
		res := Result{Kind: "table", Columns: append([]string(nil), d.Labels...)}
		for row, o := range d.Index {
			r := Row{Key: strconv.FormatFloat(o, 'f', -1, 64)}
			for col := range d.Labels {
				r.Cells = append(r.Cells, cell(d.Cell(row, col)))
			}
			res.Rows = append(res.Rows, r)
		}
		return res
	case *model.Counts:
		res := Result{Kind: "counts", Columns: append([]string(nil), d.Labels...)}
		for row, k := range d.Keys {
			r := Row{Key: k}
			for col := range d.Labels {
				r.Cells = append(r.Cells, cell(d.Cell(row, col)))
			}
			res.Rows = append(res.Rows, r)
		}
		return res
	}
	return Result{}
}

// binary is a Result gob can encode, since gob rejects nil pointers inside
// slices.
type binary struct {
	Kind    string
	Columns []string
	Keys    []string
	Cells   [][]string
	Present [][]bool
}

func toBinary(r Result) binary {
	b := binary{Kind: r.Kind, Columns: r.Columns}
	for _, row := range r.Rows {
		cells := make([]string, len(row.Cells))
		present := make([]bool, len(row.Cells))
		for i, c := range row.Cells {
			if c != nil {
				cells[i], present[i] = *c, true
			}
		}
		b.Keys = append(b.Keys, row.Key)
		b.Cells = append(b.Cells, cells)
		b.Present = append(b.Present, present)
	}
	return b
}

// ReadGob reads a result written in the gob format.
func ReadGob(pathname string) (Result, error) {
	b, err := util.ReadBinary[binary](pathname)
	if err != nil {
		return Result{}, err
	}
	res := Result{Kind: b.Kind, Columns: b.Columns}
	for i, k := range b.Keys {
		row := Row{Key: k}
		for j, c := range b.Cells[i] {
			if b.Present[i][j] {
				c := c
				row.Cells = append(row.Cells, &c)
			} else {
				row.Cells = append(row.Cells, nil)
			}
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

func writeCSV(buf *bytes.Buffer, data model.Data) error {
	snap := Snapshot(data)
	w := csv.NewWriter(buf)
	header := append([]string{""}, snap.Columns...)
	if snap.Kind == "table" {
		header[0] = "offset"
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range snap.Rows {
		record := []string{r.Key}
		for _, c := range r.Cells {
			if c == nil {
				record = append(record, "")
			} else {
				record = append(record, *c)
			}
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

const reportTemplate = `{{ .Title }}
{{ repeat (len .Title) "=" }}
{{ .Result.Kind | title }} of {{ len .Result.Rows }} rows over {{ .Result.Columns | join ", " }}
{{ range .Result.Rows }}
{{ .Key | printf "%-24s" }}{{ range .Cells }}{{ if . }}{{ deref . | printf "%12s" }}{{ else }}{{ printf "%12s" "-" }}{{ end }}{{ end }}
{{- end }}
`

var report = template.Must(template.New("report").
	Funcs(sprig.TxtFuncMap()).
	Funcs(template.FuncMap{"deref": func(s *string) string { return *s }}).
	Parse(reportTemplate))

func writeReport(buf *bytes.Buffer, title string, data model.Data) error {
	return report.Execute(buf, struct {
		Title  string
		Result Result
	}{title, Snapshot(data)})
}
