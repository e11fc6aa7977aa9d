package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/jsphweid/voicelead/config"
	"github.com/jsphweid/voicelead/export"
	"github.com/jsphweid/voicelead/model"
	"github.com/jsphweid/voicelead/piece"
	"github.com/jsphweid/voicelead/source"
	"github.com/jsphweid/voicelead/workflow"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

var (
	served     []*piece.Piece
	servedByID map[string]*piece.Piece
)

var serveFlags struct {
	port     int
	maxNum   int
	metafile string
	dynamo   bool
}

func init() {
	f := serveCmd.Flags()
	f.IntVarP(&serveFlags.port, "port", "p", 8080, "port to listen on")
	f.IntVar(&serveFlags.maxNum, "max", 0, "serve at most this many files")
	f.StringVar(&serveFlags.metafile, "metafile", "", "JSON or YAML file of scraped metadata")
	f.BoolVar(&serveFlags.dynamo, "dynamo", false, "read scraped metadata from DynamoDB")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [paths...]",
	Short: "Serves analyses of the given scores over HTTP",
	Long:  `Serves analyses of the given scores over HTTP`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := LoadServeFiles(args, serveFlags.maxNum); err != nil {
			return err
		}
		if err := attachMetadata(served, serveFlags.metafile, serveFlags.dynamo); err != nil {
			return err
		}
		addr := ":" + strconv.Itoa(serveFlags.port)
		log.Printf("Serving %v pieces on %v", len(served), addr)
		log.Fatal(http.ListenAndServe(addr, NewRouter()))
		return nil
	},
}

// LoadServeFiles imports every score under args.
func LoadServeFiles(args []string, maxNum int) error {
	paths, err := gatherPaths(args, maxNum)
	if err != nil {
		return err
	}
	var pieces []*piece.Piece
	for _, path := range paths {
		imported, err := piece.Import(source.Default(), path, false)
		var warning *piece.OpusWarning
		if errors.As(err, &warning) {
			log.Printf("Warning: %v", warning)
		} else if err != nil {
			return err
		}
		pieces = append(pieces, imported...)
	}
	ServePieces(pieces)
	return nil
}

// ServePieces replaces the pieces the handlers answer for.
func ServePieces(pieces []*piece.Piece) {
	served = pieces
	servedByID = make(map[string]*piece.Piece, len(pieces))
	for _, p := range pieces {
		servedByID[p.ID()] = p
	}
}

func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/pieces", HandleListPieces).Methods("GET")
	router.HandleFunc("/pieces/{id}/metadata/{field}", HandleMetadata).Methods("GET")
	router.HandleFunc("/pieces/{id}/data", HandleData).Methods("POST")
	router.HandleFunc("/workflow/run", HandleWorkflow).Methods("POST")
	return cors.Default().Handler(router)
}

var errNoPiece = errors.New("no such piece")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Could not encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errNoPiece):
		status = http.StatusNotFound
	case model.IsUsage(err):
		status = http.StatusBadRequest
	default:
		log.Printf("Error: %v", err)
	}
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func toResponse(data model.Data) model.TableResponse {
	snap := export.Snapshot(data)
	res := model.TableResponse{Index: []string{}, Columns: snap.Columns, Rows: [][]*string{}}
	for _, r := range snap.Rows {
		res.Index = append(res.Index, r.Key)
		res.Rows = append(res.Rows, r.Cells)
	}
	return res
}

func lookupPiece(r *http.Request) (*piece.Piece, error) {
	id := mux.Vars(r)["id"]
	p, ok := servedByID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errNoPiece, id)
	}
	return p, nil
}

func HandleListPieces(w http.ResponseWriter, r *http.Request) {
	res := make([]model.PieceSummary, 0, len(served))
	for _, p := range served {
		score, err := p.Score()
		if err != nil {
			writeError(w, err)
			return
		}
		title, _ := p.Metadata("title", nil)
		s, _ := title.(string)
		res = append(res, model.PieceSummary{ID: p.ID(), Pathname: p.Pathname(), Title: s, Parts: len(score.Parts)})
	}
	writeJSON(w, http.StatusOK, res)
}

func HandleMetadata(w http.ResponseWriter, r *http.Request) {
	p, err := lookupPiece(r)
	if err != nil {
		writeError(w, err)
		return
	}
	field := mux.Vars(r)["field"]
	v, err := p.Metadata(field, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MetadataResponse{Field: field, Value: v})
}

func HandleData(w http.ResponseWriter, r *http.Request) {
	p, err := lookupPiece(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var input model.DataRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "Could not unmarshal request body: " + err.Error()})
		return
	}
	settings, err := p.DecodeChainSettings(input.Chain, input.Settings)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := p.GetData(input.Chain, settings)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(data))
}

func HandleWorkflow(w http.ResponseWriter, r *http.Request) {
	var input model.WorkflowRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "Could not unmarshal request body: " + err.Error()})
		return
	}

	m := workflow.FromPieces(served)
	cfg := config.Config{Settings: input.Settings, PieceSettings: input.PerPiece}
	if err := cfg.Apply(m); err != nil {
		writeError(w, err)
		return
	}
	rs := workflow.DefaultRunSettings()
	if input.N != 0 {
		rs.N = input.N
	}
	if input.Continuer != "" {
		rs.Continuer = input.Continuer
	}
	rs.MarkSingles = input.MarkSingles
	rs.IncludeRests = input.IncludeRests

	if err := m.Load("pieces"); err != nil {
		writeError(w, err)
		return
	}
	res, err := m.Run(input.Instruction, rs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(res.Filter(input.TopX, input.Threshold)))
}
