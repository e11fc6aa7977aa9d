package model

type PieceSummary struct {
	ID       string `json:"id"`
	Pathname string `json:"pathname"`
	Title    string `json:"title"`
	Parts    int    `json:"parts"`
}

type DataRequestBody struct {
	Chain    []string       `json:"chain"`
	Settings map[string]any `json:"settings,omitempty"`
}

// WorkflowRequestBody runs a workflow over the served pieces. Settings go to
// every piece and PerPiece overrides them by piece index. A zero N or an
// empty Continuer keeps the default.
type WorkflowRequestBody struct {
	Instruction  string                 `json:"instruction"`
	N            int                    `json:"n,omitempty"`
	Continuer    string                 `json:"continuer,omitempty"`
	MarkSingles  bool                   `json:"mark_singles,omitempty"`
	IncludeRests bool                   `json:"include_rests,omitempty"`
	Settings     map[string]any         `json:"settings,omitempty"`
	PerPiece     map[int]map[string]any `json:"per_piece,omitempty"`
	TopX         int                    `json:"top_x,omitempty"`
	Threshold    float64                `json:"threshold,omitempty"`
}

// TableResponse is a Table or Counts flattened for JSON. Missing cells are
// null.
type TableResponse struct {
	Index   []string    `json:"index"`
	Columns []string    `json:"columns"`
	Rows    [][]*string `json:"rows"`
}

type MetadataResponse struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
