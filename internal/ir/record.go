package ir

// RewriteRecord is one row of the rewrite ledger: a single declaration
// rewritten under a resolved configuration during one tool run.
//
// ID is the content-addressed RewriteID; RunID groups the records of
// one CLI invocation; Seq is a logical clock, the only ordering the
// ledger recognizes.
type RewriteRecord struct {
	ID           string `json:"id"`
	RunID        string `json:"run_id"`
	Seq          int64  `json:"seq"`
	Name         string `json:"name"`
	Kind         string `json:"kind"`
	InputID      string `json:"input_id"`
	OutputID     string `json:"output_id"`
	Transferable bool   `json:"transferable"`
	SharedAccess bool   `json:"shared_access"`
	Mode         string `json:"mode"`
	Directives   string `json:"directives,omitempty"`
	ToolVersion  string `json:"tool_version"`
	IRVersion    string `json:"ir_version"`
}

// Bounds returns the effective capability configuration the record was
// produced under.
func (r RewriteRecord) Bounds() Bounds {
	return Bounds{Transferable: r.Transferable, SharedAccess: r.SharedAccess}
}
