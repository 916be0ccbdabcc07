package ir

// Version constants for IR schema and tool.
const (
	// IRVersion is the declaration-tree schema version.
	IRVersion = "1"

	// ToolVersion is the PRESTIGE rewriter version.
	ToolVersion = "0.1.0"
)
