package labels

import (
	"encoding/json"
	"time"
)

// ScanID identifier type
type ScanID string

// Scan is the history record written after a successful analysis.
type Scan struct {
	ID           ScanID          `json:"id"`
	Engine       Engine          `json:"engine"`
	InputKind    InputKind       `json:"input_kind"`
	ProductName  string          `json:"product_name"`
	Verdict      string          `json:"verdict"`
	InsightCount int             `json:"insight_count"`
	ImageURL     string          `json:"image_url,omitempty"`
	Result       json.RawMessage `json:"result"`
	CreatedAt    time.Time       `json:"created_at"`
}
