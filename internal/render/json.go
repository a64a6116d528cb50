package render

import (
	"encoding/json"
	"io"

	"github.com/probelabs/driftscan/pkg/report"
)

// JSON writes the InspectResult verbatim. Field names are the wire
// contract, so nothing is reshaped here.
func JSON(w io.Writer, res *report.InspectResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
