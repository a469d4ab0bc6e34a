package reporting

import (
	"fmt"

	"github.com/sugawarayuuta/sonnet"
)

// RenderJSON renders the full report as JSON.
func RenderJSON(r *Report) ([]byte, error) {
	data, err := sonnet.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return data, nil
}
