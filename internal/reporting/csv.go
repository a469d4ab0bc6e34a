package reporting

import (
	"fmt"
	"strconv"
	"strings"
)

// RenderCSV renders paths as CSV string, one row per path in emission order.
func RenderCSV(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("path_id,cycle_id,route,")
	sb.WriteString("hop0_in,hop0_out,hop0_exchange,hop1_in,hop1_out,hop1_exchange,hop2_in,hop2_out,hop2_exchange\n")

	// Rows
	for _, p := range r.Paths {
		sb.WriteString(fmt.Sprintf("%s,%s,%s", p.PathID, p.CycleID, csvField(p.Route)))
		for _, h := range p.Hops {
			sb.WriteString(fmt.Sprintf(",%d,%d,%s", h.TokenIn, h.TokenOut, csvField(h.Exchange)))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// csvField quotes s when it contains a separator, quote or newline.
func csvField(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
