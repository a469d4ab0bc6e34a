package reporting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"defi-path-finder/internal/config"
)

// ErrUnknownFormat is returned by WriteAll for unsupported formats.
var ErrUnknownFormat = errors.New("unknown report format")

// WriteAll renders r in each format into dir, creating dir if needed.
// Files are named paths_<run_id>.<format>. Returns the written paths.
func WriteAll(dir string, formats []string, r *Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	written := make([]string, 0, len(formats))
	for _, format := range formats {
		var data []byte
		switch format {
		case config.FormatJSON:
			b, err := RenderJSON(r)
			if err != nil {
				return written, err
			}
			data = b
		case config.FormatCSV:
			data = []byte(RenderCSV(r))
		case config.FormatMarkdown:
			data = []byte(RenderMarkdown(r))
		default:
			return written, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
		}

		path := filepath.Join(dir, fmt.Sprintf("paths_%s.%s", r.RunID, format))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
