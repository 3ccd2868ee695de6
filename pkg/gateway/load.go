package gateway

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads and decodes a gateway log file into a Record.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading log file %s: %w", path, err)
	}

	record := &Record{}
	if err := json.Unmarshal(data, record); err != nil {
		return nil, fmt.Errorf("parsing log file %s: %w", path, err)
	}

	return record, nil
}
