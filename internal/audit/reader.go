package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"log"
)

// ReadStats counts the lines seen by ReadAll
type ReadStats struct {
	Events  int
	Skipped int
}

// ReadAll decodes events line by line and passes each to fn. Blank lines
// and lines that are not audit events are skipped. The first error
// returned by fn stops reading.
func ReadAll(r io.Reader, fn func(Event) error) (ReadStats, error) {
	var stats ReadStats
	scanner := bufio.NewScanner(r)
	// Increase buffer size for long lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		// engines interleave audit events with plain log output
		if raw[0] != '{' {
			stats.Skipped++
			continue
		}

		e, err := Decode(raw)
		if err != nil {
			log.Printf("audit: skipping line %d: %v", line, err)
			stats.Skipped++
			continue
		}
		if err := fn(e); err != nil {
			return stats, err
		}
		stats.Events++
	}

	return stats, scanner.Err()
}

// Encode writes e as one JSON line
func Encode(w io.Writer, e Event) error {
	return json.NewEncoder(w).Encode(e)
}
