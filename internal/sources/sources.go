// Package sources reads the watch list: one product identifier per line with
// '#' comments and blank lines ignored.
package sources

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"ssdwatch/internal/services"
)

const commentMarker = "#"

// Load reads identifiers from path. A missing file is a configuration error.
func Load(path string) ([]string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrConfiguration, "sources", "load", "source list path not configured", nil)
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrConfiguration, "sources", "load", fmt.Sprintf("source list %s not found", path), err)
		}
		return nil, services.Wrap(services.ErrConfiguration, "sources", "load", path, err)
	}
	defer file.Close()

	ids, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("read source list %s: %w", path, err)
	}
	return ids, nil
}

// Parse returns the ordered identifiers contained in r.
func Parse(r io.Reader) ([]string, error) {
	var ids []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if id := cleanLine(scanner.Text()); id != "" {
			ids = append(ids, id)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// Duplicates lists identifiers that appear more than once, in first-seen order.
func Duplicates(ids []string) []string {
	seen := make(map[string]int, len(ids))
	var dups []string
	for _, id := range ids {
		seen[id]++
		if seen[id] == 2 {
			dups = append(dups, id)
		}
	}
	return dups
}

func cleanLine(line string) string {
	if idx := strings.Index(line, commentMarker); idx >= 0 {
		line = line[:idx]
	}
	return strings.TrimSpace(line)
}
