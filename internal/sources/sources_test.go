package sources_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"ssdwatch/internal/services"
	"ssdwatch/internal/sources"
)

func TestParseStripsCommentsAndBlanks(t *testing.T) {
	input := strings.Join([]string{
		"# Samsung 990 Pro",
		"B0CHGT1KFJ",
		"",
		"   B0BHJJ9Y77   # WD SN850X",
		"\t",
		"#B0DISABLED",
		"B0C7W4FQ1W",
	}, "\n")

	ids, err := sources.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	want := []string{"B0CHGT1KFJ", "B0BHJJ9Y77", "B0C7W4FQ1W"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("Parse = %v, want %v", ids, want)
	}
}

func TestLoadMissingFileIsConfigurationError(t *testing.T) {
	_, err := sources.Load(filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestLoadEmptyPathIsConfigurationError(t *testing.T) {
	if _, err := sources.Load("  "); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "asins.txt")
	if err := os.WriteFile(path, []byte("A1\n# c\nA2 # trailing\n\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ids, err := sources.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(ids) != 2 || ids[0] != "A1" || ids[1] != "A2" {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestDuplicates(t *testing.T) {
	dups := sources.Duplicates([]string{"A", "B", "A", "C", "A", "B"})
	if !reflect.DeepEqual(dups, []string{"A", "B"}) {
		t.Fatalf("Duplicates = %v", dups)
	}
	if dups := sources.Duplicates([]string{"A", "B"}); len(dups) != 0 {
		t.Fatalf("expected no duplicates, got %v", dups)
	}
}
