package matcher_test

import (
	"reflect"
	"testing"

	"ssdwatch/internal/matcher"
	"ssdwatch/internal/product"
)

func TestMatchesTitles(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"Acme 4TB NVMe M.2 SSD", true},
		{"Acme 4TB NVMe SSD Enclosure", false},
		{"Acme 24TB NVMe SSD", false},
		{"Acme 4 TB PCIe SSD", true},
		{"", false},
		{"   ", false},
		{"Acme 4TB SATA SSD", false},
		{"Acme 4TBX NVMe", false},
		{"acme 4tb nvme gen4", true},
		{"Acme 4TB NVMe SSD with Heatsink", false},
		{"Acme 4TB M.2 2280 PCIe 4.0", true},
		{"Acme 4TB NVMe Upgrade Kit", false},
	}
	for _, tc := range tests {
		t.Run(tc.title, func(t *testing.T) {
			if got := matcher.Matches(tc.title); got != tc.want {
				t.Fatalf("Matches(%q) = %v, want %v", tc.title, got, tc.want)
			}
		})
	}
}

func TestClassifyReportsFirstFailingRule(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"", matcher.ReasonEmptyTitle},
		{"Acme 2TB NVMe Enclosure", "capacity"},
		{"Acme 4TB SATA Enclosure", "interface"},
		{"Acme 4TB NVMe Enclosure", "exclusion"},
		{"Acme 4TB NVMe", ""},
	}
	for _, tc := range tests {
		if got := matcher.Classify(tc.title); got != tc.want {
			t.Fatalf("Classify(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestRulesIndividually(t *testing.T) {
	capacity := matcher.NewCapacityRule("4")
	if !capacity.Match("4TB") || !capacity.Match("4 tb") || capacity.Match("24TB") || capacity.Match("4TBX") {
		t.Fatal("capacity rule mismatch")
	}
	iface := matcher.InterfaceRule{Tokens: []string{"nvme", "m.2", "pcie"}}
	if !iface.Match("PCIe 4.0") || iface.Match("SATA III") {
		t.Fatal("interface rule mismatch")
	}
	excl := matcher.ExclusionRule{Tokens: []string{"case"}}
	if excl.Match("Protective CASE") || !excl.Match("bare drive") {
		t.Fatal("exclusion rule mismatch")
	}
}

func TestFilterPreservesOrderAndIsIdempotent(t *testing.T) {
	records := []product.Record{
		{Identifier: "A", Title: "Acme 4TB NVMe M.2 SSD"},
		{Identifier: "B", Title: "Acme 4TB NVMe SSD Enclosure"},
		{Identifier: "C"},
		{Identifier: "D", Title: "Other 4 TB PCIe SSD", Price: ""},
		{Identifier: "E", Title: "Acme 24TB NVMe SSD"},
	}

	once := matcher.Filter(records)
	ids := make([]string, 0, len(once))
	for _, rec := range once {
		ids = append(ids, rec.Identifier)
	}
	if !reflect.DeepEqual(ids, []string{"A", "D"}) {
		t.Fatalf("unexpected survivors %v", ids)
	}

	twice := matcher.Filter(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("filter not idempotent: %v vs %v", once, twice)
	}
}

func TestFilterIgnoresPrice(t *testing.T) {
	records := []product.Record{
		{Identifier: "A", Title: "Acme 4TB NVMe", Price: "£199.99"},
		{Identifier: "B", Title: "Acme 4TB NVMe"},
	}
	if got := matcher.Filter(records); len(got) != 2 {
		t.Fatalf("expected both records regardless of price, got %d", len(got))
	}
}
