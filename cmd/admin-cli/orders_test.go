package main

import (
	"testing"

	"github.com/vladislavdragonenkov/storeadmin/internal/domain"
)

var testCatalog = []domain.Product{
	{ID: "p-1", Name: "Widget", UnitPriceMinor: 1000},
	{ID: "p-2", Name: "Gadget", UnitPriceMinor: 550},
}

func TestParseItemSpec(t *testing.T) {
	tests := []struct {
		name     string
		spec     string
		wantID   string
		wantQty  int32
		wantFail bool
	}{
		{name: "by id", spec: "p-1:2", wantID: "p-1", wantQty: 2},
		{name: "by name", spec: "Widget:3", wantID: "p-1", wantQty: 3},
		{name: "name case insensitive", spec: "gadget:1", wantID: "p-2", wantQty: 1},
		{name: "missing quantity", spec: "p-1", wantFail: true},
		{name: "empty quantity", spec: "p-1:", wantFail: true},
		{name: "zero quantity", spec: "p-1:0", wantFail: true},
		{name: "negative quantity", spec: "p-1:-2", wantFail: true},
		{name: "unknown product", spec: "doohickey:1", wantFail: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			product, quantity, err := parseItemSpec(testCatalog, tc.spec)
			if tc.wantFail {
				if err == nil {
					t.Fatalf("expected error for %q", tc.spec)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if product.ID != tc.wantID || quantity != tc.wantQty {
				t.Fatalf("parseItemSpec(%q) = (%s, %d), want (%s, %d)",
					tc.spec, product.ID, quantity, tc.wantID, tc.wantQty)
			}
		})
	}
}

func TestParseQuantity(t *testing.T) {
	if _, err := parseQuantity("5"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, raw := range []string{"0", "-1", "abc", ""} {
		if _, err := parseQuantity(raw); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}
