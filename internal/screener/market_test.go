package screener

import (
	"errors"
	"testing"
)

func TestNormalizeMarket(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"america", "america"},
		{" America ", "america"},
		{"US", "america"},
		{"usa", "america"},
		{"United States", "america"},
		{"crypto", "crypto"},
		{"Hong Kong", "hongkong"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeMarket(tt.input)
			if err != nil {
				t.Fatalf("NormalizeMarket(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeMarket(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeMarketRejectsEmpty(t *testing.T) {
	for _, input := range []string{"", "   ", "\t"} {
		_, err := NormalizeMarket(input)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("NormalizeMarket(%q): expected ErrInvalidInput, got %v", input, err)
		}
	}
}

func TestDefaultSymbolTypes(t *testing.T) {
	tests := []struct {
		slug string
		want []string
	}{
		{"america", []string{"stock"}},
		{"crypto", []string{"crypto"}},
		{"atlantis", nil},
	}

	for _, tt := range tests {
		got := DefaultSymbolTypes(tt.slug)
		if len(got) != len(tt.want) {
			t.Errorf("DefaultSymbolTypes(%q) = %v, want %v", tt.slug, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("DefaultSymbolTypes(%q) = %v, want %v", tt.slug, got, tt.want)
			}
		}
	}
}

func TestDefaultSymbolTypesReturnsCopy(t *testing.T) {
	first := DefaultSymbolTypes("america")
	first[0] = "mutated"

	second := DefaultSymbolTypes("america")
	if second[0] != "stock" {
		t.Error("DefaultSymbolTypes must not share backing storage with callers")
	}
}
