// Copyright In Iure, 2026. All rights reserved.

package fuzzy

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \t\n ", ""},
		{"trims and lowercases", "  Jonas  Petraitis  ", "jonas petraitis"},
		{"diacritics", "Šarūnas", "sarunas"},
		{"polish l", "Łukasz, Šaras!", "lukasz saras"},
		{"punctuation set", "a.b_c/d\\e;f:g", "a b c d e f g"},
		{"brackets and quotes", "(Ona) [Marija] {Petrauskaitė} 'x' \"y\"", "ona marija petrauskaite x y"},
		{"collapses runs", "a ,  b", "a b"},
		{"digits kept", "Byla Nr. 1924/05", "byla nr 1924 05"},
		{"german sharp s", "Straße", "strasse"},
		{"punctuation only", ",.;:", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"Jonas Petraitis",
		"Łukasz, Šaras!",
		"  MIXED case,  with.Punct  ",
		"ŠŽĖĄČĘĮŲŪ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

func TestNormalizeDiacriticInsensitive(t *testing.T) {
	if Normalize("Šarūnas") != Normalize("sarunas") {
		t.Errorf("Normalize(Šarūnas) = %q, Normalize(sarunas) = %q",
			Normalize("Šarūnas"), Normalize("sarunas"))
	}
}

func TestNormalizePassThrough(t *testing.T) {
	// Letters with no ASCII equivalent are kept, not dropped.
	if got := Normalize("дом 日本"); got != "дом 日本" {
		t.Errorf("Normalize(дом 日本) = %q, want unchanged", got)
	}
}
