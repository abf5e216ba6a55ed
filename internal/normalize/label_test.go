package normalize

import "testing"

// Every key in the synonym table must map to its own label, both in exact
// and case/whitespace-variant form.
func TestLabelExactMatchAllKeys(t *testing.T) {
	for key, want := range categoryToLabel {
		if got := Label(key); got != want {
			t.Errorf("Label(%q) = %q, want %q", key, got, want)
		}
		if got := Label("  " + key + " "); got != want {
			t.Errorf("Label(%q padded) = %q, want %q", key, got, want)
		}
	}
}

func TestLabelCaseInsensitive(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"POLITIQUE", LabelPolitique},
		{"Sport", LabelSport},
		{"SANTÉ", LabelSante},
	}
	for _, tt := range tests {
		if got := Label(tt.raw); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestLabelEmptyInput(t *testing.T) {
	if got := Label(""); got != LabelAutre {
		t.Errorf("Label(\"\") = %q, want %q", got, LabelAutre)
	}
	if got := Label("   "); got != LabelAutre {
		t.Errorf("Label(blank) = %q, want %q", got, LabelAutre)
	}
}

func TestLabelSubstringFallback(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"politique nationale", LabelPolitique},
		{"actualité football", LabelSport},
		{"polit", LabelPolitique}, // input contained in a key
		{"rubrique santé publique", LabelSante},
	}
	for _, tt := range tests {
		if got := Label(tt.raw); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

// The fallback must be deterministic: the longest matching key wins, not
// whichever key a map iteration happens to visit first.
func TestLabelSubstringLongestKeyWins(t *testing.T) {
	// "sports internationaux" contains both "sport" and "international";
	// "international" is longer and must win.
	if got := Label("sports internationaux"); got != LabelInternational {
		t.Errorf("Label(ambiguous) = %q, want %q", got, LabelInternational)
	}
	// Repeated calls must agree.
	first := Label("sports internationaux")
	for i := 0; i < 100; i++ {
		if got := Label("sports internationaux"); got != first {
			t.Fatalf("non-deterministic result: %q then %q", first, got)
		}
	}
}

func TestLabelCompleteMiss(t *testing.T) {
	if got := Label("xyzzy"); got != LabelAutre {
		t.Errorf("Label(miss) = %q, want %q", got, LabelAutre)
	}
}

func TestValidLabel(t *testing.T) {
	for _, l := range StandardLabels {
		if !ValidLabel(l) {
			t.Errorf("ValidLabel(%q) = false", l)
		}
	}
	if ValidLabel("Divers") {
		t.Error("ValidLabel(\"Divers\") = true")
	}
}

func TestLabelDistribution(t *testing.T) {
	dist := LabelDistribution([]string{
		LabelSport, LabelSport, LabelPolitique, "Inconnu",
	})
	if dist[LabelSport] != 2 {
		t.Errorf("Sport = %d, want 2", dist[LabelSport])
	}
	if dist[LabelPolitique] != 1 {
		t.Errorf("Politique = %d, want 1", dist[LabelPolitique])
	}
	if dist[LabelAutre] != 1 {
		t.Errorf("Autre = %d, want 1 (unknown label folds into Autre)", dist[LabelAutre])
	}
	if dist[LabelCulture] != 0 {
		t.Errorf("Culture = %d, want 0", dist[LabelCulture])
	}
}
