package textutil

import (
	"math"
	"testing"
)

func TestFingerprintSimilarity(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog"
	if got := NewFingerprint(text).Similarity(NewFingerprint(text)); math.Abs(got-1) > 1e-9 {
		t.Fatalf("identical text similarity = %v, want 1", got)
	}
	if got := (Fingerprint{}).Similarity(NewFingerprint(text)); got != 0 {
		t.Fatalf("empty similarity = %v, want 0", got)
	}
	if got := NewFingerprint("alpha beta gamma").Similarity(NewFingerprint("delta epsilon zeta")); got != 0 {
		t.Fatalf("disjoint similarity = %v, want 0", got)
	}
	if got := NewFingerprint("STRASSE night").Similarity(NewFingerprint("straße NIGHT")); math.Abs(got-1) > 1e-9 {
		t.Fatalf("case-folded similarity = %v, want 1", got)
	}
	reposted := NewFingerprint("I heard scratching inside the walls every night at three").Similarity(
		NewFingerprint("EDIT: I heard scratching inside the walls every single night at three."),
	)
	if reposted < 0.85 {
		t.Fatalf("reposted similarity = %v, want >= 0.85", reposted)
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("It's a café/naïve NIGHT, 2024!")
	want := []string{"café", "naïve", "night", "2024"}
	if len(got) != len(want) {
		t.Fatalf("Tokenize() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Tokenize()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if !NewFingerprint("a b c").Empty() {
		t.Fatal("expected empty fingerprint for short tokens")
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Thing: In/The Walls?", "The Thing InThe Walls"},
		{"  spaced   out  ", "spaced out"},
		{"já vu_2.0", "já vu_2.0"},
		{"Cafe\u0301 Noir", "Caf\u00e9 Noir"},
		{"...", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("héllo world", 5); got != "héllo" {
		t.Fatalf("TruncateRunes = %q", got)
	}
	if got := TruncateRunes("short", 30); got != "short" {
		t.Fatalf("TruncateRunes = %q", got)
	}
	if got := TruncateRunes("x", 0); got != "" {
		t.Fatalf("TruncateRunes = %q", got)
	}
}
