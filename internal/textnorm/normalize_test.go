package textnorm

import "testing"

func TestFoldPunctuation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"colon", "Spider-Man: Homecoming", "spider man homecoming"},
		{"extra space", "  The   Matrix  ", "the matrix"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fold(tt.in); got != tt.want {
				t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestContainsCJK(t *testing.T) {
	if !ContainsCJK("逃避虽可耻但有用") {
		t.Error("expected CJK text to be detected")
	}
	if ContainsCJK("NIGEHAJI") {
		t.Error("expected Latin text not to be detected as CJK")
	}
}

func TestIsPredominantlyLatin(t *testing.T) {
	if !IsPredominantlyLatin("NIGEHAJI") {
		t.Error("expected Latin-only string to be predominantly Latin")
	}
	if IsPredominantlyLatin("逃避虽可耻但有用") {
		t.Error("expected CJK-only string not to be predominantly Latin")
	}
	if IsPredominantlyLatin("") {
		t.Error("expected empty string not to be predominantly Latin")
	}
}
