package remote

import "testing"

func TestIsIdentifier(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"aria:track:abc", true},
		{"aria:playlist:def", true},
		{"Bohemian Rhapsody", false},
		{"spotify:track:abc", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsIdentifier(tc.in); got != tc.want {
			t.Errorf("IsIdentifier(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestIdentifierKind(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"aria:track:abc", "track"},
		{"aria:album:xyz", "album"},
		{"aria:playlist:p1", "playlist"},
		{"noparts", "track"},
	}
	for _, tc := range cases {
		if got := IdentifierKind(tc.in); got != tc.want {
			t.Errorf("IdentifierKind(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBareID(t *testing.T) {
	if got := BareID("aria:track:abc", KindTrack); got != "abc" {
		t.Errorf("BareID stripped prefix wrong: got %q, want abc", got)
	}
	if got := BareID("abc", KindTrack); got != "abc" {
		t.Errorf("BareID should pass bare ids through: got %q", got)
	}
	if got := BareID("aria:playlist:abc", KindTrack); got != "aria:playlist:abc" {
		t.Errorf("BareID should only strip the matching kind: got %q", got)
	}
}

func TestMakeIdentifierRoundTrip(t *testing.T) {
	id := MakeIdentifier(KindPlaylist, "p42")
	if id != "aria:playlist:p42" {
		t.Fatalf("MakeIdentifier: got %q", id)
	}
	if !IsIdentifier(id) || IdentifierKind(id) != KindPlaylist || BareID(id, KindPlaylist) != "p42" {
		t.Errorf("round trip failed for %q", id)
	}
}
