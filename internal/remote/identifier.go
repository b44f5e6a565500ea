package remote

import "strings"

// Scheme is the leading segment of every resource identifier.
const Scheme = "aria"

// Resource kinds usable as identifier segments and cache namespaces.
const (
	KindTrack    = "track"
	KindArtist   = "artist"
	KindAlbum    = "album"
	KindPlaylist = "playlist"
)

// IsIdentifier reports whether s looks like a scheme:kind:id identifier
// rather than a free-form name.
func IsIdentifier(s string) bool {
	return strings.HasPrefix(s, Scheme+":")
}

// IdentifierKind extracts the kind segment of an identifier, defaulting to
// track when the string does not carry three segments.
func IdentifierKind(s string) string {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) >= 3 {
		return parts[1]
	}
	return KindTrack
}

// BareID strips a "scheme:kind:" prefix if present, returning the input
// unchanged otherwise.
func BareID(s, kind string) string {
	prefix := Scheme + ":" + kind + ":"
	if strings.HasPrefix(s, prefix) {
		return s[len(prefix):]
	}
	return s
}

// MakeIdentifier assembles a full identifier from a kind and a bare id.
func MakeIdentifier(kind, id string) string {
	return Scheme + ":" + kind + ":" + id
}
