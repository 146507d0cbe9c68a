package polyglot

import (
	"gopkg.microglot.org/polyglot.go/internal/idl"
)

const DefaultDetectionWindow = 20

// DetectLevel looks for a level marker within the first window tokens. A
// marker is either a LevelMarker token such as #low or an '@' immediately
// followed by one of the identifiers high, medium or low, in any case. The
// first marker wins. Without a marker the level is High and found is false.
func DetectLevel(tokens []*idl.Token, window int) (level idl.SyntaxLevel, found bool) {
	if window <= 0 {
		window = DefaultDetectionWindow
	}
	for x := 0; x < len(tokens) && x < window; x = x + 1 {
		if level, width := markerAt(tokens, x); width > 0 {
			return level, true
		}
	}
	return idl.SyntaxLevelHigh, false
}

// markerAt reports the level named by a marker starting at tokens[x] and the
// number of tokens the marker spans. A zero width means there is no marker.
func markerAt(tokens []*idl.Token, x int) (idl.SyntaxLevel, int) {
	if x >= len(tokens) {
		return idl.SyntaxLevelHigh, 0
	}
	tok := tokens[x]
	switch tok.Type {
	case idl.TokenTypeLevelMarker:
		if level, ok := idl.ParseSyntaxLevel(tok.Value); ok {
			return level, 1
		}
	case idl.TokenTypeAt:
		if x+1 < len(tokens) && tokens[x+1].Type == idl.TokenTypeIdentifier {
			if level, ok := idl.ParseSyntaxLevel(tokens[x+1].Value); ok {
				return level, 2
			}
		}
	}
	return idl.SyntaxLevelHigh, 0
}
