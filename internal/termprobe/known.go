package termprobe

import "strings"

// knownTerms are TERM substrings of terminals that render sixel without
// needing a DA1 round trip.
var knownTerms = []string{
	"xterm",
	"mlterm",
	"wezterm",
	"foot",
	"contour",
	"kitty",
	"alacritty",
	"mintty",
	"cygwin",
	"yaft",
}

// knownPrograms are TERM_PROGRAM values of sixel-capable terminals.
var knownPrograms = []string{
	"vscode",
	"mintty",
	"iTerm.app",
	"contour",
	"WezTerm",
}

// IsKnownGraphicsTerm reports whether TERM or TERM_PROGRAM names a terminal
// known to support sixel graphics.
func IsKnownGraphicsTerm(term, program string) bool {
	lower := strings.ToLower(term)
	for _, k := range knownTerms {
		if strings.Contains(lower, k) {
			return true
		}
	}
	for _, p := range knownPrograms {
		if program == p {
			return true
		}
	}
	return false
}
