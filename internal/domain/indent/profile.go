// Package indent detects a source unit's indentation convention and converts
// between indentation levels and literal whitespace.
package indent

import (
	"errors"
	"fmt"
	"strings"
)

// Style is an indentation convention.
type Style string

const (
	// Tab indents with one tab per level.
	Tab Style = "tab"
	// TwoSpace indents with two spaces per level.
	TwoSpace Style = "2space"
	// FourSpace indents with four spaces per level. It is the default.
	FourSpace Style = "4space"
)

// ErrInconsistent is returned when the indentation of a unit cannot be
// classified.
var ErrInconsistent = errors.New("inconsistent indentation")

// Detect scans lines top to bottom. The first line indented with tabs fixes
// Tab; the first change between two different non-zero space indents fixes
// TwoSpace or FourSpace by their difference.
func Detect(lines []string) (Style, error) {
	last := 0

	for i, line := range lines {
		spaces, tabs := leading(line)
		if spaces != 0 && tabs != 0 {
			return "", fmt.Errorf("%w: line %d mixes tabs and spaces", ErrInconsistent, i+1)
		}

		if tabs != 0 {
			return Tab, nil
		}

		if spaces == 0 {
			continue
		}

		if last != 0 && last != spaces {
			switch abs(last - spaces) {
			case 2:
				return TwoSpace, nil
			case 4:
				return FourSpace, nil
			default:
				return "", fmt.Errorf("%w: line %d steps by %d spaces", ErrInconsistent, i+1, abs(last-spaces))
			}
		}

		last = spaces
	}

	return FourSpace, nil
}

// DetectText splits text into lines and runs Detect.
func DetectText(text string) (Style, error) {
	return Detect(strings.Split(text, "\n"))
}

// Level returns the indentation level of line under style. Space styles round
// partial levels up.
func Level(style Style, line string) int {
	switch style {
	case Tab:
		return len(line) - len(strings.TrimLeft(line, "\t"))
	case TwoSpace:
		return ceilDiv(len(line)-len(strings.TrimLeft(line, " ")), 2)
	default:
		return ceilDiv(len(line)-len(strings.TrimLeft(line, " ")), 4)
	}
}

// Whitespace renders level under style.
func Whitespace(style Style, level int) string {
	if level <= 0 {
		return ""
	}

	switch style {
	case Tab:
		return strings.Repeat("\t", level)
	case TwoSpace:
		return strings.Repeat("  ", level)
	default:
		return strings.Repeat("    ", level)
	}
}

// Reindent moves the continuation lines of a multi-line text written in style
// from into style to, relative to base. The first line is kept as is.
// Continuation lines keep their relative depth with the shallowest one placed
// on base, and the closing line always lands on base.
func Reindent(text string, from, to Style, base int) string {
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return text
	}

	levels := make([]int, len(lines))
	lowest := -1

	for i := 1; i < len(lines); i++ {
		levels[i] = Level(from, lines[i])
		if lowest < 0 || levels[i] < lowest {
			lowest = levels[i]
		}
	}

	for i := 1; i < len(lines); i++ {
		levels[i] += base - lowest
	}

	levels[len(levels)-1] = base

	for i := 1; i < len(lines); i++ {
		lines[i] = Whitespace(to, levels[i]) + strings.TrimSpace(lines[i])
	}

	return strings.Join(lines, "\n")
}

func leading(line string) (spaces, tabs int) {
	for spaces < len(line) && line[spaces] == ' ' {
		spaces++
	}

	for spaces+tabs < len(line) && line[spaces+tabs] == '\t' {
		tabs++
	}

	return spaces, tabs
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}

func abs(n int) int {
	if n < 0 {
		return -n
	}

	return n
}
