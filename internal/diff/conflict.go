package diff

import "strings"

const (
	markerOurs   = "<<<<<<<"
	markerSep    = "======="
	markerBase   = "|||||||"
	markerTheirs = ">>>>>>>"
)

// MarkerKind identifies which side of a three-way merge a conflict
// region belongs to.
type MarkerKind string

const (
	MarkerOurs   MarkerKind = "ours"
	MarkerTheirs MarkerKind = "theirs"
	MarkerBase   MarkerKind = "base"
)

// ConflictMarker is one side of a conflict region. StartLine/EndLine
// are 1-based and inclusive, covering the content between the marker
// lines. Markers are computed on demand, never persisted.
type ConflictMarker struct {
	Kind      MarkerKind
	StartLine int
	EndLine   int
	Content   string
}

// IsConflictMarker reports whether the line is a conflict boundary
// emitted by a three-way merge.
func IsConflictMarker(line string) bool {
	return strings.HasPrefix(line, markerOurs) ||
		strings.HasPrefix(line, markerSep) ||
		strings.HasPrefix(line, markerTheirs)
}

// ContainsConflictToken is the looser signal: a marker token appears
// somewhere in the line rather than at the start.
func ContainsConflictToken(line string) bool {
	return strings.Contains(line, markerOurs) ||
		strings.Contains(line, markerSep) ||
		strings.Contains(line, markerTheirs)
}

// ExtractMarkers pairs conflict boundaries in file content into
// structured regions. Single pass: each marker line closes the
// currently open region and opens the next.
func ExtractMarkers(content string) []ConflictMarker {
	var markers []ConflictMarker
	var open *ConflictMarker
	var body []string

	flush := func(endLine int) {
		if open == nil {
			return
		}
		open.EndLine = endLine
		open.Content = strings.Join(body, "\n")
		markers = append(markers, *open)
		open = nil
		body = nil
	}

	for i, line := range strings.Split(content, "\n") {
		num := i + 1
		switch {
		case strings.HasPrefix(line, markerOurs):
			flush(num - 1)
			open = &ConflictMarker{Kind: MarkerOurs, StartLine: num + 1}
		case strings.HasPrefix(line, markerBase):
			flush(num - 1)
			open = &ConflictMarker{Kind: MarkerBase, StartLine: num + 1}
		case strings.HasPrefix(line, markerSep):
			flush(num - 1)
			open = &ConflictMarker{Kind: MarkerTheirs, StartLine: num + 1}
		case strings.HasPrefix(line, markerTheirs):
			flush(num - 1)
		default:
			if open != nil {
				body = append(body, line)
			}
		}
	}
	return markers
}
