package anchor

import (
	"regexp"
	"strings"
)

var declarationPattern = regexp.MustCompile(`^(?:(?:public|private|protected|readonly|static|declare|abstract|override)\s+)*([A-Za-z_$][\w$]*)\s*[?!]?\s*:`)

// declaration is a keyed member found at the start of a line: an interface
// property, class field, object literal key or model attribute.
type declaration struct {
	Name   string
	Start  int // first byte of the declaration line
	End    int // byte after the last line of the declaration
	Depth  int // nesting relative to the scanned region
	Indent string
	// Trailing is set when the declaration shares its last line with code
	// belonging to the enclosing block.
	Trailing bool
}

// declarations lists every declaration starting a line inside src[from:to].
// The region start counts as a line start only when it begins a line.
func declarations(src string, from, to int) []declaration {
	type start struct{ at, depth int }
	var starts []start
	if from == 0 || src[from-1] == '\n' {
		starts = append(starts, start{from, 0})
	}
	walk(src, from, to, func(i, depth int) bool {
		if src[i] == '\n' && i+1 < to {
			starts = append(starts, start{i + 1, depth})
		}
		return true
	})

	var out []declaration
	for _, s := range starts {
		p := s.at
		for p < to && (src[p] == ' ' || src[p] == '\t') {
			p++
		}
		m := declarationPattern.FindStringSubmatchIndex(src[p:to])
		if m == nil {
			continue
		}
		colon := p + m[1]
		// `a ? b : c` continuation lines and `::` are not declarations
		if colon < to && src[colon] == ':' {
			continue
		}
		end, trailing := declarationEnd(src, colon, to)
		out = append(out, declaration{
			Name:     src[p+m[2] : p+m[3]],
			Start:    s.at,
			End:      end,
			Depth:    s.depth,
			Indent:   src[s.at:p],
			Trailing: trailing,
		})
	}
	return out
}

// declarationEnd finds where the value following the colon at from ends and
// extends that to the end of its line.
func declarationEnd(src string, from, to int) (int, bool) {
	end := to
	closed := false
	walk(src, from, to, func(i, depth int) bool {
		c := src[i]
		switch {
		case depth < 0:
			end = i
			closed = true
			return false
		case depth == 0 && (c == ';' || c == ','):
			end = i + 1
			return false
		case depth == 0 && c == '\n':
			last := lastSignificant(src, from, i)
			if last < 0 || continuesAfter(src[last]) || continuesBefore(src, i+1, to) {
				return true
			}
			end = i
			return false
		}
		return true
	})
	if end >= to {
		if to == len(src) {
			return to, false
		}
		// the region ends at the enclosing closer
		if start := lineStart(src, to); strings.TrimSpace(src[start:to]) == "" {
			return start, false
		}
		return to, true
	}
	if closed {
		return end, true
	}
	// code after the terminator on the same line belongs to the declaration
	// unless it is the enclosing block's closer
	rest := lineEnd(src, end)
	if rest > to {
		if to < len(src) {
			return end, true
		}
		rest = to
	}
	trailing := false
	walk(src, end, rest, func(i, depth int) bool {
		if depth < 0 {
			trailing = true
			return false
		}
		return true
	})
	if trailing {
		return end, true
	}
	return rest, false
}

// lastSignificant returns the index of the last non-space byte in
// src[from:i], or -1.
func lastSignificant(src string, from, i int) int {
	for k := i - 1; k >= from; k-- {
		switch src[k] {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return k
	}
	return -1
}

// continuesAfter reports whether a line ending in c needs another line.
func continuesAfter(c byte) bool {
	return strings.IndexByte("|&=+-?:.<", c) >= 0
}

// continuesBefore reports whether the line starting at i continues the
// previous one.
func continuesBefore(src string, i, to int) bool {
	for i < to && (src[i] == ' ' || src[i] == '\t' || src[i] == '\r') {
		i++
	}
	if i >= to {
		return false
	}
	return strings.IndexByte(".|&?:", src[i]) >= 0
}
