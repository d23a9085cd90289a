package anchor

import "strings"

// walk visits every code byte in src[from:to] that is not part of a comment
// or a string, template or regex literal. depth is the bracket nesting
// relative to from; an opener is visited at the outer depth and its closer at
// the same depth, so an unmatched closer is visited at -1. Returning false
// from visit stops the walk.
func walk(src string, from, to int, visit func(i, depth int) bool) {
	depth := 0
	var prev byte
	for i := from; i < to; {
		if j, literal := skip(src, i, to, prev); j > i {
			if literal {
				prev = 'a'
			}
			i = j
			continue
		}
		c := src[i]
		switch c {
		case '}', ')', ']':
			depth--
		}
		if !visit(i, depth) {
			return
		}
		switch c {
		case '{', '(', '[':
			depth++
		}
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			prev = c
		}
		i++
	}
}

// skip returns the index past a comment or literal starting at i, or i when
// none starts there. Line comments stop before their newline so the newline
// is still visited.
func skip(src string, i, to int, prev byte) (int, bool) {
	switch src[i] {
	case '\'', '"':
		return skipQuoted(src, i, to), true
	case '`':
		return skipTemplate(src, i, to), true
	case '/':
		if i+1 < to {
			switch src[i+1] {
			case '/':
				if end := strings.IndexByte(src[i:to], '\n'); end >= 0 {
					return i + end, false
				}
				return to, false
			case '*':
				if end := strings.Index(src[i+2:to], "*/"); end >= 0 {
					return i + 2 + end + 2, false
				}
				return to, false
			}
		}
		if regexAllowed(prev) {
			if end := skipRegex(src, i, to); end > i {
				return end, true
			}
		}
	}
	return i, false
}

func skipQuoted(src string, i, to int) int {
	quote := src[i]
	for j := i + 1; j < to; j++ {
		switch src[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		case '\n':
			// unterminated; resume on the next line
			return j
		}
	}
	return to
}

func skipTemplate(src string, i, to int) int {
	for j := i + 1; j < to; j++ {
		switch src[j] {
		case '\\':
			j++
		case '`':
			return j + 1
		case '$':
			if j+1 < to && src[j+1] == '{' {
				closeAt := -1
				walk(src, j+1, to, func(k, depth int) bool {
					if k > j+1 && depth == 0 && src[k] == '}' {
						closeAt = k
						return false
					}
					return true
				})
				if closeAt < 0 {
					return to
				}
				j = closeAt
			}
		}
	}
	return to
}

// regexAllowed reports whether a slash after prev starts a regex literal
// rather than a division.
func regexAllowed(prev byte) bool {
	if prev == 0 {
		return true
	}
	return strings.IndexByte("(,=:[!&|?{};+-*%~^", prev) >= 0
}

func skipRegex(src string, i, to int) int {
	inClass := false
	for j := i + 1; j < to; j++ {
		switch src[j] {
		case '\\':
			j++
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '\n':
			return i
		case '/':
			if inClass {
				continue
			}
			j++
			for j < to && isIdentByte(src[j]) {
				j++
			}
			return j
		}
	}
	return i
}

// matchClose returns the index of the delimiter closing the opener at open,
// or -1 when the text is unbalanced.
func matchClose(src string, open, to int) int {
	closeAt := -1
	walk(src, open, to, func(i, depth int) bool {
		if i > open && depth == 0 && isCloser(src[i]) {
			closeAt = i
			return false
		}
		if depth < 0 {
			return false
		}
		return true
	})
	return closeAt
}

// firstCode returns the first code index at or after from holding c.
func firstCode(src string, from, to int, c byte) int {
	found := -1
	walk(src, from, to, func(i, _ int) bool {
		if src[i] == c {
			found = i
			return false
		}
		return true
	})
	return found
}

func isCloser(c byte) bool {
	return c == '}' || c == ')' || c == ']'
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// lineStart returns the index of the first byte of the line holding i.
func lineStart(src string, i int) int {
	if i > len(src) {
		i = len(src)
	}
	return strings.LastIndexByte(src[:i], '\n') + 1
}

// lineEnd returns the index just past the newline ending the line holding i,
// or len(src) for the last line.
func lineEnd(src string, i int) int {
	if i >= len(src) {
		return len(src)
	}
	if end := strings.IndexByte(src[i:], '\n'); end >= 0 {
		return i + end + 1
	}
	return len(src)
}

// indentAt returns the leading whitespace of the line holding i.
func indentAt(src string, i int) string {
	start := lineStart(src, i)
	end := start
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	return src[start:end]
}
