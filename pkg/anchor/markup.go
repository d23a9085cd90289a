package anchor

import (
	"regexp"
	"sort"
)

// element is one markup element located by a tag-depth scan.
type element struct {
	Tag     string
	Start   int // index of '<'
	OpenEnd int // index after the opening tag's '>'
	End     int // index after the closing tag's '>'; -1 while unclosed
	Opening string
}

// elements scans src[from:to] for markup elements. Braced expressions and
// quoted attribute values inside tags are skipped. Closing tags pop the stack
// to their nearest matching opener so stray or generic-looking tags do not
// derail the scan.
func elements(src string, from, to int) []element {
	var (
		out   []element
		stack []int
	)
	for i := from; i < to; i++ {
		if src[i] != '<' || i+1 >= to {
			continue
		}
		if src[i+1] == '/' {
			nameStart := i + 2
			nameEnd := nameStart
			for nameEnd < to && isTagByte(src[nameEnd]) {
				nameEnd++
			}
			gt := nameEnd
			for gt < to && src[gt] != '>' {
				gt++
			}
			if gt >= to {
				break
			}
			tag := src[nameStart:nameEnd]
			for k := len(stack) - 1; k >= 0; k-- {
				if out[stack[k]].Tag == tag {
					out[stack[k]].End = gt + 1
					stack = stack[:k]
					break
				}
			}
			i = gt
			continue
		}
		if !isTagStart(src[i+1]) {
			continue
		}
		nameEnd := i + 1
		for nameEnd < to && isTagByte(src[nameEnd]) {
			nameEnd++
		}
		gt, selfClosing := tagEnd(src, nameEnd, to)
		if gt < 0 {
			break
		}
		el := element{Tag: src[i+1 : nameEnd], Start: i, OpenEnd: gt + 1, End: -1, Opening: src[i : gt+1]}
		if selfClosing {
			el.End = gt + 1
			out = append(out, el)
		} else {
			out = append(out, el)
			stack = append(stack, len(out)-1)
		}
		i = gt
	}
	return out
}

// tagEnd returns the index of the '>' ending an opening tag whose attributes
// start at i.
func tagEnd(src string, i, to int) (int, bool) {
	for i < to {
		switch c := src[i]; c {
		case '"', '\'':
			i = skipQuoted(src, i, to)
			continue
		case '{':
			closeAt := matchClose(src, i, to)
			if closeAt < 0 {
				return -1, false
			}
			i = closeAt + 1
			continue
		case '>':
			return i, i > 0 && src[i-1] == '/'
		}
		i++
	}
	return -1, false
}

func isTagStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isTagByte(c byte) bool {
	return isTagStart(c) || (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '_' || c == ':'
}

// controlPattern matches the registration of a named form control.
func controlPattern(name string) *regexp.Regexp {
	q := regexp.QuoteMeta(name)
	return regexp.MustCompile(`register\(\s*['"]` + q + `['"]|\bname=\{?["']` + q + `["']`)
}

// controlGroups returns the distinct innermost groups enclosing each
// registration of name, ordered by position, plus the number of
// registrations that had no enclosing group.
func controlGroups(src string, from, to int, name string, group groupMatcher) ([]element, int) {
	els := elements(src, from, to)
	seen := make(map[int]bool)
	var (
		groups   []element
		orphaned int
	)
	for _, m := range controlPattern(name).FindAllStringIndex(src[from:to], -1) {
		at := from + m[0]
		best := -1
		for k, el := range els {
			if el.End < 0 || el.Start >= at || el.End <= at || !group.matches(el) {
				continue
			}
			if best < 0 || el.Start > els[best].Start {
				best = k
			}
		}
		if best < 0 {
			orphaned++
			continue
		}
		if !seen[best] {
			seen[best] = true
			groups = append(groups, els[best])
		}
	}
	sort.Slice(groups, func(a, b int) bool { return groups[a].Start < groups[b].Start })
	return groups, orphaned
}
