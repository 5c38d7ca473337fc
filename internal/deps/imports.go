package deps

import (
	"strings"
)

const importKeyword = "import "

// ExtractImports returns the path literal of every line that contains an
// import statement, in source order. The first double quoted literal of a
// line is taken, or the first single quoted one when the line has none. skipped holds the 1-based numbers of import lines that carry no
// literal.
func ExtractImports(source string) (literals []string, skipped []int) {
	for i, line := range strings.Split(source, "\n") {
		if !strings.Contains(line, importKeyword) {
			continue
		}
		lit, ok := firstQuoted(line)
		if !ok {
			skipped = append(skipped, i+1)
			continue
		}
		literals = append(literals, lit)
	}
	return literals, skipped
}

// firstQuoted returns the content of the first "..." literal, falling back to
// the first '...' literal. An apostrophe elsewhere on the line does not hide a
// double quoted path.
func firstQuoted(line string) (string, bool) {
	if lit, ok := quotedBy(line, '"'); ok {
		return lit, true
	}
	return quotedBy(line, '\'')
}

func quotedBy(line string, quote byte) (string, bool) {
	start := strings.IndexByte(line, quote)
	if start < 0 {
		return "", false
	}
	end := strings.IndexByte(line[start+1:], quote)
	if end < 0 {
		return "", false
	}
	return line[start+1 : start+1+end], true
}
