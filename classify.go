package docblock

import "strings"

// IsBlankLine reports whether the line holds nothing but whitespace and comment
// decoration ("*", "/**", "*/").
func IsBlankLine(line string) bool {
	t := strings.TrimSpace(line)
	t = strings.TrimPrefix(t, "/")
	t = strings.TrimSuffix(t, "/")
	for i := 0; i < len(t); i++ {
		if t[i] != '*' && !isSpace(t[i]) {
			return false
		}
	}
	return true
}

// IsTagLine reports whether the line, after leading whitespace and one leading
// decoration, starts with '@' followed by a non-whitespace character.
func IsTagLine(line string) bool {
	rest := line[leadingDecoration(line):]
	return len(rest) > 1 && rest[0] == '@' && !isSpace(rest[1])
}

// leadingDecoration returns the length of the leading whitespace, the optional "/**" or
// "*" that follows it and the whitespace after that.
func leadingDecoration(line string) int {
	i := skipSpace(line, 0, len(line))
	switch {
	case strings.HasPrefix(line[i:], "/**"):
		i += 3
	case strings.HasPrefix(line[i:], "*"):
		i++
	}
	return skipSpace(line, i, len(line))
}

// trailingDecoration returns the index where a trailing "*/" and the whitespace before it
// begin, or len(line) when the line does not end with a closing delimiter.
func trailingDecoration(line string) int {
	if !strings.HasSuffix(line, "*/") {
		return len(line)
	}
	i := len(line) - 2
	for i > 0 && isSpace(line[i-1]) {
		i--
	}
	return i
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\v' || b == '\f' || b == '\r' || b == '\n'
}

// skipSpace returns the index of the first non-space byte in line[i:limit], or limit.
func skipSpace(line string, i, limit int) int {
	for i < limit && isSpace(line[i]) {
		i++
	}
	return i
}

// skipToken returns the index of the first space byte in line[i:limit], or limit.
func skipToken(line string, i, limit int) int {
	for i < limit && !isSpace(line[i]) {
		i++
	}
	return i
}
