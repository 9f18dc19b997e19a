package serialize

import "strings"

// Line break tokens. A string holding any of them literally has its "<"
// written as tokenLT so that unescaping restores it.
const (
	tokenCRLF = "<cf>"
	tokenCR   = "<cr>"
	tokenLF   = "<lf>"
	tokenLT   = "<lt>"
)

func isTokenTail(s string) bool {
	if len(s) < 3 || s[2] != '>' {
		return false
	}
	switch s[:2] {
	case "cf", "cr", "lf", "lt":
		return true
	}
	return false
}

// EscapeLine replaces line breaks with tokens so that s fits on one line.
//
// Postcondition: the result holds no '\r' or '\n', and UnescapeLine of it
// returns s.
func EscapeLine(s string) string {
	if !strings.ContainsAny(s, "\r\n<") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\r' && i+1 < len(s) && s[i+1] == '\n':
			b.WriteString(tokenCRLF)
			i++
		case c == '\r':
			b.WriteString(tokenCR)
		case c == '\n':
			b.WriteString(tokenLF)
		case c == '<' && isTokenTail(s[i+1:]):
			b.WriteString(tokenLT)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// UnescapeLine reverses EscapeLine. A '<' not starting a token is kept.
func UnescapeLine(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '<' || !isTokenTail(s[i+1:]) {
			b.WriteByte(s[i])
			continue
		}
		switch s[i : i+4] {
		case tokenCRLF:
			b.WriteString("\r\n")
		case tokenCR:
			b.WriteByte('\r')
		case tokenLF:
			b.WriteByte('\n')
		case tokenLT:
			b.WriteByte('<')
		}
		i += 3
	}
	return b.String()
}
