package core

import "strings"

// parse.go holds the line-oriented delimited text parser used by import.
//
// The format is deliberately looser than RFC 4180: quoted fields cannot
// span lines, quotes may open anywhere in a field, and the delimiter is
// detected from the header instead of being fixed.

const bom = "\uFEFF"

// StripBOM removes a byte-order mark from s, wherever the editor put it.
func StripBOM(s string) string {
	return strings.ReplaceAll(s, bom, "")
}

// DetectDelimiter picks the field delimiter from the header line.
// Semicolon wins only when the header has semicolons and no commas.
func DetectDelimiter(header string) rune {
	if strings.ContainsRune(header, ';') && !strings.ContainsRune(header, ',') {
		return ';'
	}
	return ','
}

// Line is a non-empty line of import text. Number is its 1-based position
// in the text, counting the empty lines that were dropped.
type Line struct {
	Number int
	Text   string
}

// SplitNumberedLines normalizes CRLF and CR line endings and drops empty
// lines, keeping each remaining line's original number.
func SplitNumberedLines(text string) []Line {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	raw := strings.Split(text, "\n")
	lines := make([]Line, 0, len(raw))
	for i, l := range raw {
		if l != "" {
			lines = append(lines, Line{Number: i + 1, Text: l})
		}
	}
	return lines
}

// SplitLines is SplitNumberedLines without the numbers.
func SplitLines(text string) []string {
	numbered := SplitNumberedLines(text)
	lines := make([]string, len(numbered))
	for i, l := range numbered {
		lines[i] = l.Text
	}
	return lines
}

// ParseLine splits one line into fields.
//
// A double quote toggles quoted mode, in which the delimiter is literal.
// Inside quotes, two consecutive quotes decode to one literal quote.
// Everything else is copied verbatim; no trimming happens here.
func ParseLine(line string, delim rune) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)

	chars := []rune(line)
	for i := 0; i < len(chars); i++ {
		ch := chars[i]

		if ch == '"' {
			if inQuotes && i+1 < len(chars) && chars[i+1] == '"' {
				current.WriteRune('"')
				i++
				continue
			}
			inQuotes = !inQuotes
			continue
		}

		if ch == delim && !inQuotes {
			fields = append(fields, current.String())
			current.Reset()
			continue
		}

		current.WriteRune(ch)
	}

	return append(fields, current.String())
}

// HeaderIndex maps lower-cased column names to their position in a row.
type HeaderIndex map[string]int

// MakeHeaderIndex builds a case-insensitive index from header fields.
// Names are trimmed; a repeated column keeps its last position.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

// Value returns the trimmed field for column, or "" if the column is not
// in the header or the row is too short.
func (h HeaderIndex) Value(row []string, column string) string {
	i, ok := h[strings.ToLower(column)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Optional returns the trimmed field for column and whether it is present.
// An empty value counts as absent.
func (h HeaderIndex) Optional(row []string, column string) (string, bool) {
	v := h.Value(row, column)
	return v, v != ""
}
