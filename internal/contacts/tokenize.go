package contacts

import "strings"

// Tokenize splits CSV-like text into rows of fields.
//
// Quoting follows the usual CSV rules: a double quote toggles quoted mode and
// a doubled quote inside a quoted field is a literal quote. Outside quotes a
// comma ends the field and CR, LF or CRLF ends the row. An unterminated quote
// at end of input is not an error; the field is flushed as read.
//
// Rows consisting of a single blank field are dropped, so stray blank lines
// and a trailing newline never show up as rows. Tokenize does not interpret
// the header; row 0 is whatever the first line was.
func Tokenize(text string) [][]string {
	var (
		rows    [][]string
		row     []string
		field   strings.Builder
		inQuote bool
	)

	endField := func() {
		row = append(row, field.String())
		field.Reset()
	}
	endRow := func() {
		endField()
		if keepRow(row) {
			rows = append(rows, row)
		}
		row = nil
	}

	// Delimiters are all ASCII, so scanning bytes is safe for UTF-8 input:
	// continuation bytes never collide with them.
	for i := 0; i < len(text); i++ {
		c := text[i]

		if inQuote {
			switch {
			case c == '"' && i+1 < len(text) && text[i+1] == '"':
				field.WriteByte('"')
				i++
			case c == '"':
				inQuote = false
			default:
				field.WriteByte(c)
			}
			continue
		}

		switch c {
		case '"':
			inQuote = true
		case ',':
			endField()
		case '\r', '\n':
			if c == '\r' && i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			endRow()
		default:
			field.WriteByte(c)
		}
	}
	endRow()

	return rows
}

// keepRow reports whether a finished row should be emitted.
func keepRow(row []string) bool {
	if len(row) > 1 {
		return true
	}
	return len(row) == 1 && strings.TrimSpace(row[0]) != ""
}
