package folio

import (
	"path/filepath"
	"strings"
)

// Variables set by the compiler; source headers may not define them.
var reservedKeys = map[string]bool{
	"FILENAME":    true,
	"CONTENT":     true,
	"RAW_CONTENT": true,
}

// DocumentParser splits source documents into header variables and body.
type DocumentParser struct {
	Converter ContentConverter
}

// NewDocumentParser returns a parser using the content format of the
// global configuration.
func NewDocumentParser() *DocumentParser {
	format := GetGlobalConfig().ContentFormat
	converter, err := NewContentConverter(format)
	if err != nil {
		GetLogger().WithField("format", format).Warn("Unknown content format, using goldmark")
		converter = NewGoldmarkConverter()
	}
	return &DocumentParser{Converter: converter}
}

// ParseDocument parses one source document with the default parser.
func ParseDocument(src []byte, path string) (*Variables, error) {
	return NewDocumentParser().Parse(src, path)
}

// Parse reads "KEY: value" header lines up to a separator line of four or
// more '-' characters; the rest is the body. The result holds the header
// keys followed by FILENAME, CONTENT and RAW_CONTENT. Empty input returns
// nil without an error. FILENAME is omitted when path is empty.
func (p *DocumentParser) Parse(src []byte, path string) (*Variables, error) {
	if len(src) == 0 {
		return nil, nil
	}

	text := string(src)
	vars := NewVariables()
	pos := 0
	body := ""

	for {
		if pos >= len(text) {
			end := len(text) - 1
			return nil, NewParserError(text, end,
				"Source document has no content separator. Headers must be followed by a line of four or more '-' characters.")
		}

		lineEnd, next := lineBounds(text, pos)
		line := text[pos:lineEnd]

		if strings.TrimSpace(line) == "" {
			pos = next
			continue
		}

		if line[0] == '-' {
			if !isSeparator(line) {
				return nil, NewParserError(text, pos,
					"Invalid content separator. Must be a line of four or more '-' characters.")
			}
			body = text[next:]
			break
		}

		key, value, err := parseHeaderLine(text, pos, line)
		if err != nil {
			return nil, err
		}
		vars.Set(key, value)
		pos = next
	}

	if filename := GetFilename(path); filename != "" {
		vars.Set("FILENAME", filename)
	}

	content := ""
	if p.Converter != nil {
		converted, err := p.Converter.Convert([]byte(body))
		if err != nil {
			return nil, NewDocumentError("content conversion", path, err)
		}
		content = converted
	}
	vars.Set("CONTENT", content)
	vars.Set("RAW_CONTENT", body)

	return vars, nil
}

// parseHeaderLine splits one header line; pos is the line's offset in text.
func parseHeaderLine(text string, pos int, line string) (string, string, error) {
	i := 0
	for i < len(line) && isKeyChar(line[i]) {
		i++
	}
	if i == 0 {
		return "", "", NewParserError(text, pos,
			"Can't find a configuration key or the content separator.")
	}
	if i == len(line) {
		return "", "", NewParserError(text, pos+i,
			"Configuration key '%s' must be followed by ':' and a value.", line[:i])
	}
	if line[i] != ':' {
		return "", "", NewParserError(text, pos+i,
			"Invalid character '%c' in configuration key.", line[i])
	}

	key := line[:i]
	if reservedKeys[key] || strings.HasSuffix(key, "_FORMATTED") {
		return "", "", NewParserError(text, pos,
			"'%s' variable is forbidden in source files. It will be set for you by the compiler.", key)
	}
	return key, strings.TrimSpace(line[i+1:]), nil
}

// lineBounds returns the end of the line starting at pos (before its
// terminator) and the offset of the next line. CRLF is one terminator.
func lineBounds(text string, pos int) (end, next int) {
	idx := strings.IndexAny(text[pos:], "\r\n")
	if idx == -1 {
		return len(text), len(text)
	}
	end = pos + idx
	if text[end] == '\r' && end+1 < len(text) && text[end+1] == '\n' {
		return end, end + 2
	}
	return end, end + 1
}

func isSeparator(line string) bool {
	line = strings.TrimRight(line, " \t")
	if len(line) < 4 {
		return false
	}
	return strings.Trim(line, "-") == ""
}

func isKeyChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

// GetFilename derives the document slug from a path: the last path segment
// without its final extension. An empty path yields an empty slug.
func GetFilename(path string) string {
	if path == "" {
		return ""
	}
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
