package ldapext

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Timestamp layouts used in audit log header lines. The millisecond form is
// tried first.
var auditLogTimestampLayouts = []string{
	"02/Jan/2006:15:04:05.000 -0700",
	"02/Jan/2006:15:04:05 -0700",
}

// auditLogHeader holds the parsed content of an audit log comment header:
// the timestamp and the ordered name/value pairs following it.
type auditLogHeader struct {
	timestamp   time.Time
	namedValues map[string]string
}

// parseAuditLogHeader tokenizes a header line of the form
//
//	# 24/Aug/2018:12:11:50.949 -0500; conn=33; op=1; productName="Directory Server"
//
// Values may be bare tokens (with backslash and #XX hex escapes), quoted
// strings, or JSON objects delimited by balanced braces. Any malformed value
// fails the whole header; nothing is silently dropped.
func parseAuditLogHeader(line string, allLines []string) (*auditLogHeader, error) {
	if !strings.HasPrefix(line, "#") {
		return nil, auditLogParseErrorf(allLines, "first line is not a comment")
	}
	content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
	if content == "" {
		return nil, auditLogParseErrorf(allLines, "comment line does not match the expected header pattern")
	}

	timestampPart := content
	rest := ""
	if i := strings.IndexByte(content, ';'); i >= 0 {
		timestampPart = strings.TrimSpace(content[:i])
		rest = content[i+1:]
	}

	var timestamp time.Time
	var err error
	for _, layout := range auditLogTimestampLayouts {
		if timestamp, err = time.Parse(layout, timestampPart); err == nil {
			break
		}
	}
	if err != nil {
		return nil, auditLogParseErrorf(allLines, "unparseable header timestamp %q", timestampPart)
	}

	namedValues := make(map[string]string)
	pos := 0
	for pos < len(rest) {
		// Skip separators between pairs.
		for pos < len(rest) && (rest[pos] == ' ' || rest[pos] == ';') {
			pos++
		}
		if pos >= len(rest) {
			break
		}

		eq := strings.IndexByte(rest[pos:], '=')
		if eq < 0 {
			return nil, auditLogParseErrorf(allLines, "header token %q is not a name=value pair", strings.TrimSpace(rest[pos:]))
		}
		name := strings.TrimSpace(rest[pos : pos+eq])
		if name == "" {
			return nil, auditLogParseErrorf(allLines, "header pair with empty name")
		}
		pos += eq + 1

		var value string
		switch {
		case pos < len(rest) && rest[pos] == '"':
			value, pos, err = parseQuotedHeaderValue(rest, pos)
		case pos < len(rest) && rest[pos] == '{':
			value, pos, err = parseJSONHeaderValue(rest, pos)
		default:
			value, pos, err = parseBareHeaderValue(rest, pos)
		}
		if err != nil {
			return nil, &AuditLogParseError{
				Lines:   allLines,
				Message: fmt.Sprintf("malformed value for header field %q", name),
				Err:     err,
			}
		}

		if _, exists := namedValues[name]; exists {
			return nil, auditLogParseErrorf(allLines, "duplicate header field %q", name)
		}
		namedValues[name] = value
	}

	return &auditLogHeader{timestamp: timestamp, namedValues: namedValues}, nil
}

// parseBareHeaderValue reads an unquoted token: no internal whitespace,
// backslash escapes the next character, and #XX decodes a hex-escaped byte.
func parseBareHeaderValue(s string, pos int) (string, int, error) {
	var b strings.Builder
	for pos < len(s) {
		c := s[pos]
		switch c {
		case ';', ' ':
			return b.String(), pos, nil
		case '\\':
			if pos+1 >= len(s) {
				return "", pos, fmt.Errorf("trailing unescaped backslash")
			}
			b.WriteByte(s[pos+1])
			pos += 2
		case '#':
			if pos+2 >= len(s) {
				return "", pos, fmt.Errorf("truncated hex escape")
			}
			decoded, err := strconv.ParseUint(s[pos+1:pos+3], 16, 8)
			if err != nil {
				return "", pos, fmt.Errorf("invalid hex escape %q", s[pos:pos+3])
			}
			b.WriteByte(byte(decoded))
			pos += 3
		default:
			b.WriteByte(c)
			pos++
		}
	}
	return b.String(), pos, nil
}

// parseQuotedHeaderValue reads a double-quoted value; escaped quotes,
// semicolons, and spaces are permitted inside.
func parseQuotedHeaderValue(s string, pos int) (string, int, error) {
	pos++ // opening quote
	var b strings.Builder
	for pos < len(s) {
		c := s[pos]
		switch c {
		case '"':
			return b.String(), pos + 1, nil
		case '\\':
			if pos+1 >= len(s) {
				return "", pos, fmt.Errorf("trailing unescaped backslash inside quoted value")
			}
			b.WriteByte(s[pos+1])
			pos += 2
		default:
			b.WriteByte(c)
			pos++
		}
	}
	return "", pos, fmt.Errorf("unterminated quoted value")
}

// parseJSONHeaderValue reads a JSON object delimited by balanced braces,
// honoring strings and escapes inside, and validates it parses as JSON.
func parseJSONHeaderValue(s string, pos int) (string, int, error) {
	start := pos
	depth := 0
	inString := false
	for pos < len(s) {
		c := s[pos]
		if inString {
			switch c {
			case '\\':
				pos++
			case '"':
				inString = false
			}
		} else {
			switch c {
			case '"':
				inString = true
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					raw := s[start : pos+1]
					var parsed map[string]interface{}
					if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
						return "", pos, fmt.Errorf("embedded JSON does not parse: %w", err)
					}
					return raw, pos + 1, nil
				}
			}
		}
		pos++
	}
	return "", pos, fmt.Errorf("unbalanced braces in JSON value")
}

// baseAuditLogMessage carries the content every audit log message shares:
// the raw lines, the parsed header timestamp, and the header's named values
// with typed accessors.
type baseAuditLogMessage struct {
	lines       []string
	timestamp   time.Time
	namedValues map[string]string
	dn          string
}

// LogMessageLines returns the raw lines of the message.
func (m *baseAuditLogMessage) LogMessageLines() []string {
	return copyStringSlice(m.lines)
}

// Timestamp returns the header timestamp.
func (m *baseAuditLogMessage) Timestamp() time.Time {
	return m.timestamp
}

// DN returns the DN of the entry the change targeted.
func (m *baseAuditLogMessage) DN() string {
	return m.dn
}

// NamedValues returns a copy of all header name/value pairs.
func (m *baseAuditLogMessage) NamedValues() map[string]string {
	out := make(map[string]string, len(m.namedValues))
	for k, v := range m.namedValues {
		out[k] = v
	}
	return out
}

// GetString returns the named header value and whether it was present.
// Absence is reported through ok, never through an error.
func (m *baseAuditLogMessage) GetString(name string) (value string, ok bool) {
	value, ok = m.namedValues[name]
	return value, ok
}

// GetBoolean returns the named header value interpreted as a boolean. A
// missing field yields (nil, nil); a present but non-boolean value is an
// error.
func (m *baseAuditLogMessage) GetBoolean(name string) (*bool, error) {
	raw, ok := m.namedValues[name]
	if !ok {
		return nil, nil
	}
	switch strings.ToLower(raw) {
	case "true":
		v := true
		return &v, nil
	case "false":
		v := false
		return &v, nil
	default:
		return nil, auditLogParseErrorf(m.lines, "header field %q value %q is not a boolean", name, raw)
	}
}

// GetLong returns the named header value interpreted as a 64-bit integer. A
// missing field yields (nil, nil); a present but non-numeric value is an
// error.
func (m *baseAuditLogMessage) GetLong(name string) (*int64, error) {
	raw, ok := m.namedValues[name]
	if !ok {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, auditLogParseErrorf(m.lines, "header field %q value %q is not an integer", name, raw)
	}
	return &v, nil
}

// GetStringList returns the named header value split on commas. A missing
// field yields (nil, false).
func (m *baseAuditLogMessage) GetStringList(name string) ([]string, bool) {
	raw, ok := m.namedValues[name]
	if !ok {
		return nil, false
	}
	if raw == "" {
		return []string{}, true
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, true
}

// GetJSONObject returns the named header value parsed as a JSON object. A
// missing field yields (nil, nil); a present but non-JSON value is an error.
func (m *baseAuditLogMessage) GetJSONObject(name string) (map[string]interface{}, error) {
	raw, ok := m.namedValues[name]
	if !ok {
		return nil, nil
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, &AuditLogParseError{
			Lines:   m.lines,
			Message: fmt.Sprintf("header field %q is not a JSON object", name),
			Err:     err,
		}
	}
	return parsed, nil
}
