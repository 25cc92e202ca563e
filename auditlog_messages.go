package ldapext

import (
	"bufio"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/go-ldap/ldif"
)

// AuditLogChangeType identifies the kind of change an audit log message
// records.
type AuditLogChangeType int

const (
	// ChangeTypeAdd records an add operation.
	ChangeTypeAdd AuditLogChangeType = iota

	// ChangeTypeDelete records a delete operation.
	ChangeTypeDelete

	// ChangeTypeModify records a modify operation.
	ChangeTypeModify

	// ChangeTypeModifyDN records a modify DN operation.
	ChangeTypeModifyDN
)

// String returns the LDIF changetype keyword.
func (t AuditLogChangeType) String() string {
	switch t {
	case ChangeTypeAdd:
		return "add"
	case ChangeTypeDelete:
		return "delete"
	case ChangeTypeModify:
		return "modify"
	case ChangeTypeModifyDN:
		return "moddn"
	default:
		return "unknown"
	}
}

// AuditLogMessage is the closed union of audit log message kinds. The only
// implementations are AddAuditLogMessage, DeleteAuditLogMessage,
// ModifyAuditLogMessage, and ModifyDNAuditLogMessage; ParseAuditLogMessage
// dispatches on the change record's changetype.
type AuditLogMessage interface {
	// ChangeType identifies which union member this is.
	ChangeType() AuditLogChangeType

	// DN returns the DN of the entry the change targeted.
	DN() string

	// Timestamp returns the header timestamp.
	Timestamp() time.Time

	// LogMessageLines returns the raw lines of the message.
	LogMessageLines() []string

	// GetString returns a named header value and whether it was present.
	GetString(name string) (string, bool)

	// GetBoolean returns a named header value as a boolean; nil when absent.
	GetBoolean(name string) (*bool, error)

	// GetLong returns a named header value as an integer; nil when absent.
	GetLong(name string) (*int64, error)

	// GetStringList returns a named header value split on commas.
	GetStringList(name string) ([]string, bool)
}

// AddAuditLogMessage records an add operation, carrying the attributes of
// the added entry.
type AddAuditLogMessage struct {
	baseAuditLogMessage
	addRequest *ldap.AddRequest
}

// ChangeType identifies the message as an add.
func (m *AddAuditLogMessage) ChangeType() AuditLogChangeType {
	return ChangeTypeAdd
}

// AddRequest returns the change record as a go-ldap add request.
func (m *AddAuditLogMessage) AddRequest() *ldap.AddRequest {
	return m.addRequest
}

// DeleteAuditLogMessage records a delete operation.
type DeleteAuditLogMessage struct {
	baseAuditLogMessage
}

// ChangeType identifies the message as a delete.
func (m *DeleteAuditLogMessage) ChangeType() AuditLogChangeType {
	return ChangeTypeDelete
}

// ModifyAuditLogMessage records a modify operation, carrying the attribute
// changes.
type ModifyAuditLogMessage struct {
	baseAuditLogMessage
	modifyRequest *ldap.ModifyRequest
}

// ChangeType identifies the message as a modify.
func (m *ModifyAuditLogMessage) ChangeType() AuditLogChangeType {
	return ChangeTypeModify
}

// ModifyRequest returns the change record as a go-ldap modify request.
func (m *ModifyAuditLogMessage) ModifyRequest() *ldap.ModifyRequest {
	return m.modifyRequest
}

// ModifyDNAuditLogMessage records a modify DN operation.
type ModifyDNAuditLogMessage struct {
	baseAuditLogMessage
	newRDN       string
	deleteOldRDN bool
	newSuperior  *string
}

// ChangeType identifies the message as a modify DN.
func (m *ModifyDNAuditLogMessage) ChangeType() AuditLogChangeType {
	return ChangeTypeModifyDN
}

// NewRDN returns the new RDN for the entry.
func (m *ModifyDNAuditLogMessage) NewRDN() string {
	return m.newRDN
}

// DeleteOldRDN reports whether the old RDN values were removed.
func (m *ModifyDNAuditLogMessage) DeleteOldRDN() bool {
	return m.deleteOldRDN
}

// NewSuperior returns the new superior DN, or nil when the entry stayed
// under the same parent.
func (m *ModifyDNAuditLogMessage) NewSuperior() *string {
	return copyStringPtr(m.newSuperior)
}

// ParseAuditLogMessage parses one complete audit log message: a comment
// header line followed by an LDIF change record body. The returned value is
// one of the four union members, selected by the body's changetype.
func ParseAuditLogMessage(message string) (AuditLogMessage, error) {
	lines := splitAuditLogLines(message)
	if len(lines) == 0 {
		return nil, auditLogParseErrorf(nil, "empty message")
	}

	header, err := parseAuditLogHeader(lines[0], lines)
	if err != nil {
		return nil, err
	}

	bodyLines := lines[1:]
	for len(bodyLines) > 0 && strings.HasPrefix(bodyLines[0], "#") {
		bodyLines = bodyLines[1:]
	}
	if len(bodyLines) == 0 {
		return nil, auditLogParseErrorf(lines, "message has no change record body")
	}

	base := baseAuditLogMessage{
		lines:       lines,
		timestamp:   header.timestamp,
		namedValues: header.namedValues,
	}

	changeType := auditLogChangeType(bodyLines)
	if changeType == "moddn" || changeType == "modrdn" {
		return parseModifyDNBody(base, bodyLines)
	}

	// Audit logs omit the dash after the final mod-spec; RFC 2849 requires
	// every mod-spec to close with one, so restore it before parsing.
	if changeType == "modify" && bodyLines[len(bodyLines)-1] != "-" {
		bodyLines = append(bodyLines[:len(bodyLines):len(bodyLines)], "-")
	}

	parsed, err := ldif.Parse(strings.Join(bodyLines, "\n") + "\n")
	if err != nil {
		return nil, &AuditLogParseError{Lines: lines, Message: "malformed change record body", Err: err}
	}
	if len(parsed.Entries) != 1 {
		return nil, auditLogParseErrorf(lines, "expected exactly one change record, got %d", len(parsed.Entries))
	}

	entry := parsed.Entries[0]
	switch {
	case entry.Add != nil:
		base.dn = entry.Add.DN
		return &AddAuditLogMessage{baseAuditLogMessage: base, addRequest: entry.Add}, nil
	case entry.Del != nil:
		base.dn = entry.Del.DN
		return &DeleteAuditLogMessage{baseAuditLogMessage: base}, nil
	case entry.Modify != nil:
		base.dn = entry.Modify.DN
		return &ModifyAuditLogMessage{baseAuditLogMessage: base, modifyRequest: entry.Modify}, nil
	default:
		return nil, auditLogParseErrorf(lines, "change record has no recognized changetype")
	}
}

func splitAuditLogLines(message string) []string {
	raw := strings.Split(strings.ReplaceAll(message, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func auditLogChangeType(bodyLines []string) string {
	for _, line := range bodyLines {
		if value, ok := strings.CutPrefix(line, "changetype:"); ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// parseModifyDNBody handles the moddn changetype, which the LDIF library
// does not model as a request type.
func parseModifyDNBody(base baseAuditLogMessage, bodyLines []string) (*ModifyDNAuditLogMessage, error) {
	msg := &ModifyDNAuditLogMessage{baseAuditLogMessage: base}
	sawNewRDN := false
	sawDeleteOldRDN := false
	for _, line := range bodyLines {
		name, value, found := strings.Cut(line, ":")
		if !found {
			return nil, auditLogParseErrorf(base.lines, "malformed change record line %q", line)
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(name) {
		case "dn":
			msg.dn = value
		case "changetype":
			// Already dispatched on.
		case "newrdn":
			msg.newRDN = value
			sawNewRDN = true
		case "deleteoldrdn":
			switch value {
			case "0":
				msg.deleteOldRDN = false
			case "1":
				msg.deleteOldRDN = true
			default:
				return nil, auditLogParseErrorf(base.lines, "deleteoldrdn value %q is not 0 or 1", value)
			}
			sawDeleteOldRDN = true
		case "newsuperior":
			msg.newSuperior = &value
		default:
			return nil, auditLogParseErrorf(base.lines, "unexpected change record line %q", line)
		}
	}
	if msg.dn == "" {
		return nil, auditLogParseErrorf(base.lines, "change record has no DN")
	}
	if !sawNewRDN {
		return nil, auditLogParseErrorf(base.lines, "moddn change record has no newrdn")
	}
	if !sawDeleteOldRDN {
		return nil, auditLogParseErrorf(base.lines, "moddn change record has no deleteoldrdn")
	}
	return msg, nil
}

// AuditLogConfig configures an AuditLogReader. The zero value skips
// unparseable messages and logs them through slog.Default.
type AuditLogConfig struct {
	// Strict controls the handling of unparseable messages: when true the
	// reader stops and returns the parse error, when false it logs the
	// failure at debug level and skips to the next message.
	Strict bool

	// Logger receives skip notices in non-strict mode. Nil falls back to
	// slog.Default.
	Logger *slog.Logger
}

// AuditLogReader reads consecutive audit log messages from a stream.
// Messages are separated by blank lines. The reader holds no global state;
// all configuration is supplied explicitly.
type AuditLogReader struct {
	scanner *bufio.Scanner
	strict  bool
	logger  *slog.Logger
}

// NewAuditLogReader creates a reader over r. A nil config is equivalent to
// the zero value.
func NewAuditLogReader(r io.Reader, config *AuditLogConfig) *AuditLogReader {
	if config == nil {
		config = &AuditLogConfig{}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogReader{
		scanner: bufio.NewScanner(r),
		strict:  config.Strict,
		logger:  logger,
	}
}

// Read returns the next audit log message. It returns io.EOF when the
// stream is exhausted.
func (r *AuditLogReader) Read() (AuditLogMessage, error) {
	for {
		block, err := r.nextBlock()
		if err != nil {
			return nil, err
		}
		msg, parseErr := ParseAuditLogMessage(block)
		if parseErr == nil {
			return msg, nil
		}
		if r.strict {
			return nil, parseErr
		}
		r.logger.Debug("audit_log_message_skipped", slog.String("error", parseErr.Error()))
	}
}

// nextBlock collects lines until a blank-line separator or end of stream.
func (r *AuditLogReader) nextBlock() (string, error) {
	var lines []string
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if strings.TrimSpace(line) == "" {
			if len(lines) > 0 {
				return strings.Join(lines, "\n"), nil
			}
			continue
		}
		lines = append(lines, line)
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	if len(lines) > 0 {
		return strings.Join(lines, "\n"), nil
	}
	return "", io.EOF
}
