package ldapext

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// UsageError reports an invalid argument supplied by the caller when
// configuring a properties object or constructing a control. It is raised
// eagerly at the call site that supplied the bad value, never deferred to
// encode time.
type UsageError struct {
	// Field is the logical field the bad argument was supplied for.
	Field string
	// Message describes the violated constraint.
	Message string
	// Value is the offending value, when one exists.
	Value interface{}
}

// Error implements the error interface.
func (e *UsageError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("ldapext: invalid value for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("ldapext: invalid argument: %s", e.Message)
}

// Is reports whether target is a UsageError for the same field. A target
// with an empty Field matches any usage error.
func (e *UsageError) Is(target error) bool {
	var other *UsageError
	if errors.As(target, &other) {
		return other.Field == "" || other.Field == e.Field
	}
	return false
}

func usageErrorf(field string, value interface{}, format string, args ...interface{}) *UsageError {
	return &UsageError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
		Value:   value,
	}
}

// DecodeError reports that externally supplied bytes or JSON could not be
// decoded into a protocol value object. It carries an LDAP result code so
// callers can distinguish malformed payloads from protocol-level problems.
type DecodeError struct {
	// Construct names the control or extended operation being decoded.
	Construct string
	// ResultCode classifies the failure using the go-ldap result code
	// taxonomy, typically LDAPResultDecodingError.
	ResultCode uint16
	// Message describes what was wrong with the input.
	Message string
	// Err is the underlying structural error, if any.
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("ldapext: unable to decode %s: %s", e.Construct, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap implements the Go 1.13+ error unwrapping interface.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DecodeError with the same result code. A
// target with a zero result code matches any decode error.
func (e *DecodeError) Is(target error) bool {
	var other *DecodeError
	if errors.As(target, &other) {
		return other.ResultCode == 0 || other.ResultCode == e.ResultCode
	}
	return errors.Is(e.Err, target)
}

func decodeErrorf(construct string, format string, args ...interface{}) *DecodeError {
	return &DecodeError{
		Construct:  construct,
		ResultCode: uint16(ldap.LDAPResultDecodingError),
		Message:    fmt.Sprintf(format, args...),
	}
}

func wrapDecodeError(construct string, err error, format string, args ...interface{}) *DecodeError {
	return &DecodeError{
		Construct:  construct,
		ResultCode: uint16(ldap.LDAPResultDecodingError),
		Message:    fmt.Sprintf(format, args...),
		Err:        err,
	}
}

func protocolErrorf(construct string, format string, args ...interface{}) *DecodeError {
	return &DecodeError{
		Construct:  construct,
		ResultCode: uint16(ldap.LDAPResultProtocolError),
		Message:    fmt.Sprintf(format, args...),
	}
}

// AuditLogParseError reports a malformed audit log header or body. It
// retains the offending lines so callers can log or replay the input that
// failed.
type AuditLogParseError struct {
	// Lines holds the log message lines that failed to parse.
	Lines []string
	// Message describes the cause.
	Message string
	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *AuditLogParseError) Error() string {
	msg := "ldapext: unable to parse audit log message: " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if len(e.Lines) > 0 {
		msg += " (line: " + strings.TrimSpace(e.Lines[0]) + ")"
	}
	return msg
}

// Unwrap implements error unwrapping.
func (e *AuditLogParseError) Unwrap() error {
	return e.Err
}

func auditLogParseErrorf(lines []string, format string, args ...interface{}) *AuditLogParseError {
	return &AuditLogParseError{
		Lines:   lines,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsUsageError reports whether err is (or wraps) a UsageError.
func IsUsageError(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}

// IsDecodeError reports whether err is (or wraps) a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// IsAuditLogParseError reports whether err is (or wraps) an
// AuditLogParseError.
func IsAuditLogParseError(err error) bool {
	var pe *AuditLogParseError
	return errors.As(err, &pe)
}

// DecodeResultCode extracts the result code classification from a decode
// error. Returns -1 when err carries no result code.
func DecodeResultCode(err error) int {
	var de *DecodeError
	if errors.As(err, &de) {
		return int(de.ResultCode)
	}
	return -1
}
