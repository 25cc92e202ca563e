package ldapext

import (
	ber "github.com/go-asn1-ber/asn1-ber"

	"github.com/pingidentity/ldapsdk-sub006/internal/berutil"
)

// Context tags for the identify backup compatibility problems result value.
const (
	backupCompatTagErrors   ber.Tag = 0
	backupCompatTagWarnings ber.Tag = 1
)

const backupCompatConstruct = "identify backup compatibility problems extended result"

// IdentifyBackupCompatibilityProblemsExtendedResult reports the errors and
// warnings the server found when comparing backup compatibility data. An
// absent value means no problems were identified.
type IdentifyBackupCompatibilityProblemsExtendedResult struct {
	result   *ExtendedResult
	errors   []string
	warnings []string
}

// NewIdentifyBackupCompatibilityProblemsExtendedResult builds the typed
// result. Empty messages are rejected; empty slices are permitted and, when
// both are empty, the result carries no value.
func NewIdentifyBackupCompatibilityProblemsExtendedResult(resultCode uint16, diagnosticMessage, matchedDN string, referralURLs []string, errorMessages, warningMessages []string) (*IdentifyBackupCompatibilityProblemsExtendedResult, error) {
	for _, msg := range errorMessages {
		if ue := checkNonEmptyString("errorMessages", msg); ue != nil {
			return nil, ue
		}
	}
	for _, msg := range warningMessages {
		if ue := checkNonEmptyString("warningMessages", msg); ue != nil {
			return nil, ue
		}
	}
	r := &IdentifyBackupCompatibilityProblemsExtendedResult{
		errors:   copyStringSlice(errorMessages),
		warnings: copyStringSlice(warningMessages),
	}
	var oid string
	var value []byte
	if len(r.errors) > 0 || len(r.warnings) > 0 {
		oid = IdentifyBackupCompatibilityProblemsExtendedResultOID
		value = r.valueBytes()
	}
	r.result = NewExtendedResult(resultCode, diagnosticMessage, matchedDN, referralURLs, oid, value)
	return r, nil
}

// Result returns the generic extended result envelope.
func (r *IdentifyBackupCompatibilityProblemsExtendedResult) Result() *ExtendedResult {
	return r.result
}

// ErrorMessages returns the compatibility errors, possibly empty.
func (r *IdentifyBackupCompatibilityProblemsExtendedResult) ErrorMessages() []string {
	return copyStringSlice(r.errors)
}

// WarningMessages returns the compatibility warnings, possibly empty.
func (r *IdentifyBackupCompatibilityProblemsExtendedResult) WarningMessages() []string {
	return copyStringSlice(r.warnings)
}

func (r *IdentifyBackupCompatibilityProblemsExtendedResult) valueBytes() []byte {
	seq := berutil.NewSequence("Identify Backup Compatibility Problems Result Value")
	if len(r.errors) > 0 {
		errs := berutil.NewContextSequence(backupCompatTagErrors, "Errors")
		for _, msg := range r.errors {
			errs.AppendChild(ber.NewString(ber.ClassUniversal, ber.TypePrimitive, ber.TagOctetString, msg, "Error Message"))
		}
		seq.AppendChild(errs)
	}
	if len(r.warnings) > 0 {
		warns := berutil.NewContextSequence(backupCompatTagWarnings, "Warnings")
		for _, msg := range r.warnings {
			warns.AppendChild(ber.NewString(ber.ClassUniversal, ber.TypePrimitive, ber.TagOctetString, msg, "Warning Message"))
		}
		seq.AppendChild(warns)
	}
	return seq.Bytes()
}

// DecodeIdentifyBackupCompatibilityProblemsExtendedResult reconstructs the
// typed result from a generic envelope. An absent value decodes to a result
// with no errors and no warnings.
func DecodeIdentifyBackupCompatibilityProblemsExtendedResult(result *ExtendedResult) (*IdentifyBackupCompatibilityProblemsExtendedResult, error) {
	typed := &IdentifyBackupCompatibilityProblemsExtendedResult{result: result}
	if result.value == nil {
		return typed, nil
	}

	seq, err := berutil.DecodeSequence(result.value, backupCompatConstruct)
	if err != nil {
		return nil, wrapDecodeError(backupCompatConstruct, err, "malformed result value")
	}

	lastTag := ber.Tag(0)
	sawField := false
	for _, child := range seq.Children {
		if sawField && child.Tag <= lastTag {
			return nil, decodeErrorf(backupCompatConstruct, "field with tag %d out of canonical order", child.Tag)
		}
		lastTag, sawField = child.Tag, true

		var target *[]string
		switch child.Tag {
		case backupCompatTagErrors:
			target = &typed.errors
		case backupCompatTagWarnings:
			target = &typed.warnings
		default:
			return nil, decodeErrorf(backupCompatConstruct, "unexpected tag %d in result value", child.Tag)
		}

		if err := berutil.RequireConstructed(child); err != nil {
			return nil, wrapDecodeError(backupCompatConstruct, err, "malformed message list")
		}
		messages := make([]string, 0, len(child.Children))
		for _, msg := range child.Children {
			if msg.ClassType != ber.ClassUniversal || msg.Tag != ber.TagOctetString {
				return nil, decodeErrorf(backupCompatConstruct, "unexpected element with tag %d in message list", msg.Tag)
			}
			text := berutil.ParseString(msg)
			if text == "" {
				return nil, decodeErrorf(backupCompatConstruct, "empty message in list")
			}
			messages = append(messages, text)
		}
		*target = messages
	}

	return typed, nil
}
