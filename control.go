package ldapext

import (
	ber "github.com/go-asn1-ber/asn1-ber"
	"github.com/go-ldap/ldap/v3"
)

// OIDs of the request controls implemented by this package.
const (
	// TransactionSettingsRequestControlOID identifies the transaction
	// settings request control.
	TransactionSettingsRequestControlOID = "1.3.6.1.4.1.30221.2.5.38"

	// PasswordUpdateBehaviorRequestControlOID identifies the password update
	// behavior request control.
	PasswordUpdateBehaviorRequestControlOID = "1.3.6.1.4.1.30221.2.5.51"

	// GenerateAccessTokenRequestControlOID identifies the generate access
	// token request control.
	GenerateAccessTokenRequestControlOID = "1.3.6.1.4.1.30221.2.5.67"
)

// controlNames maps control OIDs to their stable human-readable names, as
// used in string output and the JSON control representation.
var controlNames = map[string]string{
	TransactionSettingsRequestControlOID:    "Transaction Settings Request Control",
	PasswordUpdateBehaviorRequestControlOID: "Password Update Behavior Request Control",
	GenerateAccessTokenRequestControlOID:    "Generate Access Token Request Control",
}

// ControlNameForOID returns the human-readable name for one of this
// package's control OIDs, or the OID itself when unrecognized.
func ControlNameForOID(oid string) string {
	if name, ok := controlNames[oid]; ok {
		return name
	}
	return oid
}

// Control is implemented by every typed control in this package. It extends
// go-ldap's control interface with access to the control's name and raw
// encoded value so controls can be re-encoded, inspected, or projected to
// JSON without another decode pass.
type Control interface {
	ldap.Control

	// ControlName returns the stable human-readable control name.
	ControlName() string

	// HasValue reports whether the control carries an encoded value.
	HasValue() bool

	// ValueBytes returns the encoded control value, or nil when the control
	// carries none.
	ValueBytes() []byte
}

// encodeControlPacket builds the standard control envelope: the OID, the
// criticality when true (DEFAULT FALSE is omitted per RFC 4511), and the
// value wrapped in an octet string when present.
func encodeControlPacket(oid string, criticality bool, value []byte) *ber.Packet {
	packet := ber.Encode(ber.ClassUniversal, ber.TypeConstructed, ber.TagSequence, nil, "Control")
	packet.AppendChild(ber.NewString(ber.ClassUniversal, ber.TypePrimitive, ber.TagOctetString, oid, "Control Type ("+ControlNameForOID(oid)+")"))
	if criticality {
		packet.AppendChild(ber.NewBoolean(ber.ClassUniversal, ber.TypePrimitive, ber.TagBoolean, true, "Criticality"))
	}
	if value != nil {
		p := ber.Encode(ber.ClassUniversal, ber.TypePrimitive, ber.TagOctetString, nil, "Control Value")
		p.Data.Write(value)
		packet.AppendChild(p)
	}
	return packet
}

// DecodeControl reconstructs a typed control from the generic OID,
// criticality, and raw value triple a server or message parser hands back.
// A nil value means the control carried no value; a non-nil empty slice is a
// present, zero-length value and is validated as such. The value is fully
// validated; a nil control is never returned alongside a nil error.
// Unrecognized OIDs fail with a protocol-classified DecodeError.
func DecodeControl(oid string, criticality bool, value []byte) (Control, error) {
	switch oid {
	case TransactionSettingsRequestControlOID:
		return DecodeTransactionSettingsRequestControl(criticality, value)
	case PasswordUpdateBehaviorRequestControlOID:
		return DecodePasswordUpdateBehaviorRequestControl(criticality, value)
	case GenerateAccessTokenRequestControlOID:
		return DecodeGenerateAccessTokenRequestControl(criticality, value)
	default:
		return nil, protocolErrorf("control", "unrecognized control OID %q", oid)
	}
}

// FromLDAPControl converts a generic go-ldap control into one of this
// package's typed controls. Only *ldap.ControlString is accepted; go-ldap
// represents an absent value and an empty value identically there, so an
// empty value string is treated as no value. Callers that must distinguish
// a present zero-length value from an absent one should decode from the raw
// triple with DecodeControl instead.
func FromLDAPControl(c ldap.Control) (Control, error) {
	cs, ok := c.(*ldap.ControlString)
	if !ok {
		return nil, protocolErrorf("control", "cannot convert %T, expected *ldap.ControlString", c)
	}
	var value []byte
	if cs.ControlValue != "" {
		value = []byte(cs.ControlValue)
	}
	return DecodeControl(cs.ControlType, cs.Criticality, value)
}
