// Package berutil provides tagged ASN.1 BER element construction and strict
// decoding helpers for LDAP control and extended operation values.
//
// Every protocol construct in this SDK lays out its value as a universal
// SEQUENCE whose children carry context-specific tags assigned by that
// construct. The constructors here accept the exact tag the construct
// defines, so sibling optional fields of the same underlying type remain
// distinguishable on the wire. The parse helpers are deliberately stricter
// than the underlying asn1-ber library: zero-length numeric payloads,
// oversized integers, and multi-byte booleans are rejected instead of being
// coerced to a value.
package berutil

import (
	"bytes"
	"fmt"

	ber "github.com/go-asn1-ber/asn1-ber"
)

// NewSequence returns an empty universal SEQUENCE packet to which field
// elements can be appended in canonical order.
func NewSequence(description string) *ber.Packet {
	return ber.Encode(ber.ClassUniversal, ber.TypeConstructed, ber.TagSequence, nil, description)
}

// NewContextSequence returns an empty constructed sequence carrying a
// context-specific tag, used for nested structures such as the scoped lock
// details inside the transaction settings value.
func NewContextSequence(tag ber.Tag, description string) *ber.Packet {
	return ber.Encode(ber.ClassContext, ber.TypeConstructed, tag, nil, description)
}

// NewStringField returns a context-tagged octet string holding the UTF-8
// bytes of s.
func NewStringField(tag ber.Tag, s string, description string) *ber.Packet {
	return ber.NewString(ber.ClassContext, ber.TypePrimitive, tag, s, description)
}

// NewOctetStringField returns a context-tagged octet string holding raw
// bytes. The byte slice is copied so later mutation of the caller's buffer
// does not affect an already built element.
func NewOctetStringField(tag ber.Tag, value []byte, description string) *ber.Packet {
	p := ber.Encode(ber.ClassContext, ber.TypePrimitive, tag, nil, description)
	p.Data.Write(value)
	p.Value = append([]byte(nil), value...)
	return p
}

// NewIntField returns a context-tagged integer in minimal two's-complement
// form.
func NewIntField(tag ber.Tag, value int, description string) *ber.Packet {
	return ber.NewInteger(ber.ClassContext, ber.TypePrimitive, tag, value, description)
}

// NewLongField returns a context-tagged 64-bit integer in minimal
// two's-complement form.
func NewLongField(tag ber.Tag, value int64, description string) *ber.Packet {
	return ber.NewInteger(ber.ClassContext, ber.TypePrimitive, tag, value, description)
}

// NewEnumeratedField returns a context-tagged enumerated value. The wire
// form is identical to an integer; the distinction is semantic.
func NewEnumeratedField(tag ber.Tag, value int, description string) *ber.Packet {
	return ber.NewInteger(ber.ClassContext, ber.TypePrimitive, tag, value, description)
}

// NewBooleanField returns a context-tagged boolean encoded as a single byte,
// 0xFF for true and 0x00 for false as LDAP's BER profile requires.
func NewBooleanField(tag ber.Tag, value bool, description string) *ber.Packet {
	p := ber.Encode(ber.ClassContext, ber.TypePrimitive, tag, nil, description)
	if value {
		p.Data.WriteByte(0xFF)
	} else {
		p.Data.WriteByte(0x00)
	}
	p.Value = value
	return p
}

// DecodeSequence parses value as a single universal SEQUENCE and returns the
// packet with its children populated. It fails when the bytes do not form a
// complete element, when trailing bytes follow the element, or when the
// outer element is not a universal constructed sequence.
func DecodeSequence(value []byte, description string) (*ber.Packet, error) {
	r := bytes.NewReader(value)
	p, err := ber.ReadPacket(r)
	if err != nil {
		return nil, fmt.Errorf("%s: malformed element: %w", description, err)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%s: %d trailing bytes after element", description, r.Len())
	}
	if p.ClassType != ber.ClassUniversal || p.TagType != ber.TypeConstructed || p.Tag != ber.TagSequence {
		return nil, fmt.Errorf("%s: expected universal sequence, got class %d tag %d", description, p.ClassType, p.Tag)
	}
	return p, nil
}

// ParseString returns the payload of a primitive element interpreted as a
// UTF-8 string.
func ParseString(p *ber.Packet) string {
	return string(p.Data.Bytes())
}

// ParseOctetString returns a copy of the raw payload of a primitive element.
func ParseOctetString(p *ber.Packet) []byte {
	return append([]byte(nil), p.Data.Bytes()...)
}

// ParseLong decodes a primitive element payload as a two's-complement
// integer of one to eight bytes.
func ParseLong(p *ber.Packet) (int64, error) {
	data := p.Data.Bytes()
	if len(data) == 0 {
		return 0, fmt.Errorf("%s: zero-length integer", p.Description)
	}
	v, err := ber.ParseInt64(data)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", p.Description, err)
	}
	return v, nil
}

// ParseInt decodes a primitive element payload as a two's-complement integer
// of one to four bytes.
func ParseInt(p *ber.Packet) (int, error) {
	data := p.Data.Bytes()
	if len(data) == 0 {
		return 0, fmt.Errorf("%s: zero-length integer", p.Description)
	}
	if len(data) > 4 {
		return 0, fmt.Errorf("%s: integer payload of %d bytes exceeds 32 bits", p.Description, len(data))
	}
	v, err := ber.ParseInt64(data)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", p.Description, err)
	}
	return int(v), nil
}

// ParseEnumerated decodes a primitive element payload as an enumerated
// ordinal. The wire form matches ParseInt; callers map the ordinal onto the
// construct's defined set and reject unknown values themselves.
func ParseEnumerated(p *ber.Packet) (int, error) {
	return ParseInt(p)
}

// ParseBoolean decodes a primitive element payload as a boolean. The payload
// must be exactly one byte; any nonzero byte is true.
func ParseBoolean(p *ber.Packet) (bool, error) {
	data := p.Data.Bytes()
	if len(data) != 1 {
		return false, fmt.Errorf("%s: boolean payload must be one byte, got %d", p.Description, len(data))
	}
	return data[0] != 0x00, nil
}

// RequireConstructed fails unless the element carries the constructed bit,
// used before descending into a nested sequence field.
func RequireConstructed(p *ber.Packet) error {
	if p.TagType != ber.TypeConstructed {
		return fmt.Errorf("%s: expected constructed element for tag %d", p.Description, p.Tag)
	}
	return nil
}

// RequirePrimitive fails when a field expected to hold a primitive payload
// carries the constructed bit.
func RequirePrimitive(p *ber.Packet) error {
	if p.TagType != ber.TypePrimitive {
		return fmt.Errorf("%s: expected primitive element for tag %d", p.Description, p.Tag)
	}
	return nil
}
