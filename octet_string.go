package ldapext

import (
	ber "github.com/go-asn1-ber/asn1-ber"

	"github.com/pingidentity/ldapsdk-sub006/internal/berutil"
)

// OctetString wraps an opaque byte sequence destined for a tagged octet
// string field, typically a passphrase or password. A value built from a
// string, from its UTF-8 bytes, or passed through pre-built always encodes
// to identical wire bytes; the tag is supplied by the construct that embeds
// the value, never by the wrapper itself.
type OctetString struct {
	data []byte
}

// NewOctetString creates an octet string holding a copy of data. A nil slice
// is stored as an empty value.
func NewOctetString(data []byte) *OctetString {
	if data == nil {
		data = []byte{}
	}
	return &OctetString{data: append([]byte(nil), data...)}
}

// NewOctetStringFromString creates an octet string holding the UTF-8 bytes
// of s.
func NewOctetStringFromString(s string) *OctetString {
	return &OctetString{data: []byte(s)}
}

// Bytes returns a copy of the wrapped bytes.
func (o *OctetString) Bytes() []byte {
	return append([]byte(nil), o.data...)
}

// StringValue returns the wrapped bytes interpreted as a UTF-8 string.
func (o *OctetString) StringValue() string {
	return string(o.data)
}

// Clone returns an independent copy of the octet string.
func (o *OctetString) Clone() *OctetString {
	if o == nil {
		return nil
	}
	return &OctetString{data: append([]byte(nil), o.data...)}
}

// encodeWithTag returns the wrapped bytes as a primitive element carrying
// the context tag the embedding construct assigns.
func (o *OctetString) encodeWithTag(tag ber.Tag, description string) *ber.Packet {
	return berutil.NewOctetStringField(tag, o.data, description)
}
