package ldapext

import (
	ber "github.com/go-asn1-ber/asn1-ber"

	"github.com/pingidentity/ldapsdk-sub006/internal/berutil"
)

// Context tags for the verify password request value. The password tag here
// belongs to this construct alone, independent of the passphrase tags other
// constructs assign.
const (
	verifyPasswordTagDN       ber.Tag = 0
	verifyPasswordTagPassword ber.Tag = 1
)

const verifyPasswordConstruct = "verify password extended request"

// VerifyPasswordExtendedRequest asks the server whether a password is
// correct for an entry without performing a bind or triggering password
// policy side effects. Instances are immutable.
type VerifyPasswordExtendedRequest struct {
	dn       string
	password *OctetString
}

// NewVerifyPasswordExtendedRequest creates a request verifying the given
// password string for the entry with the given DN. Both must be non-empty.
func NewVerifyPasswordExtendedRequest(dn, password string) (*VerifyPasswordExtendedRequest, error) {
	return newVerifyPasswordRequest(dn, NewOctetStringFromString(password))
}

// NewVerifyPasswordExtendedRequestFromBytes creates a request from the raw
// password bytes. The encoding is identical to providing the equivalent
// string.
func NewVerifyPasswordExtendedRequestFromBytes(dn string, password []byte) (*VerifyPasswordExtendedRequest, error) {
	return newVerifyPasswordRequest(dn, NewOctetString(password))
}

// NewVerifyPasswordExtendedRequestFromOctetString creates a request from a
// pre-built octet string wrapper. The encoding is identical to the string
// and byte forms.
func NewVerifyPasswordExtendedRequestFromOctetString(dn string, password *OctetString) (*VerifyPasswordExtendedRequest, error) {
	if password == nil {
		return nil, usageErrorf("password", nil, "must not be nil")
	}
	return newVerifyPasswordRequest(dn, password.Clone())
}

func newVerifyPasswordRequest(dn string, password *OctetString) (*VerifyPasswordExtendedRequest, error) {
	if ue := checkNonEmptyString("dn", dn); ue != nil {
		return nil, ue
	}
	if len(password.Bytes()) == 0 {
		return nil, usageErrorf("password", nil, "must not be empty")
	}
	return &VerifyPasswordExtendedRequest{dn: dn, password: password}, nil
}

// OID returns the request OID.
func (r *VerifyPasswordExtendedRequest) OID() string {
	return VerifyPasswordExtendedRequestOID
}

// DN returns the DN of the entry whose password is verified.
func (r *VerifyPasswordExtendedRequest) DN() string {
	return r.dn
}

// Password returns the password being verified.
func (r *VerifyPasswordExtendedRequest) Password() *OctetString {
	return r.password.Clone()
}

// ValueBytes returns the encoded request value.
func (r *VerifyPasswordExtendedRequest) ValueBytes() []byte {
	seq := berutil.NewSequence("Verify Password Request Value")
	seq.AppendChild(berutil.NewStringField(verifyPasswordTagDN, r.dn, "DN"))
	seq.AppendChild(r.password.encodeWithTag(verifyPasswordTagPassword, "Password"))
	return seq.Bytes()
}

// ExtendedRequest returns the generic envelope for transmission.
func (r *VerifyPasswordExtendedRequest) ExtendedRequest() *ExtendedRequest {
	return &ExtendedRequest{oid: VerifyPasswordExtendedRequestOID, value: r.ValueBytes()}
}

// DecodeVerifyPasswordExtendedRequest reconstructs a typed request from its
// generic envelope. Both fields are required.
func DecodeVerifyPasswordExtendedRequest(req *ExtendedRequest) (*VerifyPasswordExtendedRequest, error) {
	if req.oid != VerifyPasswordExtendedRequestOID {
		return nil, protocolErrorf(verifyPasswordConstruct, "unexpected OID %q", req.oid)
	}
	if req.value == nil {
		return nil, decodeErrorf(verifyPasswordConstruct, "request requires a value")
	}
	seq, err := berutil.DecodeSequence(req.value, verifyPasswordConstruct)
	if err != nil {
		return nil, wrapDecodeError(verifyPasswordConstruct, err, "malformed request value")
	}
	if len(seq.Children) != 2 {
		return nil, decodeErrorf(verifyPasswordConstruct, "expected exactly two elements, got %d", len(seq.Children))
	}
	if seq.Children[0].Tag != verifyPasswordTagDN {
		return nil, decodeErrorf(verifyPasswordConstruct, "unexpected tag %d for DN", seq.Children[0].Tag)
	}
	if seq.Children[1].Tag != verifyPasswordTagPassword {
		return nil, decodeErrorf(verifyPasswordConstruct, "unexpected tag %d for password", seq.Children[1].Tag)
	}

	dn := berutil.ParseString(seq.Children[0])
	if ue := checkNonEmptyString("dn", dn); ue != nil {
		return nil, wrapDecodeError(verifyPasswordConstruct, ue, "invalid DN")
	}
	password := berutil.ParseOctetString(seq.Children[1])
	if len(password) == 0 {
		return nil, decodeErrorf(verifyPasswordConstruct, "password must not be empty")
	}

	return &VerifyPasswordExtendedRequest{dn: dn, password: NewOctetString(password)}, nil
}
