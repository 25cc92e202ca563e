package ldapext

import (
	ber "github.com/go-asn1-ber/asn1-ber"
)

// LDAPv3 application tags and envelope field tags for extended operations.
const (
	applicationTagExtendedRequest  ber.Tag = 23
	applicationTagExtendedResponse ber.Tag = 24

	extendedRequestTagName  ber.Tag = 0
	extendedRequestTagValue ber.Tag = 1

	ldapResultTagReferral     ber.Tag = 3
	extendedResponseTagName   ber.Tag = 10
	extendedResponseTagValue  ber.Tag = 11
)

// OIDs of the extended operations implemented by this package.
const (
	// StartInteractiveTransactionExtendedRequestOID identifies the start
	// interactive transaction extended request.
	StartInteractiveTransactionExtendedRequestOID = "1.3.6.1.4.1.30221.2.6.3"

	// EndInteractiveTransactionExtendedRequestOID identifies the end
	// interactive transaction extended request.
	EndInteractiveTransactionExtendedRequestOID = "1.3.6.1.4.1.30221.2.6.4"

	// IdentifyBackupCompatibilityProblemsExtendedResultOID identifies the
	// identify backup compatibility problems extended result.
	IdentifyBackupCompatibilityProblemsExtendedResultOID = "1.3.6.1.4.1.30221.2.6.33"

	// CollectSupportDataExtendedRequestOID identifies the collect support
	// data extended request.
	CollectSupportDataExtendedRequestOID = "1.3.6.1.4.1.30221.2.6.64"

	// VerifyPasswordExtendedRequestOID identifies the verify password
	// extended request.
	VerifyPasswordExtendedRequestOID = "1.3.6.1.4.1.30221.2.6.72"
)

// ExtendedRequest is the generic envelope of an LDAPv3 extended request: an
// OID naming the operation and an optional opaque value. Typed requests in
// this package produce and consume this envelope.
type ExtendedRequest struct {
	oid   string
	value []byte
}

// NewExtendedRequest creates a generic extended request envelope. The OID
// must not be empty; a nil value means the request carries none.
func NewExtendedRequest(oid string, value []byte) (*ExtendedRequest, error) {
	if ue := checkNonEmptyString("oid", oid); ue != nil {
		return nil, ue
	}
	return &ExtendedRequest{oid: oid, value: copyByteSlice(value)}, nil
}

// OID returns the request OID.
func (r *ExtendedRequest) OID() string {
	return r.oid
}

// HasValue reports whether the request carries a value.
func (r *ExtendedRequest) HasValue() bool {
	return r.value != nil
}

// ValueBytes returns the raw request value, or nil when absent.
func (r *ExtendedRequest) ValueBytes() []byte {
	return copyByteSlice(r.value)
}

// Encode returns the BER packet representation, the [APPLICATION 23]
// sequence defined by RFC 4511.
func (r *ExtendedRequest) Encode() *ber.Packet {
	p := ber.Encode(ber.ClassApplication, ber.TypeConstructed, applicationTagExtendedRequest, nil, "Extended Request")
	p.AppendChild(ber.NewString(ber.ClassContext, ber.TypePrimitive, extendedRequestTagName, r.oid, "Request Name"))
	if r.value != nil {
		v := ber.Encode(ber.ClassContext, ber.TypePrimitive, extendedRequestTagValue, nil, "Request Value")
		v.Data.Write(r.value)
		p.AppendChild(v)
	}
	return p
}

// DecodeExtendedRequest reconstructs a generic extended request envelope
// from its BER packet.
func DecodeExtendedRequest(p *ber.Packet) (*ExtendedRequest, error) {
	const construct = "extended request"
	if p.ClassType != ber.ClassApplication || p.Tag != applicationTagExtendedRequest {
		return nil, protocolErrorf(construct, "expected application tag %d, got class %d tag %d", applicationTagExtendedRequest, p.ClassType, p.Tag)
	}
	if len(p.Children) < 1 || len(p.Children) > 2 {
		return nil, decodeErrorf(construct, "expected one or two elements, got %d", len(p.Children))
	}
	if p.Children[0].Tag != extendedRequestTagName {
		return nil, decodeErrorf(construct, "unexpected tag %d for request name", p.Children[0].Tag)
	}
	req := &ExtendedRequest{oid: string(p.Children[0].Data.Bytes())}
	if req.oid == "" {
		return nil, decodeErrorf(construct, "request name must not be empty")
	}
	if len(p.Children) == 2 {
		if p.Children[1].Tag != extendedRequestTagValue {
			return nil, decodeErrorf(construct, "unexpected tag %d for request value", p.Children[1].Tag)
		}
		req.value = append([]byte(nil), p.Children[1].Data.Bytes()...)
	}
	return req, nil
}

// ExtendedResult is the generic envelope of an LDAPv3 extended result: the
// standard LDAP result fields plus an optional OID and opaque value.
type ExtendedResult struct {
	resultCode        uint16
	diagnosticMessage string
	matchedDN         string
	referralURLs      []string
	oid               string
	value             []byte
}

// NewExtendedResult creates a generic extended result envelope. An empty OID
// means the result names no operation; a nil value means it carries none.
func NewExtendedResult(resultCode uint16, diagnosticMessage, matchedDN string, referralURLs []string, oid string, value []byte) *ExtendedResult {
	return &ExtendedResult{
		resultCode:        resultCode,
		diagnosticMessage: diagnosticMessage,
		matchedDN:         matchedDN,
		referralURLs:      copyStringSlice(referralURLs),
		oid:               oid,
		value:             copyByteSlice(value),
	}
}

// ResultCode returns the LDAP result code.
func (r *ExtendedResult) ResultCode() uint16 {
	return r.resultCode
}

// DiagnosticMessage returns the diagnostic message, possibly empty.
func (r *ExtendedResult) DiagnosticMessage() string {
	return r.diagnosticMessage
}

// MatchedDN returns the matched DN, possibly empty.
func (r *ExtendedResult) MatchedDN() string {
	return r.matchedDN
}

// ReferralURLs returns the referral URLs, possibly empty.
func (r *ExtendedResult) ReferralURLs() []string {
	return copyStringSlice(r.referralURLs)
}

// OID returns the result OID, or the empty string when absent.
func (r *ExtendedResult) OID() string {
	return r.oid
}

// HasValue reports whether the result carries a value.
func (r *ExtendedResult) HasValue() bool {
	return r.value != nil
}

// ValueBytes returns the raw result value, or nil when absent.
func (r *ExtendedResult) ValueBytes() []byte {
	return copyByteSlice(r.value)
}

// Encode returns the BER packet representation, the [APPLICATION 24]
// sequence defined by RFC 4511. The referral, name, and value elements are
// omitted when absent.
func (r *ExtendedResult) Encode() *ber.Packet {
	p := ber.Encode(ber.ClassApplication, ber.TypeConstructed, applicationTagExtendedResponse, nil, "Extended Response")
	p.AppendChild(ber.NewInteger(ber.ClassUniversal, ber.TypePrimitive, ber.TagEnumerated, int(r.resultCode), "Result Code"))
	p.AppendChild(ber.NewString(ber.ClassUniversal, ber.TypePrimitive, ber.TagOctetString, r.matchedDN, "Matched DN"))
	p.AppendChild(ber.NewString(ber.ClassUniversal, ber.TypePrimitive, ber.TagOctetString, r.diagnosticMessage, "Diagnostic Message"))
	if len(r.referralURLs) > 0 {
		refs := ber.Encode(ber.ClassContext, ber.TypeConstructed, ldapResultTagReferral, nil, "Referral")
		for _, url := range r.referralURLs {
			refs.AppendChild(ber.NewString(ber.ClassUniversal, ber.TypePrimitive, ber.TagOctetString, url, "Referral URL"))
		}
		p.AppendChild(refs)
	}
	if r.oid != "" {
		p.AppendChild(ber.NewString(ber.ClassContext, ber.TypePrimitive, extendedResponseTagName, r.oid, "Response Name"))
	}
	if r.value != nil {
		v := ber.Encode(ber.ClassContext, ber.TypePrimitive, extendedResponseTagValue, nil, "Response Value")
		v.Data.Write(r.value)
		p.AppendChild(v)
	}
	return p
}

// DecodeExtendedResult reconstructs a generic extended result envelope from
// its BER packet.
func DecodeExtendedResult(p *ber.Packet) (*ExtendedResult, error) {
	const construct = "extended result"
	if p.ClassType != ber.ClassApplication || p.Tag != applicationTagExtendedResponse {
		return nil, protocolErrorf(construct, "expected application tag %d, got class %d tag %d", applicationTagExtendedResponse, p.ClassType, p.Tag)
	}
	if len(p.Children) < 3 {
		return nil, decodeErrorf(construct, "expected at least three elements, got %d", len(p.Children))
	}
	if p.Children[0].ClassType != ber.ClassUniversal || p.Children[0].Tag != ber.TagEnumerated {
		return nil, decodeErrorf(construct, "result code element has class %d tag %d, expected enumerated", p.Children[0].ClassType, p.Children[0].Tag)
	}
	for i := 1; i <= 2; i++ {
		if p.Children[i].ClassType != ber.ClassUniversal || p.Children[i].Tag != ber.TagOctetString {
			return nil, decodeErrorf(construct, "envelope element %d has class %d tag %d, expected octet string", i, p.Children[i].ClassType, p.Children[i].Tag)
		}
	}

	code, err := ber.ParseInt64(p.Children[0].Data.Bytes())
	if err != nil || len(p.Children[0].Data.Bytes()) == 0 {
		return nil, decodeErrorf(construct, "malformed result code")
	}
	if code < 0 || code > 65535 {
		return nil, decodeErrorf(construct, "result code %d out of range", code)
	}

	result := &ExtendedResult{
		resultCode:        uint16(code),
		matchedDN:         string(p.Children[1].Data.Bytes()),
		diagnosticMessage: string(p.Children[2].Data.Bytes()),
	}

	for _, child := range p.Children[3:] {
		if child.ClassType != ber.ClassContext {
			return nil, decodeErrorf(construct, "unexpected class %d tag %d in extended result", child.ClassType, child.Tag)
		}
		switch child.Tag {
		case ldapResultTagReferral:
			for _, ref := range child.Children {
				result.referralURLs = append(result.referralURLs, string(ref.Data.Bytes()))
			}
		case extendedResponseTagName:
			result.oid = string(child.Data.Bytes())
		case extendedResponseTagValue:
			result.value = append([]byte(nil), child.Data.Bytes()...)
		default:
			return nil, decodeErrorf(construct, "unexpected tag %d in extended result", child.Tag)
		}
	}
	return result, nil
}
