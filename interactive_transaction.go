package ldapext

import (
	ber "github.com/go-asn1-ber/asn1-ber"

	"github.com/pingidentity/ldapsdk-sub006/internal/berutil"
)

// Context tags for the interactive transaction request and result values.
const (
	startTxnTagBaseDN ber.Tag = 0

	startTxnResultTagTransactionID ber.Tag = 0
	startTxnResultTagBaseDNs       ber.Tag = 1

	endTxnTagTransactionID ber.Tag = 0
	endTxnTagCommit        ber.Tag = 1
)

const (
	startTxnConstruct       = "start interactive transaction extended request"
	startTxnResultConstruct = "start interactive transaction extended result"
	endTxnConstruct         = "end interactive transaction extended request"
)

// StartInteractiveTransactionExtendedRequest begins an interactive
// transaction, optionally scoped to a base DN.
type StartInteractiveTransactionExtendedRequest struct {
	baseDN *string
}

// NewStartInteractiveTransactionExtendedRequest creates the request. A nil
// baseDN leaves the transaction unscoped; a provided baseDN must be
// non-empty.
func NewStartInteractiveTransactionExtendedRequest(baseDN *string) (*StartInteractiveTransactionExtendedRequest, error) {
	if baseDN != nil {
		if ue := checkNonEmptyString("baseDN", *baseDN); ue != nil {
			return nil, ue
		}
	}
	return &StartInteractiveTransactionExtendedRequest{baseDN: copyStringPtr(baseDN)}, nil
}

// OID returns the request OID.
func (r *StartInteractiveTransactionExtendedRequest) OID() string {
	return StartInteractiveTransactionExtendedRequestOID
}

// BaseDN returns the base DN the transaction is scoped to, or nil when
// unscoped.
func (r *StartInteractiveTransactionExtendedRequest) BaseDN() *string {
	return copyStringPtr(r.baseDN)
}

// ValueBytes returns the encoded request value, or nil when the request has
// no base DN and therefore carries no value.
func (r *StartInteractiveTransactionExtendedRequest) ValueBytes() []byte {
	if r.baseDN == nil {
		return nil
	}
	seq := berutil.NewSequence("Start Interactive Transaction Request Value")
	seq.AppendChild(berutil.NewStringField(startTxnTagBaseDN, *r.baseDN, "Base DN"))
	return seq.Bytes()
}

// ExtendedRequest returns the generic envelope for transmission.
func (r *StartInteractiveTransactionExtendedRequest) ExtendedRequest() *ExtendedRequest {
	return &ExtendedRequest{oid: StartInteractiveTransactionExtendedRequestOID, value: r.ValueBytes()}
}

// DecodeStartInteractiveTransactionExtendedRequest reconstructs a typed
// request from its generic envelope. An absent value is valid and yields an
// unscoped transaction.
func DecodeStartInteractiveTransactionExtendedRequest(req *ExtendedRequest) (*StartInteractiveTransactionExtendedRequest, error) {
	if req.oid != StartInteractiveTransactionExtendedRequestOID {
		return nil, protocolErrorf(startTxnConstruct, "unexpected OID %q", req.oid)
	}
	if req.value == nil {
		return &StartInteractiveTransactionExtendedRequest{}, nil
	}
	seq, err := berutil.DecodeSequence(req.value, startTxnConstruct)
	if err != nil {
		return nil, wrapDecodeError(startTxnConstruct, err, "malformed request value")
	}
	result := &StartInteractiveTransactionExtendedRequest{}
	for _, child := range seq.Children {
		switch child.Tag {
		case startTxnTagBaseDN:
			if result.baseDN != nil {
				return nil, decodeErrorf(startTxnConstruct, "duplicate base DN element")
			}
			dn := berutil.ParseString(child)
			if ue := checkNonEmptyString("baseDN", dn); ue != nil {
				return nil, wrapDecodeError(startTxnConstruct, ue, "invalid base DN")
			}
			result.baseDN = &dn
		default:
			return nil, decodeErrorf(startTxnConstruct, "unexpected tag %d in request value", child.Tag)
		}
	}
	return result, nil
}

// StartInteractiveTransactionExtendedResult is the typed value of a
// successful start interactive transaction response: the server-assigned
// transaction ID and, optionally, the base DNs the transaction covers.
type StartInteractiveTransactionExtendedResult struct {
	result        *ExtendedResult
	transactionID *OctetString
	baseDNs       []string
}

// NewStartInteractiveTransactionExtendedResult builds the typed result for a
// transaction ID and optional base DN set, wrapping the standard result
// envelope fields.
func NewStartInteractiveTransactionExtendedResult(resultCode uint16, diagnosticMessage, matchedDN string, referralURLs []string, transactionID *OctetString, baseDNs []string) (*StartInteractiveTransactionExtendedResult, error) {
	if transactionID == nil {
		return nil, usageErrorf("transactionID", nil, "must not be nil")
	}
	r := &StartInteractiveTransactionExtendedResult{
		transactionID: transactionID.Clone(),
		baseDNs:       copyStringSlice(baseDNs),
	}
	r.result = NewExtendedResult(resultCode, diagnosticMessage, matchedDN, referralURLs,
		StartInteractiveTransactionExtendedRequestOID, r.valueBytes())
	return r, nil
}

// Result returns the generic extended result envelope.
func (r *StartInteractiveTransactionExtendedResult) Result() *ExtendedResult {
	return r.result
}

// TransactionID returns the server-assigned transaction ID.
func (r *StartInteractiveTransactionExtendedResult) TransactionID() *OctetString {
	return r.transactionID.Clone()
}

// BaseDNs returns the base DNs the transaction covers, or nil when the
// server reported none.
func (r *StartInteractiveTransactionExtendedResult) BaseDNs() []string {
	return copyStringSlice(r.baseDNs)
}

func (r *StartInteractiveTransactionExtendedResult) valueBytes() []byte {
	seq := berutil.NewSequence("Start Interactive Transaction Result Value")
	seq.AppendChild(r.transactionID.encodeWithTag(startTxnResultTagTransactionID, "Transaction ID"))
	if r.baseDNs != nil {
		dns := berutil.NewContextSequence(startTxnResultTagBaseDNs, "Base DNs")
		for _, dn := range r.baseDNs {
			dns.AppendChild(ber.NewString(ber.ClassUniversal, ber.TypePrimitive, ber.TagOctetString, dn, "Base DN"))
		}
		seq.AppendChild(dns)
	}
	return seq.Bytes()
}

// DecodeStartInteractiveTransactionExtendedResult reconstructs the typed
// result from a generic envelope. A successful result must carry a value
// holding the transaction ID.
func DecodeStartInteractiveTransactionExtendedResult(result *ExtendedResult) (*StartInteractiveTransactionExtendedResult, error) {
	if result.value == nil {
		return nil, decodeErrorf(startTxnResultConstruct, "result requires a value")
	}
	seq, err := berutil.DecodeSequence(result.value, startTxnResultConstruct)
	if err != nil {
		return nil, wrapDecodeError(startTxnResultConstruct, err, "malformed result value")
	}
	if len(seq.Children) < 1 || len(seq.Children) > 2 {
		return nil, decodeErrorf(startTxnResultConstruct, "expected one or two elements, got %d", len(seq.Children))
	}
	if seq.Children[0].Tag != startTxnResultTagTransactionID {
		return nil, decodeErrorf(startTxnResultConstruct, "unexpected tag %d for transaction ID", seq.Children[0].Tag)
	}
	txnID := berutil.ParseOctetString(seq.Children[0])
	if len(txnID) == 0 {
		return nil, decodeErrorf(startTxnResultConstruct, "transaction ID must not be empty")
	}

	typed := &StartInteractiveTransactionExtendedResult{
		result:        result,
		transactionID: NewOctetString(txnID),
	}
	if len(seq.Children) == 2 {
		dnsElement := seq.Children[1]
		if dnsElement.Tag != startTxnResultTagBaseDNs {
			return nil, decodeErrorf(startTxnResultConstruct, "unexpected tag %d for base DNs", dnsElement.Tag)
		}
		if err := berutil.RequireConstructed(dnsElement); err != nil {
			return nil, wrapDecodeError(startTxnResultConstruct, err, "malformed base DNs")
		}
		typed.baseDNs = make([]string, 0, len(dnsElement.Children))
		for _, child := range dnsElement.Children {
			if child.ClassType != ber.ClassUniversal || child.Tag != ber.TagOctetString {
				return nil, decodeErrorf(startTxnResultConstruct, "unexpected element with tag %d in base DN list", child.Tag)
			}
			typed.baseDNs = append(typed.baseDNs, berutil.ParseString(child))
		}
	}
	return typed, nil
}

// EndInteractiveTransactionExtendedRequest commits or aborts an interactive
// transaction.
type EndInteractiveTransactionExtendedRequest struct {
	transactionID *OctetString
	commit        bool
}

// NewEndInteractiveTransactionExtendedRequest creates the request. The
// transaction ID is required; commit selects between committing and
// aborting.
func NewEndInteractiveTransactionExtendedRequest(transactionID *OctetString, commit bool) (*EndInteractiveTransactionExtendedRequest, error) {
	if transactionID == nil {
		return nil, usageErrorf("transactionID", nil, "must not be nil")
	}
	if len(transactionID.Bytes()) == 0 {
		return nil, usageErrorf("transactionID", nil, "must not be empty")
	}
	return &EndInteractiveTransactionExtendedRequest{
		transactionID: transactionID.Clone(),
		commit:        commit,
	}, nil
}

// OID returns the request OID.
func (r *EndInteractiveTransactionExtendedRequest) OID() string {
	return EndInteractiveTransactionExtendedRequestOID
}

// TransactionID returns the transaction ID being ended.
func (r *EndInteractiveTransactionExtendedRequest) TransactionID() *OctetString {
	return r.transactionID.Clone()
}

// Commit reports whether the transaction is committed rather than aborted.
func (r *EndInteractiveTransactionExtendedRequest) Commit() bool {
	return r.commit
}

// ValueBytes returns the encoded request value. Commit defaults to true on
// the wire, so the commit element is emitted only for an abort.
func (r *EndInteractiveTransactionExtendedRequest) ValueBytes() []byte {
	seq := berutil.NewSequence("End Interactive Transaction Request Value")
	seq.AppendChild(r.transactionID.encodeWithTag(endTxnTagTransactionID, "Transaction ID"))
	if !r.commit {
		seq.AppendChild(berutil.NewBooleanField(endTxnTagCommit, false, "Commit"))
	}
	return seq.Bytes()
}

// ExtendedRequest returns the generic envelope for transmission.
func (r *EndInteractiveTransactionExtendedRequest) ExtendedRequest() *ExtendedRequest {
	return &ExtendedRequest{oid: EndInteractiveTransactionExtendedRequestOID, value: r.ValueBytes()}
}

// DecodeEndInteractiveTransactionExtendedRequest reconstructs a typed
// request from its generic envelope. An absent commit element means commit.
func DecodeEndInteractiveTransactionExtendedRequest(req *ExtendedRequest) (*EndInteractiveTransactionExtendedRequest, error) {
	if req.oid != EndInteractiveTransactionExtendedRequestOID {
		return nil, protocolErrorf(endTxnConstruct, "unexpected OID %q", req.oid)
	}
	if req.value == nil {
		return nil, decodeErrorf(endTxnConstruct, "request requires a value")
	}
	seq, err := berutil.DecodeSequence(req.value, endTxnConstruct)
	if err != nil {
		return nil, wrapDecodeError(endTxnConstruct, err, "malformed request value")
	}
	if len(seq.Children) < 1 || len(seq.Children) > 2 {
		return nil, decodeErrorf(endTxnConstruct, "expected one or two elements, got %d", len(seq.Children))
	}
	if seq.Children[0].Tag != endTxnTagTransactionID {
		return nil, decodeErrorf(endTxnConstruct, "unexpected tag %d for transaction ID", seq.Children[0].Tag)
	}
	txnID := berutil.ParseOctetString(seq.Children[0])
	if len(txnID) == 0 {
		return nil, decodeErrorf(endTxnConstruct, "transaction ID must not be empty")
	}

	commit := true
	if len(seq.Children) == 2 {
		if seq.Children[1].Tag != endTxnTagCommit {
			return nil, decodeErrorf(endTxnConstruct, "unexpected tag %d for commit flag", seq.Children[1].Tag)
		}
		commit, err = berutil.ParseBoolean(seq.Children[1])
		if err != nil {
			return nil, wrapDecodeError(endTxnConstruct, err, "malformed commit flag")
		}
	}

	return &EndInteractiveTransactionExtendedRequest{
		transactionID: NewOctetString(txnID),
		commit:        commit,
	}, nil
}
