package ldapext

import (
	ber "github.com/go-asn1-ber/asn1-ber"

	"github.com/pingidentity/ldapsdk-sub006/internal/berutil"
)

// Context tags for the collect support data request value. The encryption
// passphrase tag here is authoritative for this construct only; related
// constructs assign their own tags for passphrase-like fields.
const (
	csdTagArchiveFileName             ber.Tag = 0
	csdTagEncryptionPassphrase        ber.Tag = 1
	csdTagIncludeExpensiveData        ber.Tag = 2
	csdTagIncludeReplicationStateDump ber.Tag = 3
	csdTagIncludeBinaryFiles          ber.Tag = 4
	csdTagUseSequentialMode           ber.Tag = 5
	csdTagSecurityLevel               ber.Tag = 6
	csdTagJStackCount                 ber.Tag = 7
	csdTagReportCount                 ber.Tag = 8
	csdTagReportIntervalSeconds       ber.Tag = 9
	csdTagLogDurationMillis           ber.Tag = 10
	csdTagComment                     ber.Tag = 11
	csdTagProxyToServerAddress        ber.Tag = 12
	csdTagProxyToServerPort           ber.Tag = 13
	csdTagMaximumFragmentSizeBytes    ber.Tag = 14
)

const csdConstruct = "collect support data extended request"

// CollectSupportDataSecurityLevel specifies how much sensitive content the
// generated support data archive may contain.
type CollectSupportDataSecurityLevel int

const (
	// SecurityLevelNone applies no sanitization to the archive.
	SecurityLevelNone CollectSupportDataSecurityLevel = 0

	// SecurityLevelObscureSecrets obscures secrets but retains most other
	// content.
	SecurityLevelObscureSecrets CollectSupportDataSecurityLevel = 1

	// SecurityLevelMaximum applies the most aggressive sanitization.
	SecurityLevelMaximum CollectSupportDataSecurityLevel = 2
)

// String returns the name of the security level.
func (l CollectSupportDataSecurityLevel) String() string {
	switch l {
	case SecurityLevelNone:
		return "none"
	case SecurityLevelObscureSecrets:
		return "obscure-secrets"
	case SecurityLevelMaximum:
		return "maximum"
	default:
		return "unknown"
	}
}

func securityLevelFromOrdinal(v int) (CollectSupportDataSecurityLevel, bool) {
	switch CollectSupportDataSecurityLevel(v) {
	case SecurityLevelNone, SecurityLevelObscureSecrets, SecurityLevelMaximum:
		return CollectSupportDataSecurityLevel(v), true
	default:
		return 0, false
	}
}

// CollectSupportDataExtendedRequestProperties collects the optional settings
// for a collect support data extended request. The zero value has no fields
// set. Setters validate eagerly and leave the properties unchanged on error;
// passing nil to a setter clears its field. Properties are not safe for
// concurrent mutation; the request constructor takes a deep snapshot.
type CollectSupportDataExtendedRequestProperties struct {
	archiveFileName             *string
	encryptionPassphrase        *OctetString
	includeExpensiveData        *bool
	includeReplicationStateDump *bool
	includeBinaryFiles          *bool
	useSequentialMode           *bool
	securityLevel               *CollectSupportDataSecurityLevel
	jstackCount                 *int
	reportCount                 *int
	reportIntervalSeconds       *int
	logDurationMillis           *int64
	comment                     *string
	proxyToServerAddress        *string
	proxyToServerPort           *int
	maximumFragmentSizeBytes    *int
}

// SetArchiveFileName sets or clears the name the server should use for the
// generated archive.
func (p *CollectSupportDataExtendedRequestProperties) SetArchiveFileName(name *string) {
	p.archiveFileName = copyStringPtr(name)
}

// SetEncryptionPassphrase sets or clears the passphrase used to encrypt the
// archive. The wrapper is copied.
func (p *CollectSupportDataExtendedRequestProperties) SetEncryptionPassphrase(passphrase *OctetString) {
	p.encryptionPassphrase = passphrase.Clone()
}

// SetEncryptionPassphraseString sets the passphrase from a string. The
// resulting encoding is identical to providing the string's UTF-8 bytes or a
// pre-built OctetString holding them.
func (p *CollectSupportDataExtendedRequestProperties) SetEncryptionPassphraseString(passphrase string) {
	p.encryptionPassphrase = NewOctetStringFromString(passphrase)
}

// SetEncryptionPassphraseBytes sets the passphrase from raw bytes.
func (p *CollectSupportDataExtendedRequestProperties) SetEncryptionPassphraseBytes(passphrase []byte) {
	p.encryptionPassphrase = NewOctetString(passphrase)
}

// SetIncludeExpensiveData sets or clears whether data that is expensive to
// gather is included.
func (p *CollectSupportDataExtendedRequestProperties) SetIncludeExpensiveData(v *bool) {
	p.includeExpensiveData = copyBoolPtr(v)
}

// SetIncludeReplicationStateDump sets or clears whether a replication state
// dump is included.
func (p *CollectSupportDataExtendedRequestProperties) SetIncludeReplicationStateDump(v *bool) {
	p.includeReplicationStateDump = copyBoolPtr(v)
}

// SetIncludeBinaryFiles sets or clears whether binary files are included.
func (p *CollectSupportDataExtendedRequestProperties) SetIncludeBinaryFiles(v *bool) {
	p.includeBinaryFiles = copyBoolPtr(v)
}

// SetUseSequentialMode sets or clears whether data is gathered sequentially
// rather than in parallel.
func (p *CollectSupportDataExtendedRequestProperties) SetUseSequentialMode(v *bool) {
	p.useSequentialMode = copyBoolPtr(v)
}

// SetSecurityLevel sets or clears the requested security level.
func (p *CollectSupportDataExtendedRequestProperties) SetSecurityLevel(level *CollectSupportDataSecurityLevel) error {
	if level != nil {
		if _, ok := securityLevelFromOrdinal(int(*level)); !ok {
			return usageErrorf("securityLevel", *level, "unrecognized security level value %d", int(*level))
		}
		v := *level
		p.securityLevel = &v
		return nil
	}
	p.securityLevel = nil
	return nil
}

// SetJStackCount sets or clears the number of thread stack dumps to capture.
// The count must not be negative; nil clears the field.
func (p *CollectSupportDataExtendedRequestProperties) SetJStackCount(count *int) error {
	if count != nil {
		if ue := checkNonNegativeInt("jstackCount", *count); ue != nil {
			return ue
		}
	}
	p.jstackCount = copyIntPtr(count)
	return nil
}

// SetReportCount sets or clears the number of intervals to capture for
// sampled statistics. The count must not be negative.
func (p *CollectSupportDataExtendedRequestProperties) SetReportCount(count *int) error {
	if count != nil {
		if ue := checkNonNegativeInt("reportCount", *count); ue != nil {
			return ue
		}
	}
	p.reportCount = copyIntPtr(count)
	return nil
}

// SetReportIntervalSeconds sets or clears the sampling interval. The
// interval must be greater than zero.
func (p *CollectSupportDataExtendedRequestProperties) SetReportIntervalSeconds(seconds *int) error {
	if seconds != nil {
		if ue := checkPositiveInt("reportIntervalSeconds", *seconds); ue != nil {
			return ue
		}
	}
	p.reportIntervalSeconds = copyIntPtr(seconds)
	return nil
}

// SetLogDurationMillis sets or clears the duration of log content to
// capture. The duration must be greater than zero.
func (p *CollectSupportDataExtendedRequestProperties) SetLogDurationMillis(millis *int64) error {
	if millis != nil {
		if *millis <= 0 {
			return usageErrorf("logDurationMillis", *millis, "must be greater than zero, got %d", *millis)
		}
	}
	p.logDurationMillis = copyLongPtr(millis)
	return nil
}

// SetComment sets or clears a comment to include in the archive.
func (p *CollectSupportDataExtendedRequestProperties) SetComment(comment *string) {
	p.comment = copyStringPtr(comment)
}

// SetProxyToServer sets or clears the backend server the request should be
// forwarded to. Address and port must be provided together: a non-empty
// address with a port between 1 and 65535, or nil for both to clear.
func (p *CollectSupportDataExtendedRequestProperties) SetProxyToServer(address *string, port *int) error {
	if ue := checkHostPort("proxyToServerAddress", "proxyToServerPort", address, port); ue != nil {
		return ue
	}
	p.proxyToServerAddress = copyStringPtr(address)
	p.proxyToServerPort = copyIntPtr(port)
	return nil
}

// SetMaximumFragmentSizeBytes sets or clears the maximum size of each
// archive fragment returned in intermediate responses. The size must be
// greater than zero; zero is rejected.
func (p *CollectSupportDataExtendedRequestProperties) SetMaximumFragmentSizeBytes(size *int) error {
	if size != nil {
		if ue := checkPositiveInt("maximumFragmentSizeBytes", *size); ue != nil {
			return ue
		}
	}
	p.maximumFragmentSizeBytes = copyIntPtr(size)
	return nil
}

// Clone returns an independent deep copy of the properties.
func (p *CollectSupportDataExtendedRequestProperties) Clone() *CollectSupportDataExtendedRequestProperties {
	if p == nil {
		return &CollectSupportDataExtendedRequestProperties{}
	}
	c := &CollectSupportDataExtendedRequestProperties{
		archiveFileName:             copyStringPtr(p.archiveFileName),
		encryptionPassphrase:        p.encryptionPassphrase.Clone(),
		includeExpensiveData:        copyBoolPtr(p.includeExpensiveData),
		includeReplicationStateDump: copyBoolPtr(p.includeReplicationStateDump),
		includeBinaryFiles:          copyBoolPtr(p.includeBinaryFiles),
		useSequentialMode:           copyBoolPtr(p.useSequentialMode),
		jstackCount:                 copyIntPtr(p.jstackCount),
		reportCount:                 copyIntPtr(p.reportCount),
		reportIntervalSeconds:       copyIntPtr(p.reportIntervalSeconds),
		logDurationMillis:           copyLongPtr(p.logDurationMillis),
		comment:                     copyStringPtr(p.comment),
		proxyToServerAddress:        copyStringPtr(p.proxyToServerAddress),
		proxyToServerPort:           copyIntPtr(p.proxyToServerPort),
		maximumFragmentSizeBytes:    copyIntPtr(p.maximumFragmentSizeBytes),
	}
	if p.securityLevel != nil {
		v := *p.securityLevel
		c.securityLevel = &v
	}
	return c
}

// CollectSupportDataExtendedRequest asks the server to gather a support data
// archive and stream it back. Instances are immutable snapshots of the
// properties they were built from.
type CollectSupportDataExtendedRequest struct {
	props *CollectSupportDataExtendedRequestProperties
}

// NewCollectSupportDataExtendedRequest creates a request from the given
// properties. The properties are deep-copied; a nil props yields a request
// with no fields set.
func NewCollectSupportDataExtendedRequest(props *CollectSupportDataExtendedRequestProperties) *CollectSupportDataExtendedRequest {
	return &CollectSupportDataExtendedRequest{props: props.Clone()}
}

// OID returns the request OID.
func (r *CollectSupportDataExtendedRequest) OID() string {
	return CollectSupportDataExtendedRequestOID
}

// ArchiveFileName returns the archive file name, or nil when unset.
func (r *CollectSupportDataExtendedRequest) ArchiveFileName() *string {
	return copyStringPtr(r.props.archiveFileName)
}

// EncryptionPassphrase returns the encryption passphrase, or nil when unset.
func (r *CollectSupportDataExtendedRequest) EncryptionPassphrase() *OctetString {
	return r.props.encryptionPassphrase.Clone()
}

// IncludeExpensiveData returns the expensive data flag, or nil when unset.
func (r *CollectSupportDataExtendedRequest) IncludeExpensiveData() *bool {
	return copyBoolPtr(r.props.includeExpensiveData)
}

// IncludeReplicationStateDump returns the replication state dump flag, or
// nil when unset.
func (r *CollectSupportDataExtendedRequest) IncludeReplicationStateDump() *bool {
	return copyBoolPtr(r.props.includeReplicationStateDump)
}

// IncludeBinaryFiles returns the binary files flag, or nil when unset.
func (r *CollectSupportDataExtendedRequest) IncludeBinaryFiles() *bool {
	return copyBoolPtr(r.props.includeBinaryFiles)
}

// UseSequentialMode returns the sequential mode flag, or nil when unset.
func (r *CollectSupportDataExtendedRequest) UseSequentialMode() *bool {
	return copyBoolPtr(r.props.useSequentialMode)
}

// SecurityLevel returns the security level, or nil when unset.
func (r *CollectSupportDataExtendedRequest) SecurityLevel() *CollectSupportDataSecurityLevel {
	if r.props.securityLevel == nil {
		return nil
	}
	v := *r.props.securityLevel
	return &v
}

// JStackCount returns the thread stack dump count, or nil when unset.
func (r *CollectSupportDataExtendedRequest) JStackCount() *int {
	return copyIntPtr(r.props.jstackCount)
}

// ReportCount returns the report count, or nil when unset.
func (r *CollectSupportDataExtendedRequest) ReportCount() *int {
	return copyIntPtr(r.props.reportCount)
}

// ReportIntervalSeconds returns the report interval, or nil when unset.
func (r *CollectSupportDataExtendedRequest) ReportIntervalSeconds() *int {
	return copyIntPtr(r.props.reportIntervalSeconds)
}

// LogDurationMillis returns the log capture duration, or nil when unset.
func (r *CollectSupportDataExtendedRequest) LogDurationMillis() *int64 {
	return copyLongPtr(r.props.logDurationMillis)
}

// Comment returns the comment, or nil when unset.
func (r *CollectSupportDataExtendedRequest) Comment() *string {
	return copyStringPtr(r.props.comment)
}

// ProxyToServerAddress returns the proxy target address, or nil when unset.
func (r *CollectSupportDataExtendedRequest) ProxyToServerAddress() *string {
	return copyStringPtr(r.props.proxyToServerAddress)
}

// ProxyToServerPort returns the proxy target port, or nil when unset.
func (r *CollectSupportDataExtendedRequest) ProxyToServerPort() *int {
	return copyIntPtr(r.props.proxyToServerPort)
}

// MaximumFragmentSizeBytes returns the fragment size limit, or nil when
// unset.
func (r *CollectSupportDataExtendedRequest) MaximumFragmentSizeBytes() *int {
	return copyIntPtr(r.props.maximumFragmentSizeBytes)
}

// ValueBytes returns the encoded request value. A request with no fields set
// encodes to an empty sequence.
func (r *CollectSupportDataExtendedRequest) ValueBytes() []byte {
	p := r.props
	seq := berutil.NewSequence("Collect Support Data Request Value")
	if p.archiveFileName != nil {
		seq.AppendChild(berutil.NewStringField(csdTagArchiveFileName, *p.archiveFileName, "Archive File Name"))
	}
	if p.encryptionPassphrase != nil {
		seq.AppendChild(p.encryptionPassphrase.encodeWithTag(csdTagEncryptionPassphrase, "Encryption Passphrase"))
	}
	if p.includeExpensiveData != nil {
		seq.AppendChild(berutil.NewBooleanField(csdTagIncludeExpensiveData, *p.includeExpensiveData, "Include Expensive Data"))
	}
	if p.includeReplicationStateDump != nil {
		seq.AppendChild(berutil.NewBooleanField(csdTagIncludeReplicationStateDump, *p.includeReplicationStateDump, "Include Replication State Dump"))
	}
	if p.includeBinaryFiles != nil {
		seq.AppendChild(berutil.NewBooleanField(csdTagIncludeBinaryFiles, *p.includeBinaryFiles, "Include Binary Files"))
	}
	if p.useSequentialMode != nil {
		seq.AppendChild(berutil.NewBooleanField(csdTagUseSequentialMode, *p.useSequentialMode, "Use Sequential Mode"))
	}
	if p.securityLevel != nil {
		seq.AppendChild(berutil.NewEnumeratedField(csdTagSecurityLevel, int(*p.securityLevel), "Security Level"))
	}
	if p.jstackCount != nil {
		seq.AppendChild(berutil.NewIntField(csdTagJStackCount, *p.jstackCount, "JStack Count"))
	}
	if p.reportCount != nil {
		seq.AppendChild(berutil.NewIntField(csdTagReportCount, *p.reportCount, "Report Count"))
	}
	if p.reportIntervalSeconds != nil {
		seq.AppendChild(berutil.NewIntField(csdTagReportIntervalSeconds, *p.reportIntervalSeconds, "Report Interval Seconds"))
	}
	if p.logDurationMillis != nil {
		seq.AppendChild(berutil.NewLongField(csdTagLogDurationMillis, *p.logDurationMillis, "Log Duration Millis"))
	}
	if p.comment != nil {
		seq.AppendChild(berutil.NewStringField(csdTagComment, *p.comment, "Comment"))
	}
	if p.proxyToServerAddress != nil {
		seq.AppendChild(berutil.NewStringField(csdTagProxyToServerAddress, *p.proxyToServerAddress, "Proxy To Server Address"))
		seq.AppendChild(berutil.NewIntField(csdTagProxyToServerPort, *p.proxyToServerPort, "Proxy To Server Port"))
	}
	if p.maximumFragmentSizeBytes != nil {
		seq.AppendChild(berutil.NewIntField(csdTagMaximumFragmentSizeBytes, *p.maximumFragmentSizeBytes, "Maximum Fragment Size Bytes"))
	}
	return seq.Bytes()
}

// ExtendedRequest returns the generic envelope for transmission.
func (r *CollectSupportDataExtendedRequest) ExtendedRequest() *ExtendedRequest {
	return &ExtendedRequest{oid: CollectSupportDataExtendedRequestOID, value: r.ValueBytes()}
}

// DecodeCollectSupportDataExtendedRequest reconstructs a typed request from
// its generic envelope. The value is required; decoded fields are held to
// the same constraints as the setters.
func DecodeCollectSupportDataExtendedRequest(req *ExtendedRequest) (*CollectSupportDataExtendedRequest, error) {
	if req.oid != CollectSupportDataExtendedRequestOID {
		return nil, protocolErrorf(csdConstruct, "unexpected OID %q", req.oid)
	}
	if req.value == nil {
		return nil, decodeErrorf(csdConstruct, "request requires a value")
	}
	seq, err := berutil.DecodeSequence(req.value, csdConstruct)
	if err != nil {
		return nil, wrapDecodeError(csdConstruct, err, "malformed request value")
	}

	props := &CollectSupportDataExtendedRequestProperties{}
	lastTag := ber.Tag(0)
	sawField := false

	parseFlag := func(child *ber.Packet, name string) (*bool, error) {
		v, err := berutil.ParseBoolean(child)
		if err != nil {
			return nil, wrapDecodeError(csdConstruct, err, "malformed %s flag", name)
		}
		return &v, nil
	}

	for _, child := range seq.Children {
		if sawField && child.Tag <= lastTag {
			return nil, decodeErrorf(csdConstruct, "field with tag %d out of canonical order", child.Tag)
		}
		lastTag, sawField = child.Tag, true

		switch child.Tag {
		case csdTagArchiveFileName:
			name := berutil.ParseString(child)
			props.archiveFileName = &name
		case csdTagEncryptionPassphrase:
			props.encryptionPassphrase = NewOctetString(berutil.ParseOctetString(child))
		case csdTagIncludeExpensiveData:
			if props.includeExpensiveData, err = parseFlag(child, "include expensive data"); err != nil {
				return nil, err
			}
		case csdTagIncludeReplicationStateDump:
			if props.includeReplicationStateDump, err = parseFlag(child, "include replication state dump"); err != nil {
				return nil, err
			}
		case csdTagIncludeBinaryFiles:
			if props.includeBinaryFiles, err = parseFlag(child, "include binary files"); err != nil {
				return nil, err
			}
		case csdTagUseSequentialMode:
			if props.useSequentialMode, err = parseFlag(child, "use sequential mode"); err != nil {
				return nil, err
			}
		case csdTagSecurityLevel:
			ordinal, err := berutil.ParseEnumerated(child)
			if err != nil {
				return nil, wrapDecodeError(csdConstruct, err, "malformed security level")
			}
			level, ok := securityLevelFromOrdinal(ordinal)
			if !ok {
				return nil, decodeErrorf(csdConstruct, "unrecognized security level value %d", ordinal)
			}
			props.securityLevel = &level
		case csdTagJStackCount:
			count, err := berutil.ParseInt(child)
			if err != nil {
				return nil, wrapDecodeError(csdConstruct, err, "malformed jstack count")
			}
			if ue := checkNonNegativeInt("jstackCount", count); ue != nil {
				return nil, wrapDecodeError(csdConstruct, ue, "invalid jstack count")
			}
			props.jstackCount = &count
		case csdTagReportCount:
			count, err := berutil.ParseInt(child)
			if err != nil {
				return nil, wrapDecodeError(csdConstruct, err, "malformed report count")
			}
			if ue := checkNonNegativeInt("reportCount", count); ue != nil {
				return nil, wrapDecodeError(csdConstruct, ue, "invalid report count")
			}
			props.reportCount = &count
		case csdTagReportIntervalSeconds:
			seconds, err := berutil.ParseInt(child)
			if err != nil {
				return nil, wrapDecodeError(csdConstruct, err, "malformed report interval")
			}
			if ue := checkPositiveInt("reportIntervalSeconds", seconds); ue != nil {
				return nil, wrapDecodeError(csdConstruct, ue, "invalid report interval")
			}
			props.reportIntervalSeconds = &seconds
		case csdTagLogDurationMillis:
			millis, err := berutil.ParseLong(child)
			if err != nil {
				return nil, wrapDecodeError(csdConstruct, err, "malformed log duration")
			}
			if millis <= 0 {
				return nil, decodeErrorf(csdConstruct, "log duration must be greater than zero, got %d", millis)
			}
			props.logDurationMillis = &millis
		case csdTagComment:
			comment := berutil.ParseString(child)
			props.comment = &comment
		case csdTagProxyToServerAddress:
			address := berutil.ParseString(child)
			props.proxyToServerAddress = &address
		case csdTagProxyToServerPort:
			port, err := berutil.ParseInt(child)
			if err != nil {
				return nil, wrapDecodeError(csdConstruct, err, "malformed proxy port")
			}
			props.proxyToServerPort = &port
		case csdTagMaximumFragmentSizeBytes:
			size, err := berutil.ParseInt(child)
			if err != nil {
				return nil, wrapDecodeError(csdConstruct, err, "malformed maximum fragment size")
			}
			if ue := checkPositiveInt("maximumFragmentSizeBytes", size); ue != nil {
				return nil, wrapDecodeError(csdConstruct, ue, "invalid maximum fragment size")
			}
			props.maximumFragmentSizeBytes = &size
		default:
			return nil, decodeErrorf(csdConstruct, "unexpected tag %d in request value", child.Tag)
		}
	}

	if ue := checkHostPort("proxyToServerAddress", "proxyToServerPort",
		props.proxyToServerAddress, props.proxyToServerPort); ue != nil {
		return nil, wrapDecodeError(csdConstruct, ue, "invalid proxy target")
	}

	return &CollectSupportDataExtendedRequest{props: props}, nil
}
