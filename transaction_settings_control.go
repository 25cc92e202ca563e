package ldapext

import (
	ber "github.com/go-asn1-ber/asn1-ber"
	"github.com/google/uuid"

	"github.com/pingidentity/ldapsdk-sub006/internal/berutil"
)

// Context tags assigned to the fields of the transaction settings request
// value. The assignment is authoritative for this construct only; sibling
// constructs define their own tag namespaces.
const (
	txnSettingsTagTransactionName       ber.Tag = 0
	txnSettingsTagCommitDurability      ber.Tag = 1
	txnSettingsTagBackendLockBehavior   ber.Tag = 2
	txnSettingsTagBackendLockTimeout    ber.Tag = 3
	txnSettingsTagRetryAttempts         ber.Tag = 4
	txnSettingsTagScopedLockDetails     ber.Tag = 5
	txnSettingsTagReturnResponseControl ber.Tag = 6

	scopedLockTagScope      ber.Tag = 0
	scopedLockTagMinTimeout ber.Tag = 1
	scopedLockTagMaxTimeout ber.Tag = 2
)

const txnSettingsConstruct = "transaction settings request control"

// TransactionSettingsCommitDurability specifies how durable a transaction
// commit must be before the server reports success.
type TransactionSettingsCommitDurability int

const (
	// CommitDurabilityNonSynchronous does not wait for the commit record to
	// reach the operating system or disk.
	CommitDurabilityNonSynchronous TransactionSettingsCommitDurability = 0

	// CommitDurabilityPartiallySynchronous waits for the commit record to
	// reach the operating system but not the disk.
	CommitDurabilityPartiallySynchronous TransactionSettingsCommitDurability = 1

	// CommitDurabilityFullySynchronous waits for the commit record to be
	// synchronized to disk.
	CommitDurabilityFullySynchronous TransactionSettingsCommitDurability = 2
)

// String returns the name of the commit durability level.
func (d TransactionSettingsCommitDurability) String() string {
	switch d {
	case CommitDurabilityNonSynchronous:
		return "non-synchronous"
	case CommitDurabilityPartiallySynchronous:
		return "partially-synchronous"
	case CommitDurabilityFullySynchronous:
		return "fully-synchronous"
	default:
		return "unknown"
	}
}

func commitDurabilityFromOrdinal(v int) (TransactionSettingsCommitDurability, bool) {
	switch TransactionSettingsCommitDurability(v) {
	case CommitDurabilityNonSynchronous, CommitDurabilityPartiallySynchronous, CommitDurabilityFullySynchronous:
		return TransactionSettingsCommitDurability(v), true
	default:
		return 0, false
	}
}

// TransactionSettingsBackendLockBehavior specifies when the server should
// acquire an exclusive backend lock for the transaction.
type TransactionSettingsBackendLockBehavior int

const (
	// BackendLockBehaviorDoNotAcquire never acquires the exclusive lock.
	BackendLockBehaviorDoNotAcquire TransactionSettingsBackendLockBehavior = 0

	// BackendLockBehaviorAcquireAfterRetries acquires the lock only after
	// all retry attempts without it have failed.
	BackendLockBehaviorAcquireAfterRetries TransactionSettingsBackendLockBehavior = 1

	// BackendLockBehaviorAcquireBeforeRetries acquires the lock before the
	// first retry attempt.
	BackendLockBehaviorAcquireBeforeRetries TransactionSettingsBackendLockBehavior = 2

	// BackendLockBehaviorAcquireBeforeInitialAttempt acquires the lock
	// before the initial attempt.
	BackendLockBehaviorAcquireBeforeInitialAttempt TransactionSettingsBackendLockBehavior = 3
)

// String returns the name of the backend lock behavior.
func (b TransactionSettingsBackendLockBehavior) String() string {
	switch b {
	case BackendLockBehaviorDoNotAcquire:
		return "do-not-acquire"
	case BackendLockBehaviorAcquireAfterRetries:
		return "acquire-after-retries"
	case BackendLockBehaviorAcquireBeforeRetries:
		return "acquire-before-retries"
	case BackendLockBehaviorAcquireBeforeInitialAttempt:
		return "acquire-before-initial-attempt"
	default:
		return "unknown"
	}
}

func backendLockBehaviorFromOrdinal(v int) (TransactionSettingsBackendLockBehavior, bool) {
	switch TransactionSettingsBackendLockBehavior(v) {
	case BackendLockBehaviorDoNotAcquire, BackendLockBehaviorAcquireAfterRetries,
		BackendLockBehaviorAcquireBeforeRetries, BackendLockBehaviorAcquireBeforeInitialAttempt:
		return TransactionSettingsBackendLockBehavior(v), true
	default:
		return 0, false
	}
}

// TransactionSettingsScopedLockDetails describes a lock scope the
// transaction should hold, with an optional transaction lock timeout range.
// The zero value is not usable; construct instances with
// NewTransactionSettingsScopedLockDetails.
type TransactionSettingsScopedLockDetails struct {
	scopeIdentifier         string
	minTxnLockTimeoutMillis *int64
	maxTxnLockTimeoutMillis *int64
}

// NewTransactionSettingsScopedLockDetails creates scoped lock details for
// the given non-empty scope identifier.
func NewTransactionSettingsScopedLockDetails(scopeIdentifier string) (*TransactionSettingsScopedLockDetails, error) {
	if ue := checkNonEmptyString("scopeIdentifier", scopeIdentifier); ue != nil {
		return nil, ue
	}
	return &TransactionSettingsScopedLockDetails{scopeIdentifier: scopeIdentifier}, nil
}

// SetTxnLockTimeoutRange sets or clears the transaction lock timeout range.
// Both bounds must be provided together, both must be non-negative, and max
// must not be less than min. Passing nil for both clears the range.
func (d *TransactionSettingsScopedLockDetails) SetTxnLockTimeoutRange(minMillis, maxMillis *int64) error {
	if ue := checkTimeoutRange("minTxnLockTimeoutMillis", "maxTxnLockTimeoutMillis", minMillis, maxMillis); ue != nil {
		return ue
	}
	d.minTxnLockTimeoutMillis = copyLongPtr(minMillis)
	d.maxTxnLockTimeoutMillis = copyLongPtr(maxMillis)
	return nil
}

// ScopeIdentifier returns the lock scope identifier.
func (d *TransactionSettingsScopedLockDetails) ScopeIdentifier() string {
	return d.scopeIdentifier
}

// MinTxnLockTimeoutMillis returns the minimum transaction lock timeout, or
// nil when no range is set.
func (d *TransactionSettingsScopedLockDetails) MinTxnLockTimeoutMillis() *int64 {
	return copyLongPtr(d.minTxnLockTimeoutMillis)
}

// MaxTxnLockTimeoutMillis returns the maximum transaction lock timeout, or
// nil when no range is set.
func (d *TransactionSettingsScopedLockDetails) MaxTxnLockTimeoutMillis() *int64 {
	return copyLongPtr(d.maxTxnLockTimeoutMillis)
}

// Clone returns an independent deep copy of the scoped lock details.
func (d *TransactionSettingsScopedLockDetails) Clone() *TransactionSettingsScopedLockDetails {
	if d == nil {
		return nil
	}
	return &TransactionSettingsScopedLockDetails{
		scopeIdentifier:         d.scopeIdentifier,
		minTxnLockTimeoutMillis: copyLongPtr(d.minTxnLockTimeoutMillis),
		maxTxnLockTimeoutMillis: copyLongPtr(d.maxTxnLockTimeoutMillis),
	}
}

func (d *TransactionSettingsScopedLockDetails) encode() *ber.Packet {
	seq := berutil.NewContextSequence(txnSettingsTagScopedLockDetails, "Scoped Lock Details")
	seq.AppendChild(berutil.NewStringField(scopedLockTagScope, d.scopeIdentifier, "Scope Identifier"))
	if d.minTxnLockTimeoutMillis != nil {
		seq.AppendChild(berutil.NewLongField(scopedLockTagMinTimeout, *d.minTxnLockTimeoutMillis, "Min Txn Lock Timeout Millis"))
		seq.AppendChild(berutil.NewLongField(scopedLockTagMaxTimeout, *d.maxTxnLockTimeoutMillis, "Max Txn Lock Timeout Millis"))
	}
	return seq
}

func decodeScopedLockDetails(p *ber.Packet) (*TransactionSettingsScopedLockDetails, error) {
	if err := berutil.RequireConstructed(p); err != nil {
		return nil, wrapDecodeError(txnSettingsConstruct, err, "malformed scoped lock details")
	}
	details := &TransactionSettingsScopedLockDetails{}
	lastTag := ber.Tag(0)
	sawField := false
	for _, child := range p.Children {
		if sawField && child.Tag <= lastTag {
			return nil, decodeErrorf(txnSettingsConstruct, "scoped lock details field with tag %d out of canonical order", child.Tag)
		}
		lastTag, sawField = child.Tag, true

		switch child.Tag {
		case scopedLockTagScope:
			details.scopeIdentifier = berutil.ParseString(child)
		case scopedLockTagMinTimeout:
			v, err := berutil.ParseLong(child)
			if err != nil {
				return nil, wrapDecodeError(txnSettingsConstruct, err, "malformed minimum transaction lock timeout")
			}
			details.minTxnLockTimeoutMillis = &v
		case scopedLockTagMaxTimeout:
			v, err := berutil.ParseLong(child)
			if err != nil {
				return nil, wrapDecodeError(txnSettingsConstruct, err, "malformed maximum transaction lock timeout")
			}
			details.maxTxnLockTimeoutMillis = &v
		default:
			return nil, decodeErrorf(txnSettingsConstruct, "unexpected tag %d in scoped lock details", child.Tag)
		}
	}
	if ue := checkNonEmptyString("scopeIdentifier", details.scopeIdentifier); ue != nil {
		return nil, wrapDecodeError(txnSettingsConstruct, ue, "invalid scoped lock details")
	}
	if ue := checkTimeoutRange("minTxnLockTimeoutMillis", "maxTxnLockTimeoutMillis",
		details.minTxnLockTimeoutMillis, details.maxTxnLockTimeoutMillis); ue != nil {
		return nil, wrapDecodeError(txnSettingsConstruct, ue, "invalid transaction lock timeout range")
	}
	return details, nil
}

// TransactionSettingsRequestControlProperties collects the optional settings
// for a transaction settings request control. The zero value has no fields
// set and is ready to use. Setters validate eagerly and leave the properties
// unchanged on error. Properties objects are not safe for concurrent
// mutation; the control constructor takes a deep snapshot, so mutating the
// properties after the control is built has no effect on it.
type TransactionSettingsRequestControlProperties struct {
	transactionName          *string
	commitDurability         *TransactionSettingsCommitDurability
	backendLockBehavior      *TransactionSettingsBackendLockBehavior
	backendLockTimeoutMillis *int64
	retryAttempts            *int
	scopedLockDetails        *TransactionSettingsScopedLockDetails
	returnResponseControl    bool
}

// SetTransactionName sets or clears the client-assigned transaction name.
func (p *TransactionSettingsRequestControlProperties) SetTransactionName(name *string) {
	p.transactionName = copyStringPtr(name)
}

// SetCommitDurability sets or clears the requested commit durability.
func (p *TransactionSettingsRequestControlProperties) SetCommitDurability(d *TransactionSettingsCommitDurability) error {
	if d != nil {
		if _, ok := commitDurabilityFromOrdinal(int(*d)); !ok {
			return usageErrorf("commitDurability", *d, "unrecognized commit durability value %d", int(*d))
		}
		v := *d
		p.commitDurability = &v
		return nil
	}
	p.commitDurability = nil
	return nil
}

// SetBackendLockBehavior sets or clears the requested backend lock behavior.
func (p *TransactionSettingsRequestControlProperties) SetBackendLockBehavior(b *TransactionSettingsBackendLockBehavior) error {
	if b != nil {
		if _, ok := backendLockBehaviorFromOrdinal(int(*b)); !ok {
			return usageErrorf("backendLockBehavior", *b, "unrecognized backend lock behavior value %d", int(*b))
		}
		v := *b
		p.backendLockBehavior = &v
		return nil
	}
	p.backendLockBehavior = nil
	return nil
}

// SetBackendLockTimeoutMillis sets or clears the maximum time to wait for
// the exclusive backend lock. The timeout must not be negative.
func (p *TransactionSettingsRequestControlProperties) SetBackendLockTimeoutMillis(timeoutMillis *int64) error {
	if timeoutMillis != nil {
		if ue := checkNonNegativeLong("backendLockTimeoutMillis", *timeoutMillis); ue != nil {
			return ue
		}
	}
	p.backendLockTimeoutMillis = copyLongPtr(timeoutMillis)
	return nil
}

// SetRetryAttempts sets or clears the number of times the transaction may be
// retried. The count must not be negative.
func (p *TransactionSettingsRequestControlProperties) SetRetryAttempts(attempts *int) error {
	if attempts != nil {
		if ue := checkNonNegativeInt("retryAttempts", *attempts); ue != nil {
			return ue
		}
	}
	p.retryAttempts = copyIntPtr(attempts)
	return nil
}

// SetScopedLockDetails sets or clears the scoped lock details. The details
// are deep-copied.
func (p *TransactionSettingsRequestControlProperties) SetScopedLockDetails(details *TransactionSettingsScopedLockDetails) {
	p.scopedLockDetails = details.Clone()
}

// SetReturnResponseControl indicates whether the server should return a
// transaction settings response control with the result.
func (p *TransactionSettingsRequestControlProperties) SetReturnResponseControl(returnResponse bool) {
	p.returnResponseControl = returnResponse
}

// Clone returns an independent deep copy of the properties.
func (p *TransactionSettingsRequestControlProperties) Clone() *TransactionSettingsRequestControlProperties {
	if p == nil {
		return &TransactionSettingsRequestControlProperties{}
	}
	c := &TransactionSettingsRequestControlProperties{
		transactionName:          copyStringPtr(p.transactionName),
		backendLockTimeoutMillis: copyLongPtr(p.backendLockTimeoutMillis),
		retryAttempts:            copyIntPtr(p.retryAttempts),
		scopedLockDetails:        p.scopedLockDetails.Clone(),
		returnResponseControl:    p.returnResponseControl,
	}
	if p.commitDurability != nil {
		v := *p.commitDurability
		c.commitDurability = &v
	}
	if p.backendLockBehavior != nil {
		v := *p.backendLockBehavior
		c.backendLockBehavior = &v
	}
	return c
}

// GenerateTransactionName returns a unique client-assigned transaction name
// suitable for SetTransactionName.
func GenerateTransactionName() string {
	return "txn-" + uuid.NewString()
}

// TransactionSettingsRequestControl requests per-operation transaction
// behavior from the server: commit durability, backend lock acquisition,
// timeouts, and retries. Instances are immutable snapshots of the properties
// they were built from.
type TransactionSettingsRequestControl struct {
	criticality bool
	props       *TransactionSettingsRequestControlProperties
}

// NewTransactionSettingsRequestControl creates a control from the given
// properties. The properties are deep-copied; later mutation of props does
// not affect the control. A nil props yields a control with no fields set.
func NewTransactionSettingsRequestControl(criticality bool, props *TransactionSettingsRequestControlProperties) *TransactionSettingsRequestControl {
	return &TransactionSettingsRequestControl{
		criticality: criticality,
		props:       props.Clone(),
	}
}

// GetControlType returns the control OID.
func (c *TransactionSettingsRequestControl) GetControlType() string {
	return TransactionSettingsRequestControlOID
}

// ControlName returns the human-readable control name.
func (c *TransactionSettingsRequestControl) ControlName() string {
	return controlNames[TransactionSettingsRequestControlOID]
}

// Criticality reports whether the control is critical.
func (c *TransactionSettingsRequestControl) Criticality() bool {
	return c.criticality
}

// HasValue reports whether the control carries a value. Always true for this
// control.
func (c *TransactionSettingsRequestControl) HasValue() bool {
	return true
}

// TransactionName returns the transaction name, or nil when unset.
func (c *TransactionSettingsRequestControl) TransactionName() *string {
	return copyStringPtr(c.props.transactionName)
}

// CommitDurability returns the requested commit durability, or nil when
// unset.
func (c *TransactionSettingsRequestControl) CommitDurability() *TransactionSettingsCommitDurability {
	if c.props.commitDurability == nil {
		return nil
	}
	v := *c.props.commitDurability
	return &v
}

// BackendLockBehavior returns the requested backend lock behavior, or nil
// when unset.
func (c *TransactionSettingsRequestControl) BackendLockBehavior() *TransactionSettingsBackendLockBehavior {
	if c.props.backendLockBehavior == nil {
		return nil
	}
	v := *c.props.backendLockBehavior
	return &v
}

// BackendLockTimeoutMillis returns the backend lock timeout, or nil when
// unset.
func (c *TransactionSettingsRequestControl) BackendLockTimeoutMillis() *int64 {
	return copyLongPtr(c.props.backendLockTimeoutMillis)
}

// RetryAttempts returns the retry attempt count, or nil when unset.
func (c *TransactionSettingsRequestControl) RetryAttempts() *int {
	return copyIntPtr(c.props.retryAttempts)
}

// ScopedLockDetails returns the scoped lock details, or nil when unset.
func (c *TransactionSettingsRequestControl) ScopedLockDetails() *TransactionSettingsScopedLockDetails {
	return c.props.scopedLockDetails.Clone()
}

// ReturnResponseControl reports whether a response control was requested.
func (c *TransactionSettingsRequestControl) ReturnResponseControl() bool {
	return c.props.returnResponseControl
}

// ValueBytes returns the encoded control value.
func (c *TransactionSettingsRequestControl) ValueBytes() []byte {
	seq := berutil.NewSequence("Transaction Settings Request Value")
	if c.props.transactionName != nil {
		seq.AppendChild(berutil.NewStringField(txnSettingsTagTransactionName, *c.props.transactionName, "Transaction Name"))
	}
	if c.props.commitDurability != nil {
		seq.AppendChild(berutil.NewEnumeratedField(txnSettingsTagCommitDurability, int(*c.props.commitDurability), "Commit Durability"))
	}
	if c.props.backendLockBehavior != nil {
		seq.AppendChild(berutil.NewEnumeratedField(txnSettingsTagBackendLockBehavior, int(*c.props.backendLockBehavior), "Backend Lock Behavior"))
	}
	if c.props.backendLockTimeoutMillis != nil {
		seq.AppendChild(berutil.NewLongField(txnSettingsTagBackendLockTimeout, *c.props.backendLockTimeoutMillis, "Backend Lock Timeout Millis"))
	}
	if c.props.retryAttempts != nil {
		seq.AppendChild(berutil.NewIntField(txnSettingsTagRetryAttempts, *c.props.retryAttempts, "Retry Attempts"))
	}
	if c.props.scopedLockDetails != nil {
		seq.AppendChild(c.props.scopedLockDetails.encode())
	}
	if c.props.returnResponseControl {
		seq.AppendChild(berutil.NewBooleanField(txnSettingsTagReturnResponseControl, true, "Return Response Control"))
	}
	return seq.Bytes()
}

// Encode returns the BER packet representation of the full control.
func (c *TransactionSettingsRequestControl) Encode() *ber.Packet {
	return encodeControlPacket(TransactionSettingsRequestControlOID, c.criticality, c.ValueBytes())
}

// String returns a human-readable description of the control.
func (c *TransactionSettingsRequestControl) String() string {
	return c.ControlName() + " (" + TransactionSettingsRequestControlOID + ")"
}

// DecodeTransactionSettingsRequestControl reconstructs a transaction
// settings request control from its raw value. The value is required;
// decoded content is held to the same constraints as the setters, so a wire
// value carrying a negative timeout fails here just as the setter would have.
func DecodeTransactionSettingsRequestControl(criticality bool, value []byte) (*TransactionSettingsRequestControl, error) {
	if value == nil {
		return nil, decodeErrorf(txnSettingsConstruct, "control requires a value")
	}
	seq, err := berutil.DecodeSequence(value, txnSettingsConstruct)
	if err != nil {
		return nil, wrapDecodeError(txnSettingsConstruct, err, "malformed control value")
	}

	props := &TransactionSettingsRequestControlProperties{}
	lastTag := ber.Tag(0)
	sawField := false
	for _, child := range seq.Children {
		if sawField && child.Tag <= lastTag {
			return nil, decodeErrorf(txnSettingsConstruct, "field with tag %d out of canonical order", child.Tag)
		}
		lastTag, sawField = child.Tag, true

		switch child.Tag {
		case txnSettingsTagTransactionName:
			name := berutil.ParseString(child)
			props.transactionName = &name
		case txnSettingsTagCommitDurability:
			ordinal, err := berutil.ParseEnumerated(child)
			if err != nil {
				return nil, wrapDecodeError(txnSettingsConstruct, err, "malformed commit durability")
			}
			d, ok := commitDurabilityFromOrdinal(ordinal)
			if !ok {
				return nil, decodeErrorf(txnSettingsConstruct, "unrecognized commit durability value %d", ordinal)
			}
			props.commitDurability = &d
		case txnSettingsTagBackendLockBehavior:
			ordinal, err := berutil.ParseEnumerated(child)
			if err != nil {
				return nil, wrapDecodeError(txnSettingsConstruct, err, "malformed backend lock behavior")
			}
			b, ok := backendLockBehaviorFromOrdinal(ordinal)
			if !ok {
				return nil, decodeErrorf(txnSettingsConstruct, "unrecognized backend lock behavior value %d", ordinal)
			}
			props.backendLockBehavior = &b
		case txnSettingsTagBackendLockTimeout:
			timeout, err := berutil.ParseLong(child)
			if err != nil {
				return nil, wrapDecodeError(txnSettingsConstruct, err, "malformed backend lock timeout")
			}
			if ue := checkNonNegativeLong("backendLockTimeoutMillis", timeout); ue != nil {
				return nil, wrapDecodeError(txnSettingsConstruct, ue, "invalid backend lock timeout")
			}
			props.backendLockTimeoutMillis = &timeout
		case txnSettingsTagRetryAttempts:
			attempts, err := berutil.ParseInt(child)
			if err != nil {
				return nil, wrapDecodeError(txnSettingsConstruct, err, "malformed retry attempts")
			}
			if ue := checkNonNegativeInt("retryAttempts", attempts); ue != nil {
				return nil, wrapDecodeError(txnSettingsConstruct, ue, "invalid retry attempts")
			}
			props.retryAttempts = &attempts
		case txnSettingsTagScopedLockDetails:
			details, err := decodeScopedLockDetails(child)
			if err != nil {
				return nil, err
			}
			props.scopedLockDetails = details
		case txnSettingsTagReturnResponseControl:
			flag, err := berutil.ParseBoolean(child)
			if err != nil {
				return nil, wrapDecodeError(txnSettingsConstruct, err, "malformed return response control flag")
			}
			props.returnResponseControl = flag
		default:
			return nil, decodeErrorf(txnSettingsConstruct, "unexpected tag %d in control value", child.Tag)
		}
	}

	return &TransactionSettingsRequestControl{criticality: criticality, props: props}, nil
}
