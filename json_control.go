package ldapext

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// ControlJSON is the canonical JSON projection of a control: the OID, name,
// criticality, and exactly one of an opaque base64 value or a structured
// construct-specific value object. Controls defined to carry no value omit
// both value fields.
type ControlJSON struct {
	OID         string          `json:"oid"`
	ControlName string          `json:"control-name"`
	Criticality bool            `json:"criticality"`
	ValueBase64 string          `json:"value-base64,omitempty"`
	ValueJSON   json.RawMessage `json:"value-json,omitempty"`
}

// JSONControlDecodeOptions configures DecodeControlJSON. In strict mode
// unrecognized fields in the control object or its structured value are
// rejected; otherwise they are ignored.
type JSONControlDecodeOptions struct {
	Strict bool
}

const jsonConstruct = "JSON control"

// ControlToJSON encodes a typed control as its canonical JSON projection.
// Controls implemented by this package get a structured value-json object
// with construct-specific fields; a control with no value fields set gets an
// empty value-json object.
func ControlToJSON(c Control) ([]byte, error) {
	projection, err := controlJSONProjection(c)
	if err != nil {
		return nil, err
	}
	return json.Marshal(projection)
}

func controlJSONProjection(c Control) (*ControlJSON, error) {
	projection := &ControlJSON{
		OID:         c.GetControlType(),
		ControlName: c.ControlName(),
	}

	switch tc := c.(type) {
	case *TransactionSettingsRequestControl:
		projection.Criticality = tc.Criticality()
		value, err := json.Marshal(transactionSettingsToValueJSON(tc))
		if err != nil {
			return nil, err
		}
		projection.ValueJSON = value
	case *PasswordUpdateBehaviorRequestControl:
		projection.Criticality = tc.Criticality()
		value, err := json.Marshal(passwordUpdateBehaviorToValueJSON(tc))
		if err != nil {
			return nil, err
		}
		projection.ValueJSON = value
	case *GenerateAccessTokenRequestControl:
		projection.Criticality = tc.Criticality()
	default:
		return nil, usageErrorf("control", c, "unsupported control type %T", c)
	}
	return projection, nil
}

// DecodeControlJSON reconstructs a typed control from its JSON projection.
// Either value representation is accepted: an opaque base64 value is decoded
// through the binary path, a structured value through the construct's JSON
// schema. Both paths apply full semantic validation.
func DecodeControlJSON(data []byte, opts JSONControlDecodeOptions) (Control, error) {
	var projection ControlJSON
	if err := unmarshalJSON(data, &projection, opts.Strict); err != nil {
		return nil, wrapDecodeError(jsonConstruct, err, "malformed control object")
	}
	if projection.OID == "" {
		return nil, decodeErrorf(jsonConstruct, "missing oid field")
	}
	if projection.ValueBase64 != "" && projection.ValueJSON != nil {
		return nil, decodeErrorf(jsonConstruct, "control must not have both value-base64 and value-json")
	}

	if projection.ValueBase64 != "" {
		raw, err := base64.StdEncoding.DecodeString(projection.ValueBase64)
		if err != nil {
			return nil, wrapDecodeError(jsonConstruct, err, "malformed value-base64 field")
		}
		return DecodeControl(projection.OID, projection.Criticality, raw)
	}

	switch projection.OID {
	case TransactionSettingsRequestControlOID:
		if projection.ValueJSON == nil {
			return nil, decodeErrorf(jsonConstruct, "control %q requires a value", projection.OID)
		}
		return transactionSettingsFromValueJSON(projection.Criticality, projection.ValueJSON, opts.Strict)
	case PasswordUpdateBehaviorRequestControlOID:
		if projection.ValueJSON == nil {
			return nil, decodeErrorf(jsonConstruct, "control %q requires a value", projection.OID)
		}
		return passwordUpdateBehaviorFromValueJSON(projection.Criticality, projection.ValueJSON, opts.Strict)
	case GenerateAccessTokenRequestControlOID:
		if projection.ValueJSON != nil {
			return nil, decodeErrorf(jsonConstruct, "control %q must not have a value", projection.OID)
		}
		return NewGenerateAccessTokenRequestControl(projection.Criticality), nil
	default:
		return nil, protocolErrorf(jsonConstruct, "unrecognized control OID %q", projection.OID)
	}
}

// unmarshalJSON decodes into v, rejecting unknown fields in strict mode and
// trailing content always.
func unmarshalJSON(data []byte, v interface{}, strict bool) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("trailing content after JSON value")
	}
	return nil
}

type scopedLockDetailsValueJSON struct {
	ScopeIdentifier         string `json:"scope-identifier"`
	MinTxnLockTimeoutMillis *int64 `json:"min-txn-lock-timeout-millis,omitempty"`
	MaxTxnLockTimeoutMillis *int64 `json:"max-txn-lock-timeout-millis,omitempty"`
}

type transactionSettingsValueJSON struct {
	TransactionName          *string                     `json:"transaction-name,omitempty"`
	CommitDurability         *string                     `json:"commit-durability,omitempty"`
	BackendLockBehavior      *string                     `json:"backend-lock-behavior,omitempty"`
	BackendLockTimeoutMillis *int64                      `json:"backend-lock-timeout-millis,omitempty"`
	RetryAttempts            *int                        `json:"retry-attempts,omitempty"`
	ScopedLockDetails        *scopedLockDetailsValueJSON `json:"scoped-lock-details,omitempty"`
	ReturnResponseControl    *bool                       `json:"return-response-control,omitempty"`
}

func transactionSettingsToValueJSON(c *TransactionSettingsRequestControl) *transactionSettingsValueJSON {
	value := &transactionSettingsValueJSON{
		TransactionName:          c.TransactionName(),
		BackendLockTimeoutMillis: c.BackendLockTimeoutMillis(),
		RetryAttempts:            c.RetryAttempts(),
	}
	if d := c.CommitDurability(); d != nil {
		name := d.String()
		value.CommitDurability = &name
	}
	if b := c.BackendLockBehavior(); b != nil {
		name := b.String()
		value.BackendLockBehavior = &name
	}
	if details := c.ScopedLockDetails(); details != nil {
		value.ScopedLockDetails = &scopedLockDetailsValueJSON{
			ScopeIdentifier:         details.ScopeIdentifier(),
			MinTxnLockTimeoutMillis: details.MinTxnLockTimeoutMillis(),
			MaxTxnLockTimeoutMillis: details.MaxTxnLockTimeoutMillis(),
		}
	}
	if c.ReturnResponseControl() {
		v := true
		value.ReturnResponseControl = &v
	}
	return value
}

func commitDurabilityFromName(name string) (TransactionSettingsCommitDurability, bool) {
	for _, d := range []TransactionSettingsCommitDurability{
		CommitDurabilityNonSynchronous, CommitDurabilityPartiallySynchronous, CommitDurabilityFullySynchronous,
	} {
		if d.String() == name {
			return d, true
		}
	}
	return 0, false
}

func backendLockBehaviorFromName(name string) (TransactionSettingsBackendLockBehavior, bool) {
	for _, b := range []TransactionSettingsBackendLockBehavior{
		BackendLockBehaviorDoNotAcquire, BackendLockBehaviorAcquireAfterRetries,
		BackendLockBehaviorAcquireBeforeRetries, BackendLockBehaviorAcquireBeforeInitialAttempt,
	} {
		if b.String() == name {
			return b, true
		}
	}
	return 0, false
}

func transactionSettingsFromValueJSON(criticality bool, raw json.RawMessage, strict bool) (*TransactionSettingsRequestControl, error) {
	var value transactionSettingsValueJSON
	if err := unmarshalJSON(raw, &value, strict); err != nil {
		return nil, wrapDecodeError(txnSettingsConstruct, err, "malformed value-json object")
	}

	props := &TransactionSettingsRequestControlProperties{}
	props.SetTransactionName(value.TransactionName)
	if value.CommitDurability != nil {
		d, ok := commitDurabilityFromName(*value.CommitDurability)
		if !ok {
			return nil, decodeErrorf(txnSettingsConstruct, "unrecognized commit-durability value %q", *value.CommitDurability)
		}
		if err := props.SetCommitDurability(&d); err != nil {
			return nil, wrapDecodeError(txnSettingsConstruct, err, "invalid commit-durability")
		}
	}
	if value.BackendLockBehavior != nil {
		b, ok := backendLockBehaviorFromName(*value.BackendLockBehavior)
		if !ok {
			return nil, decodeErrorf(txnSettingsConstruct, "unrecognized backend-lock-behavior value %q", *value.BackendLockBehavior)
		}
		if err := props.SetBackendLockBehavior(&b); err != nil {
			return nil, wrapDecodeError(txnSettingsConstruct, err, "invalid backend-lock-behavior")
		}
	}
	if err := props.SetBackendLockTimeoutMillis(value.BackendLockTimeoutMillis); err != nil {
		return nil, wrapDecodeError(txnSettingsConstruct, err, "invalid backend-lock-timeout-millis")
	}
	if err := props.SetRetryAttempts(value.RetryAttempts); err != nil {
		return nil, wrapDecodeError(txnSettingsConstruct, err, "invalid retry-attempts")
	}
	if value.ScopedLockDetails != nil {
		details, err := NewTransactionSettingsScopedLockDetails(value.ScopedLockDetails.ScopeIdentifier)
		if err != nil {
			return nil, wrapDecodeError(txnSettingsConstruct, err, "invalid scoped-lock-details")
		}
		if err := details.SetTxnLockTimeoutRange(value.ScopedLockDetails.MinTxnLockTimeoutMillis, value.ScopedLockDetails.MaxTxnLockTimeoutMillis); err != nil {
			return nil, wrapDecodeError(txnSettingsConstruct, err, "invalid scoped-lock-details")
		}
		props.SetScopedLockDetails(details)
	}
	if value.ReturnResponseControl != nil {
		props.SetReturnResponseControl(*value.ReturnResponseControl)
	}

	return NewTransactionSettingsRequestControl(criticality, props), nil
}

type passwordUpdateBehaviorValueJSON struct {
	IsSelfChange             *bool   `json:"is-self-change,omitempty"`
	AllowPreEncodedPassword  *bool   `json:"allow-pre-encoded-password,omitempty"`
	SkipPasswordValidation   *bool   `json:"skip-password-validation,omitempty"`
	IgnorePasswordHistory    *bool   `json:"ignore-password-history,omitempty"`
	IgnoreMinimumPasswordAge *bool   `json:"ignore-minimum-password-age,omitempty"`
	PasswordStorageScheme    *string `json:"password-storage-scheme,omitempty"`
	MustChangePassword       *bool   `json:"must-change-password,omitempty"`
}

func passwordUpdateBehaviorToValueJSON(c *PasswordUpdateBehaviorRequestControl) *passwordUpdateBehaviorValueJSON {
	return &passwordUpdateBehaviorValueJSON{
		IsSelfChange:             c.IsSelfChange(),
		AllowPreEncodedPassword:  c.AllowPreEncodedPassword(),
		SkipPasswordValidation:   c.SkipPasswordValidation(),
		IgnorePasswordHistory:    c.IgnorePasswordHistory(),
		IgnoreMinimumPasswordAge: c.IgnoreMinimumPasswordAge(),
		PasswordStorageScheme:    c.PasswordStorageScheme(),
		MustChangePassword:       c.MustChangePassword(),
	}
}

func passwordUpdateBehaviorFromValueJSON(criticality bool, raw json.RawMessage, strict bool) (*PasswordUpdateBehaviorRequestControl, error) {
	var value passwordUpdateBehaviorValueJSON
	if err := unmarshalJSON(raw, &value, strict); err != nil {
		return nil, wrapDecodeError(pwUpdateConstruct, err, "malformed value-json object")
	}

	props := &PasswordUpdateBehaviorRequestControlProperties{}
	props.SetIsSelfChange(value.IsSelfChange)
	props.SetAllowPreEncodedPassword(value.AllowPreEncodedPassword)
	props.SetSkipPasswordValidation(value.SkipPasswordValidation)
	props.SetIgnorePasswordHistory(value.IgnorePasswordHistory)
	props.SetIgnoreMinimumPasswordAge(value.IgnoreMinimumPasswordAge)
	if err := props.SetPasswordStorageScheme(value.PasswordStorageScheme); err != nil {
		return nil, wrapDecodeError(pwUpdateConstruct, err, "invalid password-storage-scheme")
	}
	props.SetMustChangePassword(value.MustChangePassword)

	return NewPasswordUpdateBehaviorRequestControl(criticality, props), nil
}
