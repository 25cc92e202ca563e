package ldapext

import (
	ber "github.com/go-asn1-ber/asn1-ber"

	"github.com/pingidentity/ldapsdk-sub006/internal/berutil"
)

// Context tags for the password update behavior request value.
const (
	pwUpdateTagIsSelfChange             ber.Tag = 0
	pwUpdateTagAllowPreEncodedPassword  ber.Tag = 1
	pwUpdateTagSkipPasswordValidation   ber.Tag = 2
	pwUpdateTagIgnorePasswordHistory    ber.Tag = 3
	pwUpdateTagIgnoreMinimumPasswordAge ber.Tag = 4
	pwUpdateTagPasswordStorageScheme    ber.Tag = 5
	pwUpdateTagMustChangePassword       ber.Tag = 6
)

const pwUpdateConstruct = "password update behavior request control"

// PasswordUpdateBehaviorRequestControlProperties collects the optional
// overrides for how the server processes a password change. Every field is
// tri-state: unset fields are omitted from the encoding and leave the
// server's default behavior in effect.
type PasswordUpdateBehaviorRequestControlProperties struct {
	isSelfChange             *bool
	allowPreEncodedPassword  *bool
	skipPasswordValidation   *bool
	ignorePasswordHistory    *bool
	ignoreMinimumPasswordAge *bool
	passwordStorageScheme    *string
	mustChangePassword       *bool
}

// SetIsSelfChange sets or clears whether the update is treated as a self
// change rather than an administrative reset.
func (p *PasswordUpdateBehaviorRequestControlProperties) SetIsSelfChange(v *bool) {
	p.isSelfChange = copyBoolPtr(v)
}

// SetAllowPreEncodedPassword sets or clears whether pre-encoded passwords
// are accepted.
func (p *PasswordUpdateBehaviorRequestControlProperties) SetAllowPreEncodedPassword(v *bool) {
	p.allowPreEncodedPassword = copyBoolPtr(v)
}

// SetSkipPasswordValidation sets or clears whether password quality
// validators are skipped.
func (p *PasswordUpdateBehaviorRequestControlProperties) SetSkipPasswordValidation(v *bool) {
	p.skipPasswordValidation = copyBoolPtr(v)
}

// SetIgnorePasswordHistory sets or clears whether the password history check
// is bypassed.
func (p *PasswordUpdateBehaviorRequestControlProperties) SetIgnorePasswordHistory(v *bool) {
	p.ignorePasswordHistory = copyBoolPtr(v)
}

// SetIgnoreMinimumPasswordAge sets or clears whether the minimum password
// age constraint is bypassed.
func (p *PasswordUpdateBehaviorRequestControlProperties) SetIgnoreMinimumPasswordAge(v *bool) {
	p.ignoreMinimumPasswordAge = copyBoolPtr(v)
}

// SetPasswordStorageScheme sets or clears the name of the storage scheme to
// encode the new password with. The name must not be empty when provided.
func (p *PasswordUpdateBehaviorRequestControlProperties) SetPasswordStorageScheme(scheme *string) error {
	if scheme != nil {
		if ue := checkNonEmptyString("passwordStorageScheme", *scheme); ue != nil {
			return ue
		}
	}
	p.passwordStorageScheme = copyStringPtr(scheme)
	return nil
}

// SetMustChangePassword sets or clears whether the user must change the
// password again after this update.
func (p *PasswordUpdateBehaviorRequestControlProperties) SetMustChangePassword(v *bool) {
	p.mustChangePassword = copyBoolPtr(v)
}

// Clone returns an independent deep copy of the properties.
func (p *PasswordUpdateBehaviorRequestControlProperties) Clone() *PasswordUpdateBehaviorRequestControlProperties {
	if p == nil {
		return &PasswordUpdateBehaviorRequestControlProperties{}
	}
	return &PasswordUpdateBehaviorRequestControlProperties{
		isSelfChange:             copyBoolPtr(p.isSelfChange),
		allowPreEncodedPassword:  copyBoolPtr(p.allowPreEncodedPassword),
		skipPasswordValidation:   copyBoolPtr(p.skipPasswordValidation),
		ignorePasswordHistory:    copyBoolPtr(p.ignorePasswordHistory),
		ignoreMinimumPasswordAge: copyBoolPtr(p.ignoreMinimumPasswordAge),
		passwordStorageScheme:    copyStringPtr(p.passwordStorageScheme),
		mustChangePassword:       copyBoolPtr(p.mustChangePassword),
	}
}

// PasswordUpdateBehaviorRequestControl overrides aspects of the server's
// password update processing for a single operation. Instances are immutable
// snapshots of the properties they were built from.
type PasswordUpdateBehaviorRequestControl struct {
	criticality bool
	props       *PasswordUpdateBehaviorRequestControlProperties
}

// NewPasswordUpdateBehaviorRequestControl creates a control from the given
// properties. The properties are deep-copied. A nil props yields a control
// with no overrides set.
func NewPasswordUpdateBehaviorRequestControl(criticality bool, props *PasswordUpdateBehaviorRequestControlProperties) *PasswordUpdateBehaviorRequestControl {
	return &PasswordUpdateBehaviorRequestControl{
		criticality: criticality,
		props:       props.Clone(),
	}
}

// GetControlType returns the control OID.
func (c *PasswordUpdateBehaviorRequestControl) GetControlType() string {
	return PasswordUpdateBehaviorRequestControlOID
}

// ControlName returns the human-readable control name.
func (c *PasswordUpdateBehaviorRequestControl) ControlName() string {
	return controlNames[PasswordUpdateBehaviorRequestControlOID]
}

// Criticality reports whether the control is critical.
func (c *PasswordUpdateBehaviorRequestControl) Criticality() bool {
	return c.criticality
}

// HasValue reports whether the control carries a value. Always true for this
// control, even when every override is unset.
func (c *PasswordUpdateBehaviorRequestControl) HasValue() bool {
	return true
}

// IsSelfChange returns the self-change override, or nil when unset.
func (c *PasswordUpdateBehaviorRequestControl) IsSelfChange() *bool {
	return copyBoolPtr(c.props.isSelfChange)
}

// AllowPreEncodedPassword returns the pre-encoded password override, or nil
// when unset.
func (c *PasswordUpdateBehaviorRequestControl) AllowPreEncodedPassword() *bool {
	return copyBoolPtr(c.props.allowPreEncodedPassword)
}

// SkipPasswordValidation returns the validation override, or nil when unset.
func (c *PasswordUpdateBehaviorRequestControl) SkipPasswordValidation() *bool {
	return copyBoolPtr(c.props.skipPasswordValidation)
}

// IgnorePasswordHistory returns the history override, or nil when unset.
func (c *PasswordUpdateBehaviorRequestControl) IgnorePasswordHistory() *bool {
	return copyBoolPtr(c.props.ignorePasswordHistory)
}

// IgnoreMinimumPasswordAge returns the minimum age override, or nil when
// unset.
func (c *PasswordUpdateBehaviorRequestControl) IgnoreMinimumPasswordAge() *bool {
	return copyBoolPtr(c.props.ignoreMinimumPasswordAge)
}

// PasswordStorageScheme returns the storage scheme name, or nil when unset.
func (c *PasswordUpdateBehaviorRequestControl) PasswordStorageScheme() *string {
	return copyStringPtr(c.props.passwordStorageScheme)
}

// MustChangePassword returns the must-change override, or nil when unset.
func (c *PasswordUpdateBehaviorRequestControl) MustChangePassword() *bool {
	return copyBoolPtr(c.props.mustChangePassword)
}

// ValueBytes returns the encoded control value. An all-unset control encodes
// to an empty sequence.
func (c *PasswordUpdateBehaviorRequestControl) ValueBytes() []byte {
	seq := berutil.NewSequence("Password Update Behavior Request Value")
	if c.props.isSelfChange != nil {
		seq.AppendChild(berutil.NewBooleanField(pwUpdateTagIsSelfChange, *c.props.isSelfChange, "Is Self Change"))
	}
	if c.props.allowPreEncodedPassword != nil {
		seq.AppendChild(berutil.NewBooleanField(pwUpdateTagAllowPreEncodedPassword, *c.props.allowPreEncodedPassword, "Allow Pre-Encoded Password"))
	}
	if c.props.skipPasswordValidation != nil {
		seq.AppendChild(berutil.NewBooleanField(pwUpdateTagSkipPasswordValidation, *c.props.skipPasswordValidation, "Skip Password Validation"))
	}
	if c.props.ignorePasswordHistory != nil {
		seq.AppendChild(berutil.NewBooleanField(pwUpdateTagIgnorePasswordHistory, *c.props.ignorePasswordHistory, "Ignore Password History"))
	}
	if c.props.ignoreMinimumPasswordAge != nil {
		seq.AppendChild(berutil.NewBooleanField(pwUpdateTagIgnoreMinimumPasswordAge, *c.props.ignoreMinimumPasswordAge, "Ignore Minimum Password Age"))
	}
	if c.props.passwordStorageScheme != nil {
		seq.AppendChild(berutil.NewStringField(pwUpdateTagPasswordStorageScheme, *c.props.passwordStorageScheme, "Password Storage Scheme"))
	}
	if c.props.mustChangePassword != nil {
		seq.AppendChild(berutil.NewBooleanField(pwUpdateTagMustChangePassword, *c.props.mustChangePassword, "Must Change Password"))
	}
	return seq.Bytes()
}

// Encode returns the BER packet representation of the full control.
func (c *PasswordUpdateBehaviorRequestControl) Encode() *ber.Packet {
	return encodeControlPacket(PasswordUpdateBehaviorRequestControlOID, c.criticality, c.ValueBytes())
}

// String returns a human-readable description of the control.
func (c *PasswordUpdateBehaviorRequestControl) String() string {
	return c.ControlName() + " (" + PasswordUpdateBehaviorRequestControlOID + ")"
}

// DecodePasswordUpdateBehaviorRequestControl reconstructs a password update
// behavior request control from its raw value.
func DecodePasswordUpdateBehaviorRequestControl(criticality bool, value []byte) (*PasswordUpdateBehaviorRequestControl, error) {
	if value == nil {
		return nil, decodeErrorf(pwUpdateConstruct, "control requires a value")
	}
	seq, err := berutil.DecodeSequence(value, pwUpdateConstruct)
	if err != nil {
		return nil, wrapDecodeError(pwUpdateConstruct, err, "malformed control value")
	}

	props := &PasswordUpdateBehaviorRequestControlProperties{}
	lastTag := ber.Tag(0)
	sawField := false

	parseFlag := func(child *ber.Packet, name string) (*bool, error) {
		v, err := berutil.ParseBoolean(child)
		if err != nil {
			return nil, wrapDecodeError(pwUpdateConstruct, err, "malformed %s flag", name)
		}
		return &v, nil
	}

	for _, child := range seq.Children {
		if sawField && child.Tag <= lastTag {
			return nil, decodeErrorf(pwUpdateConstruct, "field with tag %d out of canonical order", child.Tag)
		}
		lastTag, sawField = child.Tag, true

		switch child.Tag {
		case pwUpdateTagIsSelfChange:
			if props.isSelfChange, err = parseFlag(child, "is self change"); err != nil {
				return nil, err
			}
		case pwUpdateTagAllowPreEncodedPassword:
			if props.allowPreEncodedPassword, err = parseFlag(child, "allow pre-encoded password"); err != nil {
				return nil, err
			}
		case pwUpdateTagSkipPasswordValidation:
			if props.skipPasswordValidation, err = parseFlag(child, "skip password validation"); err != nil {
				return nil, err
			}
		case pwUpdateTagIgnorePasswordHistory:
			if props.ignorePasswordHistory, err = parseFlag(child, "ignore password history"); err != nil {
				return nil, err
			}
		case pwUpdateTagIgnoreMinimumPasswordAge:
			if props.ignoreMinimumPasswordAge, err = parseFlag(child, "ignore minimum password age"); err != nil {
				return nil, err
			}
		case pwUpdateTagPasswordStorageScheme:
			scheme := berutil.ParseString(child)
			if ue := checkNonEmptyString("passwordStorageScheme", scheme); ue != nil {
				return nil, wrapDecodeError(pwUpdateConstruct, ue, "invalid password storage scheme")
			}
			props.passwordStorageScheme = &scheme
		case pwUpdateTagMustChangePassword:
			if props.mustChangePassword, err = parseFlag(child, "must change password"); err != nil {
				return nil, err
			}
		default:
			return nil, decodeErrorf(pwUpdateConstruct, "unexpected tag %d in control value", child.Tag)
		}
	}

	return &PasswordUpdateBehaviorRequestControl{criticality: criticality, props: props}, nil
}
