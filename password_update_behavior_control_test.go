package ldapext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pingidentity/ldapsdk-sub006/internal/berutil"
)

func TestPasswordUpdateBehaviorRequestControl_RoundTrip(t *testing.T) {
	props := &PasswordUpdateBehaviorRequestControlProperties{}
	props.SetIsSelfChange(boolPtr(true))
	props.SetAllowPreEncodedPassword(boolPtr(false))
	props.SetSkipPasswordValidation(boolPtr(true))
	props.SetIgnorePasswordHistory(boolPtr(false))
	props.SetIgnoreMinimumPasswordAge(boolPtr(true))
	require.NoError(t, props.SetPasswordStorageScheme(strPtr("PBKDF2")))
	props.SetMustChangePassword(boolPtr(false))

	ctl := NewPasswordUpdateBehaviorRequestControl(true, props)
	assert.Equal(t, PasswordUpdateBehaviorRequestControlOID, ctl.GetControlType())

	decoded, err := DecodePasswordUpdateBehaviorRequestControl(true, ctl.ValueBytes())
	require.NoError(t, err)

	require.NotNil(t, decoded.IsSelfChange())
	assert.True(t, *decoded.IsSelfChange())
	require.NotNil(t, decoded.AllowPreEncodedPassword())
	assert.False(t, *decoded.AllowPreEncodedPassword())
	require.NotNil(t, decoded.SkipPasswordValidation())
	assert.True(t, *decoded.SkipPasswordValidation())
	require.NotNil(t, decoded.IgnorePasswordHistory())
	assert.False(t, *decoded.IgnorePasswordHistory())
	require.NotNil(t, decoded.IgnoreMinimumPasswordAge())
	assert.True(t, *decoded.IgnoreMinimumPasswordAge())
	require.NotNil(t, decoded.PasswordStorageScheme())
	assert.Equal(t, "PBKDF2", *decoded.PasswordStorageScheme())
	require.NotNil(t, decoded.MustChangePassword())
	assert.False(t, *decoded.MustChangePassword())
}

// An absent tri-state field means "server decides" and must stay nil through
// a round trip, never collapsing to false.
func TestPasswordUpdateBehaviorRequestControl_AllFieldsAbsent(t *testing.T) {
	ctl := NewPasswordUpdateBehaviorRequestControl(false, nil)

	decoded, err := DecodePasswordUpdateBehaviorRequestControl(false, ctl.ValueBytes())
	require.NoError(t, err)

	assert.Nil(t, decoded.IsSelfChange())
	assert.Nil(t, decoded.AllowPreEncodedPassword())
	assert.Nil(t, decoded.SkipPasswordValidation())
	assert.Nil(t, decoded.IgnorePasswordHistory())
	assert.Nil(t, decoded.IgnoreMinimumPasswordAge())
	assert.Nil(t, decoded.PasswordStorageScheme())
	assert.Nil(t, decoded.MustChangePassword())
}

func TestPasswordUpdateBehaviorRequestControl_SingleField(t *testing.T) {
	props := &PasswordUpdateBehaviorRequestControlProperties{}
	props.SetIgnorePasswordHistory(boolPtr(true))

	decoded, err := DecodePasswordUpdateBehaviorRequestControl(false, NewPasswordUpdateBehaviorRequestControl(false, props).ValueBytes())
	require.NoError(t, err)

	require.NotNil(t, decoded.IgnorePasswordHistory())
	assert.True(t, *decoded.IgnorePasswordHistory())
	assert.Nil(t, decoded.IsSelfChange())
	assert.Nil(t, decoded.MustChangePassword())
}

func TestPasswordUpdateBehaviorProperties_StorageSchemeValidation(t *testing.T) {
	props := &PasswordUpdateBehaviorRequestControlProperties{}

	err := props.SetPasswordStorageScheme(strPtr(""))
	require.Error(t, err)
	assert.True(t, IsUsageError(err))
	assert.ErrorIs(t, err, &UsageError{Field: "passwordStorageScheme"})

	require.NoError(t, props.SetPasswordStorageScheme(strPtr("SSHA512")))
	require.NoError(t, props.SetPasswordStorageScheme(nil))

	ctl := NewPasswordUpdateBehaviorRequestControl(false, props)
	assert.Nil(t, ctl.PasswordStorageScheme())
}

func TestDecodePasswordUpdateBehaviorRequestControl_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		value []byte
	}{
		{name: "missing value", value: nil},
		{
			name: "unexpected tag",
			value: func() []byte {
				seq := berutil.NewSequence("value")
				seq.AppendChild(berutil.NewBooleanField(12, true, "bogus"))
				return seq.Bytes()
			}(),
		},
		{
			name: "fields out of canonical order",
			value: func() []byte {
				seq := berutil.NewSequence("value")
				seq.AppendChild(berutil.NewBooleanField(6, true, "must change"))
				seq.AppendChild(berutil.NewBooleanField(0, true, "self change"))
				return seq.Bytes()
			}(),
		},
		{
			name: "boolean with bad payload length",
			value: func() []byte {
				seq := berutil.NewSequence("value")
				seq.AppendChild(berutil.NewOctetStringField(0, []byte{0xFF, 0x00}, "self change"))
				return seq.Bytes()
			}(),
		},
		{
			name: "empty storage scheme on the wire",
			value: func() []byte {
				seq := berutil.NewSequence("value")
				seq.AppendChild(berutil.NewStringField(5, "", "scheme"))
				return seq.Bytes()
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePasswordUpdateBehaviorRequestControl(false, tt.value)
			require.Error(t, err)
			assert.True(t, IsDecodeError(err))
		})
	}
}
