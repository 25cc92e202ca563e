package ldapext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pingidentity/ldapsdk-sub006/internal/berutil"
)

func TestVerifyPasswordExtendedRequest_RoundTrip(t *testing.T) {
	req, err := NewVerifyPasswordExtendedRequest("uid=jdoe,ou=People,dc=example,dc=com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, VerifyPasswordExtendedRequestOID, req.OID())

	envelope := req.ExtendedRequest()
	require.True(t, envelope.HasValue())

	decoded, err := DecodeVerifyPasswordExtendedRequest(envelope)
	require.NoError(t, err)
	assert.Equal(t, "uid=jdoe,ou=People,dc=example,dc=com", decoded.DN())
	assert.Equal(t, "hunter2", decoded.Password().StringValue())
}

// The three password forms must produce identical wire encodings.
func TestVerifyPasswordExtendedRequest_PasswordForms(t *testing.T) {
	fromString, err := NewVerifyPasswordExtendedRequest("uid=jdoe,dc=example,dc=com", "secret")
	require.NoError(t, err)

	fromBytes, err := NewVerifyPasswordExtendedRequestFromBytes("uid=jdoe,dc=example,dc=com", []byte("secret"))
	require.NoError(t, err)

	fromOctetString, err := NewVerifyPasswordExtendedRequestFromOctetString("uid=jdoe,dc=example,dc=com", NewOctetStringFromString("secret"))
	require.NoError(t, err)

	assert.Equal(t, fromString.ValueBytes(), fromBytes.ValueBytes())
	assert.Equal(t, fromString.ValueBytes(), fromOctetString.ValueBytes())
}

func TestNewVerifyPasswordExtendedRequest_Validation(t *testing.T) {
	tests := []struct {
		name     string
		dn       string
		password string
	}{
		{name: "empty dn", dn: "", password: "secret"},
		{name: "empty password", dn: "uid=jdoe,dc=example,dc=com", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewVerifyPasswordExtendedRequest(tt.dn, tt.password)
			require.Error(t, err)
			assert.True(t, IsUsageError(err))
		})
	}

	t.Run("nil octet string", func(t *testing.T) {
		_, err := NewVerifyPasswordExtendedRequestFromOctetString("uid=jdoe,dc=example,dc=com", nil)
		require.Error(t, err)
		assert.True(t, IsUsageError(err))
	})
}

func TestDecodeVerifyPasswordExtendedRequest_Malformed(t *testing.T) {
	makeEnvelope := func(value []byte) *ExtendedRequest {
		req, err := NewExtendedRequest(VerifyPasswordExtendedRequestOID, value)
		require.NoError(t, err)
		return req
	}

	t.Run("wrong OID", func(t *testing.T) {
		req, err := NewExtendedRequest("1.2.3.4", []byte{0x30, 0x00})
		require.NoError(t, err)

		_, decodeErr := DecodeVerifyPasswordExtendedRequest(req)
		require.Error(t, decodeErr)
		assert.True(t, IsDecodeError(decodeErr))
	})

	tests := []struct {
		name  string
		value []byte
	}{
		{name: "missing value", value: nil},
		{name: "empty sequence", value: berutil.NewSequence("v").Bytes()},
		{
			name: "only dn",
			value: func() []byte {
				seq := berutil.NewSequence("v")
				seq.AppendChild(berutil.NewStringField(0, "uid=jdoe", "dn"))
				return seq.Bytes()
			}(),
		},
		{
			name: "empty password on the wire",
			value: func() []byte {
				seq := berutil.NewSequence("v")
				seq.AppendChild(berutil.NewStringField(0, "uid=jdoe", "dn"))
				seq.AppendChild(berutil.NewOctetStringField(1, nil, "password"))
				return seq.Bytes()
			}(),
		},
		{
			name: "swapped tags",
			value: func() []byte {
				seq := berutil.NewSequence("v")
				seq.AppendChild(berutil.NewStringField(1, "uid=jdoe", "dn"))
				seq.AppendChild(berutil.NewOctetStringField(0, []byte("pw"), "password"))
				return seq.Bytes()
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeVerifyPasswordExtendedRequest(makeEnvelope(tt.value))
			require.Error(t, err)
			assert.True(t, IsDecodeError(err))
		})
	}
}
