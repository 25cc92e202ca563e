package ldapext

import (
	"testing"

	ber "github.com/go-asn1-ber/asn1-ber"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pingidentity/ldapsdk-sub006/internal/berutil"
)

func TestIdentifyBackupCompatibilityProblemsExtendedResult_RoundTrip(t *testing.T) {
	result, err := NewIdentifyBackupCompatibilityProblemsExtendedResult(
		0, "", "", nil,
		[]string{"encryption settings database is missing a key"},
		[]string{"newer database format", "different JVM vendor"},
	)
	require.NoError(t, err)

	envelope := result.Result()
	assert.Equal(t, IdentifyBackupCompatibilityProblemsExtendedResultOID, envelope.OID())
	assert.True(t, envelope.HasValue())

	decoded, err := DecodeIdentifyBackupCompatibilityProblemsExtendedResult(envelope)
	require.NoError(t, err)

	assert.Equal(t, []string{"encryption settings database is missing a key"}, decoded.ErrorMessages())
	assert.Equal(t, []string{"newer database format", "different JVM vendor"}, decoded.WarningMessages())
}

func TestIdentifyBackupCompatibilityProblemsExtendedResult_NoProblems(t *testing.T) {
	result, err := NewIdentifyBackupCompatibilityProblemsExtendedResult(0, "", "", nil, nil, nil)
	require.NoError(t, err)

	envelope := result.Result()
	assert.Empty(t, envelope.OID())
	assert.False(t, envelope.HasValue())

	decoded, err := DecodeIdentifyBackupCompatibilityProblemsExtendedResult(envelope)
	require.NoError(t, err)
	assert.Empty(t, decoded.ErrorMessages())
	assert.Empty(t, decoded.WarningMessages())
}

func TestNewIdentifyBackupCompatibilityProblemsExtendedResult_EmptyMessage(t *testing.T) {
	_, err := NewIdentifyBackupCompatibilityProblemsExtendedResult(0, "", "", nil, []string{""}, nil)
	require.Error(t, err)
	assert.True(t, IsUsageError(err))
}

func TestDecodeIdentifyBackupCompatibilityProblemsExtendedResult_Malformed(t *testing.T) {
	makeEnvelope := func(value []byte) *ExtendedResult {
		return NewExtendedResult(0, "", "", nil, IdentifyBackupCompatibilityProblemsExtendedResultOID, value)
	}

	tests := []struct {
		name  string
		value []byte
	}{
		{
			name: "unexpected tag",
			value: func() []byte {
				seq := berutil.NewSequence("v")
				seq.AppendChild(berutil.NewContextSequence(5, "bogus"))
				return seq.Bytes()
			}(),
		},
		{
			name: "warnings before errors",
			value: func() []byte {
				seq := berutil.NewSequence("v")
				warns := berutil.NewContextSequence(1, "warnings")
				warns.AppendChild(ber.NewString(ber.ClassUniversal, ber.TypePrimitive, ber.TagOctetString, "w", "msg"))
				errs := berutil.NewContextSequence(0, "errors")
				errs.AppendChild(ber.NewString(ber.ClassUniversal, ber.TypePrimitive, ber.TagOctetString, "e", "msg"))
				seq.AppendChild(warns)
				seq.AppendChild(errs)
				return seq.Bytes()
			}(),
		},
		{
			name: "empty message in list",
			value: func() []byte {
				seq := berutil.NewSequence("v")
				errs := berutil.NewContextSequence(0, "errors")
				errs.AppendChild(ber.NewString(ber.ClassUniversal, ber.TypePrimitive, ber.TagOctetString, "", "msg"))
				seq.AppendChild(errs)
				return seq.Bytes()
			}(),
		},
		{
			name: "context-tagged message",
			value: func() []byte {
				seq := berutil.NewSequence("v")
				errs := berutil.NewContextSequence(0, "errors")
				errs.AppendChild(berutil.NewStringField(0, "e", "msg"))
				seq.AppendChild(errs)
				return seq.Bytes()
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeIdentifyBackupCompatibilityProblemsExtendedResult(makeEnvelope(tt.value))
			require.Error(t, err)
			assert.True(t, IsDecodeError(err))
		})
	}
}
