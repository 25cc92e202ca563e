package ldapext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pingidentity/ldapsdk-sub006/internal/berutil"
)

func TestCollectSupportDataExtendedRequest_RoundTrip(t *testing.T) {
	level := SecurityLevelObscureSecrets

	props := &CollectSupportDataExtendedRequestProperties{}
	props.SetArchiveFileName(strPtr("support-data.zip"))
	props.SetEncryptionPassphraseString("passphrase")
	props.SetIncludeExpensiveData(boolPtr(true))
	props.SetIncludeReplicationStateDump(boolPtr(false))
	props.SetIncludeBinaryFiles(boolPtr(true))
	props.SetUseSequentialMode(boolPtr(false))
	require.NoError(t, props.SetSecurityLevel(&level))
	require.NoError(t, props.SetJStackCount(intPtr(5)))
	require.NoError(t, props.SetReportCount(intPtr(10)))
	require.NoError(t, props.SetReportIntervalSeconds(intPtr(2)))
	require.NoError(t, props.SetLogDurationMillis(int64Ptr(600000)))
	props.SetComment(strPtr("weekly capture"))
	require.NoError(t, props.SetProxyToServer(strPtr("ds1.example.com"), intPtr(636)))
	require.NoError(t, props.SetMaximumFragmentSizeBytes(intPtr(1048576)))

	req := NewCollectSupportDataExtendedRequest(props)
	assert.Equal(t, CollectSupportDataExtendedRequestOID, req.OID())

	decoded, err := DecodeCollectSupportDataExtendedRequest(req.ExtendedRequest())
	require.NoError(t, err)

	require.NotNil(t, decoded.ArchiveFileName())
	assert.Equal(t, "support-data.zip", *decoded.ArchiveFileName())
	require.NotNil(t, decoded.EncryptionPassphrase())
	assert.Equal(t, "passphrase", decoded.EncryptionPassphrase().StringValue())
	require.NotNil(t, decoded.IncludeExpensiveData())
	assert.True(t, *decoded.IncludeExpensiveData())
	require.NotNil(t, decoded.IncludeReplicationStateDump())
	assert.False(t, *decoded.IncludeReplicationStateDump())
	require.NotNil(t, decoded.SecurityLevel())
	assert.Equal(t, SecurityLevelObscureSecrets, *decoded.SecurityLevel())
	require.NotNil(t, decoded.JStackCount())
	assert.Equal(t, 5, *decoded.JStackCount())
	require.NotNil(t, decoded.ReportCount())
	assert.Equal(t, 10, *decoded.ReportCount())
	require.NotNil(t, decoded.ReportIntervalSeconds())
	assert.Equal(t, 2, *decoded.ReportIntervalSeconds())
	require.NotNil(t, decoded.LogDurationMillis())
	assert.Equal(t, int64(600000), *decoded.LogDurationMillis())
	require.NotNil(t, decoded.Comment())
	assert.Equal(t, "weekly capture", *decoded.Comment())
	require.NotNil(t, decoded.ProxyToServerAddress())
	assert.Equal(t, "ds1.example.com", *decoded.ProxyToServerAddress())
	require.NotNil(t, decoded.ProxyToServerPort())
	assert.Equal(t, 636, *decoded.ProxyToServerPort())
	require.NotNil(t, decoded.MaximumFragmentSizeBytes())
	assert.Equal(t, 1048576, *decoded.MaximumFragmentSizeBytes())
}

func TestCollectSupportDataExtendedRequest_Empty(t *testing.T) {
	req := NewCollectSupportDataExtendedRequest(nil)

	decoded, err := DecodeCollectSupportDataExtendedRequest(req.ExtendedRequest())
	require.NoError(t, err)

	assert.Nil(t, decoded.ArchiveFileName())
	assert.Nil(t, decoded.EncryptionPassphrase())
	assert.Nil(t, decoded.SecurityLevel())
	assert.Nil(t, decoded.JStackCount())
	assert.Nil(t, decoded.ProxyToServerAddress())
	assert.Nil(t, decoded.ProxyToServerPort())
}

// The passphrase forms must produce identical wire encodings regardless of
// how the caller supplies the bytes.
func TestCollectSupportData_PassphraseForms(t *testing.T) {
	build := func(set func(p *CollectSupportDataExtendedRequestProperties)) []byte {
		props := &CollectSupportDataExtendedRequestProperties{}
		set(props)
		return NewCollectSupportDataExtendedRequest(props).ValueBytes()
	}

	fromString := build(func(p *CollectSupportDataExtendedRequestProperties) {
		p.SetEncryptionPassphraseString("tr0ub4dor")
	})
	fromBytes := build(func(p *CollectSupportDataExtendedRequestProperties) {
		p.SetEncryptionPassphraseBytes([]byte("tr0ub4dor"))
	})
	fromOctetString := build(func(p *CollectSupportDataExtendedRequestProperties) {
		p.SetEncryptionPassphrase(NewOctetStringFromString("tr0ub4dor"))
	})

	assert.Equal(t, fromString, fromBytes)
	assert.Equal(t, fromString, fromOctetString)
}

func TestCollectSupportDataProperties_JStackCount(t *testing.T) {
	props := &CollectSupportDataExtendedRequestProperties{}

	require.NoError(t, props.SetJStackCount(intPtr(5)))
	req := NewCollectSupportDataExtendedRequest(props)
	require.NotNil(t, req.JStackCount())
	assert.Equal(t, 5, *req.JStackCount())

	t.Run("zero is allowed", func(t *testing.T) {
		assert.NoError(t, props.SetJStackCount(intPtr(0)))
	})

	t.Run("negative is rejected and state preserved", func(t *testing.T) {
		require.NoError(t, props.SetJStackCount(intPtr(7)))

		err := props.SetJStackCount(intPtr(-1))
		require.Error(t, err)
		assert.True(t, IsUsageError(err))
		assert.ErrorIs(t, err, &UsageError{Field: "jstackCount"})

		current := NewCollectSupportDataExtendedRequest(props)
		require.NotNil(t, current.JStackCount())
		assert.Equal(t, 7, *current.JStackCount())
	})

	t.Run("nil clears", func(t *testing.T) {
		require.NoError(t, props.SetJStackCount(nil))
		assert.Nil(t, NewCollectSupportDataExtendedRequest(props).JStackCount())
	})
}

func TestCollectSupportDataProperties_ProxyToServer(t *testing.T) {
	props := &CollectSupportDataExtendedRequestProperties{}

	tests := []struct {
		name    string
		address *string
		port    *int
	}{
		{name: "address without port", address: strPtr("ds1.example.com"), port: nil},
		{name: "port without address", address: nil, port: intPtr(389)},
		{name: "empty address", address: strPtr(""), port: intPtr(389)},
		{name: "port zero", address: strPtr("ds1.example.com"), port: intPtr(0)},
		{name: "port too large", address: strPtr("ds1.example.com"), port: intPtr(65536)},
		{name: "negative port", address: strPtr("ds1.example.com"), port: intPtr(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := props.SetProxyToServer(tt.address, tt.port)
			require.Error(t, err)
			assert.True(t, IsUsageError(err))
		})
	}

	t.Run("valid pair then clear", func(t *testing.T) {
		require.NoError(t, props.SetProxyToServer(strPtr("ds1.example.com"), intPtr(1)))
		require.NoError(t, props.SetProxyToServer(nil, nil))

		req := NewCollectSupportDataExtendedRequest(props)
		assert.Nil(t, req.ProxyToServerAddress())
		assert.Nil(t, req.ProxyToServerPort())
	})
}

func TestCollectSupportDataProperties_OtherValidation(t *testing.T) {
	props := &CollectSupportDataExtendedRequestProperties{}

	t.Run("report interval must be positive", func(t *testing.T) {
		assert.Error(t, props.SetReportIntervalSeconds(intPtr(0)))
		assert.NoError(t, props.SetReportIntervalSeconds(intPtr(1)))
	})

	t.Run("log duration must be positive", func(t *testing.T) {
		assert.Error(t, props.SetLogDurationMillis(int64Ptr(0)))
		assert.Error(t, props.SetLogDurationMillis(int64Ptr(-100)))
		assert.NoError(t, props.SetLogDurationMillis(int64Ptr(1)))
	})

	t.Run("fragment size zero is rejected", func(t *testing.T) {
		err := props.SetMaximumFragmentSizeBytes(intPtr(0))
		require.Error(t, err)
		assert.True(t, IsUsageError(err))
	})

	t.Run("unknown security level", func(t *testing.T) {
		bad := CollectSupportDataSecurityLevel(9)
		err := props.SetSecurityLevel(&bad)
		require.Error(t, err)
		assert.True(t, IsUsageError(err))
	})
}

func TestDecodeCollectSupportDataExtendedRequest_Malformed(t *testing.T) {
	makeEnvelope := func(t *testing.T, value []byte) *ExtendedRequest {
		t.Helper()
		req, err := NewExtendedRequest(CollectSupportDataExtendedRequestOID, value)
		require.NoError(t, err)
		return req
	}

	tests := []struct {
		name  string
		value []byte
	}{
		{name: "missing value", value: nil},
		{
			name: "unexpected tag",
			value: func() []byte {
				seq := berutil.NewSequence("v")
				seq.AppendChild(berutil.NewStringField(20, "x", "bogus"))
				return seq.Bytes()
			}(),
		},
		{
			name: "fields out of canonical order",
			value: func() []byte {
				seq := berutil.NewSequence("v")
				seq.AppendChild(berutil.NewIntField(csdTagJStackCount, 5, "jstack"))
				seq.AppendChild(berutil.NewStringField(csdTagArchiveFileName, "a.zip", "archive"))
				return seq.Bytes()
			}(),
		},
		{
			name: "negative jstack count on the wire",
			value: func() []byte {
				seq := berutil.NewSequence("v")
				seq.AppendChild(berutil.NewIntField(csdTagJStackCount, -1, "jstack"))
				return seq.Bytes()
			}(),
		},
		{
			name: "zero report interval on the wire",
			value: func() []byte {
				seq := berutil.NewSequence("v")
				seq.AppendChild(berutil.NewIntField(csdTagReportIntervalSeconds, 0, "interval"))
				return seq.Bytes()
			}(),
		},
		{
			name: "proxy address without port",
			value: func() []byte {
				seq := berutil.NewSequence("v")
				seq.AppendChild(berutil.NewStringField(csdTagProxyToServerAddress, "ds1.example.com", "address"))
				return seq.Bytes()
			}(),
		},
		{
			name: "proxy port out of range",
			value: func() []byte {
				seq := berutil.NewSequence("v")
				seq.AppendChild(berutil.NewStringField(csdTagProxyToServerAddress, "ds1.example.com", "address"))
				seq.AppendChild(berutil.NewIntField(csdTagProxyToServerPort, 70000, "port"))
				return seq.Bytes()
			}(),
		},
		{
			name: "unrecognized security level",
			value: func() []byte {
				seq := berutil.NewSequence("v")
				seq.AppendChild(berutil.NewEnumeratedField(csdTagSecurityLevel, 9, "level"))
				return seq.Bytes()
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCollectSupportDataExtendedRequest(makeEnvelope(t, tt.value))
			require.Error(t, err)
			assert.True(t, IsDecodeError(err))
			assert.Equal(t, 84, DecodeResultCode(err))
		})
	}

	t.Run("wrong OID", func(t *testing.T) {
		req, err := NewExtendedRequest("1.2.3.4", berutil.NewSequence("v").Bytes())
		require.NoError(t, err)

		_, decodeErr := DecodeCollectSupportDataExtendedRequest(req)
		require.Error(t, decodeErr)
		assert.True(t, IsDecodeError(decodeErr))
	})
}

func TestCollectSupportData_SnapshotSemantics(t *testing.T) {
	props := &CollectSupportDataExtendedRequestProperties{}
	props.SetComment(strPtr("before"))

	req := NewCollectSupportDataExtendedRequest(props)
	props.SetComment(strPtr("after"))

	require.NotNil(t, req.Comment())
	assert.Equal(t, "before", *req.Comment())
}

func TestCollectSupportDataSecurityLevel_String(t *testing.T) {
	assert.Equal(t, "none", SecurityLevelNone.String())
	assert.Equal(t, "obscure-secrets", SecurityLevelObscureSecrets.String())
	assert.Equal(t, "maximum", SecurityLevelMaximum.String())
	assert.Equal(t, "unknown", CollectSupportDataSecurityLevel(5).String())
}
