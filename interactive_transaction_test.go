package ldapext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pingidentity/ldapsdk-sub006/internal/berutil"
)

func TestStartInteractiveTransactionExtendedRequest(t *testing.T) {
	t.Run("unscoped carries no value", func(t *testing.T) {
		req, err := NewStartInteractiveTransactionExtendedRequest(nil)
		require.NoError(t, err)

		assert.Nil(t, req.BaseDN())
		assert.Nil(t, req.ValueBytes())
		assert.False(t, req.ExtendedRequest().HasValue())

		decoded, err := DecodeStartInteractiveTransactionExtendedRequest(req.ExtendedRequest())
		require.NoError(t, err)
		assert.Nil(t, decoded.BaseDN())
	})

	t.Run("scoped round trip", func(t *testing.T) {
		req, err := NewStartInteractiveTransactionExtendedRequest(strPtr("dc=example,dc=com"))
		require.NoError(t, err)

		decoded, err := DecodeStartInteractiveTransactionExtendedRequest(req.ExtendedRequest())
		require.NoError(t, err)
		require.NotNil(t, decoded.BaseDN())
		assert.Equal(t, "dc=example,dc=com", *decoded.BaseDN())
	})

	t.Run("empty base DN rejected", func(t *testing.T) {
		_, err := NewStartInteractiveTransactionExtendedRequest(strPtr(""))
		require.Error(t, err)
		assert.True(t, IsUsageError(err))
	})

	t.Run("duplicate base DN element rejected", func(t *testing.T) {
		seq := berutil.NewSequence("v")
		seq.AppendChild(berutil.NewStringField(0, "dc=a", "dn"))
		seq.AppendChild(berutil.NewStringField(0, "dc=b", "dn"))
		envelope, err := NewExtendedRequest(StartInteractiveTransactionExtendedRequestOID, seq.Bytes())
		require.NoError(t, err)

		_, decodeErr := DecodeStartInteractiveTransactionExtendedRequest(envelope)
		require.Error(t, decodeErr)
		assert.True(t, IsDecodeError(decodeErr))
	})
}

func TestStartInteractiveTransactionExtendedResult_RoundTrip(t *testing.T) {
	txnID := NewOctetStringFromString("txn-4711")
	result, err := NewStartInteractiveTransactionExtendedResult(0, "", "", nil, txnID, []string{"dc=example,dc=com"})
	require.NoError(t, err)

	envelope := result.Result()
	assert.Equal(t, StartInteractiveTransactionExtendedRequestOID, envelope.OID())

	decoded, err := DecodeStartInteractiveTransactionExtendedResult(envelope)
	require.NoError(t, err)

	assert.Equal(t, "txn-4711", decoded.TransactionID().StringValue())
	assert.Equal(t, []string{"dc=example,dc=com"}, decoded.BaseDNs())
}

func TestStartInteractiveTransactionExtendedResult_Validation(t *testing.T) {
	t.Run("nil transaction ID", func(t *testing.T) {
		_, err := NewStartInteractiveTransactionExtendedResult(0, "", "", nil, nil, nil)
		require.Error(t, err)
		assert.True(t, IsUsageError(err))
	})

	t.Run("result without value", func(t *testing.T) {
		envelope := NewExtendedResult(0, "", "", nil, StartInteractiveTransactionExtendedRequestOID, nil)
		_, err := DecodeStartInteractiveTransactionExtendedResult(envelope)
		require.Error(t, err)
		assert.True(t, IsDecodeError(err))
	})

	t.Run("empty transaction ID on the wire", func(t *testing.T) {
		seq := berutil.NewSequence("v")
		seq.AppendChild(berutil.NewOctetStringField(0, nil, "txn"))
		envelope := NewExtendedResult(0, "", "", nil, StartInteractiveTransactionExtendedRequestOID, seq.Bytes())

		_, err := DecodeStartInteractiveTransactionExtendedResult(envelope)
		require.Error(t, err)
		assert.True(t, IsDecodeError(err))
	})
}

func TestEndInteractiveTransactionExtendedRequest(t *testing.T) {
	txnID := NewOctetStringFromString("txn-4711")

	t.Run("commit omits the default on the wire", func(t *testing.T) {
		req, err := NewEndInteractiveTransactionExtendedRequest(txnID, true)
		require.NoError(t, err)

		seq, seqErr := berutil.DecodeSequence(req.ValueBytes(), "test")
		require.NoError(t, seqErr)
		require.Len(t, seq.Children, 1)

		decoded, err := DecodeEndInteractiveTransactionExtendedRequest(req.ExtendedRequest())
		require.NoError(t, err)
		assert.True(t, decoded.Commit())
		assert.Equal(t, "txn-4711", decoded.TransactionID().StringValue())
	})

	t.Run("abort emits explicit false", func(t *testing.T) {
		req, err := NewEndInteractiveTransactionExtendedRequest(txnID, false)
		require.NoError(t, err)

		seq, seqErr := berutil.DecodeSequence(req.ValueBytes(), "test")
		require.NoError(t, seqErr)
		require.Len(t, seq.Children, 2)

		decoded, err := DecodeEndInteractiveTransactionExtendedRequest(req.ExtendedRequest())
		require.NoError(t, err)
		assert.False(t, decoded.Commit())
	})

	t.Run("nil transaction ID rejected", func(t *testing.T) {
		_, err := NewEndInteractiveTransactionExtendedRequest(nil, true)
		require.Error(t, err)
		assert.True(t, IsUsageError(err))
	})

	t.Run("empty transaction ID rejected", func(t *testing.T) {
		_, err := NewEndInteractiveTransactionExtendedRequest(NewOctetString(nil), true)
		require.Error(t, err)
		assert.True(t, IsUsageError(err))
	})

	t.Run("missing value rejected", func(t *testing.T) {
		envelope, err := NewExtendedRequest(EndInteractiveTransactionExtendedRequestOID, nil)
		require.NoError(t, err)

		_, decodeErr := DecodeEndInteractiveTransactionExtendedRequest(envelope)
		require.Error(t, decodeErr)
		assert.True(t, IsDecodeError(decodeErr))
	})
}
