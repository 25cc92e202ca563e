package ldapext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessTokenRequestControl(t *testing.T) {
	ctl := NewGenerateAccessTokenRequestControl(true)

	assert.Equal(t, GenerateAccessTokenRequestControlOID, ctl.GetControlType())
	assert.Equal(t, "Generate Access Token Request Control", ctl.ControlName())
	assert.True(t, ctl.Criticality())
	assert.False(t, ctl.HasValue())
	assert.Nil(t, ctl.ValueBytes())

	// The envelope carries no value element: just the OID and criticality.
	packet := ctl.Encode()
	require.Len(t, packet.Children, 2)
}

func TestDecodeGenerateAccessTokenRequestControl(t *testing.T) {
	t.Run("no value", func(t *testing.T) {
		ctl, err := DecodeGenerateAccessTokenRequestControl(true, nil)
		require.NoError(t, err)
		assert.True(t, ctl.Criticality())
		assert.False(t, ctl.HasValue())
	})

	t.Run("rejects any value", func(t *testing.T) {
		for _, value := range [][]byte{{}, {0x30, 0x00}, {0x04, 0x00}} {
			_, err := DecodeGenerateAccessTokenRequestControl(true, value)
			require.Error(t, err)
			assert.True(t, IsDecodeError(err))
		}
	})
}
