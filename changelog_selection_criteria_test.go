package ldapext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pingidentity/ldapsdk-sub006/internal/berutil"
)

func TestAllAttributesChangeSelectionCriteria_RoundTrip(t *testing.T) {
	criteria, err := NewAllAttributesChangeSelectionCriteria("cn", "sn", "mail")
	require.NoError(t, err)

	decoded, err := DecodeChangelogBatchChangeSelectionCriteria(criteria.Encode().Bytes())
	require.NoError(t, err)

	all, ok := decoded.(*AllAttributesChangeSelectionCriteria)
	require.True(t, ok)
	assert.Equal(t, []string{"cn", "sn", "mail"}, all.AttributeNames())
}

func TestAllAttributesChangeSelectionCriteria_Validation(t *testing.T) {
	t.Run("no names", func(t *testing.T) {
		_, err := NewAllAttributesChangeSelectionCriteria()
		require.Error(t, err)
		assert.True(t, IsUsageError(err))
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewAllAttributesChangeSelectionCriteria("cn", "")
		require.Error(t, err)
		assert.True(t, IsUsageError(err))
	})

	t.Run("returned names are a copy", func(t *testing.T) {
		criteria, err := NewAllAttributesChangeSelectionCriteria("cn")
		require.NoError(t, err)

		names := criteria.AttributeNames()
		names[0] = "mutated"
		assert.Equal(t, []string{"cn"}, criteria.AttributeNames())
	})
}

func TestIgnoreAttributesChangeSelectionCriteria_RoundTrip(t *testing.T) {
	tests := []struct {
		name              string
		ignoreOperational bool
		attributeNames    []string
	}{
		{name: "with names", ignoreOperational: true, attributeNames: []string{"modifyTimestamp", "entryUUID"}},
		{name: "operational only", ignoreOperational: true, attributeNames: nil},
		{name: "nothing ignored", ignoreOperational: false, attributeNames: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			criteria, err := NewIgnoreAttributesChangeSelectionCriteria(tt.ignoreOperational, tt.attributeNames...)
			require.NoError(t, err)

			decoded, err := DecodeChangelogBatchChangeSelectionCriteria(criteria.Encode().Bytes())
			require.NoError(t, err)

			ignore, ok := decoded.(*IgnoreAttributesChangeSelectionCriteria)
			require.True(t, ok)
			assert.Equal(t, tt.ignoreOperational, ignore.IgnoreOperationalAttributes())
			assert.ElementsMatch(t, tt.attributeNames, ignore.AttributeNames())
		})
	}
}

func TestDecodeChangelogBatchChangeSelectionCriteria_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		value []byte
	}{
		{name: "empty input", value: []byte{}},
		{
			name: "unrecognized discriminant tag",
			value: func() []byte {
				return berutil.NewContextSequence(7, "bogus").Bytes()
			}(),
		},
		{
			name:  "universal sequence instead of context element",
			value: berutil.NewSequence("plain").Bytes(),
		},
		{
			name: "all attributes with no names",
			value: func() []byte {
				return berutil.NewContextSequence(2, "all").Bytes()
			}(),
		},
		{
			name: "all attributes with context-tagged name",
			value: func() []byte {
				p := berutil.NewContextSequence(2, "all")
				p.AppendChild(berutil.NewStringField(0, "cn", "name"))
				return p.Bytes()
			}(),
		},
		{
			name: "ignore attributes missing name list",
			value: func() []byte {
				p := berutil.NewContextSequence(3, "ignore")
				p.AppendChild(berutil.NewBooleanField(0, true, "operational"))
				return p.Bytes()
			}(),
		},
		{
			name: "trailing bytes",
			value: func() []byte {
				p := berutil.NewContextSequence(3, "ignore")
				p.AppendChild(berutil.NewBooleanField(0, true, "operational"))
				p.AppendChild(berutil.NewContextSequence(1, "names"))
				return append(p.Bytes(), 0xAB)
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeChangelogBatchChangeSelectionCriteria(tt.value)
			require.Error(t, err)
			assert.True(t, IsDecodeError(err))
		})
	}
}
