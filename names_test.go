package cursorpagination

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NameMapping_Register(t *testing.T) {
	tests := []struct {
		name     string
		internal string
		public   string
		ok       bool
	}{
		{"same pair again", "id", "public_id", true},
		{"new pair", "score", "public_score", true},
		{"empty internal", "", "public_x", false},
		{"empty public", "x", "", false},
		{"internal reused", "id", "other_id", false},
		{"public reused", "other", "public_id", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names := NewNameMapping()
			require.NoError(t, names.Register("id", "public_id", nil))

			err := names.Register(tt.internal, tt.public, nil)
			if !tt.ok {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			public, err := names.ToPublic(tt.internal)
			require.NoError(t, err)
			assert.Equal(t, tt.public, public)

			internal, err := names.ToPrivate(tt.public)
			require.NoError(t, err)
			assert.Equal(t, tt.internal, internal)
		})
	}
}

func Test_NameMapping_Lookup(t *testing.T) {
	names := NewNameMapping()
	require.NoError(t, names.Register("id", "public_id", IntConverter{}))
	require.NoError(t, names.Register("name", "public_name", nil))

	_, err := names.ToPublic("public_id")
	var notRegistered *ColumnNotRegisteredError
	require.True(t, errors.As(err, &notRegistered))
	assert.Equal(t, SideInternal, notRegistered.Side)
	assert.ErrorIs(t, err, ErrColumnNotRegistered)

	_, err = names.ToPrivate("id")
	require.True(t, errors.As(err, &notRegistered))
	assert.Equal(t, SidePublic, notRegistered.Side)
	assert.Contains(t, err.Error(), "property 'id' could not be found")

	assert.Equal(t, []string{"public_id", "public_name"}, names.PublicNames())

	_, ok := names.Converter("id")
	assert.True(t, ok)
	_, ok = names.Converter("name")
	assert.False(t, ok)

	value, err := names.convert("id", "12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), value)

	value, err = names.convert("name", 12)
	require.NoError(t, err)
	assert.Equal(t, 12, value)

	// Re-registering without a converter drops it.
	require.NoError(t, names.Register("id", "public_id", nil))
	_, ok = names.Converter("id")
	assert.False(t, ok)
}

func Test_NameMapping_Clone(t *testing.T) {
	names := NewNameMapping()
	require.NoError(t, names.Register("id", "public_id", nil))

	clone := names.Clone()
	require.NoError(t, clone.Register("score", "public_score", nil))

	_, err := names.ToPublic("score")
	require.ErrorIs(t, err, ErrColumnNotRegistered)

	var nilNames *NameMapping
	assert.Empty(t, nilNames.PublicNames())
	assert.NotNil(t, nilNames.Clone())
	_, err = nilNames.ToPrivate("public_id")
	require.ErrorIs(t, err, ErrColumnNotRegistered)
}
