package cursorpagination

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Cursor_Encode(t *testing.T) {
	cursor := NewCursor(
		CursorEntry{Column: "public_name", Direction: DirectionDESC, Value: "X is for Xen"},
		CursorEntry{Column: "public_id", Direction: DirectionASC, Value: "24"},
	)

	token, err := cursor.Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "eyIhcHVibGljX25hbWUiOiJYIGlzIGZvciBYZW4iLCJwdWJsaWNfaWQiOiIyNCJ9", token)
	assert.Equal(t, token, cursor.String())

	raw, err := base64.StdEncoding.DecodeString(token)
	require.NoError(t, err)
	assert.Equal(t, `{"!public_name":"X is for Xen","public_id":"24"}`, string(raw))

	// HTML characters are written as is.
	token, err = NewCursor(CursorEntry{Column: "public_name", Direction: DirectionASC, Value: "Tom & Jerry <3>"}).Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte(`{"public_name":"Tom & Jerry <3>"}`)), token)

	empty, err := NewCursor().Encode(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = NewCursor(CursorEntry{Column: "c", Value: make(chan int)}).Encode(nil)
	require.Error(t, err)
}

func Test_DecodeCursor(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    []CursorEntry
		wantNil bool
		wantErr bool
	}{
		{
			name:    "empty token",
			token:   "",
			wantNil: true,
		},
		{
			name:  "order and direction are kept",
			token: "eyIhcHVibGljX25hbWUiOiJYIGlzIGZvciBYZW4iLCJwdWJsaWNfaWQiOiIyNCJ9",
			want: []CursorEntry{
				{Column: "public_name", Direction: DirectionDESC, Value: "X is for Xen"},
				{Column: "public_id", Direction: DirectionASC, Value: "24"},
			},
		},
		{
			name:  "integral number",
			token: "eyJwdWJsaWNfaWQiOjI0fQ==",
			want:  []CursorEntry{{Column: "public_id", Direction: DirectionASC, Value: int64(24)}},
		},
		{
			name:  "unpadded",
			token: "eyJwdWJsaWNfaWQiOjI0fQ",
			want:  []CursorEntry{{Column: "public_id", Direction: DirectionASC, Value: int64(24)}},
		},
		{
			name:  "fraction and null",
			token: base64.StdEncoding.EncodeToString([]byte(`{"public_score":1.5,"public_name":null}`)),
			want: []CursorEntry{
				{Column: "public_score", Direction: DirectionASC, Value: 1.5},
				{Column: "public_name", Direction: DirectionASC, Value: nil},
			},
		},
		{name: "not base64", token: "%%%", wantErr: true},
		{name: "not json", token: base64.StdEncoding.EncodeToString([]byte(`id=1`)), wantErr: true},
		{name: "array", token: base64.StdEncoding.EncodeToString([]byte(`[1]`)), wantErr: true},
		{name: "empty object", token: base64.StdEncoding.EncodeToString([]byte(`{}`)), wantErr: true},
		{name: "trailing data", token: base64.StdEncoding.EncodeToString([]byte(`{"a":1}{}`)), wantErr: true},
		{name: "duplicate column", token: base64.StdEncoding.EncodeToString([]byte(`{"a":1,"!a":2}`)), wantErr: true},
		{name: "bare marker", token: base64.StdEncoding.EncodeToString([]byte(`{"!":1}`)), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cursor, err := DecodeCursor(tt.token)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrCursorDecode)
				assert.Equal(t, ErrCursorDecode.Error(), err.Error())
				assert.Nil(t, cursor)
				return
			}

			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, cursor)
				assert.True(t, cursor.IsEmpty())
				return
			}
			assert.Equal(t, tt.want, cursor.GetEntries())
		})
	}
}

func Test_DecodeCursor_Alphabets(t *testing.T) {
	cursor := NewCursor(
		CursorEntry{Column: "public_name", Direction: DirectionASC, Value: "??~~??"},
		CursorEntry{Column: "public_id", Direction: DirectionDESC, Value: int64(1)},
	)

	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.RawURLEncoding,
	} {
		token, err := cursor.Encode(enc)
		require.NoError(t, err)

		decoded, err := DecodeCursor(token)
		require.NoError(t, err, token)
		assert.Equal(t, cursor.GetEntries(), decoded.GetEntries())
	}
}

func Test_Spec_Encode_Decode(t *testing.T) {
	spec := mustBuild(t, newEntrySpecBuilder().
		WithSort(
			OrderBy{Column: "name", Direction: DirectionDESC},
			OrderBy{Column: "id", Direction: DirectionASC},
		))

	t.Run("round trip", func(t *testing.T) {
		token, err := spec.Encode(MapRow{"name": "X is for Xen", "id": "24", "score": 3})
		require.NoError(t, err)
		assert.Equal(t, "eyIhcHVibGljX25hbWUiOiJYIGlzIGZvciBYZW4iLCJwdWJsaWNfaWQiOiIyNCJ9", token)

		cursor, err := spec.Decode(token)
		require.NoError(t, err)

		bounds, err := spec.resolveBoundaries(cursor)
		require.NoError(t, err)
		assert.Equal(t, []boundary{
			{OrderBy: OrderBy{Column: "name", Direction: DirectionDESC}, Value: "X is for Xen"},
			{OrderBy: OrderBy{Column: "id", Direction: DirectionASC}, Value: int64(24)},
		}, bounds)
	})

	t.Run("nil values are left out", func(t *testing.T) {
		cursor, err := spec.CursorOf(MapRow{"name": nil, "id": 7})
		require.NoError(t, err)
		assert.Equal(t, []CursorEntry{{Column: "public_id", Direction: DirectionASC, Value: 7}}, cursor.GetEntries())

		// Such a cursor no longer matches the sort.
		token, err := cursor.Encode(nil)
		require.NoError(t, err)
		_, err = spec.NewPager(Request{After: token}).Build()
		require.ErrorIs(t, err, ErrCursorMismatch)
	})

	t.Run("empty row", func(t *testing.T) {
		token, err := spec.Encode(MapRow{})
		require.NoError(t, err)
		assert.Empty(t, token)
	})

	t.Run("configured alphabet", func(t *testing.T) {
		urlSpec := mustBuild(t, spec.ToBuilder().WithEncoding(base64.RawURLEncoding))

		token, err := urlSpec.Encode(MapRow{"name": "??~~??", "id": 1})
		require.NoError(t, err)
		assert.NotContains(t, token, "=")
		assert.NotContains(t, token, "+")
		assert.NotContains(t, token, "/")

		// Other specs still accept it.
		_, err = spec.NewPager(Request{After: token}).Build()
		require.NoError(t, err)
	})
}
