package serial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextDecoder(t *testing.T) {
	tests := []struct {
		name    string
		chunks  []string
		want    []string
		wantErr []bool
		pending int
	}{
		{
			name:   "ascii",
			chunks: []string{"hello", " world"},
			want:   []string{"hello", " world"},
		},
		{
			name:   "complete multibyte",
			chunks: []string{"23.5°C"},
			want:   []string{"23.5°C"},
		},
		{
			name:    "two byte split",
			chunks:  []string{"23.5\xc2", "\xb0C"},
			want:    []string{"23.5", "°C"},
			pending: 0,
		},
		{
			name:    "only a prefix",
			chunks:  []string{"\xf0\x9f"},
			want:    []string{""},
			pending: 2,
		},
		{
			name:   "four byte split three ways",
			chunks: []string{"\xf0", "\x9f\x93", "\xa1"},
			want:   []string{"", "", "📡"},
		},
		{
			name:    "invalid byte",
			chunks:  []string{"ok\xffok", "fine"},
			want:    []string{"", "fine"},
			wantErr: []bool{true, false},
		},
		{
			name:    "bad continuation after carry",
			chunks:  []string{"\xe6", "A"},
			want:    []string{"", ""},
			wantErr: []bool{false, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTextDecoder(true)
			for i, chunk := range tt.chunks {
				got, err := d.Decode([]byte(chunk))
				if tt.wantErr != nil && tt.wantErr[i] {
					assert.ErrorIs(t, err, ErrDecode, "chunk %d", i)
				} else {
					require.NoError(t, err, "chunk %d", i)
				}
				assert.Equal(t, tt.want[i], got, "chunk %d", i)
			}
			assert.Equal(t, tt.pending, d.Pending())
		})
	}
}

func TestTextDecoderWithoutCarry(t *testing.T) {
	d := newTextDecoder(false)

	_, err := d.Decode([]byte("23.5\xc2"))
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, 5, decodeErr.Bytes)
	assert.Zero(t, d.Pending())

	got, err := d.Decode([]byte("fine"))
	require.NoError(t, err)
	assert.Equal(t, "fine", got)
}

func TestTextDecoderReset(t *testing.T) {
	d := newTextDecoder(true)

	_, err := d.Decode([]byte("\xe6\xb8"))
	require.NoError(t, err)
	require.Equal(t, 2, d.Pending())

	d.Reset()
	assert.Zero(t, d.Pending())

	_, err = d.Decode([]byte("\xa9"))
	assert.ErrorIs(t, err, ErrDecode, "a lone continuation byte is invalid once the carry is gone")
}
