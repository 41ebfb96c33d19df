package rlp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	cases := []struct {
		name    string
		input   []byte
		want    Item
		wantErr string
	}{
		{
			name:  "single byte literal",
			input: []byte{0x41},
			want:  Item{Bytes: []byte{0x41}},
		},
		{
			name:  "empty string",
			input: []byte{0x80},
			want:  Item{Bytes: []byte{}},
		},
		{
			name:  "short string",
			input: []byte{0x84, 'r', 'e', 't', 'h'},
			want:  Item{Bytes: []byte("reth")},
		},
		{
			name:  "long string",
			input: append([]byte{0xb8, 56}, bytes.Repeat([]byte{'a'}, 56)...),
			want:  Item{Bytes: bytes.Repeat([]byte{'a'}, 56)},
		},
		{
			name:  "empty list",
			input: []byte{0xc0},
			want:  Item{IsList: true, List: []Item{}},
		},
		{
			name:  "short list of strings",
			input: []byte{0xc8, 0x83, 'c', 'a', 't', 0x83, 'd', 'o', 'g'},
			want: Item{IsList: true, List: []Item{
				{Bytes: []byte("cat")},
				{Bytes: []byte("dog")},
			}},
		},
		{
			name:  "nested list",
			input: []byte{0xc7, 0xc2, 0x01, 0x02, 0x83, 0x01, 0x02, 0x03},
			want: Item{IsList: true, List: []Item{
				{IsList: true, List: []Item{
					{Bytes: []byte{0x01}},
					{Bytes: []byte{0x02}},
				}},
				{Bytes: []byte{0x01, 0x02, 0x03}},
			}},
		},
		{
			name:    "empty input",
			input:   []byte{},
			wantErr: "unexpected end of input",
		},
		{
			name:    "string length past end of input",
			input:   []byte{0x83, 0x01},
			wantErr: "exceeds remaining",
		},
		{
			name:    "list length past end of input",
			input:   []byte{0xc5, 0x01},
			wantErr: "exceeds remaining",
		},
		{
			name:    "truncated long length field",
			input:   []byte{0xb9, 0x01},
			wantErr: "truncated length field",
		},
		{
			name:    "trailing bytes",
			input:   []byte{0x81, 0x61, 0x62},
			wantErr: "trailing bytes",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item, err := Decode(tc.input)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, item)
		})
	}
}

func TestDecodeLongList(t *testing.T) {
	// 60 single-byte items need a long list header.
	payload := bytes.Repeat([]byte{0x01}, 60)
	input := append([]byte{0xf8, 60}, payload...)

	item, err := Decode(input)
	require.NoError(t, err)
	assert.True(t, item.IsList)
	assert.Len(t, item.List, 60)
	assert.Equal(t, []byte{0x01}, item.List[0].Bytes)
}
