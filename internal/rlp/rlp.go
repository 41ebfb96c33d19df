// Package rlp decodes Recursive Length Prefix data and recovers client
// identity strings from execution-layer extra-data fields.
package rlp

import (
	"fmt"
)

// Item is a decoded RLP item: a byte-string, or an ordered list of items.
type Item struct {
	IsList bool
	Bytes  []byte
	List   []Item
}

// Decode decodes a single RLP item from input. Trailing bytes after the first
// item are an error; so is a declared length running past the end of input.
func Decode(input []byte) (Item, error) {
	item, rest, err := decodeItem(input)
	if err != nil {
		return Item{}, err
	}
	if len(rest) != 0 {
		return Item{}, fmt.Errorf("rlp: %d trailing bytes after item", len(rest))
	}
	return item, nil
}

func decodeItem(b []byte) (Item, []byte, error) {
	if len(b) == 0 {
		return Item{}, nil, fmt.Errorf("rlp: unexpected end of input")
	}
	prefix := b[0]
	switch {
	case prefix < 0x80:
		// Single byte literal.
		return Item{Bytes: b[:1]}, b[1:], nil

	case prefix <= 0xb7:
		// Short string: length in the prefix itself.
		return decodeString(b[1:], uint64(prefix-0x80))

	case prefix <= 0xbf:
		// Long string: big-endian length follows the prefix.
		length, rest, err := decodeLength(b[1:], int(prefix-0xb7))
		if err != nil {
			return Item{}, nil, err
		}
		return decodeString(rest, length)

	case prefix <= 0xf7:
		// Short list.
		return decodeList(b[1:], uint64(prefix-0xc0))

	default:
		// Long list.
		length, rest, err := decodeLength(b[1:], int(prefix-0xf7))
		if err != nil {
			return Item{}, nil, err
		}
		return decodeList(rest, length)
	}
}

func decodeLength(b []byte, lenOfLen int) (uint64, []byte, error) {
	if len(b) < lenOfLen {
		return 0, nil, fmt.Errorf("rlp: truncated length field")
	}
	if lenOfLen > 8 {
		return 0, nil, fmt.Errorf("rlp: length field of %d bytes too large", lenOfLen)
	}
	var length uint64
	for _, c := range b[:lenOfLen] {
		length = length<<8 | uint64(c)
	}
	return length, b[lenOfLen:], nil
}

func decodeString(b []byte, length uint64) (Item, []byte, error) {
	if uint64(len(b)) < length {
		return Item{}, nil, fmt.Errorf("rlp: string length %d exceeds remaining %d bytes", length, len(b))
	}
	return Item{Bytes: b[:length]}, b[length:], nil
}

func decodeList(b []byte, length uint64) (Item, []byte, error) {
	if uint64(len(b)) < length {
		return Item{}, nil, fmt.Errorf("rlp: list length %d exceeds remaining %d bytes", length, len(b))
	}
	payload := b[:length]
	item := Item{IsList: true, List: []Item{}}
	for len(payload) > 0 {
		child, rest, err := decodeItem(payload)
		if err != nil {
			return Item{}, nil, err
		}
		item.List = append(item.List, child)
		payload = rest
	}
	return item, b[length:], nil
}
