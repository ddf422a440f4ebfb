// Package codec holds the byte-range helpers and the wire layout used to hand
// key/value pairs across the iterator boundary.
//
// An encoded pair is one contiguous buffer:
//
//	[0:2]  key length, little endian
//	[2:4]  key length rounded up to a multiple of 4, little endian
//	[4:4+padded]  key bytes followed by zero padding
//	[4+padded:]   value bytes
//
// The padding keeps the value 4-byte aligned for the receiver.
package codec

import (
	"encoding/binary"
	"errors"
)

const (
	HeaderSize = 4
	// MaxKeySize is the longest key whose padded length still fits the header.
	MaxKeySize = 0xFFFF &^ 3
)

var (
	ErrKeyTooLong   = errors.New("codec: key too long for pair encoding")
	ErrShortBuffer  = errors.New("codec: buffer shorter than pair header")
	ErrBadKeyLength = errors.New("codec: key length does not match padded length")
)

// AlignUp4 rounds n up to the next multiple of 4.
func AlignUp4(n int) int {
	return (n + 3) &^ 3
}

// EncodedLen returns the size of the buffer EncodePair produces.
func EncodedLen(key, value []byte) int {
	return HeaderSize + AlignUp4(len(key)) + len(value)
}

// EncodePair lays key and value out in a freshly allocated buffer.
func EncodePair(key, value []byte) ([]byte, error) {
	if len(key) > MaxKeySize {
		return nil, ErrKeyTooLong
	}
	padded := AlignUp4(len(key))
	buf := make([]byte, HeaderSize+padded+len(value))
	binary.LittleEndian.PutUint16(buf[0:2], uint16(len(key)))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(padded))
	copy(buf[HeaderSize:], key)
	copy(buf[HeaderSize+padded:], value)
	return buf, nil
}

// DecodePair returns views of the key and value inside buf. The returned slices
// alias buf.
func DecodePair(buf []byte) (key, value []byte, err error) {
	if len(buf) < HeaderSize {
		return nil, nil, ErrShortBuffer
	}
	keyLen := int(binary.LittleEndian.Uint16(buf[0:2]))
	padded := int(binary.LittleEndian.Uint16(buf[2:4]))
	if padded != AlignUp4(keyLen) || len(buf) < HeaderSize+padded {
		return nil, nil, ErrBadKeyLength
	}
	key = buf[HeaderSize : HeaderSize+keyLen]
	value = buf[HeaderSize+padded:]
	return key, value, nil
}
