// Package pack implements canonical fixed-width bit-packing of
// coefficient sequences. It defines the wire contract for every key,
// ciphertext and signature: encoding is fully determined by the value
// count and bit width, and decoding is its strict inverse, rejecting any
// buffer whose length does not match.
package pack

import (
	"fmt"

	mlpq "github.com/latticeworks/mlpq-go"
)

// Size returns the number of bytes occupied by count values of the
// given bit width. count*width must be a multiple of 8; every layout in
// this module satisfies that by construction.
func Size(count, width int) int {
	if count*width%8 != 0 {
		panic("pack: layout is not byte aligned")
	}
	return count * width / 8
}

// Bits packs each value of src into width little-endian bits. Values
// must already be reduced below 2^width; higher bits are a programming
// error and are masked off.
func Bits(src []uint32, width int) []byte {
	out := make([]byte, Size(len(src), width))
	mask := uint64(1)<<width - 1
	var acc uint64
	accBits := 0
	pos := 0
	for _, v := range src {
		acc |= (uint64(v) & mask) << accBits
		accBits += width
		for accBits >= 8 {
			out[pos] = byte(acc)
			acc >>= 8
			accBits -= 8
			pos++
		}
	}
	return out
}

// UnpackBits is the strict inverse of Bits. It returns
// mlpq.ErrMalformedInput if the buffer length does not match the
// expected count*width/8 bytes.
func UnpackBits(b []byte, count, width int) ([]uint32, error) {
	want := Size(count, width)
	if len(b) != want {
		return nil, fmt.Errorf("%w: buffer length %d, want %d", mlpq.ErrMalformedInput, len(b), want)
	}
	out := make([]uint32, count)
	mask := uint64(1)<<width - 1
	var acc uint64
	accBits := 0
	pos := 0
	for i := 0; i < count; i++ {
		for accBits < width {
			acc |= uint64(b[pos]) << accBits
			pos++
			accBits += 8
		}
		out[i] = uint32(acc & mask)
		acc >>= width
		accBits -= width
	}
	return out, nil
}
