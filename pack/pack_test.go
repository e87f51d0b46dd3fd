package pack

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	mlpq "github.com/latticeworks/mlpq-go"
)

func TestBitsRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, width := range []int{1, 3, 4, 5, 10, 11, 12, 13, 18, 20, 23} {
		src := make([]uint32, 256)
		for i := range src {
			src[i] = rng.Uint32() & (1<<width - 1)
		}
		b := Bits(src, width)
		require.Len(t, b, 256*width/8)

		got, err := UnpackBits(b, len(src), width)
		require.NoError(t, err)
		require.Equal(t, src, got, "width %d", width)
	}
}

func TestUnpackBits_WrongLength(t *testing.T) {
	b := Bits(make([]uint32, 256), 10)

	_, err := UnpackBits(b[:len(b)-1], 256, 10)
	require.ErrorIs(t, err, mlpq.ErrMalformedInput)

	_, err = UnpackBits(append(b, 0), 256, 10)
	require.ErrorIs(t, err, mlpq.ErrMalformedInput)

	_, err = UnpackBits(nil, 256, 10)
	require.True(t, errors.Is(err, mlpq.ErrMalformedInput))
}

func TestBits_MasksHighBits(t *testing.T) {
	src := []uint32{0xFFFFFFFF, 0, 0xFFFFFFFF, 0, 0xFFFFFFFF, 0, 0xFFFFFFFF, 0}
	b := Bits(src, 3)
	got, err := UnpackBits(b, len(src), 3)
	require.NoError(t, err)
	require.Equal(t, []uint32{7, 0, 7, 0, 7, 0, 7, 0}, got)
}

func TestSize_PanicsOnUnalignedLayout(t *testing.T) {
	require.Panics(t, func() { Size(3, 3) })
}
