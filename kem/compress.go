package kem

import (
	"github.com/latticeworks/mlpq-go/ring"
)

// compress maps a reduced coefficient to d bits by rounding x * 2^d / q
// to the nearest integer mod 2^d.
func compress(r *ring.Ring, x uint32, d int) uint32 {
	q := uint64(r.Q)
	return uint32((uint64(x)<<d + q/2) / q) & (1<<d - 1)
}

// decompress is the pseudo-inverse of compress: it maps d bits back to
// the nearest coefficient, with rounding error at most q / 2^(d+1).
func decompress(r *ring.Ring, y uint32, d int) uint32 {
	return uint32((uint64(y)*uint64(r.Q) + 1<<(d-1)) >> d)
}

func compressPoly(r *ring.Ring, p ring.Poly, d int) []uint32 {
	out := make([]uint32, r.N)
	for i, c := range p {
		out[i] = compress(r, c, d)
	}
	return out
}

func decompressPoly(r *ring.Ring, vals []uint32, d int) ring.Poly {
	p := r.NewPoly()
	for i, v := range vals {
		p[i] = decompress(r, v, d)
	}
	return p
}

// encodeMessage maps each of the 256 message bits to a coefficient:
// zero bits to 0, one bits to the rounded q/2.
func encodeMessage(r *ring.Ring, msg []byte) ring.Poly {
	p := r.NewPoly()
	half := (r.Q + 1) / 2
	for i := 0; i < r.N; i++ {
		bit := uint32(msg[i>>3]>>(i&7)) & 1
		p[i] = bit * half
	}
	return p
}

// decodeMessage recovers the message bits by rounding each coefficient
// to the nearer of 0 and q/2. This is compression to a single bit.
func decodeMessage(r *ring.Ring, p ring.Poly) []byte {
	msg := make([]byte, r.N/8)
	for i, c := range p {
		bit := compress(r, c, 1)
		msg[i>>3] |= byte(bit) << (i & 7)
	}
	return msg
}
