// Package sample derives ring elements deterministically from seeds via
// domain-separated extendable output functions. No function here ever
// consults an ambient random source: identical (seed, index) inputs
// always yield identical output, which is what makes keys reproducible
// and known-answer tests possible.
package sample

import (
	"golang.org/x/crypto/sha3"

	"github.com/latticeworks/mlpq-go/ring"
)

const shake128Rate = 168

// UniformPoly samples an NTT-domain polynomial with uniform coefficients
// in [0, q) by rejection sampling on a SHAKE128 stream seeded with
// seed || x || y. Chunks of ceil(bits(q)/8) bytes are masked down to
// bits(q) bits and rejected when >= q.
func UniformPoly(r *ring.Ring, seed []byte, x, y byte) ring.Poly {
	h := sha3.NewShake128()
	h.Write(seed)
	h.Write([]byte{x, y})

	chunk := (r.Bits + 7) / 8
	mask := uint32(1)<<r.Bits - 1

	var buf [shake128Rate]byte
	p := r.NewPoly()
	j := 0
	for {
		_, _ = h.Read(buf[:])
		for i := 0; i+chunk <= len(buf) && j < r.N; i += chunk {
			var d uint32
			for b := 0; b < chunk; b++ {
				d |= uint32(buf[i+b]) << (8 * b)
			}
			d &= mask
			if d < r.Q {
				p[j] = d
				j++
			}
		}
		if j == r.N {
			return p
		}
	}
}

// UniformMatrix expands seed into a rows x cols matrix of NTT-domain
// polynomials. Cell (i, j) is sampled from seed || j || i; with
// transposed set, from seed || i || j, which yields the transpose of the
// untransposed matrix without re-expanding it.
func UniformMatrix(r *ring.Ring, seed []byte, rows, cols int, transposed bool) ring.PolyMat {
	m := make(ring.PolyMat, rows)
	for i := 0; i < rows; i++ {
		m[i] = make(ring.PolyVec, cols)
		for j := 0; j < cols; j++ {
			if transposed {
				m[i][j] = UniformPoly(r, seed, byte(i), byte(j))
			} else {
				m[i][j] = UniformPoly(r, seed, byte(j), byte(i))
			}
		}
	}
	return m
}

// NoisePoly samples a polynomial from the centered binomial distribution
// with parameter eta: each coefficient is the difference of two sums of
// eta uniform bits drawn from SHAKE256(seed || nonce).
func NoisePoly(r *ring.Ring, seed []byte, nonce byte, eta int) ring.Poly {
	h := sha3.NewShake256()
	h.Write(seed)
	h.Write([]byte{nonce})

	buf := make([]byte, eta*r.N/4)
	_, _ = h.Read(buf)

	p := r.NewPoly()
	bit := 0
	next := func() int32 {
		b := int32(buf[bit>>3]>>(bit&7)) & 1
		bit++
		return b
	}
	for i := 0; i < r.N; i++ {
		var a, b int32
		for t := 0; t < eta; t++ {
			a += next()
		}
		for t := 0; t < eta; t++ {
			b += next()
		}
		p[i] = r.ReduceCentered(a - b)
	}
	return p
}

// NoiseVec samples k centered binomial polynomials with consecutive
// nonces starting at nonce.
func NoiseVec(r *ring.Ring, seed []byte, nonce byte, k, eta int) ring.PolyVec {
	v := make(ring.PolyVec, k)
	for i := 0; i < k; i++ {
		v[i] = NoisePoly(r, seed, nonce+byte(i), eta)
	}
	return v
}
