package sign

import (
	mlpq "github.com/latticeworks/mlpq-go"
	"github.com/latticeworks/mlpq-go/ring"
)

// Rounding primitives over centered representatives. Inputs are ring
// coefficients in [0, q); the centered intermediate values all fit in
// int32 for the 23-bit signature modulus.

// power2Round splits a into (a1, a0) with a = a1*2^d + a0 and a0 in
// (-2^(d-1), 2^(d-1)]. a1 is returned directly, a0 as a ring coefficient.
func power2Round(r *ring.Ring, a uint32, d int) (uint32, uint32) {
	half := int32(1) << (d - 1)
	a0 := int32(a) & (1<<d - 1)
	if a0 > half {
		a0 -= 1 << d
	}
	a1 := (int32(a) - a0) >> d
	return uint32(a1), r.ReduceCentered(a0)
}

// power2RoundVec applies power2Round coefficient-wise. The high parts
// are plain small integers, the low parts ring coefficients.
func power2RoundVec(r *ring.Ring, t ring.PolyVec, d int) (ring.PolyVec, ring.PolyVec) {
	t1 := make(ring.PolyVec, len(t))
	t0 := make(ring.PolyVec, len(t))
	for i := range t {
		t1[i] = r.NewPoly()
		t0[i] = r.NewPoly()
		for j, c := range t[i] {
			t1[i][j], t0[i][j] = power2Round(r, c, d)
		}
	}
	return t1, t0
}

// decompose splits a into (a1, a0) with a = a1*(2*gamma2) + a0 and a0 in
// (-gamma2, gamma2], folding the wrap-around case a - a0 = q - 1 onto
// a1 = 0 so that a1 ranges over [0, (q-1)/(2*gamma2)).
func decompose(r *ring.Ring, a uint32, gamma2 int) (uint32, int32) {
	g2 := int32(2 * gamma2)
	a0 := int32(a) % g2
	if a0 > g2/2 {
		a0 -= g2
	}
	if int32(a)-a0 == int32(r.Q)-1 {
		return 0, a0 - 1
	}
	return uint32((int32(a) - a0) / g2), a0
}

// highBits returns the a1 part of decompose.
func highBits(r *ring.Ring, a uint32, gamma2 int) uint32 {
	a1, _ := decompose(r, a, gamma2)
	return a1
}

// highBitsVec applies highBits coefficient-wise.
func highBitsVec(r *ring.Ring, v ring.PolyVec, gamma2 int) ring.PolyVec {
	out := make(ring.PolyVec, len(v))
	for i := range v {
		out[i] = r.NewPoly()
		for j, c := range v[i] {
			out[i][j] = highBits(r, c, gamma2)
		}
	}
	return out
}

// lowBitsNormVec returns the maximum |a0| across the vector.
func lowBitsNormVec(r *ring.Ring, v ring.PolyVec, gamma2 int) int32 {
	var max int32
	for i := range v {
		for _, c := range v[i] {
			_, a0 := decompose(r, c, gamma2)
			if a0 < 0 {
				a0 = -a0
			}
			if a0 > max {
				max = a0
			}
		}
	}
	return max
}

// makeHint returns 1 when adding z to w changes the high bits of w.
// z and w are ring coefficients.
func makeHint(r *ring.Ring, z, w uint32, gamma2 int) uint32 {
	if highBits(r, w, gamma2) != highBits(r, r.AddMod(w, z), gamma2) {
		return 1
	}
	return 0
}

// makeHintVec computes the hint vector for z against w and its total
// weight.
func makeHintVec(r *ring.Ring, z, w ring.PolyVec, gamma2 int) (ring.PolyVec, int) {
	h := make(ring.PolyVec, len(w))
	weight := 0
	for i := range w {
		h[i] = r.NewPoly()
		for j := range w[i] {
			bit := makeHint(r, z[i][j], w[i][j], gamma2)
			h[i][j] = bit
			weight += int(bit)
		}
	}
	return h, weight
}

// useHint recovers the high bits of the signer's commitment from the
// hinted coefficient: the hint bit says whether to step a1 up or down,
// directed by the sign of the low part.
func useHint(r *ring.Ring, hint, a uint32, gamma2 int) uint32 {
	m := uint32((int(r.Q) - 1) / (2 * gamma2))
	a1, a0 := decompose(r, a, gamma2)
	if hint == 0 {
		return a1
	}
	if a0 > 0 {
		return (a1 + 1) % m
	}
	return (a1 + m - 1) % m
}

// useHintVec applies useHint coefficient-wise.
func useHintVec(r *ring.Ring, h, v ring.PolyVec, gamma2 int) ring.PolyVec {
	out := make(ring.PolyVec, len(v))
	for i := range v {
		out[i] = r.NewPoly()
		for j, c := range v[i] {
			out[i][j] = useHint(r, h[i][j], c, gamma2)
		}
	}
	return out
}

// infNormCenteredVec returns the maximum absolute centered coefficient.
func infNormCenteredVec(r *ring.Ring, v ring.PolyVec) int32 {
	var max int32
	for i := range v {
		for _, c := range v[i] {
			a := r.Centered(c)
			if a < 0 {
				a = -a
			}
			if a > max {
				max = a
			}
		}
	}
	return max
}

// w1Bits is the packed width of a high-bits coefficient, which ranges
// over [0, (q-1)/(2*gamma2)).
func w1Bits(p mlpq.SigParams) int {
	m := (p.Q - 1) / (2 * p.Gamma2)
	bits := 0
	for v := m - 1; v > 0; v >>= 1 {
		bits++
	}
	return bits
}
