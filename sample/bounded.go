package sample

import (
	"golang.org/x/crypto/sha3"

	"github.com/latticeworks/mlpq-go/ring"
)

const shake256Rate = 136

// BoundedPoly samples a polynomial with coefficients in [-eta, eta] by
// rejection sampling half-bytes of SHAKE256(seed || nonce). Supported
// eta values are 2 and 4; anything else is a parameter-set bug.
func BoundedPoly(r *ring.Ring, seed []byte, nonce uint16, eta int) ring.Poly {
	if eta != 2 && eta != 4 {
		panic("sample: bounded sampling supports eta 2 or 4")
	}

	h := sha3.NewShake256()
	h.Write(seed)
	h.Write([]byte{byte(nonce), byte(nonce >> 8)})

	var buf [shake256Rate]byte
	p := r.NewPoly()
	j := 0
	offset := len(buf)

	accept := func(z byte) bool {
		if j == r.N {
			return true
		}
		if eta == 2 {
			if z >= 15 {
				return false
			}
			p[j] = r.ReduceCentered(2 - int32(z%5))
		} else {
			if z > 8 {
				return false
			}
			p[j] = r.ReduceCentered(4 - int32(z))
		}
		j++
		return true
	}

	for j < r.N {
		if offset == len(buf) {
			_, _ = h.Read(buf[:])
			offset = 0
		}
		b := buf[offset]
		offset++
		accept(b & 0x0f)
		accept(b >> 4)
	}
	return p
}

// BoundedVec samples count bounded polynomials with consecutive nonces
// starting at nonce.
func BoundedVec(r *ring.Ring, seed []byte, nonce uint16, count, eta int) ring.PolyVec {
	v := make(ring.PolyVec, count)
	for i := 0; i < count; i++ {
		v[i] = BoundedPoly(r, seed, nonce+uint16(i), eta)
	}
	return v
}

// MaskPoly samples a polynomial with coefficients in
// [-2^gamma1Bits + 1, 2^gamma1Bits] from SHAKE256(seed || nonce), using
// gamma1Bits+1 bits per coefficient.
func MaskPoly(r *ring.Ring, seed []byte, nonce uint16, gamma1Bits int) ring.Poly {
	h := sha3.NewShake256()
	h.Write(seed)
	h.Write([]byte{byte(nonce), byte(nonce >> 8)})

	width := gamma1Bits + 1
	buf := make([]byte, r.N*width/8)
	_, _ = h.Read(buf)

	gamma1 := int32(1) << gamma1Bits
	p := r.NewPoly()
	for i := 0; i < r.N; i++ {
		v := readBits(buf, i, width)
		p[i] = r.ReduceCentered(gamma1 - int32(v))
	}
	return p
}

// MaskVec samples count mask polynomials with consecutive nonces.
func MaskVec(r *ring.Ring, seed []byte, nonce uint16, count, gamma1Bits int) ring.PolyVec {
	v := make(ring.PolyVec, count)
	for i := 0; i < count; i++ {
		v[i] = MaskPoly(r, seed, nonce+uint16(i), gamma1Bits)
	}
	return v
}

// InBall samples the challenge polynomial with exactly tau coefficients
// in {-1, +1} and the rest zero, using a Fisher-Yates shuffle driven by
// SHAKE256(seed).
func InBall(r *ring.Ring, seed []byte, tau int) ring.Poly {
	h := sha3.NewShake256()
	h.Write(seed)

	var buf [shake256Rate]byte
	_, _ = h.Read(buf[:])

	var signs uint64
	for i := 0; i < 8; i++ {
		signs |= uint64(buf[i]) << (8 * i)
	}
	offset := 8

	c := r.NewPoly()
	for i := r.N - tau; i < r.N; i++ {
		var j byte
		for {
			if offset == len(buf) {
				_, _ = h.Read(buf[:])
				offset = 0
			}
			j = buf[offset]
			offset++
			if int(j) <= i {
				break
			}
		}
		c[i] = c[j]
		if signs&1 == 0 {
			c[j] = 1
		} else {
			c[j] = r.Q - 1
		}
		signs >>= 1
	}
	return c
}

// readBits extracts the idx-th little-endian field of the given width
// from buf. width must be at most 25 so the field spans at most 4 bytes.
func readBits(buf []byte, idx, width int) uint32 {
	bitPos := idx * width
	bytePos := bitPos >> 3
	shift := uint(bitPos & 7)
	var x uint64
	for b := 0; b < 5 && bytePos+b < len(buf); b++ {
		x |= uint64(buf[bytePos+b]) << (8 * b)
	}
	return uint32(x>>shift) & (1<<width - 1)
}
