// Package ring implements polynomial arithmetic over Z_q[x]/(x^n + 1)
// for NTT-friendly prime moduli q with 2n | q-1. A Ring value fixes the
// dimension and modulus and carries the precomputed transform tables;
// all operations are methods on the Ring with explicit output operands.
package ring

import (
	"fmt"
	"math/bits"
	"sync"
)

// Poly is a polynomial of exactly n coefficients, each fully reduced to
// [0, q). Operations panic on length mismatch: a wrong-length polynomial
// is a programming error, not a runtime condition.
type Poly []uint32

// PolyVec is an ordered sequence of polynomials sharing one ring.
type PolyVec []Poly

// PolyMat is a rows x cols matrix of polynomials sharing one ring.
type PolyMat []PolyVec

// Ring fixes the tuple (n, q) and carries the NTT twiddle tables.
// A Ring is immutable after construction and safe for concurrent use.
type Ring struct {
	N    int
	Q    uint32
	Bits int // bit length of q

	logN  int
	zetas []uint32 // psi^bitrev(k) for a primitive 2n-th root psi
	nInv  uint32   // n^-1 mod q
	bred  uint64   // floor(2^64 / q), the Barrett reduction constant
}

// NewRing constructs the ring Z_q[x]/(x^n + 1). n must be a power of two
// and q a prime with 2n | q-1, so that a full negacyclic NTT exists.
func NewRing(n int, q uint32) (*Ring, error) {
	if n < 8 || n&(n-1) != 0 {
		return nil, fmt.Errorf("ring: dimension %d is not a power of two >= 8", n)
	}
	if !isPrime(q) {
		return nil, fmt.Errorf("ring: modulus %d is not prime", q)
	}
	if (q-1)%uint32(2*n) != 0 {
		return nil, fmt.Errorf("ring: modulus %d does not support a negacyclic NTT of dimension %d", q, n)
	}

	r := &Ring{
		N:    n,
		Q:    q,
		Bits: bits.Len32(q),
		logN: bits.Len32(uint32(n)) - 1,
	}

	psi := primitiveRoot2N(q, uint32(2*n))
	r.zetas = make([]uint32, n)
	for i := 0; i < n; i++ {
		r.zetas[i] = modExp(psi, uint64(bitRev(uint32(i), r.logN)), q)
	}
	r.nInv = modExp(uint32(n), uint64(q-2), q)
	r.bred = ^uint64(0) / uint64(q)
	return r, nil
}

var (
	ringCacheMu sync.Mutex
	ringCache   = map[[2]uint64]*Ring{}
)

// Get returns a shared Ring for (n, q), constructing and caching it on
// first use. It panics if the parameters do not admit a ring; callers are
// expected to pass validated parameter sets.
func Get(n, q int) *Ring {
	key := [2]uint64{uint64(n), uint64(q)}
	ringCacheMu.Lock()
	defer ringCacheMu.Unlock()
	if r, ok := ringCache[key]; ok {
		return r
	}
	r, err := NewRing(n, uint32(q))
	if err != nil {
		panic(err)
	}
	ringCache[key] = r
	return r
}

// reduceOnce reduces a value < 2q to [0, q) without branching on the value.
func (r *Ring) reduceOnce(a uint32) uint32 {
	x := a - r.Q
	x += (x >> 31) * r.Q
	return x
}

// AddMod returns (a + b) mod q for reduced inputs.
func (r *Ring) AddMod(a, b uint32) uint32 {
	return r.reduceOnce(a + b)
}

// SubMod returns (a - b) mod q for reduced inputs.
func (r *Ring) SubMod(a, b uint32) uint32 {
	return r.reduceOnce(a - b + r.Q)
}

// MulMod returns (a * b) mod q for reduced inputs, by Barrett reduction
// with the constant fixed at ring construction. The approximate quotient
// leaves a residual below 2q, which reduceOnce folds into [0, q).
func (r *Ring) MulMod(a, b uint32) uint32 {
	x := uint64(a) * uint64(b)
	qHat, _ := bits.Mul64(x, r.bred)
	return r.reduceOnce(uint32(x - qHat*uint64(r.Q)))
}

// ReduceCentered maps a signed value with |v| < q to its representative
// in [0, q).
func (r *Ring) ReduceCentered(v int32) uint32 {
	x := uint32(v) + (uint32(v>>31) & r.Q)
	return r.reduceOnce(x)
}

// Centered lifts a reduced coefficient to the symmetric interval
// (-q/2, q/2].
func (r *Ring) Centered(c uint32) int32 {
	if c > (r.Q-1)/2 {
		return int32(c) - int32(r.Q)
	}
	return int32(c)
}

func (r *Ring) checkPoly(ps ...Poly) {
	for _, p := range ps {
		if len(p) != r.N {
			panic(fmt.Sprintf("ring: polynomial length %d, ring dimension %d", len(p), r.N))
		}
	}
}

func isPrime(n uint32) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for i := uint32(3); uint64(i)*uint64(i) <= uint64(n); i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}

func modExp(base uint32, exp uint64, q uint32) uint32 {
	result := uint64(1)
	b := uint64(base) % uint64(q)
	for exp > 0 {
		if exp&1 == 1 {
			result = result * b % uint64(q)
		}
		b = b * b % uint64(q)
		exp >>= 1
	}
	return uint32(result)
}

// primitiveRoot2N returns a primitive m-th root of unity mod q, where
// m | q-1, derived from the smallest generator of Z_q*.
func primitiveRoot2N(q, m uint32) uint32 {
	factors := primeFactors(q - 1)
	for g := uint32(2); ; g++ {
		ok := true
		for _, p := range factors {
			if modExp(g, uint64((q-1)/p), q) == 1 {
				ok = false
				break
			}
		}
		if ok {
			return modExp(g, uint64((q-1)/m), q)
		}
	}
}

func primeFactors(n uint32) []uint32 {
	var factors []uint32
	for p := uint32(2); uint64(p)*uint64(p) <= uint64(n); p++ {
		if n%p == 0 {
			factors = append(factors, p)
			for n%p == 0 {
				n /= p
			}
		}
	}
	if n > 1 {
		factors = append(factors, n)
	}
	return factors
}

func bitRev(v uint32, bits int) uint32 {
	var out uint32
	for i := 0; i < bits; i++ {
		out = (out << 1) | (v & 1)
		v >>= 1
	}
	return out
}
