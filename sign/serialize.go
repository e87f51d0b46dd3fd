package sign

import (
	"fmt"

	mlpq "github.com/latticeworks/mlpq-go"
	"github.com/latticeworks/mlpq-go/core"
	"github.com/latticeworks/mlpq-go/pack"
	"github.com/latticeworks/mlpq-go/ring"
)

// etaBits is the packed width of a short secret coefficient, stored
// biased as eta - c.
func etaBits(eta int) int {
	if eta == 2 {
		return 3
	}
	return 4
}

// SerializePublicKey encodes a public key as rho followed by t1 at
// bits(q)-d bits per coefficient.
func SerializePublicKey(pk *PublicKey) []byte {
	r := ring.Get(pk.Params.N, pk.Params.Q)
	t1Bits := r.Bits - pk.Params.D

	out := make([]byte, 0, core.SigPublicKeySize(pk.Params))
	out = append(out, pk.Rho...)
	for _, p := range pk.T1 {
		out = append(out, pack.Bits(p, t1Bits)...)
	}
	return out
}

// DeserializePublicKey is the strict inverse of SerializePublicKey.
func DeserializePublicKey(params mlpq.SigParams, b []byte) (*PublicKey, error) {
	if len(b) != core.SigPublicKeySize(params) {
		return nil, fmt.Errorf("%w: public key length %d, want %d",
			mlpq.ErrMalformedInput, len(b), core.SigPublicKeySize(params))
	}

	r := ring.Get(params.N, params.Q)
	t1Bits := r.Bits - params.D
	polyBytes := pack.Size(params.N, t1Bits)

	rho := append([]byte{}, b[:mlpq.SeedSize]...)
	rest := b[mlpq.SeedSize:]

	t1 := make(ring.PolyVec, params.K)
	for i := 0; i < params.K; i++ {
		vals, err := pack.UnpackBits(rest[i*polyBytes:(i+1)*polyBytes], params.N, t1Bits)
		if err != nil {
			return nil, err
		}
		t1[i] = vals
	}

	return &PublicKey{Params: params, Rho: rho, T1: t1}, nil
}

// SerializePrivateKey encodes a private key as rho, K, tr, the biased
// short vectors s1 and s2, and the biased low rounding remainder t0.
func SerializePrivateKey(sk *PrivateKey) []byte {
	params := sk.Params
	r := ring.Get(params.N, params.Q)

	out := make([]byte, 0, core.SigPrivateKeySize(params))
	out = append(out, sk.Rho...)
	out = append(out, sk.K...)
	out = append(out, sk.TR...)

	eb := etaBits(params.Eta)
	eta := int32(params.Eta)
	for _, vec := range []ring.PolyVec{sk.S1, sk.S2} {
		for _, p := range vec {
			biased := make([]uint32, params.N)
			for i, c := range p {
				biased[i] = uint32(eta - r.Centered(c))
			}
			out = append(out, pack.Bits(biased, eb)...)
		}
	}

	halfD := int32(1) << (params.D - 1)
	for _, p := range sk.T0 {
		biased := make([]uint32, params.N)
		for i, c := range p {
			biased[i] = uint32(halfD - r.Centered(c))
		}
		out = append(out, pack.Bits(biased, params.D)...)
	}
	return out
}

// DeserializePrivateKey is the strict inverse of SerializePrivateKey.
func DeserializePrivateKey(params mlpq.SigParams, b []byte) (*PrivateKey, error) {
	if len(b) != core.SigPrivateKeySize(params) {
		return nil, fmt.Errorf("%w: private key length %d, want %d",
			mlpq.ErrMalformedInput, len(b), core.SigPrivateKeySize(params))
	}

	r := ring.Get(params.N, params.Q)
	rho := append([]byte{}, b[:32]...)
	key := append([]byte{}, b[32:64]...)
	tr := append([]byte{}, b[64:128]...)
	rest := b[128:]

	eb := etaBits(params.Eta)
	eta := int32(params.Eta)
	etaPolyBytes := pack.Size(params.N, eb)

	unpackShort := func(count int) (ring.PolyVec, error) {
		v := make(ring.PolyVec, count)
		for i := 0; i < count; i++ {
			vals, err := pack.UnpackBits(rest[:etaPolyBytes], params.N, eb)
			if err != nil {
				return nil, err
			}
			rest = rest[etaPolyBytes:]
			p := r.NewPoly()
			for j, val := range vals {
				if int32(val) > 2*eta {
					return nil, fmt.Errorf("%w: short coefficient out of range", mlpq.ErrMalformedInput)
				}
				p[j] = r.ReduceCentered(eta - int32(val))
			}
			v[i] = p
		}
		return v, nil
	}

	s1, err := unpackShort(params.L)
	if err != nil {
		return nil, err
	}
	s2, err := unpackShort(params.K)
	if err != nil {
		return nil, err
	}

	halfD := int32(1) << (params.D - 1)
	t0PolyBytes := pack.Size(params.N, params.D)
	t0 := make(ring.PolyVec, params.K)
	for i := 0; i < params.K; i++ {
		vals, err := pack.UnpackBits(rest[:t0PolyBytes], params.N, params.D)
		if err != nil {
			return nil, err
		}
		rest = rest[t0PolyBytes:]
		p := r.NewPoly()
		for j, v := range vals {
			p[j] = r.ReduceCentered(halfD - int32(v))
		}
		t0[i] = p
	}

	return &PrivateKey{
		Params: params,
		Rho:    rho,
		K:      key,
		TR:     tr,
		S1:     s1,
		S2:     s2,
		T0:     t0,
	}, nil
}

// serializeSignature encodes cTilde, the biased response vector z, and
// the hint in the positions-plus-counts form: omega position bytes
// followed by one running count per hint polynomial.
func serializeSignature(params mlpq.SigParams, cTilde []byte, z, hint ring.PolyVec) []byte {
	r := ring.Get(params.N, params.Q)
	gamma1 := int32(params.Gamma1())
	zBits := params.Gamma1Bits + 1

	out := make([]byte, 0, core.SignatureSize(params))
	out = append(out, cTilde...)
	for _, p := range z {
		biased := make([]uint32, params.N)
		for i, c := range p {
			biased[i] = uint32(gamma1 - r.Centered(c))
		}
		out = append(out, pack.Bits(biased, zBits)...)
	}

	hintBytes := make([]byte, params.Omega+params.K)
	idx := 0
	for i, p := range hint {
		for j, c := range p {
			if c == 1 {
				hintBytes[idx] = byte(j)
				idx++
			}
		}
		hintBytes[params.Omega+i] = byte(idx)
	}
	return append(out, hintBytes...)
}

// deserializeSignature is the strict inverse of serializeSignature. The
// hint encoding is canonical: counts must be non-decreasing and bounded
// by omega, positions strictly increasing within each polynomial, and
// unused position bytes zero.
func deserializeSignature(params mlpq.SigParams, b []byte) ([]byte, ring.PolyVec, ring.PolyVec, error) {
	if len(b) != core.SignatureSize(params) {
		return nil, nil, nil, fmt.Errorf("%w: signature length %d, want %d",
			mlpq.ErrMalformedInput, len(b), core.SignatureSize(params))
	}

	r := ring.Get(params.N, params.Q)
	gamma1 := int32(params.Gamma1())
	zBits := params.Gamma1Bits + 1
	zPolyBytes := pack.Size(params.N, zBits)

	cTilde := append([]byte{}, b[:params.CTildeBytes]...)
	rest := b[params.CTildeBytes:]

	z := make(ring.PolyVec, params.L)
	for i := 0; i < params.L; i++ {
		vals, err := pack.UnpackBits(rest[:zPolyBytes], params.N, zBits)
		if err != nil {
			return nil, nil, nil, err
		}
		rest = rest[zPolyBytes:]
		p := r.NewPoly()
		for j, v := range vals {
			p[j] = r.ReduceCentered(gamma1 - int32(v))
		}
		z[i] = p
	}

	hint := make(ring.PolyVec, params.K)
	idx := 0
	for i := 0; i < params.K; i++ {
		hint[i] = r.NewPoly()
		end := int(rest[params.Omega+i])
		if end < idx || end > params.Omega {
			return nil, nil, nil, fmt.Errorf("%w: hint count out of order", mlpq.ErrMalformedInput)
		}
		for j := idx; j < end; j++ {
			if j > idx && rest[j] <= rest[j-1] {
				return nil, nil, nil, fmt.Errorf("%w: hint positions not increasing", mlpq.ErrMalformedInput)
			}
			hint[i][rest[j]] = 1
		}
		idx = end
	}
	for j := idx; j < params.Omega; j++ {
		if rest[j] != 0 {
			return nil, nil, nil, fmt.Errorf("%w: nonzero padding in hint", mlpq.ErrMalformedInput)
		}
	}

	return cTilde, z, hint, nil
}

// packHighBits packs the commitment high bits for challenge hashing.
func packHighBits(params mlpq.SigParams, w1 ring.PolyVec) []byte {
	bits := w1Bits(params)
	out := make([]byte, 0, params.K*pack.Size(params.N, bits))
	for _, p := range w1 {
		out = append(out, pack.Bits(p, bits)...)
	}
	return out
}
