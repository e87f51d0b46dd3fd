package kem

import (
	"fmt"

	mlpq "github.com/latticeworks/mlpq-go"
	"github.com/latticeworks/mlpq-go/core"
	"github.com/latticeworks/mlpq-go/pack"
	"github.com/latticeworks/mlpq-go/ring"
	"github.com/latticeworks/mlpq-go/utils"
)

// SerializePublicKey encodes a public key as rho followed by the
// full-width coefficients of t, one polynomial at a time.
func SerializePublicKey(pk *PublicKey) []byte {
	r := ring.Get(pk.Params.N, pk.Params.Q)
	out := make([]byte, 0, core.KEMPublicKeySize(pk.Params))
	out = append(out, pk.Rho...)
	for _, p := range pk.THat {
		out = append(out, pack.Bits(p, r.Bits)...)
	}
	return out
}

// DeserializePublicKey is the strict inverse of SerializePublicKey. It
// rejects buffers of the wrong length and coefficients outside [0, q).
func DeserializePublicKey(params mlpq.KEMParams, b []byte) (*PublicKey, error) {
	if len(b) != core.KEMPublicKeySize(params) {
		return nil, fmt.Errorf("%w: public key length %d, want %d",
			mlpq.ErrMalformedInput, len(b), core.KEMPublicKeySize(params))
	}

	r := ring.Get(params.N, params.Q)
	rho := append([]byte{}, b[:mlpq.SeedSize]...)
	rest := b[mlpq.SeedSize:]

	tHat, err := unpackPolyVec(r, rest, params.K)
	if err != nil {
		return nil, err
	}

	return &PublicKey{Params: params, Rho: rho, THat: tHat}, nil
}

// SerializePrivateKey encodes a private key as the secret vector s, the
// embedded public key, the public key hash, and the rejection key z.
func SerializePrivateKey(sk *PrivateKey) []byte {
	r := ring.Get(sk.Params.N, sk.Params.Q)
	out := make([]byte, 0, core.KEMPrivateKeySize(sk.Params))
	for _, p := range sk.SHat {
		out = append(out, pack.Bits(p, r.Bits)...)
	}
	out = append(out, SerializePublicKey(&sk.Public)...)
	out = append(out, sk.PKHash...)
	out = append(out, sk.Z...)
	return out
}

// DeserializePrivateKey is the strict inverse of SerializePrivateKey.
// The stored public key hash is recomputed and checked, so a private key
// whose halves have been spliced together is rejected.
func DeserializePrivateKey(params mlpq.KEMParams, b []byte) (*PrivateKey, error) {
	if len(b) != core.KEMPrivateKeySize(params) {
		return nil, fmt.Errorf("%w: private key length %d, want %d",
			mlpq.ErrMalformedInput, len(b), core.KEMPrivateKeySize(params))
	}

	r := ring.Get(params.N, params.Q)
	polyBytes := pack.Size(params.N, r.Bits)
	sBytes := params.K * polyBytes

	sHat, err := unpackPolyVec(r, b[:sBytes], params.K)
	if err != nil {
		return nil, err
	}

	pkSize := core.KEMPublicKeySize(params)
	pk, err := DeserializePublicKey(params, b[sBytes:sBytes+pkSize])
	if err != nil {
		return nil, err
	}

	rest := b[sBytes+pkSize:]
	pkHash := append([]byte{}, rest[:32]...)
	z := append([]byte{}, rest[32:]...)

	if !utils.ConstantTimeEqual(pkHash, utils.SHA3256(SerializePublicKey(pk))) {
		return nil, fmt.Errorf("%w: public key hash mismatch", mlpq.ErrMalformedInput)
	}

	return &PrivateKey{
		Params: params,
		SHat:   sHat,
		Public: *pk,
		PKHash: pkHash,
		Z:      z,
	}, nil
}

// serializeCiphertext packs the compressed u vector at du bits per
// coefficient and the compressed v polynomial at dv bits.
func serializeCiphertext(params mlpq.KEMParams, u ring.PolyVec, v ring.Poly) []byte {
	r := ring.Get(params.N, params.Q)
	out := make([]byte, 0, core.KEMCiphertextSize(params))
	for _, p := range u {
		out = append(out, pack.Bits(compressPoly(r, p, params.Du), params.Du)...)
	}
	out = append(out, pack.Bits(compressPoly(r, v, params.Dv), params.Dv)...)
	return out
}

// parseCiphertext decompresses a length-checked ciphertext back into the
// vector u and polynomial v. Every du- or dv-bit field is a valid
// compressed value, so no content can fail here.
func parseCiphertext(params mlpq.KEMParams, ct []byte) (ring.PolyVec, ring.Poly) {
	r := ring.Get(params.N, params.Q)
	uPolyBytes := pack.Size(params.N, params.Du)

	u := make(ring.PolyVec, params.K)
	for i := 0; i < params.K; i++ {
		vals, err := pack.UnpackBits(ct[i*uPolyBytes:(i+1)*uPolyBytes], params.N, params.Du)
		if err != nil {
			panic(err)
		}
		u[i] = decompressPoly(r, vals, params.Du)
	}

	vals, err := pack.UnpackBits(ct[params.K*uPolyBytes:], params.N, params.Dv)
	if err != nil {
		panic(err)
	}
	return u, decompressPoly(r, vals, params.Dv)
}

// unpackPolyVec decodes count consecutive full-width polynomials,
// rejecting coefficients outside [0, q).
func unpackPolyVec(r *ring.Ring, b []byte, count int) (ring.PolyVec, error) {
	polyBytes := pack.Size(r.N, r.Bits)
	v := make(ring.PolyVec, count)
	for i := 0; i < count; i++ {
		vals, err := pack.UnpackBits(b[i*polyBytes:(i+1)*polyBytes], r.N, r.Bits)
		if err != nil {
			return nil, err
		}
		for _, c := range vals {
			if c >= r.Q {
				return nil, fmt.Errorf("%w: coefficient %d out of range", mlpq.ErrMalformedInput, c)
			}
		}
		v[i] = vals
	}
	return v, nil
}
