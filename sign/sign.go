// Package sign implements the module-lattice signature scheme.
//
// Signing follows the Fiat-Shamir with aborts pattern: a masked
// commitment w = A*y, a challenge derived from the high bits of w and
// the message digest, and a response z = y + c*s1 that is released only
// when rejection sampling confirms it leaks nothing about the secret.
// Signing is deterministic: the per-signature mask is derived from the
// secret signing key and the message digest, never from live entropy.
package sign

import (
	"fmt"

	mlpq "github.com/latticeworks/mlpq-go"
	"github.com/latticeworks/mlpq-go/core"
	"github.com/latticeworks/mlpq-go/ring"
	"github.com/latticeworks/mlpq-go/sample"
	"github.com/latticeworks/mlpq-go/utils"
)

const (
	DomainKeyGen    = "mlpq-sign-keygen-v1"
	DomainTr        = "mlpq-sign-tr-v1"
	DomainMu        = "mlpq-sign-mu-v1"
	DomainRhoPrime  = "mlpq-sign-rhoprime-v1"
	DomainChallenge = "mlpq-sign-challenge-v1"
)

// PublicKey is a signature public key: the matrix seed rho and the
// rounded public vector t1.
type PublicKey struct {
	Params mlpq.SigParams
	Rho    []byte
	T1     ring.PolyVec
}

// PrivateKey is a signature private key. TR caches the public key hash
// bound into every message digest.
type PrivateKey struct {
	Params mlpq.SigParams
	Rho    []byte
	K      []byte
	TR     []byte
	S1     ring.PolyVec
	S2     ring.PolyVec
	T0     ring.PolyVec
}

// KeyPair holds a matched public and private key.
type KeyPair struct {
	PublicKey  PublicKey
	PrivateKey PrivateKey
}

// GenerateKeyPair generates a signature key pair at the given security
// level using the operating system's entropy source.
func GenerateKeyPair(level mlpq.SecurityLevel) (*KeyPair, error) {
	params, err := core.GetParams(level)
	if err != nil {
		return nil, err
	}
	if err := core.ValidateParams(params); err != nil {
		return nil, err
	}

	seed, err := utils.SecureRandomBytes(mlpq.SeedSize)
	if err != nil {
		return nil, err
	}

	kp, err := GenerateKeyPairFromSeed(params.Sig, seed)
	utils.Zeroize(seed)
	return kp, err
}

// GenerateKeyPairFromSeed generates a deterministic key pair from a
// 32-byte seed.
func GenerateKeyPairFromSeed(params mlpq.SigParams, seed []byte) (*KeyPair, error) {
	if len(seed) != mlpq.SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes", mlpq.SeedSize)
	}

	expanded := utils.Shake256WithDomain(DomainKeyGen, seed, 128)
	rho := append([]byte{}, expanded[:32]...)
	rhoPrime := expanded[32:96]
	key := append([]byte{}, expanded[96:128]...)

	r := ring.Get(params.N, params.Q)
	k, l := params.K, params.L

	aHat := sample.UniformMatrix(r, rho, k, l, false)
	s1 := sample.BoundedVec(r, rhoPrime, 0, l, params.Eta)
	s2 := sample.BoundedVec(r, rhoPrime, uint16(l), k, params.Eta)

	s1Hat := r.NewPolyVec(l)
	r.NTTVec(s1, s1Hat)

	t := r.NewPolyVec(k)
	r.MatVecNTT(aHat, s1Hat, t)
	r.InvNTTVec(t, t)
	r.AddVec(t, s2, t)

	t1, t0 := power2RoundVec(r, t, params.D)

	publicKey := PublicKey{Params: params, Rho: rho, T1: t1}
	tr := utils.Shake256WithDomain(DomainTr, SerializePublicKey(&publicKey), 64)

	privateKey := PrivateKey{
		Params: params,
		Rho:    rho,
		K:      key,
		TR:     tr,
		S1:     s1,
		S2:     s2,
		T0:     t0,
	}

	utils.Zeroize(expanded)
	mlpq.NotifyKeyPairGenerated("sign", params.Level)
	return &KeyPair{PublicKey: publicKey, PrivateKey: privateKey}, nil
}

// Sign produces a deterministic signature over message. The rejection
// loop is bounded by the parameter set; exhausting it indicates a broken
// parameter set and panics with mlpq.RetryExhaustedError.
func Sign(sk *PrivateKey, message []byte) []byte {
	params := sk.Params
	r := ring.Get(params.N, params.Q)
	k, l := params.K, params.L
	gamma1 := int32(params.Gamma1())
	gamma2 := int32(params.Gamma2)
	beta := int32(params.Beta())

	mu := utils.Shake256WithDomain(DomainMu, utils.Concat(sk.TR, message), 64)
	rhoPrime := utils.Shake256WithDomain(DomainRhoPrime, utils.Concat(sk.K, mu), 64)

	aHat := sample.UniformMatrix(r, sk.Rho, k, l, false)
	s1Hat := r.NewPolyVec(l)
	s2Hat := r.NewPolyVec(k)
	t0Hat := r.NewPolyVec(k)
	r.NTTVec(sk.S1, s1Hat)
	r.NTTVec(sk.S2, s2Hat)
	r.NTTVec(sk.T0, t0Hat)

	for attempt := 1; attempt <= params.MaxSignAttempts; attempt++ {
		kappa := uint16((attempt - 1) * l)
		y := sample.MaskVec(r, rhoPrime, kappa, l, params.Gamma1Bits)

		yHat := r.NewPolyVec(l)
		r.NTTVec(y, yHat)
		w := r.NewPolyVec(k)
		r.MatVecNTT(aHat, yHat, w)
		r.InvNTTVec(w, w)

		w1 := highBitsVec(r, w, params.Gamma2)
		cTilde := utils.Shake256WithDomain(
			DomainChallenge,
			utils.Concat(mu, packHighBits(params, w1)),
			params.CTildeBytes,
		)

		c := sample.InBall(r, cTilde, params.Tau)
		cHat := r.NewPoly()
		r.NTT(c, cHat)

		z := mulAddVec(r, cHat, s1Hat, y, l)
		if infNormCenteredVec(r, z) >= gamma1-beta {
			continue
		}

		cs2 := mulVec(r, cHat, s2Hat, k)
		wMinusCs2 := r.NewPolyVec(k)
		r.SubVec(w, cs2, wMinusCs2)
		if lowBitsNormVec(r, wMinusCs2, params.Gamma2) >= gamma2-beta {
			continue
		}

		ct0 := mulVec(r, cHat, t0Hat, k)
		if infNormCenteredVec(r, ct0) >= gamma2 {
			continue
		}

		negCt0 := r.NewPolyVec(k)
		hinted := r.NewPolyVec(k)
		for i := 0; i < k; i++ {
			r.Neg(ct0[i], negCt0[i])
		}
		r.AddVec(wMinusCs2, ct0, hinted)

		hint, weight := makeHintVec(r, negCt0, hinted, params.Gamma2)
		if weight > params.Omega {
			continue
		}

		mlpq.NotifySignatureProduced(params.Level, attempt)
		return serializeSignature(params, cTilde, z, hint)
	}

	panic(&mlpq.RetryExhaustedError{Level: params.Level, Attempts: params.MaxSignAttempts})
}

// Verify reports whether signature is a valid signature over message
// under pk. Malformed signatures verify as false, never as an error.
func Verify(pk *PublicKey, message, signature []byte) bool {
	params := pk.Params
	cTilde, z, hint, err := deserializeSignature(params, signature)
	if err != nil {
		mlpq.NotifySignatureVerified(params.Level, false)
		return false
	}

	r := ring.Get(params.N, params.Q)
	k, l := params.K, params.L
	gamma1 := int32(params.Gamma1())
	beta := int32(params.Beta())

	if infNormCenteredVec(r, z) >= gamma1-beta {
		mlpq.NotifySignatureVerified(params.Level, false)
		return false
	}

	tr := utils.Shake256WithDomain(DomainTr, SerializePublicKey(pk), 64)
	mu := utils.Shake256WithDomain(DomainMu, utils.Concat(tr, message), 64)

	c := sample.InBall(r, cTilde, params.Tau)
	cHat := r.NewPoly()
	r.NTT(c, cHat)

	aHat := sample.UniformMatrix(r, pk.Rho, k, l, false)
	zHat := r.NewPolyVec(l)
	r.NTTVec(z, zHat)

	// A*z - c*t1*2^d equals w - c*s2 + c*t0; the hint recovers the
	// signer's w1 from it.
	az := r.NewPolyVec(k)
	r.MatVecNTT(aHat, zHat, az)

	t1Shifted := r.NewPolyVec(k)
	shift := uint32(1) << params.D
	for i := 0; i < k; i++ {
		r.MulScalar(pk.T1[i], shift, t1Shifted[i])
		r.NTT(t1Shifted[i], t1Shifted[i])
		r.MulCoeffs(cHat, t1Shifted[i], t1Shifted[i])
	}
	r.SubVec(az, t1Shifted, az)
	r.InvNTTVec(az, az)

	w1 := useHintVec(r, hint, az, params.Gamma2)
	expected := utils.Shake256WithDomain(
		DomainChallenge,
		utils.Concat(mu, packHighBits(params, w1)),
		params.CTildeBytes,
	)

	ok := utils.ConstantTimeEqual(cTilde, expected)
	mlpq.NotifySignatureVerified(params.Level, ok)
	return ok
}

// mulVec computes InvNTT(cHat * vHat) element-wise.
func mulVec(r *ring.Ring, cHat ring.Poly, vHat ring.PolyVec, k int) ring.PolyVec {
	out := r.NewPolyVec(k)
	for i := 0; i < k; i++ {
		r.MulCoeffs(cHat, vHat[i], out[i])
		r.InvNTT(out[i], out[i])
	}
	return out
}

// mulAddVec computes add + InvNTT(cHat * vHat) element-wise.
func mulAddVec(r *ring.Ring, cHat ring.Poly, vHat, add ring.PolyVec, l int) ring.PolyVec {
	out := mulVec(r, cHat, vHat, l)
	r.AddVec(out, add, out)
	return out
}
