// Package kem implements the module-lattice key encapsulation mechanism.
//
// The underlying public key encryption follows the standard LPR pattern:
// a public matrix A expanded from a 32-byte seed, a secret vector s and
// error vector e with small centered binomial coefficients, and the
// public value t = A*s + e held in the NTT domain. The KEM wraps the
// encryption in a Fujisaki-Okamoto transform with implicit rejection:
// decapsulation of a malformed ciphertext returns a deterministic
// pseudorandom secret instead of an error.
package kem

import (
	"errors"
	"fmt"

	mlpq "github.com/latticeworks/mlpq-go"
	"github.com/latticeworks/mlpq-go/core"
	"github.com/latticeworks/mlpq-go/ring"
	"github.com/latticeworks/mlpq-go/sample"
	"github.com/latticeworks/mlpq-go/utils"
)

const (
	DomainKeyGen       = "mlpq-kem-keygen-v1"
	DomainEncaps       = "mlpq-kem-encaps-v1"
	DomainSharedSecret = "mlpq-kem-ss-v1"
	DomainEncKey       = "mlpq-enc-key-v1"
	DomainNonce        = "mlpq-nonce-v1"
)

// PublicKey is a KEM public key: the matrix seed rho and the vector
// t = A*s + e in the NTT domain.
type PublicKey struct {
	Params mlpq.KEMParams
	Rho    []byte
	THat   ring.PolyVec
}

// PrivateKey is a KEM private key. It embeds the public key so that
// decapsulation can re-encrypt, the public key hash used by the
// Fujisaki-Okamoto transform, and the implicit-rejection key z.
type PrivateKey struct {
	Params mlpq.KEMParams
	SHat   ring.PolyVec
	Public PublicKey
	PKHash []byte
	Z      []byte
}

// KeyPair holds a matched public and private key.
type KeyPair struct {
	PublicKey  PublicKey
	PrivateKey PrivateKey
}

// EncapsulationResult is the output of Encapsulate.
type EncapsulationResult struct {
	SharedSecret []byte
	Ciphertext   []byte
}

// GenerateKeyPair generates a KEM key pair at the given security level
// using the operating system's entropy source.
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

	kp, err := GenerateKeyPairFromSeed(params.KEM, seed)
	utils.Zeroize(seed)
	return kp, err
}

// GenerateKeyPairFromSeed generates a deterministic key pair from a
// 32-byte seed. The same (params, seed) pair always yields the same key.
func GenerateKeyPairFromSeed(params mlpq.KEMParams, seed []byte) (*KeyPair, error) {
	if len(seed) != mlpq.SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes", mlpq.SeedSize)
	}

	expanded := utils.Shake256WithDomain(DomainKeyGen, seed, 96)
	rho := expanded[:32]
	sigma := expanded[32:64]
	z := expanded[64:96]

	r := ring.Get(params.N, params.Q)
	k := params.K

	aHat := sample.UniformMatrix(r, rho, k, k, false)
	s := sample.NoiseVec(r, sigma, 0, k, params.Eta1)
	e := sample.NoiseVec(r, sigma, byte(k), k, params.Eta1)

	sHat := r.NewPolyVec(k)
	eHat := r.NewPolyVec(k)
	r.NTTVec(s, sHat)
	r.NTTVec(e, eHat)

	tHat := r.NewPolyVec(k)
	r.MatVecNTT(aHat, sHat, tHat)
	r.AddVec(tHat, eHat, tHat)

	publicKey := PublicKey{
		Params: params,
		Rho:    append([]byte{}, rho...),
		THat:   tHat,
	}
	pkHash := utils.SHA3256(SerializePublicKey(&publicKey))

	privateKey := PrivateKey{
		Params: params,
		SHat:   sHat,
		Public: publicKey,
		PKHash: pkHash,
		Z:      append([]byte{}, z...),
	}

	for i := range s {
		utils.ZeroizeUint32(s[i])
		utils.ZeroizeUint32(e[i])
	}
	utils.Zeroize(expanded)

	mlpq.NotifyKeyPairGenerated("kem", params.Level)
	return &KeyPair{PublicKey: publicKey, PrivateKey: privateKey}, nil
}

// Encapsulate generates a fresh shared secret and its ciphertext under pk.
func Encapsulate(pk *PublicKey) (*EncapsulationResult, error) {
	m, err := utils.SecureRandomBytes(mlpq.SeedSize)
	if err != nil {
		return nil, err
	}
	result, err := EncapsulateDeterministic(pk, m)
	utils.Zeroize(m)
	return result, err
}

// EncapsulateDeterministic performs encapsulation with caller-supplied
// coins. The same (pk, coins) pair always yields the same result; coins
// must be 32 uniformly random bytes and never reused across sessions.
func EncapsulateDeterministic(pk *PublicKey, coins []byte) (*EncapsulationResult, error) {
	if len(coins) != mlpq.SeedSize {
		return nil, fmt.Errorf("encapsulation coins must be %d bytes", mlpq.SeedSize)
	}

	pkHash := utils.SHA3256(SerializePublicKey(pk))

	// (kBar, rSeed) = G(m || H(pk)). Binding the coins to the public key
	// hash makes the derived secret key-dependent, so a ciphertext
	// replayed under another key yields an unrelated secret.
	kr := utils.Shake256WithDomain(DomainEncaps, utils.Concat(coins, pkHash), 64)
	kBar := kr[:32]
	rSeed := kr[32:]

	ciphertext := encrypt(pk, coins, rSeed)

	sharedSecret := utils.Shake256WithDomain(
		DomainSharedSecret,
		utils.Concat(kBar, utils.SHA3256(ciphertext)),
		mlpq.SharedSecretSize,
	)
	utils.Zeroize(kr)

	mlpq.NotifyEncapsulated(pk.Params.Level)
	return &EncapsulationResult{
		SharedSecret: sharedSecret,
		Ciphertext:   ciphertext,
	}, nil
}

// Decapsulate recovers the shared secret from a ciphertext. A ciphertext
// of the wrong length is rejected with mlpq.ErrMalformedInput; any
// well-formed but invalid ciphertext decapsulates without error to a
// deterministic pseudorandom secret (implicit rejection).
func Decapsulate(sk *PrivateKey, ciphertext []byte) ([]byte, error) {
	params := sk.Params
	if len(ciphertext) != core.KEMCiphertextSize(params) {
		return nil, fmt.Errorf("%w: ciphertext length %d, want %d",
			mlpq.ErrMalformedInput, len(ciphertext), core.KEMCiphertextSize(params))
	}

	u, v := parseCiphertext(params, ciphertext)
	m := decrypt(sk, u, v)

	kr := utils.Shake256WithDomain(DomainEncaps, utils.Concat(m, sk.PKHash), 64)
	kBar := kr[:32]
	rSeed := kr[32:]

	reEncrypted := encrypt(&sk.Public, m, rSeed)

	// The comparison result flows into the key selection without a
	// branch, so the rejection path is indistinguishable from success.
	eq := utils.ConstantTimeCompare(ciphertext, reEncrypted)
	selected := utils.ConstantTimeSelect(eq, kBar, sk.Z)

	sharedSecret := utils.Shake256WithDomain(
		DomainSharedSecret,
		utils.Concat(selected, utils.SHA3256(ciphertext)),
		mlpq.SharedSecretSize,
	)

	utils.Zeroize(m)
	utils.Zeroize(kr)
	utils.Zeroize(selected)

	mlpq.NotifyDecapsulated(params.Level)
	return sharedSecret, nil
}

// encrypt is the deterministic LPR encryption core. msg is exactly 32
// bytes and rSeed drives all noise sampling.
func encrypt(pk *PublicKey, msg, rSeed []byte) []byte {
	params := pk.Params
	r := ring.Get(params.N, params.Q)
	k := params.K

	aT := sample.UniformMatrix(r, pk.Rho, k, k, true)
	rv := sample.NoiseVec(r, rSeed, 0, k, params.Eta1)
	e1 := sample.NoiseVec(r, rSeed, byte(k), k, params.Eta2)
	e2 := sample.NoisePoly(r, rSeed, byte(2*k), params.Eta2)

	rHat := r.NewPolyVec(k)
	r.NTTVec(rv, rHat)

	uHat := r.NewPolyVec(k)
	r.MatVecNTT(aT, rHat, uHat)
	u := r.NewPolyVec(k)
	r.InvNTTVec(uHat, u)
	r.AddVec(u, e1, u)

	v := r.NewPoly()
	r.DotNTT(pk.THat, rHat, v)
	r.InvNTT(v, v)
	r.Add(v, e2, v)
	r.Add(v, encodeMessage(r, msg), v)

	for i := range rv {
		utils.ZeroizeUint32(rv[i])
		utils.ZeroizeUint32(rHat[i])
	}

	return serializeCiphertext(params, u, v)
}

// decrypt recovers the 32-byte message from a decompressed ciphertext.
func decrypt(sk *PrivateKey, u ring.PolyVec, v ring.Poly) []byte {
	params := sk.Params
	r := ring.Get(params.N, params.Q)

	uHat := r.NewPolyVec(params.K)
	r.NTTVec(u, uHat)

	w := r.NewPoly()
	r.DotNTT(sk.SHat, uHat, w)
	r.InvNTT(w, w)
	r.Sub(v, w, w)

	msg := decodeMessage(r, w)
	utils.ZeroizeUint32(w)
	return msg
}

// Encrypt encrypts an arbitrary plaintext with KEM-DEM: a fresh
// encapsulation provides the shared secret, and a SHAKE256 keystream
// with a SHA3-based tag provides the data encapsulation layer.
func Encrypt(pk *PublicKey, plaintext []byte) (*EncryptedMessage, error) {
	result, err := Encapsulate(pk)
	if err != nil {
		return nil, err
	}

	encKey := utils.Shake256WithDomain(DomainEncKey, result.SharedSecret, 32)
	nonce := utils.Shake256WithDomain(DomainNonce, result.SharedSecret, 12)

	keystream := utils.Shake256(utils.Concat(encKey, nonce), len(plaintext))
	encrypted := make([]byte, len(plaintext)+16)
	for i := range plaintext {
		encrypted[i] = plaintext[i] ^ keystream[i]
	}
	tag := utils.SHA3256(utils.Concat(encKey, plaintext))
	copy(encrypted[len(plaintext):], tag[:16])

	utils.Zeroize(result.SharedSecret)
	utils.Zeroize(encKey)
	utils.Zeroize(keystream)

	return &EncryptedMessage{
		Ciphertext: result.Ciphertext,
		Encrypted:  encrypted,
		Nonce:      nonce,
	}, nil
}

// Decrypt reverses Encrypt. Authentication failure and malformed input
// are both reported as errors; unlike raw decapsulation there is no
// implicit rejection at the DEM layer.
func Decrypt(sk *PrivateKey, em *EncryptedMessage) ([]byte, error) {
	if len(em.Encrypted) < 16 {
		return nil, fmt.Errorf("%w: encrypted payload too short", mlpq.ErrMalformedInput)
	}

	sharedSecret, err := Decapsulate(sk, em.Ciphertext)
	if err != nil {
		return nil, err
	}

	encKey := utils.Shake256WithDomain(DomainEncKey, sharedSecret, 32)
	utils.Zeroize(sharedSecret)

	plaintextLen := len(em.Encrypted) - 16
	keystream := utils.Shake256(utils.Concat(encKey, em.Nonce), plaintextLen)
	plaintext := make([]byte, plaintextLen)
	for i := range plaintext {
		plaintext[i] = em.Encrypted[i] ^ keystream[i]
	}

	expectedTag := utils.SHA3256(utils.Concat(encKey, plaintext))
	utils.Zeroize(encKey)
	if !utils.ConstantTimeEqual(em.Encrypted[plaintextLen:], expectedTag[:16]) {
		return nil, errors.New("kem: authentication failed")
	}

	return plaintext, nil
}

// EncryptedMessage is the output of the KEM-DEM Encrypt.
type EncryptedMessage struct {
	Ciphertext []byte
	Encrypted  []byte
	Nonce      []byte
}
