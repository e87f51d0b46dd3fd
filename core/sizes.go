package core

import (
	mlpq "github.com/latticeworks/mlpq-go"
)

// Wire sizes are fully determined by the parameter set. Every encoding
// in this module is fixed width, so decoders reject buffers by length
// before touching any content.

// kemPolyBytes is the size of one full-width KEM polynomial: 256
// coefficients of bits(q) bits each.
func kemPolyBytes(p mlpq.KEMParams) int {
	return p.N * bitLen(p.Q) / 8
}

// KEMPublicKeySize returns the encoded public key size: the matrix seed
// rho followed by the full-width NTT-domain vector t.
func KEMPublicKeySize(p mlpq.KEMParams) int {
	return mlpq.SeedSize + p.K*kemPolyBytes(p)
}

// KEMPrivateKeySize returns the encoded private key size: the secret
// vector s, the embedded public key, the public key hash, and the
// implicit-rejection key z.
func KEMPrivateKeySize(p mlpq.KEMParams) int {
	return p.K*kemPolyBytes(p) + KEMPublicKeySize(p) + 32 + mlpq.SeedSize
}

// KEMCiphertextSize returns the encoded ciphertext size: the compressed
// vector u at du bits per coefficient and the compressed polynomial v at
// dv bits per coefficient.
func KEMCiphertextSize(p mlpq.KEMParams) int {
	return p.K*p.N*p.Du/8 + p.N*p.Dv/8
}

// sigEtaBits is the packed width of a short secret coefficient stored as
// eta - c: 3 bits for eta 2, 4 bits for eta 4.
func sigEtaBits(eta int) int {
	return bitLen(2 * eta)
}

// SigPublicKeySize returns the encoded public key size: the matrix seed
// rho followed by the rounded vector t1 at 10 bits per coefficient.
func SigPublicKeySize(p mlpq.SigParams) int {
	t1Bits := bitLen(p.Q) - p.D
	return mlpq.SeedSize + p.K*p.N*t1Bits/8
}

// SigPrivateKeySize returns the encoded private key size: rho, the
// signing key K, the public key hash tr, the short vectors s1 and s2,
// and the low rounding remainder t0 at d bits per coefficient.
func SigPrivateKeySize(p mlpq.SigParams) int {
	etaBits := sigEtaBits(p.Eta)
	return mlpq.SeedSize + mlpq.SeedSize + 64 +
		(p.K+p.L)*p.N*etaBits/8 +
		p.K*p.N*p.D/8
}

// SignatureSize returns the encoded signature size: the challenge hash,
// the response vector z at gamma1Bits+1 bits per coefficient, and the
// hint encoding of omega positions plus k running counts.
func SignatureSize(p mlpq.SigParams) int {
	zBits := p.Gamma1Bits + 1
	return p.CTildeBytes + p.L*p.N*zBits/8 + p.Omega + p.K
}
