// Package mlpq implements module-lattice post-quantum cryptography:
// a key encapsulation mechanism in the Kyber lineage and a digital
// signature scheme in the Dilithium lineage, both built on polynomial
// arithmetic over Z_q[x]/(x^n + 1).
//
// All key, ciphertext and signature generation is deterministic given a
// 32-byte seed, which makes every operation reproducible for test
// vectors. Entropy enters exactly once per call, at the top-level
// GenerateKeyPair / Encapsulate / Sign entry points.
package mlpq

// Version of the mlpq Go implementation.
const Version = "1.0.0"

// API summary:
//
// Key Encapsulation (KEM):
//   - kem.GenerateKeyPair(level) - Generate a key pair for the given security level
//   - kem.Encapsulate(pk) - Generate shared secret and ciphertext
//   - kem.Decapsulate(sk, ct) - Recover shared secret from ciphertext
//   - kem.Encrypt(pk, plaintext) - Encrypt a message (KEM+DEM)
//   - kem.Decrypt(sk, encrypted) - Decrypt an encrypted message
//
// Digital Signatures:
//   - sign.GenerateKeyPair(level) - Generate a signature key pair
//   - sign.Sign(sk, message) - Sign a message
//   - sign.Verify(pk, message, signature) - Verify a signature
//
// Parameters:
//   - core.GetParams(level) - Get parameters for security level
//   - Level1, Level3, Level5 - NIST security categories 1, 3 and 5
