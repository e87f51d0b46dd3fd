// Package core provides parameter sets and validation for mlpq.
package core

import (
	"errors"
	"fmt"

	mlpq "github.com/latticeworks/mlpq-go"
)

// KEM parameters use the 7681 modulus (the NewHope / Kyber round-1
// prime): 512 | q-1, so the ring supports a full negacyclic NTT and
// NTT-domain multiplication is genuinely pointwise. Compression widths
// follow the Kyber du/dv pattern re-derived for the 13-bit modulus.
//
// Signature parameters are the Dilithium (FIPS 204) sets for categories
// 2, 3 and 5, unchanged: those margins are security-critical and must
// not be re-invented.

// MaxSignAttempts bounds the signing rejection loop. Expected attempts
// are below six for every level; exhausting the bound signals a broken
// parameter set, not bad luck.
const MaxSignAttempts = 512

// Level1Params is the parameter set for NIST security category 1.
var Level1Params = mlpq.Params{
	Level: mlpq.Level1,
	KEM: mlpq.KEMParams{
		Level: mlpq.Level1,
		N:     256,
		Q:     7681,
		K:     2,
		Eta1:  3,
		Eta2:  2,
		Du:    11,
		Dv:    4,
	},
	Sig: mlpq.SigParams{
		Level:           mlpq.Level1,
		N:               256,
		Q:               8380417,
		K:               4,
		L:               4,
		Eta:             2,
		Gamma1Bits:      17,
		Gamma2:          (8380417 - 1) / 88,
		Tau:             39,
		Omega:           80,
		D:               13,
		CTildeBytes:     32,
		MaxSignAttempts: MaxSignAttempts,
	},
}

// Level3Params is the parameter set for NIST security category 3.
var Level3Params = mlpq.Params{
	Level: mlpq.Level3,
	KEM: mlpq.KEMParams{
		Level: mlpq.Level3,
		N:     256,
		Q:     7681,
		K:     3,
		Eta1:  2,
		Eta2:  2,
		Du:    11,
		Dv:    4,
	},
	Sig: mlpq.SigParams{
		Level:           mlpq.Level3,
		N:               256,
		Q:               8380417,
		K:               6,
		L:               5,
		Eta:             4,
		Gamma1Bits:      19,
		Gamma2:          (8380417 - 1) / 32,
		Tau:             49,
		Omega:           55,
		D:               13,
		CTildeBytes:     48,
		MaxSignAttempts: MaxSignAttempts,
	},
}

// Level5Params is the parameter set for NIST security category 5.
var Level5Params = mlpq.Params{
	Level: mlpq.Level5,
	KEM: mlpq.KEMParams{
		Level: mlpq.Level5,
		N:     256,
		Q:     7681,
		K:     4,
		Eta1:  2,
		Eta2:  2,
		Du:    12,
		Dv:    5,
	},
	Sig: mlpq.SigParams{
		Level:           mlpq.Level5,
		N:               256,
		Q:               8380417,
		K:               8,
		L:               7,
		Eta:             2,
		Gamma1Bits:      19,
		Gamma2:          (8380417 - 1) / 32,
		Tau:             60,
		Omega:           75,
		D:               13,
		CTildeBytes:     64,
		MaxSignAttempts: MaxSignAttempts,
	},
}

// GetParams returns the parameter set for the given security level.
func GetParams(level mlpq.SecurityLevel) (mlpq.Params, error) {
	switch level {
	case mlpq.Level1:
		return Level1Params, nil
	case mlpq.Level3:
		return Level3Params, nil
	case mlpq.Level5:
		return Level5Params, nil
	default:
		return mlpq.Params{}, fmt.Errorf("unknown security level: %s", level)
	}
}

// ValidateParams validates a parameter set for consistency. It checks
// structural requirements (ring admissibility, bound ordering), not
// security margins: those come from the published sets.
func ValidateParams(p mlpq.Params) error {
	if err := validateRing(p.KEM.N, p.KEM.Q); err != nil {
		return fmt.Errorf("kem: %w", err)
	}
	if err := validateRing(p.Sig.N, p.Sig.Q); err != nil {
		return fmt.Errorf("sig: %w", err)
	}
	if p.KEM.K <= 0 {
		return errors.New("kem: module rank must be positive")
	}
	if p.KEM.Eta1 <= 0 || p.KEM.Eta2 <= 0 {
		return errors.New("kem: noise bounds must be positive")
	}
	if p.KEM.Du <= 0 || p.KEM.Du >= bitLen(p.KEM.Q) {
		return errors.New("kem: du must compress below the modulus width")
	}
	if p.KEM.Dv <= 0 || p.KEM.Dv >= p.KEM.Du {
		return errors.New("kem: dv must be positive and below du")
	}
	if p.Sig.K <= 0 || p.Sig.L <= 0 || p.Sig.K < p.Sig.L {
		return errors.New("sig: matrix shape must satisfy k >= l > 0")
	}
	if p.Sig.Eta != 2 && p.Sig.Eta != 4 {
		return errors.New("sig: eta must be 2 or 4")
	}
	if p.Sig.Tau <= 0 || p.Sig.Tau > p.Sig.N {
		return errors.New("sig: tau out of range")
	}
	if p.Sig.Gamma1()-p.Sig.Beta() <= 0 {
		return errors.New("sig: gamma1 must exceed beta")
	}
	if p.Sig.Gamma2-p.Sig.Beta() <= 0 {
		return errors.New("sig: gamma2 must exceed beta")
	}
	if (p.Sig.Q-1)%(2*p.Sig.Gamma2) != 0 {
		return errors.New("sig: 2*gamma2 must divide q-1")
	}
	if p.Sig.Omega <= 0 || p.Sig.CTildeBytes < 32 {
		return errors.New("sig: hint or challenge bound too small")
	}
	if p.Sig.MaxSignAttempts <= 0 {
		return errors.New("sig: retry bound must be positive")
	}
	return nil
}

func validateRing(n, q int) error {
	if n < 8 || n&(n-1) != 0 {
		return fmt.Errorf("ring dimension %d is not a power of two", n)
	}
	if !isPrime(q) {
		return fmt.Errorf("modulus %d must be prime", q)
	}
	if (q-1)%(2*n) != 0 {
		return fmt.Errorf("modulus %d does not admit a negacyclic NTT of dimension %d", q, n)
	}
	return nil
}

// isPrime checks primality by trial division. This is used for
// validating parameters, not for generating large primes.
func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n == 2 {
		return true
	}
	if n%2 == 0 {
		return false
	}
	for i := 3; i*i <= n; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}

func bitLen(q int) int {
	bits := 0
	for v := q; v > 0; v >>= 1 {
		bits++
	}
	return bits
}
