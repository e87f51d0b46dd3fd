package mlpq

// SecurityLevel selects one of the enumerated parameter sets.
type SecurityLevel string

const (
	// Level1 targets NIST security category 1 (comparable to AES-128).
	Level1 SecurityLevel = "Level1"
	// Level3 targets NIST security category 3 (comparable to AES-192).
	Level3 SecurityLevel = "Level3"
	// Level5 targets NIST security category 5 (comparable to AES-256).
	Level5 SecurityLevel = "Level5"
)

// SeedSize is the length in bytes of every entropy seed accepted by the
// deterministic key generation, encapsulation and signing entry points.
const SeedSize = 32

// SharedSecretSize is the length in bytes of a KEM shared secret.
const SharedSecretSize = 32

// KEMParams fixes one security level of the key encapsulation mechanism.
// Instances are immutable after construction; see core.GetParams.
type KEMParams struct {
	Level SecurityLevel `json:"level"`
	N     int           `json:"n"`    // Ring dimension
	Q     int           `json:"q"`    // Prime modulus, 2n | q-1
	K     int           `json:"k"`    // Module rank
	Eta1  int           `json:"eta1"` // Noise bound for secrets
	Eta2  int           `json:"eta2"` // Noise bound for ciphertext errors
	Du    int           `json:"du"`   // Compression width for the u vector
	Dv    int           `json:"dv"`   // Compression width for the v polynomial
}

// SigParams fixes one security level of the signature scheme.
type SigParams struct {
	Level           SecurityLevel `json:"level"`
	N               int           `json:"n"`           // Ring dimension
	Q               int           `json:"q"`           // Prime modulus, 2n | q-1
	K               int           `json:"k"`           // Rows of the public matrix
	L               int           `json:"l"`           // Columns of the public matrix
	Eta             int           `json:"eta"`         // Secret coefficient bound
	Gamma1Bits      int           `json:"gamma1_bits"` // Mask range is 2^gamma1_bits
	Gamma2          int           `json:"gamma2"`      // Low-order rounding range
	Tau             int           `json:"tau"`         // Nonzero challenge coefficients
	Omega           int           `json:"omega"`       // Maximum hint weight
	D               int           `json:"d"`           // Dropped bits from t
	CTildeBytes     int           `json:"ctilde_bytes"`
	MaxSignAttempts int           `json:"max_sign_attempts"`
}

// Beta is the rejection margin tau*eta used by the signing norm checks.
func (p SigParams) Beta() int { return p.Tau * p.Eta }

// Gamma1 is the mask coefficient range 2^Gamma1Bits.
func (p SigParams) Gamma1() int { return 1 << p.Gamma1Bits }

// Params is the complete parameter set for one security level.
type Params struct {
	Level SecurityLevel `json:"level"`
	KEM   KEMParams     `json:"kem"`
	Sig   SigParams     `json:"sig"`
}
