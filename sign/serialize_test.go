package sign

import (
	"testing"

	"github.com/stretchr/testify/require"

	mlpq "github.com/latticeworks/mlpq-go"
	"github.com/latticeworks/mlpq-go/core"
	"github.com/latticeworks/mlpq-go/ring"
)

func TestPublicKeySerialization_RoundTrip(t *testing.T) {
	for _, level := range levels {
		kp := keyPair(t, level, 20)

		b := SerializePublicKey(&kp.PublicKey)
		require.Len(t, b, core.SigPublicKeySize(kp.PublicKey.Params))

		pk, err := DeserializePublicKey(kp.PublicKey.Params, b)
		require.NoError(t, err)
		require.Equal(t, b, SerializePublicKey(pk))

		// The deserialized key must verify signatures from the original.
		msg := []byte("round trip")
		sig := Sign(&kp.PrivateKey, msg)
		require.True(t, Verify(pk, msg, sig))
	}
}

func TestPrivateKeySerialization_RoundTrip(t *testing.T) {
	for _, level := range levels {
		kp := keyPair(t, level, 21)

		b := SerializePrivateKey(&kp.PrivateKey)
		require.Len(t, b, core.SigPrivateKeySize(kp.PrivateKey.Params))

		sk, err := DeserializePrivateKey(kp.PrivateKey.Params, b)
		require.NoError(t, err)
		require.Equal(t, b, SerializePrivateKey(sk))

		// Signing with the deserialized key yields the same signature.
		msg := []byte("deterministic across serialization")
		require.Equal(t, Sign(&kp.PrivateKey, msg), Sign(sk, msg))
	}
}

func TestDeserializePublicKey_WrongLength(t *testing.T) {
	kp := keyPair(t, mlpq.Level1, 22)
	b := SerializePublicKey(&kp.PublicKey)

	for _, n := range []int{0, 31, len(b) - 1, len(b) + 1} {
		buf := make([]byte, n)
		copy(buf, b)
		_, err := DeserializePublicKey(kp.PublicKey.Params, buf)
		require.ErrorIs(t, err, mlpq.ErrMalformedInput, "length %d", n)
	}
}

func TestDeserializePrivateKey_WrongLength(t *testing.T) {
	kp := keyPair(t, mlpq.Level1, 23)
	b := SerializePrivateKey(&kp.PrivateKey)

	for _, n := range []int{0, 127, len(b) - 1, len(b) + 1} {
		buf := make([]byte, n)
		copy(buf, b)
		_, err := DeserializePrivateKey(kp.PrivateKey.Params, buf)
		require.ErrorIs(t, err, mlpq.ErrMalformedInput, "length %d", n)
	}
}

func TestDeserializePrivateKey_ShortCoefficientOutOfRange(t *testing.T) {
	kp := keyPair(t, mlpq.Level1, 24)
	b := SerializePrivateKey(&kp.PrivateKey)

	// Level1 packs s1 at 3 bits per coefficient; the valid biased range
	// is [0, 4]. Force the first field to 7.
	b[128] |= 0x07
	_, err := DeserializePrivateKey(kp.PrivateKey.Params, b)
	require.ErrorIs(t, err, mlpq.ErrMalformedInput)
}

func TestRounding_Power2Round(t *testing.T) {
	params, err := core.GetParams(mlpq.Level1)
	require.NoError(t, err)
	r := ring.Get(params.Sig.N, params.Sig.Q)
	d := params.Sig.D
	half := int32(1) << (d - 1)

	for a := uint32(0); a < r.Q; a += 1237 {
		a1, a0 := power2Round(r, a, d)
		c0 := r.Centered(a0)
		require.Greater(t, c0, -half)
		require.LessOrEqual(t, c0, half)
		require.Equal(t, a, r.ReduceCentered(int32(a1)<<d+c0))
	}
}

func TestRounding_Decompose(t *testing.T) {
	params, err := core.GetParams(mlpq.Level1)
	require.NoError(t, err)
	r := ring.Get(params.Sig.N, params.Sig.Q)
	gamma2 := params.Sig.Gamma2
	m := uint32((params.Sig.Q - 1) / (2 * gamma2))

	for a := uint32(0); a < r.Q; a += 997 {
		a1, a0 := decompose(r, a, gamma2)
		require.Less(t, a1, m)
		require.GreaterOrEqual(t, a0, int32(-gamma2))
		require.LessOrEqual(t, a0, int32(gamma2))
		require.Equal(t, a, r.ReduceCentered(int32(a1)*int32(2*gamma2)+a0))
	}
}

func TestRounding_HintRecoversHighBits(t *testing.T) {
	params, err := core.GetParams(mlpq.Level1)
	require.NoError(t, err)
	r := ring.Get(params.Sig.N, params.Sig.Q)
	gamma2 := params.Sig.Gamma2

	// For any w and any small perturbation z, the hint produced against
	// w must let useHint recover the high bits of w + z.
	for w := uint32(0); w < r.Q; w += 3571 {
		for _, dz := range []int32{-100, -1, 0, 1, 100, int32(gamma2) - 1} {
			z := r.ReduceCentered(dz)
			hint := makeHint(r, z, w, gamma2)
			require.Equal(t,
				highBits(r, r.AddMod(w, z), gamma2),
				useHint(r, hint, w, gamma2),
				"w=%d dz=%d", w, dz)
		}
	}
}
