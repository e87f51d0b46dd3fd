package kem

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	mlpq "github.com/latticeworks/mlpq-go"
	"github.com/latticeworks/mlpq-go/core"
	"github.com/latticeworks/mlpq-go/utils"
)

var levels = []mlpq.SecurityLevel{mlpq.Level1, mlpq.Level3, mlpq.Level5}

func testSeed(b byte) []byte {
	return bytes.Repeat([]byte{b}, mlpq.SeedSize)
}

func keyPair(t *testing.T, level mlpq.SecurityLevel, seed byte) *KeyPair {
	t.Helper()
	params, err := core.GetParams(level)
	require.NoError(t, err)
	kp, err := GenerateKeyPairFromSeed(params.KEM, testSeed(seed))
	require.NoError(t, err)
	return kp
}

func TestEncapsulateDecapsulate_RoundTrip(t *testing.T) {
	for _, level := range levels {
		t.Run(string(level), func(t *testing.T) {
			kp := keyPair(t, level, 1)

			for coin := byte(0); coin < 16; coin++ {
				result, err := EncapsulateDeterministic(&kp.PublicKey, testSeed(coin))
				require.NoError(t, err)
				require.Len(t, result.SharedSecret, mlpq.SharedSecretSize)
				require.Len(t, result.Ciphertext, core.KEMCiphertextSize(kp.PublicKey.Params))

				recovered, err := Decapsulate(&kp.PrivateKey, result.Ciphertext)
				require.NoError(t, err)
				require.Equal(t, result.SharedSecret, recovered, "coin %d", coin)
			}
		})
	}
}

func TestEncapsulate_FreshRandomness(t *testing.T) {
	kp := keyPair(t, mlpq.Level1, 2)

	r1, err := Encapsulate(&kp.PublicKey)
	require.NoError(t, err)
	r2, err := Encapsulate(&kp.PublicKey)
	require.NoError(t, err)

	require.NotEqual(t, r1.Ciphertext, r2.Ciphertext)
	require.NotEqual(t, r1.SharedSecret, r2.SharedSecret)

	s1, err := Decapsulate(&kp.PrivateKey, r1.Ciphertext)
	require.NoError(t, err)
	require.Equal(t, r1.SharedSecret, s1)
}

func TestGenerateKeyPairFromSeed_Deterministic(t *testing.T) {
	for _, level := range levels {
		kp1 := keyPair(t, level, 3)
		kp2 := keyPair(t, level, 3)
		require.Equal(t, SerializePublicKey(&kp1.PublicKey), SerializePublicKey(&kp2.PublicKey))
		require.Equal(t, SerializePrivateKey(&kp1.PrivateKey), SerializePrivateKey(&kp2.PrivateKey))

		kp3 := keyPair(t, level, 4)
		require.NotEqual(t, SerializePublicKey(&kp1.PublicKey), SerializePublicKey(&kp3.PublicKey))
	}
}

func TestGenerateKeyPairFromSeed_RejectsShortSeed(t *testing.T) {
	params, err := core.GetParams(mlpq.Level1)
	require.NoError(t, err)
	_, err = GenerateKeyPairFromSeed(params.KEM, []byte("short"))
	require.Error(t, err)
}

func TestEncapsulateDeterministic_RejectsBadCoins(t *testing.T) {
	kp := keyPair(t, mlpq.Level1, 5)
	_, err := EncapsulateDeterministic(&kp.PublicKey, []byte("too short"))
	require.Error(t, err)
}

func TestDecapsulate_ImplicitRejection(t *testing.T) {
	for _, level := range levels {
		t.Run(string(level), func(t *testing.T) {
			kp := keyPair(t, level, 6)
			result, err := EncapsulateDeterministic(&kp.PublicKey, testSeed(7))
			require.NoError(t, err)

			good, err := Decapsulate(&kp.PrivateKey, result.Ciphertext)
			require.NoError(t, err)

			// Flipping any bit of the ciphertext must decapsulate
			// cleanly to a secret unrelated to the real one.
			for _, pos := range []int{0, len(result.Ciphertext) / 2, len(result.Ciphertext) - 1} {
				tampered := append([]byte{}, result.Ciphertext...)
				tampered[pos] ^= 0x01

				rejected, err := Decapsulate(&kp.PrivateKey, tampered)
				require.NoError(t, err)
				require.Len(t, rejected, mlpq.SharedSecretSize)
				require.NotEqual(t, good, rejected, "flip at %d", pos)

				// Rejection is deterministic per ciphertext.
				again, err := Decapsulate(&kp.PrivateKey, tampered)
				require.NoError(t, err)
				require.Equal(t, rejected, again)
			}
		})
	}
}

func TestDecapsulate_RejectionDependsOnSecretKey(t *testing.T) {
	kp1 := keyPair(t, mlpq.Level1, 8)
	kp2 := keyPair(t, mlpq.Level1, 9)

	result, err := EncapsulateDeterministic(&kp1.PublicKey, testSeed(10))
	require.NoError(t, err)
	tampered := append([]byte{}, result.Ciphertext...)
	tampered[0] ^= 0x80

	s1, err := Decapsulate(&kp1.PrivateKey, tampered)
	require.NoError(t, err)
	s2, err := Decapsulate(&kp2.PrivateKey, tampered)
	require.NoError(t, err)
	require.NotEqual(t, s1, s2)
}

func TestDecapsulate_WrongLength(t *testing.T) {
	kp := keyPair(t, mlpq.Level1, 11)
	size := core.KEMCiphertextSize(kp.PublicKey.Params)

	for _, n := range []int{0, 1, size - 1, size + 1} {
		_, err := Decapsulate(&kp.PrivateKey, make([]byte, n))
		require.ErrorIs(t, err, mlpq.ErrMalformedInput, "length %d", n)
	}
}

func TestGenerateKeyPair_EntropyFailure(t *testing.T) {
	old := utils.RandReader
	utils.RandReader = failingReader{}
	defer func() { utils.RandReader = old }()

	_, err := GenerateKeyPair(mlpq.Level1)
	require.ErrorIs(t, err, mlpq.ErrEntropyUnavailable)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy source closed")
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	kp := keyPair(t, mlpq.Level1, 12)

	for _, plaintext := range [][]byte{
		nil,
		[]byte("x"),
		[]byte("attack at dawn"),
		bytes.Repeat([]byte{0xAB}, 4096),
	} {
		em, err := Encrypt(&kp.PublicKey, plaintext)
		require.NoError(t, err)

		got, err := Decrypt(&kp.PrivateKey, em)
		require.NoError(t, err)
		if len(plaintext) == 0 {
			require.Empty(t, got)
		} else {
			require.Equal(t, plaintext, got)
		}
	}
}

func TestDecrypt_TamperedPayload(t *testing.T) {
	kp := keyPair(t, mlpq.Level1, 13)
	em, err := Encrypt(&kp.PublicKey, []byte("the magic words are squeamish ossifrage"))
	require.NoError(t, err)

	em.Encrypted[0] ^= 0x01
	_, err = Decrypt(&kp.PrivateKey, em)
	require.Error(t, err)
}

func TestDecrypt_TamperedCiphertext(t *testing.T) {
	kp := keyPair(t, mlpq.Level1, 14)
	em, err := Encrypt(&kp.PublicKey, []byte("payload"))
	require.NoError(t, err)

	// A tampered KEM ciphertext decapsulates to the rejection secret,
	// so the DEM tag check must fail.
	em.Ciphertext[3] ^= 0x10
	_, err = Decrypt(&kp.PrivateKey, em)
	require.Error(t, err)
}

func TestDecrypt_ShortPayload(t *testing.T) {
	kp := keyPair(t, mlpq.Level1, 15)
	em, err := Encrypt(&kp.PublicKey, []byte("payload"))
	require.NoError(t, err)

	em.Encrypted = em.Encrypted[:8]
	_, err = Decrypt(&kp.PrivateKey, em)
	require.ErrorIs(t, err, mlpq.ErrMalformedInput)
}
