// Package test provides cross-package integration tests: full KEM and
// signature workflows through the public API, including serialization
// boundaries.
package test

import (
	"bytes"
	"testing"

	mlpq "github.com/latticeworks/mlpq-go"
	"github.com/latticeworks/mlpq-go/core"
	"github.com/latticeworks/mlpq-go/kem"
	"github.com/latticeworks/mlpq-go/sign"
)

var levels = []mlpq.SecurityLevel{mlpq.Level1, mlpq.Level3, mlpq.Level5}

// TestKEMRoundtrip tests key generation, encapsulation, and decapsulation.
func TestKEMRoundtrip(t *testing.T) {
	for _, level := range levels {
		t.Run(string(level), func(t *testing.T) {
			kp, err := kem.GenerateKeyPair(level)
			if err != nil {
				t.Fatalf("GenerateKeyPair failed: %v", err)
			}

			result, err := kem.Encapsulate(&kp.PublicKey)
			if err != nil {
				t.Fatalf("Encapsulate failed: %v", err)
			}
			if len(result.SharedSecret) != mlpq.SharedSecretSize {
				t.Errorf("SharedSecret length = %d, want %d", len(result.SharedSecret), mlpq.SharedSecretSize)
			}

			recovered, err := kem.Decapsulate(&kp.PrivateKey, result.Ciphertext)
			if err != nil {
				t.Fatalf("Decapsulate failed: %v", err)
			}
			if !bytes.Equal(result.SharedSecret, recovered) {
				t.Error("shared secrets do not match")
			}
		})
	}
}

// TestKEMRoundtripThroughSerialization exercises the wire formats: both
// sides of the exchange only ever see serialized keys.
func TestKEMRoundtripThroughSerialization(t *testing.T) {
	for _, level := range levels {
		t.Run(string(level), func(t *testing.T) {
			params, err := core.GetParams(level)
			if err != nil {
				t.Fatal(err)
			}

			kp, err := kem.GenerateKeyPair(level)
			if err != nil {
				t.Fatal(err)
			}

			pk, err := kem.DeserializePublicKey(params.KEM, kem.SerializePublicKey(&kp.PublicKey))
			if err != nil {
				t.Fatal(err)
			}
			sk, err := kem.DeserializePrivateKey(params.KEM, kem.SerializePrivateKey(&kp.PrivateKey))
			if err != nil {
				t.Fatal(err)
			}

			result, err := kem.Encapsulate(pk)
			if err != nil {
				t.Fatal(err)
			}
			recovered, err := kem.Decapsulate(sk, result.Ciphertext)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(result.SharedSecret, recovered) {
				t.Error("shared secrets do not match after serialization")
			}
		})
	}
}

// TestSignRoundtrip tests key generation, signing, and verification.
func TestSignRoundtrip(t *testing.T) {
	for _, level := range levels {
		t.Run(string(level), func(t *testing.T) {
			kp, err := sign.GenerateKeyPair(level)
			if err != nil {
				t.Fatalf("GenerateKeyPair failed: %v", err)
			}

			msg := []byte("integration test message")
			sig := sign.Sign(&kp.PrivateKey, msg)

			if !sign.Verify(&kp.PublicKey, msg, sig) {
				t.Error("valid signature rejected")
			}
			if sign.Verify(&kp.PublicKey, []byte("another message"), sig) {
				t.Error("signature accepted for wrong message")
			}
		})
	}
}

// TestSignRoundtripThroughSerialization signs with a deserialized key
// and verifies with a deserialized key.
func TestSignRoundtripThroughSerialization(t *testing.T) {
	for _, level := range levels {
		t.Run(string(level), func(t *testing.T) {
			params, err := core.GetParams(level)
			if err != nil {
				t.Fatal(err)
			}

			kp, err := sign.GenerateKeyPair(level)
			if err != nil {
				t.Fatal(err)
			}

			sk, err := sign.DeserializePrivateKey(params.Sig, sign.SerializePrivateKey(&kp.PrivateKey))
			if err != nil {
				t.Fatal(err)
			}
			pk, err := sign.DeserializePublicKey(params.Sig, sign.SerializePublicKey(&kp.PublicKey))
			if err != nil {
				t.Fatal(err)
			}

			msg := []byte("serialized key workflow")
			sig := sign.Sign(sk, msg)
			if !sign.Verify(pk, msg, sig) {
				t.Error("valid signature rejected after serialization")
			}
		})
	}
}

// TestCrossLevelRejection makes sure artifacts from one level never
// validate under another.
func TestCrossLevelRejection(t *testing.T) {
	kp1, err := kem.GenerateKeyPair(mlpq.Level1)
	if err != nil {
		t.Fatal(err)
	}
	params3, err := core.GetParams(mlpq.Level3)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := kem.DeserializePublicKey(params3.KEM, kem.SerializePublicKey(&kp1.PublicKey)); err == nil {
		t.Error("Level1 public key accepted under Level3 parameters")
	}

	skp1, err := sign.GenerateKeyPair(mlpq.Level1)
	if err != nil {
		t.Fatal(err)
	}
	sig := sign.Sign(&skp1.PrivateKey, []byte("level mismatch"))

	skp3, err := sign.GenerateKeyPair(mlpq.Level3)
	if err != nil {
		t.Fatal(err)
	}
	if sign.Verify(&skp3.PublicKey, []byte("level mismatch"), sig) {
		t.Error("Level1 signature accepted by Level3 key")
	}
}

// TestHybridEncryption exercises the KEM-DEM path end to end.
func TestHybridEncryption(t *testing.T) {
	kp, err := kem.GenerateKeyPair(mlpq.Level3)
	if err != nil {
		t.Fatal(err)
	}

	plaintext := bytes.Repeat([]byte("integration "), 1000)
	em, err := kem.Encrypt(&kp.PublicKey, plaintext)
	if err != nil {
		t.Fatal(err)
	}

	decrypted, err := kem.Decrypt(&kp.PrivateKey, em)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(plaintext, decrypted) {
		t.Error("decrypted plaintext differs")
	}

	em.Encrypted[10] ^= 0xFF
	if _, err := kem.Decrypt(&kp.PrivateKey, em); err == nil {
		t.Error("tampered payload decrypted without error")
	}
}

// TestObserverEvents installs an observer across a full workflow and
// checks that every operation reports exactly once.
func TestObserverEvents(t *testing.T) {
	obs := &countingObserver{}
	mlpq.SetObserver(obs)
	defer mlpq.SetObserver(nil)

	kp, err := kem.GenerateKeyPair(mlpq.Level1)
	if err != nil {
		t.Fatal(err)
	}
	result, err := kem.Encapsulate(&kp.PublicKey)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := kem.Decapsulate(&kp.PrivateKey, result.Ciphertext); err != nil {
		t.Fatal(err)
	}

	skp, err := sign.GenerateKeyPair(mlpq.Level1)
	if err != nil {
		t.Fatal(err)
	}
	sig := sign.Sign(&skp.PrivateKey, []byte("observed"))
	sign.Verify(&skp.PublicKey, []byte("observed"), sig)

	if obs.keygens != 2 {
		t.Errorf("keygens = %d, want 2", obs.keygens)
	}
	if obs.encaps != 1 || obs.decaps != 1 {
		t.Errorf("encaps = %d, decaps = %d, want 1 each", obs.encaps, obs.decaps)
	}
	if obs.signs != 1 || obs.verifies != 1 {
		t.Errorf("signs = %d, verifies = %d, want 1 each", obs.signs, obs.verifies)
	}
}

type countingObserver struct {
	keygens, encaps, decaps, signs, verifies int
}

func (o *countingObserver) KeyPairGenerated(string, mlpq.SecurityLevel) { o.keygens++ }
func (o *countingObserver) Encapsulated(mlpq.SecurityLevel)             { o.encaps++ }
func (o *countingObserver) Decapsulated(mlpq.SecurityLevel)             { o.decaps++ }
func (o *countingObserver) SignatureProduced(mlpq.SecurityLevel, int)   { o.signs++ }
func (o *countingObserver) SignatureVerified(mlpq.SecurityLevel, bool)  { o.verifies++ }

// TestSharedSecretsIndependent checks that distinct encapsulations under
// the same key never collide.
func TestSharedSecretsIndependent(t *testing.T) {
	kp, err := kem.GenerateKeyPair(mlpq.Level1)
	if err != nil {
		t.Fatal(err)
	}

	seen := map[string]bool{}
	for i := 0; i < 16; i++ {
		result, err := kem.Encapsulate(&kp.PublicKey)
		if err != nil {
			t.Fatal(err)
		}
		key := string(result.SharedSecret)
		if seen[key] {
			t.Fatal("shared secret repeated")
		}
		seen[key] = true
	}
}
