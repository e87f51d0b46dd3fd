package kem

import (
	"errors"
	"testing"

	mlpq "github.com/latticeworks/mlpq-go"
	"github.com/latticeworks/mlpq-go/core"
)

// FuzzDecapsulate checks that arbitrary ciphertext bytes never cause a
// panic: wrong lengths report mlpq.ErrMalformedInput, and everything
// else decapsulates to some 32-byte secret.
func FuzzDecapsulate(f *testing.F) {
	params, err := core.GetParams(mlpq.Level1)
	if err != nil {
		f.Fatal(err)
	}
	kp, err := GenerateKeyPairFromSeed(params.KEM, testSeed(40))
	if err != nil {
		f.Fatal(err)
	}

	good, err := EncapsulateDeterministic(&kp.PublicKey, testSeed(41))
	if err != nil {
		f.Fatal(err)
	}
	f.Add(good.Ciphertext)
	f.Add([]byte{})
	f.Add(make([]byte, core.KEMCiphertextSize(params.KEM)))

	f.Fuzz(func(t *testing.T, ct []byte) {
		ss, err := Decapsulate(&kp.PrivateKey, ct)
		if err != nil {
			if !errors.Is(err, mlpq.ErrMalformedInput) {
				t.Fatalf("unexpected error class: %v", err)
			}
			return
		}
		if len(ss) != mlpq.SharedSecretSize {
			t.Fatalf("shared secret length %d", len(ss))
		}
	})
}

// FuzzDeserializePublicKey checks that arbitrary bytes either fail with
// mlpq.ErrMalformedInput or decode to a key that re-serializes to the
// same bytes.
func FuzzDeserializePublicKey(f *testing.F) {
	params, err := core.GetParams(mlpq.Level1)
	if err != nil {
		f.Fatal(err)
	}
	kp, err := GenerateKeyPairFromSeed(params.KEM, testSeed(42))
	if err != nil {
		f.Fatal(err)
	}
	f.Add(SerializePublicKey(&kp.PublicKey))
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, b []byte) {
		pk, err := DeserializePublicKey(params.KEM, b)
		if err != nil {
			if !errors.Is(err, mlpq.ErrMalformedInput) {
				t.Fatalf("unexpected error class: %v", err)
			}
			return
		}
		if got := SerializePublicKey(pk); string(got) != string(b) {
			t.Fatal("serialization is not canonical")
		}
	})
}
