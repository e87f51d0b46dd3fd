package main

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/latticeworks/mlpq-go/kem"
)

func newKEMCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kem",
		Short: "Key encapsulation operations",
	}
	cmd.AddCommand(
		newKEMKeygenCmd(),
		newKEMEncapCmd(),
		newKEMDecapCmd(),
		newKEMEncryptCmd(),
		newKEMDecryptCmd(),
	)
	return cmd
}

func loadKEMPublicKey(path string) (*kem.PublicKey, *KeyPairExport, error) {
	var export KeyPairExport
	if err := readJSON(path, &export); err != nil {
		return nil, nil, err
	}
	params, err := resolveParams()
	if err != nil {
		return nil, nil, err
	}
	raw, err := decodeBytes(export.PublicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding public key: %w", err)
	}
	pk, err := kem.DeserializePublicKey(params.KEM, raw)
	if err != nil {
		return nil, nil, err
	}
	return pk, &export, nil
}

func loadKEMPrivateKey(path string) (*kem.PrivateKey, error) {
	var export KeyPairExport
	if err := readJSON(path, &export); err != nil {
		return nil, err
	}
	params, err := resolveParams()
	if err != nil {
		return nil, err
	}
	raw, err := decodeBytes(export.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("decoding private key: %w", err)
	}
	return kem.DeserializePrivateKey(params.KEM, raw)
}

func newKEMKeygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a KEM key pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := resolveParams()
			if err != nil {
				return err
			}

			start := time.Now()
			kp, err := kem.GenerateKeyPair(params.Level)
			if err != nil {
				return err
			}
			reportTiming("key generation", start)

			return writeJSON(KeyPairExport{
				Scheme:        "kem",
				SecurityLevel: string(params.Level),
				PublicKey:     encodeBytes(kem.SerializePublicKey(&kp.PublicKey)),
				PrivateKey:    encodeBytes(kem.SerializePrivateKey(&kp.PrivateKey)),
				CreatedAt:     timestamp(),
			})
		},
	}
}

func newKEMEncapCmd() *cobra.Command {
	var pkFile, coinsHex string
	cmd := &cobra.Command{
		Use:   "encap",
		Short: "Encapsulate a fresh shared secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			pk, _, err := loadKEMPublicKey(pkFile)
			if err != nil {
				return err
			}

			start := time.Now()
			var result *kem.EncapsulationResult
			if coinsHex != "" {
				coins, err := hex.DecodeString(coinsHex)
				if err != nil {
					return fmt.Errorf("invalid --coins hex: %w", err)
				}
				result, err = kem.EncapsulateDeterministic(pk, coins)
				if err != nil {
					return err
				}
			} else {
				result, err = kem.Encapsulate(pk)
				if err != nil {
					return err
				}
			}
			reportTiming("encapsulation", start)

			return writeJSON(EncapsulationExport{
				SecurityLevel: string(pk.Params.Level),
				Ciphertext:    encodeBytes(result.Ciphertext),
				SharedSecret:  encodeBytes(result.SharedSecret),
			})
		},
	}
	cmd.Flags().StringVar(&pkFile, "public-key", "", "key pair JSON file holding the public key")
	cmd.Flags().StringVar(&coinsHex, "coins", "", "32 hex-encoded bytes for deterministic encapsulation")
	_ = cmd.MarkFlagRequired("public-key")
	return cmd
}

func newKEMDecapCmd() *cobra.Command {
	var skFile, ctFile string
	cmd := &cobra.Command{
		Use:   "decap",
		Short: "Recover the shared secret from a ciphertext",
		RunE: func(cmd *cobra.Command, args []string) error {
			sk, err := loadKEMPrivateKey(skFile)
			if err != nil {
				return err
			}

			var encap EncapsulationExport
			if err := readJSON(ctFile, &encap); err != nil {
				return err
			}
			ct, err := decodeBytes(encap.Ciphertext)
			if err != nil {
				return fmt.Errorf("decoding ciphertext: %w", err)
			}

			start := time.Now()
			ss, err := kem.Decapsulate(sk, ct)
			if err != nil {
				return err
			}
			reportTiming("decapsulation", start)

			return writeJSON(EncapsulationExport{
				SecurityLevel: string(sk.Params.Level),
				Ciphertext:    encap.Ciphertext,
				SharedSecret:  encodeBytes(ss),
			})
		},
	}
	cmd.Flags().StringVar(&skFile, "secret-key", "", "key pair JSON file holding the private key")
	cmd.Flags().StringVar(&ctFile, "ciphertext", "", "encapsulation JSON file")
	_ = cmd.MarkFlagRequired("secret-key")
	_ = cmd.MarkFlagRequired("ciphertext")
	return cmd
}

func newKEMEncryptCmd() *cobra.Command {
	var pkFile, message, input string
	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt a message with KEM-DEM hybrid encryption",
		RunE: func(cmd *cobra.Command, args []string) error {
			pk, _, err := loadKEMPublicKey(pkFile)
			if err != nil {
				return err
			}
			plaintext, err := readMessage(message, input)
			if err != nil {
				return err
			}

			start := time.Now()
			em, err := kem.Encrypt(pk, plaintext)
			if err != nil {
				return err
			}
			reportTiming("encryption", start)

			return writeJSON(EncryptedExport{
				SecurityLevel: string(pk.Params.Level),
				Ciphertext:    encodeBytes(em.Ciphertext),
				Encrypted:     encodeBytes(em.Encrypted),
				Nonce:         encodeBytes(em.Nonce),
			})
		},
	}
	cmd.Flags().StringVar(&pkFile, "public-key", "", "key pair JSON file holding the public key")
	cmd.Flags().StringVar(&message, "message", "", "message text")
	cmd.Flags().StringVar(&input, "input", "", "message file")
	_ = cmd.MarkFlagRequired("public-key")
	return cmd
}

func newKEMDecryptCmd() *cobra.Command {
	var skFile, ctFile string
	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt a KEM-DEM encrypted message",
		RunE: func(cmd *cobra.Command, args []string) error {
			sk, err := loadKEMPrivateKey(skFile)
			if err != nil {
				return err
			}

			var export EncryptedExport
			if err := readJSON(ctFile, &export); err != nil {
				return err
			}
			em := &kem.EncryptedMessage{}
			if em.Ciphertext, err = decodeBytes(export.Ciphertext); err != nil {
				return fmt.Errorf("decoding ciphertext: %w", err)
			}
			if em.Encrypted, err = decodeBytes(export.Encrypted); err != nil {
				return fmt.Errorf("decoding payload: %w", err)
			}
			if em.Nonce, err = decodeBytes(export.Nonce); err != nil {
				return fmt.Errorf("decoding nonce: %w", err)
			}

			start := time.Now()
			plaintext, err := kem.Decrypt(sk, em)
			if err != nil {
				return err
			}
			reportTiming("decryption", start)

			if opts.output != "" {
				return writeRaw(plaintext)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", plaintext)
			return nil
		},
	}
	cmd.Flags().StringVar(&skFile, "secret-key", "", "key pair JSON file holding the private key")
	cmd.Flags().StringVar(&ctFile, "ciphertext", "", "encrypted message JSON file")
	_ = cmd.MarkFlagRequired("secret-key")
	_ = cmd.MarkFlagRequired("ciphertext")
	return cmd
}
