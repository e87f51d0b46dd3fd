package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/latticeworks/mlpq-go/sign"
)

func newSignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Digital signature operations",
	}
	cmd.AddCommand(
		newSignKeygenCmd(),
		newSignSignCmd(),
		newSignVerifyCmd(),
	)
	return cmd
}

func newSignKeygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a signature key pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := resolveParams()
			if err != nil {
				return err
			}

			start := time.Now()
			kp, err := sign.GenerateKeyPair(params.Level)
			if err != nil {
				return err
			}
			reportTiming("key generation", start)

			return writeJSON(KeyPairExport{
				Scheme:        "sign",
				SecurityLevel: string(params.Level),
				PublicKey:     encodeBytes(sign.SerializePublicKey(&kp.PublicKey)),
				PrivateKey:    encodeBytes(sign.SerializePrivateKey(&kp.PrivateKey)),
				CreatedAt:     timestamp(),
			})
		},
	}
}

func newSignSignCmd() *cobra.Command {
	var skFile, message, input string
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a message",
		RunE: func(cmd *cobra.Command, args []string) error {
			var export KeyPairExport
			if err := readJSON(skFile, &export); err != nil {
				return err
			}
			params, err := resolveParams()
			if err != nil {
				return err
			}
			raw, err := decodeBytes(export.PrivateKey)
			if err != nil {
				return fmt.Errorf("decoding private key: %w", err)
			}
			sk, err := sign.DeserializePrivateKey(params.Sig, raw)
			if err != nil {
				return err
			}

			msg, err := readMessage(message, input)
			if err != nil {
				return err
			}

			start := time.Now()
			sig := sign.Sign(sk, msg)
			reportTiming("signing", start)

			return writeJSON(SignatureExport{
				SecurityLevel: string(params.Level),
				Signature:     encodeBytes(sig),
			})
		},
	}
	cmd.Flags().StringVar(&skFile, "secret-key", "", "key pair JSON file holding the private key")
	cmd.Flags().StringVar(&message, "message", "", "message text")
	cmd.Flags().StringVar(&input, "input", "", "message file")
	_ = cmd.MarkFlagRequired("secret-key")
	return cmd
}

func newSignVerifyCmd() *cobra.Command {
	var pkFile, sigFile, message, input string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a signature",
		RunE: func(cmd *cobra.Command, args []string) error {
			var keyExport KeyPairExport
			if err := readJSON(pkFile, &keyExport); err != nil {
				return err
			}
			params, err := resolveParams()
			if err != nil {
				return err
			}
			raw, err := decodeBytes(keyExport.PublicKey)
			if err != nil {
				return fmt.Errorf("decoding public key: %w", err)
			}
			pk, err := sign.DeserializePublicKey(params.Sig, raw)
			if err != nil {
				return err
			}

			var sigExport SignatureExport
			if err := readJSON(sigFile, &sigExport); err != nil {
				return err
			}
			sig, err := decodeBytes(sigExport.Signature)
			if err != nil {
				return fmt.Errorf("decoding signature: %w", err)
			}

			msg, err := readMessage(message, input)
			if err != nil {
				return err
			}

			start := time.Now()
			ok := sign.Verify(pk, msg, sig)
			reportTiming("verification", start)

			if !ok {
				return fmt.Errorf("signature verification failed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "signature valid")
			return nil
		},
	}
	cmd.Flags().StringVar(&pkFile, "public-key", "", "key pair JSON file holding the public key")
	cmd.Flags().StringVar(&sigFile, "signature", "", "signature JSON file")
	cmd.Flags().StringVar(&message, "message", "", "message text")
	cmd.Flags().StringVar(&input, "input", "", "message file")
	_ = cmd.MarkFlagRequired("public-key")
	_ = cmd.MarkFlagRequired("signature")
	return cmd
}
