package main

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// KeyPairExport is the on-disk JSON form of a generated key pair.
type KeyPairExport struct {
	Scheme        string `json:"scheme"`
	SecurityLevel string `json:"security_level"`
	PublicKey     string `json:"public_key"`
	PrivateKey    string `json:"private_key"`
	CreatedAt     string `json:"created_at"`
}

// EncapsulationExport is the on-disk JSON form of an encapsulation.
type EncapsulationExport struct {
	SecurityLevel string `json:"security_level"`
	Ciphertext    string `json:"ciphertext"`
	SharedSecret  string `json:"shared_secret"`
}

// SignatureExport is the on-disk JSON form of a signature.
type SignatureExport struct {
	SecurityLevel string `json:"security_level"`
	Signature     string `json:"signature"`
}

// EncryptedExport is the on-disk JSON form of a KEM-DEM encryption.
type EncryptedExport struct {
	SecurityLevel string `json:"security_level"`
	Ciphertext    string `json:"ciphertext"`
	Encrypted     string `json:"encrypted"`
	Nonce         string `json:"nonce"`
}

func encodeBytes(b []byte) string {
	if opts.format == "hex" {
		return hex.EncodeToString(b)
	}
	return base64.StdEncoding.EncodeToString(b)
}

func decodeBytes(s string) ([]byte, error) {
	if opts.format == "hex" {
		return hex.DecodeString(s)
	}
	return base64.StdEncoding.DecodeString(s)
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// writeJSON marshals v and writes it to the --output file or stdout.
func writeJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')
	if opts.output == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(opts.output, out, 0o600)
}

// writeRaw writes bytes verbatim to the --output file.
func writeRaw(b []byte) error {
	return os.WriteFile(opts.output, b, 0o600)
}

// readJSON reads and unmarshals a JSON file written by writeJSON.
func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// readMessage resolves the message bytes from --message or --input.
func readMessage(message, input string) ([]byte, error) {
	switch {
	case message != "" && input != "":
		return nil, fmt.Errorf("use either --message or --input, not both")
	case input != "":
		return os.ReadFile(input)
	default:
		return []byte(message), nil
	}
}

// reportTiming prints the elapsed time of an operation when --timing is
// set.
func reportTiming(op string, start time.Time) {
	if opts.timing {
		fmt.Fprintf(os.Stderr, "%s took %v\n", op, time.Since(start))
	}
}
