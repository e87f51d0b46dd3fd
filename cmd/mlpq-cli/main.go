// Command mlpq-cli exposes the mlpq key encapsulation and signature
// operations for scripting and interoperability testing.
package main

import (
	"fmt"
	"os"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"

	mlpq "github.com/latticeworks/mlpq-go"
	"github.com/latticeworks/mlpq-go/core"
)

const appName = "mlpq-cli"

type cliOptions struct {
	level   string
	format  string
	output  string
	verbose bool
	timing  bool
}

var opts cliOptions

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Module-lattice post-quantum KEM and signatures",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				logger := log.NewLogger(cmd.ErrOrStderr())
				mlpq.SetObserver(newLogObserver(logger))
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.level, "level", "1", "security level (1, 3 or 5)")
	root.PersistentFlags().StringVar(&opts.format, "format", "base64", "binary encoding (hex or base64)")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	root.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "log operation events to stderr")
	root.PersistentFlags().BoolVar(&opts.timing, "timing", false, "report operation timing to stderr")

	root.AddCommand(
		newVersionCmd(),
		newKEMCmd(),
		newSignCmd(),
		newInfoCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, mlpq.Version)
		},
	}
}

// newInfoCmd prints the wire sizes for the selected level, which is
// handy when sizing protocol buffers around the library.
func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show parameter and wire sizes for the selected level",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := resolveParams()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Security level:        %s\n", params.Level)
			fmt.Fprintf(out, "KEM public key:        %d bytes\n", core.KEMPublicKeySize(params.KEM))
			fmt.Fprintf(out, "KEM private key:       %d bytes\n", core.KEMPrivateKeySize(params.KEM))
			fmt.Fprintf(out, "KEM ciphertext:        %d bytes\n", core.KEMCiphertextSize(params.KEM))
			fmt.Fprintf(out, "Shared secret:         %d bytes\n", mlpq.SharedSecretSize)
			fmt.Fprintf(out, "Signature public key:  %d bytes\n", core.SigPublicKeySize(params.Sig))
			fmt.Fprintf(out, "Signature private key: %d bytes\n", core.SigPrivateKeySize(params.Sig))
			fmt.Fprintf(out, "Signature:             %d bytes\n", core.SignatureSize(params.Sig))
			return nil
		},
	}
}

// resolveParams maps the --level flag to a validated parameter set.
func resolveParams() (mlpq.Params, error) {
	var level mlpq.SecurityLevel
	switch opts.level {
	case "1", "Level1":
		level = mlpq.Level1
	case "3", "Level3":
		level = mlpq.Level3
	case "5", "Level5":
		level = mlpq.Level5
	default:
		return mlpq.Params{}, fmt.Errorf("invalid --level %q (want 1, 3 or 5)", opts.level)
	}
	return core.GetParams(level)
}
