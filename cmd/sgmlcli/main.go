// Command sgmlcli parses, validates, queries, and canonicalizes SGML/XML
// documents from the shell.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kxml/sgml/internal/sgmlog"
)

func main() {
	logCfg := sgmlog.NewConfig()

	rootCmd := &cobra.Command{
		Use:           "sgmlcli",
		Short:         "Parse, validate, query, and canonicalize SGML/XML documents",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			handler, err := logCfg.NewHandler(os.Stderr)
			if err != nil {
				return err
			}
			slog.SetDefault(slog.New(handler))
			return nil
		},
	}
	logCfg.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		newParseCmd(),
		newValidateCmd(),
		newQueryCmd(),
		newCanonCmd(),
		newDemoCmd(),
		newBenchCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
