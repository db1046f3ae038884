package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kxml/sgml/sgml"
)

func newParseCmd() *cobra.Command {
	var validating bool
	var baseDir, dtdCache, entityLog string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a document and print it back out",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			p := sgml.New(sgml.WithValidation(validating), sgml.WithBaseDir(baseDir),
				sgml.WithDTDCache(dtdCache), sgml.WithEntityLog(entityLog))
			doc, err := p.ParseFile(args[0])
			for _, fe := range p.FetchErrors() {
				slog.Warn("external DTD fetch failed", "error", fe)
			}
			if err != nil {
				return err
			}
			fmt.Print(doc.String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&validating, "validate", false, "enable structural validation against the DTD")
	cmd.Flags().StringVar(&baseDir, "base-dir", "", "directory relative SYSTEM/PUBLIC identifiers resolve against")
	cmd.Flags().StringVar(&dtdCache, "dtd-cache", "", "directory caching remote external-subset fetches, mirroring URI paths")
	cmd.Flags().StringVar(&entityLog, "entity-log", "", "file to append undefined entity names to in non-validating mode")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var baseDir, dtdCache string

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a document against its DTD, reporting the first error",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			p := sgml.New(sgml.WithValidation(true), sgml.WithBaseDir(baseDir), sgml.WithDTDCache(dtdCache))
			_, err := p.ParseFile(args[0])
			for _, fe := range p.FetchErrors() {
				slog.Warn("external DTD fetch failed", "error", fe)
			}
			if err != nil {
				return err
			}
			fmt.Println("OK")
			return nil
		},
	}
	cmd.Flags().StringVar(&baseDir, "base-dir", "", "directory relative SYSTEM/PUBLIC identifiers resolve against")
	cmd.Flags().StringVar(&dtdCache, "dtd-cache", "", "directory caching remote external-subset fetches, mirroring URI paths")
	return cmd
}

func newQueryCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "query <file> <path>",
		Short: "Evaluate a query path against a parsed document",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			p := sgml.New()
			doc, err := p.ParseFile(args[0])
			if err != nil {
				return err
			}
			results, err := doc.Query(args[1])
			if err != nil {
				return err
			}
			switch format {
			case "json":
				for _, r := range results {
					j, err := sgml.ToJSON(r)
					if err != nil {
						return err
					}
					fmt.Println(j)
				}
			case "csv":
				return sgml.ToCSV(os.Stdout, results)
			default:
				for _, r := range results {
					fmt.Println(r.String())
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json, csv")
	return cmd
}

func newCanonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "canon <file>",
		Short: "Print a document in canonical (sorted-attribute) form",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			p := sgml.New()
			doc, err := p.ParseFile(args[0])
			if err != nil {
				return err
			}
			os.Stdout.Write(sgml.Canonicalize(doc))
			fmt.Println()
			return nil
		},
	}
	return cmd
}
