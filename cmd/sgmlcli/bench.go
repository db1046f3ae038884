package main

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/kxml/sgml/sgml"
)

// timer accumulates a run's individual durations, mirroring the original
// demo harness's start/stop/totaltime bookkeeping.
type timer struct {
	runs  []time.Duration
	total time.Duration
}

func (t *timer) record(d time.Duration) {
	t.runs = append(t.runs, d)
	t.total += d
}

func (t *timer) average() time.Duration {
	if len(t.runs) == 0 {
		return 0
	}
	return t.total / time.Duration(len(t.runs))
}

func newBenchCmd() *cobra.Command {
	var n int
	var member string

	cmd := &cobra.Command{
		Use:   "bench [archive.zip]",
		Short: "Extract an archive and parse its XML file N times, reporting timings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archivePath := "source.zip"
			if len(args) == 1 {
				archivePath = args[0]
			}
			return runBench(cmd.OutOrStdout(), archivePath, member, n)
		},
	}
	cmd.Flags().IntVar(&n, "n", 100, "number of parse runs")
	cmd.Flags().StringVar(&member, "file", "source/source.xml", "path of the XML file inside the archive to parse")
	return cmd
}

// runBench extracts member from archivePath into a fresh temp directory on
// every iteration — matching the original harness's extract/parse/discard
// cycle, so each run pays the same cold-read cost the one before it did —
// and reports the elapsed time of every run whose index is a multiple of
// n/10 (no per-run lines when n < 10) plus the aggregate timings.
func runBench(w io.Writer, archivePath, member string, n int) error {
	t := &timer{}
	for i := 0; i < n; i++ {
		dir, err := os.MkdirTemp("", "sgml-bench-")
		if err != nil {
			return err
		}
		path, err := extractMember(archivePath, member, dir)
		if err != nil {
			os.RemoveAll(dir)
			return fmt.Errorf("extracting %q from %q: %w", member, archivePath, err)
		}

		start := time.Now()
		_, err = sgml.New().ParseFile(path)
		elapsed := time.Since(start)
		os.RemoveAll(dir)
		if err != nil {
			return fmt.Errorf("run %d: %w", i, err)
		}

		t.record(elapsed)
		if n >= 10 && i%(n/10) == 0 {
			fmt.Fprintf(w, "run %d/%d: %s\n", i, n, elapsed)
		}
	}
	fmt.Fprintf(w, "%d runs, total %s, average %s\n", len(t.runs), t.total, t.average())
	return nil
}

// extractMember pulls member out of the zip archive at archivePath into
// dir, returning the extracted file's path.
func extractMember(archivePath, member, dir string) (string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != member {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()

		dest := filepath.Join(dir, filepath.Base(member))
		out, err := os.Create(dest)
		if err != nil {
			return "", err
		}
		defer out.Close()

		if _, err := io.Copy(out, rc); err != nil {
			return "", err
		}
		return dest, nil
	}
	return "", fmt.Errorf("member %q not found in archive", member)
}
