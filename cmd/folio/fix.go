package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/folio/internal/fetch"
	"github.com/jackzampolin/folio/internal/manifest"
	"github.com/jackzampolin/folio/internal/schema"
)

var (
	fixTimeout  time.Duration
	fixAttempts uint
	fixNoVerify bool
)

var fixCmd = &cobra.Command{
	Use:   "fix <file-or-url> [dest]",
	Short: "Repair a manifest locally",
	Long: `Repair a manuscript import manifest without a running server.

The source may be a local file or an HTTP(S) URL. The repaired canonical
manifest is written to dest, or to stdout when dest is omitted.

A repair that cannot produce a document (no parseable JSON object)
exits non-zero with the failing stage and byte offset.

Examples:
  folio fix manifest.json                     # Repair to stdout
  folio fix manifest.json fixed.json          # Repair to a file
  folio fix https://example.com/m.json        # Repair a remote manifest`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		raw, err := fetch.Read(ctx, args[0], fetch.Options{
			Timeout:  fixTimeout,
			Attempts: fixAttempts,
		})
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		m, err := manifest.Repair(raw)
		if err != nil {
			var unrec *manifest.UnrecoverableError
			if errors.As(err, &unrec) {
				return fmt.Errorf("unrecoverable manifest (stage %s, offset %d): %w", unrec.Stage, unrec.Offset, unrec.Err)
			}
			return err
		}

		if !fixNoVerify {
			if err := schema.Validate(m); err != nil {
				fmt.Fprintf(os.Stderr, "warning: repaired manifest fails schema validation: %v\n", err)
			}
		}

		out, err := m.JSON()
		if err != nil {
			return err
		}
		out = append(out, '\n')

		if len(args) == 2 {
			if err := os.WriteFile(args[1], out, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", args[1], err)
			}
			fmt.Fprintf(os.Stderr, "wrote %s (%d chapters)\n", args[1], len(m.Chapters))
			return nil
		}

		_, err = os.Stdout.Write(out)
		return err
	},
}

func init() {
	fixCmd.Flags().DurationVar(&fixTimeout, "timeout", 30*time.Second, "Per-attempt fetch timeout")
	fixCmd.Flags().UintVar(&fixAttempts, "attempts", fetch.DefaultAttempts, "HTTP retry attempts")
	fixCmd.Flags().BoolVar(&fixNoVerify, "no-verify", false, "Skip schema validation warning")

	rootCmd.AddCommand(fixCmd)
}
