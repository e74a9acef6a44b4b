package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/folio/internal/api"
	"github.com/jackzampolin/folio/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Manuscript import manifest repair and serving",
	Long: `Folio repairs almost-valid manuscript import manifests and serves
the recovered documents over HTTP.

Manifests arrive as JSON wrapped in prose, littered with control bytes,
truncation placeholders, and raw newlines inside strings. Folio recovers
a canonical document from them:
  - Strips framing prose and junk bytes
  - Escapes raw newlines inside string literals
  - Flattens legacy content blocks into plain chapter bodies
  - Normalizes chapter ordering, slugs, tags, and word counts`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.folio/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "folio home directory (default: ~/.folio)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
