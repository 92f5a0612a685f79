package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "Scribe - multi-provider AI client runtime",
	Long: `Scribe is a multi-provider AI client runtime for document and code
assistance.

It provides one uniform completion/chat/streaming surface over OpenAI,
Groq, Mistral, Anthropic, Google Gemini, and local Ollama daemons:
  - Secret scanning and redaction before content leaves the machine
  - Capability-gated dispatch and provider auto-selection
  - Prompt-templated actions (explain, refactor, infer_schema, ...)
  - Local SQLite usage accounting`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
