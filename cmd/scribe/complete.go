package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"inkwell/scribe/pkg/providers"
)

var completeFlags struct {
	prompt      string
	file        string
	provider    string
	model       string
	task        string
	language    string
	maxTokens   int
	temperature float64
	stream      bool
}

var completeCmd = &cobra.Command{
	Use:   "complete",
	Short: "Run a one-shot completion",
	Long: `Run a one-shot completion against the active provider.

The prompt comes from --prompt, --file, or stdin. With --stream (the
default) output is printed incrementally as it arrives.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt, err := readInput(completeFlags.prompt, completeFlags.file)
		if err != nil {
			return err
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		if completeFlags.provider != "" {
			if err := app.manager.SetActiveProvider(completeFlags.provider, completeFlags.model); err != nil {
				return err
			}
		}
		maybePrintPrivacyNotice(app.manager.ActiveProviderID())

		params := &providers.CompletionParams{
			Prompt:      prompt,
			Language:    completeFlags.language,
			Model:       completeFlags.model,
			MaxTokens:   completeFlags.maxTokens,
			Temperature: completeFlags.temperature,
			Task:        completeFlags.task,
		}

		if completeFlags.stream {
			_, err := app.manager.StreamComplete(cmd.Context(), params, func(text string, done bool) {
				fmt.Print(text)
				if done {
					fmt.Println()
				}
			})
			return err
		}

		res, err := app.manager.Complete(cmd.Context(), params)
		if err != nil {
			return err
		}
		fmt.Println(res.Text)
		return nil
	},
}

func init() {
	completeCmd.Flags().StringVarP(&completeFlags.prompt, "prompt", "p", "", "prompt text")
	completeCmd.Flags().StringVarP(&completeFlags.file, "file", "f", "", "read prompt from file")
	completeCmd.Flags().StringVar(&completeFlags.provider, "provider", "", "override the active provider")
	completeCmd.Flags().StringVarP(&completeFlags.model, "model", "m", "", "model id")
	completeCmd.Flags().StringVar(&completeFlags.task, "task", "", "task id selecting the system instruction")
	completeCmd.Flags().StringVar(&completeFlags.language, "language", "", "content language hint")
	completeCmd.Flags().IntVar(&completeFlags.maxTokens, "max-tokens", 0, "max completion tokens")
	completeCmd.Flags().Float64Var(&completeFlags.temperature, "temperature", 0, "sampling temperature")
	completeCmd.Flags().BoolVar(&completeFlags.stream, "stream", true, "stream output incrementally")
	rootCmd.AddCommand(completeCmd)
}
