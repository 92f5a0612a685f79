package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"inkwell/scribe/pkg/actions"
	"inkwell/scribe/pkg/autoselect"
)

var actionFlags struct {
	file      string
	selection string
	language  string
	provider  string
	model     string
	stream    bool
	auto      bool
}

var actionCmd = &cobra.Command{
	Use:   "action <id>",
	Short: "Run a high-level action over content",
	Long: `Run a registered action (explain, refactor, convert, infer_schema,
summarize_logs, generate_tests, fix_syntax, transform_text) over content
from --file or stdin.

With --auto the provider is chosen by the selection heuristic: content
size against model context windows, action capability tags, and a
preference for the currently active provider.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actionID := args[0]

		content, err := readInput("", actionFlags.file)
		if err != nil {
			return err
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		if _, ok := app.registry.Get(actionID); !ok {
			return fmt.Errorf("unknown action %q", actionID)
		}

		switch {
		case actionFlags.provider != "":
			if err := app.manager.SetActiveProvider(actionFlags.provider, actionFlags.model); err != nil {
				return err
			}
		case actionFlags.auto:
			chosen := autoselect.Select(len(content), actionID,
				app.manager.AvailableProviders(), app.manager.ActiveProviderID())
			if chosen != "" && chosen != app.manager.ActiveProviderID() {
				if err := app.manager.SetActiveProvider(chosen, ""); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "auto-selected provider %q\n", chosen)
			}
		}
		maybePrintPrivacyNotice(app.manager.ActiveProviderID())

		actx := actions.ActionContext{
			Content:   content,
			Selection: actionFlags.selection,
			Language:  actionFlags.language,
			FileName:  actionFlags.file,
		}

		var result actions.Result
		if actionFlags.stream {
			result = app.registry.ExecuteStream(cmd.Context(), app.manager, actionID, actx,
				func(text string, done bool) {
					fmt.Print(text)
					if done {
						fmt.Println()
					}
				})
		} else {
			result = app.registry.Execute(cmd.Context(), app.manager, actionID, actx)
			if result.Success {
				fmt.Println(result.Output)
			}
		}

		if !result.Success {
			return fmt.Errorf("action %q failed: %s", actionID, result.Error)
		}
		return nil
	},
}

var actionListCmd = &cobra.Command{
	Use:   "actions",
	Short: "List registered actions",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := actions.NewRegistry()
		for _, def := range registry.List() {
			fmt.Printf("%-16s %s\n", def.ID, def.Description)
		}
		return nil
	},
}

func init() {
	actionCmd.Flags().StringVarP(&actionFlags.file, "file", "f", "", "read content from file")
	actionCmd.Flags().StringVar(&actionFlags.selection, "selection", "", "operate on this fragment instead of the full content")
	actionCmd.Flags().StringVar(&actionFlags.language, "language", "", "content language hint")
	actionCmd.Flags().StringVar(&actionFlags.provider, "provider", "", "override the active provider")
	actionCmd.Flags().StringVarP(&actionFlags.model, "model", "m", "", "model id")
	actionCmd.Flags().BoolVar(&actionFlags.stream, "stream", true, "stream output incrementally")
	actionCmd.Flags().BoolVar(&actionFlags.auto, "auto", false, "auto-select the provider for this content")
	rootCmd.AddCommand(actionCmd)
	rootCmd.AddCommand(actionListCmd)
}
