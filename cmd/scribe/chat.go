package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"inkwell/scribe/pkg/config"
	"inkwell/scribe/pkg/providers"
	"inkwell/scribe/pkg/runtime"
)

var chatFlags struct {
	provider    string
	model       string
	system      string
	stream      bool
	interactive bool
}

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Send a chat message or start an interactive session",
	Long: `Send a single chat message to the active provider, or start an
interactive session with --interactive.

The message comes from the argument or stdin. --system sets the system
instruction; providers with a dedicated system field receive it there.
Interactive sessions watch the configuration file and reload providers
when it changes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		if chatFlags.provider != "" {
			if err := app.manager.SetActiveProvider(chatFlags.provider, chatFlags.model); err != nil {
				return err
			}
		}
		maybePrintPrivacyNotice(app.manager.ActiveProviderID())

		var opts *providers.CallOptions
		if chatFlags.system != "" {
			opts = &providers.CallOptions{SystemPrompt: chatFlags.system}
		}

		if chatFlags.interactive {
			return runInteractiveChat(cmd, app, opts)
		}

		var text string
		if len(args) == 1 {
			text = args[0]
		}
		text, err = readInput(text, "")
		if err != nil {
			return err
		}

		msgs := []providers.Message{{Role: providers.RoleUser, Content: strings.TrimSpace(text)}}
		return sendChat(cmd, app, msgs, opts)
	},
}

// runInteractiveChat reads messages line by line, keeping the conversation
// history. The config file is watched so provider or credential changes
// apply without restarting the session.
func runInteractiveChat(cmd *cobra.Command, app *app, opts *providers.CallOptions) error {
	watcher := config.NewWatcher(cfgFile, func(cfg *config.Config) {
		providerCfg := runtime.Config{
			Providers:      make(map[string]runtime.Credentials, len(cfg.Providers)),
			ActiveProvider: cfg.ActiveProvider,
		}
		for id, p := range cfg.Providers {
			providerCfg.Providers[id] = runtime.Credentials{
				APIKey:       p.APIKey,
				DefaultModel: p.Model,
				BaseURL:      p.BaseURL,
			}
		}
		if err := app.manager.Initialize(providerCfg); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "config reload rejected: %v\n", err)
			return
		}
		app.manager.SetPrivacyConfig(runtime.PrivacyConfig{
			MaxContextChars: cfg.Privacy.MaxContextChars,
			AllowSecrets:    cfg.Privacy.AllowSecrets,
		})
	})
	if err := watcher.Start(cmd.Context()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "config watching unavailable: %v\n", err)
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "Interactive chat. Ctrl-D or /quit to exit.")

	var history []providers.Message
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(cmd.ErrOrStderr(), "> ")
		if !scanner.Scan() {
			fmt.Fprintln(cmd.ErrOrStderr())
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			return nil
		}

		history = append(history, providers.Message{Role: providers.RoleUser, Content: line})
		reply, err := sendChatText(cmd, app, history, opts)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			history = history[:len(history)-1]
			continue
		}
		history = append(history, providers.Message{Role: providers.RoleAssistant, Content: reply})
	}
}

// sendChat dispatches one conversation turn and prints the reply.
func sendChat(cmd *cobra.Command, app *app, msgs []providers.Message, opts *providers.CallOptions) error {
	_, err := sendChatText(cmd, app, msgs, opts)
	return err
}

// sendChatText dispatches one conversation turn, printing incrementally when
// streaming, and returns the full reply text.
func sendChatText(cmd *cobra.Command, app *app, msgs []providers.Message, opts *providers.CallOptions) (string, error) {
	if chatFlags.stream {
		res, err := app.manager.StreamChat(cmd.Context(), msgs, func(text string, done bool) {
			fmt.Print(text)
			if done {
				fmt.Println()
			}
		}, opts)
		if err != nil {
			return "", err
		}
		return res.Text, nil
	}

	res, err := app.manager.Chat(cmd.Context(), msgs, opts)
	if err != nil {
		return "", err
	}
	fmt.Println(res.Text)
	return res.Text, nil
}

func init() {
	chatCmd.Flags().StringVar(&chatFlags.provider, "provider", "", "override the active provider")
	chatCmd.Flags().StringVarP(&chatFlags.model, "model", "m", "", "model id")
	chatCmd.Flags().StringVar(&chatFlags.system, "system", "", "system instruction")
	chatCmd.Flags().BoolVar(&chatFlags.stream, "stream", true, "stream output incrementally")
	chatCmd.Flags().BoolVarP(&chatFlags.interactive, "interactive", "i", false, "interactive chat session")
	rootCmd.AddCommand(chatCmd)
}
