package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Inspect and validate configured providers",
}

var providersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured providers and their models",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		for _, status := range app.manager.AvailableProviders() {
			marker := " "
			if status.Active {
				marker = "*"
			}
			ready := "not ready"
			if status.Ready {
				ready = "ready"
			}
			fmt.Printf("%s %-10s %-24s %s (model: %s)\n",
				marker, status.ID, status.DisplayName, ready, status.Model)

			for _, m := range status.Models {
				def := ""
				if m.IsDefault {
					def = " (default)"
				}
				fmt.Printf("    %-36s ctx=%-8d %s%s\n", m.ID, m.ContextWindow, m.Status, def)
			}
		}
		return nil
	},
}

var providersValidateCmd = &cobra.Command{
	Use:   "validate [provider]",
	Short: "Probe provider credentials without side effects",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		ids := make([]string, 0)
		if len(args) == 1 {
			ids = append(ids, args[0])
		} else {
			for _, status := range app.manager.AvailableProviders() {
				ids = append(ids, status.ID)
			}
		}

		var failed []string
		for _, id := range ids {
			result, err := app.manager.ValidateProvider(cmd.Context(), id)
			if err != nil {
				return err
			}
			if result.Valid {
				fmt.Printf("%-10s ok\n", id)
			} else {
				fmt.Printf("%-10s FAILED: %s\n", id, result.Error)
				failed = append(failed, id)
			}
		}
		if len(failed) > 0 {
			return fmt.Errorf("validation failed for: %s", strings.Join(failed, ", "))
		}
		return nil
	},
}

func init() {
	providersCmd.AddCommand(providersListCmd)
	providersCmd.AddCommand(providersValidateCmd)
	rootCmd.AddCommand(providersCmd)
}
