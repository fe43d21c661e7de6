package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bots-against-war/moduli/internal/validator"
	"github.com/bots-against-war/moduli/pkg/domain"
	"github.com/bots-against-war/moduli/pkg/i18n"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a user flow for consistency",
	Long: `Reports duplicate ids, dangling block references, conflicting catch-alls and
unreachable blocks. Exits with status 1 when the flow has errors.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustSetup(cmd)
		asJSON, _ := cmd.Flags().GetBool("json")
		watch, _ := cmd.Flags().GetBool("watch")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		check := func() bool {
			flow, err := loadFlow(ctx, cmd, a, args[0])
			if err != nil {
				fmt.Printf("Validation failed: %v\n", err)
				return false
			}
			ok, err := writeReport(os.Stdout, a.t, validator.Validate(flow), asJSON)
			if err != nil {
				fmt.Printf("Error writing report: %v\n", err)
				return false
			}
			return ok
		}

		if !watch {
			if !check() {
				os.Exit(1)
			}
			return
		}
		if err := watchFlow(ctx, args[0], check); err != nil {
			fmt.Printf("Watch error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addFlowSourceFlags(validateCmd)
	validateCmd.Flags().Bool("json", false, "Print the report as JSON")
	validateCmd.Flags().BoolP("watch", "w", false, "Re-validate whenever the file changes")
}

// writeReport prints a validation report and reports whether the flow has no errors.
func writeReport(w io.Writer, t i18n.Translator, report validator.Report, asJSON bool) (bool, error) {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		issues := report.Issues
		if issues == nil {
			issues = []validator.Issue{}
		}
		return report.OK(), enc.Encode(map[string]any{"ok": report.OK(), "issues": issues})
	}

	for _, issue := range report.Warnings() {
		fmt.Fprintf(w, "⚠️  %s\n", issue)
	}
	if err := report.Err(); err != nil {
		fmt.Fprintf(w, "%s ❌\n%v\n", t("cli.validate.failed"), err)
		return false, nil
	}
	fmt.Fprintf(w, "%s ✅\n", t("cli.validate.ok"))
	return true, nil
}

// watchFlow runs check once, then again after every change of the file until ctx is done.
func watchFlow(ctx context.Context, path string, check func() bool) error {
	loader, name := fileLoader(path)
	events, err := loader.Watch(ctx, name)
	if err != nil {
		return err
	}
	check()
	for range events {
		check()
	}
	return nil
}

// mustLoadFlow is loadFlow for Run functions.
func mustLoadFlow(cmd *cobra.Command, a *app, arg string) *domain.UserFlowConfig {
	flow, err := loadFlow(cmd.Context(), cmd, a, arg)
	if err != nil {
		fmt.Printf("Error loading flow: %v\n", err)
		os.Exit(1)
	}
	return flow
}
