package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bots-against-war/moduli/pkg/i18n"
)

var localeCmd = &cobra.Command{
	Use:   "locale",
	Short: "Show or change the UI locale",
}

var localeGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the effective UI locale",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := mustSetup(cmd)
		fmt.Printf("%s: %s\n", a.t("cli.locale.current"), a.locale)
	},
}

var localeSetCmd = &cobra.Command{
	Use:       "set <locale>",
	Short:     "Save the UI locale preference",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(i18n.EN), string(i18n.RU)},
	Run: func(cmd *cobra.Command, args []string) {
		a := mustSetup(cmd)
		loc, ok := i18n.ParseLocale(args[0])
		if !ok {
			fmt.Printf("Unsupported locale %q, expected one of: %v\n", args[0], i18n.Supported)
			os.Exit(1)
		}
		if err := a.store.Save(cmd.Context(), string(loc)); err != nil {
			fmt.Printf("Error saving locale: %v\n", err)
			os.Exit(1)
		}
		t := i18n.Default().Translator(loc)
		fmt.Printf("%s: %s\n", t("cli.locale.saved"), loc)
	},
}

func init() {
	rootCmd.AddCommand(localeCmd)
	localeCmd.AddCommand(localeGetCmd, localeSetCmd)
}
