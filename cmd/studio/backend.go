package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bots-against-war/moduli/pkg/domain"
	"github.com/bots-against-war/moduli/pkg/result"
)

var secretsCmd = &cobra.Command{
	Use:   "secrets",
	Short: "Manage secrets stored by the backend",
}

var secretsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List secret names",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := mustSetup(cmd)
		names := mustOK(a.client().ListSecrets(cmd.Context()))
		if len(names) == 0 {
			fmt.Println(a.t("cli.secrets.empty"))
			return
		}
		for _, name := range names {
			fmt.Println(name)
		}
	},
}

var secretsSaveCmd = &cobra.Command{
	Use:   "save <name> [value]",
	Short: "Store a secret; the value is read from stdin when omitted",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustSetup(cmd)
		value := ""
		if len(args) == 2 {
			value = args[1]
		} else {
			var err error
			if value, err = promptSecret(os.Stdin); err != nil {
				fmt.Printf("Error reading secret: %v\n", err)
				os.Exit(1)
			}
		}

		c := a.client()
		if isToken, _ := cmd.Flags().GetBool("token"); isToken {
			mustOK(c.SaveTokenSecret(cmd.Context(), args[0], value))
		} else {
			mustOK(c.SaveSecret(cmd.Context(), args[0], value))
		}
		fmt.Println(a.t("cli.secrets.saved"))
	},
}

var secretsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a secret",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustSetup(cmd)
		mustOK(a.client().DeleteSecret(cmd.Context(), args[0]))
		fmt.Println(a.t("cli.secrets.deleted"))
	},
}

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List languages available for multilingual flows",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := mustSetup(cmd)
		writeLanguages(os.Stdout, mustOK(a.client().Languages(cmd.Context())))
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Work with Telegram bot tokens",
}

var tokenValidateCmd = &cobra.Command{
	Use:   "validate <token>",
	Short: "Check a bot token with Telegram",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustSetup(cmd)
		c := a.client()
		if unused, _ := cmd.Flags().GetBool("unused"); unused {
			mustOK(c.ValidateUnusedToken(cmd.Context(), args[0]))
			fmt.Printf("%s ✅\n", a.t("cli.token.unused"))
			return
		}
		info := mustOK(c.ValidateToken(cmd.Context(), args[0]))
		fmt.Printf("%s ✅\n", a.t("cli.token.valid"))
		fmt.Printf("  name:     %s\n", info.Name)
		fmt.Printf("  username: @%s\n", info.Username)
	},
}

func init() {
	rootCmd.AddCommand(secretsCmd, languagesCmd, tokenCmd)
	secretsCmd.AddCommand(secretsListCmd, secretsSaveCmd, secretsDeleteCmd)
	secretsSaveCmd.Flags().Bool("token", false, "Store the value as a bot token (checked by the backend)")
	tokenCmd.AddCommand(tokenValidateCmd)
	tokenValidateCmd.Flags().Bool("unused", false, "Also check that no other bot uses the token")
}

// mustOK unwraps a backend call: transport errors and backend rejections both exit.
func mustOK[T any](res result.Result[T], err error) T {
	if err != nil {
		fmt.Printf("Error contacting backend: %v\n", err)
		os.Exit(1)
	}
	v, ok := res.Value()
	if !ok {
		fmt.Printf("Backend error: %s\n", res.ErrorOr("unknown error"))
		os.Exit(1)
	}
	return v
}

// promptSecret reads a secret from stdin without echo when it is a terminal.
func promptSecret(in *os.File) (string, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return readSecret(in)
	}
	fmt.Print("Value: ")
	value, err := term.ReadPassword(fd)
	fmt.Println()
	return string(value), err
}

// readSecret reads the first line of r without its line terminator.
func readSecret(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func writeLanguages(w io.Writer, langs []domain.LanguageData) {
	for _, l := range langs {
		emoji := "  "
		if l.Emoji != nil {
			emoji = *l.Emoji
		}
		fmt.Fprintf(w, "%-4s %s %s", l.Code, emoji, l.Name)
		if l.LocalName != nil && *l.LocalName != l.Name {
			fmt.Fprintf(w, " (%s)", *l.LocalName)
		}
		fmt.Fprintln(w)
	}
}
