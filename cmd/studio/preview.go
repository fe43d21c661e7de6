package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bots-against-war/moduli/internal/presentation/tui"
	"github.com/bots-against-war/moduli/pkg/display"
	"github.com/bots-against-war/moduli/pkg/domain"
)

var previewCmd = &cobra.Command{
	Use:   "preview <file> <block-id>",
	Short: "Render what the bot user sees when entering a block",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustSetup(cmd)
		flow := mustLoadFlow(cmd, a, args[0])

		block, err := flow.BlockByID(args[1])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		lang, _ := cmd.Flags().GetString("lang")
		if lang == "" {
			lang = previewLanguage(flow)
		}
		style, _ := cmd.Flags().GetString("style")
		if style == "" && !term.IsTerminal(int(os.Stdout.Fd())) {
			style = "notty"
		}

		title := string(block.Kind())
		key, ok := display.GetNodeTypeKey(block)
		if ok {
			title = a.t(display.NodeTitleKey[key])
		}
		fmt.Println(tui.NodeHeader(key, title+" · "+block.ID()))

		render := tui.NewRenderer(style)
		out, err := render(tui.PreviewMarkdown(block, lang))
		if err != nil {
			fmt.Printf("Error rendering preview: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	addFlowSourceFlags(previewCmd)
	previewCmd.Flags().String("lang", "", "Language of multilingual texts (default: the flow's default language)")
	previewCmd.Flags().String("style", "", "Glamour style: dark, light, notty (default: auto)")
}

// previewLanguage is the flow's default language, or empty for a monolingual flow.
func previewLanguage(flow *domain.UserFlowConfig) string {
	if ls := flow.LanguageSelectBlock(); ls != nil {
		return ls.DefaultLanguage
	}
	return ""
}
