package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bots-against-war/moduli/pkg/defaults"
	"github.com/bots-against-war/moduli/pkg/domain"
	"github.com/bots-against-war/moduli/pkg/ports"
)

var newCmd = &cobra.Command{
	Use:   "new <node-type>",
	Short: "Print the default config of a new node",
	Long: `Builds the config the editor creates for a freshly added node. With --flow the
node adapts to that flow: its languages and its most used menu mechanism.
Node types: ` + strings.Join(defaults.Kinds(), ", "),
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustSetup(cmd)

		var flow *domain.UserFlowConfig
		if path, _ := cmd.Flags().GetString("flow"); path != "" {
			loader, name := fileLoader(path)
			var err error
			if flow, err = loader.LoadFlow(cmd.Context(), name); err != nil {
				fmt.Printf("Error loading flow: %v\n", err)
				os.Exit(1)
			}
		}

		id, _ := cmd.Flags().GetString("id")
		var src ports.PrefilledSource
		if offline, _ := cmd.Flags().GetBool("offline"); !offline {
			src = a.client()
		}

		ctx := defaults.Context{
			ID:         id,
			T:          a.t,
			LangConfig: defaults.LanguageConfigFromFlow(flow),
			Current:    flow,
			Locale:     a.locale,
			Prefilled:  fetchPrefilled(cmd.Context(), a, src),
		}
		if err := runNew(os.Stdout, args[0], ctx); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().String("flow", "", "Flow file the node is added to")
	newCmd.Flags().String("id", "", "Node id (default: generated)")
	newCmd.Flags().Bool("offline", false, "Do not fetch prefilled messages from the backend")
}

// runNew prints the default config of a node type as indented JSON.
func runNew(w io.Writer, kind string, ctx defaults.Context) error {
	factory, ok := defaults.Lookup(kind)
	if !ok {
		return fmt.Errorf("unknown node type %q, expected one of: %s", kind, strings.Join(defaults.Kinds(), ", "))
	}
	if ctx.ID == "" {
		ctx.ID = defaults.NewNodeID(kind)
	}
	node, err := factory(ctx)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(node, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// fetchPrefilled returns the backend's prefilled catalog, or nil when it is unavailable.
func fetchPrefilled(ctx context.Context, a *app, src ports.PrefilledSource) domain.PrefilledMessages {
	if src == nil {
		return nil
	}
	res, err := src.PrefilledMessages(ctx)
	if err != nil {
		a.logger.Warn("Prefilled messages unavailable, using empty texts", "error", err)
		return nil
	}
	msgs, ok := res.Value()
	if !ok {
		a.logger.Warn("Prefilled messages rejected by backend", "error", res.ErrorOr(""))
		return nil
	}
	return msgs
}
