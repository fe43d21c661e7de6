package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bots-against-war/moduli/internal/routes"
	"github.com/bots-against-war/moduli/pkg/adapters/file"
	"github.com/bots-against-war/moduli/pkg/domain"
)

// addFlowSourceFlags registers the flags selecting where a flow is read from.
func addFlowSourceFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("bot", false, "Treat the argument as a bot id and load its stored config from the backend")
}

// fileLoader returns a loader rooted at the file's directory and the name to load.
func fileLoader(path string) (*file.Loader, string) {
	return file.NewLoader(filepath.Dir(path)), filepath.Base(path)
}

// loadFlow reads a flow from a local JSON or YAML document, or from the backend with --bot.
func loadFlow(ctx context.Context, cmd *cobra.Command, a *app, arg string) (*domain.UserFlowConfig, error) {
	if fromBot, _ := cmd.Flags().GetBool("bot"); fromBot {
		flow, err := a.client().LoadFlow(ctx, arg)
		if err != nil {
			return nil, err
		}
		a.logger.Info("Loaded bot flow", "bot", arg,
			"studio", routes.Absolute(routes.UIBase(a.cfg.APIURL), routes.StudioPath(arg, nil)))
		return flow, nil
	}
	loader, name := fileLoader(arg)
	flow, err := loader.LoadFlow(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", arg, err)
	}
	return flow, nil
}
