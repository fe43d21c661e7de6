package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/bots-against-war/moduli/internal/routes"
	"github.com/bots-against-war/moduli/pkg/domain"
)

var botsCmd = &cobra.Command{
	Use:   "bots",
	Short: "Inspect and control the user's bots",
}

var botsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bots with their running version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := mustSetup(cmd)
		infos := mustOK(a.client().ListBotInfos(cmd.Context()))
		if len(infos) == 0 {
			fmt.Println(a.t("cli.bots.empty"))
			return
		}
		writeBotList(os.Stdout, routes.UIBase(a.cfg.APIURL), infos)
	},
}

var botsInfoCmd = &cobra.Command{
	Use:   "info <bot-id>",
	Short: "Show versions and forms of a bot",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustSetup(cmd)
		info := mustOK(a.client().GetBotInfo(cmd.Context(), args[0]))
		writeBotInfo(os.Stdout, routes.UIBase(a.cfg.APIURL), info)
	},
}

var botsStartCmd = &cobra.Command{
	Use:   "start <bot-id>",
	Short: "Start a stored version of a bot",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustSetup(cmd)
		v, _ := cmd.Flags().GetInt("version")
		mustOK(a.client().StartBot(cmd.Context(), args[0], v))
		fmt.Println(a.t("cli.bots.started"))
	},
}

var botsStopCmd = &cobra.Command{
	Use:   "stop <bot-id>",
	Short: "Stop a running bot",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustSetup(cmd)
		mustOK(a.client().StopBot(cmd.Context(), args[0]))
		fmt.Println(a.t("cli.bots.stopped"))
	},
}

func init() {
	rootCmd.AddCommand(botsCmd)
	botsCmd.AddCommand(botsListCmd, botsInfoCmd, botsStartCmd, botsStopCmd)
	botsStartCmd.Flags().Int("version", -1, "Version to start; -1 is the latest")
}

func writeBotList(w io.Writer, uiBase string, infos map[string]domain.BotInfo) {
	ids := make([]string, 0, len(infos))
	for id := range infos {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		info := infos[id]
		running := "stopped"
		if info.RunningVersion != nil {
			running = fmt.Sprintf("v%d", *info.RunningVersion)
		}
		fmt.Fprintf(w, "%-24s %-8s %s  %s\n", id, running, info.DisplayName, routes.Absolute(uiBase, routes.DashboardPath(id)))
	}
}

func writeBotInfo(w io.Writer, uiBase string, info domain.BotInfo) {
	fmt.Fprintf(w, "%s (%s)\n", info.DisplayName, info.BotID)
	for _, v := range info.LastVersions {
		version := v.Version
		line := fmt.Sprintf("  v%d", version)
		if v.Metadata.Message != nil {
			line += "  " + *v.Metadata.Message
		}
		if info.RunningVersion != nil && *info.RunningVersion == version {
			line += "  (running)"
		}
		fmt.Fprintf(w, "%s  %s\n", line, routes.Absolute(uiBase, routes.StudioPath(info.BotID, &version)))
	}
	for _, f := range info.FormsWithResponses {
		title := f.Prompt
		if f.Title != nil {
			title = *f.Title
		}
		fmt.Fprintf(w, "  form %s: %s  %s\n", f.FormBlockID, title, routes.Absolute(uiBase, routes.FormResultsPagePath(info.BotID, f.FormBlockID)))
	}
	if len(info.LastErrors) > 0 {
		fmt.Fprintf(w, "  %d recent errors\n", len(info.LastErrors))
	}
}
