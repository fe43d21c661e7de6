package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/bots-against-war/moduli/pkg/adapters/file"
	httpAdapter "github.com/bots-against-war/moduli/pkg/adapters/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the editor-support HTTP API",
	Long: `Serves node defaults, display metadata and flow validation over HTTP.
With --flows, flow documents in that directory are exposed under /flows/{name}.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := mustSetup(cmd)
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = a.cfg.ListenAddr
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		opts := []httpAdapter.Option{
			httpAdapter.WithLogger(a.logger),
			httpAdapter.WithRegistry(reg),
		}
		if offline, _ := cmd.Flags().GetBool("offline"); !offline {
			opts = append(opts, httpAdapter.WithPrefilledSource(a.client()))
		}
		if dir, _ := cmd.Flags().GetString("flows"); dir != "" {
			opts = append(opts, httpAdapter.WithFlowLoader(file.NewLoader(dir)))
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           httpAdapter.NewHandler(opts...),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			a.logger.Info(a.t("cli.serve.listening"), "addr", srv.Addr, "backend", a.cfg.APIURL)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			a.logger.Info("Start shutdown", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				a.logger.Error("Graceful shutdown did not complete", "error", err)
				if err := srv.Close(); err != nil {
					a.logger.Error("Error killing server", "error", err)
				}
			}
			a.logger.Info("Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default: STUDIO_LISTEN_ADDR or :8090)")
	serveCmd.Flags().String("flows", "", "Directory of flow documents served under /flows/{name}")
	serveCmd.Flags().Bool("offline", false, "Do not fetch prefilled messages from the backend")
}
