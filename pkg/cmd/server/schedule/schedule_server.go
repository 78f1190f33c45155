// Package schedule wires the live-session websocket surface (§4.2, §6)
// into a cobra subcommand, the scheduler counterpart of predict's
// stateless HTTP server.
package schedule

import (
	"context"
	"net/http"
	"os"
	"os/signal"

	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/ayyushutup/boxbox/log"
	"github.com/ayyushutup/boxbox/pkg/cmd/server"
	"github.com/ayyushutup/boxbox/pkg/config"
	"github.com/ayyushutup/boxbox/pkg/predictor"
	"github.com/ayyushutup/boxbox/pkg/scheduler"
	"github.com/ayyushutup/boxbox/pkg/transport/ws"
)

func NewServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "starts the live race-session websocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer()
		},
	}
	return cmd
}

func startServer() error {
	log.ResetDefault(server.BuildLogger())
	server.WaitForRequiredServices()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cats, pool := server.BuildCatalogs(ctx)
	if pool != nil {
		defer pool.Close()
	}

	pred := predictor.New(cats.Scenarios, cats.Baseline(), cats.Compounds, config.EnsembleWorkers)
	registry := scheduler.NewRegistry(cats.Baseline(), cats.Scenarios, cats.Compounds, pred)

	handler := ws.NewHandler(registry)
	mux := http.NewServeMux()
	mux.Handle("/session", handler)

	corsHandler := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet},
	}).Handler(mux)

	httpSrv := &http.Server{Addr: config.ListenAddr, Handler: corsHandler}
	go func() {
		<-ctx.Done()
		_ = httpSrv.Close()
	}()

	log.Info("scheduler server starting", log.String("addr", config.ListenAddr))
	err := httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
