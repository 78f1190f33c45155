// Package predict wires the stateless predictor HTTP surface (§6) into a
// cobra subcommand, grounded on the teacher's wamp_server.go startup
// shape (logger construction, wait-for-services, signal-driven shutdown)
// generalized from a WAMP realm server to a plain HTTP server.
package predict

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ayyushutup/boxbox/log"
	"github.com/ayyushutup/boxbox/pkg/cmd/server"
	"github.com/ayyushutup/boxbox/pkg/config"
	"github.com/ayyushutup/boxbox/pkg/predictor"
)

func NewServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "starts the stateless predictor HTTP server",
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
	srv := predictor.NewServer(pred, cats.Compounds, config.EnsembleDefaultN, config.EnsembleMaxN)

	log.Info("predictor server starting", log.String("addr", config.PredictAddr))
	return predictor.ListenAndServe(ctx, config.PredictAddr, srv)
}
