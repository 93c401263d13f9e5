package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathquest/internal/api"
	"github.com/abhisek/mathquest/internal/jobs"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		addr := e.cfg.Server.Addr
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			addr = a
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if e.cfg.Jobs.Enabled {
			sched := jobs.New(e.store.EventRepo(), jobs.Config{
				Retention: e.cfg.Jobs.LLMEventRetention,
				At:        e.cfg.Jobs.PruneAt,
			}, e.logger)
			if err := sched.Start(); err != nil {
				return fmt.Errorf("start jobs: %w", err)
			}
			defer sched.Stop()
		}

		srv := api.NewServer(e.svc, e.newTutor(ctx, cmd.ErrOrStderr()), e.logger, api.Options{
			JWTSecret:   e.cfg.Auth.JWTSecret,
			DefaultUser: e.user,
			Health:      e.health(),
		})
		return srv.ListenAndServe(ctx, addr, e.cfg.Server.ShutdownTimeout)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides MATHQUEST_SERVER_ADDR)")
}
