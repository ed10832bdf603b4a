package cmd

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/abhisek/fluentplan/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		cfg := e.cfg
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		engine, err := newEngine(cfg)
		if err != nil {
			return err
		}
		counter, err := e.counter(ctx)
		if err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		sc := cfg.Server
		srv, err := server.New(server.Config{
			Addr:        sc.Addr,
			CacheSize:   sc.CacheSize,
			CORSOrigins: sc.CORSOrigins,
		}, server.Deps{
			Backend:  e.backend,
			Engine:   engine,
			Counter:  counter,
			Coach:    e.coachService(ctx),
			Outbox:   e.outbox(),
			Auth:     server.NewAuth(sc.AdminUser, sc.AdminPassword, sc.JWTSecret, sc.TokenTTL),
			Registry: reg,
			Logger:   e.logger,
		})
		if err != nil {
			return err
		}

		if !sc.AdminEnabled() {
			e.logger.Warn("admin API disabled: set server.admin_password and server.jwt_secret to enable it")
		}
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
