package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/talent-match/internal/config"
	"github.com/jonathan/talent-match/internal/server"
	"github.com/jonathan/talent-match/internal/server/ratelimit"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard and JSON API",
	Long:  `Start an HTTP server with the talent match form, a JSON run endpoint and an SSE progress stream.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	port := a.cfg.Server.Port
	if servePort > 0 {
		port = servePort
	}

	passwords, err := config.NewPasswordConfig(a.cfg.Server)
	if err != nil {
		return err
	}
	if !a.cfg.Server.AuthEnabled() {
		a.logger.Warn("DASHBOARD_PASSWORD_HASH not set; dashboard is unauthenticated")
	}

	rl := a.cfg.RateLimit
	srv := server.New(server.Config{
		Port:         port,
		Username:     a.cfg.Server.Username,
		PasswordHash: a.cfg.Server.PasswordHash,
		Passwords:    passwords,
		RateLimit: ratelimit.NewConfig(rl.Enabled, rl.RunLimit, rl.RunWindow, rl.RunBurst,
			rl.DefaultLimit, rl.DefaultWindow, rl.Whitelist),
		ValidateReports: a.cfg.Log.Debug,
	}, a.pipeline, a.db, a.logger)

	return srv.Start(cmd.Context())
}
