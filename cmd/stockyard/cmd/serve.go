package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stockyardhq/stockyard/internal/server"
	"github.com/stockyardhq/stockyard/pkg/logging"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard, JSON API, and Slack endpoints",
		Long: `Start the HTTP server: the web dashboard on /, the JSON API under
/api/v1, and the Slack event and slash-command endpoints under /slack
when a signing secret is configured.

Slack credentials come from SLACK_SIGNING_SECRET and SLACK_BOT_TOKEN
(environment or .env file).`,
		Example: `  # Default port 8080
  stockyard serve

  # Public bind with auth and CORS
  stockyard serve --host 0.0.0.0 --port 3000 --auth --cors

  # Enable the ingest endpoint over a shared drive
  stockyard serve --ingest-root /mnt/shared/inventory`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().IntP("port", "p", 8080, "server port")
	cmd.Flags().String("host", "localhost", "bind address")
	cmd.Flags().String("prefix", "/api/v1", "API path prefix")
	cmd.Flags().String("ingest-root", "", "directory tree the ingest endpoint scans (empty disables it)")
	cmd.Flags().Bool("cors", false, "enable CORS")
	cmd.Flags().StringSlice("cors-origins", nil, "allowed CORS origins (default all when --cors)")
	cmd.Flags().Bool("auth", false, "require an API key (STOCKYARD_API_KEY)")
	cmd.Flags().String("auth-header", "X-API-Key", "authentication header name")
	cmd.Flags().Int("rate-limit", 100, "requests per minute per client (0 to disable)")
	cmd.Flags().Bool("trust-proxy", false, "key rate limits on X-Forwarded-For (only behind a proxy that sets it)")
	cmd.Flags().Duration("cache-ttl", 5*time.Minute, "response cache TTL")
	cmd.Flags().Duration("read-timeout", 10*time.Second, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", 30*time.Second, "HTTP write timeout")
	cmd.Flags().Duration("idle-timeout", 120*time.Second, "HTTP idle timeout")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	cfg := server.DefaultConfig()
	cfg.Port, _ = cmd.Flags().GetInt("port")
	cfg.Host, _ = cmd.Flags().GetString("host")
	cfg.PathPrefix, _ = cmd.Flags().GetString("prefix")
	cfg.IngestRoot, _ = cmd.Flags().GetString("ingest-root")
	cfg.CORSEnabled, _ = cmd.Flags().GetBool("cors")
	cfg.CORSOrigins, _ = cmd.Flags().GetStringSlice("cors-origins")
	cfg.AuthEnabled, _ = cmd.Flags().GetBool("auth")
	cfg.AuthHeader, _ = cmd.Flags().GetString("auth-header")
	cfg.RateLimit, _ = cmd.Flags().GetInt("rate-limit")
	cfg.TrustProxy, _ = cmd.Flags().GetBool("trust-proxy")
	cfg.CacheTTL, _ = cmd.Flags().GetDuration("cache-ttl")
	cfg.ReadTimeout, _ = cmd.Flags().GetDuration("read-timeout")
	cfg.WriteTimeout, _ = cmd.Flags().GetDuration("write-timeout")
	cfg.IdleTimeout, _ = cmd.Flags().GetDuration("idle-timeout")
	cfg.SlackSigningSecret = viper.GetString("slack_signing_secret")
	cfg.SlackBotToken = viper.GetString("slack_bot_token")
	if cfg.SlackSigningSecret == "" {
		cfg.SlackSigningSecret = os.Getenv("SLACK_SIGNING_SECRET")
	}
	if cfg.SlackBotToken == "" {
		cfg.SlackBotToken = os.Getenv("SLACK_BOT_TOKEN")
	}

	logger := logging.Default()
	srv := server.New(st, logger, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", addr).
			Str("prefix", cfg.PathPrefix).
			Bool("auth", cfg.AuthEnabled).
			Bool("slack", cfg.SlackSigningSecret != "").
			Msg("Starting HTTP server")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	// Drain connections before exit.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return srv.Shutdown(shutdownCtx)
}
