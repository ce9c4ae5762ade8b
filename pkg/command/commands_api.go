package command

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wcd-ekocoy/wow-achievements/pkg/blizzard"
	"github.com/wcd-ekocoy/wow-achievements/pkg/database"
	"github.com/wcd-ekocoy/wow-achievements/pkg/logging"
	"github.com/wcd-ekocoy/wow-achievements/pkg/sotah"
	"github.com/wcd-ekocoy/wow-achievements/pkg/state"
)

const shutdownTimeout = 10 * time.Second

// API - serves the web application until SIGINT or SIGTERM
func API(c sotah.Config) error {
	logging.Info("Starting api")

	// establishing a blizzard client
	client, err := blizzard.NewClient(blizzard.ClientOptions{
		BaseURLTemplate: c.BaseURLTemplate,
		Timeout:         c.RequestTimeout,
	})
	if err != nil {
		return err
	}

	// opening the sessions database
	sessions, err := database.NewDatabase(c.DatabasePath)
	if err != nil {
		return err
	}
	defer sessions.Close()

	// establishing a state
	provider := blizzard.NewOAuthProvider(
		c.ClientID,
		c.ClientSecret,
		c.CallbackURL(state.LoginCallbackPath),
		blizzard.DefaultOAuthEndpoints(),
	)
	sta := state.NewState(c, client, provider, sessions)

	srv := &http.Server{
		Addr:              c.ListenAddress,
		Handler:           sta.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      c.RequestTimeout * 3,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logging.WithFields(logrus.Fields{
			"address":    c.ListenAddress,
			"public-url": c.PublicURL,
		}).Info("Listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err

			return
		}

		serveErr <- nil
	}()

	// waiting for a signal or a failed listener
	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logging.Info("Caught signal, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logging.Info("Exiting")

	return <-serveErr
}
