package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jengzang/photo-timeline/internal/app"
	"github.com/jengzang/photo-timeline/internal/config"
	"github.com/jengzang/photo-timeline/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// session is what every subcommand needs after startup.
type session struct {
	app    *app.App
	logger *zap.Logger
}

func rootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "photo-timeline",
		Short:         "Builds a travel timeline from the locations of your photos",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to the YAML config file")

	start := func(cmd *cobra.Command) (*session, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		logger, err := logging.New(cfg.Log)
		if err != nil {
			return nil, err
		}
		a, err := app.New(cfg, logger)
		if err != nil {
			_ = logger.Sync()
			return nil, err
		}
		return &session{app: a, logger: logger}, nil
	}

	root.AddCommand(serveCommand(start), refreshCommand(start), consolidateCommand(start))
	return root
}

type starter func(cmd *cobra.Command) (*session, error)

func (rt *session) close() {
	if err := rt.app.Close(); err != nil {
		rt.logger.Warn("Failed to close database", zap.Error(err))
	}
	_ = rt.logger.Sync()
}

func serveCommand(start starter) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := start(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			srv := &http.Server{
				Addr:              rt.app.Config.Port,
				Handler:           rt.app.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				rt.logger.Info("Server starting", zap.String("addr", srv.Addr))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-cmd.Context().Done():
			}

			rt.logger.Info("Shutting down server")
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
}

func refreshCommand(start starter) *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Import new photos and rebuild the timeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := start(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			result, err := rt.app.Refresh.Refresh(cmd.Context(), full)
			if err != nil {
				return err
			}
			cmd.Printf("processed %d photos (%d with location) of %d, %d stays\n",
				result.ProcessedCount, result.WithLocation, result.Total, result.Stays)
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "Clear all imported data before importing")
	return cmd
}

func consolidateCommand(start starter) *cobra.Command {
	return &cobra.Command{
		Use:   "consolidate",
		Short: "Rebuild the timeline from already imported photos",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := start(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			result, err := rt.app.Refresh.Consolidate(cmd.Context())
			if err != nil {
				return err
			}
			if result.Skipped {
				cmd.Println("no imported photos, timeline unchanged")
				return nil
			}
			cmd.Printf("%d facts consolidated into %d stays\n", result.Facts, len(result.Stays))
			return nil
		},
	}
}
