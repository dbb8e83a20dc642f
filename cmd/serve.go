package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/churnscore/scoring"
	"github.com/inference-sim/churnscore/scoring/telemetry"
)

const (
	serverShutdownWaitSeconds = 5
	serverMaxHeaderBytes      = 20
)

var serverConfigPath string // Optional server settings file read by viper

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scoring API over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		srvCfg, err := loadServerConfig(cmd, serverConfigPath)
		if err != nil {
			logrus.Fatalf("Invalid server config: %v", err)
		}
		pipeCfg, err := loadPipelineConfig(configPath, artifactsDir)
		if err != nil {
			logrus.Fatalf("Failed to load config: %v", err)
		}

		var (
			observer scoring.Observer
			requests requestObserver
		)
		if srvCfg.StatsdAddr != "" {
			stats, err := telemetry.NewStatsdObserver(srvCfg.StatsdAddr, srvCfg.Env)
			if err != nil {
				logrus.Fatalf("Failed to start metrics client: %v", err)
			}
			defer func() { _ = stats.Close() }()
			observer, requests = stats, stats
		}

		svc, err := newService(pipeCfg, observer)
		if err != nil {
			logrus.Fatalf("Failed to load artifacts: %v", err)
		}
		defer svc.Close()

		s := &http.Server{
			Addr:           srvCfg.Addr,
			Handler:        NewRouter(NewHandlers(svc, *srvCfg, requests)),
			ReadTimeout:    srvCfg.RequestTimeout + time.Second,
			WriteTimeout:   srvCfg.RequestTimeout + time.Second,
			MaxHeaderBytes: 1 << serverMaxHeaderBytes,
		}

		done := make(chan os.Signal, 1)
		signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

		go func() {
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logrus.Errorf("error starting server: %v", err)
				done <- syscall.SIGTERM
			}
		}()
		logrus.Infof("Serving churn scores on %s (request timeout %s)", srvCfg.Addr, srvCfg.RequestTimeout)

		<-done

		ctx, cancel := context.WithTimeout(context.Background(), serverShutdownWaitSeconds*time.Second)
		defer cancel()
		if err := s.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Errorf("error shutting down server: %v", err)
		}
		logrus.Info("Server stopped.")
	},
}

func init() {
	d := defaultServerConfig()
	serveCmd.Flags().StringVar(&serverConfigPath, "server-config", "", "Server settings file (yaml, json or toml)")
	serveCmd.Flags().String("addr", d.Addr, "Listen address")
	serveCmd.Flags().Duration("request-timeout", d.RequestTimeout, "Per-request scoring deadline")
	serveCmd.Flags().String("statsd-addr", d.StatsdAddr, "DogStatsD agent address; empty disables metrics")
	serveCmd.Flags().String("env", d.Env, "Deployment environment tag")
	serveCmd.Flags().Int("max-batch-size", d.MaxBatchSize, "Largest accepted batch")
}
