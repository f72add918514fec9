package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"path/filepath"
	"syscall"

	"neuralplay/internal/config"
	"neuralplay/internal/daemon"
	"neuralplay/internal/ipc"
	"neuralplay/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to config.toml")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout", filepath.Join(cfg.Paths.LogDir, "neuralplayd.log")},
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	d, err := daemon.New(cfg, logger, daemon.Options{})
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return
	}

	if err := d.Start(ctx); err != nil {
		logger.Error("start daemon", logging.Error(err))
		return
	}

	ipcServer, err := ipc.NewServer(ctx, cfg.SocketPath(), d, logger)
	if err != nil {
		logger.Error("start IPC server", logging.Error(err))
		d.Stop()
		return
	}
	ipcServer.Serve()

	logger.Info("neuralplayd ready",
		logging.String("socket", cfg.SocketPath()),
		logging.String("data_dir", cfg.Paths.DataDir))

	select {
	case <-ctx.Done():
		d.Stop()
	case <-d.Stopped():
	}
	ipcServer.Close()
	logger.Info("neuralplayd shutting down")
}
