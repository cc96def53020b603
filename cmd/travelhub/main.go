package main

import (
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travelhub/internal/config"
	"travelhub/internal/http/handlers"
	applog "travelhub/internal/log"
	"travelhub/internal/notify"
	"travelhub/internal/repos"
)

func fatal(action string, err error) {
	applog.Error(nil, action, err, nil)
	os.Exit(1)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal("config.fail", err)
	}
	applog.SetLevel(cfg.LogLevel)

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			applog.Error(nil, "log.file.fail", err, map[string]any{"path": cfg.LogFile})
		} else {
			defer f.Close()
			applog.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN, cfg.SeedDemo)
	if err != nil {
		fatal("db.open.fail", err)
	}
	defer db.Close()

	sinks := notify.Fanout{notify.LogSink{}}
	if cfg.AMQPURL != "" {
		pub, err := notify.NewAMQPSink(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			// Notifications still reach the log sink.
			applog.Error(nil, "amqp.disabled", err, nil)
		} else {
			defer pub.Close()
			sinks = append(sinks, pub)
		}
	}

	app := handlers.NewApp(cfg, db, sinks)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		applog.Info(nil, "server.shutdown", nil)
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			applog.Error(nil, "server.shutdown.fail", err, nil)
		}
	}()

	applog.Info(nil, "server.start", map[string]any{"port": cfg.Port})
	if err := app.Listen(":" + cfg.Port); err != nil {
		applog.Error(nil, "server.listen.fail", err, nil)
	}
}
