package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"temperature_monitor/internal/handlers"
	"temperature_monitor/internal/ingest"
	"temperature_monitor/internal/logger"
	"temperature_monitor/internal/registry"
	"temperature_monitor/internal/repository"
	"temperature_monitor/internal/repository/db"
	"temperature_monitor/internal/server"
	"temperature_monitor/internal/service"
	"temperature_monitor/internal/sessionlog"
	"temperature_monitor/internal/statefile"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// load config.yml first so the logger level is configurable
	if err := loadConfig(); err != nil {
		logger.New(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.New(viper.GetString("logging.level"))

	// open DB
	sqlDB, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(sqlDB)
	reg := registry.New()
	sessions := sessionlog.New(viper.GetString("sessions.folder"))
	messages := ingest.NewMessageBuffer(ingest.DefaultMessageCap)
	statusFile := statefile.NewStatusFile(viper.GetString("state.status_path"))
	targetFile := statefile.NewTargetFile(viper.GetString("state.target_path"))
	events := service.NewRecorder(repos.EventRepo, log)

	// When an append interval is configured the ticker owns session rows;
	// otherwise the ingestion loop appends once per reading.
	appendInterval := viper.GetDuration("sessions.append_interval")
	var sink ingest.SessionSink = sessions
	if appendInterval > 0 {
		sink = nil
	}

	loop := newIngestLoop(reg, sink, messages, events, statusFile, log)

	services := service.NewService(service.Deps{
		Registry: reg,
		Sessions: sessions,
		Messages: messages,
		Loop:     loop,
		Status:   statusFile,
		Target:   targetFile,
		Repos:    repos,
		Log:      log,
	})
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go loop.Run(ctx)
	go services.Sessions.RunIntervalAppend(ctx, appendInterval)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")

	viper.SetDefault("serial.device", "/dev/ttyUSB0")
	viper.SetDefault("serial.baud", 115200)
	viper.SetDefault("serial.reconnect_delay", 5*time.Second)
	viper.SetDefault("serial.idle_delay", 250*time.Millisecond)
	viper.SetDefault("registry.stale_timeout", 30*time.Second)
	viper.SetDefault("sessions.folder", "logs")
	viper.SetDefault("state.status_path", "state/heater_status.json")
	viper.SetDefault("state.target_path", "state/heater_target.json")

	return viper.ReadInConfig()
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "monitor.db")
		dbPath = "monitor.db"
	}
	return db.InitDB(dbPath)
}

// newIngestLoop builds the serial ingestion loop from configuration.
func newIngestLoop(reg *registry.Registry, sessions ingest.SessionSink, messages *ingest.MessageBuffer,
	events *service.Recorder, status *statefile.StatusFile, log *logger.Logger) *ingest.Loop {

	device := viper.GetString("serial.device")
	baud := viper.GetInt("serial.baud")

	return ingest.NewLoop(ingest.Deps{
		OpenReal: func() (ingest.LineSource, error) {
			return ingest.OpenSerial(device, baud)
		},
		OpenMock: func() (ingest.LineSource, error) {
			return ingest.NewMockSource(), nil
		},
		Registry:       reg,
		Sessions:       sessions,
		Messages:       messages,
		Events:         events,
		ControllerTemp: status.Temperature,
		Log:            log,
	}, ingest.Config{
		ReconnectDelay: viper.GetDuration("serial.reconnect_delay"),
		IdleDelay:      viper.GetDuration("serial.idle_delay"),
		StaleTimeout:   viper.GetDuration("registry.stale_timeout"),
	})
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")
	cancel()

	ctx, timeout := context.WithTimeout(context.Background(), shutdownTimeout)
	defer timeout()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server shutdown failed", "err", err)
	}
}
