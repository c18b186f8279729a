package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/OCAP2/location-marker/internal/config"
	"github.com/OCAP2/location-marker/internal/dispatcher"
	"github.com/OCAP2/location-marker/internal/handlers"
	"github.com/OCAP2/location-marker/internal/influx"
	"github.com/OCAP2/location-marker/internal/logging"
	intOtel "github.com/OCAP2/location-marker/internal/otel"
	"github.com/OCAP2/location-marker/internal/storage"
	"github.com/OCAP2/location-marker/internal/store"
	"github.com/OCAP2/location-marker/pkg/hostapi"

	"github.com/rs/zerolog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// app is one wired process: logging, telemetry, the store and the command layer.
type app struct {
	logFile     *os.File
	logFilePath string
	slog        *logging.SlogManager
	logger      *slog.Logger
	otel        *intOtel.Provider
	graylog     io.Closer

	backend    storage.Backend
	store      *store.Store
	influx     *influx.Manager
	dispatcher *dispatcher.Dispatcher
	service    *handlers.Service
	console    *hostapi.Console

	errOut io.Writer // nil means os.Stderr
}

// setup loads the config from configDir and wires every component. Chat
// output goes to out.
func setup(configDir string, out io.Writer) (*app, error) {
	a := &app{slog: logging.NewSlogManager()}
	sessionStart := time.Now()

	// load config
	configErr := config.Load(configDir)
	level := config.GetString("logLevel")

	a.logFilePath = logging.LogFilePath(config.GetString("logsDir"), AppName, sessionStart)
	logFile, err := logging.OpenLogFile(a.logFilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
	} else {
		a.logFile = logFile
	}

	// Initialize OTel provider if enabled (after log file is created)
	var otelLogProvider *sdklog.LoggerProvider
	if otelCfg := config.GetOTelConfig(); otelCfg.Enabled && a.logFile != nil {
		a.otel, err = intOtel.New(intOtel.FromConfig(otelCfg, a.logFile))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize OTel provider: %v\n", err)
		} else {
			otelLogProvider = a.otel.LoggerProvider()
		}
	}

	opts := []logging.SetupOption{logging.WithContext(a.logAttrs)}
	if graylogCfg := config.GetGraylogConfig(); graylogCfg.Enabled {
		w, err := logging.NewGraylogWriter(graylogCfg.Address)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to Graylog: %v\n", err)
		} else {
			a.graylog = w
			opts = append(opts, logging.WithGraylog(w))
		}
	}

	if a.logFile != nil {
		a.slog.Setup(a.logFile, level, otelLogProvider, opts...)
	} else {
		a.slog.Setup(nil, level, otelLogProvider, opts...)
	}
	a.logger = a.slog.Logger()

	if configErr != nil {
		a.logger.Warn("Failed to load config, using defaults!", "error", configErr)
	} else {
		a.logger.Info("Loaded config", "dir", configDir)
	}
	a.logger.Info("Begin logging in logs directory", "path", a.logFilePath, "version", CurrentVersion)

	if err := a.initStorage(); err != nil {
		a.close()
		return nil, err
	}

	var dispatchLog io.Writer = os.Stderr
	if a.logFile != nil {
		dispatchLog = a.logFile
	}
	zl := logging.NewZerolog(dispatchLog, level)

	a.dispatcher, err = dispatcher.New(logging.NewDispatcherLogger(zl))
	if err != nil {
		a.close()
		return nil, fmt.Errorf("creating dispatcher: %w", err)
	}

	deps := handlers.Dependencies{
		Store:   a.store,
		Display: config.GetDisplayConfig(),
		Logger:  a.logger,
	}
	if a.initInflux(zl) {
		deps.Changes = a.influx
	}

	a.console = hostapi.NewConsole(out)
	deps.Server = a.console
	a.service = handlers.NewService(deps)
	a.service.RegisterHandlers(a.dispatcher)
	return a, nil
}

func (a *app) initStorage() error {
	storageCfg := config.GetStorageConfig()

	backend, err := storage.NewBackend(storageCfg)
	if err != nil {
		a.logger.Error("Failed to create storage backend", "error", err)
		return err
	}
	if err := backend.Init(); err != nil {
		a.logger.Error("Failed to initialize storage backend", "backend", backend.Name(), "error", err)
		return err
	}
	a.backend = backend

	a.store, err = store.New(backend, a.logger)
	if err != nil {
		return err
	}
	if err := a.store.Load(); err != nil {
		a.logger.Error("Failed to load markers", "backend", backend.Name(), "error", err)
		return err
	}
	a.logger.Info("Storage backend initialized", "backend", backend.Name(), "markers", a.store.Len())
	return nil
}

// initInflux connects the change recorder. It reports whether one is available.
func (a *app) initInflux(zl zerolog.Logger) bool {
	influxCfg := config.GetInfluxConfig()
	if !influxCfg.Enabled {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	m := influx.NewManager(zl.With().Str("component", "influx").Logger(), influxCfg)
	if err := m.Connect(ctx); err != nil {
		a.logger.Warn("Failed to set up InfluxDB change recording", "error", err)
		if closeErr := m.Close(); closeErr != nil {
			a.logger.Warn("Failed to close InfluxDB manager", "error", closeErr)
		}
		return false
	}
	a.influx = m
	return true
}

func (a *app) logAttrs() []slog.Attr {
	if a.store == nil {
		return nil
	}
	return a.store.LogAttrs()
}

// close releases everything setup opened, in reverse order.
func (a *app) close() {
	if a.dispatcher != nil {
		a.dispatcher.Close()
	}

	var errs []error
	if a.influx != nil {
		errs = append(errs, a.influx.Close())
	}
	if a.backend != nil {
		errs = append(errs, a.backend.Close())
	}
	if err := errors.Join(errs...); err != nil && a.logger != nil {
		a.logger.Error("Failed to close storage", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.slog.Flush(ctx); err != nil {
		fmt.Fprintf(a.stderr(), "Failed to flush logs: %v\n", err)
	}
	if a.otel != nil {
		if err := a.otel.Shutdown(ctx); err != nil {
			fmt.Fprintf(a.stderr(), "Failed to shut down OTel provider: %v\n", err)
		}
	}
	var outputErrs []error
	if a.graylog != nil {
		outputErrs = append(outputErrs, a.graylog.Close())
	}
	if a.logFile != nil {
		outputErrs = append(outputErrs, a.logFile.Close())
	}
	if err := errors.Join(outputErrs...); err != nil {
		fmt.Fprintf(a.stderr(), "Failed to close log outputs: %v\n", err)
	}
}

func (a *app) stderr() io.Writer {
	if a.errOut != nil {
		return a.errOut
	}
	return os.Stderr
}
