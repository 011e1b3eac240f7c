package app

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"adsbtrack/internal/basestation"
	"adsbtrack/internal/beast"
	"adsbtrack/internal/decoder"
	"adsbtrack/internal/logging"
	"adsbtrack/internal/tracker"
)

// Application wires a Beast-framed input stream through the decoder and
// tracker, optionally emitting a BaseStation log and a periodic JSON
// snapshot log.
type Application struct {
	config  Config
	logger  *logrus.Logger
	tracker *tracker.Tracker

	beastDecoder *beast.Decoder
	baseStation  *basestation.Writer
	logRotator   *logging.LogRotator

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewApplication creates a new application instance
func NewApplication(config Config) *Application {
	ctx, cancel := context.WithCancel(context.Background())

	logger := logrus.New()
	if config.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	return &Application{
		config: config,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start starts the application
func (app *Application) Start() error {
	app.logger.WithFields(logrus.Fields{
		"version":    Version,
		"build_time": BuildTime,
		"git_commit": GitCommit,
	}).Info("Starting adsbtrack")

	if err := app.initializeComponents(); err != nil {
		return fmt.Errorf("failed to initialize components: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if err := app.run(); err != nil {
		app.logger.WithError(err).Error("Application error")
		return err
	}

	<-sigChan
	app.logger.Info("Received shutdown signal")
	app.shutdown()

	return nil
}

// initializeComponents initializes all application components
func (app *Application) initializeComponents() error {
	capacity := app.config.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	app.tracker = tracker.New(capacity, app.logger)

	if app.config.HasStation {
		app.tracker.SetStationPosition(app.config.StationLat, app.config.StationLon)
	}

	cutoff := app.config.InactiveCutoff
	if cutoff <= 0 {
		cutoff = DefaultInactiveCutoff
	}
	app.tracker.SetInactiveCutoff(cutoff)

	app.beastDecoder = beast.NewDecoder(app.logger)

	if app.config.LogDir != "" {
		var err error
		app.logRotator, err = logging.NewLogRotator(app.config.LogDir, app.config.LogRotateUTC, app.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize log rotator: %w", err)
		}

		if app.config.BaseStationOut {
			app.baseStation = basestation.NewWriter(app.logRotator, app.logger)
		}
	}

	return nil
}

// run opens the Beast input stream and starts the processing goroutines.
func (app *Application) run() error {
	reader, closer, err := app.openInput()
	if err != nil {
		return fmt.Errorf("failed to open beast input: %w", err)
	}

	if app.logRotator != nil {
		app.wg.Add(1)
		go func() {
			defer app.wg.Done()
			app.logRotator.Start(app.ctx)
		}()
	}

	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		defer closer.Close()
		app.readLoop(reader)
	}()

	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		app.reportStatistics()
	}()

	app.logger.Info("All components started successfully")
	return nil
}

// openInput connects to the configured Beast TCP endpoint, or opens the
// configured input file if BeastInput is set.
func (app *Application) openInput() (io.Reader, io.Closer, error) {
	if app.config.BeastInput != "" {
		f, err := os.Open(app.config.BeastInput)
		if err != nil {
			return nil, nil, err
		}
		return f, f, nil
	}

	addr := app.config.BeastAddr
	if addr == "" {
		addr = DefaultBeastAddr
	}

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, nil, err
	}
	return conn, conn, nil
}

// readLoop feeds raw bytes from r through the Beast decoder, the frame
// decoder, and the tracker, until r is exhausted or the context is done.
func (app *Application) readLoop(r io.Reader) {
	buf := make([]byte, 4096)

	for {
		select {
		case <-app.ctx.Done():
			return
		default:
		}

		n, err := r.Read(buf)
		if n > 0 {
			app.ingestChunk(buf[:n])
		}
		if err != nil {
			if err != io.EOF {
				app.logger.WithError(err).Debug("beast input read error")
			}
			return
		}
	}
}

func (app *Application) ingestChunk(chunk []byte) {
	messages, err := app.beastDecoder.Decode(chunk)
	if err != nil {
		app.logger.WithError(err).Debug("beast decode error")
		return
	}

	for _, msg := range messages {
		frame, ok := msg.ToFrame()
		if !ok {
			continue
		}

		obs, err := decoder.Decode(frame)
		if err != nil {
			app.logger.WithError(err).Debug("frame decode error")
			continue
		}

		app.tracker.Ingest(obs, tracker.Tag{})

		if app.baseStation != nil && obs.HasICAO {
			current, _ := app.tracker.Get(obs.ICAO)
			if err := app.baseStation.WriteObservation(obs, current); err != nil {
				app.logger.WithError(err).Debug("failed to write basestation message")
			}
		}
	}
}

// reportStatistics logs a periodic summary of the tracked aircraft table.
func (app *Application) reportStatistics() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-app.ctx.Done():
			return
		case <-ticker.C:
			snapshot := app.tracker.Snapshot(false)
			app.logger.WithFields(logrus.Fields{
				"active_aircraft": len(snapshot),
				"snapshot":        app.tracker.SnapshotJSON(false),
			}).Info("Tracker status")
		}
	}
}

// shutdown gracefully shuts down the application
func (app *Application) shutdown() {
	app.logger.Info("Shutting down application")
	app.cancel()

	done := make(chan struct{})
	go func() {
		app.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		app.logger.Info("All goroutines finished")
	case <-time.After(5 * time.Second):
		app.logger.Warn("Shutdown timeout, forcing exit")
	}

	if app.logRotator != nil {
		app.logRotator.Close()
	}

	app.logger.Info("Shutdown completed")
}
