package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"log/slog"

	"neuralplay/internal/analysis"
	"neuralplay/internal/commands"
	"neuralplay/internal/config"
	"neuralplay/internal/library"
	"neuralplay/internal/logging"
	"neuralplay/internal/notifications"
	"neuralplay/internal/player"
	"neuralplay/internal/playqueue"
	"neuralplay/internal/scanner"
	"neuralplay/internal/services/backend"
	"neuralplay/internal/subtitles"
)

const shellEventBacklog = 32

// Options carries optional collaborators for the daemon.
type Options struct {
	// Recognizer enables voice control when non-nil.
	Recognizer commands.Recognizer
}

// Daemon coordinates the player core and enforces single-instance
// execution.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *library.Store
	controller *player.Controller
	consumer   *analysis.Consumer
	resolver   *subtitles.Resolver
	backend    *backend.Client
	notifier   notifications.Service
	router     *commands.Router
	scanner    *scanner.Scanner
	voice      *commands.Listener

	lockPath string
	lock     *flock.Flock

	running  atomic.Bool
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopped  chan struct{}
	stopOnce sync.Once

	mu             sync.Mutex
	queue          *playqueue.Queue
	analysisCancel context.CancelFunc
	shellEvents    []string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, logger *slog.Logger, opts Options) (*Daemon, error) {
	if cfg == nil || logger == nil {
		return nil, errors.New("daemon requires config and logger")
	}

	store, err := library.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open library store: %w", err)
	}

	d := &Daemon{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "daemon"),
		store:      store,
		controller: player.NewController(logger, store, player.Tuning{
			PersistInterval:  float64(cfg.Playback.SaveIntervalSecs),
			ResumeTailWindow: float64(cfg.Playback.ResumeTailSeconds),
		}),
		consumer:   analysis.NewConsumer(logger, cfg.Features),
		resolver:   subtitles.NewResolver(),
		backend: backend.NewClient(backend.Config{
			BaseURL:        cfg.Backend.BaseURL,
			TimeoutSeconds: cfg.Backend.RequestTimeout,
		}),
		notifier: notifications.NewService(cfg),
		scanner:  scanner.New(logger, cfg.Library.VideoExtensions),
		lockPath: filepath.Join(cfg.Paths.DataDir, "neuralplayd.lock"),
	}
	d.lock = flock.New(d.lockPath)

	router, err := commands.NewRouter(logger, commands.Options{
		Transport:        d.controller,
		Queue:            d,
		SkipSeconds:      float64(cfg.Playback.SkipSeconds),
		VoiceSkipSeconds: float64(cfg.Playback.VoiceSkipSeconds),
		ShellEvent:       d.pushShellEvent,
		ExportTranscript: func() error {
			_, err := d.ExportTranscript("txt")
			return err
		},
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	d.router = router

	if opts.Recognizer != nil {
		d.voice = commands.NewListener(logger, opts.Recognizer, router)
	}
	return d, nil
}

// Start acquires the daemon lock and begins the playback clock.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another instance holds %s", d.lockPath)
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	d.stopped = make(chan struct{})
	d.stopOnce = sync.Once{}
	d.running.Store(true)

	interval := time.Duration(d.cfg.Playback.TickIntervalMs) * time.Millisecond
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	d.wg.Add(1)
	go d.tickLoop(interval)

	if d.voice != nil && d.cfg.Voice.Enabled {
		d.voice.Start(d.ctx)
	}

	d.logger.Info("daemon started",
		logging.String("lock", d.lockPath),
		logging.String("library", d.store.Path()))
	return nil
}

// Stop halts the clock, releases the lock, and closes the store.
func (d *Daemon) Stop() {
	if !d.running.Swap(false) {
		return
	}
	if d.voice != nil {
		d.voice.Stop()
	}
	d.cancel()
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("releasing lock failed", logging.Error(err))
	}
	if err := d.store.Close(); err != nil {
		d.logger.Warn("closing library store failed", logging.Error(err))
	}
	d.stopOnce.Do(func() { close(d.stopped) })
	d.logger.Info("daemon stopped")
}

// Stopped is closed once Stop completes. Callers blocking on daemon
// lifetime select on this channel.
func (d *Daemon) Stopped() <-chan struct{} {
	return d.stopped
}

// Running reports whether Start has been called without a matching Stop.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

func (d *Daemon) tickLoop(interval time.Duration) {
	defer d.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-d.ctx.Done():
			return
		case <-ticker.C:
			d.controller.Advance(interval.Seconds())
		}
	}
}

// Load replaces the active media item: transport state is restored for
// the new path, subtitle sources are cleared, history and recent files
// are recorded, and the analysis stream and transcription restart for
// the new item. In-flight work for the previous item is cancelled.
func (d *Daemon) Load(ctx context.Context, path string) error {
	item := library.NewItem(path)
	generation, err := d.controller.Load(player.MediaSource{ID: path, DisplayName: item.Name}, 0)
	if err != nil {
		return err
	}
	d.resolver.Reset()

	if err := d.store.RecordPlay(ctx, item); err != nil {
		d.logger.Warn("recording history failed", logging.String("path", path), logging.Error(err))
	}
	if err := d.store.RecordRecent(ctx, item); err != nil {
		d.logger.Warn("recording recent file failed", logging.String("path", path), logging.Error(err))
	}

	d.mu.Lock()
	if d.analysisCancel != nil {
		d.analysisCancel()
	}
	streamCtx, cancel := context.WithCancel(d.ctx)
	d.analysisCancel = cancel
	d.mu.Unlock()

	d.consumer.Reset()
	if d.consumer.AnyCategoryEnabled() {
		d.wg.Add(1)
		go d.runAnalysis(streamCtx, path, item.Name, generation)
	}
	if d.cfg.Features.Transcription {
		d.wg.Add(1)
		go d.runTranscription(streamCtx, path, item.Name, generation)
	}
	return nil
}

func (d *Daemon) runAnalysis(ctx context.Context, path, name string, generation uint64) {
	defer d.wg.Done()

	stream, err := d.backend.OpenAnalysisStream(ctx, path)
	if err != nil {
		d.logger.Warn("analysis stream unavailable", logging.String("path", path), logging.Error(err))
		return
	}
	defer stream.Close()

	if err := d.consumer.Run(ctx, stream); err != nil && !errors.Is(err, context.Canceled) {
		d.logger.Warn("analysis session ended early", logging.String("path", path), logging.Error(err))
	}
	if d.controller.Generation() != generation {
		return
	}

	switch d.consumer.State() {
	case analysis.StateComplete:
		if err := d.notifier.NotifyAnalysisCompleted(ctx, name, len(d.consumer.Scenes())); err != nil {
			d.logger.Warn("analysis notification failed", logging.Error(err))
		}
	case analysis.StateErrored:
		if err := d.notifier.NotifyAnalysisFailed(ctx, name, d.consumer.ErrorDetail()); err != nil {
			d.logger.Warn("analysis notification failed", logging.Error(err))
		}
	}
}

func (d *Daemon) runTranscription(ctx context.Context, path, name string, generation uint64) {
	defer d.wg.Done()

	segments, err := d.backend.Transcribe(ctx, path)
	if err != nil {
		d.logger.Warn("transcription failed", logging.String("path", path), logging.Error(err))
		return
	}
	if d.controller.Generation() != generation {
		// A newer load owns the resolver now.
		return
	}
	d.resolver.SetInternal(segments)

	if err := d.backend.StoreTranscript(ctx, path, segments); err != nil {
		d.logger.Warn("storing transcript failed", logging.String("path", path), logging.Error(err))
	}
	if err := d.notifier.NotifyTranscriptReady(ctx, name, len(segments)); err != nil {
		d.logger.Warn("transcript notification failed", logging.Error(err))
	}
}

// RequestClip exports the armed loop window through the backend and
// notifies when the export settles.
func (d *Daemon) RequestClip(ctx context.Context) (player.ClipResult, error) {
	name := d.controller.State().Source.DisplayName
	return d.controller.RequestClip(ctx, notifyingExporter{
		exporter: d.backend,
		notifier: d.notifier,
		name:     name,
		logger:   d.logger,
	})
}

type notifyingExporter struct {
	exporter player.ClipExporter
	notifier notifications.Service
	name     string
	logger   *slog.Logger
}

func (n notifyingExporter) TrimVideo(ctx context.Context, path string, start, end float64) (string, error) {
	output, err := n.exporter.TrimVideo(ctx, path, start, end)
	if err != nil {
		if notifyErr := n.notifier.NotifyClipFailed(ctx, n.name, err.Error()); notifyErr != nil {
			n.logger.Warn("clip notification failed", logging.Error(notifyErr))
		}
		return "", err
	}
	if notifyErr := n.notifier.NotifyClipCompleted(ctx, n.name, output); notifyErr != nil {
		n.logger.Warn("clip notification failed", logging.Error(notifyErr))
	}
	return output, nil
}

func (d *Daemon) pushShellEvent(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.shellEvents) >= shellEventBacklog {
		d.shellEvents = d.shellEvents[1:]
	}
	d.shellEvents = append(d.shellEvents, name)
}

// DrainShellEvents returns and clears the pending UI events the shell
// should apply (fullscreen, panel toggles).
func (d *Daemon) DrainShellEvents() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	events := d.shellEvents
	d.shellEvents = nil
	return events
}

// Controller exposes the transport for IPC handlers.
func (d *Daemon) Controller() *player.Controller { return d.controller }

// Consumer exposes the analysis buffers for IPC handlers.
func (d *Daemon) Consumer() *analysis.Consumer { return d.consumer }

// Library exposes the collection store for IPC handlers.
func (d *Daemon) Library() *library.Store { return d.store }

// Resolver exposes the subtitle state for IPC handlers.
func (d *Daemon) Resolver() *subtitles.Resolver { return d.resolver }

// Backend exposes the analysis backend client for IPC handlers.
func (d *Daemon) Backend() *backend.Client { return d.backend }

// Notifier exposes the notification service for IPC handlers.
func (d *Daemon) Notifier() notifications.Service { return d.notifier }

// LockPath returns the single-instance lock file location.
func (d *Daemon) LockPath() string { return d.lockPath }

// LogPath returns the daemon log file location.
func (d *Daemon) LogPath() string {
	return filepath.Join(d.cfg.Paths.LogDir, "neuralplayd.log")
}

// HandleKey dispatches one keyboard shortcut. Unmapped keys are ignored.
func (d *Daemon) HandleKey(key string) error {
	cmd, ok := commands.MapKey(key)
	if !ok {
		return nil
	}
	return d.router.Dispatch(cmd, commands.OriginKeyboard)
}

// Dispatch routes one command from a given origin.
func (d *Daemon) Dispatch(cmd commands.Command, origin commands.Origin) error {
	return d.router.Dispatch(cmd, origin)
}

// SetVoiceEnabled starts or stops the supervised voice listener.
func (d *Daemon) SetVoiceEnabled(enabled bool) error {
	if d.voice == nil {
		if enabled {
			return errors.New("no speech recognizer is configured")
		}
		return nil
	}
	if enabled {
		d.voice.Start(d.ctx)
	} else {
		d.voice.Stop()
	}
	return nil
}

// LoadExternalSubtitles installs a subtitle file as the external source,
// fully shadowing any transcript segments.
func (d *Daemon) LoadExternalSubtitles(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read subtitle file: %w", err)
	}
	d.resolver.SetExternal(string(raw))
	d.logger.Info("external subtitles loaded",
		logging.String("path", path),
		logging.Int("segments", d.resolver.ExternalCount()))
	return nil
}

// ClearExternalSubtitles removes the external source.
func (d *Daemon) ClearExternalSubtitles() {
	d.resolver.ClearExternal()
}

// ExportTranscript writes the current internal transcript to the export
// directory as txt or srt and returns the file path.
func (d *Daemon) ExportTranscript(format string) (string, error) {
	segments := d.resolver.Internal()
	if len(segments) == 0 {
		return "", errors.New("no transcript is loaded")
	}
	source := d.controller.State().Source
	if source.ID == "" {
		return "", errors.New("no media item is loaded")
	}

	exportDir := filepath.Join(d.cfg.Paths.DataDir, "exports")
	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	base := filepath.Base(source.ID)
	base = base[:len(base)-len(filepath.Ext(base))]
	var content, outPath string
	switch format {
	case "srt":
		content = subtitles.ExportSRT(segments)
		outPath = filepath.Join(exportDir, base+".srt")
	case "", "txt":
		content = subtitles.ExportTranscript(segments)
		outPath = filepath.Join(exportDir, base+".txt")
	default:
		return "", fmt.Errorf("unknown transcript format %q", format)
	}

	if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	d.logger.Info("transcript exported", logging.String("path", outPath))
	return outPath, nil
}

// ScanFolder discovers video files under root and adds them to the
// catalog. Returns the discovered paths.
func (d *Daemon) ScanFolder(ctx context.Context, root string) ([]string, error) {
	files, err := d.scanner.Scan(root)
	if err != nil {
		return nil, err
	}
	items := make([]library.Item, 0, len(files))
	for _, path := range files {
		items = append(items, library.NewItem(path))
	}
	if err := d.store.AddToCatalog(ctx, items...); err != nil {
		return nil, err
	}
	return files, nil
}
