package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/trace"

	"github.com/hartex/hartex/internal/api"
	"github.com/hartex/hartex/internal/cache"
	"github.com/hartex/hartex/internal/command"
	"github.com/hartex/hartex/internal/config"
	"github.com/hartex/hartex/internal/dispatch"
	"github.com/hartex/hartex/internal/events"
	"github.com/hartex/hartex/internal/handler"
	"github.com/hartex/hartex/internal/listener"
	"github.com/hartex/hartex/internal/metrics"
	"github.com/hartex/hartex/internal/platform/logger"
	"github.com/hartex/hartex/internal/task"
	"github.com/hartex/hartex/internal/whitelist"
)

// ErrAlreadyStarted is returned by a second call to Start.
var ErrAlreadyStarted = errors.New("app: already started")

const readHeaderTimeout = 5 * time.Second

// Options carries the collaborators the app cannot build itself.
type Options struct {
	Config *config.Config
	Logger *slog.Logger

	// Client and Cluster are the platform collaborators handed to handlers.
	// Client is required; a nil Cluster reports zero shards.
	Client  dispatch.Client
	Cluster dispatch.Cluster

	// Source resolves the whitelist credentials. Nil means the environment.
	Source config.Source
	// Opener connects to the whitelist database. Nil means PgxOpener.
	Opener whitelist.Opener

	// Tracer is optional; nil uses the global tracer provider.
	Tracer trace.Tracer

	// Version is reported by the about command.
	Version string
}

// App owns every long-lived component of the event core.
type App struct {
	config *config.Config
	logger *slog.Logger

	emitter    *events.Emitter
	cache      *cache.InMemory
	dispatcher *dispatch.Dispatcher
	collab     dispatch.Collaborators

	queue *task.TaskQueue
	pool  *task.WorkerPool

	scheduler *cron.Cron
	server    *http.Server
	router    http.Handler

	mu       sync.Mutex
	started  bool
	listener net.Listener
	custom   *listener.Receiver[events.Event]
	pumpDone chan struct{}
}

// New wires the components. Nothing runs until Start.
func New(ctx context.Context, opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, errors.New("app: config is required")
	}
	if opts.Client == nil {
		return nil, errors.New("app: platform client is required")
	}
	cfg := opts.Config
	log := logger.OrDefault(opts.Logger)

	source := opts.Source
	if source == nil {
		source = config.NewViperSource(nil)
	}
	opener := opts.Opener
	if opener == nil {
		opener = whitelist.PgxOpener{Logger: log}
	}

	emitter := events.NewEmitter(listener.NewRegistry[events.Event](), log)
	lru, err := cache.New(0)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	loader := &whitelist.Loader{
		Source:         source,
		Opener:         opener,
		CredentialsKey: cfg.Database.WhitelistCredentialsKey,
		Logger:         log,
	}
	commands := command.NewSet(
		command.Ping{},
		&command.About{Version: opts.Version, Whitelist: loader},
		command.Userinfo{},
	)
	handlers := handler.New(commands, loader, cfg.Bot.CommandPrefix, log).WithTracer(opts.Tracer)

	a := &App{
		config:     cfg,
		logger:     log.With("component", "app"),
		emitter:    emitter,
		cache:      lru,
		dispatcher: dispatch.New(handlers, opts.Tracer, log),
		collab: dispatch.Collaborators{
			Client:  opts.Client,
			Cache:   lru,
			Cluster: opts.Cluster,
			Emitter: emitter,
		},
		queue:     task.NewTaskQueue(cfg.Workers.QueueSize, log),
		scheduler: newScheduler(log),
	}

	a.pool = task.NewWorkerPool(logger.WithLogger(ctx, log), a.queue,
		task.WorkerPoolConfig{WorkerCount: cfg.Workers.Count}, log)
	a.pool.SetErrorHandler(taskFailed)

	if _, err := a.scheduler.AddFunc(cfg.Workers.PruneSchedule, func() { a.emitter.Prune() }); err != nil {
		return nil, fmt.Errorf("invalid prune schedule %q: %w", cfg.Workers.PruneSchedule, err)
	}

	a.router = api.NewRouter(api.NewAdminHandler(a, emitter, lru, log), metrics.Registry, log)
	a.server = &http.Server{
		Handler:           a.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	return a, nil
}

// taskFailed counts dispatches the pool could not complete. The pool has
// already logged err.
func taskFailed(t task.Task, _ error) {
	event := ""
	if dt, ok := t.(*task.DispatchTask); ok {
		event = dt.Event()
	}
	metrics.WorkerTasksFailedTotal.WithLabelValues(t.Type(), event).Inc()
}

// Emitter returns the shared custom event emitter.
func (a *App) Emitter() *events.Emitter {
	return a.emitter
}

// Handler returns the admin router.
func (a *App) Handler() http.Handler {
	return a.router
}

// Listeners reports the live custom event subscribers.
func (a *App) Listeners() int {
	return a.emitter.Listeners()
}

// AdminAddr returns the address the admin server listens on, or "" before Start.
func (a *App) AdminAddr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

// Submit queues env for dispatch. It never blocks; a saturated queue
// rejects with task.ErrQueueFull.
func (a *App) Submit(ctx context.Context, env dispatch.Envelope) error {
	if env == nil {
		return dispatch.ErrEmptyEnvelope
	}
	t := task.NewDispatchTask(a.dispatcher, env, a.collab)
	if err := a.queue.Enqueue(t); err != nil {
		a.logger.WarnContext(ctx, "dispatch rejected",
			"event", t.Event(),
			"error", err)
		return fmt.Errorf("failed to submit %s: %w", t.Event(), err)
	}
	return nil
}

// Start binds the admin listener and launches the workers, the custom event
// pump and the scheduler.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return ErrAlreadyStarted
	}

	addr := fmt.Sprintf(":%d", a.config.Admin.Port)
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	a.listener = ln
	a.started = true

	a.pool.Start()

	a.custom = a.emitter.Subscribe()
	a.pumpDone = make(chan struct{})
	go a.pump(a.custom)

	a.scheduler.Start()

	a.logger.Info("admin server listening", "addr", ln.Addr().String())
	go func() {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("admin server failed", "error", err)
		}
	}()

	return nil
}

// pump feeds custom events back through the dispatcher so their handlers run
// on the worker pool like native events.
func (a *App) pump(rx *listener.Receiver[events.Event]) {
	defer close(a.pumpDone)
	ctx := context.Background()
	for {
		ev, err := rx.Recv(ctx)
		if err != nil {
			return
		}
		if err := a.Submit(ctx, dispatch.Custom{Event: ev}); err != nil {
			a.logger.Warn("dropping custom event", "event", ev.EventName(), "error", err)
		}
	}
}

// Shutdown stops accepting work, lets queued dispatches finish and closes the
// admin server. Work still running when ctx ends is cancelled.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.started {
		a.queue.Close()
		return nil
	}
	a.started = false

	<-a.scheduler.Stop().Done()

	a.custom.Close()
	<-a.pumpDone

	a.queue.Close()
	var errs []error
	if err := a.pool.Drain(ctx); err != nil {
		errs = append(errs, fmt.Errorf("worker pool drain: %w", err))
	}
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("admin server shutdown: %w", err))
	}

	a.logger.Info("shutdown complete")
	return errors.Join(errs...)
}
