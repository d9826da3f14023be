package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/hartex/hartex/internal/events"
	"github.com/hartex/hartex/internal/gateway"
	"github.com/hartex/hartex/internal/metrics"
	"github.com/hartex/hartex/internal/platform/logger"
)

type call struct {
	method  string
	event   any
	client  Client
	cluster Cluster
	cache   Cache
	emitter *events.Emitter
}

// recordingHandlers remembers every invocation and returns err from each.
type recordingHandlers struct {
	mu    sync.Mutex
	calls []call
	err   error
}

func (r *recordingHandlers) record(c call) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
	return r.err
}

func (r *recordingHandlers) Calls() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]call(nil), r.calls...)
}

func (r *recordingHandlers) GuildCreate(_ context.Context, ev *gateway.GuildCreate, client Client, cache Cache) error {
	return r.record(call{method: "GuildCreate", event: ev, client: client, cache: cache})
}

func (r *recordingHandlers) InteractionCreate(_ context.Context, ev *gateway.InteractionCreate, client Client, cluster Cluster, cache Cache, emitter *events.Emitter) error {
	return r.record(call{method: "InteractionCreate", event: ev, client: client, cluster: cluster, cache: cache, emitter: emitter})
}

func (r *recordingHandlers) MessageCreate(_ context.Context, ev *gateway.MessageCreate, cache Cache, emitter *events.Emitter) error {
	return r.record(call{method: "MessageCreate", event: ev, cache: cache, emitter: emitter})
}

func (r *recordingHandlers) Ready(_ context.Context, ev *gateway.Ready, cluster Cluster) error {
	return r.record(call{method: "Ready", event: ev, cluster: cluster})
}

func (r *recordingHandlers) ShardConnecting(_ context.Context, ev *gateway.ShardConnecting) error {
	return r.record(call{method: "ShardConnecting", event: ev})
}

func (r *recordingHandlers) ShardConnected(_ context.Context, ev *gateway.ShardConnected) error {
	return r.record(call{method: "ShardConnected", event: ev})
}

func (r *recordingHandlers) ShardReconnecting(_ context.Context, ev *gateway.ShardReconnecting) error {
	return r.record(call{method: "ShardReconnecting", event: ev})
}

func (r *recordingHandlers) ShardDisconnected(_ context.Context, ev *gateway.ShardDisconnected) error {
	return r.record(call{method: "ShardDisconnected", event: ev})
}

func (r *recordingHandlers) ShardIdentifying(_ context.Context, ev *gateway.ShardIdentifying) error {
	return r.record(call{method: "ShardIdentifying", event: ev})
}

func (r *recordingHandlers) CommandReceived(_ context.Context, ev *events.CommandReceived) error {
	return r.record(call{method: "CommandReceived", event: ev})
}

func (r *recordingHandlers) CommandIdentified(_ context.Context, ev *events.CommandIdentified) error {
	return r.record(call{method: "CommandIdentified", event: ev})
}

func (r *recordingHandlers) CommandExecuted(_ context.Context, ev *events.CommandExecuted) error {
	return r.record(call{method: "CommandExecuted", event: ev})
}

func (r *recordingHandlers) CommandFailed(_ context.Context, ev *events.CommandFailed) error {
	return r.record(call{method: "CommandFailed", event: ev})
}

type stubClient struct{ Client }

type stubCache struct{ Cache }

type stubCluster struct{ Cluster }

func newDispatcher(t *testing.T, h Handlers) (*Dispatcher, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	log, _ := logger.GetTestLogger(t)
	return New(h, tp.Tracer("test"), log), exporter
}

func collaborators(t *testing.T) Collaborators {
	log, _ := logger.GetTestLogger(t)
	return Collaborators{
		Client:  &stubClient{},
		Cache:   &stubCache{},
		Cluster: &stubCluster{},
		Emitter: events.NewEmitter(nil, log),
	}
}

func TestDispatchRoutesEachVariant(t *testing.T) {
	ctx := context.Background()
	collab := collaborators(t)

	tests := []struct {
		name   string
		env    Envelope
		method string
		check  func(t *testing.T, c call)
	}{
		{
			name:   "guild create gets client and cache",
			env:    Native{Event: &gateway.GuildCreate{ID: 1}},
			method: "GuildCreate",
			check: func(t *testing.T, c call) {
				assert.Same(t, collab.Client, c.client)
				assert.Same(t, collab.Cache, c.cache)
				assert.Nil(t, c.cluster)
				assert.Nil(t, c.emitter)
			},
		},
		{
			name:   "interaction create gets client cluster cache emitter",
			env:    Native{Event: &gateway.InteractionCreate{ID: 2}},
			method: "InteractionCreate",
			check: func(t *testing.T, c call) {
				assert.Same(t, collab.Client, c.client)
				assert.Same(t, collab.Cluster, c.cluster)
				assert.Same(t, collab.Cache, c.cache)
				assert.Same(t, collab.Emitter, c.emitter)
			},
		},
		{
			name:   "message create gets cache and emitter",
			env:    Native{Event: &gateway.MessageCreate{ID: 3}},
			method: "MessageCreate",
			check: func(t *testing.T, c call) {
				assert.Nil(t, c.client)
				assert.Same(t, collab.Cache, c.cache)
				assert.Same(t, collab.Emitter, c.emitter)
			},
		},
		{
			name:   "ready gets the cluster",
			env:    Native{Event: &gateway.Ready{Version: 9}},
			method: "Ready",
			check: func(t *testing.T, c call) {
				assert.Same(t, collab.Cluster, c.cluster)
				assert.Nil(t, c.client)
			},
		},
		{name: "shard connecting", env: Native{Event: &gateway.ShardConnecting{ShardID: 1}}, method: "ShardConnecting"},
		{name: "shard connected", env: Native{Event: &gateway.ShardConnected{ShardID: 1}}, method: "ShardConnected"},
		{name: "shard reconnecting", env: Native{Event: &gateway.ShardReconnecting{ShardID: 1}}, method: "ShardReconnecting"},
		{name: "shard disconnected", env: Native{Event: &gateway.ShardDisconnected{ShardID: 1}}, method: "ShardDisconnected"},
		{name: "shard identifying", env: Native{Event: &gateway.ShardIdentifying{ShardID: 1}}, method: "ShardIdentifying"},
		{name: "command received", env: Custom{Event: events.NewCommandReceived("ping", 1, 2)}, method: "CommandReceived"},
		{name: "command identified", env: Custom{Event: events.NewCommandIdentified("ping")}, method: "CommandIdentified"},
		{name: "command executed", env: Custom{Event: events.NewCommandExecuted("ping", "HarTex")}, method: "CommandExecuted"},
		{name: "command failed", env: Custom{Event: events.NewCommandFailed("ping", "boom")}, method: "CommandFailed"},
		{name: "pointer envelope", env: &Custom{Event: events.NewCommandIdentified("about")}, method: "CommandIdentified"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &recordingHandlers{}
			d, _ := newDispatcher(t, h)

			require.NoError(t, d.Dispatch(ctx, tt.env, collab))

			calls := h.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, tt.method, calls[0].method)
			assert.Same(t, payload(tt.env), calls[0].event)
			if tt.check != nil {
				tt.check(t, calls[0])
			}
		})
	}
}

func TestDispatchCommandExecutedInvokesHandlerOnce(t *testing.T) {
	h := &recordingHandlers{}
	d, _ := newDispatcher(t, h)

	err := d.Dispatch(context.Background(), Custom{Event: events.NewCommandExecuted("ping", "G")}, collaborators(t))

	require.NoError(t, err)
	require.Len(t, h.Calls(), 1)
	assert.Equal(t, "CommandExecuted", h.Calls()[0].method)
}

func TestDispatchUnknownVariantIsNoop(t *testing.T) {
	h := &recordingHandlers{}
	d, exporter := newDispatcher(t, h)
	env := Native{Event: &gateway.Unknown{Type: "TYPING_START"}}
	ignored := metrics.DispatchTotal.WithLabelValues("native", "TYPING_START", OutcomeIgnored)
	before := testutil.ToFloat64(ignored)

	err := d.Dispatch(context.Background(), env, collaborators(t))

	require.NoError(t, err)
	assert.Empty(t, h.Calls())
	assert.Equal(t, before+1, testutil.ToFloat64(ignored))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Attributes, attribute.String("hartex.dispatch.outcome", OutcomeIgnored))
}

func TestDispatchEmptyEnvelope(t *testing.T) {
	tests := []struct {
		name string
		env  Envelope
	}{
		{name: "nil envelope", env: nil},
		{name: "nil native payload", env: Native{}},
		{name: "nil custom payload", env: Custom{}},
		{name: "typed nil native payload", env: Native{Event: (*gateway.GuildCreate)(nil)}},
		{name: "typed nil custom payload", env: Custom{Event: (*events.CommandFailed)(nil)}},
		{name: "nil pointer envelope", env: (*Native)(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &recordingHandlers{}
			d, exporter := newDispatcher(t, h)

			err := d.Dispatch(context.Background(), tt.env, collaborators(t))

			assert.ErrorIs(t, err, ErrEmptyEnvelope)
			assert.Empty(t, h.Calls())
			assert.Empty(t, exporter.GetSpans())
		})
	}
}

func TestDispatchPropagatesHandlerError(t *testing.T) {
	cause := errors.New("platform unavailable")
	h := &recordingHandlers{err: fmt.Errorf("guild create: %w", cause)}
	d, exporter := newDispatcher(t, h)
	failed := metrics.DispatchTotal.WithLabelValues("native", "GUILD_CREATE", OutcomeError)
	before := testutil.ToFloat64(failed)

	err := d.Dispatch(context.Background(), Native{Event: &gateway.GuildCreate{ID: 1}}, collaborators(t))

	assert.Same(t, h.err, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, before+1, testutil.ToFloat64(failed))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
}

func TestDispatchRecordsSpan(t *testing.T) {
	d, exporter := newDispatcher(t, &recordingHandlers{})

	require.NoError(t, d.Dispatch(context.Background(), Custom{Event: events.NewCommandIdentified("ping")}, collaborators(t)))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "dispatch command_identified", spans[0].Name)
	assert.Contains(t, spans[0].Attributes, attribute.String("hartex.event.category", "custom"))
	assert.Contains(t, spans[0].Attributes, attribute.String("hartex.event.name", events.NameCommandIdentified))
	assert.Contains(t, spans[0].Attributes, attribute.String("hartex.dispatch.outcome", OutcomeHandled))
}

func TestDispatchConcurrent(t *testing.T) {
	h := &recordingHandlers{}
	d, _ := newDispatcher(t, h)
	collab := collaborators(t)

	const n = 64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			env := Native{Event: &gateway.ShardConnected{ShardID: uint64(i), HeartbeatInterval: 41250}}
			assert.NoError(t, d.Dispatch(context.Background(), env, collab))
		}(i)
	}
	wg.Wait()

	assert.Len(t, h.Calls(), n)
}

func TestEventName(t *testing.T) {
	assert.Equal(t, "READY", EventName(Native{Event: &gateway.Ready{}}))
	assert.Equal(t, events.NameCommandFailed, EventName(Custom{Event: events.NewCommandFailed("x", "y")}))
	assert.Equal(t, "", EventName(Custom{}))
	assert.Equal(t, "", EventName(nil))
}
