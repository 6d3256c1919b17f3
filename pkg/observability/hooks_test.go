package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

// recorder captures every hook call as a short event string.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) OnExtractStart(context.Context, int, int) { r.add("extract-start") }
func (r *recorder) OnExtractComplete(context.Context, ExtractStats, time.Duration, error) {
	r.add("extract-complete")
}
func (r *recorder) OnView(context.Context, int, int, int, time.Duration) { r.add("view") }

func (r *recorder) OnCacheHit(_ context.Context, k string)        { r.add("hit:" + k) }
func (r *recorder) OnCacheMiss(_ context.Context, k string)       { r.add("miss:" + k) }
func (r *recorder) OnCacheSet(_ context.Context, k string, _ int) { r.add("set:" + k) }

func (r *recorder) OnRequest(_ context.Context, method, route string) { r.add(method + " " + route) }
func (r *recorder) OnResponse(context.Context, string, string, int, time.Duration) {
	r.add("response")
}

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	ctx := context.Background()

	Pipeline().OnExtractStart(ctx, 3, 2)
	Pipeline().OnExtractComplete(ctx, ExtractStats{Nodes: 3, Edges: 2}, time.Millisecond, nil)
	Pipeline().OnView(ctx, 1, 2, 1, time.Millisecond)
	Cache().OnCacheHit(ctx, "topology")
	Cache().OnCacheMiss(ctx, "topology")
	Cache().OnCacheSet(ctx, "topology", 128)
	HTTP().OnRequest(ctx, "GET", "/health")
	HTTP().OnResponse(ctx, "GET", "/health", 200, time.Millisecond)

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T, want NoopPipelineHooks", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T, want NoopCacheHooks", Cache())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T, want NoopHTTPHooks", HTTP())
	}
}

func TestRegisteredHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	r := &recorder{}
	SetPipelineHooks(r)
	SetCacheHooks(r)
	SetHTTPHooks(r)

	ctx := context.Background()
	HTTP().OnRequest(ctx, "POST", "/api/v1/topology")
	Cache().OnCacheMiss(ctx, "topology")
	Pipeline().OnExtractStart(ctx, 4, 3)
	Pipeline().OnExtractComplete(ctx, ExtractStats{Nodes: 4, Edges: 3}, time.Millisecond, nil)
	Cache().OnCacheSet(ctx, "topology", 512)
	Pipeline().OnView(ctx, 2, 1, 0, time.Millisecond)
	HTTP().OnResponse(ctx, "POST", "/api/v1/topology", 200, time.Millisecond)

	want := []string{
		"POST /api/v1/topology",
		"miss:topology",
		"extract-start",
		"extract-complete",
		"set:topology",
		"view",
		"response",
	}
	if len(r.events) != len(want) {
		t.Fatalf("events = %v, want %v", r.events, want)
	}
	for i := range want {
		if r.events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, r.events[i], want[i])
		}
	}
}

func TestSetNilKeepsCurrent(t *testing.T) {
	Reset()
	defer Reset()

	r := &recorder{}
	SetCacheHooks(r)
	SetCacheHooks(nil)
	SetPipelineHooks(nil)
	SetHTTPHooks(nil)

	if Cache() != CacheHooks(r) {
		t.Errorf("Cache() = %T, want recorder", Cache())
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T, want NoopPipelineHooks", Pipeline())
	}
}

func TestResetRestoresNoop(t *testing.T) {
	r := &recorder{}
	SetPipelineHooks(r)
	SetHTTPHooks(r)
	Reset()

	Pipeline().OnView(context.Background(), 1, 0, 0, 0)
	if len(r.events) != 0 {
		t.Errorf("events after Reset = %v, want none", r.events)
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T, want NoopHTTPHooks", HTTP())
	}
}
