package notify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

type failingSink struct {
	calls int32
}

func (s *failingSink) Notify(context.Context, Event) error {
	atomic.AddInt32(&s.calls, 1)
	return errors.New("sink down")
}

func TestDispatcherSwallowsSinkErrors(t *testing.T) {
	sink := &failingSink{}
	d := NewDispatcher(sink, nil, time.Second)

	// Publish 不能阻塞也不能向调用方抛错
	d.Publish(Event{Kind: KindBookingCreated, Subject: "Sedan"})
	d.Close()

	if atomic.LoadInt32(&sink.calls) != 1 {
		t.Fatalf("expected sink to be called once, got %d", sink.calls)
	}
}

func TestWebhookSinkDelivers(t *testing.T) {
	var got atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewWebhookSink(srv.URL, time.Second)
	if err := sink.Notify(context.Background(), Event{Kind: KindUserSignup, Subject: "alice"}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if ct, _ := got.Load().(string); ct != "application/json" {
		t.Fatalf("expected json content type, got %q", ct)
	}
}

func TestWebhookSinkBreakerOpens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	sink := NewWebhookSink(srv.URL, time.Second)
	ctx := context.Background()

	// 连续失败到阈值后熔断器应打开
	for i := 0; i < 5; i++ {
		if err := sink.Notify(ctx, Event{Kind: KindBookingCreated}); err == nil {
			t.Fatalf("expected delivery error on attempt %d", i)
		}
	}
	err := sink.Notify(ctx, Event{Kind: KindBookingCreated})
	if err == nil {
		t.Fatalf("expected breaker to reject call")
	}
}
