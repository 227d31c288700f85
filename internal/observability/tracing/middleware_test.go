package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func installRecorder(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	shutdown := Init(true, sdktrace.WithSyncer(exporter))
	t.Cleanup(func() {
		_ = shutdown(context.Background())
		otel.SetTracerProvider(sdktrace.NewTracerProvider())
	})
	return exporter
}

func attrMap(attrs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(attrs))
	for _, a := range attrs {
		m[a.Key] = a.Value
	}
	return m
}

func TestMiddleware_CreatesServerSpan(t *testing.T) {
	exporter := installRecorder(t)

	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/articles", nil))

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("spans=%d, want 1", len(spans))
	}
	s := spans[0]
	if s.Name != "GET /articles" {
		t.Errorf("name=%q", s.Name)
	}
	attrs := attrMap(s.Attributes)
	if attrs["http.status_code"].AsInt64() != http.StatusTeapot {
		t.Errorf("status attr=%v", attrs["http.status_code"])
	}
	if rr.Header().Get("X-Trace-Id") != s.SpanContext.TraceID().String() {
		t.Errorf("X-Trace-Id=%q, want %q", rr.Header().Get("X-Trace-Id"), s.SpanContext.TraceID())
	}
}

func TestMiddleware_ContinuesIncomingTrace(t *testing.T) {
	exporter := installRecorder(t)
	const parent = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"

	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("traceparent", parent)
	h.ServeHTTP(httptest.NewRecorder(), req)

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("spans=%d", len(spans))
	}
	if got := spans[0].SpanContext.TraceID().String(); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("trace id=%s, want parent trace", got)
	}
}

func TestMiddleware_MarksServerErrors(t *testing.T) {
	exporter := installRecorder(t)

	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/auth/login", nil))

	attrs := attrMap(exporter.GetSpans()[0].Attributes)
	if !attrs["error"].AsBool() {
		t.Error("5xx response should set error attribute")
	}
}

func TestStartAndEndSpan(t *testing.T) {
	exporter := installRecorder(t)

	_, span := StartSpan(context.Background(), "ingest.run", attribute.String("source", "bbc-news"))
	EndSpan(span, errors.New("provider down"))

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("spans=%d", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("status=%v, want Error", spans[0].Status.Code)
	}
	if attrMap(spans[0].Attributes)["source"].AsString() != "bbc-news" {
		t.Error("missing source attribute")
	}
}

func TestInit_Disabled(t *testing.T) {
	shutdown := Init(false)
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown err=%v", err)
	}
}
