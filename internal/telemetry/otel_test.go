package telemetry

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type recordingExporter struct {
	shutdowns int
}

func (e *recordingExporter) ExportSpans(context.Context, []sdktrace.ReadOnlySpan) error { return nil }

func (e *recordingExporter) Shutdown(context.Context) error {
	e.shutdowns++
	return nil
}

func TestSetup_NoopWhenEndpointEmpty(t *testing.T) {
	shutdown, err := Setup(context.Background(), "", "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_CreatesProviderWhenEndpointSet(t *testing.T) {
	// non-routable, nothing is exported before shutdown
	shutdown, err := Setup(context.Background(), "http://192.0.2.1:4318", "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_ResourceFailureShutsExporterDown(t *testing.T) {
	oldExporter, oldResource := newExporter, newResource
	t.Cleanup(func() { newExporter, newResource = oldExporter, oldResource })

	exp := &recordingExporter{}
	newExporter = func(context.Context, string) (sdktrace.SpanExporter, error) { return exp, nil }
	newResource = func(context.Context, ...resource.Option) (*resource.Resource, error) {
		return nil, errors.New("resource detection failed")
	}

	shutdown, err := Setup(context.Background(), "http://192.0.2.1:4318", "test-service")
	if err == nil {
		t.Fatal("expected error")
	}
	if exp.shutdowns != 1 {
		t.Fatalf("exporter shut down %d times, want 1", exp.shutdowns)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown error: %v", err)
	}
}
