package observability_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"chat-server/internal/config"
	"chat-server/internal/infrastructure/observability"
)

func TestSetup_RegistersGlobalProviders(t *testing.T) {
	cfg := &config.Config{ServiceName: "chat-server-test", Environment: "test"}

	shutdown, err := observability.Setup(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
		t.Errorf("tracer provider not registered globally, got %T", otel.GetTracerProvider())
	}
	if _, ok := otel.GetMeterProvider().(*sdkmetric.MeterProvider); !ok {
		t.Errorf("meter provider not registered globally, got %T", otel.GetMeterProvider())
	}
}
