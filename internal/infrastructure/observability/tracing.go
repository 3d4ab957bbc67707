package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "chat-server"
)

// GetTracer returns the tracer for the chat service.
func GetTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// TurnAttributes returns common attributes for chat turn spans.
func TurnAttributes(userID uint, newConversation bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int("chat.user_id", int(userID)),
		attribute.Bool("chat.new_conversation", newConversation),
	}
}

// StartTurnSpan starts a new span for one chat turn.
func StartTurnSpan(ctx context.Context, userID uint, newConversation bool) (context.Context, trace.Span) {
	ctx, span := GetTracer().Start(ctx, "chat.turn",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(TurnAttributes(userID, newConversation)...),
	)
	return ctx, span
}

// RecordError records an error on a span.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
