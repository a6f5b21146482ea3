package observability

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TracingPublisherDecorator injects the current trace context into message
// metadata so consumers continue the trace across the bus.
type TracingPublisherDecorator struct {
	message.Publisher
}

func (p TracingPublisherDecorator) Publish(topic string, messages ...*message.Message) error {
	tracer := otel.Tracer("store")

	for i := range messages {
		ctx, span := tracer.Start(
			messages[i].Context(),
			fmt.Sprintf("publish %s", topic),
			trace.WithSpanKind(trace.SpanKindProducer),
		)

		otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(messages[i].Metadata))
		messages[i].SetContext(ctx)
		span.End()
	}

	return p.Publisher.Publish(topic, messages...)
}
