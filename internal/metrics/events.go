package metrics

import (
	"context"
	"restaurant_ordering/internal/models"
	"restaurant_ordering/internal/services"
)

// CountingPublisher counts order events before handing them on.
type CountingPublisher struct {
	next    services.EventPublisher
	metrics *ServerMetrics
}

func (m *ServerMetrics) WrapPublisher(next services.EventPublisher) *CountingPublisher {
	if next == nil {
		next = services.NopPublisher{}
	}
	return &CountingPublisher{next: next, metrics: m}
}

func (p *CountingPublisher) PublishOrderEvent(ctx context.Context, event *models.OrderEvent) error {
	p.metrics.Orders.WithLabelValues(event.Type).Inc()
	return p.next.PublishOrderEvent(ctx, event)
}
