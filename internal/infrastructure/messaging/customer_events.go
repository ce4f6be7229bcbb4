// Package messaging announces customer events on the shared Redis bus.
package messaging

import (
	"context"
	"time"

	"github.com/wekeepgrowing/semo-customer/internal/domain/entity"
	"github.com/wekeepgrowing/semo-customer/pkg/messaging"
)

// ChannelCustomerProvisioned carries one message per newly created customer.
const ChannelCustomerProvisioned = "customer.provisioned"

// CustomerProvisionedEvent is the published payload.
type CustomerProvisionedEvent struct {
	CustomerID string            `json:"customerId"`
	UserID     string            `json:"userId"`
	Membership entity.Membership `json:"membership"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// CustomerEventPublisher adapts a messaging.Publisher to customer events.
type CustomerEventPublisher struct {
	publisher messaging.Publisher
}

func NewCustomerEventPublisher(publisher messaging.Publisher) *CustomerEventPublisher {
	return &CustomerEventPublisher{publisher: publisher}
}

func (p *CustomerEventPublisher) PublishCustomerProvisioned(ctx context.Context, customer *entity.Customer) error {
	return p.publisher.Publish(ctx, ChannelCustomerProvisioned, CustomerProvisionedEvent{
		CustomerID: customer.ID.String(),
		UserID:     customer.UserID,
		Membership: customer.Membership,
		CreatedAt:  customer.CreatedAt,
	})
}

func (p *CustomerEventPublisher) Close() error {
	return p.publisher.Close()
}
