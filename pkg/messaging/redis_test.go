package messaging

import (
	"context"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
)

func TestPublish_MarshalError(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	publisher := NewPublisherFromClient(client)
	defer publisher.Close()

	err := publisher.Publish(context.Background(), "customer.provisioned", make(chan int))
	assert.ErrorContains(t, err, "marshal message for customer.provisioned")
}
