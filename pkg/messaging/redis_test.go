package messaging_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/kenang-app/kenang-billing/pkg/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (messaging.RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := messaging.NewRedisClient(context.Background(), messaging.Options{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := messaging.NewRedisClient(context.Background(), messaging.Options{Addr: addr})
	assert.Error(t, err)
}

func TestRedisClient_PublishSubscribe(t *testing.T) {
	client, _ := newTestClient(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := client.Subscribe(ctx, "billing.events")
	require.NoError(t, err)

	require.NoError(t, client.Publish(ctx, "billing.events", map[string]string{"type": "subscription.activated"}))

	select {
	case msg := <-messages:
		assert.Equal(t, "billing.events", msg.Channel)
		var body map[string]string
		require.NoError(t, json.Unmarshal(msg.Payload, &body))
		assert.Equal(t, "subscription.activated", body["type"])
	case <-ctx.Done():
		t.Fatal("message was not delivered")
	}
}
