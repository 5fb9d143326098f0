package eventbus_test

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/todos/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/todos/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInProcessBus_Publish(t *testing.T) {
	bus := eventbus.NewInProcessBus(observability.Discard())

	var got []eventbus.Delivery
	require.NoError(t, bus.Subscribe("todos.todo.*", func(ctx context.Context, d eventbus.Delivery) error {
		got = append(got, d)
		return nil
	}))

	ctx := observability.WithCorrelationID(context.Background(), "corr-1")
	require.NoError(t, bus.Publish(ctx, "todos.todo.created", []byte(`{"todo_id":"1"}`)))

	require.Len(t, got, 1)
	assert.Equal(t, "todos.todo.created", got[0].RoutingKey)
	assert.JSONEq(t, `{"todo_id":"1"}`, string(got[0].Body))
	assert.Equal(t, "corr-1", got[0].CorrelationID)
	assert.False(t, got[0].ReceivedAt.IsZero())
}

func TestInProcessBus_HandlerErrorIsNotReturned(t *testing.T) {
	bus := eventbus.NewInProcessBus(observability.Discard())
	require.NoError(t, bus.Subscribe("#", func(ctx context.Context, d eventbus.Delivery) error {
		return errors.New("handler failed")
	}))

	assert.NoError(t, bus.Publish(context.Background(), "todos.todo.deleted", nil))
}

func TestInProcessBus_StartBlocksUntilDone(t *testing.T) {
	bus := eventbus.NewInProcessBus(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, bus.Start(ctx), context.Canceled)
	assert.NoError(t, bus.Close())
}

func TestNoopPublisher(t *testing.T) {
	p := eventbus.NewNoopPublisher(nil)

	assert.NoError(t, p.Publish(context.Background(), "todos.todo.created", []byte("{}")))
	assert.NoError(t, p.Close())
}
