package amqp

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExponentialBackoff(t *testing.T) {
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second, maxBackoff, maxBackoff}
	for attempt, d := range want {
		assert.Equal(t, d, exponentialBackoff(attempt), "attempt %d", attempt)
	}
	assert.Equal(t, time.Second, exponentialBackoff(-3))
	assert.Equal(t, maxBackoff, exponentialBackoff(40), "large attempts must not overflow")
}

func TestIsConnectionError(t *testing.T) {
	for _, err := range []error{
		amqp091.ErrClosed,
		fmt.Errorf("publish: %w", amqp091.ErrClosed),
		errors.New("dial tcp: connection refused"),
		errors.New("unexpected EOF"),
		errors.New("write: broken pipe"),
	} {
		assert.True(t, isConnectionError(err), "%v", err)
	}
	for _, err := range []error{nil, errors.New("NOT_FOUND - no exchange 'findash'"), errors.New("invalid input")} {
		assert.False(t, isConnectionError(err), "%v", err)
	}
}

func newDisconnectedClient() *Client {
	return &Client{exchangeName: "findash", queueName: "refresh_tables"}
}

func TestClient_CircuitOpensAfterRepeatedFailures(t *testing.T) {
	c := newDisconnectedClient()
	for i := 0; i < maxFailures-1; i++ {
		c.recordFailure()
	}
	assert.False(t, c.isCircuitOpen(), "below the threshold the circuit stays closed")

	c.recordFailure()
	assert.True(t, c.isCircuitOpen())

	c.recordSuccess()
	assert.False(t, c.isCircuitOpen())
	assert.Zero(t, atomic.LoadInt64(&c.failureCount))
}

func TestClient_CircuitHalfOpens(t *testing.T) {
	c := newDisconnectedClient()
	atomic.StoreInt32(&c.state, StateOpen)
	c.lastFailure = time.Now().Add(-openTimeout - time.Second)

	assert.False(t, c.isCircuitOpen(), "an expired open circuit lets one attempt through")
	assert.Equal(t, StateHalfOpen, atomic.LoadInt32(&c.state))

	c.recordFailure()
	assert.Equal(t, StateOpen, atomic.LoadInt32(&c.state), "a failed probe reopens immediately")
	assert.True(t, c.isCircuitOpen())
}

func TestClient_PublishRefresh(t *testing.T) {
	t.Run("refused while the circuit is open", func(t *testing.T) {
		c := newDisconnectedClient()
		atomic.StoreInt32(&c.state, StateOpen)
		c.lastFailure = time.Now()

		err := c.PublishRefresh(context.Background(), "Dados")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "circuit breaker is open")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, newDisconnectedClient().PublishRefresh(ctx, "Dados"), context.Canceled)
	})

	t.Run("not connected counts as a failure", func(t *testing.T) {
		c := newDisconnectedClient()
		err := c.PublishRefresh(context.Background(), "Dados")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not connected")
		assert.EqualValues(t, 1, atomic.LoadInt64(&c.failureCount))
	})
}

func TestClient_ConsumeRefresh_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newDisconnectedClient().ConsumeRefresh(ctx, func(context.Context, *RefreshMessage) error {
		t.Fatal("handler must not run")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRefreshMessage(t *testing.T) {
	msg := NewRefreshMessage("Dados para AI- Light")
	assert.Equal(t, "Dados para AI- Light", msg.Sheet)
	assert.NotEmpty(t, msg.RequestID)
	assert.NotEqual(t, msg.RequestID, NewRefreshMessage("Dados").RequestID)
	assert.WithinDuration(t, time.Now(), msg.Timestamp, time.Second)

	body, err := msg.ToJSON()
	require.NoError(t, err)
	decoded, err := RefreshMessageFromJSON(body)
	require.NoError(t, err)
	assert.Equal(t, msg.Sheet, decoded.Sheet)
	assert.Equal(t, msg.RequestID, decoded.RequestID)
	assert.True(t, decoded.Timestamp.Equal(msg.Timestamp))

	for _, bad := range []string{`{"sheet": 12}`, `{"request_id": "x"}`, `not json`} {
		_, err := RefreshMessageFromJSON([]byte(bad))
		assert.Error(t, err, bad)
	}
}
