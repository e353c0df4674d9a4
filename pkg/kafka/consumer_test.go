package kafka

import (
	"context"
	"testing"
	"time"
)

// A reader that fetched a message right as shutdown begins must be able
// to finish its enqueue attempt before the message channel closes.
func TestConsumerStopWaitsForReaders(t *testing.T) {
	c, err := NewConsumer(
		WithConsumerBrokers([]string{"localhost:9092"}),
		WithConsumerBufferSize(1),
	)
	if err != nil {
		t.Fatalf("new consumer: %v", err)
	}

	// Stand in for a read loop: keep enqueuing until shutdown. With no
	// workers draining, the channel fills after one message and the
	// second enqueue spins in its backpressure loop.
	c.readerWg.Add(1)
	go func() {
		defer c.readerWg.Done()
		for c.enqueue(&inflight{topic: "surface-groups", data: []byte("{}")}) {
		}
	}()

	// Let the goroutine fill the channel and start spinning.
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestConsumerStopIdempotent(t *testing.T) {
	c, err := NewConsumer(WithConsumerBrokers([]string{"localhost:9092"}))
	if err != nil {
		t.Fatalf("new consumer: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("first stop: %v", err)
	}
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("second stop: %v", err)
	}
}
