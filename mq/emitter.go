package mq

import (
	"context"
	"encoding/json"
	"log"

	"secondbrain/rdx"
	"secondbrain/semantic"
)

// Index is an indexing message carried over the redis channel.
type Index struct {
	Text string `json:"text"`
}

const channel = "indexing-events"

// Emit publishes an indexing event instead of indexing inline, so content
// creation never waits on the vector service.
func Emit(ctx context.Context, content Index) {
	data, err := json.Marshal(content)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event content: %v", err)
		return
	}

	if err := rdx.Conn.Publish(ctx, channel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish event to Redis: %v", err)
	}
}

// StartIndexingWorker consumes indexing events and feeds them to the vector
// gateway. Failures are logged and the event skipped; there are no retries.
func StartIndexingWorker(ctx context.Context, gateway semantic.Gateway) {
	sub := rdx.Conn.Subscribe(ctx, channel)
	go func() {
		<-ctx.Done()
		sub.Close()
	}()
	ch := sub.Channel()

	log.Println("[IndexingWorker] Listening for indexing events...")

	for msg := range ch {
		handleMessage(ctx, gateway, msg.Payload)
	}
}

// handleMessage decodes one published event and feeds it to the gateway.
// Unparseable and empty events are dropped.
func handleMessage(ctx context.Context, gateway semantic.Gateway, payload string) {
	var event Index
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		log.Printf("[IndexingWorker] Failed to parse event: %v", err)
		return
	}
	if event.Text == "" {
		return
	}
	if err := gateway.IndexDocument(ctx, event.Text); err != nil {
		log.Printf("[IndexingWorker] Failed to index document: %v", err)
	}
}
