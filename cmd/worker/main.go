package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"lateentry/internal/config"
	"lateentry/internal/pushclient"
	"lateentry/internal/queue"
	"lateentry/internal/store"
)

// Worker consumes entry events from the queue and forwards them to the push
// gateway. Delivery is best effort; the notifications table written by the
// API is the source of truth.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "lateentry:events")
	}

	push := pushclient.New(cfg.PushGatewayURL, cfg.PushSkip)
	if !cfg.PushSkip {
		if err := push.Health(ctx); err != nil {
			log.Printf("WARNING: push gateway not available: %v", err)
			log.Println("Worker will retry delivery when events arrive")
		} else {
			log.Println("Push gateway connected")
		}
	}

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for events...")
	for msg := range messages {
		if msg.Type != queue.TypeEntryRecorded && msg.Type != queue.TypeEntryDecided {
			continue
		}

		var evt struct {
			EntryID   string `json:"entryId"`
			StudentID string `json:"studentId"`
			Status    string `json:"status"`
		}
		if err := json.Unmarshal(msg.Body, &evt); err != nil {
			log.Printf("malformed event body: %v", err)
			continue
		}

		err := push.Send(ctx, pushclient.Push{
			RecipientID: evt.StudentID,
			EntryID:     evt.EntryID,
			Status:      evt.Status,
			Event:       msg.Type,
		})
		if err != nil {
			log.Printf("push delivery failed for entry %s: %v", evt.EntryID, err)
			continue
		}
		log.Printf("delivered %s for entry %s", msg.Type, evt.EntryID)
	}

	log.Println("worker stopped")
}
