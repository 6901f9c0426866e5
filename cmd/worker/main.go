package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"swapdesk/internal/handlers/business"
	"swapdesk/internal/models"
	"swapdesk/internal/schedule"
	"swapdesk/internal/storage"
	"swapdesk/pkg/config"
	"swapdesk/pkg/jupiter"
	"swapdesk/pkg/solana"
)

// swapSubmittedMessage mirrors the payload published by the API on swap
// submission.
type swapSubmittedMessage struct {
	SwapID string `json:"swap_id"`
}

func main() {
	_ = godotenv.Load()

	// Initialize logger
	log.SetFormatter(&log.JSONFormatter{})
	log.SetLevel(log.InfoLevel)

	// Initialize database
	config.InitDB()

	store := storage.New(config.DB)
	ledger := solana.NewClient(os.Getenv("SOLANA_RPC_ENDPOINT"))
	prices := jupiter.NewPriceClient()

	var publisher *config.Publisher
	if os.Getenv("RABBITMQ_HOST") != "" {
		config.InitRabbitMQ()
		defer func() {
			if config.RabbitMQ != nil {
				config.RabbitMQ.Close()
			}
		}()

		var err error
		publisher, err = config.NewPublisher()
		if err != nil {
			log.Fatal("Failed to create publisher: ", err)
		}
		defer publisher.Close()
	} else {
		log.Warn("RabbitMQ not configured, running without notifications")
	}
	notifier := config.NewEventNotifier(publisher)

	reconciler := business.NewSwapStatusReconciler(store, ledger, notifier)
	ctx := context.Background()

	// Eager sync path: the API publishes each submitted swap so the first
	// status check happens within seconds instead of waiting for the sweep.
	if config.RabbitMQ != nil {
		msgConsumer, err := config.NewConsumer(config.QueueSwapSubmitted)
		if err != nil {
			log.Fatal("Failed to create consumer: ", err)
		}
		defer msgConsumer.Close()

		go func() {
			err := msgConsumer.Consume(func(msg []byte) error {
				var submitted swapSubmittedMessage
				if err := json.Unmarshal(msg, &submitted); err != nil {
					log.Errorf("Failed to unmarshal message: %v", err)
					return err
				}

				swap, err := store.SwapByID(submitted.SwapID)
				if err != nil {
					log.Errorf("Failed to load submitted swap %s: %v", submitted.SwapID, err)
					return nil
				}
				if _, err := reconciler.SyncStatus(ctx, swap); err != nil {
					log.Errorf("Failed to sync submitted swap %s: %v", submitted.SwapID, err)
				}
				return nil
			})
			if err != nil {
				log.Errorf("Consumer stopped: %v", err)
			}
		}()
		log.Info("Listening for submitted swaps")
	}

	// Streaming price path: when a feed endpoint is configured, ticks land
	// in the same samples table as the poller's.
	if streamEndpoint := os.Getenv("PRICE_STREAM_ENDPOINT"); streamEndpoint != "" {
		var tokens []models.TokenConfig
		if err := config.DB.Where("is_active = ?", true).Find(&tokens).Error; err != nil {
			log.Fatalf("Failed to load active tokens for streaming: %v", err)
		}
		mints := make([]string, 0, len(tokens))
		for _, token := range tokens {
			mints = append(mints, token.Mint)
		}

		stream := jupiter.NewPriceStream(streamEndpoint, mints, func(u jupiter.PriceUpdate) {
			schedule.StorePriceUpdate(u.Mint, decimal.NewFromFloat(u.UsdPrice), time.UnixMilli(u.Timestamp))
		})
		go func() {
			if err := stream.Run(ctx); err != nil {
				log.Errorf("Price stream stopped: %v", err)
			}
		}()
	}

	// Create scheduled tasks
	c := cron.New(cron.WithSeconds())

	// Reconcile non-terminal swaps every 30 seconds
	if _, err := c.AddFunc("*/30 * * * * *", func() {
		if err := schedule.ReconcileSwaps(ctx, store, reconciler); err != nil {
			log.Errorf("Swap reconciliation sweep failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to add reconcile task: %v", err)
	}

	// Collect price samples every minute
	if _, err := c.AddFunc("0 * * * * *", func() {
		if err := schedule.CollectPriceSamples(ctx, prices); err != nil {
			log.Errorf("Price sample collection failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to add price collection task: %v", err)
	}

	c.Start()
	log.Info("Worker started")

	// Keep the process running
	select {}
}
