package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"swapdesk/internal/handlers"
	"swapdesk/internal/handlers/business"
	"swapdesk/internal/routes"
	"swapdesk/internal/storage"
	"swapdesk/pkg/config"
	"swapdesk/pkg/jupiter"
	"swapdesk/pkg/solana"
)

func main() {
	// Load .env if present; real deployments inject env vars directly
	_ = godotenv.Load()

	// Initialize database
	config.InitDB()

	// Initialize RabbitMQ (optional, will log warning if not configured)
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
			log.Fatal("Failed to create publisher:", err)
		}
		defer publisher.Close()
		log.Println("RabbitMQ initialized successfully")
	} else {
		log.Println("RabbitMQ not configured, skipping initialization")
	}

	assets := config.DefaultAssets()
	store := storage.New(config.DB)
	notifier := config.NewEventNotifier(publisher)

	rpcEndpoint := os.Getenv("SOLANA_RPC_ENDPOINT")
	ledger := solana.NewClient(rpcEndpoint)

	providers := map[string]business.TradeProvider{
		"solana": jupiter.NewClient(),
	}

	engine := business.NewQuoteEngine(store, assets, providers, jupiter.NewPriceClient(), ledger)
	fees := business.NewFeeCalculator(assets)
	lifecycle := business.NewSwapLifecycleManager(store, notifier)
	reconciler := business.NewSwapStatusReconciler(store, ledger, notifier)
	charts := business.NewChartService(store)

	r := routes.SetupRouter(routes.Handlers{
		Quote: handlers.NewQuoteHandler(engine, fees),
		Swap:  handlers.NewSwapHandler(store, lifecycle, reconciler, publisher),
		Chart: handlers.NewChartHandler(charts),
	})

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
