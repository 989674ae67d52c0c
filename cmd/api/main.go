package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/infra/worker"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		os.Getenv("RABBITMQ_USER"), os.Getenv("RABBITMQ_PASS"),
		os.Getenv("RABBITMQ_HOST"), os.Getenv("RABBITMQ_PORT"),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositórios
	leadRepo := database.NewLeadRepository(db)
	saleRepo := database.NewSaleRepository(db)
	commissionRepo := database.NewCommissionRepository(db)
	ruleRepo := database.NewCommissionRuleRepository(db)
	productRepo := database.NewProductRepository(db)
	userRepo := database.NewUserRepository(db)
	leaderboardRepo := database.NewLeaderboardRepository(db)

	// 2. Adapters
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"), 587, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
	)

	// 3. Workers
	notifyWorker := queue.NewWorker(rabbitMQ.Ch, mailSender)
	go notifyWorker.Start(queue.QueueName)

	reminderWorker := worker.NewPendingApprovalWorker(db)
	go reminderWorker.Start(context.Background())

	// 4. UseCases
	pipeline := usecase.NewLeadPipeline(leadRepo, userRepo)
	recordUC := usecase.NewRecordSaleUseCase(leadRepo, saleRepo, productRepo)
	decideUC := usecase.NewDecideSaleUseCase(saleRepo, leadRepo, productRepo, userRepo, ruleRepo, producer)
	leaderboardUC := usecase.NewLeaderboardUseCase(leaderboardRepo)

	// 5. Handlers
	leadHandler := handlers.NewLeadHandler(pipeline)
	saleHandler := handlers.NewSaleHandler(recordUC, saleRepo, commissionRepo)
	approvalHandler := handlers.NewApprovalHandler(decideUC)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardUC)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Route("/leads", func(r chi.Router) {
		r.Post("/", leadHandler.HandleCreate)
		r.Get("/{id}", leadHandler.HandleGet)
		r.Post("/{id}/advance", leadHandler.HandleAdvance)
		r.Post("/{id}/release", leadHandler.HandleRelease)
		r.Post("/{id}/claim", leadHandler.HandleClaim)
		r.Post("/{id}/lost", leadHandler.HandleMarkLost)
	})

	r.Route("/sales", func(r chi.Router) {
		r.Post("/", saleHandler.HandleRecord)
		r.Get("/{id}", saleHandler.HandleGet)
		r.Post("/{id}/decision", approvalHandler.HandleDecide)
	})

	r.Get("/leaderboard", leaderboardHandler.HandleSummarize)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🔥 Server LigueCRM rodando na porta :%s", port)
	http.ListenAndServe(":"+port, r)
}
