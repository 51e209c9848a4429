package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"

	"github.com/imaginehq/imagine-backend/internal/config"
	"github.com/imaginehq/imagine-backend/internal/handler"
	"github.com/imaginehq/imagine-backend/internal/middleware"
	"github.com/imaginehq/imagine-backend/internal/models"
	"github.com/imaginehq/imagine-backend/internal/repository"
	"github.com/imaginehq/imagine-backend/internal/service"
	"github.com/imaginehq/imagine-backend/pkg/database"
	"github.com/imaginehq/imagine-backend/pkg/email"
	"github.com/imaginehq/imagine-backend/pkg/imagegen"
	appLogger "github.com/imaginehq/imagine-backend/pkg/logger"
	"github.com/imaginehq/imagine-backend/pkg/payment"
	"github.com/imaginehq/imagine-backend/pkg/storage"
	"github.com/imaginehq/imagine-backend/pkg/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	logger, err := appLogger.New(cfg.Env)
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	db, err := database.New(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Transaction{},
		&models.Generation{},
	); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	txnRepo := repository.NewTransactionRepository(db)
	genRepo := repository.NewGenerationRepository(db)

	// Gateway clients
	razorpayService := payment.NewRazorpayService(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	clipdropClient := imagegen.NewClipdropClient(cfg.Clipdrop.APIKey)

	var stripeService service.CheckoutGateway
	if cfg.Stripe.SecretKey != "" {
		stripeService = payment.NewStripeService(cfg.Stripe.SecretKey, cfg.Stripe.SuccessURL, cfg.Stripe.CancelURL)
	}

	var archive service.ImageArchive
	if cfg.ArchiveEnabled() {
		r2Storage, err := storage.NewR2Storage(cfg)
		if err != nil {
			logger.Fatal("Failed to initialize R2 storage", zap.Error(err))
		}
		archive = r2Storage
	}

	var mailer *email.EmailService
	if cfg.Email.ResendAPIKey != "" {
		mailer = email.NewEmailService(cfg.Email, logger)
	}

	// Services. The mailer interface values stay nil when email is off;
	// a typed nil would dodge the services' nil checks.
	var welcomeMailer service.WelcomeMailer
	var purchaseMailer service.PurchaseMailer
	if mailer != nil {
		welcomeMailer = mailer
		purchaseMailer = mailer
	}

	authService := service.NewAuthService(userRepo, welcomeMailer, logger)
	imageService := service.NewImageService(userRepo, genRepo, clipdropClient, archive, logger)
	paymentService := service.NewPaymentService(userRepo, txnRepo, razorpayService, stripeService, purchaseMailer, logger)

	// Handlers
	validator := utils.NewValidator()
	authHandler := handler.NewAuthHandler(authService, validator)
	imageHandler := handler.NewImageHandler(imageService, validator)
	paymentHandler := handler.NewPaymentHandler(paymentService, validator, cfg.Stripe.WebhookSecret)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE",
	}))
	app.Use(fiberlogger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("API Working")
	})

	api := app.Group("/api")

	// Public routes
	user := api.Group("/user")
	user.Post("/register", authHandler.Register)
	user.Post("/login", authHandler.Login)

	pay := api.Group("/payment")
	pay.Get("/plans", paymentHandler.GetPlans)
	pay.Post("/webhook", paymentHandler.HandleStripeWebhook)

	// Protected routes
	user.Use(middleware.AuthMiddleware())
	user.Post("/credits", authHandler.GetCredits)
	user.Post("/pay-razor", paymentHandler.PayRazorpay)
	user.Post("/verify-razor", paymentHandler.VerifyRazorpay)

	image := api.Group("/image", middleware.AuthMiddleware())
	image.Post("/generate-image", imageHandler.GenerateImage)
	image.Get("/history", imageHandler.GetHistory)

	pay.Use(middleware.AuthMiddleware())
	pay.Get("/history", paymentHandler.GetHistory)
	pay.Post("/checkout", paymentHandler.CreateCheckout)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	logger.Info("Starting server", zap.String("address", addr))
	if err := app.Listen(addr); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}
