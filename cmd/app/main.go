package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"petregistry/cmd/fx/account_fx"
	"petregistry/cmd/fx/credits_fx"
	"petregistry/cmd/fx/db_fx"
	"petregistry/cmd/fx/payments_fx"
	"petregistry/cmd/fx/pets_fx"
	"petregistry/cmd/fx/transfers_fx"
	"petregistry/internal/api/controllers"
	"petregistry/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	app := fx.New(
		db_fx.Module,
		account_fx.Module,
		credits_fx.Module,
		pets_fx.Module,
		transfers_fx.Module,
		payments_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	accountController *controllers.AccountController,
	creditController *controllers.CreditController,
	petController *controllers.PetController,
	transferController *controllers.TransferController,
	paymentController *controllers.PaymentController) *gin.Engine {

	r := gin.Default()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware())

	RegisterRoutes(r, accountController, creditController, petController, transferController, paymentController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	accountController *controllers.AccountController,
	creditController *controllers.CreditController,
	petController *controllers.PetController,
	transferController *controllers.TransferController,
	paymentController *controllers.PaymentController) {

	accounts := r.Group("/accounts")
	accounts.POST("/register", accountController.Register)
	accounts.POST("/login", accountController.Login)

	// Webhook authenticates by signature, not by bearer token.
	r.POST("/payments/webhook", paymentController.HandleWebhook)

	authed := r.Group("/", middleware.JWTAuthMiddleware())

	authed.GET("/credits", creditController.GetCredits)
	authed.POST("/credits/redeem-promo", creditController.RedeemPromo)

	authed.POST("/pets", petController.RegisterPet)
	authed.GET("/pets", petController.ListPets)
	authed.GET("/pets/:id", petController.GetPet)
	authed.POST("/pets/:id/transfer", petController.CreateTransfer)

	authed.GET("/transfers", transferController.ListTransfers)
	authed.PATCH("/transfers/:id", transferController.ResolveTransfer)

	payments := r.Group("/payments", middleware.JWTAuthMiddleware())
	payments.POST("/create-checkout-session", paymentController.CreateCheckoutSession)
	payments.GET("/confirm-session", paymentController.ConfirmSession)
	payments.POST("/create-transfer-checkout-session", paymentController.CreateTransferCheckoutSession)
	payments.GET("/confirm-transfer-session", paymentController.ConfirmTransferSession)
}
