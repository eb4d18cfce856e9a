package payments_fx

import (
	"log"
	"os"
	"strconv"

	"go.uber.org/fx"

	"petregistry/internal/api/controllers"
	"petregistry/internal/payments"
	"petregistry/internal/services"
)

var Module = fx.Provide(
	provideProvider,
	provideCheckoutConfig,
	services.NewReconcileService,
	services.NewCheckoutService,
	controllers.NewPaymentController,
)

func provideProvider() payments.Provider {
	cfg := payments.StripeConfig{
		SecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
	}
	if cfg.SecretKey == "" {
		log.Println("STRIPE_SECRET_KEY not set; checkout endpoints will answer 503")
	}
	return payments.NewStripeProvider(cfg)
}

func provideCheckoutConfig() services.CheckoutConfig {
	return services.CheckoutConfig{
		RegistrationFeeMinor: envInt64("REGISTRATION_FEE_MINOR", 1500),
		TransferFeeMinor:     envInt64("TRANSFER_FEE_MINOR", 1000),
		Currency:             envString("CHECKOUT_CURRENCY", "usd"),

		RegistrationSuccessURL: os.Getenv("REGISTRATION_SUCCESS_URL"),
		RegistrationCancelURL:  os.Getenv("REGISTRATION_CANCEL_URL"),
		TransferSuccessURL:     os.Getenv("TRANSFER_SUCCESS_URL"),
		TransferCancelURL:      os.Getenv("TRANSFER_CANCEL_URL"),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("Invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
