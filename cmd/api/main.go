package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	awsclients "github.com/jikaseimen-kirinji/order-gateway/internal/aws"
	"github.com/jikaseimen-kirinji/order-gateway/internal/catalog"
	"github.com/jikaseimen-kirinji/order-gateway/internal/handlers"
	"github.com/jikaseimen-kirinji/order-gateway/internal/metrics"
	"github.com/jikaseimen-kirinji/order-gateway/internal/paypay"
	"github.com/jikaseimen-kirinji/order-gateway/internal/ratelimit"
)

const (
	defaultAppOrigin = "https://jikaseimenkirinji.vercel.app"

	rateLimitPerWindow = 10
	rateLimitWindow    = time.Minute
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	// panics become the same generic 500 JSON body as any other unexpected
	// failure; details stay in the server log
	r.Use(gin.CustomRecovery(func(c *gin.Context, err any) {
		log.Printf("panic recovered: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "サーバーエラー"})
	}))

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterPaymentRoutes(r, cfg)

	return r
}

func main() {
	appOrigin := os.Getenv("APP_ORIGIN")
	if appOrigin == "" {
		appOrigin = defaultAppOrigin
	}

	baseURL := paypay.SandboxBaseURL
	if os.Getenv("PAYPAY_PRODUCTION") == "true" {
		baseURL = paypay.ProductionBaseURL
	}

	creds := paypay.LoadCredentials()
	if !creds.Complete() {
		// still serve; the endpoint answers 500 until credentials arrive
		log.Printf("warning: PayPay credentials incomplete, payment requests will fail")
	}

	var pub *metrics.Publisher
	if os.Getenv("METRICS_DISABLED") != "true" {
		clients, err := awsclients.NewClients(context.Background())
		if err != nil {
			log.Printf("metrics disabled: failed to init aws clients: %v", err)
		} else {
			pub = metrics.NewPublisher(clients.CloudWatch, "KirinjiGateway")
		}
	}

	cfg := handlers.HandlerConfig{
		Catalog:       catalog.New(),
		Limiter:       ratelimit.New(rateLimitPerWindow, rateLimitWindow),
		PayPay:        paypay.NewClient(creds, baseURL),
		Credentials:   creds,
		AllowedOrigin: appOrigin,
		Metrics:       pub,
	}

	r := setupRouter(cfg)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		}
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		// the adapter handles proxying; use adapter.ProxyWithContext for proper context propagation
		return adapter.ProxyWithContext(ctx, req)
	})
}
