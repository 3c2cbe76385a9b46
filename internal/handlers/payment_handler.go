package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jikaseimen-kirinji/order-gateway/internal/catalog"
	"github.com/jikaseimen-kirinji/order-gateway/internal/metrics"
	"github.com/jikaseimen-kirinji/order-gateway/internal/paypay"
	"github.com/jikaseimen-kirinji/order-gateway/internal/ratelimit"
	"github.com/jikaseimen-kirinji/order-gateway/internal/validation"
)

// HandlerConfig groups dependencies for the payment handler.
type HandlerConfig struct {
	Catalog       *catalog.Catalog
	Limiter       *ratelimit.Limiter
	PayPay        *paypay.Client
	Credentials   paypay.Credentials
	AllowedOrigin string
	Metrics       *metrics.Publisher
}

// RegisterPaymentRoutes registers the payment API routes and the middleware
// every response passes through (request id, CORS headers).
func RegisterPaymentRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	r.Use(requestID(), corsHeaders(cfg.AllowedOrigin))

	r.OPTIONS("/api/payment", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	r.POST("/api/payment", func(c *gin.Context) {
		ctx := c.Request.Context()
		reqID := c.GetString(requestIDKey)

		// Origin policy first: a cross-origin caller is rejected before it
		// can consume rate-limit budget or trigger any parsing.
		if origin := c.GetHeader("Origin"); origin != "" && origin != cfg.AllowedOrigin {
			c.JSON(http.StatusForbidden, gin.H{"error": "許可されていないオリジンです"})
			return
		}

		if !cfg.Limiter.Allow(clientKey(c)) {
			cfg.Metrics.Count(metrics.MetricPaymentRejected)
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "リクエストが多すぎます。しばらくしてからお試しください"})
			return
		}

		var req validation.PaymentRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote a 400
			cfg.Metrics.Count(metrics.MetricPaymentRejected)
			return
		}

		order, err := validation.Verify(req.Items, cfg.Catalog)
		if err != nil {
			cfg.Metrics.Count(metrics.MetricPaymentRejected)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if !cfg.Credentials.Complete() {
			log.Printf("[payment] req=%s missing PayPay credentials", reqID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "PayPay環境変数が未設定です"})
			return
		}

		merchantPaymentID, err := paypay.NewMerchantPaymentID()
		if err != nil {
			log.Printf("[payment] req=%s id generation failed: %v", reqID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "サーバーエラー"})
			return
		}

		items := make([]paypay.OrderItem, 0, len(order.Lines))
		for _, line := range order.Lines {
			items = append(items, paypay.OrderItem{
				Name:      line.ItemID,
				Category:  line.Category,
				Quantity:  line.Quantity,
				ProductID: line.ItemID,
				UnitPrice: paypay.MoneyAmount{Amount: line.UnitPrice, Currency: "JPY"},
			})
		}
		payload := paypay.NewPayload(merchantPaymentID, order.TotalAmount, items, cfg.AllowedOrigin+"/complete")

		resp, err := cfg.PayPay.CreateQRCode(ctx, payload)
		if err != nil {
			cfg.Metrics.Count(metrics.MetricProviderFailed)
			var pe *paypay.ProviderError
			if errors.As(err, &pe) {
				log.Printf("[payment] req=%s provider error status=%d body=%s", reqID, pe.StatusCode, pe.Raw)
				if pe.Message != "" {
					c.JSON(http.StatusBadRequest, gin.H{"error": pe.Message})
					return
				}
			} else {
				log.Printf("[payment] req=%s provider call failed: %v", reqID, err)
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "PayPay APIエラー"})
			return
		}

		cfg.Metrics.Count(metrics.MetricPaymentSucceeded)
		log.Printf("[payment] req=%s created merchantPaymentId=%s amount=%d", reqID, merchantPaymentID, order.TotalAmount)
		c.JSON(http.StatusOK, gin.H{
			"url":               resp.Data.URL,
			"merchantPaymentId": merchantPaymentID,
		})
	})
}

const requestIDKey = "request_id"

// requestID reuses an inbound X-Request-Id for correlation or mints one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

// corsHeaders stamps the CORS policy on every response, preflight included.
func corsHeaders(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", allowedOrigin)
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Next()
	}
}

// clientKey derives the rate-limit key: the first address of the forwarded
// chain set by the reverse proxy. Clients with no forwarded header share one
// "unknown" bucket.
func clientKey(c *gin.Context) string {
	fwd := c.GetHeader("X-Forwarded-For")
	if fwd == "" {
		return "unknown"
	}
	first, _, _ := strings.Cut(fwd, ",")
	first = strings.TrimSpace(first)
	if first == "" {
		return "unknown"
	}
	return first
}
