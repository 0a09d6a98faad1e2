package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PabloIb21/teslo-orders-api/internal/adapter/http/middleware"
	"github.com/PabloIb21/teslo-orders-api/internal/logging"
)

func NewRouter(
	oh *OrderHandler,
	ph *PaymentHandler,
	ah *AuthHandler,
	ch *CatalogHandler,
	authn *middleware.Authn,
	wv *middleware.WebhookVerify,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Metrics())
	r.Use(middleware.Logging(logging.New("http")))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/register", ah.Register)
		v1.POST("/auth/login", ah.Login)

		v1.GET("/products/:slug", ch.GetProductBySlug)

		// Processor server-to-server notifications: HMAC, no bearer.
		v1.POST("/payments/webhook", wv.Verify(), ph.Webhook)

		auth := v1.Group("", authn.Require())
		{
			auth.POST("/orders", oh.CreateOrder)
			auth.GET("/orders", oh.ListMyOrders)
			auth.GET("/orders/:id", oh.GetOrderByID)
			auth.POST("/orders/pay", ph.ConfirmPayment)

			auth.GET("/admin/orders", authn.RequireAdmin(), oh.ListAllOrders)
		}
	}

	return r
}
