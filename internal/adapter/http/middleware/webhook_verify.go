package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PabloIb21/teslo-orders-api/internal/security"
)

const SignatureHeader = "X-Webhook-Signature"

// WebhookVerify authenticates processor webhook deliveries: the raw body must
// carry a valid HMAC-SHA256 signature in X-Webhook-Signature. The body is
// restored for the handler after verification.
type WebhookVerify struct {
	signer *security.WebhookSigner
}

func NewWebhookVerify(signer *security.WebhookSigner) *WebhookVerify {
	return &WebhookVerify{signer: signer}
}

func (wv *WebhookVerify) Verify() gin.HandlerFunc {
	return func(c *gin.Context) {
		sig := c.GetHeader(SignatureHeader)
		if sig == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing webhook signature"})
			return
		}

		rawBody, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			return
		}
		defer c.Request.Body.Close()

		if err := wv.signer.Verify(rawBody, sig); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "signature verification failed"})
			return
		}

		c.Request.Body = io.NopCloser(bytes.NewReader(rawBody))
		c.Next()
	}
}
