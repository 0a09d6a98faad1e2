package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PabloIb21/teslo-orders-api/internal/logging"
)

const (
	reqBodyLimit  = 8 * 1024 // 8KB
	respBodyLimit = 8 * 1024 // 8KB
)

type bodyLogWriter struct {
	gin.ResponseWriter
	buf *bytes.Buffer
}

func (w *bodyLogWriter) Write(b []byte) (int, error) {
	if w.buf != nil && w.buf.Len() < respBodyLimit {
		remain := respBodyLimit - w.buf.Len()
		if len(b) > remain {
			w.buf.Write(b[:remain])
		} else {
			w.buf.Write(b)
		}
	}
	return w.ResponseWriter.Write(b)
}

// redactJSON scrubs credential-ish fields before they reach the log file.
func redactJSON(raw []byte) []byte {
	if len(raw) == 0 {
		return raw
	}
	var m any
	if err := json.Unmarshal(raw, &m); err != nil {
		return raw // not JSON
	}
	var scrub func(any) any
	scrub = func(x any) any {
		switch v := x.(type) {
		case map[string]any:
			for k, val := range v {
				kl := strings.ToLower(k)
				if kl == "password" || kl == "authorization" || kl == "token" || kl == "secret" {
					v[k] = "***redacted***"
					continue
				}
				v[k] = scrub(val)
			}
			return v
		case []any:
			for i := range v {
				v[i] = scrub(v[i])
			}
			return v
		default:
			return v
		}
	}
	out := scrub(m)
	b, err := json.Marshal(out)
	if err != nil {
		return raw
	}
	return b
}

// peekBody captures up to n bytes for the log and returns a body that replays
// everything read plus whatever is still unread, so large payloads reach the
// handler intact.
func peekBody(rc io.ReadCloser, n int) (peeked []byte, body io.ReadCloser, truncated bool) {
	var buf bytes.Buffer
	_, _ = io.CopyN(&buf, rc, int64(n)+1)
	b := buf.Bytes()
	body = replayBody{Reader: io.MultiReader(bytes.NewReader(b), rc), closer: rc}
	if len(b) > n {
		return b[:n], body, true
	}
	return b, body, false
}

type replayBody struct {
	io.Reader
	closer io.Closer
}

func (r replayBody) Close() error { return r.closer.Close() }

// Logging logs each request/response pair and injects a request-scoped
// slog.Logger into the gin context.
func Logging(base *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
			c.Request.Header.Set("X-Request-Id", reqID)
		}
		c.Header("X-Request-Id", reqID)

		l := base.With(
			"req_id", reqID,
			"method", c.Request.Method,
			"path", c.FullPath(), // may be empty if no route matched
			"remote", c.ClientIP(),
		)
		logging.With(c, l)

		// capture request body (JSON only)
		var reqBodyLogged string
		if strings.Contains(c.GetHeader("Content-Type"), "application/json") && c.Request.Body != nil {
			peeked, body, truncated := peekBody(c.Request.Body, reqBodyLimit)
			c.Request.Body = body
			// string concat, not append: peeked shares the replay buffer.
			reqBodyLogged = string(redactJSON(peeked))
			if truncated {
				reqBodyLogged += "...truncated..."
			}
		}

		blw := &bodyLogWriter{ResponseWriter: c.Writer, buf: &bytes.Buffer{}}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"status", status,
			"dur_ms", time.Since(start).Milliseconds(),
			"resp_bytes", c.Writer.Size(),
		}
		if reqBodyLogged != "" {
			attrs = append(attrs, "req_body", reqBodyLogged)
		}
		if strings.Contains(c.Writer.Header().Get("Content-Type"), "application/json") {
			respBody := string(redactJSON(blw.buf.Bytes()))
			if blw.buf.Len() >= respBodyLimit {
				respBody += "...truncated..."
			}
			attrs = append(attrs, "resp_body", respBody)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}

		if status >= http.StatusBadRequest {
			l.Error("http_request", attrs...)
			return
		}
		l.Info("http_request", attrs...)
	}
}
