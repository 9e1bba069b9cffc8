package idem

import (
	"bytes"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Header is the standard HTTP header carrying the client-chosen key.
const Header = "Idempotency-Key"

// bodyWriter tees the response body so a completed exchange can be recorded.
type bodyWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Middleware replays the recorded response for a repeated Idempotency-Key
// and holds a short lock so concurrent duplicates cannot both execute.
// Requests without the header pass straight through, as does everything when
// store is nil (Redis not configured). Only 2xx responses are recorded:
// a failed attempt may be retried for real.
func Middleware(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil {
			c.Next()
			return
		}
		key := c.GetHeader(Header)
		if key == "" {
			c.Next()
			return
		}
		ctx := c.Request.Context()

		if resp, err := store.Get(ctx, key); err != nil {
			log.Printf("idempotency: lookup failed: %v", err)
		} else if resp != nil {
			c.Header("X-Idempotency-Replay", "true")
			c.Data(resp.Status, "application/json; charset=utf-8", resp.Body)
			c.Abort()
			return
		}

		acquired, err := store.Lock(ctx, key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "idempotency check failed"})
			return
		}
		if !acquired {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "a request with this idempotency key is in flight"})
			return
		}
		defer func() {
			if err := store.Unlock(ctx, key); err != nil {
				log.Printf("idempotency: unlock failed: %v", err)
			}
		}()

		w := &bodyWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		status := w.Status()
		if status >= 200 && status < 300 {
			if err := store.Set(ctx, key, status, w.body.Bytes()); err != nil {
				log.Printf("idempotency: record failed: %v", err)
			}
		}
	}
}
