package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invoicedash/backend/internal/infrastructure/cache"
	"github.com/invoicedash/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ViewCacheHeader reports HIT or MISS on cached routes
const ViewCacheHeader = "X-View-Cache"

type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// ViewCache serves GET responses from views, keyed by path and query.
// Only 200 JSON responses are stored, and only when the path was not
// invalidated while the response was being built. Cache failures are logged
// and the request is served as if the cache were empty.
func ViewCache(views cache.ViewCache, ttl time.Duration, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := cache.ViewKey(c.Request.URL.Path, c.Request.URL.RawQuery)

		cached, ok, err := views.Get(ctx, key)
		if err != nil {
			logger.WithLogger(ctx, log).Warn("View cache read failed", zap.String("key", key), zap.Error(err))
		}
		if ok {
			c.Header(ViewCacheHeader, "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			c.Abort()
			return
		}

		// Read before the handler runs so a concurrent invalidation is detected
		gen, err := views.Generation(ctx, cache.PathOf(key))
		if err != nil {
			logger.WithLogger(ctx, log).Warn("View cache read failed", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = recorder
		c.Header(ViewCacheHeader, "MISS")

		c.Next()

		if c.Writer.Status() != http.StatusOK || recorder.body.Len() == 0 {
			return
		}
		stored, err := views.SetIfGeneration(ctx, key, gen, recorder.body.Bytes(), ttl)
		if err != nil {
			logger.WithLogger(ctx, log).Warn("View cache write failed", zap.String("key", key), zap.Error(err))
			return
		}
		if !stored {
			logger.WithLogger(ctx, log).Debug("View invalidated while rendering, not cached", zap.String("key", key))
		}
	}
}
