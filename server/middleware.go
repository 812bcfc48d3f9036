package server

import (
	"net/http"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/circlehq/circle-api/server/response"
	"github.com/gin-gonic/gin"
)

func limitRateForUploads(store ratelimit.Store) gin.HandlerFunc {
	mw := ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler:   rateLimitExceeded,
		KeyFunc:        keyFunc,
		BeforeResponse: nil,
	})
	return mw
}

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func rateLimitExceeded(c *gin.Context, info ratelimit.Info) {
	response.JSON(c, "too many uploads, slow down", http.StatusTooManyRequests, gin.H{
		"retry_after": info.ResetTime.String(),
	}, nil)
	c.Abort()
}

// respondAndAbort calls response.JSON and aborts the Context
func respondAndAbort(c *gin.Context, message string, status int, data gin.H, err error) {
	response.JSON(c, message, status, data, err)
	c.Abort()
}
