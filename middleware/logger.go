package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger records method, path, caller, status and latency for every request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		log.Printf("%s %s from %s -> %d (%s)",
			c.Request.Method, c.Request.URL.Path, c.ClientIP(), c.Writer.Status(), latency)
	}
}
