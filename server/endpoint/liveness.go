package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/dagdeps/version"
)

var startedAt = time.Now()

// Liveness answers 200 while the process serves HTTP. It never consults the
// graph cache: a broken definition source must not get the process restarted.
func Liveness(serviceName string) gin.HandlerFunc {
	v := version.Get().Version
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":         "alive",
			"service":        serviceName,
			"version":        v,
			"uptime_seconds": int64(time.Since(startedAt).Seconds()),
		})
	}
}
