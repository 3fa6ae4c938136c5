package notification

import (
	"github.com/gin-gonic/gin"
)

// Routes are public: watching events requires no authentication.
func Routes(r *gin.RouterGroup, handler Handler) {
	r.GET("/notifications", handler.Stream)
	r.POST("/notifications/:connectionId/subscriptions", handler.Subscribe)
}
