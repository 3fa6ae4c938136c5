package server

import (
	"log/slog"

	"github.com/gatherhub/event-manager/internal/middleware"
	"github.com/gatherhub/event-manager/pkg/event"
	"github.com/gatherhub/event-manager/pkg/health"
	"github.com/gatherhub/event-manager/pkg/notification"
	"github.com/gatherhub/event-manager/pkg/upload"
	"github.com/gatherhub/event-manager/pkg/user"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type Handlers struct {
	User         user.Handler
	Event        event.Handler
	Notification notification.Handler
	Upload       upload.Handler
}

func GetEngine(logger *slog.Logger, basePath string, handlers Handlers, authenticationMiddleware middleware.AuthenticationMiddleware, rateLimiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowCredentials = true
	corsConfig.AddAllowHeaders("authorization")
	r.Use(cors.New(corsConfig))

	r.Use(otelgin.Middleware("event-manager"))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.ErrorHandler())

	router := r.Group(basePath)

	router.GET("/health", health.Health)

	user.Routes(router, authenticationMiddleware, rateLimiter, handlers.User)
	event.Routes(router, authenticationMiddleware, handlers.Event)
	notification.Routes(router, handlers.Notification)
	upload.Routes(router, authenticationMiddleware, handlers.Upload)

	return r
}
