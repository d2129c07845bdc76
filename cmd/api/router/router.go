package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"peleman-chatbot/cmd/api/auth"
	"peleman-chatbot/cmd/api/handlers"
	"peleman-chatbot/cmd/api/middleware"
	"peleman-chatbot/cmd/api/services"
	"peleman-chatbot/config"
	_ "peleman-chatbot/docs"
	"peleman-chatbot/synchronizer"
)

type Deps struct {
	Server   config.ServerConfig
	Chat     *services.ChatService
	Registry *synchronizer.Registry
	Verifier *auth.HostTokenVerifier
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestTrace(), middleware.CORS(d.Server.AllowedOrigins))

	r.GET("/health", handlers.HealthHandler(d.Registry.Len))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(
		middleware.SessionCookie(middleware.CookieOptions{Name: d.Server.CookieName, Secure: d.Server.CookieSecure}),
		middleware.Viewer(d.Verifier),
	)
	{
		api.POST("/chat/mount", handlers.MountHandler(d.Chat))
		api.POST("/chat/unmount", handlers.UnmountHandler(d.Chat))
		api.POST("/chat/unload", handlers.UnloadHandler(d.Chat))
		api.GET("/chat/session", handlers.GetSessionHandler(d.Chat))
		api.GET("/chat/events", handlers.EventsHandler(d.Chat))
		api.POST("/chat/messages", handlers.SendMessageHandler(d.Chat))
		api.POST("/chat/open", handlers.SetOpenHandler(d.Chat))
		api.POST("/chat/clear", handlers.ClearHandler(d.Chat))
		api.POST("/chat/categories/:id/click", handlers.CategoryClickHandler(d.Chat))
		api.POST("/chat/products/:id/click", handlers.ProductClickHandler(d.Chat))
		api.GET("/catalog", handlers.CatalogStatusHandler(d.Chat))
	}

	return r
}
