package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nexushub_back/pkg/middleware"
	"nexushub_back/pkg/service"
)

type Handler struct {
	service *service.Service
	origins []string
}

func NewHandler(service *service.Service, origins []string) *Handler {
	return &Handler{
		service: service,
		origins: origins,
	}
}

func (h *Handler) InitRoute() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", middleware.WalletHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	if len(h.origins) == 0 {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = h.origins
	}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api", middleware.WalletMiddleware())
	{
		notifications := api.Group("/notifications")
		{
			notifications.GET("", h.GetNotifications)
			notifications.DELETE("", h.ClearNotifications)
			notifications.DELETE("/:id", h.RemoveNotification)
		}

		wallet := api.Group("/wallet")
		{
			wallet.GET("/balance", h.GetBalance)
			wallet.POST("/check-balance", h.CheckBalance)
		}

		tx := api.Group("/tx")
		{
			tx.POST("", h.BeginTransaction)
			tx.GET("/history", h.GetHistory)
			tx.GET("/:id", h.GetTransaction)
			tx.POST("/:id/close", h.CloseTransaction)
			tx.POST("/:id/retry", h.RetryTransaction)
		}
	}
	return router
}
