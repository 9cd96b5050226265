package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"proforma/config"
)

func SetupRoutes(router *gin.Engine, cfg *config.Config, logger *logrus.Logger) {
	handler := NewHandler(cfg, logger)

	router.Use(RequestID(), RequestLogger(handler.logger), CORS(cfg.Server.AllowedOrigins))

	api := router.Group("/api")
	{
		api.GET("/health", handler.Health)

		pf := api.Group("/proforma")
		pf.GET("", handler.GetFromQuery)
		pf.GET("/fields", handler.GetFields)
		pf.GET("/blank", handler.GetBlank)
		pf.GET("/example", handler.GetExample)
		pf.POST("/calculate", handler.Calculate)
		pf.POST("/validate", handler.Validate)
		pf.POST("/batch", handler.CalculateBatch)
		pf.POST("/autofill", handler.Autofill)
		pf.POST("/share", handler.Share)
		pf.GET("/report", handler.GetReport)
		pf.GET("/export", handler.GetWorkbook)
	}
}
