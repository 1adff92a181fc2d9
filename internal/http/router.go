package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/ondrasimku/edrive-go/internal/http/handler"
	"github.com/ondrasimku/edrive-go/internal/service"
)

func NewRouter(svc *service.Service, maxFileSize int64, logger *slog.Logger) *gin.Engine {
	router := gin.Default()

	healthHandler := handler.NewHealthHandler()
	filesHandler := handler.NewFilesHandler(svc, maxFileSize, logger)

	router.GET("/healthz", healthHandler.Health)

	fileRoutes := router.Group("/api/files")
	{
		fileRoutes.POST("/upload", filesHandler.Upload)
		fileRoutes.POST("/upload-folder", filesHandler.UploadFolder)
		fileRoutes.GET("/find/:accessCode", filesHandler.Find)
		fileRoutes.GET("/download/:fileId", filesHandler.Download)
		fileRoutes.GET("/download/:fileId/:filename", filesHandler.Download)
	}

	return router
}
