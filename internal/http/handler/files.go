package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ondrasimku/edrive-go/internal/domain"
	"github.com/ondrasimku/edrive-go/internal/registry"
	"github.com/ondrasimku/edrive-go/internal/service"
	"github.com/ondrasimku/edrive-go/internal/storage"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type UploadResponse struct {
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	AccessCode string    `json:"accessCode"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

type FindResponse struct {
	Success bool             `json:"success"`
	File    *domain.Artifact `json:"file"`
}

type FilesHandler struct {
	svc     *service.Service
	maxSize int64
	logger  *slog.Logger
}

func NewFilesHandler(svc *service.Service, maxSize int64, logger *slog.Logger) *FilesHandler {
	return &FilesHandler{
		svc:     svc,
		maxSize: maxSize,
		logger:  logger,
	}
}

func (h *FilesHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		h.logger.Warn("Failed to get file from form", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "No file uploaded",
		})
		return
	}

	if file.Size > h.maxSize {
		h.logger.Warn("File too large", "size", file.Size, "max", h.maxSize)
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Error: "File too large",
		})
		return
	}

	src, err := file.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to process file",
		})
		return
	}
	defer src.Close()

	artifact, err := h.svc.CreateSingle(c.Request.Context(), service.UploadEntry{
		Reader:      src,
		DisplayName: file.Filename,
		MimeType:    file.Header.Get("Content-Type"),
		Size:        file.Size,
	}, c.PostForm("duration"), c.PostForm("customCode"))
	if err != nil {
		h.uploadError(c, err)
		return
	}

	h.logger.Info("File uploaded", "accessCode", artifact.AccessCode, "size", artifact.TotalSize)
	c.JSON(http.StatusOK, UploadResponse{
		Success:    true,
		Message:    "File uploaded successfully!",
		AccessCode: artifact.AccessCode,
		ExpiresAt:  artifact.ExpiresAt,
	})
}

func (h *FilesHandler) UploadFolder(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.logger.Warn("Failed to parse multipart form", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "No files uploaded",
		})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "No files uploaded",
		})
		return
	}

	var uploads []service.UploadEntry
	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, file := range files {
		if file.Size > h.maxSize {
			h.logger.Warn("File too large", "name", file.Filename, "size", file.Size, "max", h.maxSize)
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
				Error:   "File too large",
				Details: file.Filename,
			})
			return
		}
		src, err := file.Open()
		if err != nil {
			h.logger.Error("Failed to open uploaded file", "name", file.Filename, "error", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: "Failed to process files",
			})
			return
		}
		opened = append(opened, src)
		uploads = append(uploads, service.UploadEntry{
			Reader:      src,
			DisplayName: file.Filename,
			MimeType:    file.Header.Get("Content-Type"),
			Size:        file.Size,
		})
	}

	artifact, err := h.svc.CreateBatch(c.Request.Context(), uploads,
		c.PostForm("duration"), c.PostForm("customCode"))
	if err != nil {
		h.uploadError(c, err)
		return
	}

	h.logger.Info("Folder uploaded", "accessCode", artifact.AccessCode,
		"files", len(artifact.Entries), "size", artifact.TotalSize)
	c.JSON(http.StatusOK, UploadResponse{
		Success:    true,
		Message:    fmt.Sprintf("Folder with %d files uploaded successfully!", len(artifact.Entries)),
		AccessCode: artifact.AccessCode,
		ExpiresAt:  artifact.ExpiresAt,
	})
}

func (h *FilesHandler) Find(c *gin.Context) {
	artifact, err := h.svc.Lookup(c.Request.Context(), c.Param("accessCode"))
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "Invalid or expired access code",
		})
		return
	}
	if err != nil {
		h.logger.Error("Lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, FindResponse{
		Success: true,
		File:    artifact,
	})
}

func (h *FilesHandler) Download(c *gin.Context) {
	fileID := c.Param("fileId")
	selector := c.Param("filename")

	rc, entry, err := h.svc.Fetch(c.Request.Context(), fileID, selector)
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "File not found or expired",
		})
		return
	case errors.Is(err, service.ErrSelectorRequired):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Cannot download folder directly",
		})
		return
	case err != nil:
		// ErrBlobMissing and registry outages alike stay opaque to the
		// client.
		h.logger.Error("Download failed", "fileId", fileID, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Internal server error",
		})
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", entry.DisplayName))
	c.DataFromReader(http.StatusOK, entry.Size, entry.MimeType, rc, nil)
}

func (h *FilesHandler) uploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, registry.ErrDuplicateCode):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Access code already in use",
		})
	case errors.Is(err, storage.ErrPayloadTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Error: "File too large",
		})
	default:
		h.logger.Error("Upload failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Internal server error",
		})
	}
}
