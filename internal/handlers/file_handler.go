package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"edulearn_backend/internal/logger"
	"edulearn_backend/internal/repositories"
	"edulearn_backend/internal/storage"
	"edulearn_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

var errFileNotFound = apperrors.NewNotFoundError("Fichier non trouvé")

// FileHandler раздает загруженные файлы поддержек
type FileHandler struct {
	*BaseHandler
	storage    storage.Storage
	courseRepo repositories.CourseRepository
}

func NewFileHandler(base *BaseHandler, storage storage.Storage, courseRepo repositories.CourseRepository) *FileHandler {
	return &FileHandler{
		BaseHandler: base,
		storage:     storage,
		courseRepo:  courseRepo,
	}
}

// ServeFile отдает файл, только если он числится в поддержках курса
func (h *FileHandler) ServeFile(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")

	support, err := h.courseRepo.FindSupportByStoragePath(h.GetDB(c), path)
	if err != nil {
		if errors.Is(err, repositories.ErrSupportNotFound) {
			apperrors.HandleError(c, errFileNotFound)
			return
		}
		h.HandleServiceError(c, err)
		return
	}

	ctx := c.Request.Context()
	exists, err := h.storage.Exists(ctx, support.StoragePath)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if !exists {
		logger.CtxWarn(ctx, "support file missing in storage", "path", support.StoragePath)
		apperrors.HandleError(c, errFileNotFound)
		return
	}

	reader, err := h.storage.Open(ctx, support.StoragePath)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Type", support.FileType)
	c.Header("Content-Length", strconv.FormatInt(support.FileSize, 10))
	c.Header("Cache-Control", "public, max-age=86400")
	c.Header("ETag", fmt.Sprintf(`"support-%d"`, support.ID))

	disposition := "inline"
	if c.Query("download") == "true" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": support.FileName}))

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		// заголовки уже отправлены
		_ = c.Error(err)
	}
}
