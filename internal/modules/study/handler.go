package study

import (
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appcfg "github.com/studyhelper/core/internal/config"
	"github.com/studyhelper/core/internal/pkg/response"
)

// Handler exposes the study pipeline over HTTP.
type Handler struct {
	svc          *Service
	logger       *zap.Logger
	maxUpload    int64
	allowedTypes map[string]struct{}
}

func NewHandler(svc *Service, cfg *appcfg.AppConfig, logger *zap.Logger) *Handler {
	allowed := make(map[string]struct{}, len(cfg.Upload.AllowedTypes))
	for _, t := range cfg.Upload.AllowedTypes {
		allowed[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	return &Handler{
		svc:          svc,
		logger:       logger,
		maxUpload:    cfg.MaxUploadBytes(),
		allowedTypes: allowed,
	}
}

// RegisterRoutes mounts the study endpoints. Paths carry a trailing slash;
// gin's trailing-slash redirect covers the bare form.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/process-image/", h.processImage)
	rg.POST("/generate-explanations/", h.generateExplanations)
	rg.POST("/generate-quiz/", h.generateQuiz)
	rg.POST("/generate-notes/", h.generateNotes)
}

func (h *Handler) processImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}

	contentType := strings.ToLower(strings.TrimSpace(fileHeader.Header.Get("Content-Type")))
	if !strings.HasPrefix(contentType, "image/") {
		response.BadRequest(c, "file provided is not an image")
		return
	}
	if _, ok := h.allowedTypes[contentType]; !ok {
		response.BadRequest(c, "unsupported image type "+contentType)
		return
	}
	if fileHeader.Size > h.maxUpload {
		response.PayloadTooLarge(c, "image exceeds the maximum upload size")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if int64(len(image)) > h.maxUpload {
		response.PayloadTooLarge(c, "image exceeds the maximum upload size")
		return
	}

	result, err := h.svc.ProcessImage(c.Request.Context(), image, contentType)
	if err != nil {
		var unreadable *UnreadableImageError
		if errors.As(err, &unreadable) {
			response.UnprocessableEntity(c, unreadable.Message)
			return
		}
		h.logger.Error("process image failed", zap.Error(err))
		response.InternalError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *Handler) generateExplanations(c *gin.Context) {
	id, ok := h.bindTextID(c)
	if !ok {
		return
	}

	result, err := h.svc.GenerateExplanations(c.Request.Context(), id)
	if err != nil {
		h.writeGenerationError(c, "generate explanations", err)
		return
	}
	response.OK(c, result)
}

func (h *Handler) generateQuiz(c *gin.Context) {
	id, ok := h.bindTextID(c)
	if !ok {
		return
	}

	result, err := h.svc.GenerateQuiz(c.Request.Context(), id)
	if err != nil {
		h.writeGenerationError(c, "generate quiz", err)
		return
	}
	response.OK(c, result)
}

func (h *Handler) generateNotes(c *gin.Context) {
	id, ok := h.bindTextID(c)
	if !ok {
		return
	}

	result, err := h.svc.GenerateNotes(c.Request.Context(), id)
	if err != nil {
		h.writeGenerationError(c, "generate notes", err)
		return
	}
	response.OK(c, result)
}

func (h *Handler) bindTextID(c *gin.Context) (string, bool) {
	var dto generateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "text_id is required")
		return "", false
	}
	return dto.TextID, true
}

func (h *Handler) writeGenerationError(c *gin.Context, op string, err error) {
	if errors.Is(err, ErrTextNotFound) {
		response.NotFoundMsg(c, ErrTextNotFound.Error())
		return
	}
	h.logger.Error(op+" failed", zap.Error(err))
	response.InternalError(c, err)
}
