package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"genweb/internal/ai"
	"genweb/internal/app"
	"genweb/internal/repository"
	"genweb/internal/transport/http/response"
)

type ChatHandler struct {
	workspace *app.Workspace
	archive   *repository.MessageRepository // nil when MySQL is disabled
}

type SendMessageRequest struct {
	Content string         `json:"content"`
	Model   string         `json:"model"`
	Images  []ImageRequest `json:"images" binding:"max=4,dive"`
}

// ImageRequest carries one inline image, either as a raw base64 body with an
// explicit mime type or as a full data URL.
type ImageRequest struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data" binding:"required"`
}

func NewChatHandler(workspace *app.Workspace, archive *repository.MessageRepository) *ChatHandler {
	return &ChatHandler{workspace: workspace, archive: archive}
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	images := make([]ai.ImageData, 0, len(req.Images))
	for _, img := range req.Images {
		decoded, ok := decodeImage(img)
		if !ok {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid image payload")
			return
		}
		images = append(images, decoded)
	}

	result, err := h.workspace.SendMessage(c.Request.Context(), app.SendInput{
		Content: req.Content,
		Images:  images,
		Model:   req.Model,
	})
	if err != nil {
		var provErr *ai.ProviderError
		switch {
		case errors.Is(err, app.ErrEmptyMessage), errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrImageTooLarge):
			response.Error(c, http.StatusRequestEntityTooLarge, response.CodeAssetTooLarge, err.Error())
		case errors.Is(err, app.ErrGenerationInProgress):
			response.Error(c, http.StatusConflict, response.CodeGenerationInProgress, err.Error())
		case errors.Is(err, ai.ErrUnknownModel), errors.Is(err, ai.ErrUnknownProvider):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.As(err, &provErr):
			response.Error(c, http.StatusBadGateway, response.CodeProviderError, provErr.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "send message failed")
		}
		return
	}

	response.OK(c, result)
}

func (h *ChatHandler) GetHistory(c *gin.Context) {
	response.OK(c, gin.H{"messages": h.workspace.Transcript()})
}

func (h *ChatHandler) NewChat(c *gin.Context) {
	project := h.workspace.NewChat(c.Request.Context())
	response.OK(c, project)
}

// GetArchive serves the durable MySQL copy of the chat log, defaulting to
// the current project.
func (h *ChatHandler) GetArchive(c *gin.Context) {
	if h.archive == nil {
		response.Error(c, http.StatusServiceUnavailable, response.CodeInternalServer, "message archive disabled")
		return
	}

	projectID := c.Query("project_id")
	if projectID == "" {
		if cur := h.workspace.CurrentProject(); cur != nil {
			projectID = cur.ID
		}
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	messages, err := h.archive.ListByProjectID(projectID, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get archive failed")
		return
	}

	response.OK(c, gin.H{"project_id": projectID, "messages": messages})
}

func decodeImage(img ImageRequest) (ai.ImageData, bool) {
	data := img.Data
	mimeType := img.MimeType

	if strings.HasPrefix(data, "data:") {
		rest := strings.TrimPrefix(data, "data:")
		meta, body, ok := strings.Cut(rest, ",")
		if !ok {
			return ai.ImageData{}, false
		}
		mimeType = strings.TrimSuffix(meta, ";base64")
		data = body
	}

	if mimeType == "" || data == "" {
		return ai.ImageData{}, false
	}
	return ai.ImageData{MimeType: mimeType, Data: data}, true
}
