package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"genweb/internal/asset"
	"genweb/internal/transport/http/response"
)

type AssetHandler struct {
	store *asset.Store
}

func NewAssetHandler(store *asset.Store) *AssetHandler {
	return &AssetHandler{store: store}
}

// Upload accepts one multipart file under the "asset" field.
func (h *AssetHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("asset")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, asset.ErrNoFile.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "open uploaded file failed")
		return
	}
	defer file.Close()

	uploaded, err := h.store.Upload(
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		switch {
		case errors.Is(err, asset.ErrNoFile):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, asset.ErrTooLarge):
			response.Error(c, http.StatusRequestEntityTooLarge, response.CodeAssetTooLarge, err.Error())
		case errors.Is(err, asset.ErrUnsupportedType):
			response.Error(c, http.StatusUnsupportedMediaType, response.CodeUnsupportedAsset, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "upload asset failed")
		}
		return
	}

	response.OK(c, uploaded)
}

func (h *AssetHandler) List(c *gin.Context) {
	response.OK(c, gin.H{"assets": h.store.All()})
}

func (h *AssetHandler) Clear(c *gin.Context) {
	h.store.Clear()
	response.OK(c, gin.H{"cleared": true})
}
