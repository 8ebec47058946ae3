package handler

import (
	"github.com/gin-gonic/gin"

	"genweb/internal/config"
	"genweb/internal/transport/http/response"
)

// SettingsHandler exposes the client-facing configuration: selectable
// models, upload limits and the default theme. API keys never leave the
// server.
type SettingsHandler struct {
	cfg *config.Config
}

type modelEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

func NewSettingsHandler(cfg *config.Config) *SettingsHandler {
	return &SettingsHandler{cfg: cfg}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	models := make([]modelEntry, 0, len(h.cfg.LLM.Models))
	for _, m := range h.cfg.LLM.Models {
		models = append(models, modelEntry{ID: m.ID, Name: m.Name, Provider: m.Provider})
	}

	response.OK(c, gin.H{
		"models":               models,
		"default_model":        h.cfg.LLM.DefaultModel,
		"default_theme":        h.cfg.App.DefaultTheme,
		"max_image_size_bytes": h.cfg.Assets.MaxImageSizeBytes,
		"max_asset_size_bytes": h.cfg.Assets.MaxAssetSizeBytes,
		"allowed_extensions":   h.cfg.Assets.AllowedExtensions,
	})
}
