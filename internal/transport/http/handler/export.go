package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"genweb/internal/app"
	"genweb/internal/transport/http/response"
)

type ExportHandler struct {
	workspace *app.Workspace
}

func NewExportHandler(workspace *app.Workspace) *ExportHandler {
	return &ExportHandler{workspace: workspace}
}

// Preview serves the composed preview document for the current file set.
func (h *ExportHandler) Preview(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(h.workspace.PreviewHTML()))
}

// ExportSingle serves the standalone document as a download.
func (h *ExportHandler) ExportSingle(c *gin.Context) {
	filename, html, err := h.workspace.ExportSingle()
	if err != nil {
		switch {
		case errors.Is(err, app.ErrNoFiles):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "export failed")
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// ExportFiles lists the generated files with their contents.
func (h *ExportHandler) ExportFiles(c *gin.Context) {
	response.OK(c, gin.H{"files": h.workspace.Files()})
}

// ExportFile serves one generated file by its canonical name as a download.
func (h *ExportHandler) ExportFile(c *gin.Context) {
	name := c.Param("name")
	content, ok := h.workspace.Files()[name]
	if !ok {
		response.Error(c, http.StatusNotFound, response.CodeBadRequest, "file not found: "+name)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, contentTypeFor(name), []byte(content))
}

func contentTypeFor(name string) string {
	switch {
	case strings.HasSuffix(name, ".html"):
		return "text/html; charset=utf-8"
	case strings.HasSuffix(name, ".css"):
		return "text/css; charset=utf-8"
	case strings.HasSuffix(name, ".js"):
		return "text/javascript; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}
