package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"genweb/internal/app"
	"genweb/internal/transport/http/response"
)

type ProjectHandler struct {
	workspace *app.Workspace
}

type SaveProjectRequest struct {
	Name string `json:"name" binding:"required,max=128"`
}

func NewProjectHandler(workspace *app.Workspace) *ProjectHandler {
	return &ProjectHandler{workspace: workspace}
}

// Save snapshots the live session into the current project under the given
// name, creating a project when none is current.
func (h *ProjectHandler) Save(c *gin.Context) {
	var req SaveProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	project, err := h.workspace.SaveProject(c.Request.Context(), req.Name)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "save project failed")
		}
		return
	}

	response.OK(c, project)
}

func (h *ProjectHandler) List(c *gin.Context) {
	currentID := ""
	if cur := h.workspace.CurrentProject(); cur != nil {
		currentID = cur.ID
	}
	response.OK(c, gin.H{
		"projects":         h.workspace.ListProjects(),
		"currentProjectId": currentID,
	})
}

func (h *ProjectHandler) Load(c *gin.Context) {
	project, err := h.workspace.LoadProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrProjectNotFound):
			response.Error(c, http.StatusNotFound, response.CodeProjectNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "load project failed")
		}
		return
	}

	response.OK(c, gin.H{
		"project": project,
		"files":   h.workspace.Files(),
	})
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.workspace.DeleteProject(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, app.ErrProjectNotFound):
			response.Error(c, http.StatusNotFound, response.CodeProjectNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete project failed")
		}
		return
	}

	response.OK(c, gin.H{"deleted_project_id": id})
}
