package handler

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"researchhub/internal/app"
	"researchhub/internal/transport/http/response"
)

const maxPDFSize = 20 << 20 // 20 MB

type PaperHandler struct {
	paperService *app.PaperService
}

type ImportPaperRequest struct {
	Title       string `json:"title" binding:"required,max=512"`
	Authors     string `json:"authors" binding:"max=1024"`
	Abstract    string `json:"abstract"`
	Date        string `json:"date" binding:"max=16"`
	URL         string `json:"url" binding:"max=512"`
	WorkspaceID uint   `json:"workspace_id" binding:"required"`
}

func NewPaperHandler(paperService *app.PaperService) *PaperHandler {
	return &PaperHandler{paperService: paperService}
}

func (h *PaperHandler) Search(c *gin.Context) {
	if _, ok := getUserIDFromContext(c); !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing query parameter")
		return
	}

	papers, err := h.paperService.Search(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		} else {
			response.Error(c, http.StatusBadGateway, response.CodeServiceFailure, "paper search failed")
		}
		return
	}
	response.OK(c, papers)
}

func (h *PaperHandler) Import(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req ImportPaperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	paper, err := h.paperService.Import(c.Request.Context(), app.ImportInput{
		UserID:      userID,
		WorkspaceID: req.WorkspaceID,
		Title:       req.Title,
		Authors:     req.Authors,
		Abstract:    req.Abstract,
		Date:        req.Date,
		URL:         req.URL,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrWorkspaceNotFound):
			response.Error(c, http.StatusNotFound, response.CodeWorkspaceNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "import paper failed")
		}
		return
	}
	response.OK(c, paper)
}

// Upload accepts a multipart form with "file" (PDF) and "workspace_id".
func (h *PaperHandler) Upload(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file")
		return
	}
	if file.Size > maxPDFSize {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file too large (max 20MB)")
		return
	}
	if strings.ToLower(filepath.Ext(file.Filename)) != ".pdf" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "only PDF files are allowed")
		return
	}

	workspaceID := parseUintForm(c, "workspace_id")
	if workspaceID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid workspace id")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}

	paper, err := h.paperService.Upload(c.Request.Context(), app.UploadInput{
		UserID:      userID,
		WorkspaceID: workspaceID,
		Filename:    file.Filename,
		Data:        data,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrWorkspaceNotFound):
			response.Error(c, http.StatusNotFound, response.CodeWorkspaceNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "upload paper failed")
		}
		return
	}
	response.OK(c, paper)
}

func (h *PaperHandler) ListByWorkspace(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	workspaceID, err := parseUintParam(c, "id")
	if err != nil || workspaceID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid workspace id")
		return
	}

	papers, err := h.paperService.ListByWorkspace(userID, workspaceID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrWorkspaceNotFound):
			response.Error(c, http.StatusNotFound, response.CodeWorkspaceNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list papers failed")
		}
		return
	}
	response.OK(c, papers)
}

func (h *PaperHandler) Delete(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	paperID, err := parseUintParam(c, "id")
	if err != nil || paperID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid paper id")
		return
	}

	if err := h.paperService.Delete(userID, paperID); err != nil {
		switch {
		case errors.Is(err, app.ErrPaperNotFound):
			response.Error(c, http.StatusNotFound, response.CodePaperNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete paper failed")
		}
		return
	}
	response.OK(c, gin.H{"deleted_paper_id": paperID})
}

func parseUintForm(c *gin.Context, key string) uint {
	s := c.PostForm(key)
	if s == "" {
		return 0
	}
	u, _ := strconv.ParseUint(s, 10, 64)
	return uint(u)
}
