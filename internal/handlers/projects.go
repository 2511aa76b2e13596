package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"portfolio-backend/internal/images"
	"portfolio-backend/internal/models"
	"portfolio-backend/internal/services"
)

type ProjectService interface {
	Create(ctx context.Context, input models.ProjectInput, image *images.File) (*services.Result, error)
	Update(ctx context.Context, id uuid.UUID, input models.ProjectInput, image services.UpdateImage) (*services.Result, error)
	Delete(ctx context.Context, id uuid.UUID) (*services.Result, error)
	ToggleVisibility(ctx context.Context, id uuid.UUID, currentIsHidden bool) (*services.Result, error)
	ListPublic(ctx context.Context) ([]models.Project, error)
	ListAll(ctx context.Context) ([]models.Project, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Project, error)
	GetPublic(ctx context.Context, slug string) (*models.Project, error)
}

type ProjectsHandler struct {
	service        ProjectService
	maxUploadBytes int64
	logger         zerolog.Logger
}

func NewProjectsHandler(service ProjectService, maxUploadBytes int64, logger zerolog.Logger) *ProjectsHandler {
	return &ProjectsHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// ListPublicProjects godoc
// @Summary     List visible projects
// @Tags        projects
// @Produce     json
// @Success     200 {object} models.ProjectListResponse
// @Router      /projects [get]
func (h *ProjectsHandler) ListPublicProjects(c *gin.Context) {
	projects, err := h.service.ListPublic(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, models.ProjectListResponse{Projects: projects, Total: len(projects)})
}

// GetPublicProject godoc
// @Summary     Get a visible project by slug
// @Tags        projects
// @Produce     json
// @Param       slug path string true "Project slug"
// @Success     200 {object} models.ProjectResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{slug} [get]
func (h *ProjectsHandler) GetPublicProject(c *gin.Context) {
	project, err := h.service.GetPublic(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, models.ProjectResponse{Project: project})
}

// ListProjects godoc
// @Summary     List all projects, hidden included
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.ProjectListResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /admin/projects [get]
func (h *ProjectsHandler) ListProjects(c *gin.Context) {
	projects, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, models.ProjectListResponse{Projects: projects, Total: len(projects)})
}

// GetProject godoc
// @Summary     Get a project by id
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Param       id path string true "Project ID"
// @Success     200 {object} models.ProjectResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /admin/projects/{id} [get]
func (h *ProjectsHandler) GetProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	project, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, models.ProjectResponse{Project: project})
}

// CreateProject godoc
// @Summary     Create a project
// @Description Multipart form. The cover image is optional; a failed upload is reported in warnings.
// @Tags        admin
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       title     formData string true  "Title"
// @Param       summary   formData string false "Summary"
// @Param       content   formData string false "Content"
// @Param       tags      formData string false "Comma-separated tags"
// @Param       is_hidden formData string false "on/true to hide"
// @Param       image     formData file   false "Cover image (JPEG, PNG or WebP, max 5MB)"
// @Success     201 {object} models.ProjectResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     413 {object} models.ErrorResponse
// @Router      /admin/projects [post]
func (h *ProjectsHandler) CreateProject(c *gin.Context) {
	if !h.parseForm(c) {
		return
	}
	image, err := readImage(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid image", Message: err.Error()})
		return
	}

	res, err := h.service.Create(c.Request.Context(), readProjectInput(c), image)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, models.ProjectResponse{Project: res.Project, Warnings: res.Warnings})
}

// UpdateProject godoc
// @Summary     Update a project
// @Tags        admin
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       id                path     string true  "Project ID"
// @Param       title             formData string true  "Title"
// @Param       summary           formData string false "Summary"
// @Param       content           formData string false "Content"
// @Param       tags              formData string false "Comma-separated tags"
// @Param       is_hidden         formData string false "on/true to hide"
// @Param       image             formData file   false "New cover image"
// @Param       remove_image      formData string false "on/true to remove the current cover"
// @Param       current_image_url formData string false "Cover URL the form was rendered with"
// @Success     200 {object} models.ProjectResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /admin/projects/{id} [put]
func (h *ProjectsHandler) UpdateProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if !h.parseForm(c) {
		return
	}
	image, err := readImage(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid image", Message: err.Error()})
		return
	}

	res, err := h.service.Update(c.Request.Context(), id, readProjectInput(c), services.UpdateImage{
		File:       image,
		Remove:     formBool(c.PostForm("remove_image")),
		CurrentURL: c.PostForm("current_image_url"),
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, models.ProjectResponse{Project: res.Project, Warnings: res.Warnings})
}

// DeleteProject godoc
// @Summary     Delete a project and its cover image
// @Tags        admin
// @Produce     json
// @Security    Bearer
// @Param       id path string true "Project ID"
// @Success     200 {object} models.ProjectResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /admin/projects/{id} [delete]
func (h *ProjectsHandler) DeleteProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	res, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, models.ProjectResponse{Project: res.Project, Warnings: res.Warnings})
}

// ToggleVisibility godoc
// @Summary     Show or hide a project
// @Tags        admin
// @Accept      x-www-form-urlencoded
// @Produce     json
// @Security    Bearer
// @Param       id                path     string true "Project ID"
// @Param       current_is_hidden formData bool   true "Visibility the admin list was rendered with"
// @Success     200 {object} models.ProjectResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /admin/projects/{id}/visibility [post]
func (h *ProjectsHandler) ToggleVisibility(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req models.VisibilityRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	res, err := h.service.ToggleVisibility(c.Request.Context(), id, req.CurrentIsHidden)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, models.ProjectResponse{Project: res.Project})
}

// parseForm reads a multipart or urlencoded body of at most maxUploadBytes.
func (h *ProjectsHandler) parseForm(c *gin.Context) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	var err error
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		err = c.Request.ParseMultipartForm(h.maxUploadBytes)
	} else {
		err = c.Request.ParseForm()
	}
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
			Error:   "request too large",
			Message: fmt.Sprintf("request body must be at most %d bytes", h.maxUploadBytes),
		})
		return false
	}
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid form", Message: err.Error()})
	return false
}

func readProjectInput(c *gin.Context) models.ProjectInput {
	return models.ProjectInput{
		Title:    c.PostForm("title"),
		Summary:  c.PostForm("summary"),
		Content:  c.PostForm("content"),
		Tags:     c.PostForm("tags"),
		IsHidden: formBool(c.PostForm("is_hidden")),
	}
}

// readImage returns the uploaded file of field, or nil when none was sent.
// A missing or generic content type is replaced by the sniffed one.
func readImage(c *gin.Context, field string) (*images.File, error) {
	if c.Request.MultipartForm == nil {
		return nil, nil
	}
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(data).String()
	}

	return &images.File{Name: header.Filename, ContentType: contentType, Data: data}, nil
}
