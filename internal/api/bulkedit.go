// Package api contains the HTTP handlers for the media portal service
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"mediaportal/backend/internal/bulkedit"
	"mediaportal/backend/internal/repository"
)

// Server holds the dependencies for the API server.
type Server struct {
	Workflows   *bulkedit.Manager
	Collections repository.CollectionStore
}

// NewServer creates a new Server.
func NewServer(workflows *bulkedit.Manager, collections repository.CollectionStore) *Server {
	return &Server{Workflows: workflows, Collections: collections}
}

// RegisterRoutes mounts the bulk edit endpoints on the group.
func (s *Server) RegisterRoutes(g *echo.Group) {
	g.GET("/collections", s.ListCollections)
	g.POST("/bulk/workflows", s.StartWorkflow)
	g.GET("/bulk/workflows/:id", s.GetWorkflow)
	g.POST("/bulk/workflows/:id/operation", s.SelectOperation)
	g.GET("/bulk/workflows/:id/fields", s.ListFields)
	g.POST("/bulk/workflows/:id/field", s.SelectField)
	g.POST("/bulk/workflows/:id/value", s.EnterValue)
	g.POST("/bulk/workflows/:id/back", s.Back)
	g.POST("/bulk/workflows/:id/preview", s.Preview)
	g.POST("/bulk/workflows/:id/execute", s.Execute)
}

type startWorkflowRequest struct {
	TargetAssetIDs []string `json:"target_asset_ids"`
}

type workflowResponse struct {
	WorkflowID string         `json:"workflow_id"`
	Stage      bulkedit.Stage `json:"stage"`
	Targets    []string       `json:"targets"`
}

type selectOperationRequest struct {
	Operation string `json:"operation"`
}

type selectFieldRequest struct {
	Key string `json:"key"`
}

type enterValueRequest struct {
	Value bulkedit.MutationValue `json:"value"`
}

type previewResponse struct {
	Preview *bulkedit.PreviewResult `json:"preview"`
	Token   string                  `json:"token"`
}

// ListCollections returns the tenant's collections for the membership picker
// (GET /api/v1/collections)
func (s *Server) ListCollections(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}
	collections, err := s.Collections.ListCollections(ctx, tenantID)
	if err != nil {
		return problem(c, http.StatusInternalServerError, "Failed to list collections", err)
	}
	return c.JSON(http.StatusOK, collections)
}

// StartWorkflow creates a bulk mutation workflow over a target asset set
// (POST /api/v1/bulk/workflows)
func (s *Server) StartWorkflow(c echo.Context) error {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return err
	}

	var req startWorkflowRequest
	if err := c.Bind(&req); err != nil {
		return problem(c, http.StatusBadRequest, "Invalid request body", err)
	}

	w, err := s.Workflows.Start(tenantID, req.TargetAssetIDs)
	if err != nil {
		return workflowProblem(c, err)
	}
	return c.JSON(http.StatusCreated, workflowResponse{WorkflowID: w.ID(), Stage: w.Stage(), Targets: w.Targets()})
}

// GetWorkflow reports the current stage of a workflow
// (GET /api/v1/bulk/workflows/:id)
func (s *Server) GetWorkflow(c echo.Context) error {
	w, err := s.workflow(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, workflowResponse{WorkflowID: w.ID(), Stage: w.Stage(), Targets: w.Targets()})
}

// SelectOperation records the operation choice
// (POST /api/v1/bulk/workflows/:id/operation)
func (s *Server) SelectOperation(c echo.Context) error {
	w, err := s.workflow(c)
	if err != nil {
		return err
	}
	var req selectOperationRequest
	if err := c.Bind(&req); err != nil {
		return problem(c, http.StatusBadRequest, "Invalid request body", err)
	}
	if err := w.SelectOperation(bulkedit.OperationType(req.Operation)); err != nil {
		return workflowProblem(c, err)
	}
	return c.JSON(http.StatusOK, workflowResponse{WorkflowID: w.ID(), Stage: w.Stage(), Targets: w.Targets()})
}

// ListFields returns the selectable fields for the workflow
// (GET /api/v1/bulk/workflows/:id/fields)
func (s *Server) ListFields(c echo.Context) error {
	w, err := s.workflow(c)
	if err != nil {
		return err
	}
	resolved, err := w.FieldOptions(c.Request().Context())
	if err != nil {
		return workflowProblem(c, err)
	}
	return c.JSON(http.StatusOK, resolved)
}

// SelectField records the field choice and returns the selector with the
// reference asset's current value for pre-population
// (POST /api/v1/bulk/workflows/:id/field)
func (s *Server) SelectField(c echo.Context) error {
	w, err := s.workflow(c)
	if err != nil {
		return err
	}
	var req selectFieldRequest
	if err := c.Bind(&req); err != nil {
		return problem(c, http.StatusBadRequest, "Invalid request body", err)
	}
	sel, err := w.SelectField(c.Request().Context(), req.Key)
	if err != nil {
		return workflowProblem(c, err)
	}
	return c.JSON(http.StatusOK, sel)
}

// EnterValue validates the entered value and advances to preview
// (POST /api/v1/bulk/workflows/:id/value)
func (s *Server) EnterValue(c echo.Context) error {
	w, err := s.workflow(c)
	if err != nil {
		return err
	}
	var req enterValueRequest
	if err := c.Bind(&req); err != nil {
		return problem(c, http.StatusBadRequest, "Invalid request body", err)
	}
	if err := w.EnterValue(req.Value); err != nil {
		return workflowProblem(c, err)
	}
	return c.JSON(http.StatusOK, workflowResponse{WorkflowID: w.ID(), Stage: w.Stage(), Targets: w.Targets()})
}

// Back moves the workflow to the previous stage
// (POST /api/v1/bulk/workflows/:id/back)
func (s *Server) Back(c echo.Context) error {
	w, err := s.workflow(c)
	if err != nil {
		return err
	}
	if err := w.Back(); err != nil {
		return workflowProblem(c, err)
	}
	return c.JSON(http.StatusOK, workflowResponse{WorkflowID: w.ID(), Stage: w.Stage(), Targets: w.Targets()})
}

// Preview computes the change preview and mints the execution token
// (POST /api/v1/bulk/workflows/:id/preview)
func (s *Server) Preview(c echo.Context) error {
	w, err := s.workflow(c)
	if err != nil {
		return err
	}
	preview, token, err := w.Preview(c.Request().Context())
	if err != nil {
		return workflowProblem(c, err)
	}
	return c.JSON(http.StatusOK, previewResponse{Preview: preview, Token: token})
}

// Execute confirms the previewed mutation and returns per-asset outcomes
// (POST /api/v1/bulk/workflows/:id/execute)
func (s *Server) Execute(c echo.Context) error {
	w, err := s.workflow(c)
	if err != nil {
		return err
	}
	result, err := w.Confirm(c.Request().Context())
	if err != nil {
		return workflowProblem(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) workflow(c echo.Context) (*bulkedit.Workflow, error) {
	tenantID, err := tenantFromContext(c)
	if err != nil {
		return nil, err
	}
	w, err := s.Workflows.Get(tenantID, c.Param("id"))
	if err != nil {
		return nil, problem(c, http.StatusNotFound, "Unknown workflow", err)
	}
	return w, nil
}

func tenantFromContext(c echo.Context) (string, error) {
	tenantID, ok := c.Request().Context().Value("tenant_id").(string)
	if !ok || tenantID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Tenant ID not found in context")
	}
	return tenantID, nil
}

// workflowProblem maps workflow errors to RFC 7807 responses: validation and
// token errors are the caller's to fix, transition and fail-closed refusals
// are conflicts.
func workflowProblem(c echo.Context, err error) error {
	switch {
	case errors.Is(err, bulkedit.ErrValidation):
		return problem(c, http.StatusBadRequest, "Validation failed", err)
	case errors.Is(err, bulkedit.ErrTokenInvalid), errors.Is(err, bulkedit.ErrTokenExpired):
		return problem(c, http.StatusBadRequest, "Invalid preview token", err)
	case errors.Is(err, bulkedit.ErrStateTransition), errors.Is(err, bulkedit.ErrPreviewBlocked):
		return problem(c, http.StatusConflict, "Workflow conflict", err)
	}
	return problem(c, http.StatusInternalServerError, "Internal error", err)
}

// problem writes an RFC 7807 Problem Details response.
func problem(c echo.Context, status int, title string, err error) error {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/problem+json")
	return c.JSON(status, ProblemDetails{
		Type:   "about:blank",
		Title:  title,
		Status: status,
		Detail: detail,
	})
}
