package services

import (
	"context"

	"mediaportal/backend/internal/bulkedit"
)

// BulkService drives the bulk mutation workflow for non-interactive callers
// (CLI, MCP tools): it walks the stages in one call and hands back the
// preview plus the token the caller must present to execute.
type BulkService struct {
	engine *bulkedit.Engine
}

// NewBulkService creates a new BulkService.
func NewBulkService(engine *bulkedit.Engine) *BulkService {
	return &BulkService{engine: engine}
}

// Fields resolves the bulk-editable fields for a reference asset.
func (s *BulkService) Fields(ctx context.Context, tenantID, refAssetID string) bulkedit.ResolvedFields {
	return s.engine.Resolver().Resolve(ctx, tenantID, refAssetID)
}

// Preview runs operation, field and value selection in one pass and returns
// the computed preview with its minted token.
func (s *BulkService) Preview(ctx context.Context, tenantID, operation, fieldKey string, value bulkedit.MutationValue, targetIDs []string) (*bulkedit.PreviewResult, string, error) {
	op, err := bulkedit.ParseOperation(operation)
	if err != nil {
		return nil, "", err
	}

	w, err := s.engine.Start(tenantID, targetIDs)
	if err != nil {
		return nil, "", err
	}
	if err := w.SelectOperation(op); err != nil {
		return nil, "", err
	}
	if _, err := w.SelectField(ctx, fieldKey); err != nil {
		return nil, "", err
	}
	if err := w.EnterValue(value); err != nil {
		return nil, "", err
	}
	return w.Preview(ctx)
}

// Execute applies a previously minted preview token.
func (s *BulkService) Execute(ctx context.Context, tenantID, token string) (bulkedit.ExecutionResult, error) {
	return s.engine.Execute(ctx, tenantID, token)
}
