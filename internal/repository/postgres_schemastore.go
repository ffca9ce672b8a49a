package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"mediaportal/backend/pkg/models"
)

// PostgresSchemaStore is a PostgreSQL implementation of the SchemaStore interface.
type PostgresSchemaStore struct {
	db *pgxpool.Pool
}

// NewPostgresSchemaStore creates a new PostgresSchemaStore.
func NewPostgresSchemaStore(db *pgxpool.Pool) *PostgresSchemaStore {
	return &PostgresSchemaStore{db: db}
}

// GetAssetFields returns the fields declared by the schema of the asset's
// category, in declaration order.
func (s *PostgresSchemaStore) GetAssetFields(ctx context.Context, tenantID, assetID string) ([]models.Field, error) {
	rows, err := s.db.Query(ctx, `SELECT f.key, f.label, f.type, f.options, f.read_only, f.populate, f.group_name
		FROM fields f
		JOIN assets a ON a.category_id = f.category_id AND a.tenant_id = f.tenant_id
		WHERE f.tenant_id = $1 AND a.id = $2
		ORDER BY f.position`, tenantID, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fields []models.Field
	for rows.Next() {
		var f models.Field
		if err := rows.Scan(&f.Key, &f.Label, &f.Type, &f.Options, &f.ReadOnly, &f.Populate, &f.Group); err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

// GetMetadataSchema returns the grouped schema for a category.
func (s *PostgresSchemaStore) GetMetadataSchema(ctx context.Context, tenantID, categoryID string) (*models.Schema, error) {
	rows, err := s.db.Query(ctx, `SELECT key, label, type, options, read_only, populate, group_name
		FROM fields
		WHERE tenant_id = $1 AND category_id = $2
		ORDER BY group_name, position`, tenantID, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schema := &models.Schema{CategoryID: categoryID}
	for rows.Next() {
		var f models.Field
		if err := rows.Scan(&f.Key, &f.Label, &f.Type, &f.Options, &f.ReadOnly, &f.Populate, &f.Group); err != nil {
			return nil, err
		}
		if n := len(schema.Groups); n == 0 || schema.Groups[n-1].Name != f.Group {
			schema.Groups = append(schema.Groups, models.SchemaGroup{Name: f.Group})
		}
		g := &schema.Groups[len(schema.Groups)-1]
		g.Fields = append(g.Fields, f)
	}
	return schema, rows.Err()
}
