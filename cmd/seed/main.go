package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"mediaportal/backend/internal/config"
	"mediaportal/backend/internal/logging"
	"mediaportal/backend/internal/repository"
	"mediaportal/backend/pkg/models"
)

// schemaDDL creates the tables the portal needs. Dev convenience; idempotent.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS tenants (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	domain TEXT NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS categories (
	id UUID PRIMARY KEY,
	tenant_id UUID NOT NULL REFERENCES tenants(id),
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS fields (
	tenant_id UUID NOT NULL REFERENCES tenants(id),
	category_id UUID NOT NULL REFERENCES categories(id),
	key TEXT NOT NULL,
	label TEXT NOT NULL,
	type TEXT NOT NULL,
	options TEXT[],
	read_only BOOLEAN NOT NULL DEFAULT false,
	populate TEXT NOT NULL DEFAULT 'manual',
	group_name TEXT NOT NULL DEFAULT '',
	position INT NOT NULL DEFAULT 0,
	PRIMARY KEY (tenant_id, category_id, key)
);
CREATE TABLE IF NOT EXISTS assets (
	id UUID PRIMARY KEY,
	tenant_id UUID NOT NULL REFERENCES tenants(id),
	category_id UUID NOT NULL REFERENCES categories(id),
	name TEXT NOT NULL,
	content_type TEXT NOT NULL DEFAULT '',
	storage_key TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS field_values (
	id UUID PRIMARY KEY,
	tenant_id UUID NOT NULL REFERENCES tenants(id),
	asset_id UUID NOT NULL REFERENCES assets(id),
	field_key TEXT NOT NULL,
	raw TEXT NOT NULL,
	is_current BOOLEAN NOT NULL DEFAULT true,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS field_values_current_idx
	ON field_values (tenant_id, asset_id, field_key) WHERE is_current;
CREATE TABLE IF NOT EXISTS collections (
	id UUID PRIMARY KEY,
	tenant_id UUID NOT NULL REFERENCES tenants(id),
	name TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS collection_assets (
	tenant_id UUID NOT NULL REFERENCES tenants(id),
	collection_id UUID NOT NULL REFERENCES collections(id),
	asset_id UUID NOT NULL REFERENCES assets(id),
	PRIMARY KEY (tenant_id, collection_id, asset_id)
);
`

func main() {
	ctx := context.Background()
	logger := logging.NewLogger()

	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to DB
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode,
	)
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
	logger.Info("Schema ensured")

	tenantStore := repository.NewPostgresTenantStore(pool)

	// 1. Ensure Tenant Exists
	domain := "localhost"
	tenant, err := tenantStore.GetTenantByDomain(ctx, domain)
	if err != nil {
		logger.Info("Creating default tenant", "domain", domain)
		tenant = &models.Tenant{
			Name:   "Local Dev Tenant",
			Domain: domain,
		}
		if err := tenantStore.CreateTenant(ctx, tenant); err != nil {
			log.Fatalf("Failed to create tenant: %v", err)
		}
	} else {
		logger.Info("Found existing tenant", "id", tenant.ID)
	}

	// 2. Category with a field schema, including the collections sentinel in
	// the organization group so the bulk editor offers the collections field
	categoryID := uuid.New().String()
	if _, err := pool.Exec(ctx, "INSERT INTO categories (id, tenant_id, name) VALUES ($1, $2, $3)",
		categoryID, tenant.ID, "Photography"); err != nil {
		log.Fatalf("Failed to create category: %v", err)
	}

	fields := []models.Field{
		{Key: "title", Label: "Title", Type: models.FieldTypeText, Group: "general"},
		{Key: "description", Label: "Description", Type: models.FieldTypeText, Group: "general"},
		{Key: "shoot_date", Label: "Shoot Date", Type: models.FieldTypeDate, Group: "general"},
		{Key: "rating", Label: "Rating", Type: models.FieldTypeRating, Group: "general"},
		{Key: "license", Label: "License", Type: models.FieldTypeSelect, Options: []string{"editorial", "commercial", "internal"}, Group: "rights"},
		{Key: "keywords", Label: "Keywords", Type: models.FieldTypeMultiSelect, Options: []string{"people", "product", "landscape", "studio", "event"}, Group: "general"},
		{Key: "approved", Label: "Approved", Type: models.FieldTypeBoolean, Group: "rights"},
		{Key: "file_size", Label: "File Size", Type: models.FieldTypeNumber, ReadOnly: true, Populate: models.PopulateAutomatic, Group: "system"},
		{Key: "collection", Label: "Collections", Type: models.FieldTypeMultiSelect, Group: "organization"},
	}
	for i, f := range fields {
		populate := f.Populate
		if populate == "" {
			populate = models.PopulateManual
		}
		if _, err := pool.Exec(ctx, `INSERT INTO fields (tenant_id, category_id, key, label, type, options, read_only, populate, group_name, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			tenant.ID, categoryID, f.Key, f.Label, f.Type, f.Options, f.ReadOnly, populate, f.Group, i); err != nil {
			log.Fatalf("Failed to create field %s: %v", f.Key, err)
		}
	}
	logger.Info("Seeded category schema", "category_id", categoryID, "fields", len(fields))

	// 3. Collections
	collectionIDs := map[string]string{}
	for _, name := range []string{"Spring Campaign", "Website Heroes", "Archive"} {
		id := uuid.New().String()
		if _, err := pool.Exec(ctx, "INSERT INTO collections (id, tenant_id, name) VALUES ($1, $2, $3)",
			id, tenant.ID, name); err != nil {
			log.Fatalf("Failed to create collection %s: %v", name, err)
		}
		collectionIDs[name] = id
	}

	// 4. Assets with some current metadata values
	assets := []struct {
		Name     string
		Title    string
		Keywords []string
	}{
		{"IMG_2041.jpg", "Rooftop sunrise", []string{"landscape"}},
		{"IMG_2042.jpg", "Product table, studio", []string{"product", "studio"}},
		{"IMG_2043.jpg", "", nil},
		{"IMG_2044.jpg", "Team offsite", []string{"people", "event"}},
	}
	for _, a := range assets {
		assetID := uuid.New().String()
		if _, err := pool.Exec(ctx, `INSERT INTO assets (id, tenant_id, category_id, name, content_type, storage_key)
			VALUES ($1, $2, $3, $4, 'image/jpeg', $5)`,
			assetID, tenant.ID, categoryID, a.Name, "assets/"+a.Name); err != nil {
			log.Fatalf("Failed to create asset %s: %v", a.Name, err)
		}
		if a.Title != "" {
			raw, _ := json.Marshal(a.Title)
			if _, err := pool.Exec(ctx, `INSERT INTO field_values (id, tenant_id, asset_id, field_key, raw)
				VALUES ($1, $2, $3, 'title', $4)`,
				uuid.New().String(), tenant.ID, assetID, string(raw)); err != nil {
				log.Fatalf("Failed to seed title for %s: %v", a.Name, err)
			}
		}
		if len(a.Keywords) > 0 {
			raw, _ := json.Marshal(a.Keywords)
			if _, err := pool.Exec(ctx, `INSERT INTO field_values (id, tenant_id, asset_id, field_key, raw)
				VALUES ($1, $2, $3, 'keywords', $4)`,
				uuid.New().String(), tenant.ID, assetID, string(raw)); err != nil {
				log.Fatalf("Failed to seed keywords for %s: %v", a.Name, err)
			}
		}
		// first two assets start in the archive collection
		if a.Name == "IMG_2041.jpg" || a.Name == "IMG_2042.jpg" {
			if _, err := pool.Exec(ctx, `INSERT INTO collection_assets (tenant_id, collection_id, asset_id)
				VALUES ($1, $2, $3)`,
				tenant.ID, collectionIDs["Archive"], assetID); err != nil {
				log.Fatalf("Failed to seed membership for %s: %v", a.Name, err)
			}
		}
		logger.Info("Seeded asset", "name", a.Name, "id", assetID)
	}

	logger.Info("Seeding complete!")
}
