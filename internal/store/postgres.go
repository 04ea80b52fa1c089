// Package store provides the PostgreSQL storage collaborator for the
// import pipeline. Uniqueness rules live here as database constraints;
// the pipeline never checks cross-row uniqueness itself.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stoneyard/backoffice/internal/importer"
	"github.com/stoneyard/backoffice/internal/schema"
)

// Postgres implements importer.Store on a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a store backed by the given pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// ddl creates the import target tables. Bundle/slab numbering and client
// emails carry the uniqueness constraints that surface as per-row import
// failures.
const ddl = `
CREATE TABLE IF NOT EXISTS products (
	id             BIGSERIAL PRIMARY KEY,
	name           TEXT NOT NULL,
	supplier       TEXT NOT NULL,
	category       TEXT NOT NULL,
	grade          TEXT NOT NULL,
	thickness      TEXT NOT NULL,
	finish         TEXT NOT NULL,
	price          NUMERIC NOT NULL,
	bundle_id      TEXT,
	description    TEXT,
	unit           TEXT,
	stock_quantity INTEGER,
	slab_length    NUMERIC,
	slab_width     NUMERIC,
	location       TEXT,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS clients (
	id         BIGSERIAL PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL UNIQUE,
	phone      TEXT,
	company    TEXT,
	address    TEXT,
	city       TEXT,
	state      TEXT,
	zip_code   TEXT,
	notes      TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS slabs (
	id          BIGSERIAL PRIMARY KEY,
	bundle_id   TEXT NOT NULL,
	slab_number INTEGER NOT NULL,
	status      TEXT NOT NULL DEFAULT 'available',
	length      NUMERIC,
	width       NUMERIC,
	location    TEXT,
	notes       TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (bundle_id, slab_number)
);
`

// Migrate creates the target tables if they do not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("migrate import tables: %w", err)
	}
	return nil
}

const (
	insertProduct = `INSERT INTO products
		(name, supplier, category, grade, thickness, finish, price,
		 bundle_id, description, unit, stock_quantity, slab_length, slab_width, location)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`

	insertClient = `INSERT INTO clients
		(name, email, phone, company, address, city, state, zip_code, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

	insertSlab = `INSERT INTO slabs
		(bundle_id, slab_number, status, length, width, location, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`
)

// Insert writes a single record. A constraint violation returns as an
// ordinary error for the pipeline's per-row failure handling.
func (p *Postgres) Insert(ctx context.Context, table schema.TableType, rec importer.Record) error {
	sql, args, err := insertArgs(table, rec)
	if err != nil {
		return err
	}
	if _, err := p.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// BulkInsert writes a batch of records in one transaction using a pgx
// batch. The batch commits or fails as a unit; the pipeline decides
// whether to retry row by row.
func (p *Postgres) BulkInsert(ctx context.Context, table schema.TableType, recs []importer.Record) error {
	if len(recs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rec := range recs {
		sql, args, err := insertArgs(table, rec)
		if err != nil {
			return err
		}
		batch.Queue(sql, args...)
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback(ctx)

	br := tx.SendBatch(ctx, batch)
	for range recs {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("bulk insert %s: %w", table, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// insertArgs resolves the SQL and bind arguments for a record. The
// record's concrete type must match the target table.
func insertArgs(table schema.TableType, rec importer.Record) (string, []any, error) {
	switch table {
	case schema.TableProducts:
		r, ok := rec.(importer.ProductRecord)
		if !ok {
			return "", nil, fmt.Errorf("record type %T does not match table %s", rec, table)
		}
		return insertProduct, []any{
			r.Name, r.Supplier, r.Category, r.Grade, r.Thickness, r.Finish, r.Price,
			r.BundleID, r.Description, r.Unit, r.StockQuantity, r.SlabLength, r.SlabWidth, r.Location,
		}, nil

	case schema.TableClients:
		r, ok := rec.(importer.ClientRecord)
		if !ok {
			return "", nil, fmt.Errorf("record type %T does not match table %s", rec, table)
		}
		return insertClient, []any{
			r.Name, r.Email, r.Phone, r.Company, r.Address, r.City, r.State, r.ZipCode, r.Notes,
		}, nil

	case schema.TableSlabs:
		r, ok := rec.(importer.SlabRecord)
		if !ok {
			return "", nil, fmt.Errorf("record type %T does not match table %s", rec, table)
		}
		status := r.Status
		if !status.Valid {
			status.String = "available"
			status.Valid = true
		}
		return insertSlab, []any{
			r.BundleID, r.SlabNumber, status, r.Length, r.Width, r.Location, r.Notes,
		}, nil
	}
	return "", nil, fmt.Errorf("unknown table type %q", table)
}
