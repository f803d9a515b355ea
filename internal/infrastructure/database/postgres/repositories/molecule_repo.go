// Package repositories implements the persistence layer of the molecule
// registry on PostgreSQL.
package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/pkg/errors"
	"github.com/turtacn/molgraph/pkg/types/common"
)

// MoleculeRecord is the persisted form of a registered molecule.
type MoleculeRecord struct {
	common.BaseEntity
	SMILES          string  `json:"smiles"`
	CanonicalSMILES string  `json:"canonical_smiles"`
	Formula         string  `json:"formula"`
	Weight          float64 `json:"weight"`
	AtomCount       int     `json:"atom_count"`
	BondCount       int     `json:"bond_count"`
	RingCount       int     `json:"ring_count"`
	Fingerprint     []byte  `json:"-"`
}

// MoleculeRepository is the registry contract used by the application layer.
type MoleculeRepository interface {
	Save(ctx context.Context, rec *MoleculeRecord) error
	FindByID(ctx context.Context, id common.ID) (*MoleculeRecord, error)
	FindByCanonical(ctx context.Context, canonical string) (*MoleculeRecord, error)
	List(ctx context.Context, limit, offset int) ([]*MoleculeRecord, error)
}

// MoleculeRepo is the pgx-backed implementation.
type MoleculeRepo struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewMoleculeRepo wires a repository onto an existing pool.
func NewMoleculeRepo(pool *pgxpool.Pool, logger logging.Logger) *MoleculeRepo {
	return &MoleculeRepo{pool: pool, logger: logger.Named("molecule_repo")}
}

const saveSQL = `
INSERT INTO molecules
    (id, smiles, canonical_smiles, formula, weight,
     atom_count, bond_count, ring_count, fingerprint, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
ON CONFLICT (canonical_smiles) DO UPDATE SET
    smiles      = EXCLUDED.smiles,
    fingerprint = EXCLUDED.fingerprint,
    updated_at  = EXCLUDED.updated_at`

// Save inserts the record, or refreshes an existing row with the same
// canonical SMILES.
func (r *MoleculeRepo) Save(ctx context.Context, rec *MoleculeRecord) error {
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	_, err := r.pool.Exec(ctx, saveSQL,
		string(rec.ID), rec.SMILES, rec.CanonicalSMILES, rec.Formula, rec.Weight,
		rec.AtomCount, rec.BondCount, rec.RingCount, rec.Fingerprint, now)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to store molecule").
			WithDetail("canonical=" + rec.CanonicalSMILES)
	}
	r.logger.Debug("molecule stored", logging.String("id", string(rec.ID)))
	return nil
}

const selectColumns = `
SELECT id, smiles, canonical_smiles, formula, weight,
       atom_count, bond_count, ring_count, fingerprint, created_at, updated_at
FROM molecules`

func scanRecord(row pgx.Row) (*MoleculeRecord, error) {
	rec := &MoleculeRecord{}
	var id string
	err := row.Scan(&id, &rec.SMILES, &rec.CanonicalSMILES, &rec.Formula,
		&rec.Weight, &rec.AtomCount, &rec.BondCount, &rec.RingCount,
		&rec.Fingerprint, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rec.ID = common.ID(id)
	return rec, nil
}

// FindByID fetches one record by its UUID.
func (r *MoleculeRepo) FindByID(ctx context.Context, id common.ID) (*MoleculeRecord, error) {
	rec, err := scanRecord(r.pool.QueryRow(ctx, selectColumns+" WHERE id = $1", string(id)))
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("molecule not found").WithDetail("id=" + string(id))
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "molecule query failed")
	}
	return rec, nil
}

// FindByCanonical fetches one record by canonical SMILES.
func (r *MoleculeRepo) FindByCanonical(ctx context.Context, canonical string) (*MoleculeRecord, error) {
	rec, err := scanRecord(r.pool.QueryRow(ctx,
		selectColumns+" WHERE canonical_smiles = $1", canonical))
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("molecule not found").WithDetail("canonical=" + canonical)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "molecule query failed")
	}
	return rec, nil
}

// List returns records ordered by creation time, newest first.
func (r *MoleculeRepo) List(ctx context.Context, limit, offset int) ([]*MoleculeRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx,
		selectColumns+" ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "molecule list failed")
	}
	defer rows.Close()

	var out []*MoleculeRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "molecule row scan failed")
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "molecule list failed")
	}
	return out, nil
}
