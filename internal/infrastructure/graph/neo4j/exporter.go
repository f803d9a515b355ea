// Package neo4j materializes perceived molecules into a Neo4j property
// graph: one (:Atom) node per atom, one [:BOND] relationship per bond, all
// scoped by molecule ID.  The export is idempotent (MERGE semantics).
package neo4j

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/turtacn/molgraph/internal/config"
	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/pkg/errors"
)

// Exporter writes molecular graphs to Neo4j.
type Exporter struct {
	driver   neo4j.DriverWithContext
	database string
	logger   logging.Logger
}

// NewExporter connects and verifies the Neo4j driver.
func NewExporter(ctx context.Context, cfg config.Neo4jConfig, logger logging.Logger) (*Exporter, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI,
		neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeGraphExport, "neo4j driver construction failed")
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeGraphExport, "neo4j unreachable").
			WithDetail("uri=" + cfg.URI)
	}
	return &Exporter{
		driver:   driver,
		database: cfg.Database,
		logger:   logger.Named("neo4j"),
	}, nil
}

// ExportMolecule writes the atoms and bonds of m under the given molecule
// ID.  Re-exporting the same ID updates properties in place.
func (e *Exporter) ExportMolecule(ctx context.Context, id string, m *molecule.Molecule) error {
	session := e.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: e.database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for i, a := range m.Atoms() {
			params := map[string]any{
				"mid":         id,
				"idx":         i,
				"element":     a.Element.Symbol(),
				"charge":      a.Charge,
				"isotope":     a.Isotope,
				"delocalized": a.Delocalized,
			}
			if a.ImplicitH != nil {
				params["implicit_h"] = *a.ImplicitH
			}
			if _, err := tx.Run(ctx,
				`MERGE (a:Atom {molecule_id: $mid, idx: $idx})
				 SET a += $props`,
				map[string]any{"mid": id, "idx": i, "props": params}); err != nil {
				return nil, err
			}
		}
		for _, b := range m.Bonds() {
			if _, err := tx.Run(ctx,
				`MATCH (a:Atom {molecule_id: $mid, idx: $i}),
				       (b:Atom {molecule_id: $mid, idx: $j})
				 MERGE (a)-[r:BOND]->(b)
				 SET r.type = $type, r.order = $order`,
				map[string]any{
					"mid":   id,
					"i":     b.A,
					"j":     b.B,
					"type":  b.Type.String(),
					"order": b.Type.Order(),
				}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeGraphExport, "molecule export failed").
			WithDetail("molecule_id=" + id)
	}
	e.logger.Debug("molecule exported",
		logging.String("molecule_id", id),
		logging.Int("atoms", m.NumAtoms()),
		logging.Int("bonds", m.NumBonds()))
	return nil
}

// Close releases the driver.
func (e *Exporter) Close(ctx context.Context) error {
	return e.driver.Close(ctx)
}
