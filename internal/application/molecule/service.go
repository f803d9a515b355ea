// Package molecule provides the application-level service for molecule
// operations: the seam between the HTTP/CLI surfaces and the domain core.
// Every operation takes raw SMILES in and hands DTOs back; infrastructure
// (registry, cache, events, graph export) is injected and optional.
package molecule

import (
	"context"
	"time"

	domain "github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/molgraph/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/molgraph/pkg/errors"
	"github.com/turtacn/molgraph/pkg/types/common"
)

// AtomInfo is the wire form of one atom.
type AtomInfo struct {
	Index       int    `json:"index"`
	Element     string `json:"element"`
	Isotope     int    `json:"isotope,omitempty"`
	Charge      int    `json:"charge,omitempty"`
	Delocalized bool   `json:"delocalized,omitempty"`
	ImplicitH   *int   `json:"implicit_h,omitempty"`
	Radicals    *int   `json:"radicals,omitempty"`
	Chirality   string `json:"chirality,omitempty"`
}

// BondInfo is the wire form of one bond.
type BondInfo struct {
	A    int    `json:"a"`
	B    int    `json:"b"`
	Type string `json:"type"`
	Order int   `json:"order"`
}

// MoleculeInfo is the full perception result for one SMILES input.
type MoleculeInfo struct {
	SMILES          string     `json:"smiles"`
	CanonicalSMILES string     `json:"canonical_smiles"`
	Formula         string     `json:"formula"`
	Weight          float64    `json:"weight"`
	AtomCount       int        `json:"atom_count"`
	BondCount       int        `json:"bond_count"`
	RingCount       int        `json:"ring_count"`
	Atoms           []AtomInfo `json:"atoms"`
	Bonds           []BondInfo `json:"bonds"`
}

// cache is the subset of the redis cache the service needs; declared here so
// tests can substitute a fake and a nil cache disables caching entirely.
type cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// eventPublisher decouples the service from the concrete Kafka writer.
type eventPublisher interface {
	Publish(ctx context.Context, ev kafka.MoleculeEvent) error
}

// graphExporter decouples the service from the concrete Neo4j driver.
type graphExporter interface {
	ExportMolecule(ctx context.Context, id string, m *domain.Molecule) error
}

// Options collects the service dependencies.  Logger and Metrics default;
// Cache, Repo, Publisher, and Exporter are optional and disabled when nil.
type Options struct {
	Logger      logging.Logger
	Metrics     *prometheus.Metrics
	Cache       cache
	Repo        repositories.MoleculeRepository
	Publisher   eventPublisher
	Exporter    graphExporter
	RingTimeout time.Duration
	CacheTTL    time.Duration
}

// Service exposes the toolkit's operations to the interface layers.
type Service struct {
	opts Options
	log  logging.Logger
}

// NewService builds a Service, applying defaults for absent dependencies.
func NewService(opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = prometheus.NewMetrics()
	}
	return &Service{opts: opts, log: opts.Logger.Named("molecule_service")}
}

// perceive parses and fully perceives one SMILES string under the
// configured ring-perception deadline.
func (s *Service) perceive(ctx context.Context, smiles string) (*domain.Molecule, error) {
	if s.opts.RingTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.RingTimeout)
		defer cancel()
	}

	started := time.Now()
	m, err := domain.ParseAndPerceive(ctx, smiles)
	s.opts.Metrics.ParseDuration.Observe(time.Since(started).Seconds())
	s.opts.Metrics.ParseTotal.WithLabelValues(string(errors.GetCode(err))).Inc()
	if err != nil {
		s.log.Debug("perception failed",
			logging.String("smiles", smiles), logging.Err(err))
		return nil, err
	}
	s.opts.Metrics.MoleculeAtomCount.Observe(float64(m.NumAtoms()))
	return m, nil
}

// Parse runs the full read pipeline and returns the perceived graph.
func (s *Service) Parse(ctx context.Context, smiles string) (*MoleculeInfo, error) {
	m, err := s.perceive(ctx, smiles)
	if err != nil {
		return nil, err
	}
	canonical, err := m.SMILES()
	if err != nil {
		return nil, err
	}

	info := &MoleculeInfo{
		SMILES:          smiles,
		CanonicalSMILES: canonical,
		Formula:         m.Formula(),
		Weight:          m.MolecularWeight(),
		AtomCount:       m.NumAtoms(),
		BondCount:       m.NumBonds(),
	}
	if rings, err := m.Rings(); err == nil {
		info.RingCount = len(rings)
	}
	for i, a := range m.Atoms() {
		ai := AtomInfo{
			Index:       i,
			Element:     a.Element.Symbol(),
			Isotope:     a.Isotope,
			Charge:      a.Charge,
			Delocalized: a.Delocalized,
			ImplicitH:   a.ImplicitH,
			Radicals:    a.Radicals,
		}
		if a.Chirality.SMILES() != "" {
			ai.Chirality = a.Chirality.SMILES()
		}
		info.Atoms = append(info.Atoms, ai)
	}
	for _, b := range m.Bonds() {
		info.Bonds = append(info.Bonds, BondInfo{
			A: b.A, B: b.B, Type: b.Type.String(), Order: b.Type.Order(),
		})
	}
	return info, nil
}

// Canonicalize returns write(perceive(parse(smiles))), consulting the cache
// when one is configured.  Cache failures degrade to recomputation.
func (s *Service) Canonicalize(ctx context.Context, smiles string) (string, error) {
	const keyPrefix = "canonical:"
	if s.opts.Cache != nil {
		var cached string
		if err := s.opts.Cache.Get(ctx, keyPrefix+smiles, &cached); err == nil {
			s.opts.Metrics.CacheHitsTotal.Inc()
			return cached, nil
		}
		s.opts.Metrics.CacheMissesTotal.Inc()
	}

	m, err := s.perceive(ctx, smiles)
	if err != nil {
		return "", err
	}
	out, err := m.SMILES()
	s.opts.Metrics.WriteTotal.WithLabelValues(string(errors.GetCode(err))).Inc()
	if err != nil {
		return "", err
	}

	if s.opts.Cache != nil {
		if err := s.opts.Cache.Set(ctx, keyPrefix+smiles, out, s.opts.CacheTTL); err != nil {
			s.log.Warn("canonicalization cache write failed", logging.Err(err))
		}
	}
	return out, nil
}

// Kekulize resolves all delocalized bonds and returns the kekulized SMILES.
func (s *Service) Kekulize(ctx context.Context, smiles string) (string, error) {
	m, err := s.perceive(ctx, smiles)
	if err != nil {
		return "", err
	}
	k, err := m.Kekulize()
	if err != nil {
		return "", err
	}
	return k.SMILES()
}

// Delocalize collapses qualifying rings onto the delocalized bond type and
// returns the resulting SMILES.
func (s *Service) Delocalize(ctx context.Context, smiles string) (string, error) {
	m, err := s.perceive(ctx, smiles)
	if err != nil {
		return "", err
	}
	if err := m.Delocalize(); err != nil {
		return "", err
	}
	return m.SMILES()
}

// Similarity computes the path-fingerprint Tanimoto coefficient of two
// SMILES inputs.
func (s *Service) Similarity(ctx context.Context, a, b string) (float64, error) {
	ma, err := s.perceive(ctx, a)
	if err != nil {
		return 0, err
	}
	mb, err := s.perceive(ctx, b)
	if err != nil {
		return 0, err
	}
	s.opts.Metrics.SimilarityTotal.Inc()
	return domain.Similarity(ma, mb)
}

// Register perceives a molecule, assigns it an ID, and fans it out to the
// configured infrastructure: the PostgreSQL registry, the Kafka event
// stream, and the Neo4j graph.  Absent infrastructure is skipped; event and
// export failures are logged but do not fail the registration.
func (s *Service) Register(ctx context.Context, smiles string) (*repositories.MoleculeRecord, error) {
	m, err := s.perceive(ctx, smiles)
	if err != nil {
		return nil, err
	}
	canonical, err := m.SMILES()
	if err != nil {
		return nil, err
	}
	fp, err := m.PathFingerprint(domain.DefaultFingerprintPathLen, domain.DefaultFingerprintBits)
	if err != nil {
		return nil, err
	}

	rec := &repositories.MoleculeRecord{
		BaseEntity:      common.BaseEntity{ID: common.NewID()},
		SMILES:          smiles,
		CanonicalSMILES: canonical,
		Formula:         m.Formula(),
		Weight:          m.MolecularWeight(),
		AtomCount:       m.NumAtoms(),
		BondCount:       m.NumBonds(),
		Fingerprint:     fp.ToBytes(),
	}
	if rings, err := m.Rings(); err == nil {
		rec.RingCount = len(rings)
	}

	if s.opts.Repo != nil {
		if err := s.opts.Repo.Save(ctx, rec); err != nil {
			return nil, err
		}
	}
	if s.opts.Publisher != nil {
		ev := kafka.MoleculeEvent{
			Type:            kafka.EventMoleculeRegistered,
			MoleculeID:      string(rec.ID),
			SMILES:          rec.SMILES,
			CanonicalSMILES: rec.CanonicalSMILES,
			Formula:         rec.Formula,
			Weight:          rec.Weight,
			OccurredAt:      time.Now().UTC(),
		}
		if err := s.opts.Publisher.Publish(ctx, ev); err != nil {
			s.opts.Metrics.EventsPublished.WithLabelValues("error").Inc()
			s.log.Warn("event publish failed", logging.Err(err))
		} else {
			s.opts.Metrics.EventsPublished.WithLabelValues("ok").Inc()
		}
	}
	if s.opts.Exporter != nil {
		if err := s.opts.Exporter.ExportMolecule(ctx, string(rec.ID), m); err != nil {
			s.log.Warn("graph export failed", logging.Err(err))
		}
	}

	s.log.Info("molecule registered",
		logging.String("id", string(rec.ID)),
		logging.String("canonical", rec.CanonicalSMILES))
	return rec, nil
}
