package herds

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockyard/internal/domain/models"
	"github.com/mamadbah2/stockyard/internal/repository/mongodb"
)

// Service owns herd lifecycle: validation, identifier assignment and
// persistence orchestration.
type Service struct {
	repo   mongodb.HerdRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new herds service instance.
func NewService(repository mongodb.HerdRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repository,
		logger: logger,
		now:    time.Now,
	}
}

// Create validates and stores a new herd, assigning its id and creation
// date when absent.
func (s *Service) Create(ctx context.Context, herd models.HerdGroup) (models.HerdGroup, error) {
	if herd.ID == "" {
		herd.ID = uuid.NewString()
	}
	if herd.CreatedAt.IsZero() {
		herd.CreatedAt = s.now().UTC()
	}
	if parsed, ok := models.ParseSpecies(string(herd.Species)); ok {
		herd.Species = parsed
	}

	if err := herd.Validate(); err != nil {
		return models.HerdGroup{}, err
	}

	if err := s.repo.CreateHerd(ctx, herd); err != nil {
		return models.HerdGroup{}, fmt.Errorf("create herd: %w", err)
	}

	s.logger.Info("herd created",
		zap.String("herd_id", herd.ID),
		zap.String("category", herd.Category),
		zap.Int("head_count", herd.HeadCount))
	return herd, nil
}

// Get returns one herd by id.
func (s *Service) Get(ctx context.Context, id string) (models.HerdGroup, error) {
	return s.repo.GetHerd(ctx, id)
}

// List returns every stored herd.
func (s *Service) List(ctx context.Context) ([]models.HerdGroup, error) {
	return s.repo.ListHerds(ctx)
}

// Update validates and replaces an existing herd. The id and creation date
// of the stored herd are preserved.
func (s *Service) Update(ctx context.Context, id string, herd models.HerdGroup) (models.HerdGroup, error) {
	existing, err := s.repo.GetHerd(ctx, id)
	if err != nil {
		return models.HerdGroup{}, err
	}

	herd.ID = existing.ID
	herd.CreatedAt = existing.CreatedAt
	if parsed, ok := models.ParseSpecies(string(herd.Species)); ok {
		herd.Species = parsed
	}

	if err := herd.Validate(); err != nil {
		return models.HerdGroup{}, err
	}

	if err := s.repo.UpdateHerd(ctx, herd); err != nil {
		return models.HerdGroup{}, fmt.Errorf("update herd: %w", err)
	}

	s.logger.Info("herd updated", zap.String("herd_id", herd.ID))
	return herd, nil
}

// Delete removes a herd.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteHerd(ctx, id); err != nil {
		return err
	}
	s.logger.Info("herd deleted", zap.String("herd_id", id))
	return nil
}

// MarkSold flags a herd as sold; sold herds are excluded from portfolio
// valuation and price prefetching.
func (s *Service) MarkSold(ctx context.Context, id string, soldAt time.Time) (models.HerdGroup, error) {
	herd, err := s.repo.GetHerd(ctx, id)
	if err != nil {
		return models.HerdGroup{}, err
	}

	if soldAt.IsZero() {
		soldAt = s.now().UTC()
	}
	herd.Sold = true
	herd.SoldAt = &soldAt

	if err := s.repo.UpdateHerd(ctx, herd); err != nil {
		return models.HerdGroup{}, fmt.Errorf("mark herd sold: %w", err)
	}

	s.logger.Info("herd marked sold", zap.String("herd_id", id), zap.Time("sold_at", soldAt))
	return herd, nil
}
