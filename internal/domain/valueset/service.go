package valueset

import (
	"context"

	"github.com/rs/zerolog"
)

// Cache is the subset of the JSON cache the service needs.
type Cache interface {
	Key(parts ...string) string
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, v interface{}) error
	Delete(ctx context.Context, key string) error
}

type Service struct {
	repo  PurposeOfVisitRepository
	cache Cache
}

// NewService wires the repository with an optional cache; cache may be nil.
func NewService(repo PurposeOfVisitRepository, cache Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// PurposeOfVisit returns the hospital's ValueSet, served from the cache when
// present. Cache failures are logged and fall through to the repository.
func (s *Service) PurposeOfVisit(ctx context.Context, hospitalID string) (*Resource, error) {
	log := zerolog.Ctx(ctx)

	var key string
	if s.cache != nil {
		key = s.cache.Key("purpose-of-visit", hospitalID)
		var cached Resource
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Warn().Err(err).Str("hospital_id", hospitalID).Msg("valueset cache read failed")
		} else if found {
			return &cached, nil
		}
	}

	records, err := s.repo.ListByHospital(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	vs := PurposeOfVisitConverter{HospitalID: hospitalID, Records: records}.ToValueSet()

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, vs); err != nil {
			log.Warn().Err(err).Str("hospital_id", hospitalID).Msg("valueset cache write failed")
		}
	}
	return vs, nil
}

// Invalidate evicts the cached ValueSet of a hospital so the next lookup
// reads the repository.
func (s *Service) Invalidate(ctx context.Context, hospitalID string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, s.cache.Key("purpose-of-visit", hospitalID))
}
