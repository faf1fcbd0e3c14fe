package repositories

import (
	"context"

	"gorm.io/gorm"

	"explore-sync.backend/internal/domain/entities"
	"explore-sync.backend/internal/domain/repositories"
	"explore-sync.backend/internal/infrastructure/models"
)

// matchAuditRepo implements repositories.MatchAuditRepository
type matchAuditRepo struct {
	db *gorm.DB
}

// NewMatchAuditRepository creates a new match audit repository
func NewMatchAuditRepository(db *gorm.DB) repositories.MatchAuditRepository {
	return &matchAuditRepo{db: db}
}

// ReplaceAll swaps the audit table for the run's accepted matches.
func (r *matchAuditRepo) ReplaceAll(ctx context.Context, matches []entities.MatchInfo) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM location_matches").Error; err != nil {
			return err
		}
		if len(matches) == 0 {
			return nil
		}
		rows := make([]models.LocationMatch, 0, len(matches))
		for _, m := range matches {
			rows = append(rows, models.LocationMatch{
				CandidateIndex:    m.CandidateIndex,
				ReferenceIndex:    m.ReferenceIndex,
				DistanceMiles:     m.DistanceMiles,
				NameSimilarity:    m.NameSimilarity,
				AddressSimilarity: m.AddressSimilarity,
				Confidence:        m.Confidence,
				Reasons:           m.Reasons,
				CityMatch:         m.CityMatch,
				StateMatch:        m.StateMatch,
			})
		}
		return tx.Create(&rows).Error
	})
}

// List returns up to limit audit rows, highest confidence first.
func (r *matchAuditRepo) List(ctx context.Context, limit int) ([]entities.MatchInfo, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []models.LocationMatch
	if err := r.db.WithContext(ctx).
		Order("confidence DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entities.MatchInfo, 0, len(rows))
	for _, m := range rows {
		out = append(out, entities.MatchInfo{
			CandidateIndex:    m.CandidateIndex,
			ReferenceIndex:    m.ReferenceIndex,
			DistanceMiles:     m.DistanceMiles,
			NameSimilarity:    m.NameSimilarity,
			AddressSimilarity: m.AddressSimilarity,
			Confidence:        m.Confidence,
			Reasons:           m.Reasons,
			CityMatch:         m.CityMatch,
			StateMatch:        m.StateMatch,
		})
	}
	return out, nil
}
