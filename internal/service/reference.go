package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/horvbalint/recet/internal/extraction"
	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

func foldLabel(s string) string {
	return cases.Fold().String(s)
}

// DefaultMatchThreshold is the minimum match score: trigram similarity on
// Postgres, word overlap elsewhere.
const DefaultMatchThreshold = 0.3

// ReferenceService looks up reference rows by name. It only ever reads.
type ReferenceService struct {
	db        *gorm.DB
	threshold float64
	logger    *slog.Logger
}

// NewReferenceService creates a ReferenceService. A non-positive threshold
// falls back to DefaultMatchThreshold.
func NewReferenceService(db *gorm.DB, threshold float64, logger *slog.Logger) *ReferenceService {
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReferenceService{db: db, threshold: threshold, logger: logger}
}

type referenceMatch struct {
	ID          string
	Name        string
	HouseholdID *string
	Score       float64
}

// FindReference returns the best matching row of lookup.Table, or nil when
// no row is close enough.
func (s *ReferenceService) FindReference(ctx context.Context, lookup extraction.Lookup) (*extraction.Reference, error) {
	if !lookup.Table.Valid() {
		return nil, fmt.Errorf("unknown reference table %q", lookup.Table)
	}
	name := strings.TrimSpace(lookup.Name)
	if name == "" {
		return nil, nil
	}
	if lookup.Household != "" {
		if _, err := uuid.Parse(lookup.Household); err != nil {
			return nil, fmt.Errorf("invalid household id: %w", err)
		}
	}

	var (
		match *referenceMatch
		err   error
	)
	if s.db.Dialector.Name() == "postgres" {
		match, err = s.findTrigram(ctx, lookup.Table, name, lookup.Household)
	} else {
		match, err = s.findContaining(ctx, lookup.Table, name, lookup.Household)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", lookup.Table, err)
	}
	if match == nil {
		return nil, nil
	}

	s.logger.Debug("reference matched", "table", lookup.Table, "label", name, "name", match.Name, "score", match.Score)
	return &extraction.Reference{Table: lookup.Table, ID: match.ID, Name: match.Name}, nil
}

// scoped limits q to global rows plus the rows of household.
func scoped(q *gorm.DB, household string) *gorm.DB {
	if household == "" {
		return q.Where("household_id IS NULL")
	}
	return q.Where("(household_id IS NULL OR household_id = ?)", household)
}

func (s *ReferenceService) findTrigram(ctx context.Context, table extraction.Table, name, household string) (*referenceMatch, error) {
	var rows []referenceMatch
	q := s.db.WithContext(ctx).
		Table(string(table)).
		Select("id, name, similarity(name, ?) AS score", name)
	q = scoped(q, household)
	err := q.
		Where("(to_tsvector('simple', name) @@ plainto_tsquery('simple', ?) OR similarity(name, ?) >= ?)", name, name, s.threshold).
		Order("score DESC, (household_id IS NULL) ASC, length(name) ASC, id ASC").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// findContaining is the fallback for databases without pg_trgm. An exact
// case-folded match wins outright. Otherwise a row matches when its words
// appear as a contiguous run inside the label's words, or the other way round,
// and scores the share of the longer word list it covers.
func (s *ReferenceService) findContaining(ctx context.Context, table extraction.Table, name, household string) (*referenceMatch, error) {
	var rows []referenceMatch

	q := scoped(s.db.WithContext(ctx).Table(string(table)).Select("id, name, 1.0 AS score"), household)
	err := q.
		Where("LOWER(name) = LOWER(?)", name).
		Order("(household_id IS NULL) ASC, id ASC").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		return &rows[0], nil
	}

	q = scoped(s.db.WithContext(ctx).Table(string(table)).Select("id, name, household_id"), household)
	err = q.
		Where("(INSTR(LOWER(name), LOWER(?)) > 0 OR INSTR(LOWER(?), LOWER(name)) > 0)", name, name).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	label := words(name)
	var best *referenceMatch
	for i := range rows {
		row := &rows[i]
		row.Score = wordOverlap(label, words(row.Name))
		if row.Score < s.threshold {
			continue
		}
		if best == nil || betterMatch(row, best) {
			best = row
		}
	}
	return best, nil
}

// betterMatch orders candidates the same way the trigram query does.
func betterMatch(a, b *referenceMatch) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if (a.HouseholdID == nil) != (b.HouseholdID == nil) {
		return a.HouseholdID != nil
	}
	if len(a.Name) != len(b.Name) {
		return len(a.Name) < len(b.Name)
	}
	return a.ID < b.ID
}

func words(s string) []string {
	return strings.FieldsFunc(foldLabel(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// wordOverlap returns len(shorter)/len(longer) when the shorter word list is a
// contiguous run of the longer one, and 0 otherwise.
func wordOverlap(a, b []string) float64 {
	short, long := a, b
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}
	for i := 0; i+len(short) <= len(long); i++ {
		if slices.Equal(long[i:i+len(short)], short) {
			return float64(len(short)) / float64(len(long))
		}
	}
	return 0
}
