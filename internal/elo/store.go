package elo

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rankllms/rankllms/internal/models"
	"github.com/rankllms/rankllms/internal/validation"
)

// categorySeparator joins a model identifier and a category name in the
// persisted ratings map. It is reserved: plain model identifiers and category
// names must not contain it.
const categorySeparator = "__"

// storeFile is the on-disk shape of a RatingStore.
type storeFile struct {
	Ratings      map[string]float64   `json:"ratings"`
	KFactor      int                  `json:"k_factor"`
	StartingElo  float64              `json:"starting_elo"`
	Promptset    string               `json:"promptset"`
	MatchHistory []models.MatchRecord `json:"match_history"`
}

func encodeRatingKey(key models.RatingKey) (string, error) {
	if strings.Contains(key.Model, categorySeparator) {
		return "", fmt.Errorf("model identifier %q contains reserved separator %q", key.Model, categorySeparator)
	}
	if key.IsOverall() {
		return key.Model, nil
	}
	if strings.Contains(key.Category, categorySeparator) {
		return "", fmt.Errorf("category %q contains reserved separator %q", key.Category, categorySeparator)
	}
	return key.Model + categorySeparator + key.Category, nil
}

func decodeRatingKey(raw string) models.RatingKey {
	model, category, found := strings.Cut(raw, categorySeparator)
	if !found {
		return models.OverallKey(raw)
	}
	return models.CategoryKey(model, category)
}

// Save writes the full store state to path as indented JSON, creating parent
// directories as needed.
func (s *RatingStore) Save(path string) error {
	f := storeFile{
		Ratings:      make(map[string]float64, len(s.ratings)),
		KFactor:      s.kFactor,
		StartingElo:  s.startingElo,
		Promptset:    s.promptset,
		MatchHistory: s.history,
	}
	for key, rating := range s.ratings {
		encoded, err := encodeRatingKey(key)
		if err != nil {
			return fmt.Errorf("encoding rating key: %w", err)
		}
		f.Ratings[encoded] = rating
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating ratings directory: %w", err)
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling ratings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing ratings file: %w", err)
	}

	slog.Info("saved ELO ratings", "path", path, "models", len(f.Ratings))
	return nil
}

// Load reads a RatingStore from path. A missing file is returned as an error
// wrapping fs.ErrNotExist; callers decide whether to construct a fresh store.
// A file that fails schema validation is reported the same way as any other
// corrupt state: an error, never a partially loaded store.
func Load(path string) (*RatingStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ratings file: %w", err)
	}

	if errs := validation.ValidateRatingsBytes(data); len(errs) > 0 {
		return nil, fmt.Errorf("ratings file %s is not valid: %s", path, strings.Join(errs, "; "))
	}

	var f storeFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing ratings file %s: %w", path, err)
	}

	s := New(f.Promptset)
	if f.KFactor > 0 {
		s.kFactor = f.KFactor
	}
	if f.StartingElo > 0 {
		s.startingElo = f.StartingElo
	}
	for raw, rating := range f.Ratings {
		s.ratings[decodeRatingKey(raw)] = rating
	}
	s.history = f.MatchHistory

	slog.Info("loaded ELO ratings",
		"path", path, "models", len(s.ratings), "promptset", s.promptset)
	return s, nil
}
