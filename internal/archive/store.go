// Package archive persists pairwise comparison outcomes as JSON records, one
// file per unordered model pair per promptset. It is the durable side of the
// outcome store: estimators never touch the filesystem themselves.
package archive

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/rankllms/rankllms/internal/models"
	"github.com/rankllms/rankllms/internal/validation"
	"golang.org/x/sync/errgroup"
)

const pairSeparator = "__vs__"

// scanConcurrency bounds the number of record files read in parallel by ScanAll.
const scanConcurrency = 8

// Store reads and writes comparison records under dir, namespaced by promptset.
type Store struct {
	dir       string
	promptset string
}

// New creates a store rooted at dir for the given promptset.
func New(dir, promptset string) *Store {
	return &Store{dir: dir, promptset: promptset}
}

// Promptset returns the promptset the store is scoped to.
func (s *Store) Promptset() string { return s.promptset }

// sanitizeModelName makes a model identifier safe for use in a filename.
// The mapping matches the archive's historical naming and is not reversible
// for identifiers that already contain underscores.
func sanitizeModelName(model string) string {
	model = strings.ReplaceAll(model, ":", "_")
	return strings.ReplaceAll(model, "/", "_")
}

func restoreModelName(name string) string {
	return strings.ReplaceAll(name, "_", ":")
}

// PairFileName returns the canonical record filename (without extension) for
// an unordered pair: models sorted, sanitized, joined by "__vs__".
func PairFileName(modelA, modelB string) string {
	key := models.NewPairKey(modelA, modelB)
	return sanitizeModelName(key.Low) + pairSeparator + sanitizeModelName(key.High)
}

// ParsePairFileName derives the model pair from a record filename. It returns
// an error for names that do not match the canonical layout.
func ParsePairFileName(name string) (models.PairKey, error) {
	base := strings.TrimSuffix(strings.TrimSuffix(name, ".gz"), ".json")
	parts := strings.Split(base, pairSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return models.PairKey{}, fmt.Errorf("invalid comparison filename %q", name)
	}
	return models.NewPairKey(restoreModelName(parts[0]), restoreModelName(parts[1])), nil
}

func (s *Store) promptsetDir() string {
	return filepath.Join(s.dir, s.promptset)
}

// Load returns the stored outcome for the pair, or nil when no record exists.
// A record that cannot be read or fails schema validation is logged and
// treated as absent, never propagated as corruption.
func (s *Store) Load(modelA, modelB string) (*models.PairOutcome, error) {
	base := filepath.Join(s.promptsetDir(), PairFileName(modelA, modelB))

	for _, path := range []string{base + ".json", base + ".json.gz"} {
		data, err := s.readRecord(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			slog.Warn("unreadable comparison record, treating as absent", "path", path, "error", err)
			return nil, nil
		}

		if errs := validation.ValidateOutcomeBytes(data); len(errs) > 0 {
			slog.Warn("comparison record failed validation, treating as absent",
				"path", path, "problems", strings.Join(errs, "; "))
			return nil, nil
		}

		var outcome models.PairOutcome
		if err := json.Unmarshal(data, &outcome); err != nil {
			slog.Warn("malformed comparison record, treating as absent", "path", path, "error", err)
			return nil, nil
		}
		return &outcome, nil
	}

	return nil, nil
}

func (s *Store) readRecord(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening gzip record: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	return io.ReadAll(r)
}

// Save writes the outcome as an indented JSON record, replacing any prior
// record for the pair. Outcomes are immutable once written: a re-run replaces
// the file wholesale.
func (s *Store) Save(outcome *models.PairOutcome) error {
	if err := os.MkdirAll(s.promptsetDir(), 0o755); err != nil {
		return fmt.Errorf("creating archive directory: %w", err)
	}

	data, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling outcome: %w", err)
	}

	path := filepath.Join(s.promptsetDir(), PairFileName(outcome.ModelA, outcome.ModelB)+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing outcome record: %w", err)
	}

	slog.Info("saved comparison record", "path", path)
	return nil
}

// ListPairs returns the canonical keys of every pair with a stored record,
// sorted for deterministic iteration. Files with unparseable names are
// logged and skipped.
func (s *Store) ListPairs() ([]models.PairKey, error) {
	entries, err := os.ReadDir(s.promptsetDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading archive directory: %w", err)
	}

	seen := map[models.PairKey]bool{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || (!strings.HasSuffix(name, ".json") && !strings.HasSuffix(name, ".json.gz")) {
			continue
		}
		key, err := ParsePairFileName(name)
		if err != nil {
			slog.Warn("skipping unrecognized archive file", "name", name, "error", err)
			continue
		}
		seen[key] = true
	}

	keys := make([]models.PairKey, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Low != keys[j].Low {
			return keys[i].Low < keys[j].Low
		}
		return keys[i].High < keys[j].High
	})
	return keys, nil
}

// ScanAll loads every stored outcome for the promptset. Records are read
// concurrently; unreadable records are skipped the same way Load skips them.
func (s *Store) ScanAll() (map[models.PairKey]*models.PairOutcome, error) {
	keys, err := s.ListPairs()
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	outcomes := make(map[models.PairKey]*models.PairOutcome, len(keys))

	var g errgroup.Group
	g.SetLimit(scanConcurrency)
	for _, key := range keys {
		g.Go(func() error {
			outcome, err := s.Load(key.Low, key.High)
			if err != nil || outcome == nil {
				return err
			}
			mu.Lock()
			outcomes[key] = outcome
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Debug("scanned archive", "promptset", s.promptset, "pairs", len(outcomes))
	return outcomes, nil
}
