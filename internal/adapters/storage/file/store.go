// Package file keeps finished calls on disk: one JSON transcript and one
// printable receipt per call, side by side in a single directory.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/PabloGalante/callorder-agent/internal/app/receipt"
	"github.com/PabloGalante/callorder-agent/internal/domain"
	"github.com/PabloGalante/callorder-agent/internal/menu"
	"github.com/PabloGalante/callorder-agent/internal/observability"
)

const stampLayout = "20060102_150405"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

type Store struct {
	dir  string
	menu menu.Source
}

// NewStore creates the directory if needed. src prices the receipts; nil
// uses the built-in catalog.
func NewStore(dir string, src menu.Source) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("orders directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create orders dir: %w", err)
	}
	if src == nil {
		src = menu.NewStatic(menu.Default())
	}
	return &Store{dir: dir, menu: src}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

func baseName(rec *domain.CallRecord) string {
	id := unsafeChars.ReplaceAllString(string(rec.CallID), "_")
	if id == "" {
		id = "unknown"
	}
	return id + "_" + rec.EndedAt.Format(stampLayout)
}

// TranscriptPath is where the JSON record of rec lives.
func (s *Store) TranscriptPath(rec *domain.CallRecord) string {
	return filepath.Join(s.dir, "conversation_"+baseName(rec)+".json")
}

// ReceiptPath is where the printable receipt of rec lives.
func (s *Store) ReceiptPath(rec *domain.CallRecord) string {
	return filepath.Join(s.dir, "order_"+baseName(rec)+".txt")
}

// SaveCall writes the transcript and the receipt.
func (s *Store) SaveCall(ctx context.Context, rec *domain.CallRecord) error {
	raw, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode call %s: %w", rec.CallID, err)
	}
	if err := writeAtomic(s.TranscriptPath(rec), raw); err != nil {
		return err
	}

	text := receipt.Render(rec, s.menu.Catalog())
	if err := writeAtomic(s.ReceiptPath(rec), []byte(text)); err != nil {
		return err
	}

	observability.LoggerFromContext(ctx).Info("call saved",
		"call_id", string(rec.CallID),
		"order_id", rec.OrderID,
		"receipt", s.ReceiptPath(rec))
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ListCalls reads the stored transcripts, newest first. Unreadable files are
// skipped and logged.
func (s *Store) ListCalls(ctx context.Context, limit int) ([]*domain.CallRecord, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "conversation_*.json"))
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}

	log := observability.LoggerFromContext(ctx)
	recs := make([]*domain.CallRecord, 0, len(paths))
	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if err != nil {
			log.Warn("skipping unreadable transcript", "path", p, "error", err)
			continue
		}
		var rec domain.CallRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			log.Warn("skipping malformed transcript", "path", p, "error", err)
			continue
		}
		recs = append(recs, &rec)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].EndedAt.Equal(recs[j].EndedAt) {
			return strings.Compare(string(recs[i].CallID), string(recs[j].CallID)) > 0
		}
		return recs[i].EndedAt.After(recs[j].EndedAt)
	})

	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// Receipt returns the stored receipt of rec, rendering it again when the
// file is missing.
func (s *Store) Receipt(rec *domain.CallRecord) string {
	raw, err := os.ReadFile(s.ReceiptPath(rec))
	if err != nil {
		return receipt.Render(rec, s.menu.Catalog())
	}
	return string(raw)
}
