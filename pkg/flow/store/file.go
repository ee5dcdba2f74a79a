package store

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/storyflow/storyflow/pkg/errors"
	"github.com/storyflow/storyflow/pkg/flow"
	"github.com/storyflow/storyflow/pkg/observability"
)

// FileStore keeps one JSON file per flow in a directory, named <id>.json.
// It is the default backend for CLI usage.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir, creating the
// directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create store directory %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Name identifies the backend.
func (s *FileStore) Name() string { return "file" }

// Load reads a flow document by id.
func (s *FileStore) Load(ctx context.Context, id string) (*flow.Flow, error) {
	start := time.Now()
	f, err := s.load(id)
	observability.Store().OnLoad(ctx, s.Name(), id, time.Since(start), err)
	return f, err
}

func (s *FileStore) load(id string) (*flow.Flow, error) {
	if err := errors.ValidateFlowID(id); err != nil {
		return nil, err
	}
	f, err := flow.ReadFlowFile(s.path(id))
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.New(errors.ErrCodeFlowNotFound, "flow %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "load flow %s", id)
	}
	return f, nil
}

// Save validates and writes a flow document, replacing any previous version.
func (s *FileStore) Save(ctx context.Context, f *flow.Flow) error {
	start := time.Now()
	err := s.save(f)
	observability.Store().OnSave(ctx, s.Name(), f.ID, time.Since(start), err)
	return err
}

func (s *FileStore) save(f *flow.Flow) error {
	if err := errors.ValidateFlowID(f.ID); err != nil {
		return err
	}
	if err := flow.Validate(f); err != nil {
		return err
	}
	if err := flow.WriteFlowFile(f, s.path(f.ID)); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "save flow %s", f.ID)
	}
	return nil
}

// Delete removes a flow document.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateFlowID(id); err != nil {
		return err
	}
	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return errors.New(errors.ErrCodeFlowNotFound, "flow %s not found", id)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete flow %s", id)
	}
	return nil
}

// List returns summaries for every flow in the directory, sorted by id.
// Unreadable files are skipped rather than failing the whole listing.
func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list flows in %s", s.dir)
	}

	var out []Summary
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		f, err := flow.ReadFlowFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		out = append(out, summarize(f))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Close does nothing for file stores.
func (s *FileStore) Close(ctx context.Context) error { return nil }

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

var _ Store = (*FileStore)(nil)
