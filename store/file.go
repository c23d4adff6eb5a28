package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"unicode"

	"github.com/spf13/afero"

	"github.com/lvillar/signpdf/fields"
)

// FileStore keeps one JSON file per key in a directory of an afero
// filesystem. Use afero.NewOsFs for disk storage and afero.NewMemMapFs in
// tests.
type FileStore struct {
	fs     afero.Fs
	dir    string
	logger *slog.Logger
}

// NewFileStore returns a FileStore rooted at dir, creating it if needed.
func NewFileStore(fsys afero.Fs, dir string, logger *slog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: creating %s: %w", dir, err)
	}
	return &FileStore{fs: fsys, dir: dir, logger: logger}, nil
}

// Path returns the file a key is stored in.
func (s *FileStore) Path(key string) string {
	return path.Join(s.dir, FileName(key))
}

// record is the file layout: the editing state plus the key it was saved
// under.
type record struct {
	Key string `json:"key,omitempty"`
	fields.EditingState
}

// Load reads the state stored under key. It returns ErrNotFound when no
// file exists for it.
func (s *FileStore) Load(ctx context.Context, key string) (fields.EditingState, error) {
	if err := ctx.Err(); err != nil {
		return fields.EditingState{}, err
	}
	p := s.Path(key)
	data, err := afero.ReadFile(s.fs, p)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("no stored state", "key", key, "path", p)
		return fields.EditingState{}, ErrNotFound
	}
	if err != nil {
		return fields.EditingState{}, fmt.Errorf("store: reading %s: %w", p, err)
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return fields.EditingState{}, fmt.Errorf("store: decoding %s: %w", p, err)
	}
	st := rec.EditingState
	if st.Fields == nil {
		st.Fields = fields.FieldsByPage{}
	}
	return st, nil
}

// Save writes st under key, replacing any previous state atomically.
func (s *FileStore) Save(ctx context.Context, key string, st fields.EditingState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(record{Key: key, EditingState: st}, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encoding state: %w", err)
	}
	p := s.Path(key)
	tmp := p + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("store: writing %s: %w", tmp, err)
	}
	if err := s.fs.Rename(tmp, p); err != nil {
		return fmt.Errorf("store: renaming %s: %w", tmp, err)
	}
	s.logger.Debug("stored state", "key", key, "fields", st.Fields.Count())
	return nil
}

// Delete removes the state stored under key. Missing keys are not an error.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.fs.Remove(s.Path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("store: deleting %s: %w", key, err)
	}
	return nil
}

// Keys lists the stored keys. Files written without a key fall back to
// their file-name form (see FileName).
func (s *FileStore) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	infos, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, fmt.Errorf("store: listing %s: %w", s.dir, err)
	}
	var keys []string
	for _, fi := range infos {
		name := fi.Name()
		if fi.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		key := KeyPrefix + strings.TrimSuffix(name, ".json")
		if data, err := afero.ReadFile(s.fs, path.Join(s.dir, name)); err == nil {
			var rec record
			if json.Unmarshal(data, &rec) == nil && rec.Key != "" {
				key = rec.Key
			}
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// FileName maps a key to a safe file name: the prefix is dropped and every
// rune other than letters, digits, '.', '-' and '_' becomes '_'. Names that
// change under this mapping get a short hash of the original appended, so
// distinct keys never share a file.
func FileName(key string) string {
	raw := strings.TrimPrefix(key, KeyPrefix)
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, raw)
	name = strings.Trim(name, ".")
	if name == "" {
		name = "_"
	}
	if name != raw {
		sum := sha256.Sum256([]byte(raw))
		name += "-" + hex.EncodeToString(sum[:4])
	}
	return name + ".json"
}
