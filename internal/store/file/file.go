package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Chapsvision-dev/supabase-token/internal/config"
	"github.com/Chapsvision-dev/supabase-token/internal/store"
)

// FileStore reads items from <dir>/<key>.json.
type FileStore struct {
	dir string
}

func (s *FileStore) Name() string { return "file" }

func (s *FileStore) Close() error { return nil }

// Path returns the file backing key.
func (s *FileStore) Path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *FileStore) GetItem(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.Path(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("action", "file_get").Str("file", path).Msg("no stored item")
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, store.MaxItemSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) > store.MaxItemSize {
		return nil, fmt.Errorf("read %s: item exceeds %d bytes", path, store.MaxItemSize)
	}
	log.Debug().Str("action", "file_get").Str("file", path).Int("bytes", len(data)).Msg("item read")
	return data, nil
}

// New returns a file store rooted at dir, or at <user config dir>/supabase
// when dir is empty.
func New(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve session dir: %w", err)
		}
		dir = filepath.Join(base, "supabase")
	}
	return &FileStore{dir: dir}, nil
}

func init() {
	store.Register("file", func(c config.Config) (store.Store, error) {
		return New(c.File.Dir)
	})
}
