package azure

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/rs/zerolog/log"

	"github.com/Chapsvision-dev/supabase-token/internal/store"
)

type downloadFunc func(ctx context.Context, container, blob string) (io.ReadCloser, error)

// BlobStore reads items from blobs named <prefix>/<key> in one container.
type BlobStore struct {
	container string
	prefix    string
	authMode  string
	download  downloadFunc
}

func (s *BlobStore) Name() string { return "azure" }

func (s *BlobStore) Close() error { return nil }

// BlobName returns the blob backing key.
func (s *BlobStore) BlobName(key string) string {
	prefix := strings.Trim(strings.TrimSpace(s.prefix), "/")
	if prefix == "" {
		return strings.TrimPrefix(key, "/")
	}
	return path.Join(prefix, key)
}

func (s *BlobStore) GetItem(ctx context.Context, key string) ([]byte, error) {
	name := s.BlobName(key)
	logger := log.With().Str("action", "azure_get").Str("container", s.container).
		Str("blob", name).Str("auth", s.authMode).Logger()

	body, err := s.download(ctx, s.container, name)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			logger.Debug().Msg("no stored item")
			return nil, store.ErrNotFound
		}
		if bloberror.HasCode(err,
			bloberror.AuthorizationFailure,
			bloberror.AuthorizationPermissionMismatch,
			bloberror.AuthenticationFailed) {
			return nil, fmt.Errorf("not authorized to read %s/%s; a container SAS needs at least r: %w", s.container, name, err)
		}
		return nil, fmt.Errorf("download %s/%s: %w", s.container, name, err)
	}
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(io.LimitReader(body, store.MaxItemSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s/%s: %w", s.container, name, err)
	}
	if len(data) > store.MaxItemSize {
		return nil, fmt.Errorf("read %s/%s: item exceeds %d bytes", s.container, name, store.MaxItemSize)
	}
	logger.Debug().Int("bytes", len(data)).Msg("item read")
	return data, nil
}

func downloadWith(client *azblob.Client) downloadFunc {
	return func(ctx context.Context, container, blob string) (io.ReadCloser, error) {
		resp, err := client.DownloadStream(ctx, container, blob, nil)
		if err != nil {
			return nil, err
		}
		return resp.Body, nil
	}
}
