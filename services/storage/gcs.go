package storagesvc

import (
	"context"
	"fmt"
	"io"
	"time"

	gcstorage "cloud.google.com/go/storage"
	"github.com/pkg/errors"

	"github.com/trezcool/hamasa/core"
)

const uploadTimeout = 2 * time.Minute

type gcsService struct {
	client    *gcstorage.Client
	bucket    string
	cdnDomain string
}

var _ core.FileStore = (*gcsService)(nil)

// NewGCSService builds a FileStore backed by a Google Cloud Storage bucket.
// Credentials come from the ambient application-default credentials.
func NewGCSService(ctx context.Context, conf *core.Config) (*gcsService, error) {
	client, err := gcstorage.NewClient(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "creating storage client")
	}
	return &gcsService{
		client:    client,
		bucket:    conf.Storage.Bucket,
		cdnDomain: conf.Storage.CDNDomain,
	}, nil
}

func (svc *gcsService) Upload(ctx context.Context, path, contentType string, r io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := svc.client.Bucket(svc.bucket).Object(path).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return errors.Wrap(err, "writing object")
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "closing object writer")
	}
	return nil
}

func (svc *gcsService) PublicURL(path string) string {
	if svc.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", svc.cdnDomain, path)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", svc.bucket, path)
}

func (svc *gcsService) Close() error { return svc.client.Close() }
