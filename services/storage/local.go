package storagesvc

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/hamasa/core"
)

type localService struct {
	root    string
	baseURL string
}

var _ core.FileStore = (*localService)(nil)

// NewLocalService builds a FileStore writing to a local directory, for
// development and tests. Files are served by the API under /media/.
func NewLocalService(conf *core.Config) *localService {
	return &localService{
		root:    conf.Storage.LocalDir,
		baseURL: strings.TrimRight(conf.FrontendBaseURL, "/") + "/media",
	}
}

func (svc *localService) Upload(ctx context.Context, path, contentType string, r io.Reader) error {
	dst := filepath.Join(svc.root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Wrap(err, "creating upload dir")
	}

	f, err := os.Create(dst)
	if err != nil {
		return errors.Wrap(err, "creating upload file")
	}
	defer f.Close()

	if _, err = io.Copy(f, r); err != nil {
		return errors.Wrap(err, "writing upload file")
	}
	return nil
}

func (svc *localService) PublicURL(path string) string {
	return fmt.Sprintf("%s/%s", svc.baseURL, path)
}
