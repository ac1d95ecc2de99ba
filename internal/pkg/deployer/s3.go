package deployer

import (
	"context"
	"fmt"

	"github.com/saas-factory/api/internal/infra/blob"
	"github.com/saas-factory/api/internal/modules/model"
	"github.com/saas-factory/api/internal/pkg/utils/mime"
	"github.com/saas-factory/api/internal/pkg/utils/path"
	"go.uber.org/zap"
)

type ObjectStore interface {
	Put(ctx context.Context, o blob.Object) error
	PublicURL(prefix string) string
}

// S3 uploads every file under sites/<slug>/ and serves it from the public base URL.
type S3 struct {
	store ObjectStore
	log   *zap.Logger
}

func NewS3(store ObjectStore, log *zap.Logger) *S3 {
	return &S3{store: store, log: log}
}

func (d *S3) Provider() string { return model.DeployProviderS3 }

func (d *S3) Deploy(ctx context.Context, req Request) (*Result, error) {
	if req.Code == nil || len(req.Code.Files) == 0 {
		return nil, ErrNoFiles
	}
	prefix := "sites/" + Slug(req.Name, req.ProjectID)
	for _, f := range req.Code.Files {
		p := path.Normalize(f.Path)
		if err := path.ValidateFilePath(p); err != nil {
			return nil, fmt.Errorf("file %q: %w", f.Path, err)
		}
		body := []byte(f.Content)
		if err := d.store.Put(ctx, blob.Object{
			Key:          prefix + "/" + p,
			Body:         body,
			ContentType:  mime.ContentType(p, body),
			CacheControl: mime.CacheControl(p),
		}); err != nil {
			return nil, err
		}
	}
	d.log.Info("static site uploaded", zap.String("prefix", prefix), zap.Int("files", len(req.Code.Files)))
	return &Result{URL: d.store.PublicURL(prefix), ExternalID: prefix}, nil
}
