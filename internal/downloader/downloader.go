package downloader

import (
	"context"
	"fmt"
	"path/filepath"

	errs "ccscraper/pkg/errors"
	"ccscraper/pkg/fetcher"
	"ccscraper/pkg/logger"
	"ccscraper/pkg/models"
)

// PhotoFetcher fetches photo bytes from the asset host
type PhotoFetcher interface {
	FetchAsset(ctx context.Context, path string) (*fetcher.Asset, error)
}

// PhotoStorage persists photos without ever overwriting one
type PhotoStorage interface {
	Exists(path string) bool
	Save(path string, data []byte) error
}

// Downloader fetches, validates and saves one photo at a time
type Downloader struct {
	client       PhotoFetcher
	storage      PhotoStorage
	minPhotoSize int
	logger       logger.Logger
}

// New creates a Downloader. Payloads of minPhotoSize bytes or fewer are
// rejected as invalid.
func New(client PhotoFetcher, storage PhotoStorage, minPhotoSize int, log logger.Logger) *Downloader {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Downloader{
		client:       client,
		storage:      storage,
		minPhotoSize: minPhotoSize,
		logger:       log,
	}
}

// DownloadPhoto saves ref to dir/filename. Nothing is fetched when the file
// is already there. Every failure is reported in the outcome; none is
// returned as an error, so one bad photo never stops its siblings.
func (d *Downloader) DownloadPhoto(ctx context.Context, ref models.PhotoRef, dir, filename string) models.DownloadOutcome {
	target := filepath.Join(dir, filename)

	if d.storage.Exists(target) {
		return models.DownloadOutcome{Kind: models.OutcomeSkippedExisting, Path: target}
	}

	asset, err := d.client.FetchAsset(ctx, ref.Path)
	if err != nil {
		return models.DownloadOutcome{Kind: models.OutcomeFailed, Path: target, Err: err}
	}

	if !asset.OK() {
		msg := "unexpected response status"
		if asset.Status >= 500 {
			msg = "server error"
		}
		return models.DownloadOutcome{
			Kind: models.OutcomeInvalid,
			Path: target,
			Err:  errs.New(errs.ErrorTypeValidation, ref.Path, msg).WithCode(asset.Status),
		}
	}

	size := len(asset.Body)
	if size <= d.minPhotoSize {
		return models.DownloadOutcome{
			Kind: models.OutcomeInvalid,
			Path: target,
			Size: size,
			Err:  errs.New(errs.ErrorTypeValidation, ref.Path, fmt.Sprintf("payload of %d bytes is too small", size)),
		}
	}

	if err := d.storage.Save(target, asset.Body); err != nil {
		return models.DownloadOutcome{Kind: models.OutcomeFailed, Path: target, Size: size, Err: err}
	}

	d.logger.DebugWithFields("Photo written", map[string]interface{}{
		"path": target,
		"size": size,
	})

	return models.DownloadOutcome{Kind: models.OutcomeSaved, Path: target, Size: size}
}
