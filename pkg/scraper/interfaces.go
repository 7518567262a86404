package scraper

import (
	"context"

	"ccscraper/pkg/fetcher"
	"ccscraper/pkg/models"
)

// PageClient fetches archive and gallery pages as well as photo bytes
type PageClient interface {
	FetchHTML(ctx context.Context, path string) (string, error)
	FetchAsset(ctx context.Context, path string) (*fetcher.Asset, error)
}

// Progress receives the transient status of a run
type Progress interface {
	// Update is called before each photo, current is 1-based
	Update(model string, current, total int)
	// Clear removes the status line before a warning is logged
	Clear()
	// Complete is called once when the traversal has finished
	Complete(summary models.Summary)
}

type nopProgress struct{}

func (nopProgress) Update(string, int, int) {}
func (nopProgress) Clear()                  {}
func (nopProgress) Complete(models.Summary) {}
