package scraper

import (
	"context"
	"fmt"

	"ccscraper/internal/downloader"
	"ccscraper/pkg/config"
	errs "ccscraper/pkg/errors"
	"ccscraper/pkg/extract"
	"ccscraper/pkg/fetcher"
	"ccscraper/pkg/logger"
	"ccscraper/pkg/models"
	"ccscraper/pkg/ratelimit"
	"ccscraper/pkg/storage"
)

// RunOptions are the per-run inputs: where to write and whom to skip
type RunOptions struct {
	// Directory is the destination root, created if absent
	Directory string
	// Exclusions are model names to skip, matched exactly
	Exclusions []string
	// EntryPath overrides the configured first archive page
	EntryPath string
}

// Scraper walks the archive page by page, model by model and photo by
// photo, strictly one request at a time
type Scraper struct {
	client   PageClient
	parser   *extract.Parser
	progress Progress
	config   *config.Config
	logger   logger.Logger
}

// New creates a Scraper talking to the hosts named in cfg
func New(cfg *config.Config, log logger.Logger) (*Scraper, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	limiter := ratelimit.NewTokenBucket(cfg.Download.RequestsPerMinute)
	client := fetcher.New(cfg, limiter, log)

	return NewWithClient(cfg, client, log)
}

// NewWithClient creates a Scraper using client for every request
func NewWithClient(cfg *config.Config, client PageClient, log logger.Logger) (*Scraper, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	parser, err := extract.NewParser(extract.GrammarForAssetHost(cfg.Assets.Host))
	if err != nil {
		return nil, err
	}

	return &Scraper{
		client:   client,
		parser:   parser,
		progress: nopProgress{},
		config:   cfg,
		logger:   log,
	}, nil
}

// SetProgress sets the receiver of progress updates
func (s *Scraper) SetProgress(p Progress) {
	if p == nil {
		p = nopProgress{}
	}
	s.progress = p
}

// Run harvests the whole archive into opts.Directory. It returns when the
// last archive page has been processed, or with the first error that stops
// the traversal: an unusable destination, or a transport failure fetching an
// archive or gallery page. Per-photo failures are counted in the summary and
// never returned.
func (s *Scraper) Run(ctx context.Context, opts RunOptions) (models.Summary, error) {
	var summary models.Summary

	if opts.Directory == "" {
		return summary, errs.New(errs.ErrorTypeUsage, "", "destination directory is required")
	}

	manager, err := storage.NewManager(opts.Directory)
	if err != nil {
		s.logger.WithError(err).Error("Destination directory is not usable")
		return summary, err
	}

	dl := downloader.New(s.client, manager, s.config.Download.MinPhotoSize, s.logger)

	entry := opts.EntryPath
	if entry == "" {
		entry = s.config.Archive.EntryPath
	}

	s.logger.InfoWithFields("Starting harvest", map[string]interface{}{
		"directory":  manager.Root(),
		"entry":      entry,
		"exclusions": opts.Exclusions,
	})

	visited := make(map[models.ArchivePageRef]bool)
	current := models.ArchivePageRef(entry)
	hasCurrent := true

	for hasCurrent {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("harvest interrupted: %w", err)
		}

		if visited[current] {
			s.logger.WarnWithFields("Archive page already visited, stopping traversal", map[string]interface{}{
				"page": string(current),
			})
			break
		}
		visited[current] = true

		page, err := s.fetchArchivePage(ctx, current, opts.Exclusions)
		if err != nil {
			s.logger.WithError(err).WithField("page", string(current)).Error("Failed to read archive page")
			return summary, err
		}
		summary.Pages++

		for _, model := range page.Models {
			if err := s.processModel(ctx, manager, dl, model, &summary); err != nil {
				return summary, err
			}
		}

		hasCurrent = page.HasNext()
		if hasCurrent {
			current = *page.Next
		}
	}

	logger.LogSummary(s.logger, summary)
	s.progress.Complete(summary)

	return summary, nil
}

func (s *Scraper) fetchArchivePage(ctx context.Context, path models.ArchivePageRef, exclusions []string) (models.ArchivePage, error) {
	html, err := s.client.FetchHTML(ctx, string(path))
	if err != nil {
		return models.ArchivePage{}, err
	}

	page, err := s.parser.ParseArchivePage(html, exclusions)
	if err != nil {
		return models.ArchivePage{}, err
	}

	logger.LogArchivePage(s.logger, path, page)
	return page, nil
}

// processModel downloads every photo of one gallery. A gallery served with
// an error status has no photos and is not an error; a transport failure
// fetching it or a model directory that cannot be created is.
func (s *Scraper) processModel(ctx context.Context, manager *storage.Manager, dl *downloader.Downloader, model models.ModelRef, summary *models.Summary) error {
	log := s.logger.WithField("model", model.Name)

	// The directory is created before the gallery is fetched, so a gallery
	// without photos still leaves an empty model directory behind.
	dir, err := manager.EnsureDir(model.Name)
	if err != nil {
		if errs.IsType(err, errs.ErrorTypeValidation) {
			log.WithError(err).Warn("Skipping model with unusable name")
			return nil
		}
		log.WithError(err).Error("Cannot create model directory")
		return err
	}

	html, err := s.client.FetchHTML(ctx, model.Path)
	if err != nil {
		log.WithError(err).Error("Failed to read gallery page")
		return err
	}

	photos := s.parser.ParseModelPage(html)
	summary.Models++

	log.InfoWithFields("Gallery parsed", map[string]interface{}{
		"path":   model.Path,
		"photos": len(photos),
	})

	defer s.progress.Clear()

	for i, photo := range photos {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("harvest interrupted: %w", err)
		}

		s.progress.Update(model.Name, i+1, len(photos))

		outcome := dl.DownloadPhoto(ctx, photo, dir, photo.Filename(s.config.Download.FileExtension))
		summary.Record(outcome)
		if outcome.Kind == models.OutcomeInvalid || outcome.Kind == models.OutcomeFailed {
			s.progress.Clear()
		}
		logger.LogPhotoOutcome(s.logger, model.Name, photo, outcome)
	}

	return nil
}
