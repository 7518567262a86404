package logger

import (
	"github.com/rs/zerolog"

	"ccscraper/pkg/models"
)

// LogArchivePage logs the parse result of one archive page
func LogArchivePage(l Logger, path models.ArchivePageRef, page models.ArchivePage) {
	next := ""
	if page.Next != nil {
		next = string(*page.Next)
	}
	l.InfoWithFields("Archive page parsed", map[string]interface{}{
		"page":   string(path),
		"models": len(page.Models),
		"next":   next,
	})
}

// LogPhotoOutcome logs one photo download outcome at a level matching its kind
func LogPhotoOutcome(l Logger, model string, photo models.PhotoRef, outcome models.DownloadOutcome) {
	fields := map[string]interface{}{
		"model":   model,
		"ordinal": photo.Ordinal,
		"file":    outcome.Path,
		"outcome": outcome.Kind.String(),
	}

	switch outcome.Kind {
	case models.OutcomeSaved:
		fields["size"] = outcome.Size
		l.DebugWithFields("Photo saved", fields)
	case models.OutcomeSkippedExisting:
		l.DebugWithFields("Photo already present", fields)
	case models.OutcomeInvalid:
		l.WithError(outcome.Err).WarnWithFields("Photo rejected", fields)
	case models.OutcomeFailed:
		l.WithError(outcome.Err).ErrorWithFields("Photo download failed", fields)
	}
}

// LogSummary logs the final counts of a run
func LogSummary(l Logger, s models.Summary) {
	l.InfoWithFields("Harvest complete", map[string]interface{}{
		"pages":   s.Pages,
		"models":  s.Models,
		"photos":  s.Photos,
		"saved":   s.Saved,
		"skipped": s.Skipped,
		"invalid": s.Invalid,
		"failed":  s.Failed,
		"bytes":   s.Bytes,
	})
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}
