package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhotoRefFilename(t *testing.T) {
	assert.Equal(t, "0.jpg", PhotoRef{Path: "/abc?AccessKeyId=k", Ordinal: 0}.Filename(".jpg"))
	assert.Equal(t, "12.png", PhotoRef{Ordinal: 12}.Filename(".png"))
}

func TestArchivePageHasNext(t *testing.T) {
	next := ArchivePageRef("/older.html")
	assert.True(t, ArchivePage{Next: &next}.HasNext())
	assert.False(t, ArchivePage{}.HasNext())
}

func TestOutcomeKindString(t *testing.T) {
	assert.Equal(t, "saved", OutcomeSaved.String())
	assert.Equal(t, "skipped_existing", OutcomeSkippedExisting.String())
	assert.Equal(t, "invalid", OutcomeInvalid.String())
	assert.Equal(t, "failed", OutcomeFailed.String())
	assert.Equal(t, "unknown", OutcomeKind(42).String())
}

func TestSummaryRecord(t *testing.T) {
	var s Summary
	s.Record(DownloadOutcome{Kind: OutcomeSaved, Size: 100})
	s.Record(DownloadOutcome{Kind: OutcomeSaved, Size: 50})
	s.Record(DownloadOutcome{Kind: OutcomeSkippedExisting})
	s.Record(DownloadOutcome{Kind: OutcomeInvalid, Err: errors.New("too small")})
	s.Record(DownloadOutcome{Kind: OutcomeFailed, Err: errors.New("reset")})

	assert.Equal(t, Summary{Photos: 5, Saved: 2, Skipped: 1, Invalid: 1, Failed: 1, Bytes: 150}, s)
}
