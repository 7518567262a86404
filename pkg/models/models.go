package models

import "strconv"

// ArchivePageRef is the request path of one page of the paginated archive index
type ArchivePageRef string

// ModelRef identifies one model gallery page. Name is derived from Path
// and doubles as the output directory name and the exclusion key.
type ModelRef struct {
	Path string
	Name string
}

// PhotoRef is the request path (including the access-key query) of one
// photo on the asset host. Ordinal is its 0-based position on the gallery page.
type PhotoRef struct {
	Path    string
	Ordinal int
}

// Filename returns the output file name for the photo, e.g. "3.jpg"
func (p PhotoRef) Filename(ext string) string {
	return strconv.Itoa(p.Ordinal) + ext
}

// ArchivePage is the parse result of one archive page. A nil Next ends the traversal.
type ArchivePage struct {
	Models []ModelRef
	Next   *ArchivePageRef
}

// HasNext reports whether the page links to an older archive page
func (a ArchivePage) HasNext() bool {
	return a.Next != nil
}

// OutcomeKind tags the result of one photo download attempt
type OutcomeKind int

const (
	OutcomeSaved OutcomeKind = iota
	OutcomeSkippedExisting
	OutcomeInvalid
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSaved:
		return "saved"
	case OutcomeSkippedExisting:
		return "skipped_existing"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DownloadOutcome is the result of one photo download attempt.
// Err is set for Invalid and Failed outcomes.
type DownloadOutcome struct {
	Kind OutcomeKind
	Path string
	Size int
	Err  error
}

// Summary accumulates counts over a whole run
type Summary struct {
	Pages   int
	Models  int
	Photos  int
	Saved   int
	Skipped int
	Invalid int
	Failed  int

	// Bytes is the total size of the photos saved in this run
	Bytes int64
}

// Record counts one photo outcome
func (s *Summary) Record(o DownloadOutcome) {
	s.Photos++
	switch o.Kind {
	case OutcomeSaved:
		s.Saved++
		s.Bytes += int64(o.Size)
	case OutcomeSkippedExisting:
		s.Skipped++
	case OutcomeInvalid:
		s.Invalid++
	case OutcomeFailed:
		s.Failed++
	}
}
