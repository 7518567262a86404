// Package scraper drives a harvest run from the first archive page to the
// last.
//
// The traversal is an explicit loop over three states. An archive page is
// fetched and parsed; each model it lists is processed in order, which
// means creating or reusing the model's directory, reading its gallery
// and downloading every photo; then the loop advances to the page's
// "older" link. It ends when a page has no such link.
//
// Everything happens sequentially. Photo ordinals come from the order of
// the gallery markup and name the output files, so a second run over the
// same directory finds every completed photo in place and fetches only what
// is missing.
//
// Failure handling follows the scope of what failed. A photo that cannot be
// fetched, is too small or cannot be written is logged and counted, and the
// run moves on. A page served with an error status parses to nothing: an
// archive page without models or an older link ends the traversal, and a
// gallery without photos leaves only its empty directory. A page that cannot
// be fetched at all ends the run with an error.
//
// Usage:
//
//	s, err := scraper.New(cfg, logger.GetLogger())
//	if err != nil {
//	    return err
//	}
//	s.SetProgress(ui.NewProgressLine(os.Stdout))
//	summary, err := s.Run(ctx, scraper.RunOptions{Directory: "photos"})
package scraper
