package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	errs "ccscraper/pkg/errors"
	"ccscraper/pkg/models"
)

// Parser turns archive and gallery markup into references
type Parser struct {
	grammar Grammar
	model   Rule
	photo   Rule
	next    Rule
}

// NewParser creates a Parser for grammar
func NewParser(grammar Grammar) (*Parser, error) {
	if err := grammar.Validate(); err != nil {
		return nil, errs.Wrap(errs.ErrorTypeParsing, "", "invalid extraction grammar", err)
	}
	p := &Parser{grammar: grammar}
	p.model, _ = grammar.Rule(FieldModel)
	p.photo, _ = grammar.Rule(FieldPhoto)
	p.next, _ = grammar.Rule(FieldNext)
	return p, nil
}

// ParseArchivePage returns the gallery references on an archive page in
// document order, minus any whose name is in exclusions, together with the
// link to the next archive page if there is one.
func (p *Parser) ParseArchivePage(html string, exclusions []string) (models.ArchivePage, error) {
	excluded := make(map[string]bool, len(exclusions))
	for _, name := range exclusions {
		excluded[name] = true
	}

	var page models.ArchivePage
	for _, m := range p.model.Pattern.FindAllStringSubmatch(html, -1) {
		name := m[p.model.Group]
		if excluded[name] {
			continue
		}
		page.Models = append(page.Models, models.ModelRef{
			Path: "/" + m[0],
			Name: name,
		})
	}

	href, err := p.nextHref(html)
	if err != nil {
		return models.ArchivePage{}, err
	}
	if href != "" {
		next := models.ArchivePageRef(toPath(href))
		page.Next = &next
	}

	return page, nil
}

// ParseModelPage returns the photo references on a gallery page in document
// order. Ordinals are assigned here, once, from that order.
func (p *Parser) ParseModelPage(html string) []models.PhotoRef {
	paths := p.photo.values(html)
	photos := make([]models.PhotoRef, 0, len(paths))
	for i, path := range paths {
		photos = append(photos, models.PhotoRef{Path: path, Ordinal: i})
	}
	return photos
}

// ModelName derives a model's name from its gallery path, or "" when the
// path is not a gallery path
func (p *Parser) ModelName(path string) string {
	m := p.model.Pattern.FindStringSubmatch(path)
	if m == nil {
		return ""
	}
	return m[p.model.Group]
}

func (p *Parser) nextHref(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", errs.Wrap(errs.ErrorTypeParsing, "", "failed to parse archive page markup", err)
	}

	var href string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.TrimSpace(s.Text()) != p.grammar.NextLinkText {
			return true
		}
		href, _ = s.Attr("href")
		href = strings.TrimSpace(href)
		return href == ""
	})
	if href != "" {
		return href, nil
	}

	if values := p.next.values(html); len(values) > 0 {
		return values[0], nil
	}
	return "", nil
}

// toPath turns an href into a request path on the archive host
func toPath(href string) string {
	if u, err := url.Parse(href); err == nil && u.IsAbs() {
		return u.RequestURI()
	}
	return "/" + strings.TrimPrefix(href, "/")
}

var defaultParser, _ = NewParser(DefaultGrammar())

// ModelName derives a model's name from its gallery path using the default grammar
func ModelName(path string) string {
	return defaultParser.ModelName(path)
}
