package extract

import (
	"fmt"
	"regexp"
)

// Field names understood by the Parser
const (
	FieldModel = "model"
	FieldPhoto = "photo"
	FieldNext  = "next"
)

// Rule maps one markup pattern to one extracted field. Group selects the
// capture group holding the value; group 0 is the whole match.
type Rule struct {
	Field   string
	Pattern *regexp.Regexp
	Group   int
}

// Grammar is the complete description of the archive's markup. When the
// site changes its layout, this is the only place that needs updating.
type Grammar struct {
	Rules []Rule

	// NextLinkText is the trimmed anchor text of the "older page" link.
	// Anchors are matched on text first; the FieldNext rule is the fallback
	// for markup the HTML parser does not see as an anchor.
	NextLinkText string
}

// DefaultGrammar returns the grammar for the Croquis Cafe photo archive
func DefaultGrammar() Grammar {
	return GrammarForAssetHost("nebula.wsimg.com")
}

// GrammarForAssetHost returns the default grammar with photo references
// matched against the given asset host
func GrammarForAssetHost(host string) Grammar {
	photo := `"src":"//` + regexp.QuoteMeta(host) + `(/[^"]+?\?AccessKeyId=[^&"]+)[^"]*"`
	return Grammar{
		Rules: []Rule{
			{Field: FieldModel, Pattern: regexp.MustCompile(`cc-photo-archive[_-]([^"'\s<>/]+?)\.html`), Group: 1},
			{Field: FieldPhoto, Pattern: regexp.MustCompile(photo), Group: 1},
			{Field: FieldNext, Pattern: regexp.MustCompile(`href="([^"]+)"><span[^>]*>\s*Older Photos\s*</span>`), Group: 1},
		},
		NextLinkText: "Older Photos",
	}
}

// Rule returns the rule for field
func (g Grammar) Rule(field string) (Rule, bool) {
	for _, r := range g.Rules {
		if r.Field == field {
			return r, true
		}
	}
	return Rule{}, false
}

// Validate checks that every field the parser needs has a usable rule
func (g Grammar) Validate() error {
	for _, field := range []string{FieldModel, FieldPhoto, FieldNext} {
		r, ok := g.Rule(field)
		if !ok {
			return fmt.Errorf("grammar has no rule for %q", field)
		}
		if r.Pattern == nil {
			return fmt.Errorf("rule %q has no pattern", field)
		}
		if r.Group < 0 || r.Group > r.Pattern.NumSubexp() {
			return fmt.Errorf("rule %q selects group %d of a pattern with %d groups", field, r.Group, r.Pattern.NumSubexp())
		}
	}
	return nil
}

// values returns the selected group of every match of r in document order
func (r Rule) values(html string) []string {
	matches := r.Pattern.FindAllStringSubmatch(html, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[r.Group])
	}
	return out
}
