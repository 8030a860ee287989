package client

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

type sectionParser struct {
	selectors map[string]string
}

func newSectionParser(selectors map[string]string) *sectionParser {
	return &sectionParser{
		selectors: selectors,
	}
}

func (p *sectionParser) selector(section string) (string, bool) {
	sel, ok := p.selectors[section]
	return sel, ok && sel != ""
}

// ParseSection returns the inner HTML of the first element matching the section's selector.
// found is false when the rendered page does not contain it.
func (p *sectionParser) ParseSection(html, section string) (content string, found bool, err error) {
	sel, ok := p.selector(section)
	if !ok {
		return "", false, fmt.Errorf("no selector configured for section %q", section)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false, fmt.Errorf("failed to parse HTML: %w", err)
	}

	node := doc.Find(sel).First()
	if node.Length() == 0 {
		log.Debugf("Section %s has no element matching %s", section, sel)
		return "", false, nil
	}

	inner, err := node.Html()
	if err != nil {
		return "", false, fmt.Errorf("failed to render section %s: %w", section, err)
	}

	return strings.TrimSpace(inner), true, nil
}
