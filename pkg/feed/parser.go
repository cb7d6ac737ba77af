package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed/atom"
	ext "github.com/mmcdole/gofeed/extensions"

	"github.com/umputun/nwsalerts/pkg/domain"
)

// CAPNamespace is the namespace of the CAP 1.1 children of every feed entry
const CAPNamespace = "urn:oasis:names:tc:emergency:cap:1.1"

// Parse converts a CAP-over-Atom document into a domain.Feed.
// Entries keep the document order. A date that can't be parsed is left nil,
// a document that can't be loaded fails with domain.ErrMalformedFeed.
func Parse(body []byte) (*domain.Feed, error) {
	af, err := (&atom.Parser{}).Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedFeed, err)
	}

	// gofeed keys extensions by the prefix the document binds, match by namespace instead
	prefixes, err := namespacePrefixes(body, CAPNamespace)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedFeed, err)
	}

	res := &domain.Feed{
		ID:      af.ID,
		Updated: parseDate(af.Updated),
		Title:   af.Title,
		Link:    firstLink(af.Links),
		Entries: make([]domain.RawEntry, 0, len(af.Entries)),
	}
	if af.Generator != nil {
		res.Generator = af.Generator.Value
	}

	for _, e := range af.Entries {
		c := capFields{exts: e.Extensions, prefixes: prefixes}
		res.Entries = append(res.Entries, domain.RawEntry{
			ID:        e.ID,
			Updated:   parseDate(e.Updated),
			Published: parseDate(e.Published),
			Title:     e.Title,
			Link:      firstLink(e.Links),
			Summary:   e.Summary,
			Event:     c.get("event"),
			Effective: parseDate(c.get("effective")),
			Expires:   parseDate(c.get("expires")),
			Status:    c.get("status"),
			MsgType:   c.get("msgType"),
			Category:  c.get("category"),
			Urgency:   c.get("urgency"),
			Severity:  c.get("severity"),
			Certainty: c.get("certainty"),
			AreaDesc:  c.get("areaDesc"),
			Polygon:   c.get("polygon"),
		})
	}
	return res, nil
}

// capFields reads CAP values out of an entry's extensions
type capFields struct {
	exts     ext.Extensions
	prefixes []string
}

// get returns the first value of the CAP element, empty if absent
func (c capFields) get(name string) string {
	for _, prefix := range c.prefixes {
		for _, n := range []string{name, strings.ToLower(name)} {
			if vals := c.exts[prefix][n]; len(vals) > 0 {
				return strings.TrimSpace(vals[0].Value)
			}
		}
	}
	return ""
}

// namespacePrefixes collects every prefix bound to ns anywhere in the document.
// The namespace itself is included, gofeed uses it as the key for undeclared prefixes.
func namespacePrefixes(body []byte, ns string) ([]string, error) {
	res := []string{}
	seen := map[string]bool{}
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			res = append(res, p)
		}
	}

	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.Strict = false
	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("scan namespaces: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		for _, attr := range se.Attr {
			if strings.TrimSpace(attr.Value) != ns {
				continue
			}
			switch {
			case attr.Name.Space == "xmlns":
				add(attr.Name.Local)
				add(strings.ToLower(attr.Name.Local))
			case attr.Name.Space == "" && attr.Name.Local == "xmlns":
				add("")
			}
		}
	}
	add(ns)
	return res, nil
}

func firstLink(links []*atom.Link) string {
	for _, l := range links {
		if l != nil && l.Href != "" {
			return l.Href
		}
	}
	return ""
}

// parseDate parses an ISO-8601 timestamp with offset, nil for empty or invalid input
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return nil
	}
	return &t
}
