package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Matcher reports whether a node matches a structural marker. Markers are
// matched by substring rather than exact class equality so that trailing
// modifier classes in the source markup don't break recognition.
type Matcher func(*goquery.Selection) bool

// ClassContains matches nodes whose class attribute contains the given
// marker token.
func ClassContains(marker string) Matcher {
	return func(s *goquery.Selection) bool {
		class, ok := s.Attr("class")
		return ok && strings.Contains(class, marker)
	}
}

// ClassContainsAll matches nodes whose class attribute contains every one
// of the given marker tokens.
func ClassContainsAll(markers ...string) Matcher {
	return func(s *goquery.Selection) bool {
		class, ok := s.Attr("class")
		if !ok {
			return false
		}
		for _, m := range markers {
			if !strings.Contains(class, m) {
				return false
			}
		}
		return true
	}
}

// StyleColorEquals matches nodes whose inline style declares the given RGB
// color triplet, e.g. "220,54,46". The source markup uses rgba() colors
// with a variable alpha channel, so only the triplet prefix is compared.
func StyleColorEquals(triplet string) Matcher {
	return func(s *goquery.Selection) bool {
		style, ok := s.Attr("style")
		return ok && strings.Contains(style, "color: rgba("+triplet)
	}
}

// AttrPresent matches nodes that carry the given attribute.
func AttrPresent(name string) Matcher {
	return func(s *goquery.Selection) bool {
		_, ok := s.Attr(name)
		return ok
	}
}

// findFirst returns the first node under root matching the selector and
// matcher, or nil if none matches.
func findFirst(root *goquery.Selection, selector string, m Matcher) *goquery.Selection {
	var found *goquery.Selection
	root.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if m == nil || m(s) {
			found = s
			return false
		}
		return true
	})
	return found
}

// findAll returns all nodes under root matching the selector and matcher,
// in document order.
func findAll(root *goquery.Selection, selector string, m Matcher) []*goquery.Selection {
	var found []*goquery.Selection
	root.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if m == nil || m(s) {
			found = append(found, s)
		}
	})
	return found
}
