// Package media picks picture renditions for display and inspects pictures
// before they are published.
package media

import (
	"fmt"
	"slices"
	"strings"
)

// Size is a rendition size tag as it appears in object names, e.g. "-md.".
type Size string

const (
	XS Size = "xs"
	SM Size = "sm"
	MD Size = "md"
	LG Size = "lg"
	XL Size = "xl"
)

// sizeOrder lists sizes smallest first.
var sizeOrder = []Size{XS, SM, MD, LG, XL}

var minWidth = map[Size]int{XL: 1200, LG: 992, MD: 768, SM: 576}

// Media returns the media query a rendition of size s is shown for. The
// smallest rendition has none.
func (s Size) Media() string {
	w, ok := minWidth[s]
	if !ok {
		return ""
	}
	return fmt.Sprintf("(min-width: %dpx)", w)
}

func (s Size) matches(url string) bool {
	return strings.Contains(url, "-"+string(s)+".")
}

type Source struct {
	Size  Size
	Media string
	URL   string
}

// Picture is a responsive picture: sources from the widest breakpoint down
// and a fallback Src.
type Picture struct {
	Sources []Source
	Src     string
}

// Renditions arranges urls for display. Sources follow xl, lg, md, sm, xs
// regardless of input order. Src is the original ("-org.") when there is
// more than one URL, otherwise the only URL.
func Renditions(urls []string) Picture {
	var p Picture
	for i := len(sizeOrder) - 1; i >= 0; i-- {
		size := sizeOrder[i]
		for _, u := range urls {
			if size.matches(u) {
				p.Sources = append(p.Sources, Source{Size: size, Media: size.Media(), URL: u})
				break
			}
		}
	}

	switch {
	case len(urls) > 1:
		for _, u := range urls {
			if strings.Contains(u, "-org.") {
				p.Src = u
				break
			}
		}
	case len(urls) == 1:
		p.Src = urls[0]
	}
	return p
}

// SrcSet renders the sources in the order they should be tried, one
// "url media" pair per entry.
func (p Picture) SrcSet() string {
	parts := make([]string, 0, len(p.Sources))
	for _, s := range p.Sources {
		if s.Media == "" {
			parts = append(parts, s.URL)
			continue
		}
		parts = append(parts, s.URL+" "+s.Media)
	}
	return strings.Join(parts, ", ")
}

// LargestURL returns the largest sized rendition in urls, or "" when none
// carries a size tag.
func LargestURL(urls []string) string {
	best, bestRank := "", -1
	for _, u := range urls {
		for rank, size := range sizeOrder {
			if size.matches(u) && rank > bestRank {
				best, bestRank = u, rank
			}
		}
	}
	return best
}

// SizeOf returns the size tag of url.
func SizeOf(url string) (Size, bool) {
	i := slices.IndexFunc(sizeOrder, func(s Size) bool { return s.matches(url) })
	if i < 0 {
		return "", false
	}
	return sizeOrder[i], true
}
