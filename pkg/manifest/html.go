package manifest

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// ParseHTML extracts image references from an HTML page:
//
//	<link rel="preload" as="image" href>  PRIORITY_PRELOAD
//	<img src> and srcset candidates        PRIORITY_IMAGE
//	<img loading="lazy">                   PRIORITY_LAZY
//
// A <base href> in the document overrides base for the refs after it.
func ParseHTML(r io.Reader, base *url.URL) ([]Resource, error) {
	z := html.NewTokenizer(r)
	var out []Resource
	add := func(ref string, priority int) {
		if ref == "" || strings.HasPrefix(ref, "data:") {
			return
		}
		u, err := resolve(base, ref)
		if err != nil {
			return
		}
		out = append(out, Resource{URL: u, Priority: priority})
	}
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, err
			}
			return Dedupe(out), nil
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			attrs := attrMap(tok.Attr)
			switch tok.Data {
			case "base":
				if href := attrs["href"]; href != "" {
					if u, err := url.Parse(href); err == nil {
						if base != nil {
							u = base.ResolveReference(u)
						}
						base = u
					}
				}
			case "link":
				if hasToken(attrs["rel"], "preload") && strings.EqualFold(attrs["as"], "image") {
					add(attrs["href"], PRIORITY_PRELOAD)
					for _, c := range srcsetURLs(attrs["imagesrcset"]) {
						add(c, PRIORITY_PRELOAD)
					}
				}
			case "img", "source":
				p := PRIORITY_IMAGE
				if strings.EqualFold(attrs["loading"], "lazy") {
					p = PRIORITY_LAZY
				}
				add(attrs["src"], p)
				for _, c := range srcsetURLs(attrs["srcset"]) {
					add(c, p)
				}
			}
		}
	}
}

func attrMap(attrs []html.Attribute) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[strings.ToLower(a.Key)] = strings.TrimSpace(a.Val)
	}
	return m
}

// hasToken reports whether the space-separated list v contains tok.
func hasToken(v, tok string) bool {
	for _, f := range strings.Fields(v) {
		if strings.EqualFold(f, tok) {
			return true
		}
	}
	return false
}

// srcsetURLs returns the URLs of a srcset attribute, dropping the width
// and density descriptors. A candidate URL ends at whitespace and may
// itself contain commas; only trailing commas are separators.
func srcsetURLs(srcset string) []string {
	var out []string
	isSpace := func(b byte) bool {
		return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
	}
	i, n := 0, len(srcset)
	for i < n {
		for i < n && (isSpace(srcset[i]) || srcset[i] == ',') {
			i++
		}
		start := i
		for i < n && !isSpace(srcset[i]) {
			i++
		}
		u := srcset[start:i]
		trimmed := strings.TrimRight(u, ",")
		if trimmed != "" {
			out = append(out, trimmed)
		}
		if trimmed != u {
			continue
		}
		i = skipDescriptors(srcset, i)
	}
	return out
}

// skipDescriptors returns the index of the comma that ends the candidate
// descriptors starting at i, ignoring commas inside parentheses.
func skipDescriptors(srcset string, i int) int {
	depth := 0
	for ; i < len(srcset); i++ {
		switch srcset[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				return i
			}
		}
	}
	return i
}
