package manifest

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
)

// DEF_TEXT_PRIORITY is used for text lines that carry only a URL.
const DEF_TEXT_PRIORITY = PRIORITY_IMAGE

// ParseText reads one resource per line, either "priority url" or "url".
// Blank lines and lines starting with # are skipped.
func ParseText(r io.Reader, base *url.URL) ([]Resource, error) {
	var out []Resource
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		res := Resource{Priority: DEF_TEXT_PRIORITY}
		switch len(fields) {
		case 1:
			res.URL = fields[0]
		case 2:
			p, err := strconv.Atoi(fields[0])
			if err != nil {
				return nil, &ParseError{Line: line, Cause: fmt.Errorf("invalid priority %q", fields[0])}
			}
			res.Priority = p
			res.URL = fields[1]
		default:
			return nil, &ParseError{Line: line, Cause: fmt.Errorf("expected \"priority url\", got %d fields", len(fields))}
		}
		u, err := resolve(base, res.URL)
		if err != nil {
			return nil, &ParseError{Line: line, Cause: err}
		}
		res.URL = u
		out = append(out, res)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return Dedupe(out), nil
}
