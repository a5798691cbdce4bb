package httpx

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// PageRequest is a zero based page index and a page size.
type PageRequest struct {
	Number int
	Size   int
}

// Offset is the number of rows to skip.
func (p PageRequest) Offset() int { return p.Number * p.Size }

// ParsePage reads the page and size query parameters. Missing or invalid
// values fall back to page 0 and defSize; size is capped at maxSize.
func ParsePage(r *http.Request, defSize, maxSize int) PageRequest {
	q := r.URL.Query()
	p := PageRequest{Size: defSize}

	if n, err := strconv.Atoi(q.Get("page")); err == nil && n >= 0 {
		p.Number = n
	}
	if n, err := strconv.Atoi(q.Get("size")); err == nil && n > 0 {
		p.Size = min(n, maxSize)
	}
	return p
}

// SetPaginationHeaders writes X-Total-Count and an RFC 8288 Link header with
// next, prev, last and first relations.
func SetPaginationHeaders(w http.ResponseWriter, u *url.URL, p PageRequest, total int64) {
	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))

	lastPage := 0
	if p.Size > 0 && total > 0 {
		lastPage = int((total - 1) / int64(p.Size))
	}

	var links []string
	if p.Number < lastPage {
		links = append(links, pageLink(u, p.Number+1, p.Size, "next"))
	}
	if p.Number > 0 {
		links = append(links, pageLink(u, p.Number-1, p.Size, "prev"))
	}
	links = append(links,
		pageLink(u, lastPage, p.Size, "last"),
		pageLink(u, 0, p.Size, "first"),
	)
	w.Header().Set("Link", strings.Join(links, ","))
}

func pageLink(u *url.URL, page, size int, rel string) string {
	next := *u
	q := next.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	next.RawQuery = q.Encode()
	return fmt.Sprintf(`<%s>; rel="%s"`, next.String(), rel)
}
