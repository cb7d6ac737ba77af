package feed

import "net/http"

// addFeedHeaders sets request headers for the CAP server.
// The NWS asks clients to identify themselves with a descriptive User-Agent.
func addFeedHeaders(req *http.Request, userAgent string) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/atom+xml,application/rss+xml;q=0.9,application/xml;q=0.8,text/xml;q=0.7")
	// the cap server sets its own expiry, caching is done on our side
	req.Header.Set("Cache-Control", "no-cache")
}
