package resolve

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ewintr.nl/ytstats/model"
	"golang.org/x/net/html"
)

const youtubeBaseURL = "https://www.youtube.com"

// Page finds channel ids by reading the og:url meta tag of the public
// channel page.
type Page struct {
	baseURL string
	client  *http.Client
}

func NewPage() *Page {
	return &Page{
		baseURL: youtubeBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *Page) Resolve(ctx context.Context, handle string) (model.YoutubeChannelID, error) {
	pageURL := fmt.Sprintf("%s/@%s", p.baseURL, url.PathEscape(strings.TrimPrefix(handle, "@")))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: no page at %s", ErrHandleNotFound, pageURL)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("get %s: status %d", pageURL, resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", pageURL, err)
	}
	canonical := ogURL(doc)
	if canonical == "" {
		return "", fmt.Errorf("%w: no og:url on %s", ErrHandleNotFound, pageURL)
	}

	return channelFromURL(canonical)
}

// ogURL returns the content of the first <meta property="og:url">.
func ogURL(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "meta" && getAttr(n, "property") == "og:url" {
		return getAttr(n, "content")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if v := ogURL(c); v != "" {
			return v
		}
	}
	return ""
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// channelFromURL takes the id out of https://www.youtube.com/channel/<id>.
func channelFromURL(raw string) (model.YoutubeChannelID, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse og:url %q: %w", raw, err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] != "channel" || parts[1] == "" {
		return "", fmt.Errorf("%w: og:url %q is not a channel url", ErrHandleNotFound, raw)
	}

	return model.YoutubeChannelID(parts[1]), nil
}
