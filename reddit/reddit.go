// Package reddit reads image-editing requests posted to a subreddit.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://www.reddit.com"

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

type Post struct {
	Id         string  `json:"id"`
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Author     string  `json:"author"`
	CreatedUTC float64 `json:"created_utc"`
}

type listing struct {
	Data struct {
		Children []struct {
			Data Post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type Client struct {
	baseURL    string
	subreddit  string
	limit      int
	userAgent  string
	httpClient *http.Client
}

func NewClient(subreddit string, limit int, userAgent string) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		subreddit:  subreddit,
		limit:      limit,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchNew returns the newest posts of the subreddit.
func (c *Client) FetchNew(ctx context.Context) ([]Post, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprint(c.limit))
	endpoint := fmt.Sprintf("%s/r/%s/new.json?%s", c.baseURL, url.PathEscape(c.subreddit), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	// reddit rejects requests without a descriptive user agent
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("getting posts: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("getting posts: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var l listing
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		return nil, fmt.Errorf("decoding posts: %w", err)
	}
	posts := make([]Post, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		posts = append(posts, child.Data)
	}
	return posts, nil
}

// FilterImages keeps posts linking straight to an image file.
func FilterImages(posts []Post) []Post {
	images := make([]Post, 0, len(posts))
	for _, p := range posts {
		if isImageURL(p.URL) {
			images = append(images, p)
		}
	}
	return images
}

func isImageURL(u string) bool {
	if u == "" {
		return false
	}
	lower := strings.ToLower(u)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
