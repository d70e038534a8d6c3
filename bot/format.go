package bot

import (
	"Vixtral/reddit"
	"Vixtral/storage"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var errEditUsage = errors.New("usage: /edit <image_url> <prompt>")

func parseEditArgs(args string) (string, string, error) {
	imageURL, prompt, _ := strings.Cut(strings.TrimSpace(args), " ")
	prompt = strings.TrimSpace(prompt)
	if imageURL == "" || prompt == "" {
		return "", "", errEditUsage
	}
	u, err := url.Parse(imageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", "", fmt.Errorf("not an image url: %s", imageURL)
	}
	return imageURL, prompt, nil
}

// pickPost resolves the 1-based index given to /prompt.
func pickPost(posts []reddit.Post, arg string) (reddit.Post, error) {
	if len(posts) == 0 {
		return reddit.Post{}, errors.New("no requests listed, use /requests first")
	}
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 || n > len(posts) {
		return reddit.Post{}, fmt.Errorf("pick a request between 1 and %d", len(posts))
	}
	return posts[n-1], nil
}

func formatRequests(posts []reddit.Post) string {
	if len(posts) == 0 {
		return "No image requests right now."
	}
	var b strings.Builder
	for i, p := range posts {
		fmt.Fprintf(&b, "%d. %s (u/%s)\n%s\n", i+1, p.Title, p.Author, p.URL)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatHistory(records []storage.EditRecord) string {
	if len(records) == 0 {
		return "No edits yet."
	}
	var b strings.Builder
	for _, r := range records {
		fmt.Fprintf(&b, "%s [%s/%s] %s\n", r.CreatedAt.Format(time.DateTime), r.Provider, r.Status, r.Prompt)
		if r.Status == storage.StatusFailed && r.Error != "" {
			fmt.Fprintf(&b, "  error: %s\n", r.Error)
		}
		for _, img := range r.Images {
			if strings.HasPrefix(img, "data:") {
				continue
			}
			fmt.Fprintf(&b, "  %s\n", img)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
