package reddit

import (
	"Vixtral/cache"
	"Vixtral/lib/sl"
	"context"
	"log/slog"
)

const (
	cacheKey      = "reddit_photoshop_requests"
	cacheDuration = cache.DefaultTTL
)

type Fetcher interface {
	FetchNew(ctx context.Context) ([]Post, error)
}

// Feed serves the image posts of a subreddit through a cache.
type Feed struct {
	fetcher Fetcher
	cache   cache.Cache
	log     *slog.Logger
}

func NewFeed(fetcher Fetcher, c cache.Cache, log *slog.Logger) *Feed {
	return &Feed{
		fetcher: fetcher,
		cache:   c,
		log:     log.With(sl.Module("reddit-feed")),
	}
}

// Requests returns cached image posts unless refresh is set or the cache is stale.
func (f *Feed) Requests(ctx context.Context, refresh bool) ([]Post, error) {
	if !refresh {
		var cached []Post
		found, err := f.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			f.log.Warn("reading cache", sl.Err(err))
		}
		if found {
			return cached, nil
		}
	}

	posts, err := f.fetcher.FetchNew(ctx)
	if err != nil {
		return nil, err
	}
	images := FilterImages(posts)
	f.log.With(
		slog.Int("posts", len(posts)),
		slog.Int("images", len(images)),
	).Debug("fetched requests")

	if err := f.cache.Set(ctx, cacheKey, images, cacheDuration); err != nil {
		f.log.Warn("writing cache", sl.Err(err))
	}
	return images, nil
}
