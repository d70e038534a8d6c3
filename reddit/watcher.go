package reddit

import (
	"Vixtral/lib/sl"
	"context"
	"log/slog"
	"sync"
	"time"
)

// Watcher polls the feed in the background and reports posts it has not seen.
// The first poll only records what is already there.
type Watcher struct {
	feed     *Feed
	log      *slog.Logger
	interval time.Duration
	onNew    func([]Post)

	seen     map[string]bool
	seeded   bool
	mutex    sync.Mutex
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewWatcher(feed *Feed, interval time.Duration, onNew func([]Post), log *slog.Logger) *Watcher {
	return &Watcher{
		feed:     feed,
		log:      log.With(sl.Module("reddit-watcher")),
		interval: interval,
		onNew:    onNew,
		seen:     make(map[string]bool),
		stopChan: make(chan struct{}),
	}
}

func (w *Watcher) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		w.log.Info("watching requests", slog.Duration("interval", w.interval))
		w.Poll(context.Background())

		for {
			select {
			case <-ticker.C:
				w.Poll(context.Background())
			case <-w.stopChan:
				w.log.Info("watcher stopped")
				return
			}
		}
	}()
}

// Stop ends the polling loop and waits for it to return
func (w *Watcher) Stop() {
	close(w.stopChan)
	w.wg.Wait()
}

// Poll refreshes the feed once and returns the posts that were new.
func (w *Watcher) Poll(ctx context.Context) []Post {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	posts, err := w.feed.Requests(ctx, true)
	if err != nil {
		w.log.Error("polling requests", sl.Err(err))
		return nil
	}

	w.mutex.Lock()
	var fresh []Post
	for _, p := range posts {
		if w.seen[p.Id] {
			continue
		}
		w.seen[p.Id] = true
		if w.seeded {
			fresh = append(fresh, p)
		}
	}
	w.seeded = true
	w.mutex.Unlock()

	if len(fresh) > 0 {
		w.log.Info("new requests", slog.Int("count", len(fresh)))
		if w.onNew != nil {
			w.onNew(fresh)
		}
	}
	return fresh
}
