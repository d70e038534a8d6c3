package ai

import (
	"Vixtral/core"
	"Vixtral/holder"
	"Vixtral/lib/sl"
	"Vixtral/reddit"
	"Vixtral/storage"
	"context"
	"errors"
	"log/slog"
)

var ErrNoPrompter = errors.New("prompt generation is not configured")

// Studio runs edits for bot users and remembers them.
type Studio struct {
	editor   core.ImageEditor
	prompter core.PromptGenerator
	feed     *reddit.Feed
	history  *holder.HistoryManager
	log      *slog.Logger
}

// NewStudio wires the edit service; prompter may be nil.
func NewStudio(
	editor core.ImageEditor,
	prompter core.PromptGenerator,
	feed *reddit.Feed,
	history *holder.HistoryManager,
	log *slog.Logger,
) *Studio {
	return &Studio{
		editor:   editor,
		prompter: prompter,
		feed:     feed,
		history:  history,
		log:      log.With(sl.Module("studio")),
	}
}

func (s *Studio) Edit(ctx context.Context, userId int64, imageURL, prompt string) (*core.EditResult, error) {
	record := &storage.EditRecord{
		UserId:   userId,
		Provider: s.editor.Name(),
		ImageURL: imageURL,
		Prompt:   prompt,
	}
	defer s.history.Record(record)

	result, err := s.editor.Edit(ctx, imageURL, prompt)
	if err != nil {
		record.Status = storage.StatusFailed
		record.Error = err.Error()
		s.log.With(slog.Int64("user", userId), sl.Text("url", imageURL)).Error("edit failed", sl.Err(err))
		return nil, err
	}
	record.Status = storage.StatusDone
	record.Images = result.Images

	s.log.With(
		slog.Int64("user", userId),
		slog.String("provider", result.Provider),
		slog.Int("images", len(result.Images)),
	).Info("edit done")
	return result, nil
}

func (s *Studio) SuggestPrompt(ctx context.Context, title, imageURL string) (string, error) {
	if s.prompter == nil {
		return "", ErrNoPrompter
	}
	return s.prompter.GeneratePrompt(ctx, title, imageURL)
}

func (s *Studio) Requests(ctx context.Context, refresh bool) ([]reddit.Post, error) {
	return s.feed.Requests(ctx, refresh)
}

func (s *Studio) History(userId int64, limit int) []storage.EditRecord {
	return s.history.Recent(userId, limit)
}

func (s *Studio) Close() error {
	return s.history.Close()
}
