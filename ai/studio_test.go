package ai

import (
	"Vixtral/cache"
	"Vixtral/core"
	"Vixtral/holder"
	"Vixtral/reddit"
	"Vixtral/storage"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEditor struct {
	result *core.EditResult
	err    error
}

func (f *fakeEditor) Name() string { return "fake" }

func (f *fakeEditor) Edit(context.Context, string, string) (*core.EditResult, error) {
	return f.result, f.err
}

type fakePrompter struct{}

func (fakePrompter) GeneratePrompt(_ context.Context, title, _ string) (string, error) {
	return "edit: " + title, nil
}

type fakeFetcher struct{}

func (fakeFetcher) FetchNew(context.Context) ([]reddit.Post, error) {
	return []reddit.Post{{Id: "p1", Title: "Fix it", URL: "https://i.redd.it/p1.jpg"}}, nil
}

func newStudio(editor core.ImageEditor, prompter core.PromptGenerator) *Studio {
	log := discardLogger()
	feed := reddit.NewFeed(fakeFetcher{}, cache.NewMemory(), log)
	history := holder.NewHistoryManager(storage.NewMemoryStorage(), log)
	return NewStudio(editor, prompter, feed, history, log)
}

func TestStudio_EditRecordsSuccess(t *testing.T) {
	s := newStudio(&fakeEditor{result: &core.EditResult{Provider: "fake", Images: []string{"u1", "u2"}}}, nil)

	result, err := s.Edit(context.Background(), 42, "https://i.redd.it/p1.jpg", "blue sky")
	require.NoError(t, err)
	assert.Len(t, result.Images, 2)

	history := s.History(42, 10)
	require.Len(t, history, 1)
	assert.Equal(t, storage.StatusDone, history[0].Status)
	assert.Equal(t, "fake", history[0].Provider)
	assert.Equal(t, []string{"u1", "u2"}, history[0].Images)
}

func TestStudio_EditRecordsFailure(t *testing.T) {
	s := newStudio(&fakeEditor{err: errors.New("quota exceeded")}, nil)

	_, err := s.Edit(context.Background(), 42, "https://i.redd.it/p1.jpg", "blue sky")
	require.Error(t, err)

	history := s.History(42, 10)
	require.Len(t, history, 1)
	assert.Equal(t, storage.StatusFailed, history[0].Status)
	assert.Equal(t, "quota exceeded", history[0].Error)
}

func TestStudio_SuggestPrompt(t *testing.T) {
	_, err := newStudio(&fakeEditor{}, nil).SuggestPrompt(context.Background(), "t", "u")
	assert.ErrorIs(t, err, ErrNoPrompter)

	prompt, err := newStudio(&fakeEditor{}, fakePrompter{}).SuggestPrompt(context.Background(), "Fix it", "u")
	require.NoError(t, err)
	assert.Equal(t, "edit: Fix it", prompt)
}

func TestStudio_Requests(t *testing.T) {
	posts, err := newStudio(&fakeEditor{}, nil).Requests(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "p1", posts[0].Id)
}
