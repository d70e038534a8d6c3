package bot

import (
	"Vixtral/core"
	"Vixtral/lib/sl"
	"Vixtral/reddit"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

const (
	errorResponse = "Sorry, the edit did not work this time. Please try again later."
	editTimeout   = 5 * time.Minute
	historyLimit  = 5
)

const helpText = `You can use the following commands:
/help - show this help
/edit <image_url> <prompt> - edit an image
/requests - latest image edit requests from Reddit
/prompt <n> - draft an edit prompt for request n
/history - your last edits
Or send a photo with the prompt as its caption.`

type TgBot struct {
	conf        *core.Config
	log         *slog.Logger
	api         *tgbotapi.BotAPI
	studio      core.EditService
	botUsername string

	mutex    sync.Mutex
	listings map[int64][]reddit.Post
}

func NewTgBot(conf *core.Config, log *slog.Logger) (*TgBot, error) {
	api, err := tgbotapi.NewBotAPI(conf.Telegram.ApiKey)
	if err != nil {
		return nil, fmt.Errorf("creating bot api: %w", err)
	}
	username := conf.Telegram.Username
	if username == "" {
		username = api.Self.UserName
	}
	return &TgBot{
		conf:        conf,
		log:         log.With(sl.Module("tgbot")),
		api:         api,
		botUsername: username,
		listings:    make(map[int64][]reddit.Post),
	}, nil
}

// SetStudio sets the edit service
func (t *TgBot) SetStudio(studio core.EditService) {
	t.studio = studio
}

func (t *TgBot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates, err := t.api.GetUpdatesChan(u)
	if err != nil {
		return fmt.Errorf("getting updates: %w", err)
	}

	for update := range updates {
		if update.Message == nil {
			continue
		}
		go t.handle(update.Message)
	}
	return nil
}

func (t *TgBot) Stop() {
	t.api.StopReceivingUpdates()
}

func (t *TgBot) handle(incoming *tgbotapi.Message) {
	chatId := incoming.Chat.ID
	log := t.log.With(slog.Int64("chat", chatId), sl.Text("text", incoming.Text))

	if incoming.Photo != nil && len(*incoming.Photo) > 0 {
		t.editPhoto(incoming)
		return
	}
	if !incoming.IsCommand() {
		if incoming.Chat.IsPrivate() {
			t.plainResponse(chatId, helpText)
		}
		return
	}
	log.With(slog.String("command", incoming.Command())).Info("incoming command")

	args := strings.TrimSpace(incoming.CommandArguments())
	switch incoming.Command() {
	case "start", "help":
		t.plainResponse(chatId, helpText)
	case "edit":
		imageURL, prompt, err := parseEditArgs(args)
		if err != nil {
			t.plainResponse(chatId, err.Error())
			return
		}
		t.runEdit(chatId, imageURL, prompt)
	case "requests":
		t.sendRequests(chatId, args == "refresh")
	case "prompt":
		t.suggestPrompt(chatId, args)
	case "history":
		t.plainResponse(chatId, formatHistory(t.studio.History(chatId, historyLimit)))
	default:
		t.plainResponse(chatId, "Unknown command. "+helpText)
	}
}

// editPhoto edits the largest size of an uploaded photo, the caption is the prompt.
func (t *TgBot) editPhoto(incoming *tgbotapi.Message) {
	chatId := incoming.Chat.ID
	prompt := strings.TrimSpace(incoming.Caption)
	if prompt == "" {
		t.plainResponse(chatId, "Add the edit prompt as the photo caption.")
		return
	}
	photos := *incoming.Photo
	largest := photos[len(photos)-1]
	imageURL, err := t.api.GetFileDirectURL(largest.FileID)
	if err != nil {
		t.log.With(slog.Int64("chat", chatId)).Error("getting photo url", sl.Err(err))
		t.plainResponse(chatId, errorResponse)
		return
	}
	t.runEdit(chatId, imageURL, prompt)
}

func (t *TgBot) runEdit(chatId int64, imageURL, prompt string) {
	ctx, cancel := context.WithTimeout(context.Background(), editTimeout)
	defer cancel()

	var result *core.EditResult
	var err error
	t.withChatAction(chatId, tgbotapi.ChatUploadPhoto, func() {
		result, err = t.studio.Edit(ctx, chatId, imageURL, prompt)
	})
	if err != nil {
		t.plainResponse(chatId, errorResponse)
		return
	}
	if len(result.Images) == 0 {
		t.plainResponse(chatId, "The model returned no images.")
		return
	}
	for _, image := range result.Images {
		t.sendImage(chatId, image)
	}
}

func (t *TgBot) sendRequests(chatId int64, refresh bool) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	posts, err := t.studio.Requests(ctx, refresh)
	if err != nil {
		t.log.With(slog.Int64("chat", chatId)).Error("fetching requests", sl.Err(err))
		t.plainResponse(chatId, "Failed to fetch posts.")
		return
	}
	t.mutex.Lock()
	t.listings[chatId] = posts
	t.mutex.Unlock()

	t.plainResponse(chatId, formatRequests(posts))
}

func (t *TgBot) suggestPrompt(chatId int64, args string) {
	t.mutex.Lock()
	posts := t.listings[chatId]
	t.mutex.Unlock()

	post, err := pickPost(posts, args)
	if err != nil {
		t.plainResponse(chatId, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var prompt string
	t.withChatAction(chatId, tgbotapi.ChatTyping, func() {
		prompt, err = t.studio.SuggestPrompt(ctx, post.Title, post.URL)
	})
	if err != nil {
		t.log.With(slog.Int64("chat", chatId)).Error("suggesting prompt", sl.Err(err))
		t.plainResponse(chatId, "Failed to generate prompt.")
		return
	}
	t.plainResponse(chatId, fmt.Sprintf("/edit %s %s", post.URL, prompt))
}

// NotifyRequests posts new requests to the configured chat, if any.
func (t *TgBot) NotifyRequests(posts []reddit.Post) {
	chatId := t.conf.Telegram.NotifyChatId
	if chatId == 0 || len(posts) == 0 {
		return
	}
	t.mutex.Lock()
	t.listings[chatId] = posts
	t.mutex.Unlock()

	t.plainResponse(chatId, "New requests:\n"+formatRequests(posts))
}

// withChatAction keeps the chat action visible every 5 seconds while fn runs.
func (t *TgBot) withChatAction(chatId int64, action string, fn func()) {
	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()

		t.sendChatAction(chatId, action)
		for {
			select {
			case <-ticker.C:
				t.sendChatAction(chatId, action)
			case <-stop:
				return
			}
		}
	}()

	fn()
	close(stop)
	<-done
}

func (t *TgBot) sendChatAction(chatId int64, action string) {
	if _, err := t.api.Send(tgbotapi.NewChatAction(chatId, action)); err != nil {
		t.log.Debug("sending chat action", sl.Err(err))
	}
}

func (t *TgBot) sendImage(chatId int64, image string) {
	var msg tgbotapi.PhotoConfig
	if data, ok := decodeDataURI(image); ok {
		msg = tgbotapi.NewPhotoUpload(chatId, tgbotapi.FileBytes{Name: "edit.png", Bytes: data})
	} else {
		msg = tgbotapi.NewPhotoShare(chatId, image)
	}
	if _, err := t.api.Send(msg); err != nil {
		t.log.With(slog.Int64("chat", chatId)).Error("sending photo", sl.Err(err))
		// some hosts refuse telegram's fetcher, the link still works
		if !strings.HasPrefix(image, "data:") {
			t.plainResponse(chatId, image)
		}
	}
}

func (t *TgBot) plainResponse(chatId int64, text string) {
	msg := tgbotapi.NewMessage(chatId, text)
	msg.DisableWebPagePreview = true
	if _, err := t.api.Send(msg); err != nil {
		t.log.With(slog.Int64("chat", chatId)).Error("sending message", sl.Err(err))
	}
}

func decodeDataURI(uri string) ([]byte, bool) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, false
	}
	_, payload, found := strings.Cut(uri, ";base64,")
	if !found {
		return nil, false
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, false
	}
	return data, true
}
