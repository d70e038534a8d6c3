package storage

import "time"

const (
	StatusDone   = "done"
	StatusFailed = "failed"
)

type EditRecord struct {
	Id        string    `bson:"_id" json:"id"`
	UserId    int64     `bson:"user_id" json:"user_id"`
	Provider  string    `bson:"provider" json:"provider"`
	ImageURL  string    `bson:"image_url" json:"image_url"`
	Prompt    string    `bson:"prompt" json:"prompt"`
	Images    []string  `bson:"images" json:"images"`
	Status    string    `bson:"status" json:"status"`
	Error     string    `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// HistoryStorage keeps every edit made through the bot.
type HistoryStorage interface {
	// Save assigns Id and CreatedAt when they are empty
	Save(record *EditRecord) error
	// Get returns nil when the record does not exist
	Get(id string) (*EditRecord, error)
	// ListByUser returns newest records first, at most limit of them
	ListByUser(userId int64, limit int) ([]EditRecord, error)
	Close() error
}
