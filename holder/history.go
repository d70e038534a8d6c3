package holder

import (
	"Vixtral/lib/sl"
	"Vixtral/storage"
	"log/slog"
)

// HistoryManager records edits; storage failures are logged, never returned,
// so a broken database does not fail an edit that already succeeded.
type HistoryManager struct {
	storage storage.HistoryStorage
	log     *slog.Logger
}

func NewHistoryManager(store storage.HistoryStorage, log *slog.Logger) *HistoryManager {
	return &HistoryManager{
		storage: store,
		log:     log.With(sl.Module("history")),
	}
}

func (hm *HistoryManager) Record(record *storage.EditRecord) {
	if err := hm.storage.Save(record); err != nil {
		hm.log.With(slog.Int64("user", record.UserId)).Error("saving edit record", sl.Err(err))
	}
}

func (hm *HistoryManager) Recent(userId int64, limit int) []storage.EditRecord {
	list, err := hm.storage.ListByUser(userId, limit)
	if err != nil {
		hm.log.With(slog.Int64("user", userId)).Error("listing edit records", sl.Err(err))
		return nil
	}
	return list
}

func (hm *HistoryManager) Close() error {
	return hm.storage.Close()
}
