package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

const maxRecordsPerUser = 100

type MemoryStorage struct {
	records map[string]*EditRecord
	byUser  map[int64][]string
	mutex   sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string]*EditRecord),
		byUser:  make(map[int64][]string),
	}
}

func (m *MemoryStorage) Save(record *EditRecord) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	prepare(record)
	stored := *record
	stored.Images = append([]string(nil), record.Images...)

	if _, ok := m.records[record.Id]; !ok {
		ids := append(m.byUser[record.UserId], record.Id)
		// drop the oldest records once a user goes over the limit
		for len(ids) > maxRecordsPerUser {
			delete(m.records, ids[0])
			ids = ids[1:]
		}
		m.byUser[record.UserId] = ids
	}
	m.records[record.Id] = &stored
	return nil
}

func (m *MemoryStorage) Get(id string) (*EditRecord, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	record, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	r := *record
	return &r, nil
}

func (m *MemoryStorage) ListByUser(userId int64, limit int) ([]EditRecord, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	ids := m.byUser[userId]
	list := make([]EditRecord, 0, len(ids))
	for _, id := range ids {
		if r, ok := m.records[id]; ok {
			list = append(list, *r)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (m *MemoryStorage) Close() error {
	return nil
}

func prepare(record *EditRecord) {
	if record.Id == "" {
		record.Id = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
}
