package main

import (
	"SmartVision/internal/entity"
	"sort"
	"sync"
)

// memoryStore is a non-persistent stand-in for the SQL record store, for
// hosting environments where nothing can be written to disk.
type memoryStore struct {
	mu      sync.RWMutex
	records map[string]entity.DetectionRecord
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		records: make(map[string]entity.DetectionRecord),
	}
}

func (s *memoryStore) Add(record entity.DetectionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = record
}

func (s *memoryStore) List(limit int) []entity.DetectionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]entity.DetectionRecord, 0, len(s.records))
	for _, record := range s.records {
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].ID > records[j].ID
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	return records
}

func (s *memoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
