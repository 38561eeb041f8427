package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"

	"github.com/set-night/chatexport/internal/domain"
)

type memStore struct {
	mu   sync.Mutex
	data map[int64]map[string]string
	err  error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[int64]map[string]string)}
}

func (m *memStore) Get(_ context.Context, userID int64, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.data[userID][key]
	return v, ok, nil
}

func (m *memStore) GetAll(_ context.Context, userID int64) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[string]string)
	for k, v := range m.data[userID] {
		out[k] = v
	}
	return out, nil
}

func (m *memStore) Set(_ context.Context, userID int64, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.data[userID] == nil {
		m.data[userID] = make(map[string]string)
	}
	m.data[userID][key] = value
	return nil
}

func (m *memStore) Increment(_ context.Context, userID int64, key string, delta int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	if m.data[userID] == nil {
		m.data[userID] = make(map[string]string)
	}
	n, _ := strconv.ParseInt(m.data[userID][key], 10, 64)
	n += delta
	m.data[userID][key] = strconv.FormatInt(n, 10)
	return n, nil
}

type memExports struct {
	mu   sync.Mutex
	recs []domain.ExportRecord
}

func (m *memExports) Create(_ context.Context, rec *domain.ExportRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, *rec)
	return nil
}

func (m *memExports) ListByUser(_ context.Context, userID int64, limit, offset int) ([]domain.ExportRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var mine []domain.ExportRecord
	for _, r := range m.recs {
		if r.UserID == userID {
			mine = append(mine, r)
		}
	}
	sort.SliceStable(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })
	if offset >= len(mine) {
		return nil, nil
	}
	end := offset + limit
	if end > len(mine) {
		end = len(mine)
	}
	return mine[offset:end], nil
}

func (m *memExports) CountByUser(_ context.Context, userID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.recs {
		if r.UserID == userID {
			n++
		}
	}
	return n, nil
}

type fakeUploader struct {
	calls []string
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, name, mime string, data []byte) (string, error) {
	f.calls = append(f.calls, name+"|"+mime)
	if f.err != nil {
		return "", f.err
	}
	if len(data) == 0 {
		return "", errors.New("empty upload")
	}
	return "drive-file-1", nil
}

type fakePublisher struct {
	events []*domain.ExportRecord
	err    error
}

func (f *fakePublisher) PublishExport(rec *domain.ExportRecord) error {
	f.events = append(f.events, rec)
	return f.err
}
