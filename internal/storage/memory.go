package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
)

// Memory is an in-process object store used by tests.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	baseURL string

	// Injected failures.
	UploadErr error
	DeleteErr error
}

func NewMemory(baseURL string) *Memory {
	return &Memory{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
		baseURL: baseURL,
	}
}

func (m *Memory) Upload(_ context.Context, key string, body io.Reader, _ int64, contentType string) (string, error) {
	if m.UploadErr != nil {
		return "", m.UploadErr
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = buf.Bytes()
	m.types[key] = contentType
	return m.PublicURL(key), nil
}

func (m *Memory) Download(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrObjectNotFound)
	}
	return data, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	delete(m.types, key)
	return nil
}

func (m *Memory) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s", m.baseURL, key)
}

func (m *Memory) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

func (m *Memory) Put(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
}

func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
