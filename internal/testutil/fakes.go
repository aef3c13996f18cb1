package testutil

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/devhire/backend/internal/domain"
)

// SentMail records one delivery made through the FakeMailer.
type SentMail struct {
	To       string
	Subject  string
	Template string
	Data     any
}

// FakeMailer captures outgoing mail instead of delivering it.
type FakeMailer struct {
	mu   sync.Mutex
	sent []SentMail
}

func NewFakeMailer() *FakeMailer {
	return &FakeMailer{}
}

func (m *FakeMailer) Send(ctx context.Context, to, subject, templateName string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, SentMail{To: to, Subject: subject, Template: templateName, Data: data})
	return nil
}

// Sent returns a copy of everything captured so far.
func (m *FakeMailer) Sent() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentMail(nil), m.sent...)
}

// LastActivationCode returns the activation code from the most recent
// mail, or an empty string if nothing was sent.
func (m *FakeMailer) LastActivationCode() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sent) == 0 {
		return ""
	}
	v := reflect.ValueOf(m.sent[len(m.sent)-1].Data)
	if v.Kind() != reflect.Struct {
		return ""
	}
	field := v.FieldByName("ActivationCode")
	if !field.IsValid() || field.Kind() != reflect.String {
		return ""
	}
	return field.String()
}

// FakeImageStore keeps uploads in memory.
type FakeImageStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func NewFakeImageStore() *FakeImageStore {
	return &FakeImageStore{objects: make(map[string][]byte)}
}

func (s *FakeImageStore) Upload(ctx context.Context, folder string, data []byte, contentType string) (domain.Upload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := fmt.Sprintf("%s/%s", folder, uuid.New().String())
	s.objects[key] = data
	return domain.Upload{
		URL: "https://fake-storage.test/" + key,
		Key: key,
	}, nil
}

func (s *FakeImageStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

// Deleted returns the keys removed so far.
func (s *FakeImageStore) Deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

// Has reports whether a key is still stored.
func (s *FakeImageStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}
