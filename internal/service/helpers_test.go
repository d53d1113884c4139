package service

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/sofiamancini/bancore/internal/config"
)

// stubVerifier avoids bcrypt cost in unit tests: hash("x") == "hashed:x".
type stubVerifier struct{}

func (stubVerifier) Hash(plain string) (string, error) {
	return "hashed:" + plain, nil
}

func (stubVerifier) Verify(plain, hash string) bool {
	return hash == "hashed:"+plain
}

func stubHash(plain string) *string {
	h := "hashed:" + plain
	return &h
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAuthConfig() *config.AuthConfig {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	return &cfg.Auth
}

// captureSink records sent notifications for assertion.
type captureSink struct {
	mu   sync.Mutex
	sent []sentMail
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (s *captureSink) Send(_ context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (s *captureSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func (s *captureSink) last() sentMail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent[len(s.sent)-1]
}
