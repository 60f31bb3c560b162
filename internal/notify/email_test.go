package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/NikhilVijayakumar/Tula/internal/config"
	"github.com/NikhilVijayakumar/Tula/internal/domain"
)

func testService() *Service {
	return NewService(config.EmailConfig{
		SMTPHost:    "smtp.example.com",
		SMTPPort:    587,
		FromAddress: "audit@example.com",
		FromName:    "Tula Audit",
		ToAddress:   "team@example.com",
	}, nil)
}

func TestBuildSubject(t *testing.T) {
	s := testService()
	ts := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)

	approved := &domain.AuditResult{Timestamp: ts, Approved: true}
	assert.Equal(t, "[tula] Audit Aug 24 - approved", s.buildSubject(approved))

	rejected := &domain.AuditResult{
		Timestamp: ts,
		Issues: []domain.Finding{
			{Text: "a", Kind: domain.KindIssue},
			{Text: "b", Kind: domain.KindIssue},
		},
	}
	assert.Equal(t, "[tula] Audit Aug 24 - NOT approved, 2 issues", s.buildSubject(rejected))
}

func TestBuildMessage(t *testing.T) {
	s := testService()
	msg := string(s.buildMessage("subject line", "<html><body>hi</body></html>"))

	assert.Contains(t, msg, "From: Tula Audit <audit@example.com>\r\n")
	assert.Contains(t, msg, "To: team@example.com\r\n")
	assert.Contains(t, msg, "Subject: subject line\r\n")
	assert.Contains(t, msg, "Content-Type: text/html; charset=UTF-8\r\n")
	assert.Contains(t, msg, "\r\n\r\n<html>")
}
