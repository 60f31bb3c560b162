// Package notify delivers audit verdicts by email.
package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"time"

	"github.com/NikhilVijayakumar/Tula/internal/config"
	"github.com/NikhilVijayakumar/Tula/internal/domain"
	"github.com/NikhilVijayakumar/Tula/internal/report"
)

const (
	sendAttempts = 3
	sendTimeout  = 30 * time.Second
)

// Service sends the rendered audit verdict over SMTP.
type Service struct {
	config config.EmailConfig
	logger *log.Logger
}

// NewService creates a notification Service.
func NewService(cfg config.EmailConfig, logger *log.Logger) *Service {
	return &Service{config: cfg, logger: logger}
}

// SendResult emails the verdict for one audit run.
func (s *Service) SendResult(ctx context.Context, res *domain.AuditResult) error {
	return s.send(ctx, s.buildSubject(res), report.HTML(res))
}

func (s *Service) buildSubject(res *domain.AuditResult) string {
	date := res.Timestamp.Format("Jan 2")
	if res.Approved {
		return fmt.Sprintf("[tula] Audit %s - approved", date)
	}
	return fmt.Sprintf("[tula] Audit %s - NOT approved, %d issues", date, res.TotalIssues())
}

func (s *Service) send(ctx context.Context, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	message := s.buildMessage(subject, htmlBody)

	var lastErr error
	for attempt := 1; attempt <= sendAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.sendWithTimeout(addr, message, sendTimeout); err == nil {
			return nil
		} else {
			lastErr = err
			s.logger.Printf("email attempt %d failed: %v", attempt, err)
		}
		if attempt < sendAttempts {
			time.Sleep(time.Duration(attempt*attempt) * time.Second)
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", sendAttempts, lastErr)
}

func (s *Service) buildMessage(subject, htmlBody string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s <%s>\r\n", s.config.FromName, s.config.FromAddress)
	fmt.Fprintf(&buf, "To: %s\r\n", s.config.ToAddress)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(&buf, "Message-ID: <%d@%s>\r\n", time.Now().UnixNano(), s.config.SMTPHost)
	buf.WriteString("\r\n")
	buf.WriteString(htmlBody)
	return buf.Bytes()
}

func (s *Service) sendWithTimeout(addr string, message []byte, timeout time.Duration) error {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return fmt.Errorf("connecting to SMTP server: %w", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(timeout))

	client, err := smtp.NewClient(conn, s.config.SMTPHost)
	if err != nil {
		return fmt.Errorf("creating SMTP client: %w", err)
	}
	defer client.Quit()

	if s.config.SMTPPort == 587 {
		if err = client.StartTLS(&tls.Config{ServerName: s.config.SMTPHost}); err != nil {
			return fmt.Errorf("starting TLS: %w", err)
		}
	}

	if s.config.SMTPUser != "" && s.config.SMTPPassword != "" {
		auth := smtp.PlainAuth("", s.config.SMTPUser, s.config.SMTPPassword, s.config.SMTPHost)
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("authenticating: %w", err)
		}
	}

	if err = client.Mail(s.config.FromAddress); err != nil {
		return fmt.Errorf("setting sender: %w", err)
	}
	if err = client.Rcpt(s.config.ToAddress); err != nil {
		return fmt.Errorf("setting recipient: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("getting data writer: %w", err)
	}
	if _, err = writer.Write(message); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	return writer.Close()
}
