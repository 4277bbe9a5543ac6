package notify

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	gomail "gopkg.in/mail.v2"
)

// EmailConfig は SMTP の接続設定です。
type EmailConfig struct {
	SMTPServer string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	FromEmail  string
	ToEmail    string
}

// Enabled は送信に必要な設定が揃っているかを返します。
func (c EmailConfig) Enabled() bool {
	return c.SMTPServer != "" && c.ToEmail != "" && c.FromEmail != ""
}

// Sender は Message を配信する機能のインターフェースを定義します。
type Sender interface {
	Send(msg *Message) error
}

// EmailSender は SMTP でメールを送信します。
type EmailSender struct {
	cfg    EmailConfig
	logger *zap.Logger
}

// NewEmailSender は SMTP 設定から EmailSender を生成します。
func NewEmailSender(cfg EmailConfig, logger *zap.Logger) *EmailSender {
	if cfg.SMTPPort == 0 {
		cfg.SMTPPort = 587
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailSender{cfg: cfg, logger: logger}
}

// Send はHTML本文とプレーンテキストの代替本文を持つメールを送信します。
// 設定が不足している場合は何もしません。
func (s *EmailSender) Send(msg *Message) error {
	if !s.cfg.Enabled() || msg == nil {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.FromEmail)
	m.SetHeader("To", s.cfg.ToEmail)
	m.SetHeader("Subject", msg.Subject)

	if msg.HTML != "" && msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	} else if msg.HTML != "" {
		m.SetBody("text/html", msg.HTML)
	} else {
		m.SetBody("text/plain", msg.Text)
	}

	dialer := gomail.NewDialer(s.cfg.SMTPServer, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPass)
	dialer.Timeout = 10 * time.Second

	if err := dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("メール送信に失敗しました (To: %s): %w", s.cfg.ToEmail, err)
	}
	s.logger.Info("メールを送信しました", zap.String("subject", msg.Subject))
	return nil
}
