package smtp

import (
	"context"
	"fmt"
	"time"

	"github.com/moodcircle-api/internal/config"
	"gopkg.in/gomail.v2"
)

// Mailer delivers one-time login codes.
type Mailer interface {
	SendOTP(ctx context.Context, to, code string, expiry time.Duration) error
}

type mailer struct {
	dialer  *gomail.Dialer
	from    string
	timeout time.Duration
}

func NewMailer(cfg *config.Config) Mailer {
	return &mailer{
		dialer:  gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:    cfg.SMTPFrom,
		timeout: cfg.EmailTimeout,
	}
}

// SendOTP sends the code with both plain-text and HTML bodies. Dispatch is
// bounded by the configured timeout; SMTP servers that hang must not hold the
// login request open indefinitely.
func (m *mailer) SendOTP(ctx context.Context, to, code string, expiry time.Duration) error {
	minutes := int(expiry.Minutes())

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your MoodCircle Verification Code")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Your MoodCircle verification code is: %s\n\nThis code expires in %d minutes.\n\nIf you didn't request this code, please ignore this email.",
		code, minutes,
	))
	msg.AddAlternative("text/html", fmt.Sprintf(`<html><body style="font-family:sans-serif">
<h2>MoodCircle</h2>
<p>Your verification code is:</p>
<p style="font-size:32px;letter-spacing:8px;font-weight:bold">%s</p>
<p>This code expires in %d minutes.</p>
<p style="color:#666;font-size:12px">Share your emotions, not your identity.</p>
</body></html>`, code, minutes))

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- m.dialer.DialAndSend(msg) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send otp email: %w", err)
		}
		return nil
	case <-ctx.Done():
		// The dial goroutine is abandoned; it fails on its own once the
		// connection times out server-side.
		return fmt.Errorf("send otp email: %w", ctx.Err())
	}
}
