package service

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/noah-isme/bioscizone-api/internal/models"
)

// LogFeedbackNotifier records new feedback in the service log.
type LogFeedbackNotifier struct {
	logger zerolog.Logger
}

// NewLogFeedbackNotifier constructs a logging notifier.
func NewLogFeedbackNotifier(logger zerolog.Logger) *LogFeedbackNotifier {
	return &LogFeedbackNotifier{logger: logger.With().Str("component", "feedback_delivery").Logger()}
}

// Notify logs the submission and always succeeds.
func (l *LogFeedbackNotifier) Notify(ctx context.Context, feedback models.Feedback) error {
	l.logger.Info().Uint("feedback_id", feedback.ID).Str("subject", feedback.Subject).Msg("feedback delivered to inbox")
	return nil
}

// FanoutNotifier forwards feedback to every configured notifier and joins their errors.
type FanoutNotifier []FeedbackNotifier

// Notify calls each notifier in order, even when an earlier one fails.
func (f FanoutNotifier) Notify(ctx context.Context, feedback models.Feedback) error {
	var errs []error
	for _, notifier := range f {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(ctx, feedback); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Publisher is the subset of *nats.Conn used to emit events.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// FeedbackEvent is the message published for each new feedback.
type FeedbackEvent struct {
	ID         uint      `json:"id"`
	SenderName string    `json:"sender_name"`
	Subject    string    `json:"subject"`
	CreatedAt  time.Time `json:"created_at"`
}

// NATSFeedbackNotifier publishes a feedback.created event.
type NATSFeedbackNotifier struct {
	publisher Publisher
	subject   string
}

// NewNATSFeedbackNotifier constructs a notifier publishing on the subject.
func NewNATSFeedbackNotifier(publisher Publisher, subject string) *NATSFeedbackNotifier {
	if strings.TrimSpace(subject) == "" {
		subject = "bioscizone.feedback.created"
	}
	return &NATSFeedbackNotifier{publisher: publisher, subject: subject}
}

// Notify publishes the event. The sender's e-mail is left out of the payload.
func (n *NATSFeedbackNotifier) Notify(ctx context.Context, feedback models.Feedback) error {
	payload, err := json.Marshal(FeedbackEvent{
		ID:         feedback.ID,
		SenderName: feedback.SenderName,
		Subject:    feedback.Subject,
		CreatedAt:  feedback.CreatedAt,
	})
	if err != nil {
		return err
	}
	if err := n.publisher.Publish(n.subject, payload); err != nil {
		return fmt.Errorf("publish feedback event: %w", err)
	}
	return nil
}

// SMTPConfig configures outbound feedback e-mail.
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	FromName   string
	Recipients []string
	Timeout    time.Duration
}

// SMTPFeedbackNotifier e-mails new feedback to the department inbox.
type SMTPFeedbackNotifier struct {
	cfg    SMTPConfig
	policy *bluemonday.Policy
	logger zerolog.Logger
}

// NewSMTPFeedbackNotifier constructs an SMTP notifier.
func NewSMTPFeedbackNotifier(cfg SMTPConfig, logger zerolog.Logger) *SMTPFeedbackNotifier {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &SMTPFeedbackNotifier{
		cfg:    cfg,
		policy: bluemonday.StrictPolicy(),
		logger: logger.With().Str("component", "feedback_smtp").Logger(),
	}
}

// Notify sends the notification e-mail using STARTTLS when the server offers it.
func (n *SMTPFeedbackNotifier) Notify(ctx context.Context, feedback models.Feedback) error {
	if len(n.cfg.Recipients) == 0 {
		return nil
	}

	message := n.buildMessage(feedback)
	address := net.JoinHostPort(n.cfg.Host, strconv.Itoa(n.cfg.Port))

	ctx, cancel := context.WithTimeout(ctx, n.cfg.Timeout)
	defer cancel()

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, n.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: n.cfg.Host}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}
	if n.cfg.Username != "" {
		if err := client.Auth(smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := client.Mail(n.cfg.Username); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	for _, recipient := range n.cfg.Recipients {
		if err := client.Rcpt(recipient); err != nil {
			return fmt.Errorf("smtp rcpt %s: %w", recipient, err)
		}
	}
	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := writer.Write(message); err != nil {
		writer.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}

	n.logger.Info().Uint("feedback_id", feedback.ID).Int("recipients", len(n.cfg.Recipients)).Msg("feedback e-mail sent")
	return client.Quit()
}

func feedbackEmailSubject(feedback models.Feedback) string {
	return fmt.Sprintf("[BiosciZone] Feedback mới từ %s", feedback.SenderName)
}

func (n *SMTPFeedbackNotifier) buildMessage(feedback models.Feedback) []byte {
	escape := n.policy.Sanitize
	studentID := "Không có"
	if feedback.StudentID != nil && *feedback.StudentID != "" {
		studentID = *feedback.StudentID
	}

	var body bytes.Buffer
	body.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"></head><body style="font-family:'Segoe UI',Tahoma,sans-serif">`)
	body.WriteString(`<h2>Có Feedback Mới!</h2><table cellpadding="6">`)
	fmt.Fprintf(&body, `<tr><td><b>Họ tên:</b></td><td>%s</td></tr>`, escape(feedback.SenderName))
	fmt.Fprintf(&body, `<tr><td><b>Email:</b></td><td>%s</td></tr>`, escape(feedback.Email))
	fmt.Fprintf(&body, `<tr><td><b>MSSV:</b></td><td>%s</td></tr>`, escape(studentID))
	fmt.Fprintf(&body, `<tr><td><b>Chủ đề:</b></td><td><strong>%s</strong></td></tr></table>`, escape(feedback.Subject))
	fmt.Fprintf(&body, `<div style="white-space:pre-wrap;background:#f8f9fa;padding:16px">%s</div>`, escape(feedback.Message))
	body.WriteString(`<p style="color:#888;font-size:12px">Email này được gửi tự động từ hệ thống BiosciZone.<br>Vui lòng đăng nhập vào Admin Panel để phản hồi.</p>`)
	body.WriteString(`</body></html>`)

	from := n.cfg.Username
	if n.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", n.cfg.FromName), n.cfg.Username)
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(n.cfg.Recipients, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", feedbackEmailSubject(feedback)))
	fmt.Fprintf(&msg, "Reply-To: %s\r\n", feedback.Email)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())
	return msg.Bytes()
}
