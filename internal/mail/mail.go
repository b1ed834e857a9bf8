// Package mail renders digest emails and delivers them over SMTP.
package mail

import (
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"

	"github.com/Hesdy24/ai-news-digest/internal/config"
)

// Mailer delivers one rendered message to one recipient.
type Mailer interface {
	Send(recipient, subject, htmlBody string) error
}

// SMTPMailer sends mail through a plain-auth SMTP account. SendMail
// negotiates STARTTLS when the server offers it.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(recipient, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	msg := Message(m.cfg.Username, recipient, subject, htmlBody)
	if err := smtp.SendMail(addr, auth, m.cfg.Username, []string{recipient}, msg); err != nil {
		return fmt.Errorf("sending mail to %s: %w", recipient, err)
	}
	return nil
}

// Message assembles an RFC 5322 HTML message.
func Message(from, to, subject, htmlBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

// DigestEmail is the data rendered into the weekly digest layout.
type DigestEmail struct {
	AudienceName string
	Date         string
	ArticleCount int
	Summary      string
}

// Subject returns the digest email subject line.
func (d DigestEmail) Subject() string {
	return fmt.Sprintf("AI News Digest - %s - %s", d.AudienceName, d.Date)
}

var digestTmpl = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>AI News Digest - {{.AudienceName}}</title>
    <style>
        body {
            font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f5f5f5;
        }
        .container {
            background-color: white;
            padding: 30px;
            border-radius: 10px;
            box-shadow: 0 2px 10px rgba(0,0,0,0.1);
        }
        .header {
            text-align: center;
            border-bottom: 3px solid #007bff;
            padding-bottom: 20px;
            margin-bottom: 30px;
        }
        .header h1 {
            color: #007bff;
            margin: 0;
            font-size: 28px;
        }
        .header p {
            color: #666;
            margin: 10px 0 0 0;
            font-size: 16px;
        }
        .stats {
            background-color: #e3f2fd;
            padding: 15px;
            border-radius: 5px;
            margin: 20px 0;
            text-align: center;
        }
        .summary {
            background-color: #f8f9fa;
            padding: 20px;
            border-radius: 8px;
            margin: 20px 0;
            white-space: pre-line;
        }
        .footer {
            text-align: center;
            margin-top: 30px;
            padding-top: 20px;
            border-top: 1px solid #eee;
            color: #666;
            font-size: 14px;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>AI News Digest</h1>
            <p>Weekly summary for {{.AudienceName}}</p>
            <p>{{.Date}}</p>
        </div>
        <div class="stats">
            {{.ArticleCount}} articles analyzed this week
        </div>
        <div class="summary">{{.Summary}}</div>
        <div class="footer">
            <p>This email is generated automatically by the AI News Digest system</p>
        </div>
    </div>
</body>
</html>
`))

// RenderDigest renders the weekly digest HTML body.
func RenderDigest(d DigestEmail) (string, error) {
	var b strings.Builder
	if err := digestTmpl.Execute(&b, d); err != nil {
		return "", fmt.Errorf("rendering digest email: %w", err)
	}
	return b.String(), nil
}

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.Title}}</title></head>
<body style="font-family: 'Segoe UI', sans-serif; color: #333;">
    <h2>{{.Title}}</h2>
    <pre style="background: #f8f9fa; padding: 15px; border-radius: 5px;">{{.Body}}</pre>
</body>
</html>
`))

// RenderReport wraps a plain-text status report for email delivery.
func RenderReport(title, body string) (string, error) {
	var b strings.Builder
	err := reportTmpl.Execute(&b, struct{ Title, Body string }{title, body})
	if err != nil {
		return "", fmt.Errorf("rendering report email: %w", err)
	}
	return b.String(), nil
}

// FormatDate renders a date the way digest subjects and headers show it.
func FormatDate(t time.Time) string {
	return t.Format("2 January 2006")
}
