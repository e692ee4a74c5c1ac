package notifier

import (
	"crypto/tls"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"strings"

	"reviewrot/internal/config"
	"reviewrot/pkg/models"
)

// EmailNotifier sends the full review list as one HTML digest.
type EmailNotifier struct {
	config     *config.Config
	recipients []string
}

// NewEmailNotifier creates a new email notifier
func NewEmailNotifier(cfg *config.Config, recipients []string) *EmailNotifier {
	return &EmailNotifier{config: cfg, recipients: recipients}
}

// Notify renders the whole sorted sequence in a single template pass and
// hands the document to the SMTP server. Send failures are not retried.
func (e *EmailNotifier) Notify(reviews []models.Review) error {
	if len(e.recipients) == 0 {
		return nil
	}

	subject := fmt.Sprintf("Code Review Reminder - %d reviews pending", len(reviews))
	body, err := e.generateEmailBody(reviews)
	if err != nil {
		return fmt.Errorf("error generating email body: %v", err)
	}

	return e.sendEmail(subject, body)
}

var digestTemplate = template.Must(template.New("digest").Parse(`<html>
<body>
<h2>Code Review Reminder</h2>
<p>The following {{.Total}} open reviews are waiting for attention:</p>
<ul>
{{- range .Reviews}}
<li>
<b>{{.User}}</b> filed <a href="{{.URL}}">{{.Title}}</a> {{.Since}} ago
{{- if eq .Comments 1}}, {{.Comments}} comment{{end}}
{{- if gt .Comments 1}}, {{.Comments}} comments{{end}}
{{- if .LastComment}}, last comment by <b>{{.LastComment.Author}}</b>{{end}}
</li>
{{- end}}
</ul>
<p>This is an automated notification from reviewrot.</p>
</body>
</html>
`))

// generateEmailBody creates the digest document from the entire result set.
func (e *EmailNotifier) generateEmailBody(reviews []models.Review) (string, error) {
	data := struct {
		Total   int
		Reviews []models.Review
	}{
		Total:   len(reviews),
		Reviews: reviews,
	}

	var body strings.Builder
	if err := digestTemplate.Execute(&body, data); err != nil {
		return "", err
	}
	return body.String(), nil
}

// sendEmail sends the digest using SMTP
func (e *EmailNotifier) sendEmail(subject, body string) error {
	mailer := e.config.Mailer
	to := strings.Join(e.recipients, ",")
	msg := fmt.Sprintf("To: %s\r\nFrom: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		to, mailer.Sender, subject, body)

	addr := fmt.Sprintf("%s:%d", mailer.Host, mailer.Port)

	var auth smtp.Auth
	if mailer.User != "" && mailer.Password != "" {
		auth = smtp.PlainAuth("", mailer.User, mailer.Password, mailer.Host)
	}

	var err error
	if mailer.Port == 465 {
		// Implicit TLS
		err = e.sendWithTLS(addr, auth, mailer.Sender, e.recipients, []byte(msg))
	} else {
		// STARTTLS on 587, plain for local testing servers
		err = smtp.SendMail(addr, auth, mailer.Sender, e.recipients, []byte(msg))
	}

	if err != nil {
		slog.Error("Failed to send email", "error", err)
		return fmt.Errorf("failed to send email: %v", err)
	}

	slog.Info("Email digest sent", "recipients", e.recipients, "subject", subject)
	return nil
}

// sendWithTLS sends email over an implicit-TLS connection
func (e *EmailNotifier) sendWithTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	tlsConfig := &tls.Config{
		ServerName: e.config.Mailer.Host,
	}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, e.config.Mailer.Host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return err
		}
	}

	if err = client.Mail(from); err != nil {
		return err
	}
	for _, recipient := range to {
		if err = client.Rcpt(recipient); err != nil {
			return err
		}
	}

	writer, err := client.Data()
	if err != nil {
		return err
	}
	defer writer.Close()

	_, err = writer.Write(msg)
	return err
}
