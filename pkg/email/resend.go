package email

import (
	"bytes"
	"html/template"
	"path/filepath"
	"time"

	"github.com/resendlabs/resend-go"
	"go.uber.org/zap"

	"github.com/imaginehq/imagine-backend/internal/config"
)

type EmailService struct {
	client       *resend.Client
	from         string
	fromName     string
	templatesDir string
	logger       *zap.Logger
}

func NewEmailService(cfg config.EmailConfig, logger *zap.Logger) *EmailService {
	return &EmailService{
		client:       resend.NewClient(cfg.ResendAPIKey),
		from:         cfg.FromAddress,
		fromName:     cfg.FromName,
		templatesDir: "pkg/email/templates",
		logger:       logger,
	}
}

// SendWelcomeEmail greets a freshly registered user. Callers fire this in
// a goroutine, registration never waits on it.
func (s *EmailService) SendWelcomeEmail(emailAddr, name string) error {
	templateData := map[string]interface{}{
		"Name":  name,
		"Email": emailAddr,
		"Year":  time.Now().Year(),
	}

	html, err := s.parseTemplate("welcome.html", templateData)
	if err != nil {
		s.logger.Error("failed to parse welcome template", zap.String("email", emailAddr), zap.Error(err))
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{emailAddr},
		Subject: "Welcome to Imagine!",
		Html:    html,
	}

	resp, err := s.client.Emails.Send(params)
	if err != nil {
		s.logger.Error("failed to send welcome email", zap.String("email", emailAddr), zap.Error(err))
		return err
	}

	s.logger.Info("welcome email sent", zap.String("email", emailAddr), zap.String("id", resp.Id))
	return nil
}

// SendPurchaseEmail confirms a settled credit purchase.
func (s *EmailService) SendPurchaseEmail(emailAddr, name, plan string, credits int) error {
	templateData := map[string]interface{}{
		"Name":    name,
		"Plan":    plan,
		"Credits": credits,
		"Year":    time.Now().Year(),
	}

	html, err := s.parseTemplate("purchase.html", templateData)
	if err != nil {
		s.logger.Error("failed to parse purchase template", zap.String("email", emailAddr), zap.Error(err))
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{emailAddr},
		Subject: "Your credits are ready - Imagine",
		Html:    html,
	}

	resp, err := s.client.Emails.Send(params)
	if err != nil {
		s.logger.Error("failed to send purchase email", zap.String("email", emailAddr), zap.Error(err))
		return err
	}

	s.logger.Info("purchase email sent", zap.String("email", emailAddr), zap.String("id", resp.Id))
	return nil
}

func (s *EmailService) parseTemplate(templateName string, data interface{}) (string, error) {
	templatePath := filepath.Join(s.templatesDir, templateName)

	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", err
	}

	return body.String(), nil
}
