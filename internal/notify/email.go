package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/luminance-studio/studio-scheduler/internal/config"
)

const sendgridURL = "https://api.sendgrid.com/v3/mail/send"

type EmailSender struct {
	cfg    *config.Config
	client *http.Client
}

func NewEmailSender(cfg *config.Config) *EmailSender {
	return &EmailSender{
		cfg:    cfg,
		client: &http.Client{},
	}
}

func (s *EmailSender) Name() string { return "email" }

func (s *EmailSender) Send(ctx context.Context, ev Event) error {
	if s.cfg.SendgridAPIKey == "" || ev.Email == "" {
		return nil
	}

	subject, text := renderTemplate(ev)

	payload := map[string]any{
		"personalizations": []map[string]any{
			{"to": []map[string]string{{"email": ev.Email, "name": ev.Name}}},
		},
		"from": map[string]string{
			"email": s.cfg.FromEmail,
			"name":  s.cfg.FromName,
		},
		"subject": subject,
		"content": []map[string]string{
			{"type": "text/plain", "value": text},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendgridURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.SendgridAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid status %d", resp.StatusCode)
	}
	return nil
}

func renderTemplate(ev Event) (subject, text string) {
	when := ev.StartTime.Format("02/01/2006 15:04")

	switch ev.Template {
	case TemplateConfirmed:
		return "Turno confirmado ✔",
			fmt.Sprintf("Hola %s! Tu turno de %s quedó confirmado para el %s.", ev.Name, ev.ServiceName, when)
	case TemplateCancelled:
		return "Turno cancelado",
			fmt.Sprintf("Hola %s. Tu turno de %s del %s fue cancelado.", ev.Name, ev.ServiceName, when)
	case TemplateReminder:
		return "Recordatorio de turno",
			fmt.Sprintf("Hola %s! Te recordamos tu turno de %s el %s. Te esperamos!", ev.Name, ev.ServiceName, when)
	default:
		return "Novedades de tu turno", fmt.Sprintf("Turno de %s: %s", ev.ServiceName, when)
	}
}
