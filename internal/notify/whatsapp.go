package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/luminance-studio/studio-scheduler/internal/config"
)

type WhatsAppSender struct {
	cfg    *config.Config
	client *http.Client
}

func NewWhatsAppSender(cfg *config.Config) *WhatsAppSender {
	return &WhatsAppSender{
		cfg:    cfg,
		client: &http.Client{},
	}
}

func (s *WhatsAppSender) Name() string { return "whatsapp" }

func (s *WhatsAppSender) Send(ctx context.Context, ev Event) error {
	if s.cfg.TwilioAccountSID == "" || s.cfg.TwilioAuthToken == "" || ev.Phone == "" {
		return nil
	}

	_, text := renderTemplate(ev)

	endpoint := fmt.Sprintf(
		"https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json",
		s.cfg.TwilioAccountSID,
	)

	form := url.Values{}
	form.Set("From", "whatsapp:"+s.cfg.TwilioWhatsAppNumber)
	form.Set("To", "whatsapp:"+ev.Phone)
	form.Set("Body", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(s.cfg.TwilioAccountSID, s.cfg.TwilioAuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("twilio status %d", resp.StatusCode)
	}
	return nil
}
