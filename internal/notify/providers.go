package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/smtp"
	"net/url"
	"strings"
	"time"

	"github.com/careops/careops-server/internal/models"
)

var httpClient = &http.Client{Timeout: 10 * time.Second}

func credential(creds models.JSONMap, key string) string {
	if creds == nil {
		return ""
	}
	if v, ok := creds[key].(string); ok {
		return v
	}
	return ""
}

// --------------------------------------------------
// Sendgrid
// --------------------------------------------------

func sendSendgrid(ctx context.Context, creds models.JSONMap, to, subject, body string) error {
	apiKey := credential(creds, "api_key")
	from := credential(creds, "from_email")
	if apiKey == "" || from == "" {
		return fmt.Errorf("sendgrid credentials incomplete")
	}

	payload := map[string]any{
		"personalizations": []map[string]any{
			{"to": []map[string]string{{"email": to}}},
		},
		"from":    map[string]string{"email": from},
		"subject": subject,
		"content": []map[string]string{
			{"type": "text/plain", "value": body},
		},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.sendgrid.com/v3/mail/send", bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid status %d", resp.StatusCode)
	}
	return nil
}

// --------------------------------------------------
// SMTP
// --------------------------------------------------

func sendSMTP(creds models.JSONMap, to, subject, body string) error {
	host := credential(creds, "host")
	port := credential(creds, "port")
	user := credential(creds, "username")
	pass := credential(creds, "password")
	from := credential(creds, "from_email")

	if host == "" || from == "" {
		return fmt.Errorf("smtp credentials incomplete")
	}
	if port == "" {
		port = "587"
	}

	msg := strings.Join([]string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, pass, host)
	}

	return smtp.SendMail(host+":"+port, auth, from, []string{to}, []byte(msg))
}

// --------------------------------------------------
// Twilio
// --------------------------------------------------

func sendTwilio(ctx context.Context, creds models.JSONMap, to, body string) error {
	sid := credential(creds, "account_sid")
	token := credential(creds, "auth_token")
	from := credential(creds, "from_number")
	if sid == "" || token == "" || from == "" {
		return fmt.Errorf("twilio credentials incomplete")
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", from)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", sid)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(sid, token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("twilio status %d", resp.StatusCode)
	}
	return nil
}
