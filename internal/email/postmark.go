package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
)

// Client sends operator notification emails through Postmark.
type Client struct {
	serverToken string
	fromEmail   string
	toEmail     string
	httpClient  *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func NewClient(serverToken, fromEmail, toEmail string, opts ...Option) *Client {
	c := &Client{
		serverToken: serverToken,
		fromEmail:   fromEmail,
		toEmail:     toEmail,
		httpClient:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured returns true if the server token is set.
func (c *Client) Configured() bool {
	return c.serverToken != "" && c.toEmail != ""
}

type postmarkEmail struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HtmlBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// SendFeedbackNotification forwards a submitted feedback entry to the
// portal operators. Submitter-provided text is escaped before it is
// interpolated into the HTML body.
func (c *Client) SendFeedbackNotification(name, fromEmail, message string) error {
	if !c.Configured() {
		return fmt.Errorf("email client not configured: missing server token")
	}

	if name == "" {
		name = "Anonymous"
	}
	subject := fmt.Sprintf("Campus Hub feedback from %s", name)
	textBody := fmt.Sprintf("From: %s <%s>\n\n%s", name, fromEmail, message)
	htmlBody := fmt.Sprintf(
		`<p><strong>From:</strong> %s &lt;%s&gt;</p><p>%s</p>`,
		html.EscapeString(name), html.EscapeString(fromEmail), html.EscapeString(message),
	)

	payload := postmarkEmail{
		From:     c.fromEmail,
		To:       c.toEmail,
		Subject:  subject,
		HtmlBody: htmlBody,
		TextBody: textBody,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequest("POST", "https://api.postmarkapp.com/email", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.serverToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("postmark API error: status %d", resp.StatusCode)
	}

	return nil
}
