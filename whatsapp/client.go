// Package whatsapp is a small client for the WhatsApp Cloud API
// (graph.facebook.com). Customer notices are either plain text messages or
// pre-approved templates with a PDF document in the header.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bitbucket.org/bharatisweets/sweets_backend/config"
	"bitbucket.org/bharatisweets/sweets_backend/utils"
)

type Client struct {
	settings config.WhatsAppSettings
	http     *http.Client
}

func NewClient() *Client {
	return &Client{
		settings: config.GetWhatsAppSettings(),
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether outbound messaging is both switched on and
// configured with credentials.
func (c *Client) Enabled() bool {
	return config.WhatsAppEnabled() && c.settings.Token != "" && c.settings.PhoneNumberID != ""
}

// DocumentURL turns a served document path (e.g. /invoices/invoice_12.pdf)
// into the absolute URL templates embed.
func (c *Client) DocumentURL(publicPath string) string {
	return c.settings.PublicBaseURL + publicPath
}

type message struct {
	MessagingProduct string    `json:"messaging_product"`
	To               string    `json:"to"`
	Type             string    `json:"type"`
	Text             *text     `json:"text,omitempty"`
	Template         *template `json:"template,omitempty"`
}

type text struct {
	Body string `json:"body"`
}

type template struct {
	Name       string      `json:"name"`
	Language   language    `json:"language"`
	Components []component `json:"components"`
}

type language struct {
	Code string `json:"code"`
}

type component struct {
	Type       string      `json:"type"`
	SubType    string      `json:"sub_type,omitempty"`
	Index      string      `json:"index,omitempty"`
	Parameters []parameter `json:"parameters"`
}

type parameter struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	Document *document `json:"document,omitempty"`
}

type document struct {
	Link     string `json:"link"`
	Filename string `json:"filename"`
}

// SendText sends a free-form text message.
func (c *Client) SendText(ctx context.Context, toPhone, body string) error {
	to, err := utils.NormalizePhoneE164(toPhone)
	if err != nil {
		return fmt.Errorf("normalize phone: %w", err)
	}
	return c.post(ctx, message{
		MessagingProduct: "whatsapp",
		To:               strings.TrimPrefix(to, "+"),
		Type:             "text",
		Text:             &text{Body: body},
	})
}

// SendDocumentTemplate sends the purchase-receipt template: PDF link in the
// header, customer name and order reference in the body.
func (c *Client) SendDocumentTemplate(ctx context.Context, toPhone, templateName, customerName, orderRef, documentPath, fileName string) error {
	to, err := utils.NormalizePhoneE164(toPhone)
	if err != nil {
		return fmt.Errorf("normalize phone: %w", err)
	}
	return c.post(ctx, message{
		MessagingProduct: "whatsapp",
		To:               strings.TrimPrefix(to, "+"),
		Type:             "template",
		Template: &template{
			Name:     templateName,
			Language: language{Code: "en_US"},
			Components: []component{
				{
					Type: "header",
					Parameters: []parameter{
						{Type: "document", Document: &document{
							Link:     c.DocumentURL(documentPath),
							Filename: fileName,
						}},
					},
				},
				{
					Type: "body",
					Parameters: []parameter{
						{Type: "text", Text: customerName},
						{Type: "text", Text: orderRef},
					},
				},
			},
		},
	})
}

func (c *Client) post(ctx context.Context, msg message) error {
	if !c.Enabled() {
		return errors.New("whatsapp messaging is not configured")
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/%s/messages", c.settings.BaseURL, c.settings.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.settings.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("whatsapp api status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
