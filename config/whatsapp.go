package config

import (
	"os"
	"strings"
)

// WhatsAppSettings carries the Cloud API credentials and the public base URL
// under which generated documents are reachable (message templates embed a
// document link, so the server must know its own address).
type WhatsAppSettings struct {
	BaseURL       string // Graph API base, default https://graph.facebook.com/v22.0
	PhoneNumberID string // sender phone-number id
	Token         string // bearer token
	PublicBaseURL string // e.g. https://sweets.example.com
}

func GetWhatsAppSettings() WhatsAppSettings {
	base := strings.TrimSpace(os.Getenv("WHATSAPP_API_BASE_URL"))
	if base == "" {
		base = "https://graph.facebook.com/v22.0"
	}
	return WhatsAppSettings{
		BaseURL:       strings.TrimRight(base, "/"),
		PhoneNumberID: strings.TrimSpace(os.Getenv("WHATSAPP_PHONE_NUMBER_ID")),
		Token:         strings.TrimSpace(os.Getenv("WHATSAPP_API_TOKEN")),
		PublicBaseURL: strings.TrimRight(strings.TrimSpace(os.Getenv("PUBLIC_BASE_URL")), "/"),
	}
}

// DocumentDir is where generated PDFs land; served statically under
// /invoices and /receipts.
func DocumentDir() string {
	dir := strings.TrimSpace(os.Getenv("DOCUMENT_DIR"))
	if dir == "" {
		dir = "documents"
	}
	return dir
}
