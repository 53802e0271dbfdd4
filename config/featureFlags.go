package config

import (
	"os"
	"strings"
)

// RunOutboxDispatcher controls the background side-effect worker.
//
// Set via env:
// - OUTBOX_DISPATCHER=false
//
// Default is on: without the dispatcher, queued invoices and WhatsApp
// notices stay PENDING forever.
func RunOutboxDispatcher() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("OUTBOX_DISPATCHER")))
	if v == "" {
		return true
	}
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// WhatsAppEnabled gates outbound messaging. Document generation still runs
// when this is off, so invoices stay downloadable.
//
// Set via env:
// - WHATSAPP_ENABLED=true
func WhatsAppEnabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("WHATSAPP_ENABLED")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// ReportCacheEnabled gates the redis cache in front of accounting reads.
//
// Set via env:
// - ENABLE_REPORT_CACHE=true
func ReportCacheEnabled() bool {
	v := strings.TrimSpace(os.Getenv("ENABLE_REPORT_CACHE"))
	return v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes") || strings.EqualFold(v, "on")
}
