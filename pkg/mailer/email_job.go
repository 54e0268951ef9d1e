package mailer

// EmailJob is the JSON payload published to the RabbitMQ email queue.
// Either set Text/HTML directly or name a Template plus its Data and
// let the worker render it.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "welcome", "verify_email", "purchase_receipt"
	Data     map[string]any `json:"data,omitempty"`
}
