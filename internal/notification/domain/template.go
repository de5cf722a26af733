package domain

import (
	"strings"

	apperrors "github.com/contractflow/contractflow/internal/errors"
)

// templateKey selects a message template. Attempt alone determines the
// wording for a given channel and type, so retried sends never drift.
type templateKey struct {
	Channel Channel
	Type    Type
	Attempt int
}

// templates is the message template lookup table. Adding a channel or a
// reminder stage is a data change here, not a branch anywhere else.
// {{signing_url}} is replaced at render time.
var templates = map[templateKey]string{
	{ChannelWhatsApp, TypeSignatureRequest, 1}:  "Your contract is ready to sign: {{signing_url}}",
	{ChannelWhatsApp, TypeSignatureReminder, 2}: "Reminder: your contract is still waiting for your signature. Sign here: {{signing_url}}",
	{ChannelWhatsApp, TypeSignatureReminder, 3}: "Final reminder: your contract will expire soon. Sign here: {{signing_url}}",
	{ChannelEmail, TypeSignatureRequest, 1}:     "Hello! Your contract is ready for signature. Access it at {{signing_url}}.",
	{ChannelEmail, TypeSignatureReminder, 2}:    "This is a reminder that your contract is awaiting signature. Access it at {{signing_url}}.",
	{ChannelEmail, TypeSignatureReminder, 3}:    "Final notice: your contract is about to expire. Access it at {{signing_url}}.",
}

// RenderContent resolves the template for (channel, type, attempt) and fills
// in the signing URL.
func RenderContent(channel Channel, typ Type, attempt int, signingURL string) (string, error) {
	template, ok := templates[templateKey{Channel: channel, Type: typ, Attempt: attempt}]
	if !ok {
		return "", apperrors.Wrapf(
			apperrors.ErrInvalidInput,
			"no template for channel=%s type=%s attempt=%d", channel, typ, attempt,
		)
	}
	return strings.ReplaceAll(template, "{{signing_url}}", signingURL), nil
}
