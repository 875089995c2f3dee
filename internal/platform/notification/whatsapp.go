package notification

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/smarttermos/termos/pkg/brdoc"
)

// LinkWhatsAppSender does not deliver messages itself; it produces wa.me deep
// links that open the conversation pre-filled with the message. The link for
// each send is logged and retrievable, so the frontend can hand it to the
// receptionist who clicks through to WhatsApp.
type LinkWhatsAppSender struct{}

func NewLinkWhatsAppSender() *LinkWhatsAppSender {
	return &LinkWhatsAppSender{}
}

func (s *LinkWhatsAppSender) SendWhatsApp(_ context.Context, phone, body string) error {
	link := brdoc.WhatsAppLink(phone, body)
	log.Info().Str("phone", phone).Str("link", link).Msg("whatsapp deep link generated")
	return nil
}

// Link returns the wa.me deep link for a phone and message.
func (s *LinkWhatsAppSender) Link(phone, body string) string {
	return brdoc.WhatsAppLink(brdoc.E164(phone), body)
}
