package service

import (
	"context"
	"fmt"

	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/domain"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/logger"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/mail"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/qr"
	"go.uber.org/zap"
)

// Notifier delivers ticket confirmations to buyers. Delivery is best-effort:
// callers must never fail a payment because an email bounced.
type Notifier interface {
	// SendTicketConfirmation sends the paid ticket with its QR code attached
	SendTicketConfirmation(ctx context.Context, email string, ticket *domain.Ticket) error
}

// MailNotifier implements Notifier over SMTP with a QR code attachment
type MailNotifier struct {
	sender *mail.Sender
	log    *logger.Logger
}

// NewMailNotifier creates a new MailNotifier
func NewMailNotifier(sender *mail.Sender) *MailNotifier {
	return &MailNotifier{
		sender: sender,
		log:    logger.Get(),
	}
}

// SendTicketConfirmation sends the paid ticket with its QR code attached.
// The QR payload is the ticket code, which the gate validation endpoint
// accepts directly.
func (n *MailNotifier) SendTicketConfirmation(ctx context.Context, email string, ticket *domain.Ticket) error {
	png, err := qr.GeneratePNG(ticket.Code, 256)
	if err != nil {
		return fmt.Errorf("failed to generate ticket QR code: %w", err)
	}

	subject := fmt.Sprintf("Your ticket %s is confirmed", ticket.Code)
	body := fmt.Sprintf(`
		<h2>Ticket confirmed</h2>
		<p>Your ticket <strong>%s</strong> is paid and ready to use.</p>
		<p>Present the attached QR code at the entrance.</p>
	`, ticket.Code)

	attachment := mail.Attachment{
		Filename: fmt.Sprintf("ticket-%s.png", ticket.Code),
		Data:     png,
	}

	if err := n.sender.Send(email, subject, body, attachment); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}

	n.log.Info("ticket confirmation sent",
		zap.String("ticket_id", ticket.ID),
		zap.String("ticket_code", ticket.Code),
	)
	return nil
}

// NoOpNotifier is a no-op implementation of Notifier for environments
// without SMTP configured
type NoOpNotifier struct{}

// NewNoOpNotifier creates a new no-op notifier
func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

// SendTicketConfirmation is a no-op
func (n *NoOpNotifier) SendTicketConfirmation(ctx context.Context, email string, ticket *domain.Ticket) error {
	return nil
}
