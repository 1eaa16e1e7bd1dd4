// Package notify delivers generated proposals to clients over SES and fans
// out generation events over SNS.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	commonerrors "proposal-service/internal/common/errors"
	"proposal-service/internal/common/logger"
)

// EmailSender is the delivery surface the notifier needs, satisfied by the
// SES wrapper in internal/common/aws.
type EmailSender interface {
	SendProposalEmail(ctx context.Context, from, to, subject, htmlBody string) error
}

// EventPublisher is the fan-out surface the notifier needs, satisfied by the
// SNS wrapper in internal/common/aws.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topicARN, subject, message string) error
}

// Notifier sends proposal emails and publishes generation events. Either
// client may be nil, which disables that channel.
type Notifier struct {
	email    EmailSender
	events   EventPublisher
	sender   string
	topicARN string
	logger   logger.Logger
}

type Config struct {
	Email    EmailSender
	Events   EventPublisher
	Sender   string
	TopicARN string
	Logger   logger.Logger
}

func New(cfg Config) *Notifier {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Notifier{
		email:    cfg.Email,
		events:   cfg.Events,
		sender:   cfg.Sender,
		topicARN: cfg.TopicARN,
		logger:   log,
	}
}

// ProposalEmail is the input for one proposal delivery.
type ProposalEmail struct {
	To            string
	CompanyName   string
	ProposalTitle string
	PreviewURL    string
	ExpiryDate    string
}

// SendProposal emails the client a link to the generated proposal.
func (n *Notifier) SendProposal(ctx context.Context, input ProposalEmail) error {
	if n.email == nil {
		return commonerrors.NewEmailSendFailedError(
			fmt.Errorf("email delivery is not configured"))
	}
	if !strings.Contains(input.To, "@") {
		return commonerrors.NewValidationFailedError(
			fmt.Sprintf("invalid recipient address: %q", input.To))
	}

	subject := fmt.Sprintf("Your proposal from %s", input.CompanyName)
	htmlBody := proposalEmailBody(input)

	if err := n.email.SendProposalEmail(ctx, n.sender, input.To, subject, htmlBody); err != nil {
		n.logger.Error("Proposal email delivery failed", map[string]interface{}{
			"to":    input.To,
			"error": err.Error(),
		})
		return commonerrors.NewEmailSendFailedError(err)
	}

	n.logger.Info("Proposal email sent", map[string]interface{}{
		"to":      input.To,
		"subject": subject,
	})
	return nil
}

// GeneratedEvent is the payload published after a successful generation.
type GeneratedEvent struct {
	ProposalID string    `json:"proposal_id"`
	Theme      string    `json:"theme"`
	Filename   string    `json:"filename"`
	Timestamp  time.Time `json:"timestamp"`
}

// PublishGenerated publishes a proposal.document.generated event. A nil
// events client makes this a no-op so generation never depends on SNS.
func (n *Notifier) PublishGenerated(ctx context.Context, event GeneratedEvent) error {
	if n.events == nil {
		return nil
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return commonerrors.NewEventPublishFailedError(err)
	}

	if err := n.events.PublishEvent(ctx, n.topicARN, "proposal.document.generated", string(payload)); err != nil {
		n.logger.Error("Event publication failed", map[string]interface{}{
			"proposal_id": event.ProposalID,
			"error":       err.Error(),
		})
		return commonerrors.NewEventPublishFailedError(err)
	}
	return nil
}

func proposalEmailBody(input ProposalEmail) string {
	var b strings.Builder
	b.WriteString("<html><body style=\"font-family: sans-serif; color: #1f2937;\">")
	fmt.Fprintf(&b, "<h2>%s</h2>", input.ProposalTitle)
	fmt.Fprintf(&b, "<p>%s has prepared a proposal for you.</p>", input.CompanyName)
	fmt.Fprintf(&b, "<p><a href=\"%s\">View your proposal</a></p>", input.PreviewURL)
	if input.ExpiryDate != "" {
		fmt.Fprintf(&b, "<p>This proposal is valid until %s.</p>", input.ExpiryDate)
	}
	b.WriteString("</body></html>")
	return b.String()
}
