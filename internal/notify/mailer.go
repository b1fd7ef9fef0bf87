package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"

	"carmatch_backend/platform/config"
	"carmatch_backend/platform/logger"
)

// Mailer delivers dealer notification emails over SMTP. When email is
// disabled, the composed message is logged instead of sent so the pipeline
// stays observable in development.
type Mailer struct {
	enabled   bool
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
	log       *logger.Logger
}

func NewMailer(cfg config.EmailConfig, log *logger.Logger) *Mailer {
	return &Mailer{
		enabled:   cfg.GetEmailEnabled(),
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
		log:       log,
	}
}

// SendDealerNotification composes and delivers the lead handoff email.
func (m *Mailer) SendDealerNotification(ctx context.Context, payload DealerNotificationPayload) error {
	if payload.DealerEmail == "" {
		m.log.Warn("dealer has no email address, skipping notification", "lead_id", payload.LeadID)
		return nil
	}

	subject, body := composeDealerEmail(payload)

	if !m.enabled {
		m.log.Info("email disabled, logging dealer notification instead",
			"to", payload.DealerEmail,
			"subject", subject,
			"body", body,
		)
		return nil
	}

	msg := gomail.NewMsg()
	if err := msg.FromFormat(m.fromName, m.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(payload.DealerEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	client, err := gomail.NewClient(m.host,
		gomail.WithPort(m.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.username),
		gomail.WithPassword(m.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func composeDealerEmail(p DealerNotificationPayload) (subject, body string) {
	vehicle := p.ListingLabel
	if vehicle == "" {
		vehicle = fmt.Sprintf("listing #%d", p.ListingID)
	}
	subject = "New lead from CarMatch - " + vehicle

	dealerName := p.DealerName
	if dealerName == "" {
		dealerName = "there"
	}
	phone := p.BuyerPhone
	if phone == "" {
		phone = "Not provided"
	}
	notes := p.BuyerNotes
	if notes == "" {
		notes = "No additional notes."
	}

	lines := []string{
		"Hello " + dealerName + ",",
		"",
		"A buyer is interested in one of your vehicles through CarMatch.",
		"",
		"Buyer details:",
		"  Name  : " + p.BuyerName,
		"  Email : " + p.BuyerEmail,
		"  Phone : " + phone,
		"",
		"Vehicle of interest:",
		fmt.Sprintf("  Internal ID : %d", p.ListingID),
		"  " + vehicle,
		fmt.Sprintf("  Price : $%d", p.ListingPrice),
		fmt.Sprintf("  Miles : %d mi", p.ListingMiles),
		"",
		"Buyer message / notes:",
		"  " + notes,
		"",
		"Please contact the buyer as soon as possible to arrange a visit or test drive.",
		"",
		"- The CarMatch team",
	}

	return subject, strings.Join(lines, "\n")
}
