package services

import (
	"context"
	"fmt"
	"html"
	"sync"
	"time"

	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/config"
	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/constants"
	"github.com/Jepierre88/coins-control/backend/shared/go-utils"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

const guestAccessEmailHTML = `<!DOCTYPE html>
<html>
<head>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #333333; background-color: #f4f4f4; margin: 0; padding: 0; }
.container { padding: 20px; max-width: 600px; margin: 20px auto; background-color: #ffffff; border: 1px solid #dddddd; border-radius: 8px; }
.code { font-size: 32px; font-weight: bold; letter-spacing: 6px; text-align: center; margin: 24px 0; }
.footer { margin-top: 20px; font-size: 12px; color: #777777; text-align: center; }
</style>
</head>
<body>
<div class="container">
<p>Hi %s,</p>
<p>Your apartment access is ready. Type this code on the door keypad:</p>
<p class="code">%s</p>
<p>Valid from <strong>%s</strong> to <strong>%s</strong> (UTC).</p>
<div class="footer">%s</div>
</div>
</body>
</html>`

const noticeTimeLayout = "2006-01-02 15:04"

// GuestAccessNotice is what a guest is told after a scheduling succeeds.
type GuestAccessNotice struct {
	SchedulingID int64
	Name         string
	LastName     string
	Email        string
	Phone        string
	Passcode     string
	Start        time.Time
	End          time.Time
}

// GuestNotifier delivers access codes. Implementations log failures and
// never report them to the scheduling flow.
type GuestNotifier interface {
	NotifyGuestAccess(ctx context.Context, n GuestAccessNotice)
}

type emailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type smsSender interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// GuestAccessNotifier sends the access code by e-mail (SendGrid) and SMS
// (Twilio), each behind its own feature flag. Deliveries run in the
// background and outlive the request that triggered them.
type GuestAccessNotifier struct {
	cfg   *config.Config
	email emailSender
	sms   smsSender

	inflight sync.WaitGroup
}

// NewGuestAccessNotifier returns nil when neither channel is enabled.
func NewGuestAccessNotifier(cfg *config.Config, sg *sendgrid.Client, tw *twilio.RestClient) *GuestAccessNotifier {
	n := &GuestAccessNotifier{cfg: cfg}
	if cfg.LDFlag_SendGuestAccessEmail && sg != nil {
		n.email = sg
	}
	if cfg.LDFlag_SendGuestAccessSMS && tw != nil {
		n.sms = tw.Api
	}
	if n.email == nil && n.sms == nil {
		return nil
	}
	return n
}

func (g *GuestAccessNotifier) NotifyGuestAccess(ctx context.Context, n GuestAccessNotice) {
	if g == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.GuestNotificationTimeout)

	g.inflight.Add(1)
	go func() {
		defer g.inflight.Done()
		defer cancel()
		g.deliver(ctx, n)
	}()
}

// Wait blocks until every dispatched notification has finished.
func (g *GuestAccessNotifier) Wait() {
	if g == nil {
		return
	}
	g.inflight.Wait()
}

func (g *GuestAccessNotifier) deliver(ctx context.Context, n GuestAccessNotice) {
	logger := utils.Logger.WithField("schedulingID", n.SchedulingID)

	if g.email != nil && n.Email != "" {
		if err := g.sendEmail(ctx, n); err != nil {
			logger.WithError(err).Warn("Guest access e-mail not sent")
		}
	}
	if g.sms != nil && n.Phone != "" {
		if err := g.sendSMS(ctx, n); err != nil {
			logger.WithError(err).Warn("Guest access SMS not sent")
		}
	}
}

func (g *GuestAccessNotifier) sendEmail(ctx context.Context, n GuestAccessNotice) error {
	if !utils.IsEmailSyntaxValid(n.Email) {
		return utils.ErrInvalidEmail
	}
	fullName := n.displayName()

	from := mail.NewEmail(g.cfg.OrganizationName, g.cfg.LDFlag_SendgridFromEmail)
	to := mail.NewEmail(fullName, n.Email)
	subject := g.cfg.OrganizationName + " - " + constants.GuestAccessEmailSubject
	plain := fmt.Sprintf("Your access code is %s. Valid from %s to %s (UTC).",
		n.Passcode, n.Start.UTC().Format(noticeTimeLayout), n.End.UTC().Format(noticeTimeLayout))
	htmlContent := fmt.Sprintf(guestAccessEmailHTML,
		html.EscapeString(fullName),
		html.EscapeString(n.Passcode),
		n.Start.UTC().Format(noticeTimeLayout),
		n.End.UTC().Format(noticeTimeLayout),
		html.EscapeString(g.cfg.OrganizationName),
	)
	msg := mail.NewSingleEmail(from, subject, to, plain, htmlContent)

	if g.cfg.LDFlag_SendgridSandboxMode {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		msg.MailSettings = ms
	}

	resp, err := g.email.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("%w: failed to send email via sendgrid: %v", utils.ErrExternalServiceFailure, err)
	}
	if resp != nil && resp.StatusCode >= 300 {
		return fmt.Errorf("%w: sendgrid status %d", utils.ErrExternalServiceFailure, resp.StatusCode)
	}
	return nil
}

func (g *GuestAccessNotifier) sendSMS(ctx context.Context, n GuestAccessNotice) error {
	phone, ok := utils.NormalizePhone(n.Phone, utils.DefaultCountryCallingCode)
	if !ok {
		return utils.ErrInvalidPhone
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(phone)
	params.SetFrom(g.cfg.LDFlag_TwilioFromPhone)
	params.SetBody(fmt.Sprintf(constants.GuestAccessSMSTemplate,
		g.cfg.OrganizationName,
		n.displayName(),
		n.Passcode,
		n.Start.UTC().Format(noticeTimeLayout),
		n.End.UTC().Format(noticeTimeLayout),
	))

	if _, err := g.sms.CreateMessage(params); err != nil {
		utils.Logger.WithError(err).WithFields(logrus.Fields{"schedulingID": n.SchedulingID}).Error("Twilio CreateMessage failed")
		return fmt.Errorf("%w: failed to send sms via twilio: %v", utils.ErrExternalServiceFailure, err)
	}
	return nil
}

func (n *GuestAccessNotice) displayName() string {
	switch {
	case n.Name == "":
		return n.LastName
	case n.LastName == "":
		return n.Name
	default:
		return n.Name + " " + n.LastName
	}
}
