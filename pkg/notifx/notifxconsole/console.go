package notifxconsole

import (
	"context"
	"strings"

	"github.com/jelajahid/jelajah/pkg/logx"
	"github.com/jelajahid/jelajah/pkg/notifx"
)

// ConsoleProvider prints emails to the terminal via logx. Intended for
// development and tests, where the memory identity provider stands in for
// the hosted platform.
type ConsoleProvider struct{}

// NewConsoleProvider creates a console email provider.
func NewConsoleProvider() *ConsoleProvider {
	return &ConsoleProvider{}
}

// SendEmail logs the email details instead of delivering it.
func (p *ConsoleProvider) SendEmail(_ context.Context, msg notifx.EmailMessage) error {
	logx.WithFields(logx.Fields{
		"from":    msg.From,
		"to":      strings.Join(msg.To, ", "),
		"subject": msg.Subject,
	}).Info("notifx/console: email sent (dev mode)")

	if msg.TextBody != "" {
		logx.Debugf("notifx/console: text body:\n%s", msg.TextBody)
	}
	if msg.HTMLBody != "" {
		logx.Debugf("notifx/console: html body:\n%s", msg.HTMLBody)
	}

	return nil
}
