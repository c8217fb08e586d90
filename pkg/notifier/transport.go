package notifier

import (
	"bytes"
	"context"
	"github.com/icinga/icingacase/internal"
	"github.com/pkg/errors"
	"os/exec"
	"strings"
)

// DefaultMailCommand is the mail(1) binary MailCommand runs if no other one is configured.
const DefaultMailCommand = "/usr/bin/mail"

// Mail is a single message addressed to a single recipient.
type Mail struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Transport delivers mails. Send blocks until the mail has been handed over.
type Transport interface {
	Send(ctx context.Context, m Mail) error
}

// MailCommand delivers mails by running a mail(1) compatible command
// as "<Path> -aFrom:<from> -s <subject> <to>" with the body on stdin.
type MailCommand struct {
	Path string
}

// Send implements the Transport interface.
func (mc MailCommand) Send(ctx context.Context, m Mail) error {
	path := mc.Path
	if path == "" {
		path = DefaultMailCommand
	}

	cmd := exec.CommandContext(ctx, path, "-aFrom:"+m.From, "-s", m.Subject, m.To)
	cmd.Stdin = strings.NewReader(m.Body)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = errors.Wrap(err, msg)
		}

		return internal.DispatchFailure(errors.Wrapf(err, "can't send mail to %s via %s", m.To, path))
	}

	return nil
}

// Assert interface compliance.
var (
	_ Transport = MailCommand{}
)
