// Package notifier creates cases by dispatching notifications through a Transport.
package notifier

import (
	"context"
	"github.com/icinga/icingacase/internal"
	"github.com/icinga/icingacase/pkg/caselog"
	"github.com/icinga/icingacase/pkg/event"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"time"
)

// Options configure a Notifier.
type Options struct {
	// Source labels subject and body, e.g. "Nagios".
	Source string
	From   string
	// Recipient receives every notification.
	Recipient string
	// DebugRecipient additionally receives every notification if not empty.
	DebugRecipient string
}

// Notifier formats notifications, dispatches them and records the resulting cases.
type Notifier struct {
	options   Options
	transport Transport
	log       *caselog.Log
	journal   *caselog.Journal
	logger    *zap.SugaredLogger

	// now is replaced in tests.
	now func() time.Time
}

// NewNotifier returns a new Notifier. journal may be nil.
func NewNotifier(
	options Options, transport Transport, log *caselog.Log, journal *caselog.Journal, logger *zap.SugaredLogger,
) *Notifier {
	if options.Source == "" {
		options.Source = DefaultSource
	}

	return &Notifier{
		options:   options,
		transport: transport,
		log:       log,
		journal:   journal,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateCase sends the notification for ev to the recipient and, once that mail has been handed over,
// appends the case to the case log and records it in the journal, if any.
//
// The copy to the debug recipient is sent alongside but is best-effort:
// its failure is only logged and neither affects the recipient's mail nor the case.
// Dispatch is not retried. If the recipient fails, the error is returned as internal.ErrDispatchFailure
// and no case is logged.
func (n *Notifier) CreateCase(ctx context.Context, ev *event.ServiceEvent) (*caselog.Case, error) {
	now := n.now()
	msg := NewMessage(n.options.Source, ev, now)

	// Neither send may cancel the other, hence the plain group sharing ctx.
	var g errgroup.Group
	g.Go(func() error {
		return n.send(ctx, n.options.Recipient, msg)
	})

	if to := n.options.DebugRecipient; to != "" {
		g.Go(func() error {
			if err := n.send(ctx, to, msg); err != nil {
				n.logger.Warnw("Can't send debug copy of notification", zap.String("to", to), zap.Error(err))
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := caselog.NewCase(ev, now)
	if err := n.log.AppendCase(c); err != nil {
		return nil, err
	}

	if n.journal != nil {
		if err := n.journal.Record(ctx, c); err != nil {
			return nil, err
		}
	}

	n.logger.Infow("Case created", zap.Object("case", c))

	return c, nil
}

// send hands msg addressed to to over to the transport.
func (n *Notifier) send(ctx context.Context, to string, msg Message) error {
	err := n.transport.Send(ctx, Mail{From: n.options.From, To: to, Subject: msg.Subject, Body: msg.Body})
	if err != nil {
		if !errors.Is(err, internal.ErrDispatchFailure) {
			err = internal.DispatchFailure(err)
		}

		return err
	}

	n.logger.Debugw("Dispatched notification", zap.String("to", to), zap.String("subject", msg.Subject))

	return nil
}
