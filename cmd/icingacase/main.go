package main

import (
	"context"
	"github.com/icinga/icingacase/internal"
	"github.com/icinga/icingacase/internal/command"
	"github.com/icinga/icingacase/pkg/utils"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"os"
	"time"
)

// main evaluates the single service event passed as positional arguments and creates a case if it deserves one.
// The exit code tells what happened, see internal.ExitCode.
func main() {
	os.Exit(run())
}

func run() int {
	cmd := command.New()
	logger := cmd.Logging.GetLogger()
	defer cmd.Logging.Sync()

	defer utils.Timed(time.Now(), func(elapsed time.Duration) {
		logger.Debugf("Finished in %s", elapsed)
	})

	ctx := context.Background()
	ev := cmd.Event
	caseLog := cmd.CaseLog()

	fail := func(err error) int {
		logger.Errorf("%+v", err)

		if cmd.Config.Debug {
			if err := caseLog.AppendError(err, time.Now()); err != nil {
				logger.Warnf("%+v", errors.Wrap(err, "can't write error to case log"))
			}
		}

		return internal.ExitCode(err)
	}

	if cmd.Config.Debug {
		if err := caseLog.AppendParams(ev, time.Now()); err != nil {
			return fail(err)
		}
	}

	outcome, err := cmd.Engine().Evaluate(ev)
	if err != nil {
		return fail(errors.WithMessage(err, "can't evaluate event"))
	}

	if !outcome.Notify {
		logger.Infow("Not creating a case", zap.Object("event", ev), zap.Stringer("reason", outcome.Reason))

		return internal.ExitSuccess
	}

	journal, err := cmd.Journal(ctx)
	if err != nil {
		return fail(err)
	}
	if journal != nil {
		defer func() { _ = journal.Close() }()
	}

	if _, err := cmd.Notifier(caseLog, journal).CreateCase(ctx, ev); err != nil {
		return fail(errors.WithMessage(err, "can't create case"))
	}

	return internal.ExitSuccess
}
