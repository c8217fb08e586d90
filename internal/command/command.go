package command

import (
	"context"
	"github.com/icinga/icingacase/internal"
	"github.com/icinga/icingacase/pkg/caselog"
	"github.com/icinga/icingacase/pkg/config"
	"github.com/icinga/icingacase/pkg/decision"
	"github.com/icinga/icingacase/pkg/event"
	"github.com/icinga/icingacase/pkg/logging"
	"github.com/icinga/icingacase/pkg/lookup"
	"github.com/icinga/icingacase/pkg/notifier"
	"github.com/icinga/icingacase/pkg/utils"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"os"
)

// Command provides factories for the components of a single run from Config.
type Command struct {
	Flags   *config.Flags
	Config  *config.Config
	Event   *event.ServiceEvent
	Logging *logging.Logging
}

// New creates and returns a new Command, parses CLI flags, positional arguments and the YAML config,
// and initializes logging. Prints the version and exits if requested.
// Exits with internal.ExitInvalidInput on bad flags or arguments and internal.ExitFailure on bad config.
func New() *Command {
	f, args, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(internal.ExitSuccess)
		}

		// go-flags has already printed the error.
		os.Exit(internal.ExitInvalidInput)
	}

	if f.Version {
		internal.Version.Print(utils.AppName())
		os.Exit(internal.ExitSuccess)
	}

	ev, err := event.FromArgs(args)
	if err != nil {
		utils.PrintErrorThenExit(err, internal.ExitCode(err))
	}

	cfg, err := config.FromYAMLFile(f.Config)
	if err != nil {
		utils.PrintErrorThenExit(err, internal.ExitFailure)
	}

	l, err := newLogging(cfg)
	if err != nil {
		utils.PrintErrorThenExit(errors.Wrap(err, "can't configure logging"), internal.ExitFailure)
	}

	return &Command{
		Flags:   f,
		Config:  cfg,
		Event:   ev,
		Logging: l,
	}
}

// newLogging builds the loggers configured in cfg.Logging. Debug mode lowers the default level to debug.
func newLogging(cfg *config.Config) (*logging.Logging, error) {
	l, err := logging.NewLogging(utils.AppName(), cfg.Logging.Level, cfg.Logging.Output, cfg.Logging.Options)
	if err != nil {
		return nil, err
	}

	if cfg.Debug {
		l.Debug()
	}

	return l, nil
}

// Engine creates and returns a new decision.Engine backed by the configured flat files.
func (c Command) Engine() *decision.Engine {
	return decision.NewEngine(
		c.Config.FlapThreshold,
		lookup.NewAcknowledgementFile(c.Config.Files.Acknowledgements, c.Logging.GetChildLogger("lookup")),
		lookup.NewExclusionFile(c.Config.Files.Exclusions, c.Logging.GetChildLogger("lookup")),
		c.Logging.GetChildLogger("decision"),
	)
}

// CaseLog creates and returns a new caselog.Log appending to the configured log file.
func (c Command) CaseLog() *caselog.Log {
	return caselog.NewLog(c.Config.Files.Log, c.Logging.GetChildLogger("caselog"))
}

// Journal opens and returns the configured caselog.Journal or nil if none is configured.
func (c Command) Journal(ctx context.Context) (*caselog.Journal, error) {
	if c.Config.Journal.Database == "" {
		return nil, nil
	}

	j, err := caselog.OpenJournal(ctx, c.Config.Journal.Database, c.Logging.GetChildLogger("caselog"))

	return j, errors.Wrap(err, "can't open case journal")
}

// Notifier creates and returns a new notifier.Notifier sending mails via the configured mail command.
func (c Command) Notifier(log *caselog.Log, journal *caselog.Journal) *notifier.Notifier {
	return notifier.NewNotifier(
		c.Config.Mail.NotifierOptions(c.Config.Debug),
		notifier.MailCommand{Path: c.Config.Mail.Command},
		log,
		journal,
		c.Logging.GetChildLogger("notifier"),
	)
}
