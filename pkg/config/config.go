package config

import (
	"github.com/creasty/defaults"
	"github.com/goccy/go-yaml"
	"github.com/icinga/icingacase/internal"
	"github.com/icinga/icingacase/pkg/decision"
	"github.com/icinga/icingacase/pkg/logging"
	"github.com/icinga/icingacase/pkg/notifier"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"os"
)

// DefaultConfigPath specifies the default location of icingacase's config.yml for package installations.
const DefaultConfigPath = "/etc/icingacase/config.yml"

// Config defines icingacase's config. It is read once at startup and never changed afterwards.
type Config struct {
	FlapThreshold float64        `yaml:"flap-threshold"`
	Debug         bool           `yaml:"debug"`
	Files         Files          `yaml:"files"`
	Mail          Mail           `yaml:"mail"`
	Journal       Journal        `yaml:"journal"`
	Logging       logging.Config `yaml:"logging"`
}

// SetDefaults implements the defaults.Setter interface.
func (c *Config) SetDefaults() {
	if defaults.CanUpdate(c.FlapThreshold) {
		c.FlapThreshold = decision.DefaultFlapThreshold
	}
}

// Validate checks constraints in the supplied configuration and returns an error if they are violated.
func (c *Config) Validate() error {
	if c.FlapThreshold < 0 || c.FlapThreshold > 100 {
		return errors.Errorf("flap-threshold must be between 0 and 100, got %v", c.FlapThreshold)
	}
	if err := c.Files.Validate(); err != nil {
		return err
	}
	if err := c.Mail.Validate(c.Debug); err != nil {
		return err
	}

	return c.Logging.Validate()
}

// Files defines the locations of the flat files icingacase reads and writes.
type Files struct {
	Log              string `yaml:"log"`
	Acknowledgements string `yaml:"acknowledgements"`
	Exclusions       string `yaml:"exclusions"`
}

// Validate checks constraints in the supplied files configuration and returns an error if they are violated.
func (f *Files) Validate() error {
	if f.Log == "" {
		return errors.New("files.log missing")
	}
	if f.Acknowledgements == "" {
		return errors.New("files.acknowledgements missing")
	}
	if f.Exclusions == "" {
		return errors.New("files.exclusions missing")
	}

	return nil
}

// Mail defines how and to whom notifications are sent.
type Mail struct {
	// Command defaults to notifier.DefaultMailCommand.
	Command string `yaml:"command" default:"/usr/bin/mail"`
	// Source defaults to notifier.DefaultSource.
	Source         string `yaml:"source" default:"Nagios"`
	From           string `yaml:"from"`
	Recipient      string `yaml:"recipient"`
	DebugRecipient string `yaml:"debug-recipient"`
}

// Validate checks constraints in the supplied mail configuration and returns an error if they are violated.
// The debug recipient is only required if debug is true.
func (m *Mail) Validate(debug bool) error {
	if m.Command == "" {
		return errors.New("mail.command missing")
	}
	if m.From == "" {
		return errors.New("mail.from missing")
	}
	if m.Recipient == "" {
		return errors.New("mail.recipient missing")
	}
	if debug && m.DebugRecipient == "" {
		return errors.New("mail.debug-recipient missing, but debug is enabled")
	}

	return nil
}

// NotifierOptions returns the notifier.Options according to m.
// Mails only go to the debug recipient if debug is true.
func (m *Mail) NotifierOptions(debug bool) notifier.Options {
	options := notifier.Options{
		Source:    m.Source,
		From:      m.From,
		Recipient: m.Recipient,
	}
	if debug {
		options.DebugRecipient = m.DebugRecipient
	}

	return options
}

// Journal defines the optional SQLite case journal.
type Journal struct {
	// Database is the path to the SQLite database. The journal is disabled if empty.
	Database string `yaml:"database"`
}

// Flags defines CLI flags.
type Flags struct {
	// Version decides whether to just print the version and exit.
	Version bool `long:"version" description:"print version and exit"`
	// Config is the path to the config file
	Config string `short:"c" long:"config" description:"path to config file" default:"/etc/icingacase/config.yml"`
	// default must be kept in sync with DefaultConfigPath.
}

// FromYAMLFile returns a new Config value created from the given YAML config file.
func FromYAMLFile(name string) (*Config, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "can't open YAML file "+name)
	}
	defer func() { _ = f.Close() }()

	c := &Config{}
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "can't set config defaults")
	}

	d := yaml.NewDecoder(f, yaml.DisallowUnknownField())
	if err := d.Decode(c); err != nil {
		return nil, internal.CantUnmarshalYAML(err, c)
	}

	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return c, nil
}

// ParseFlags parses CLI flags and returns a Flags value created from them
// together with the remaining positional arguments.
// Everything following the first positional argument is positional as well,
// so service output starting with a dash is never mistaken for a flag.
func ParseFlags(args []string) (*Flags, []string, error) {
	f := &Flags{}
	parser := flags.NewParser(f, flags.Default|flags.PassAfterNonOption)
	parser.Usage = "[OPTIONS] STATE STATETYPE HOSTNAME SERVICEDISPLAYNAME FLAPPERCENT " +
		"LONGOUTPUT HOSTADDRESS HOSTGROUPNOTES SERVICENOTES PROBLEMID"

	rest, err := parser.ParseArgs(args)
	if err != nil {
		return nil, nil, errors.Wrap(err, "can't parse CLI flags")
	}

	return f, rest, nil
}
