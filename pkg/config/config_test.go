package config

import (
	"github.com/creasty/defaults"
	"github.com/icinga/icingacase/pkg/logging"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"os"
	"testing"
)

func TestFromYAMLFile(t *testing.T) {
	const miniConf = `
files:
  log: /var/log/icingacase/cases.log
  acknowledgements: /etc/icingacase/ack.list
  exclusions: /etc/icingacase/exclusions.list

mail:
  from: nagios@example.com
  recipient: cases@example.com

logging:
  output: console
`

	subtests := []struct {
		name   string
		input  string
		output *Config
	}{
		{
			name:  "mini",
			input: miniConf,
			output: func() *Config {
				c := &Config{}
				_ = defaults.Set(c)

				c.Files.Log = "/var/log/icingacase/cases.log"
				c.Files.Acknowledgements = "/etc/icingacase/ack.list"
				c.Files.Exclusions = "/etc/icingacase/exclusions.list"
				c.Mail.From = "nagios@example.com"
				c.Mail.Recipient = "cases@example.com"
				c.Logging.Output = logging.CONSOLE

				return c
			}(),
		},
		{
			name: "full",
			input: miniConf + `
  level: warn
  options:
    decision: debug
flap-threshold: 20.5
debug: true
journal:
  database: /var/lib/icingacase/journal.sqlite3
`,
			output: func() *Config {
				c := &Config{}
				_ = defaults.Set(c)

				c.FlapThreshold = 20.5
				c.Debug = true
				c.Files.Log = "/var/log/icingacase/cases.log"
				c.Files.Acknowledgements = "/etc/icingacase/ack.list"
				c.Files.Exclusions = "/etc/icingacase/exclusions.list"
				c.Mail.From = "nagios@example.com"
				c.Mail.Recipient = "cases@example.com"
				c.Journal.Database = "/var/lib/icingacase/journal.sqlite3"
				c.Logging.Output = logging.CONSOLE
				c.Logging.Level = zapcore.WarnLevel
				c.Logging.Options = logging.Options{"decision": zapcore.DebugLevel}

				return c
			}(),
		},
		{
			name:   "mini-with-unknown",
			input:  miniConf + "\nunknown: 42",
			output: nil,
		},
		{
			name:   "threshold-out-of-range",
			input:  miniConf + "\nflap-threshold: 101",
			output: nil,
		},
		{
			name:   "missing-recipient",
			input:  "files:\n  log: a\n  acknowledgements: b\n  exclusions: c\nmail:\n  from: nagios@example.com\n",
			output: nil,
		},
		{
			name:   "missing-files",
			input:  "mail:\n  from: nagios@example.com\n  recipient: cases@example.com\n",
			output: nil,
		},
	}

	for _, st := range subtests {
		t.Run(st.name, func(t *testing.T) {
			tempFile, err := os.CreateTemp("", "")
			require.NoError(t, err)
			defer func() { _ = os.Remove(tempFile.Name()) }()

			require.NoError(t, os.WriteFile(tempFile.Name(), []byte(st.input), 0o600))

			if actual, err := FromYAMLFile(tempFile.Name()); st.output == nil {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				require.Equal(t, st.output, actual)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	c := &Config{}
	require.NoError(t, defaults.Set(c))

	require.Equal(t, 35.0, c.FlapThreshold)
	require.Equal(t, "/usr/bin/mail", c.Mail.Command)
	require.Equal(t, "Nagios", c.Mail.Source)
	require.Equal(t, zapcore.InfoLevel, c.Logging.Level)
}

func TestMail(t *testing.T) {
	m := Mail{Command: "/usr/bin/mail", From: "a@example.com", Recipient: "b@example.com"}

	require.NoError(t, m.Validate(false))
	require.Error(t, m.Validate(true), "debug requires a debug recipient")

	m.DebugRecipient = "c@example.com"
	require.NoError(t, m.Validate(true))

	require.Empty(t, m.NotifierOptions(false).DebugRecipient)
	require.Equal(t, "c@example.com", m.NotifierOptions(true).DebugRecipient)
}

func TestParseFlags(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		f, rest, err := ParseFlags([]string{"OK", "HARD"})
		require.NoError(t, err)
		require.Equal(t, DefaultConfigPath, f.Config)
		require.False(t, f.Version)
		require.Equal(t, []string{"OK", "HARD"}, rest)
	})

	t.Run("DashInOutput", func(t *testing.T) {
		args := []string{"-c", "/tmp/config.yml", "CRITICAL", "HARD", "db-01", "Disk", "10", "-- disk full", "192.0.2.10", "", "", "42"}

		f, rest, err := ParseFlags(args)
		require.NoError(t, err)
		require.Equal(t, "/tmp/config.yml", f.Config)
		require.Equal(t, args[2:], rest)
	})

	t.Run("Version", func(t *testing.T) {
		f, rest, err := ParseFlags([]string{"--version"})
		require.NoError(t, err)
		require.True(t, f.Version)
		require.Empty(t, rest)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, _, err := ParseFlags([]string{"--unknown"})
		require.Error(t, err)
	})
}
