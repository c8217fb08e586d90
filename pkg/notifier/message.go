package notifier

import (
	"fmt"
	"github.com/icinga/icingacase/pkg/caselog"
	"github.com/icinga/icingacase/pkg/event"
	"strings"
	"time"
)

// DefaultSource is the monitoring system name notifications are labelled with.
const DefaultSource = "Nagios"

// Message is the formatted notification for one event.
type Message struct {
	Subject string
	Body    string
}

// NewMessage formats the notification for ev, labelled with source and dated now.
func NewMessage(source string, ev *event.ServiceEvent, now time.Time) Message {
	var body strings.Builder

	_, _ = fmt.Fprintf(&body, "***** %s ***** \n\n", source)
	_, _ = fmt.Fprintf(&body, "Host: %s\n", ev.HostName)
	_, _ = fmt.Fprintf(&body, "Service: %s\n", ev.ServiceDisplayName)
	_, _ = fmt.Fprintf(&body, "Description: %s\n", ev.LongOutput)
	_, _ = fmt.Fprintf(&body, "Address: %s\n", ev.HostAddress)
	_, _ = fmt.Fprintf(&body, "Date/Time: %s\n\n", now.Format(caselog.TimeLayout))
	_, _ = fmt.Fprintf(&body, "Parameters: %s, %s", ev.HostGroupNotes, ev.ServiceNotes)

	return Message{
		Subject: fmt.Sprintf("%s: Service Alert on host: %s", source, ev.HostName),
		Body:    body.String(),
	}
}
