package report

import (
	"log"

	"github.com/gen2brain/beeep"
)

// Desktop is a Notifier that raises a desktop notification for each
// diagnostic. Notifications are fired from a separate goroutine so
// the hook thread is never blocked on the notification daemon.
type Desktop struct {
	// AppName prefixes notification titles.
	AppName string
}

// NewDesktop creates a desktop notifier.
func NewDesktop(appName string) *Desktop {
	return &Desktop{AppName: appName}
}

// Notify implements Notifier.
func (d *Desktop) Notify(title, message string) {
	if d.AppName != "" {
		title = d.AppName + ": " + title
	}
	go func() {
		if err := beeep.Notify(title, message, ""); err != nil {
			log.Printf("report: notification failed: %v", err)
		}
	}()
}
