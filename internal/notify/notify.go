// Package notify dispatches push notifications to the user's own channels
// (ntfy, Discord, etc.) via Shoutrrr URLs.
package notify

import (
	"fmt"
	"log"
	"strings"

	"github.com/containrrr/shoutrrr"
)

// Notifier sends messages to a fixed set of Shoutrrr URLs. A Notifier with
// no URLs is valid and does nothing.
type Notifier struct {
	urls []string
}

// New parses a comma-or-newline-separated Shoutrrr URL list.
func New(urlsStr string) *Notifier {
	return &Notifier{urls: parseURLs(urlsStr)}
}

// Enabled reports whether any delivery URL is configured.
func (n *Notifier) Enabled() bool {
	return len(n.urls) > 0
}

// SessionLogged announces a newly logged workout session. Delivery runs in
// the background; failures are logged and never block the triggering action.
func (n *Notifier) SessionLogged(performedAt, completionStatus string, setCount int) {
	if !n.Enabled() {
		return
	}
	body := fmt.Sprintf("Workout logged: %s, %d sets (%s)", performedAt, setCount, completionStatus)
	n.send(body)
}

// PlanGenerated announces a freshly generated training plan.
func (n *Notifier) PlanGenerated(name string, weeks int) {
	if !n.Enabled() {
		return
	}
	n.send(fmt.Sprintf("New plan ready: %s (%d weeks)", name, weeks))
}

func (n *Notifier) send(body string) {
	urls := n.urls
	go func() {
		for _, u := range urls {
			if err := shoutrrr.Send(u, body); err != nil {
				log.Printf("notify: send failed for url %q: %v", maskURL(u), err)
			}
		}
	}()
}

// parseURLs splits a comma-or-newline-separated URL string and trims whitespace.
func parseURLs(urlsStr string) []string {
	urlsStr = strings.ReplaceAll(urlsStr, "\n", ",")
	parts := strings.Split(urlsStr, ",")
	var urls []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			urls = append(urls, p)
		}
	}
	return urls
}

// maskURL masks credentials in a Shoutrrr URL for safe logging.
func maskURL(u string) string {
	if len(u) <= 15 {
		return u[:5] + "••••"
	}
	return u[:15] + "••••"
}
