// Package notification handles sending notifications to external services.
package notification

import (
	"fmt"
	"strings"
	"time"

	"github.com/containrrr/shoutrrr"
	"github.com/networktocode/ntc-tesuto/internal/config"
)

// Notifier handles sending notifications via Shoutrrr
type Notifier struct {
	enabled     bool
	shoutrrrURL string
}

// NewNotifier initializes a Shoutrrr-based notification client from config.
func NewNotifier(cfg *config.Config) (*Notifier, error) {
	if !cfg.Notification.Enabled {
		return &Notifier{enabled: false}, nil
	}

	url := strings.TrimSpace(cfg.Notification.ShoutrrURL)
	if url == "" {
		return &Notifier{enabled: false}, fmt.Errorf("notification enabled but shoutrrr_url not configured: provide URL in format 'service://credentials' (e.g., slack://token@channel, discord://token@webhookid)")
	}

	return &Notifier{
		enabled:     true,
		shoutrrrURL: cfg.Notification.ShoutrrURL,
	}, nil
}

// SendEmulationEvent reports an emulation state change via the configured
// notification channel.
func (n *Notifier) SendEmulationEvent(action string, emulationNames []string, endAt time.Time) error {
	if !n.enabled {
		return nil // Notifications disabled
	}

	var sb strings.Builder
	sb.WriteString("🌐 Tesuto Emulation Update\n")
	sb.WriteString(fmt.Sprintf("📅 Time: %s\n", time.Now().Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("⚙️  Action: %s\n", action))
	sb.WriteString(fmt.Sprintf("🧪 Emulations: %s\n", strings.Join(emulationNames, ", ")))

	if !endAt.IsZero() {
		sb.WriteString(fmt.Sprintf("⏳ Ends (UTC): %s\n", endAt.Format("2006-01-02 15:04")))
	}

	// Send notification using shoutrrr
	err := shoutrrr.Send(n.shoutrrrURL, sb.String())
	if err != nil {
		// Extract service type from URL (e.g., "slack://..." -> "slack")
		serviceType := "unknown"
		if idx := strings.Index(n.shoutrrrURL, "://"); idx > 0 {
			serviceType = n.shoutrrrURL[:idx]
		}
		return fmt.Errorf("notification failed to send via %s (action: %s, emulations: %d): %w", serviceType, action, len(emulationNames), err)
	}

	return nil
}

// IsEnabled reports whether notifications are configured and active.
func (n *Notifier) IsEnabled() bool {
	return n.enabled
}
