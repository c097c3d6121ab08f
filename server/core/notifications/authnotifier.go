package notifications

import (
	"fmt"
	"sync"
	"time"

	"github.com/yeti47/vidfolio/server/core/ccc/logging"
)

type AuthNotifier interface {
	// NotifyRepeatedLoginFailure notifies when a client keeps failing the dashboard login.
	NotifyRepeatedLoginFailure(clientIP string, failureCount int) error
	// ShouldNotify returns true if the failure count reached the threshold.
	ShouldNotify(failureCount int) bool
}

type nopAuthNotifier struct{}

var NopAuthNotifier AuthNotifier = &nopAuthNotifier{}

func (n *nopAuthNotifier) NotifyRepeatedLoginFailure(clientIP string, failureCount int) error {
	return nil
}

func (n *nopAuthNotifier) ShouldNotify(failureCount int) bool {
	return false
}

type AuthNotificationSettings struct {
	Recipient        string
	MinInterval      time.Duration
	FailureThreshold int
}

type emailAuthNotifier struct {
	settings          AuthNotificationSettings
	sender            EmailSender
	logger            logging.Logger
	now               func() time.Time
	lastNotification  map[string]time.Time
	notificationMutex sync.Mutex
}

// NewEmailAuthNotifier returns NopAuthNotifier when there is no recipient or no sender
func NewEmailAuthNotifier(settings AuthNotificationSettings, sender EmailSender, logger logging.Logger) AuthNotifier {
	if settings.Recipient == "" || sender == nil {
		return NopAuthNotifier
	}
	if logger == nil {
		logger = logging.NopLogger
	}

	return &emailAuthNotifier{
		settings:         settings,
		sender:           sender,
		logger:           logger,
		now:              time.Now,
		lastNotification: make(map[string]time.Time),
	}
}

func (n *emailAuthNotifier) ShouldNotify(failureCount int) bool {
	return n.settings.FailureThreshold > 0 && failureCount >= n.settings.FailureThreshold
}

func (n *emailAuthNotifier) NotifyRepeatedLoginFailure(clientIP string, failureCount int) error {
	n.notificationMutex.Lock()
	defer n.notificationMutex.Unlock()

	if last, ok := n.lastNotification[clientIP]; ok && n.now().Sub(last) < n.settings.MinInterval {
		n.logger.Info("Skipping login failure notification due to rate limiting.", "client_ip", clientIP)
		return nil
	}

	subject := "Vidfolio repeated dashboard login failures detected"
	body := fmt.Sprintf("Repeated failed logins to the portfolio dashboard were detected.\n\nFailure count: %d\nClient IP: %s\n\nThe address is locked out for now. If this was not you, consider changing the admin password with 'vidfolio password set'.",
		failureCount,
		clientIP)

	n.logger.Info("Sending login failure notification.", "client_ip", clientIP, "recipient", n.settings.Recipient, "failureCount", failureCount)
	if err := n.sender.SendEmail(n.settings.Recipient, subject, body); err != nil {
		n.logger.Error("Failed to send login failure notification.", "error", err, "client_ip", clientIP)
		return err
	}

	n.lastNotification[clientIP] = n.now()
	return nil
}
