package infrastructure

import (
	"fmt"
	"os/exec"

	"go.uber.org/zap"

	"github.com/yourusername/mediagrab/internal/domain"
)

// NotificationService sends an optional desktop notification when a job
// reaches a terminal state. Failures here never affect the job outcome.
type NotificationService struct {
	config *domain.NotificationConfig
	logger *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(config *domain.NotificationConfig, logger *zap.Logger) *NotificationService {
	return &NotificationService{config: config, logger: logger}
}

// NotifyJobFinished announces a terminal job result.
func (n *NotificationService) NotifyJobFinished(job *domain.Job, result domain.Result) {
	title := "Download complete"
	if !result.Success {
		title = "Download failed"
	}
	n.send(title, result.Message)
}

func (n *NotificationService) send(title, message string) {
	if !n.config.Enabled {
		return
	}

	var cmd *exec.Cmd
	switch n.config.Method {
	case "osascript":
		script := fmt.Sprintf(`display notification %q with title %q`, message, title)
		cmd = exec.Command("osascript", "-e", script)
	case "notify-send":
		cmd = exec.Command("notify-send", title, message)
	default:
		n.logger.Warn("Unknown notification method", zap.String("method", n.config.Method))
		return
	}

	if err := cmd.Run(); err != nil {
		n.logger.Warn("Failed to send notification",
			zap.String("method", n.config.Method),
			zap.Error(err))
	}
}
