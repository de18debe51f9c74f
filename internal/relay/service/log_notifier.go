package service

import (
	"futures-relay/pkg/logger"
)

// NewLogNotifier returns a Notifier that only writes messages to the log.
func NewLogNotifier(log *logger.Logger) Notifier {
	return &logNotifier{log: log}
}

type logNotifier struct {
	log *logger.Logger
}

func (n *logNotifier) SendMessage(text string) error {
	n.log.Info("Notification", logger.StringField("message", text))
	return nil
}
