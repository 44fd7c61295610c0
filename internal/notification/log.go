package notification

import "log/slog"

// LogSender writes codes to the log instead of sending email. Used when SMTP
// is not configured, for local development.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendVerificationCode(name, to, code string) error {
	s.logger.Info("verification code issued", "to", to, "code", code)
	return nil
}

func (s *LogSender) SendPasswordResetCode(name, to, code string) error {
	s.logger.Info("password reset code issued", "to", to, "code", code)
	return nil
}
