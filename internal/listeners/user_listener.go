package listeners

import (
	"go.uber.org/zap"

	"nomadlink/internal/models"
	"nomadlink/pkg/config"
	"nomadlink/pkg/logger"
	"nomadlink/pkg/notification"
	"nomadlink/pkg/util"
)

// InitUserListeners sends a welcome mail to users who registered with an
// email address. Wallet-only accounts have none and are skipped.
func InitUserListeners() {
	util.Sig().Connect(models.SigUserCreate, func(sender any, params ...any) {
		user := sender.(*models.User)
		if user.Email == nil {
			return
		}
		email := *user.Email

		go func() {
			err := notification.NewMailNotification(config.GlobalConfig.Mail).
				SendWelcomeEmail(email, user.Username)
			if err != nil {
				logger.Warn("welcome mail failed", zap.Error(err), zap.String("username", user.Username))
			}
		}()
	})
}
