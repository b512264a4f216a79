package listeners

import (
	"go.uber.org/zap"

	"nomadlink/internal/models"
	"nomadlink/pkg/config"
	"nomadlink/pkg/logger"
	"nomadlink/pkg/notification"
	"nomadlink/pkg/util"
	"nomadlink/pkg/websocket"
)

// EmergencyGroup is the shared broadcast topic every live subscriber joins.
const EmergencyGroup = "emergency_alerts"

// InitAlertListeners wires the emergency signals to the real-time hub and the
// mail side channel. Both deliveries are best-effort: the hub only enqueues,
// and mail runs in its own goroutine with failures logged, never surfaced.
func InitAlertListeners(hub *websocket.Hub) {
	util.Sig().Connect(models.SigAlertCreated, func(sender any, params ...any) {
		alert := sender.(*models.EmergencyAlert)
		owner := params[0].(*models.User)

		hub.BroadcastToGroup(EmergencyGroup, "new_alert", map[string]interface{}{
			"alert": alert,
		})

		if owner.Email == nil {
			return
		}
		email := *owner.Email
		go func() {
			err := notification.NewMailNotification(config.GlobalConfig.Mail).
				SendAlertReceived(email, owner.Username, alert.AlertType)
			if err != nil {
				logger.Warn("alert confirmation mail failed", zap.Error(err), zap.Uint("alert_id", alert.ID))
			}
		}()
	})

	util.Sig().Connect(models.SigAlertResolved, func(sender any, params ...any) {
		alert := sender.(*models.EmergencyAlert)
		owner := params[0].(*models.User)

		hub.BroadcastToGroup(EmergencyGroup, "alert_resolved", map[string]interface{}{
			"alert_id": alert.ID,
		})

		adminEmail := config.GlobalConfig.AdminEmail
		if adminEmail == "" {
			return
		}
		go func() {
			err := notification.NewMailNotification(config.GlobalConfig.Mail).
				SendAlertResolved(adminEmail, owner.WalletAddress, alert.ID)
			if err != nil {
				logger.Warn("alert resolution mail failed", zap.Error(err), zap.Uint("alert_id", alert.ID))
			}
		}()
	})
}
