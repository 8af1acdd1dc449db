package worker

import (
	"github.com/goodhive/onboarding-service/internal/service"
)

// StartNotificationWorker subscribes the notification service to moderation
// events. Handlers run synchronously after each commit.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
