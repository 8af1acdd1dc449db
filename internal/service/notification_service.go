package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goodhive/onboarding-service/internal/config"
	"github.com/goodhive/onboarding-service/internal/events"
	"github.com/goodhive/onboarding-service/internal/repository"
)

// EmailMessage is a templated email handed to an EmailSender.
type EmailMessage struct {
	From     string
	To       string
	Subject  string
	Template string
	Data     map[string]any
}

// EmailSender delivers onboarding emails.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// LogEmailSender writes emails to the log instead of delivering them.
type LogEmailSender struct {
	Logger *zap.Logger
}

// Send implements EmailSender.
func (s LogEmailSender) Send(_ context.Context, msg EmailMessage) error {
	if s.Logger == nil {
		return nil
	}
	s.Logger.Info("email queued",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("template", msg.Template))
	return nil
}

// NotificationService turns moderation events into emails.
type NotificationService struct {
	dispatcher events.Dispatcher
	users      repository.UserRepository
	sender     EmailSender
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, users repository.UserRepository, sender EmailSender, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		users:      users,
		sender:     sender,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTalentApproved, n.handleTalentApproved)
	n.dispatcher.Subscribe(events.EventCompanyApproved, n.handleCompanyApproved)
	n.dispatcher.Subscribe(events.EventProfileRejected, n.handleProfileRejected)
	n.dispatcher.Subscribe(events.EventReviewRequested, n.handleReviewRequested)
}

func (n *NotificationService) handleTalentApproved(ctx context.Context, event events.Event) error {
	data := map[string]any{}
	if payload, ok := event.Payload.(events.TalentApprovedPayload); ok {
		data["statuses"] = payload.Statuses
	}
	n.notifyUser(ctx, event, "Your GoodHive profile was approved", "talent_approved", data)
	return nil
}

func (n *NotificationService) handleCompanyApproved(ctx context.Context, event events.Event) error {
	data := map[string]any{}
	if payload, ok := event.Payload.(events.CompanyApprovedPayload); ok {
		data["designation"] = payload.Designation
	}
	n.notifyUser(ctx, event, "Your company was approved on GoodHive", "company_approved", data)
	return nil
}

func (n *NotificationService) handleProfileRejected(ctx context.Context, event events.Event) error {
	data := map[string]any{}
	if payload, ok := event.Payload.(events.ProfileRejectedPayload); ok {
		data["kind"] = payload.Kind
	}
	n.notifyUser(ctx, event, "Your GoodHive profile needs changes", "profile_rejected", data)
	return nil
}

func (n *NotificationService) handleReviewRequested(ctx context.Context, event events.Event) error {
	if strings.TrimSpace(n.cfg.AdminURL) == "" {
		n.logger.Debug("review requested", zap.String("user_id", event.UserID))
		return nil
	}
	kind := ""
	if payload, ok := event.Payload.(events.ReviewRequestedPayload); ok {
		kind = string(payload.Kind)
	}
	n.send(ctx, EmailMessage{
		From:     n.cfg.EmailFrom,
		To:       n.cfg.EmailFrom,
		Subject:  fmt.Sprintf("New %s profile waiting for review", kind),
		Template: "review_requested",
		Data:     map[string]any{"user_id": event.UserID, "kind": kind, "admin_url": n.cfg.AdminURL},
	}, event)
	return nil
}

func (n *NotificationService) notifyUser(ctx context.Context, event events.Event, subject, template string, data map[string]any) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" || n.users == nil {
		return
	}
	user, err := n.users.GetByID(ctx, event.UserID)
	if err != nil {
		n.logger.Warn("notification recipient lookup failed", zap.String("user_id", event.UserID), zap.Error(err))
		return
	}
	if user.Email == "" {
		return
	}
	data["user_id"] = event.UserID
	n.send(ctx, EmailMessage{
		From:     n.cfg.EmailFrom,
		To:       user.Email,
		Subject:  subject,
		Template: template,
		Data:     data,
	}, event)
}

// send never propagates delivery failures to the moderation flow.
func (n *NotificationService) send(ctx context.Context, msg EmailMessage, event events.Event) {
	if n.sender == nil {
		return
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		n.logger.Warn("email delivery failed",
			zap.String("event_type", string(event.Type)),
			zap.String("user_id", event.UserID),
			zap.Error(err))
	}
}
