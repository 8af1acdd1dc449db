package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goodhive/onboarding-service/internal/config"
	"github.com/goodhive/onboarding-service/internal/domain"
	"github.com/goodhive/onboarding-service/internal/events"
)

type captureSender struct {
	sent []EmailMessage
	err  error
}

func (c *captureSender) Send(_ context.Context, msg EmailMessage) error {
	c.sent = append(c.sent, msg)
	return c.err
}

func TestNotificationService_EmailsApprovedTalent(t *testing.T) {
	db := newMemDB()
	db.seedTalent(pendingUser(talentA), domain.TalentProfile{UserID: talentA})
	dispatcher := events.NewInMemoryDispatcher()
	sender := &captureSender{}
	cfg := config.NotificationConfig{EmailFrom: "noreply@goodhive.io"}
	NewNotificationService(dispatcher, db.committedRepos().Users, sender, zap.NewNop(), cfg).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventTalentApproved,
		UserID:  talentA,
		Payload: events.TalentApprovedPayload{},
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, talentA+"@example.com", sender.sent[0].To)
	assert.Equal(t, "talent_approved", sender.sent[0].Template)
}

func TestNotificationService_SenderFailureIsSwallowed(t *testing.T) {
	db := newMemDB()
	db.seedCompany(pendingUser(companyA), domain.CompanyProfile{UserID: companyA})
	dispatcher := events.NewInMemoryDispatcher()
	sender := &captureSender{err: errors.New("smtp down")}
	cfg := config.NotificationConfig{EmailFrom: "noreply@goodhive.io"}
	NewNotificationService(dispatcher, db.committedRepos().Users, sender, nil, cfg).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{Type: events.EventCompanyApproved, UserID: companyA})
	assert.NoError(t, err)
	assert.Len(t, sender.sent, 1)
}

func TestNotificationService_ReviewRequestNeedsAdminURL(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	sender := &captureSender{}
	cfg := config.NotificationConfig{EmailFrom: "noreply@goodhive.io"}
	NewNotificationService(dispatcher, nil, sender, nil, cfg).RegisterHandlers()

	event := events.Event{Type: events.EventReviewRequested, UserID: talentA, Payload: events.ReviewRequestedPayload{Kind: events.ProfileTalent}}
	require.NoError(t, dispatcher.Publish(context.Background(), event))
	assert.Empty(t, sender.sent)

	dispatcher = events.NewInMemoryDispatcher()
	cfg.AdminURL = "https://admin.goodhive.io"
	NewNotificationService(dispatcher, nil, sender, nil, cfg).RegisterHandlers()
	require.NoError(t, dispatcher.Publish(context.Background(), event))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "review_requested", sender.sent[0].Template)
}
