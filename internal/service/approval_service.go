package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/goodhive/onboarding-service/internal/domain"
	"github.com/goodhive/onboarding-service/internal/events"
	"github.com/goodhive/onboarding-service/internal/observability"
	"github.com/goodhive/onboarding-service/internal/repository"
	apperrors "github.com/goodhive/onboarding-service/pkg/util/errorutil"
)

// Transition names used for metrics and logs.
const (
	TransitionApproveTalent  = "approve_talent"
	TransitionApproveCompany = "approve_company"
	TransitionRejectTalent   = "reject_talent"
	TransitionRejectCompany  = "reject_company"
	TransitionSubmitReview   = "submit_review"
)

// ApprovalService applies moderation transitions to a profile and its user
// row as one transaction.
type ApprovalService struct {
	tx         repository.TxManager
	talents    repository.TalentRepository
	companies  repository.CompanyRepository
	history    repository.ModerationHistoryRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// ApprovalDependencies bundles collaborators for the approval service.
type ApprovalDependencies struct {
	TxManager   repository.TxManager
	TalentRepo  repository.TalentRepository
	CompanyRepo repository.CompanyRepository
	HistoryRepo repository.ModerationHistoryRepository
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
}

// ApproveTalentInput is an admin decision on a talent profile.
type ApproveTalentInput struct {
	UserID       string
	Flags        domain.ApprovalFlags
	ReferralCode *string
	ActorID      *string
}

// ApprovalResult reports a committed transition. A failed transition never
// yields a result: it is rolled back in full and an error is returned.
type ApprovalResult struct {
	UserID           string
	Kind             events.ProfileKind
	Statuses         map[domain.Role]domain.ApprovalStatus
	ReferralCredited bool
	Committed        bool
}

// NewApprovalService constructs the service.
func NewApprovalService(deps ApprovalDependencies) *ApprovalService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApprovalService{
		tx:         deps.TxManager,
		talents:    deps.TalentRepo,
		companies:  deps.CompanyRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// ApproveTalent marks the talent profile approved, overwrites the capability
// flags that were decided, moves the matching user statuses and credits the
// referral code when one is given.
func (s *ApprovalService) ApproveTalent(ctx context.Context, input ApproveTalentInput) (*ApprovalResult, error) {
	userID, err := validateUserID(input.UserID)
	if err != nil {
		return nil, err
	}
	referralCode := normalizeOptional(input.ReferralCode)

	result := &ApprovalResult{UserID: userID, Kind: events.ProfileTalent}
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if _, err := repos.Talents.GetByUserIDForUpdate(ctx, userID); err != nil {
			return notFoundOr(err, "talent profile", userID)
		}
		user, err := repos.Users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return notFoundOr(err, "user", userID)
		}

		if err := repos.Talents.SetModeration(ctx, userID, true, false, input.Flags); err != nil {
			return notFoundOr(err, "talent profile", userID)
		}

		statuses := map[domain.Role]domain.ApprovalStatus{}
		for _, role := range domain.TalentRoles {
			if status, ok := input.Flags.StatusFor(role); ok {
				statuses[role] = status
			}
		}
		if err := repos.Users.UpdateStatuses(ctx, userID, statuses); err != nil {
			return notFoundOr(err, "user", userID)
		}
		result.Statuses = mergeStatuses(user, statuses)

		if referralCode != nil {
			credited, err := repos.Referrals.CreditApproval(ctx, *referralCode, userID)
			if err != nil {
				return notFoundOr(err, "referral", *referralCode)
			}
			result.ReferralCredited = credited
		}
		return audit(ctx, repos, user, TransitionApproveTalent, events.ProfileTalent, adminActor(input.ActorID), result.Statuses)
	})
	if err != nil {
		return nil, s.fail(TransitionApproveTalent, userID, "unable to approve", err)
	}

	result.Committed = true
	s.metrics.RecordTransition(TransitionApproveTalent, "committed")
	s.logger.Info("talent approved",
		zap.String("user_id", userID),
		zap.Any("statuses", result.Statuses),
		zap.Bool("referral_credited", result.ReferralCredited))

	s.publish(ctx, events.Event{
		Type:   events.EventTalentApproved,
		UserID: userID,
		Actor:  adminActor(input.ActorID),
		Payload: events.TalentApprovedPayload{
			Statuses:         result.Statuses,
			ReferralCode:     referralCode,
			ReferralCredited: result.ReferralCredited,
		},
	})
	return result, nil
}

// ApproveCompany approves a company profile and the user's recruiter status.
func (s *ApprovalService) ApproveCompany(ctx context.Context, userID string, actorID *string) (*ApprovalResult, error) {
	userID, err := validateUserID(userID)
	if err != nil {
		return nil, err
	}

	result := &ApprovalResult{UserID: userID, Kind: events.ProfileCompany}
	var designation string
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		company, err := repos.Companies.GetByUserIDForUpdate(ctx, userID)
		if err != nil {
			return notFoundOr(err, "company profile", userID)
		}
		designation = company.Designation

		user, err := repos.Users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return notFoundOr(err, "user", userID)
		}
		if err := repos.Companies.SetModeration(ctx, userID, true, false); err != nil {
			return notFoundOr(err, "company profile", userID)
		}

		statuses := map[domain.Role]domain.ApprovalStatus{domain.RoleRecruiter: domain.StatusApproved}
		if err := repos.Users.UpdateStatuses(ctx, userID, statuses); err != nil {
			return notFoundOr(err, "user", userID)
		}
		result.Statuses = mergeStatuses(user, statuses)
		return audit(ctx, repos, user, TransitionApproveCompany, events.ProfileCompany, adminActor(actorID), result.Statuses)
	})
	if err != nil {
		return nil, s.fail(TransitionApproveCompany, userID, "unable to approve", err)
	}

	result.Committed = true
	s.metrics.RecordTransition(TransitionApproveCompany, "committed")
	s.logger.Info("company approved", zap.String("user_id", userID))

	s.publish(ctx, events.Event{
		Type:    events.EventCompanyApproved,
		UserID:  userID,
		Actor:   adminActor(actorID),
		Payload: events.CompanyApprovedPayload{Designation: designation},
	})
	return result, nil
}

// RejectTalent clears both moderation flags and sends every role the profile
// carries back to pending.
func (s *ApprovalService) RejectTalent(ctx context.Context, userID string, actorID *string) (*ApprovalResult, error) {
	userID, err := validateUserID(userID)
	if err != nil {
		return nil, err
	}

	result := &ApprovalResult{UserID: userID, Kind: events.ProfileTalent}
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		talent, err := repos.Talents.GetByUserIDForUpdate(ctx, userID)
		if err != nil {
			return notFoundOr(err, "talent profile", userID)
		}
		user, err := repos.Users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return notFoundOr(err, "user", userID)
		}
		if err := repos.Talents.SetModeration(ctx, userID, false, false, domain.ApprovalFlags{}); err != nil {
			return notFoundOr(err, "talent profile", userID)
		}

		carried := map[domain.Role]bool{
			domain.RoleTalent:    true,
			domain.RoleMentor:    talent.Mentor,
			domain.RoleRecruiter: talent.Recruiter,
		}
		statuses := map[domain.Role]domain.ApprovalStatus{}
		for _, role := range domain.TalentRoles {
			if carried[role] && user.Status(role) != domain.StatusPending {
				statuses[role] = domain.StatusPending
			}
		}
		if err := repos.Users.UpdateStatuses(ctx, userID, statuses); err != nil {
			return notFoundOr(err, "user", userID)
		}
		result.Statuses = mergeStatuses(user, statuses)
		return audit(ctx, repos, user, TransitionRejectTalent, events.ProfileTalent, adminActor(actorID), result.Statuses)
	})
	if err != nil {
		return nil, s.fail(TransitionRejectTalent, userID, "unable to reject", err)
	}

	result.Committed = true
	s.metrics.RecordTransition(TransitionRejectTalent, "committed")
	s.publish(ctx, events.Event{
		Type:    events.EventProfileRejected,
		UserID:  userID,
		Actor:   adminActor(actorID),
		Payload: events.ProfileRejectedPayload{Kind: events.ProfileTalent},
	})
	return result, nil
}

// RejectCompany clears both moderation flags of a company and resets the
// recruiter status.
func (s *ApprovalService) RejectCompany(ctx context.Context, userID string, actorID *string) (*ApprovalResult, error) {
	userID, err := validateUserID(userID)
	if err != nil {
		return nil, err
	}

	result := &ApprovalResult{UserID: userID, Kind: events.ProfileCompany}
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if _, err := repos.Companies.GetByUserIDForUpdate(ctx, userID); err != nil {
			return notFoundOr(err, "company profile", userID)
		}
		user, err := repos.Users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return notFoundOr(err, "user", userID)
		}
		if err := repos.Companies.SetModeration(ctx, userID, false, false); err != nil {
			return notFoundOr(err, "company profile", userID)
		}
		statuses := map[domain.Role]domain.ApprovalStatus{domain.RoleRecruiter: domain.StatusPending}
		if err := repos.Users.UpdateStatuses(ctx, userID, statuses); err != nil {
			return notFoundOr(err, "user", userID)
		}
		result.Statuses = mergeStatuses(user, statuses)
		return audit(ctx, repos, user, TransitionRejectCompany, events.ProfileCompany, adminActor(actorID), result.Statuses)
	})
	if err != nil {
		return nil, s.fail(TransitionRejectCompany, userID, "unable to reject", err)
	}

	result.Committed = true
	s.metrics.RecordTransition(TransitionRejectCompany, "committed")
	s.publish(ctx, events.Event{
		Type:    events.EventProfileRejected,
		UserID:  userID,
		Actor:   adminActor(actorID),
		Payload: events.ProfileRejectedPayload{Kind: events.ProfileCompany},
	})
	return result, nil
}

// SubmitForReview puts a profile into the moderation queue: in_review is set,
// approved is cleared and the user's role status becomes in_review. For a
// talent every role that was approved or in review moves to in_review, so no
// role stays approved on an unapproved profile. A nil adminID means the owner
// asked, and owners cannot pull an approved profile back into review.
func (s *ApprovalService) SubmitForReview(ctx context.Context, userID string, kind events.ProfileKind, adminID *string) (*ApprovalResult, error) {
	userID, err := validateUserID(userID)
	if err != nil {
		return nil, err
	}
	if kind != events.ProfileTalent && kind != events.ProfileCompany {
		return nil, apperrors.NewValidationError("unknown profile kind", map[string]any{"kind": kind})
	}

	actor := adminActor(adminID)
	if adminID == nil {
		actor = events.Actor{Type: domain.SubjectTypeUser}
	}

	result := &ApprovalResult{UserID: userID, Kind: kind}
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var approved bool
		if kind == events.ProfileTalent {
			talent, err := repos.Talents.GetByUserIDForUpdate(ctx, userID)
			if err != nil {
				return notFoundOr(err, "talent profile", userID)
			}
			approved = talent.Approved
		} else {
			company, err := repos.Companies.GetByUserIDForUpdate(ctx, userID)
			if err != nil {
				return notFoundOr(err, "company profile", userID)
			}
			approved = company.Approved
		}
		if approved && actor.Type == domain.SubjectTypeUser {
			return apperrors.NewConflict("profile is already approved", map[string]any{"userId": userID})
		}

		user, err := repos.Users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return notFoundOr(err, "user", userID)
		}

		if kind == events.ProfileTalent {
			err = repos.Talents.SetModeration(ctx, userID, false, true, domain.ApprovalFlags{})
		} else {
			err = repos.Companies.SetModeration(ctx, userID, false, true)
		}
		if err != nil {
			return notFoundOr(err, string(kind)+" profile", userID)
		}

		statuses := reviewStatuses(user, kind)
		if err := repos.Users.UpdateStatuses(ctx, userID, statuses); err != nil {
			return notFoundOr(err, "user", userID)
		}
		result.Statuses = mergeStatuses(user, statuses)
		return audit(ctx, repos, user, TransitionSubmitReview, kind, actor, result.Statuses)
	})
	if err != nil {
		return nil, s.fail(TransitionSubmitReview, userID, "unable to submit for review", err)
	}

	result.Committed = true
	s.metrics.RecordTransition(TransitionSubmitReview, "committed")
	s.publish(ctx, events.Event{
		Type:    events.EventReviewRequested,
		UserID:  userID,
		Actor:   actor,
		Payload: events.ReviewRequestedPayload{Kind: kind},
	})
	return result, nil
}

func reviewStatuses(user *domain.User, kind events.ProfileKind) map[domain.Role]domain.ApprovalStatus {
	if kind == events.ProfileCompany {
		return map[domain.Role]domain.ApprovalStatus{domain.RoleRecruiter: domain.StatusInReview}
	}
	statuses := map[domain.Role]domain.ApprovalStatus{domain.RoleTalent: domain.StatusInReview}
	for _, role := range domain.TalentRoles {
		if user.Status(role) == domain.StatusApproved {
			statuses[role] = domain.StatusInReview
		}
	}
	return statuses
}

// ListPendingTalents returns talent profiles waiting for moderation.
func (s *ApprovalService) ListPendingTalents(ctx context.Context, limit, offset int) ([]domain.TalentProfile, error) {
	talents, err := s.talents.ListPending(ctx, limit, offset)
	if err != nil {
		s.logger.Error("list pending talents", zap.Error(err))
		return nil, apperrors.NewPersistenceError("unable to list pending talents", err)
	}
	return talents, nil
}

// ListPendingCompanies returns company profiles waiting for moderation.
func (s *ApprovalService) ListPendingCompanies(ctx context.Context, limit, offset int) ([]domain.CompanyProfile, error) {
	companies, err := s.companies.ListPending(ctx, limit, offset)
	if err != nil {
		s.logger.Error("list pending companies", zap.Error(err))
		return nil, apperrors.NewPersistenceError("unable to list pending companies", err)
	}
	return companies, nil
}

// History returns the moderation audit trail of a user, oldest first.
func (s *ApprovalService) History(ctx context.Context, userID string) ([]domain.ModerationEntry, error) {
	userID, err := validateUserID(userID)
	if err != nil {
		return nil, err
	}
	entries, err := s.history.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("list moderation history", zap.String("user_id", userID), zap.Error(err))
		return nil, apperrors.NewPersistenceError("unable to load moderation history", err)
	}
	return entries, nil
}

// fail records a rolled back transition. Domain errors pass through; any
// other failure is hidden behind message and logged with its cause.
func (s *ApprovalService) fail(transition, userID, message string, err error) error {
	s.metrics.RecordTransition(transition, "rolled_back")

	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		s.logger.Info("moderation transition rejected",
			zap.String("transition", transition),
			zap.String("user_id", userID),
			zap.String("code", domainErr.Code),
			zap.String("reason", domainErr.Message))
		return domainErr
	}

	s.logger.Error("moderation transition failed",
		zap.String("transition", transition),
		zap.String("user_id", userID),
		zap.Error(err))
	return apperrors.NewPersistenceError(message, err)
}

func (s *ApprovalService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed",
			zap.String("event_type", string(event.Type)),
			zap.String("user_id", event.UserID),
			zap.Error(err))
	}
}

func validateUserID(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", apperrors.NewValidationError("userId is required", map[string]any{"field": "userId"})
	}
	if _, err := uuid.Parse(userID); err != nil {
		return "", apperrors.NewValidationError("userId must be a UUID", map[string]any{"field": "userId"})
	}
	return userID, nil
}

func normalizeOptional(val *string) *string {
	if val == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*val)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// notFoundOr turns a zero-row match into a NotFound error.
func notFoundOr(err error, resource, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return err
}

func mergeStatuses(user *domain.User, changed map[domain.Role]domain.ApprovalStatus) map[domain.Role]domain.ApprovalStatus {
	merged := make(map[domain.Role]domain.ApprovalStatus, len(domain.TalentRoles))
	for _, role := range domain.TalentRoles {
		merged[role] = user.Status(role)
	}
	for role, status := range changed {
		merged[role] = status
	}
	return merged
}

// audit writes the history row inside the transition's transaction.
func audit(ctx context.Context, repos repository.Repositories, user *domain.User, transition string, kind events.ProfileKind, actor events.Actor, after map[domain.Role]domain.ApprovalStatus) error {
	entry := &domain.ModerationEntry{
		UserID:     user.UserID,
		Kind:       string(kind),
		Transition: transition,
		ActorType:  actor.Type,
		ActorID:    actor.AdminID,
		Before:     mergeStatuses(user, nil),
		After:      after,
	}
	if actor.Type == domain.SubjectTypeUser {
		entry.ActorID = &entry.UserID
	}
	return repos.History.Create(ctx, entry)
}

func adminActor(adminID *string) events.Actor {
	if adminID == nil {
		return events.Actor{}
	}
	return events.Actor{Type: domain.SubjectTypeAdmin, AdminID: adminID}
}
