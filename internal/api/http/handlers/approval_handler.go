package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/goodhive/onboarding-service/internal/api/dto"
	"github.com/goodhive/onboarding-service/internal/auth"
	"github.com/goodhive/onboarding-service/internal/domain"
	"github.com/goodhive/onboarding-service/internal/events"
	"github.com/goodhive/onboarding-service/internal/service"
	apperrors "github.com/goodhive/onboarding-service/pkg/util/errorutil"
)

// ApprovalHandler exposes profile moderation endpoints.
type ApprovalHandler struct {
	service *service.ApprovalService
}

// NewApprovalHandler constructs handler.
func NewApprovalHandler(approvalService *service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{service: approvalService}
}

// ApproveTalent POST /api/talents/approve.
func (h *ApprovalHandler) ApproveTalent(c *fiber.Ctx) error {
	var req dto.ApproveTalentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	res, err := h.service.ApproveTalent(c.UserContext(), service.ApproveTalentInput{
		UserID: req.UserID,
		Flags: domain.ApprovalFlags{
			Talent:    req.ApprovalTypes.Talent,
			Mentor:    req.ApprovalTypes.Mentor,
			Recruiter: req.ApprovalTypes.Recruiter,
		},
		ReferralCode: req.ReferralCode,
		ActorID:      adminID(c),
	})
	if err != nil {
		return err
	}
	return c.JSON(moderationResponse("Talent approved successfully", res))
}

// ApproveCompany POST /api/admin/companies/pending.
func (h *ApprovalHandler) ApproveCompany(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}
	res, err := h.service.ApproveCompany(c.UserContext(), userID, adminID(c))
	if err != nil {
		return err
	}
	return c.JSON(moderationResponse("Company approved successfully", res))
}

// RejectTalent POST /api/admin/talents/reject.
func (h *ApprovalHandler) RejectTalent(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}
	res, err := h.service.RejectTalent(c.UserContext(), userID, adminID(c))
	if err != nil {
		return err
	}
	return c.JSON(moderationResponse("Talent rejected", res))
}

// RejectCompany POST /api/admin/companies/reject.
func (h *ApprovalHandler) RejectCompany(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}
	res, err := h.service.RejectCompany(c.UserContext(), userID, adminID(c))
	if err != nil {
		return err
	}
	return c.JSON(moderationResponse("Company rejected", res))
}

// SubmitTalentReview POST /api/talents/review.
func (h *ApprovalHandler) SubmitTalentReview(c *fiber.Ctx) error {
	return h.submitReview(c, events.ProfileTalent)
}

// SubmitCompanyReview POST /api/companies/review.
func (h *ApprovalHandler) SubmitCompanyReview(c *fiber.Ctx) error {
	return h.submitReview(c, events.ProfileCompany)
}

func (h *ApprovalHandler) submitReview(c *fiber.Ctx, kind events.ProfileKind) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !principal.CanActFor(userID) {
		return apperrors.NewForbidden("cannot submit another user's profile")
	}
	res, err := h.service.SubmitForReview(c.UserContext(), userID, kind, adminID(c))
	if err != nil {
		return err
	}
	return c.JSON(moderationResponse("Profile submitted for review", res))
}

// ListPendingTalents GET /api/admin/talents/pending.
func (h *ApprovalHandler) ListPendingTalents(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	talents, err := h.service.ListPendingTalents(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.TalentSummary, 0, len(talents))
	for _, t := range talents {
		items = append(items, dto.NewTalentSummary(t))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListPendingCompanies GET /api/admin/companies/pending.
func (h *ApprovalHandler) ListPendingCompanies(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	companies, err := h.service.ListPendingCompanies(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.CompanySummary, 0, len(companies))
	for _, company := range companies {
		items = append(items, dto.NewCompanySummary(company))
	}
	return c.JSON(fiber.Map{"data": items})
}

// History GET /api/admin/moderation-history/:userId.
func (h *ApprovalHandler) History(c *fiber.Ctx) error {
	entries, err := h.service.History(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	items := make([]dto.ModerationEntry, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.ModerationEntry{
			ID:         e.ID,
			Kind:       e.Kind,
			Transition: e.Transition,
			ActorType:  string(e.ActorType),
			ActorID:    e.ActorID,
			Before:     e.Before,
			After:      e.After,
			CreatedAt:  e.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseUserID(c *fiber.Ctx) (string, error) {
	var req dto.UserIDRequest
	if err := c.BodyParser(&req); err != nil {
		return "", apperrors.NewValidationError("invalid payload", nil)
	}
	return req.UserID, nil
}

func adminID(c *fiber.Ctx) *string {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Admin == nil {
		return nil
	}
	id := principal.Admin.ID
	return &id
}

func moderationResponse(message string, res *service.ApprovalResult) dto.ModerationResponse {
	return dto.ModerationResponse{
		Message:          message,
		UserID:           res.UserID,
		Statuses:         res.Statuses,
		ReferralCredited: res.ReferralCredited,
	}
}
