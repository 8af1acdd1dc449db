package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/goodhive/onboarding-service/internal/api/dto"
	"github.com/goodhive/onboarding-service/internal/domain"
	"github.com/goodhive/onboarding-service/internal/service"
	apperrors "github.com/goodhive/onboarding-service/pkg/util/errorutil"
)

// ReferralHandler exposes referral code endpoints.
type ReferralHandler struct {
	service *service.ReferralService
}

// NewReferralHandler constructs handler.
func NewReferralHandler(referralService *service.ReferralService) *ReferralHandler {
	return &ReferralHandler{service: referralService}
}

// Create POST /api/referrals. Answers 201 when a code was issued and 200
// when the wallet already had one.
func (h *ReferralHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateReferralRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	referral, created, err := h.service.GetOrCreate(c.UserContext(), req.WalletAddress)
	if err != nil {
		return err
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"data": referralResponse(referral)})
}

// Get GET /api/referrals/:code.
func (h *ReferralHandler) Get(c *fiber.Ctx) error {
	referral, err := h.service.GetByCode(c.UserContext(), c.Params("code"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": referralResponse(referral)})
}

func referralResponse(r *domain.Referral) dto.ReferralResponse {
	approved := r.ApprovedTalents
	if approved == nil {
		approved = []string{}
	}
	return dto.ReferralResponse{
		WalletAddress:   r.WalletAddress,
		ReferralCode:    r.ReferralCode,
		ApprovedTalents: approved,
		CreatedAt:       r.CreatedAt,
	}
}
