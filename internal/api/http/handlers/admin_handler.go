package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/goodhive/onboarding-service/internal/api/dto"
	"github.com/goodhive/onboarding-service/internal/service"
	apperrors "github.com/goodhive/onboarding-service/pkg/util/errorutil"
)

// AdminHandler exposes admin login and diagnostics.
type AdminHandler struct {
	auth       *service.AuthService
	statusSync *service.StatusSyncService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(authService *service.AuthService, statusSync *service.StatusSyncService) *AdminHandler {
	return &AdminHandler{auth: authService, statusSync: statusSync}
}

// Login POST /api/admin/login.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	admin, token, exp, err := h.auth.LoginAdmin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"admin": fiber.Map{
				"id":    admin.ID,
				"name":  admin.Name,
				"email": admin.Email,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// StatusSync GET /api/admin/status-sync.
func (h *AdminHandler) StatusSync(c *fiber.Ctx) error {
	report, err := h.statusSync.Check(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"talents":        report.Talents,
			"companies":      report.Companies,
			"talent_total":   report.Talents.Total(),
			"company_total":  report.Companies.Total(),
			"drift_detected": report.Talents.Total()+report.Companies.Total() > 0,
		},
	})
}
