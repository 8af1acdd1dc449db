package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/goodhive/onboarding-service/internal/api/dto"
	"github.com/goodhive/onboarding-service/internal/domain"
	"github.com/goodhive/onboarding-service/internal/repository"
	"github.com/goodhive/onboarding-service/internal/service"
)

// SearchHandler serves the public read endpoints.
type SearchHandler struct {
	service *service.SearchService
}

// NewSearchHandler constructs handler.
func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{service: searchService}
}

// SearchJobs GET /api/jobs/search.
func (h *SearchHandler) SearchJobs(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	filter := repository.JobOfferFilter{
		SearchTerm: queryString(c, "q"),
		Skill:      queryString(c, "skill"),
		City:       queryString(c, "city"),
		Country:    queryString(c, "country"),
		Limit:      limit,
		Offset:     offset,
	}
	jobs, err := h.service.SearchJobs(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.JobOfferSummary, 0, len(jobs))
	for _, job := range jobs {
		skills := job.Skills
		if skills == nil {
			skills = []string{}
		}
		items = append(items, dto.JobOfferSummary{
			ID:            job.ID,
			CompanyUserID: job.CompanyUserID,
			Title:         job.Title,
			Description:   job.Description,
			Skills:        skills,
			City:          job.City,
			Country:       job.Country,
			Budget:        job.Budget,
			Currency:      job.Currency,
			CreatedAt:     job.CreatedAt,
		})
	}
	return c.JSON(items)
}

// ListTalents GET /api/talents.
func (h *SearchHandler) ListTalents(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	filter := repository.TalentFilter{
		Skill:  queryString(c, "skill"),
		Limit:  limit,
		Offset: offset,
	}
	if role := queryString(c, "role"); role != nil {
		r := domain.Role(*role)
		filter.Role = &r
	}
	talents, err := h.service.ListTalents(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TalentSummary, 0, len(talents))
	for _, t := range talents {
		items = append(items, dto.NewTalentSummary(t))
	}
	return c.JSON(items)
}
