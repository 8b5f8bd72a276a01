package server

import (
	"errors"

	"catalog/harvester/internal/domain"
	"catalog/harvester/internal/repository"
	"catalog/harvester/internal/state"

	"github.com/gofiber/fiber/v3"
)

type handlers struct {
	brands repository.BrandRepository
	trends repository.TrendRepository
	runs   state.StateManager
}

func (h *handlers) listCategories(c fiber.Ctx) error {
	categories, err := h.brands.ListCategories(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

func (h *handlers) listBrands(c fiber.Ctx) error {
	brands, err := h.brands.ListBrands(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(brands)
}

func (h *handlers) listTrends(c fiber.Ctx) error {
	headlines, err := h.trends.ListHeadlines(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(headlines)
}

func (h *handlers) lastRun(c fiber.Ctx) error {
	name, ok := domain.ParsePipelineName(c.Params("pipeline"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "unknown pipeline")
	}

	summary, err := h.runs.LastRun(c.Context(), name)
	if err != nil {
		if errors.Is(err, state.ErrNoRun) {
			return fiber.NewError(fiber.StatusNotFound, "no run recorded")
		}
		return err
	}
	return c.JSON(summary)
}
