package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/eda/internal/models"
	"github.com/soltixdb/eda/internal/services"
)

// Summarize handles POST /v1/summary
func (h *Handler) Summarize(c *fiber.Ctx) error {
	var req models.SampleRequest
	if err := parseJSON(c, &req, false); err != nil {
		return err
	}
	res, err := h.summaryService.Summarize(&req)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// Percentiles handles POST /v1/percentiles
func (h *Handler) Percentiles(c *fiber.Ctx) error {
	var req models.SampleRequest
	if err := parseJSON(c, &req, false); err != nil {
		return err
	}
	res, err := h.summaryService.Percentiles(&req)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// Outliers handles POST /v1/outliers
func (h *Handler) Outliers(c *fiber.Ctx) error {
	var req models.OutliersRequest
	if err := parseJSON(c, &req, false); err != nil {
		return err
	}
	res, err := h.summaryService.Outliers(&req)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// Subsample handles POST /v1/subsample
func (h *Handler) Subsample(c *fiber.Ctx) error {
	var req models.SubsampleRequest
	if err := parseJSON(c, &req, false); err != nil {
		return err
	}
	res, err := h.summaryService.Subsample(&req)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// TTest handles POST /v1/ttest
func (h *Handler) TTest(c *fiber.Ctx) error {
	var req models.TTestRequest
	if err := parseJSON(c, &req, false); err != nil {
		return err
	}
	res, err := h.summaryService.TTest(&req)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// Exceedance handles POST /v1/exceedance
func (h *Handler) Exceedance(c *fiber.Ctx) error {
	var req models.ExceedanceRequest
	if err := parseJSON(c, &req, false); err != nil {
		return err
	}
	res, err := h.summaryService.Exceedance(&req)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// Generate handles POST /v1/generate. An empty body uses the configured
// generator parameters. With "store": true the sample is also written to the
// result store's samples table, where paged jobs read it.
func (h *Handler) Generate(c *fiber.Ctx) error {
	var req models.GenerateSampleRequest
	if err := parseJSON(c, &req, true); err != nil {
		return err
	}

	var samples SampleWriter
	if req.Store {
		w, ok := h.results.(SampleWriter)
		if !ok {
			return fiber.NewError(fiber.StatusServiceUnavailable, "sample store is not enabled")
		}
		samples = w
	}

	res, err := h.summaryService.Generate(&req.GenerateRequest)
	if err != nil {
		return err
	}

	if samples != nil {
		if err := samples.InsertSample(c.UserContext(), res.Sample); err != nil {
			h.logger.Error("Failed to store generated sample", "size", len(res.Sample), "error", err)
			return services.NewServiceError(services.CodeInternalError, err.Error())
		}
		res.Stored = true
	}
	return c.JSON(res)
}
