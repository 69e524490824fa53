package handlers

import (
	"bytes"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/eda/internal/models"
	"github.com/soltixdb/eda/internal/report"
)

// HeightReport handles POST /v1/reports/height.
// ?format=text returns the printed report instead of JSON.
func (h *Handler) HeightReport(c *fiber.Ctx) error {
	var req models.HeightReportRequest
	if err := parseJSON(c, &req, true); err != nil {
		return err
	}
	r, err := h.reportService.Height(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return h.sendReport(c, r)
}

// HeartReport handles POST /v1/reports/heart with a CSV body.
// Query parameters: bins (age histogram bins), publish, format.
func (h *Handler) HeartReport(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "CSV body is required")
	}

	r, err := h.reportService.Heart(c.UserContext(), bytes.NewReader(body), c.QueryInt("bins"), c.QueryBool("publish"))
	if err != nil {
		return err
	}
	return h.sendReport(c, r)
}

// HeartReportDataset handles GET /v1/reports/heart using the configured
// dataset file
func (h *Handler) HeartReportDataset(c *fiber.Ctx) error {
	r, err := h.reportService.HeartFromDataset(c.UserContext(), c.QueryInt("bins"), c.QueryBool("publish"))
	if err != nil {
		return err
	}
	return h.sendReport(c, r)
}

func (h *Handler) sendReport(c *fiber.Ctx, r report.Report) error {
	if !strings.EqualFold(c.Query("format"), "text") {
		return c.JSON(r)
	}

	var buf bytes.Buffer
	if err := r.WriteText(&buf); err != nil {
		return err
	}
	c.Type("txt", "utf-8")
	return c.Send(buf.Bytes())
}
