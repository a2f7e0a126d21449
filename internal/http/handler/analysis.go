package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"masterspeak/internal/http/middleware"
	"masterspeak/internal/repository"
	"masterspeak/internal/service"
)

// ListAnalyses handles GET /api/v1/analyses with page & limit.
func ListAnalyses(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := strconv.Atoi(c.Query("page", "1"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGE", "invalid page")
		}
		limit, err := strconv.Atoi(c.Query("limit", "20"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}

		res, err := svc.List(c.UserContext(), middleware.UserIDFromCtx(c), page, limit)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetAnalysis handles GET /api/v1/analyses/:id.
func GetAnalysis(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		a, err := svc.Get(c.UserContext(), middleware.UserIDFromCtx(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(a)
	}
}

// SearchAnalyses handles GET /api/v1/analyses/search. All filters are
// optional and AND-combined; omitted filters impose no constraint.
func SearchAnalyses(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := strconv.Atoi(c.Query("page", "1"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGE", "invalid page")
		}
		limit, err := strconv.Atoi(c.Query("limit", "20"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}

		var filters repository.SearchFilters
		filters.Query = c.Query("q")

		for param, dst := range map[string]**float64{
			"min_clarity":   &filters.MinClarity,
			"max_clarity":   &filters.MaxClarity,
			"min_structure": &filters.MinStructure,
			"max_structure": &filters.MaxStructure,
		} {
			raw := c.Query(param)
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_FILTER", "invalid "+param)
			}
			*dst = &v
		}

		for param, dst := range map[string]**time.Time{
			"start_date": &filters.StartDate,
			"end_date":   &filters.EndDate,
		} {
			raw := c.Query(param)
			if raw == "" {
				continue
			}
			v, err := parseDate(raw)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_FILTER", "invalid "+param)
			}
			*dst = &v
		}

		res, err := svc.Search(c.UserContext(), middleware.UserIDFromCtx(c), service.SearchParams{
			Filters: filters,
			Page:    page,
			Limit:   limit,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

type createAnalysisRequest struct {
	SpeechTitle string `json:"speech_title"`
	Text        string `json:"text"`
}

// CreateAnalysis handles POST /api/v1/analyses with a text submission.
func CreateAnalysis(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createAnalysisRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		a, err := svc.CreateFromText(c.UserContext(), middleware.UserIDFromCtx(c), req.SpeechTitle, req.Text)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	}
}

// UploadAnalysisAudio handles POST /api/v1/analyses/upload
// (multipart/form-data, fields: file, speech_title). The record is created
// without metrics; transcription and scoring happen out of band.
func UploadAnalysisAudio(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		title := c.FormValue("speech_title")

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		a, err := svc.CreateFromAudio(c.UserContext(), middleware.UserIDFromCtx(c), title, f, fh.Filename, ct, fh.Size)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	}
}

// ExportAnalysis handles GET /api/v1/analyses/:id/export.
func ExportAnalysis(svc service.ExportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		includeTranscript := c.QueryBool("include_transcript", false)
		format := service.ExportFormat(c.Query("format", "pdf"))

		res, err := svc.Export(c.UserContext(), middleware.UserIDFromCtx(c), id, format, includeTranscript)
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Set(fiber.HeaderContentType, res.ContentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+res.Filename+`"`)
		return c.Send(res.Data)
	}
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
