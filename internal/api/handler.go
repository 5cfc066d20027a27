package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/barbaramelovalor031/expenses-valor/internal/config"
	"github.com/barbaramelovalor031/expenses-valor/internal/extractor"
	"github.com/barbaramelovalor031/expenses-valor/internal/fx"
	"github.com/barbaramelovalor031/expenses-valor/internal/logger"
	"github.com/barbaramelovalor031/expenses-valor/internal/models"
	"github.com/barbaramelovalor031/expenses-valor/internal/names"
	"github.com/barbaramelovalor031/expenses-valor/internal/parser"
	"github.com/barbaramelovalor031/expenses-valor/internal/writer"
)

// Version is reported by /api/health.
const Version = "1.0.0"

// pageBreak separates pages in client-extracted text.
const pageBreak = "\n---PAGE_BREAK---\n"

// ExtractResponse is the JSON response from the /api/extract endpoint.
type ExtractResponse struct {
	Success           bool                 `json:"success"`
	Error             string               `json:"error,omitempty"`
	Filename          string               `json:"filename,omitempty"`
	CardType          models.CardType      `json:"card_type,omitempty"`
	TotalTransactions int                  `json:"total_transactions"`
	Cardholders       []string             `json:"cardholders"`
	Transactions      []models.Transaction `json:"transactions"`
	RawText           string               `json:"rawText,omitempty"`
	DebugLines        []models.DebugLine   `json:"debugLines,omitempty"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	cfg   *config.Config
	names *names.Table
	rates fx.RateProvider
	log   zerolog.Logger
}

// NewHandler returns a handler that canonicalizes names with table and
// looks up BRL rates through rates.
func NewHandler(cfg *config.Config, table *names.Table, rates fx.RateProvider, log zerolog.Logger) *Handler {
	return &Handler{cfg: cfg, names: table, rates: rates, log: log}
}

// NewApp builds the fiber app with the API routes registered.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "expenses",
		BodyLimit:             h.cfg.Server.BodyLimitMB << 20,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	app.Use(h.requestLogger)
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")
	api.Get("/health", h.HandleHealth)
	api.Get("/cardholders", h.HandleCardholders)
	api.Post("/extract", h.HandleExtract)
	api.Post("/export", h.HandleExport)
}

// requestLogger puts the logger on the request context and logs the outcome.
func (h *Handler) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	c.SetUserContext(logger.WithContext(c.UserContext(), h.log))

	err := c.Next()

	status := c.Response().StatusCode()
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		status = fe.Code
	case err != nil:
		status = fiber.StatusInternalServerError
	}
	ev := h.log.Info()
	if status >= fiber.StatusInternalServerError {
		ev = h.log.Error()
	}
	ev.Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Dur("latency", time.Since(start)).
		Err(err).
		Msg("request")
	return err
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": Version,
		"engine":  "fiber",
	})
}

// HandleCardholders lists the canonical cardholder names.
func (h *Handler) HandleCardholders(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"cardholders": h.names.Canonical()})
}

// HandleExtract parses an uploaded statement and returns its transactions.
func (h *Handler) HandleExtract(c *fiber.Ctx) error {
	filename, pages, res, err := h.extract(c)
	if err != nil {
		return err
	}

	resp := ExtractResponse{
		Success:           true,
		Filename:          filename,
		CardType:          res.CardType,
		TotalTransactions: len(res.Transactions),
		Cardholders:       res.Cardholders,
		Transactions:      res.Transactions,
	}
	if c.FormValue("debug") == "true" {
		resp.RawText = strings.Join(pages, pageBreak)
		resp.DebugLines = res.DebugLines
	}
	return c.JSON(resp)
}

// HandleExport parses an uploaded statement and returns it as a download,
// XLSX by default or CSV with format=csv.
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	filename, _, res, err := h.extract(c)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	var buf bytes.Buffer
	switch format := strings.ToLower(c.FormValue("format", "xlsx")); format {
	case "xlsx":
		if err := (&writer.XLSXWriter{}).Write(&buf, res); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("XLSX generation failed: %v", err))
		}
		c.Attachment(base + ".xlsx")
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	case "csv":
		csvWriter := &writer.CSVWriter{IncludeHeader: c.FormValue("header") != "false"}
		if err := csvWriter.Write(&buf, res); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
		}
		c.Attachment(base + ".csv")
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	default:
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Unknown format: %q. Use xlsx or csv.", format))
	}
	return c.Send(buf.Bytes())
}

// extract reads the upload, resolves the card type and runs the parser.
// Errors are *fiber.Error carrying the response status.
func (h *Handler) extract(c *fiber.Ctx) (string, []string, *models.ExtractResult, error) {
	ctx := c.UserContext()

	header, err := c.FormFile("file")
	if err != nil {
		return "", nil, nil, fiber.NewError(fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		return "", nil, nil, fiber.NewError(fiber.StatusBadRequest, "Only PDF files are supported.")
	}

	var card models.CardType
	if raw := strings.TrimSpace(c.FormValue("card_type")); raw != "" {
		parsed, ok := models.ParseCardType(strings.ToLower(raw))
		if !ok {
			return "", nil, nil, fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Unknown card type: %q. Use amex, svb, or bradesco.", raw))
		}
		card = parsed
	}

	// Text extracted client-side (pdf.js) takes precedence over the file.
	pages := splitPages(c.FormValue("extractedText"))
	if len(pages) == 0 {
		f, err := header.Open()
		if err != nil {
			return "", nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to read uploaded file.")
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return "", nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to read uploaded file.")
		}
		pages, err = extractor.ExtractTextFromBytes(ctx, data)
		if err != nil {
			return "", nil, nil, fiber.NewError(fiber.StatusUnprocessableEntity, fmt.Sprintf("PDF extraction failed: %v", err))
		}
	}

	opts := parser.Options{
		Names:           h.names,
		DropNullAmounts: h.cfg.Extract.DropNullAmounts,
	}
	if h.rates != nil {
		// One converter per request: the rate cache lives for this statement only.
		opts.FX = fx.NewConverter(h.rates,
			fx.WithMaxAttempts(h.cfg.FX.MaxAttempts),
			fx.WithLogger(logger.FromContext(ctx)),
		)
	}

	res, err := parser.Extract(ctx, pages, card, opts)
	if err != nil {
		return "", nil, nil, fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	return header.Filename, pages, res, nil
}

func splitPages(text string) []string {
	var pages []string
	for _, page := range strings.Split(text, pageBreak) {
		if page = strings.TrimSpace(page); page != "" {
			pages = append(pages, page)
		}
	}
	return pages
}

// errorHandler renders every error as an ExtractResponse with success=false.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(ExtractResponse{
		Success:      false,
		Error:        err.Error(),
		Cardholders:  []string{},
		Transactions: []models.Transaction{},
	})
}
