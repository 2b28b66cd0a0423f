package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tracknest/ingest/internal/extractor"
	"github.com/tracknest/ingest/internal/logger"
	"github.com/tracknest/ingest/internal/models"
	"github.com/tracknest/ingest/internal/parser"
	"github.com/tracknest/ingest/internal/store"
)

const (
	defaultMaxUpload = 5 << 20
	defaultTimeout   = 30 * time.Second
	maxListLimit     = 500
)

// Store is the persistence the handlers need.
type Store interface {
	UserByToken(ctx context.Context, token string) (models.User, error)
	InsertTransaction(ctx context.Context, in store.NewTransaction) (models.Transaction, error)
	ImportCandidates(ctx context.Context, userID int64, candidates []models.Candidate, pm models.PaymentMethod, description string) (store.ImportResult, error)
	ListTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error)
	SetMonthlyBudget(ctx context.Context, userID int64, amount decimal.Decimal) error
	CurrentBudget(ctx context.Context, userID int64) (store.BudgetStatus, error)
	ListNotifications(ctx context.Context, userID int64, limit int) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, id int64) error
	MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error)
}

// Handler serves the ingest API.
type Handler struct {
	Store      Store
	Statements *parser.StatementParser
	SMS        *parser.SMSParser
	Quick      *parser.QuickParser
	Log        zerolog.Logger

	// MaxUpload is the largest accepted statement in bytes.
	MaxUpload int64
	// Timeout bounds statement extraction.
	Timeout time.Duration
	Version string
}

// NewApp builds the fiber app with middleware and routes.
func NewApp(h *Handler) *fiber.App {
	if h.MaxUpload <= 0 {
		h.MaxUpload = defaultMaxUpload
	}
	if h.Timeout <= 0 {
		h.Timeout = defaultTimeout
	}

	app := fiber.New(fiber.Config{
		AppName:               "tracknest-ingest",
		DisableStartupMessage: true,
		// Room for the multipart envelope around a maximum-size file.
		BodyLimit:    int(h.MaxUpload) + 64<<10,
		ErrorHandler: errorHandler,
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(requestLogger(h.Log))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/statements", h.RequireUser, h.HandleStatementUpload)
	app.Post("/api/webhooks/sms", h.RequireUser, h.HandleSMSWebhook)
	app.Post("/api/transactions/quick", h.RequireUser, h.HandleQuickAdd)
	app.Get("/api/transactions", h.RequireUser, h.HandleListTransactions)
	app.Get("/api/budget", h.RequireUser, h.HandleGetBudget)
	app.Put("/api/budget", h.RequireUser, h.HandleSetBudget)
	app.Get("/api/notifications", h.RequireUser, h.HandleListNotifications)
	app.Post("/api/notifications/read-all", h.RequireUser, h.HandleMarkAllNotificationsRead)
	app.Post("/api/notifications/:id/read", h.RequireUser, h.HandleMarkNotificationRead)

	return app
}

// HandleHealth returns a simple health check.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": h.Version,
	})
}

// HandleStatementUpload imports the transactions of an uploaded PDF statement.
func (h *Handler) HandleStatementUpload(c *fiber.Ctx) error {
	user := currentUser(c)
	log := logger.FromContext(c.UserContext())

	fh, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}
	if fh.Size > h.MaxUpload {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("File is larger than %d bytes.", h.MaxUpload))
	}
	if ct := fh.Header.Get(fiber.HeaderContentType); ct != "application/pdf" {
		return fiber.NewError(fiber.StatusBadRequest, "Only application/pdf uploads are accepted.")
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".pdf") {
		return fiber.NewError(fiber.StatusBadRequest, "Only .pdf files are supported.")
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.MaxUpload+1))
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > h.MaxUpload {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("File is larger than %d bytes.", h.MaxUpload))
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return fiber.NewError(fiber.StatusBadRequest, "File is not a valid PDF.")
	}

	p := *h.Statements
	if name := c.FormValue("layout"); name != "" {
		layout, err := parser.LayoutByName(name)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		p.Layout = layout
	}
	p.Log = log

	ctx, cancel := context.WithTimeout(c.UserContext(), h.Timeout)
	defer cancel()

	candidates, err := p.ParseDocument(ctx, bytes.NewReader(data), int64(len(data)), c.FormValue("password"), strconv.FormatInt(user.ID, 10))
	switch {
	case errors.Is(err, extractor.ErrPassword):
		return fiber.NewError(fiber.StatusUnprocessableEntity, "The PDF password is missing or incorrect.")
	case errors.Is(err, extractor.ErrUnreadable):
		log.Warn().Err(err).Str("filename", fh.Filename).Msg("Unreadable statement")
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Could not read the PDF document.")
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.NewError(fiber.StatusRequestTimeout, "Statement processing timed out.")
	case err != nil:
		return err
	}

	res, err := h.Store.ImportCandidates(c.UserContext(), user.ID, candidates, StatementPaymentMethod, "")
	if err != nil {
		return err
	}

	log.Info().
		Str("filename", fh.Filename).
		Int("candidates", len(candidates)).
		Int("created", res.Created).
		Int("skipped", res.Skipped).
		Msg("Statement imported")

	return c.JSON(fiber.Map{
		"status":  "success",
		"created": res.Created,
		"skipped": res.Skipped,
		"message": fmt.Sprintf("Successfully imported %d transactions (Skipped %d duplicates).", res.Created, res.Skipped),
	})
}

type smsRequest struct {
	Body   string `json:"body"`
	Sender string `json:"sender"`
}

// HandleSMSWebhook records the debit described by a forwarded SMS.
func (h *Handler) HandleSMSWebhook(c *fiber.Ctx) error {
	var req smsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid JSON body.")
	}
	if strings.TrimSpace(req.Body) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Field 'body' is required.")
	}
	if req.Sender == "" {
		req.Sender = "Unknown"
	}

	candidate, ok := h.SMS.Parse(req.Body)
	if !ok {
		return c.JSON(fiber.Map{"status": "ignored", "message": "No transaction details found"})
	}

	tx, err := h.Store.InsertTransaction(c.UserContext(), store.NewTransaction{
		UserID:        currentUser(c).ID,
		Candidate:     candidate,
		PaymentMethod: PaymentMethodForSender(req.Sender),
		Description:   "Auto-logged from SMS: " + strings.ToUpper(req.Sender),
	})
	if err != nil {
		return storeError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "id": tx.ID})
}

type quickRequest struct {
	Text string `json:"text"`
}

// HandleQuickAdd records a transaction typed as a short phrase.
func (h *Handler) HandleQuickAdd(c *fiber.Ctx) error {
	var req quickRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid JSON body.")
	}
	if strings.TrimSpace(req.Text) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Field 'text' is required.")
	}

	candidate := h.Quick.Parse(req.Text)
	if !candidate.Amount.IsPositive() {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Could not find an amount in the text.")
	}

	tx, err := h.Store.InsertTransaction(c.UserContext(), store.NewTransaction{
		UserID:        currentUser(c).ID,
		Candidate:     candidate,
		PaymentMethod: QuickPaymentMethod,
	})
	if err != nil {
		return storeError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(tx)
}

// HandleListTransactions lists the caller's transactions, newest first.
func (h *Handler) HandleListTransactions(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", store.DefaultListLimit)
	if limit <= 0 || limit > maxListLimit {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("limit must be between 1 and %d.", maxListLimit))
	}

	txs, err := h.Store.ListTransactions(c.UserContext(), currentUser(c).ID, limit)
	if err != nil {
		return err
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	return c.JSON(fiber.Map{"transactions": txs})
}

type budgetRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

// HandleGetBudget returns the caller's monthly budget and this month's
// spending.
func (h *Handler) HandleGetBudget(c *fiber.Ctx) error {
	st, err := h.Store.CurrentBudget(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"month":  st.Month,
		"amount": st.Amount.StringFixed(2),
		"spent":  st.Spent.StringFixed(2),
	})
}

// HandleSetBudget sets the caller's monthly budget.
func (h *Handler) HandleSetBudget(c *fiber.Ctx) error {
	var req budgetRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid JSON body.")
	}
	if req.Amount == nil {
		return fiber.NewError(fiber.StatusBadRequest, "Field 'amount' is required.")
	}
	if req.Amount.IsNegative() {
		return fiber.NewError(fiber.StatusBadRequest, "Budget cannot be negative.")
	}

	amount := req.Amount.Round(2)
	if err := h.Store.SetMonthlyBudget(c.UserContext(), currentUser(c).ID, amount); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success", "amount": amount.StringFixed(2)})
}

// HandleListNotifications lists the caller's notifications, newest first.
func (h *Handler) HandleListNotifications(c *fiber.Ctx) error {
	ns, err := h.Store.ListNotifications(c.UserContext(), currentUser(c).ID, 0)
	if err != nil {
		return err
	}
	if ns == nil {
		ns = []models.Notification{}
	}
	return c.JSON(fiber.Map{"notifications": ns})
}

// HandleMarkNotificationRead marks one of the caller's notifications as read.
func (h *Handler) HandleMarkNotificationRead(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid notification id.")
	}
	if err := h.Store.MarkNotificationRead(c.UserContext(), currentUser(c).ID, int64(id)); err != nil {
		return storeError(err)
	}
	return c.JSON(fiber.Map{"status": "success"})
}

// HandleMarkAllNotificationsRead marks all of the caller's notifications as read.
func (h *Handler) HandleMarkAllNotificationsRead(c *fiber.Ctx) error {
	n, err := h.Store.MarkAllNotificationsRead(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "success", "updated": n})
}
