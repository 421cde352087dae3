package handler

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docport/internal/exchange"
	"docport/internal/http/middleware"
	"docport/internal/lifecycle"
	"docport/internal/model"
	"docport/internal/service"
	"docport/internal/visibility"
)

// DocumentListResult is the list response body.
type DocumentListResult struct {
	Items []visibility.DocumentView `json:"data"`
	Total int                       `json:"total"`
}

// TransitionResult is returned by every state-changing endpoint.
type TransitionResult struct {
	Document *model.Document `json:"document"`
	Changed  bool            `json:"changed"`
	Warnings []string        `json:"warnings,omitempty"`
}

// DownloadResult carries the presigned URL of a successful guarded download.
type DownloadResult struct {
	DownloadURL string          `json:"download_url"`
	ExpiresAt   time.Time       `json:"expires_at"`
	Document    *model.Document `json:"document"`
	Warnings    []string        `json:"warnings,omitempty"`
}

func newTransitionResult(res *lifecycle.Result) TransitionResult {
	return TransitionResult{Document: res.Document, Changed: res.Changed, Warnings: warnings(res)}
}

func warnings(res *lifecycle.Result) []string {
	if res == nil || res.AuditGap == nil {
		return nil
	}
	return []string{"audit_gap: the " + strings.ToLower(string(res.AuditGap.Action)) + " was applied but not recorded in the event log"}
}

// documentID validates the :id route parameter.
func documentID(c *fiber.Ctx) (string, bool) {
	parsed, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

// ListOrganizations returns the possible recipients, ordered by name.
//
// @Summary List organizations
// @Tags organizations
// @Produce json
// @Success 200 {array} model.Organization
// @Router /organizations [get]
func ListOrganizations(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orgs, err := svc.Organizations(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(orgs)
	}
}

// PresignUpload issues a key and a short-lived URL for a client-side PUT.
//
// @Summary Presign a PDF upload
// @Tags documents
// @Produce json
// @Param X-Actor-ID header string true "user id"
// @Param X-Org-ID header string true "organization id"
// @Success 200 {object} exchange.UploadTarget
// @Failure 502 {object} errorPayload
// @Router /presign-upload [post]
func PresignUpload(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		target, err := svc.PresignUpload(c.UserContext(), middleware.ActorFrom(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(target)
	}
}

// PresignDownload performs a guarded download addressed by storage key.
//
// @Summary Download by storage key
// @Tags documents
// @Produce json
// @Param key query string true "file_key"
// @Param X-Actor-ID header string true "user id"
// @Param X-Org-ID header string true "organization id"
// @Success 200 {object} DownloadResult
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Router /presign-download [get]
func PresignDownload(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Query("key")
		if key == "" {
			return writeError(c, fiber.StatusBadRequest, "KEY_REQUIRED", "key is required")
		}
		acc, err := svc.DownloadByKey(c.UserContext(), middleware.ActorFrom(c), key)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(downloadResult(acc))
	}
}

// UploadDocument accepts a multipart PDF and sends it to the recipient.
//
// @Summary Upload and send a PDF
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF file"
// @Param recipient_id formData string true "recipient organization id"
// @Param comment formData string false "comment"
// @Param X-Actor-ID header string true "user id"
// @Param X-Org-ID header string true "organization id"
// @Success 201 {object} TransitionResult
// @Failure 400 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /documents [post]
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		res, err := svc.Upload(c.UserContext(), middleware.ActorFrom(c), exchange.CreateInput{
			RecipientID: strings.TrimSpace(c.FormValue("recipient_id")),
			Comment:     c.FormValue("comment"),
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Body:        f,
			Size:        fh.Size,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(newTransitionResult(res))
	}
}

// RegisterDocument records a client-side upload made through /presign-upload.
//
// @Summary Register an uploaded PDF
// @Tags documents
// @Accept json
// @Produce json
// @Param body body exchange.RegisterInput true "registration"
// @Param X-Actor-ID header string true "user id"
// @Param X-Org-ID header string true "organization id"
// @Success 201 {object} TransitionResult
// @Failure 400 {object} errorPayload
// @Router /documents/register [post]
func RegisterDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in exchange.RegisterInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		in.RecipientID = strings.TrimSpace(in.RecipientID)

		res, err := svc.Register(c.UserContext(), middleware.ActorFrom(c), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(newTransitionResult(res))
	}
}

// Inbox lists documents addressed to the caller's organization.
//
// @Summary Inbox
// @Tags documents
// @Produce json
// @Param q query string false "search sender, recipient or comment"
// @Param unread_only query bool false "only UPLOADED documents"
// @Param show_expired query bool false "include expired documents"
// @Param X-Actor-ID header string true "user id"
// @Param X-Org-ID header string true "organization id"
// @Success 200 {object} DocumentListResult
// @Router /documents/inbox [get]
func Inbox(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		unreadOnly, err := queryBool(c, "unread_only")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_UNREAD_ONLY", "invalid unread_only")
		}
		showExpired, err := queryBool(c, "show_expired")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_SHOW_EXPIRED", "invalid show_expired")
		}

		views, err := svc.Inbox(c.UserContext(), middleware.ActorFrom(c), visibility.InboxOptions{
			Query:       c.Query("q"),
			UnreadOnly:  unreadOnly,
			ShowExpired: showExpired,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(DocumentListResult{Items: views, Total: len(views)})
	}
}

// Sent lists documents sent by the caller's organization.
//
// @Summary Sent
// @Tags documents
// @Produce json
// @Param q query string false "search sender, recipient or comment"
// @Param X-Actor-ID header string true "user id"
// @Param X-Org-ID header string true "organization id"
// @Success 200 {object} DocumentListResult
// @Router /documents/sent [get]
func Sent(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		views, err := svc.Sent(c.UserContext(), middleware.ActorFrom(c), c.Query("q"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(DocumentListResult{Items: views, Total: len(views)})
	}
}

// UnreadCount returns the number of live documents not yet downloaded.
//
// @Summary Unread count
// @Tags documents
// @Produce json
// @Param X-Actor-ID header string true "user id"
// @Param X-Org-ID header string true "organization id"
// @Success 200 {object} map[string]int
// @Router /documents/unread-count [get]
func UnreadCount(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		n, err := svc.UnreadCount(c.UserContext(), middleware.ActorFrom(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"unread": n})
	}
}

// GetDocument returns one document to either participant.
//
// @Summary Get document
// @Tags documents
// @Produce json
// @Param id path string true "document id"
// @Param X-Actor-ID header string true "user id"
// @Param X-Org-ID header string true "organization id"
// @Success 200 {object} visibility.DocumentView
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		view, err := svc.Get(c.UserContext(), middleware.ActorFrom(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(view)
	}
}

// ListEvents returns the audit trail of a document in append order.
//
// @Summary Document events
// @Tags documents
// @Produce json
// @Param id path string true "document id"
// @Param X-Actor-ID header string true "user id"
// @Param X-Org-ID header string true "organization id"
// @Success 200 {array} model.DocumentEvent
// @Failure 404 {object} errorPayload
// @Router /documents/{id}/events [get]
func ListEvents(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		events, err := svc.Events(c.UserContext(), middleware.ActorFrom(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(events)
	}
}

// DownloadDocument marks the document read and returns a download URL.
//
// @Summary Download document
// @Tags documents
// @Produce json
// @Param id path string true "document id"
// @Param X-Actor-ID header string true "user id"
// @Param X-Org-ID header string true "organization id"
// @Success 200 {object} DownloadResult
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Router /documents/{id}/download [post]
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		acc, err := svc.Download(c.UserContext(), middleware.ActorFrom(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(downloadResult(acc))
	}
}

// CancelDocument withdraws an unread document. Sender only.
//
// @Summary Cancel document
// @Tags documents
// @Produce json
// @Param id path string true "document id"
// @Param X-Actor-ID header string true "user id"
// @Param X-Org-ID header string true "organization id"
// @Success 200 {object} TransitionResult
// @Failure 403 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Router /documents/{id}/cancel [post]
func CancelDocument(svc service.DocumentService) fiber.Handler {
	return transition(svc.Cancel)
}

// ArchiveDocument hides the document from active views. Either participant.
//
// @Summary Archive document
// @Tags documents
// @Produce json
// @Param id path string true "document id"
// @Param X-Actor-ID header string true "user id"
// @Param X-Org-ID header string true "organization id"
// @Success 200 {object} TransitionResult
// @Failure 422 {object} errorPayload
// @Router /documents/{id}/archive [post]
func ArchiveDocument(svc service.DocumentService) fiber.Handler {
	return transition(svc.Archive)
}

type transitionFunc func(ctx context.Context, actor model.Actor, id string) (*lifecycle.Result, error)

func transition(apply transitionFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		res, err := apply(c.UserContext(), middleware.ActorFrom(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(newTransitionResult(res))
	}
}

func downloadResult(acc *exchange.Access) DownloadResult {
	return DownloadResult{
		DownloadURL: acc.URL,
		ExpiresAt:   acc.ExpiresAt,
		Document:    acc.Result.Document,
		Warnings:    warnings(acc.Result),
	}
}

func queryBool(c *fiber.Ctx, key string) (bool, error) {
	v := c.Query(key)
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}
