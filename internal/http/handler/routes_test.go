package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docport/internal/exchange"
	"docport/internal/http/middleware"
	"docport/internal/lifecycle"
	"docport/internal/model"
	"docport/internal/repository/memory"
	"docport/internal/service"
	"docport/internal/storage"
	storageMocks "docport/internal/storage/mocks"
)

// memoryRoutes builds the full route table over an in-memory store. The app
// keeps fiber's default zero-copy strings, so nothing read from a request may
// be retained without copying.
func memoryRoutes(t *testing.T) (*fiber.App, *memory.Store, *storageMocks.MockStorage) {
	t.Helper()
	store := memory.NewStore(
		model.Organization{ID: senderOrg, Name: "General Hospital", Code: "GH"},
		model.Organization{ID: recipientOrg, Name: "City Clinic", Code: "CC"},
	)
	st := new(storageMocks.MockStorage)
	engine := lifecycle.NewEngine(store, store)
	coord := exchange.NewCoordinator(engine, store, st, exchange.WithOrganizations(store.Organizations()))
	svc := service.NewDocumentService(engine, coord, store, store.Organizations())

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	RegisterRoutes(app, nil, prometheus.NewRegistry(), svc)
	return app, store, st
}

const (
	senderOrg    = "6f1d3c2a-8b4e-5a7f-9c0d-1e2f3a4b5c6d"
	recipientOrg = "0a9b8c7d-6e5f-5a4b-8c3d-2e1f0a9b8c7d"
)

func asOrg(req *http.Request, userID, orgID string) *http.Request {
	req.Header.Set(middleware.ActorIDHeader, userID)
	req.Header.Set(middleware.OrgIDHeader, orgID)
	return req
}

func TestRoutes_StoredValuesOutliveRequests(t *testing.T) {
	app, store, st := memoryRoutes(t)
	key := "documents/" + uuid.NewString() + ".pdf"
	st.On("Stat", mock.Anything, key).Return(storage.ObjectInfo{Key: key, ContentType: "application/pdf", Size: 10}, nil)

	body := `{"recipient_id":"` + recipientOrg + `","file_key":"` + key + `"}`
	req := httptest.NewRequest(http.MethodPost, "/documents/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(asOrg(req, "user-1", senderOrg))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created TransitionResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	id := created.Document.ID

	// Same-length values that would overwrite reused request buffers.
	other := strings.Repeat("z", len(senderOrg))
	for i := 0; i < 20; i++ {
		resp, _ := app.Test(asOrg(httptest.NewRequest(http.MethodGet, "/documents/sent", nil), "user-x", other))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, _ = app.Test(asOrg(httptest.NewRequest(http.MethodGet, "/documents/sent", nil), "user-1", senderOrg))
	var sent DocumentListResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sent))
	require.Equal(t, 1, sent.Total)
	assert.Equal(t, senderOrg, sent.Items[0].SenderID)

	resp, _ = app.Test(asOrg(httptest.NewRequest(http.MethodPost, "/documents/"+id+"/cancel", nil), "user-1", senderOrg))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for i := 0; i < 20; i++ {
		resp, _ := app.Test(asOrg(httptest.NewRequest(http.MethodGet, "/documents/"+uuid.NewString(), nil), "user-x", other))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	}

	doc, err := store.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, doc.Status)
	assert.Equal(t, senderOrg, doc.SenderID)

	events, err := store.ListByDocument(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, ev := range events {
		assert.Equal(t, "user-1", ev.ActorID)
	}
}

func TestRoutes_UnknownOrganizationIsValidationError(t *testing.T) {
	app, _, st := memoryRoutes(t)

	body := `{"recipient_id":"not-a-uuid","file_key":"documents/` + uuid.NewString() + `.pdf"}`
	req := httptest.NewRequest(http.MethodPost, "/documents/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(asOrg(req, "user-1", senderOrg))

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", decodeError(t, resp).Error.Code)
	st.AssertNotCalled(t, "Stat", mock.Anything, mock.Anything)
}
