package router_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/camp-registration/internal/handler"
	"github.com/iliyamo/camp-registration/internal/middleware"
	"github.com/iliyamo/camp-registration/internal/model"
	"github.com/iliyamo/camp-registration/internal/payment"
	"github.com/iliyamo/camp-registration/internal/repository"
	"github.com/iliyamo/camp-registration/internal/repository/memstore"
	"github.com/iliyamo/camp-registration/internal/router"
	"github.com/iliyamo/camp-registration/internal/service"
)

const secret = "router-test"

type stubProcessor struct {
	amounts []int64
	err     error
}

func (s *stubProcessor) CreateIntent(_ context.Context, req payment.IntentRequest) (string, error) {
	s.amounts = append(s.amounts, req.Amount)
	if s.err != nil {
		return "", s.err
	}
	return "cs_test_123", nil
}

type app struct {
	e     *echo.Echo
	store *repository.Store
	proc  *stubProcessor
}

func newApp(t *testing.T) *app {
	t.Helper()
	store := memstore.New()
	proc := &stubProcessor{}
	counter := service.NewCounter(store.Camps)
	ledger := service.NewLedger(store.Participants, store.Camps, counter)

	e := echo.New()
	e.Validator = middleware.NewValidator()
	e.HTTPErrorHandler = middleware.NewErrorHandler(zerolog.Nop())
	passThrough := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	organizers := service.NewOrganizers("org@example.com")
	router.RegisterAll(e, router.Handlers{
		Users:        handler.NewUserHandler(service.NewUsers(store.Users, organizers)),
		Tokens:       handler.NewTokenHandler(service.NewTokens(store.Users, organizers, secret, 10)),
		Camps:        handler.NewCampHandler(service.NewCamps(store.Camps), counter),
		Participants: handler.NewParticipantHandler(ledger),
		Payments:     handler.NewPaymentHandler(service.NewPaymentBridge(store.Camps, proc, "usd")),
		Feedback:     handler.NewFeedbackHandler(service.NewFeedback(store.Feedback, store.Camps)),
	}, secret, passThrough)
	return &app{e: e, store: store, proc: proc}
}

func (a *app) do(method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *app) seedCamp(t *testing.T, fees float64, count int) *model.Camp {
	t.Helper()
	c := &model.Camp{CampName: "Camp", CampFees: fees, ParticipantCount: count}
	require.NoError(t, a.store.Camps.Create(context.Background(), c))
	return c
}

// signIn registers body and returns a token for email.
func (a *app) signIn(t *testing.T, body, email string) string {
	t.Helper()
	rec := a.do(http.MethodPost, "/users", body, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = a.do(http.MethodPost, "/jwt", `{"email":"`+email+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tok struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
	return tok.Token
}

func (a *app) organizerToken(t *testing.T) string {
	t.Helper()
	return a.signIn(t, `{"email":"org@example.com","name":"Org"}`, "org@example.com")
}

func TestHealthEndpoints(t *testing.T) {
	a := newApp(t)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/healthz", "", "").Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/", "", "").Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/nope", "", "").Code)
}

func TestUsers_RegisterTwice(t *testing.T) {
	a := newApp(t)
	body := `{"email":"ada@example.com","name":"Ada","uid":"g-1"}`
	assert.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/users", body, "").Code)

	rec := a.do(http.MethodPost, "/users", body, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "User already registered")

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/users", `{"email":"bad"}`, "").Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/users/ada@example.com", "", "").Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/users/ghost@example.com", "", "").Code)
}

func TestCampMutationsRequireOrganizer(t *testing.T) {
	a := newApp(t)
	body := `{"campName":"Eye","campFees":15}`

	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, "/camps", body, "").Code)
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/users", "", "").Code)

	a.do(http.MethodPost, "/users", `{"email":"p@example.com"}`, "")
	rec := a.do(http.MethodPost, "/jwt", `{"email":"p@example.com"}`, "")
	var tok struct{ Token string }
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPost, "/camps", body, tok.Token).Code)

	org := a.organizerToken(t)
	rec = a.do(http.MethodPost, "/camps", body, org)
	require.Equal(t, http.StatusCreated, rec.Code)
	var camp model.Camp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &camp))
	assert.Equal(t, "org@example.com", camp.OrganizerEmail)

	rec = a.do(http.MethodPatch, "/camps/"+camp.ID, `{"participantCount":3}`, org)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"participantCount":3`)

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/camps", `{"campFees":1}`, org).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/users", "", org).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodDelete, "/camps/"+camp.ID, "", org).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/camps/"+camp.ID, "", "").Code)
}

func TestSelfDeclaredOrganizerIsForbidden(t *testing.T) {
	a := newApp(t)
	tok := a.signIn(t, `{"email":"mallory@example.com","role":"organizer"}`, "mallory@example.com")

	rec := a.do(http.MethodGet, "/users/mallory@example.com", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"participant"`)

	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPost, "/camps", `{"campName":"Eye","campFees":15}`, tok).Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, "/users", "", tok).Code)

	camps, err := a.store.Camps.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, camps)
}

func TestCampFeesAreCapped(t *testing.T) {
	a := newApp(t)
	org := a.organizerToken(t)

	assert.Equal(t, http.StatusBadRequest,
		a.do(http.MethodPost, "/camps", `{"campName":"Huge","campFees":1e300}`, org).Code)

	rec := a.do(http.MethodPost, "/camps", `{"campName":"Eye","campFees":15}`, org)
	require.Equal(t, http.StatusCreated, rec.Code)
	var camp model.Camp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &camp))
	assert.Equal(t, http.StatusBadRequest,
		a.do(http.MethodPatch, "/camps/"+camp.ID, `{"campFees":1e19}`, org).Code)

	huge := a.seedCamp(t, 1e17, 0)
	rec = a.do(http.MethodPost, "/create-payment-intent", `{"campId":"`+huge.ID+`","email":"pay@example.com"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, a.proc.amounts)
}

func TestParticipantLifecycle(t *testing.T) {
	a := newApp(t)
	camp := a.seedCamp(t, 10, 3)

	rec := a.do(http.MethodPost, "/participants", `{
		"campId":"`+camp.ID+`","participantName":"Ada","participantEmail":"ada@example.com",
		"age":30,"paymentStatus":"Paid","confirmationStatus":"Confirmed"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		InsertedID  string            `json:"insertedId"`
		Participant model.Participant `json:"participant"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, model.PaymentUnpaid, created.Participant.PaymentStatus)
	assert.Equal(t, model.ConfirmationPending, created.Participant.ConfirmationStatus)

	rec = a.do(http.MethodGet, "/participants/ada@example.com", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), created.InsertedID)

	rec = a.do(http.MethodPatch, "/participants/"+created.InsertedID, `{"confirmationStatus":"Confirmed"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"confirmationStatus":"Confirmed"`)

	assert.Equal(t, http.StatusBadRequest,
		a.do(http.MethodPatch, "/participants/"+created.InsertedID, `{"paymentStatus":"Free"}`, "").Code)

	// cancelling frees a seat, so it is only reachable through DELETE
	assert.Equal(t, http.StatusBadRequest,
		a.do(http.MethodPatch, "/participants/"+created.InsertedID, `{"confirmationStatus":"Cancelled"}`, "").Code)
	assert.Equal(t, http.StatusBadRequest,
		a.do(http.MethodPatch, "/participants/camp/"+camp.ID, `{"confirmationStatus":"Cancelled"}`, "").Code)

	rec = a.do(http.MethodPatch, "/participants/camp/"+camp.ID, `{"paymentStatus":"Paid"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"matchedCount":1}`, rec.Body.String())

	rec = a.do(http.MethodGet, "/popular", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"participantCount":4`)

	assert.Equal(t, http.StatusOK, a.do(http.MethodDelete, "/participants/"+created.InsertedID, "", "").Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, "/participants/"+created.InsertedID, "", "").Code)

	got, err := a.store.Camps.GetByID(context.Background(), camp.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.ParticipantCount)
}

func TestRegisterValidation(t *testing.T) {
	a := newApp(t)
	camp := a.seedCamp(t, 10, 0)

	assert.Equal(t, http.StatusBadRequest,
		a.do(http.MethodPost, "/participants", `{"campId":"`+camp.ID+`","participantName":"x"}`, "").Code)
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/participants", `{not json`, "").Code)
	assert.Equal(t, http.StatusNotFound,
		a.do(http.MethodPost, "/participants", `{"campId":"missing","participantName":"x","participantEmail":"x@example.com"}`, "").Code)
}

func TestCreatePaymentIntent(t *testing.T) {
	a := newApp(t)
	camp := a.seedCamp(t, 25, 0)

	rec := a.do(http.MethodPost, "/create-payment-intent", `{"campId":"`+camp.ID+`","email":"pay@example.com"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"clientSecret":"cs_test_123"}`, rec.Body.String())
	assert.Equal(t, []int64{2500}, a.proc.amounts)

	rec = a.do(http.MethodPost, "/create-payment-intent", `{"campId":"missing","email":"pay@example.com"}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Len(t, a.proc.amounts, 1)

	a.proc.err = errors.New("stripe down")
	rec = a.do(http.MethodPost, "/create-payment-intent", `{"campId":"`+camp.ID+`","email":"pay@example.com"}`, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "stripe down")
}

func TestFeedbackRoutes(t *testing.T) {
	a := newApp(t)
	camp := a.seedCamp(t, 1, 0)

	rec := a.do(http.MethodPost, "/feedback", `{"campId":"`+camp.ID+`","participantEmail":"a@example.com","rating":4,"comment":"ok"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, http.StatusBadRequest,
		a.do(http.MethodPost, "/feedback", `{"campId":"`+camp.ID+`","participantEmail":"a@example.com","rating":7}`, "").Code)

	rec = a.do(http.MethodGet, "/feedback/"+camp.ID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.Feedback
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = a.do(http.MethodGet, "/feedback/unknown", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
