package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/cropwise/fieldadvisor/internal/domain/advisor"
	"github.com/cropwise/fieldadvisor/internal/domain/auth"
	"github.com/cropwise/fieldadvisor/internal/domain/diagnosis"
	"github.com/cropwise/fieldadvisor/internal/domain/farm"
	"github.com/cropwise/fieldadvisor/internal/infra/config"
	apperrors "github.com/cropwise/fieldadvisor/pkg/errors"
)

func TestRouter_LoginSuccess(t *testing.T) {
	authSvc := &stubAuthService{
		loginFn: func(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
			require.Equal(t, "farmer@example.com", req.Email)
			return auth.LoginResponse{Token: "tok", RefreshToken: "refresh"}, nil
		},
	}

	server := newRouterUnderTest(t, authSvc, &stubFarmService{}, &stubDiagnosisService{})
	rec := performJSON(http.MethodPost, "/api/v1/auth/login", `{"email":"farmer@example.com","password":"secret123"}`, "", server)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeEnvelope(t, rec.Body.Bytes())
	require.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	require.Equal(t, "tok", data["token"])
}

func TestRouter_LoginInvalidCredentials(t *testing.T) {
	authSvc := &stubAuthService{
		loginFn: func(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
			return auth.LoginResponse{}, apperrors.Wrap("invalid_credentials", "invalid email or password", nil)
		},
	}

	server := newRouterUnderTest(t, authSvc, &stubFarmService{}, &stubDiagnosisService{})
	rec := performJSON(http.MethodPost, "/api/v1/auth/login", `{"email":"farmer@example.com","password":"wrong"}`, "", server)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	body := decodeEnvelope(t, rec.Body.Bytes())
	require.Equal(t, false, body["success"])
	errs := body["errors"].(map[string]any)
	require.Equal(t, "invalid_credentials", errs["code"])
	require.Equal(t, "invalid email or password", body["message"])
}

func TestRouter_FarmsRequireToken(t *testing.T) {
	server := newRouterUnderTest(t, &stubAuthService{}, &stubFarmService{}, &stubDiagnosisService{})
	rec := performJSON(http.MethodGet, "/api/v1/farms", "", "", server)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ListFarms(t *testing.T) {
	farmID := uuid.New()
	farmSvc := &stubFarmService{
		listFarmsFn: func(ctx context.Context, p auth.Principal) ([]farm.Farm, error) {
			require.Equal(t, int64(7), p.UserID)
			return []farm.Farm{{ID: farmID, OwnerID: 7, Name: "North Field"}}, nil
		},
	}

	server := newRouterUnderTest(t, validatingAuth(7, auth.RoleManager), farmSvc, &stubDiagnosisService{})
	rec := performJSON(http.MethodGet, "/api/v1/farms", "", "Bearer token", server)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeEnvelope(t, rec.Body.Bytes())
	data := body["data"].(map[string]any)
	items := data["items"].([]any)
	require.Len(t, items, 1)
	require.Equal(t, "North Field", items[0].(map[string]any)["name"])
}

func TestRouter_RecommendPlanting(t *testing.T) {
	farmID := uuid.New()
	recordID := uuid.New()
	plantID := uuid.New()
	farmSvc := &stubFarmService{
		recommendFn: func(ctx context.Context, p auth.Principal, gotFarm, gotRecord uuid.UUID, in farm.RecommendInput) (farm.RecommendResult, error) {
			require.Equal(t, farmID, gotFarm)
			require.Equal(t, recordID, gotRecord)
			require.Equal(t, plantID, in.PlantID)
			return farm.RecommendResult{
				Recommendation: advisor.Recommendation{Advisory: "plant now", Status: advisor.StatusOptimal},
			}, nil
		},
	}

	server := newRouterUnderTest(t, validatingAuth(7, auth.RoleManager), farmSvc, &stubDiagnosisService{})
	path := "/api/v1/farms/" + farmID.String() + "/weather/" + recordID.String() + "/recommendation"
	rec := performJSON(http.MethodPost, path, `{"plantId":"`+plantID.String()+`"}`, "Bearer token", server)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeEnvelope(t, rec.Body.Bytes())
	data := body["data"].(map[string]any)
	recommendation := data["recommendation"].(map[string]any)
	require.Equal(t, "plant now", recommendation["advisory"])
	require.Equal(t, "OPTIMAL", recommendation["status"])
}

func TestRouter_RecommendationFailureStaysGeneric(t *testing.T) {
	farmSvc := &stubFarmService{
		recommendFn: func(ctx context.Context, p auth.Principal, farmID, recordID uuid.UUID, in farm.RecommendInput) (farm.RecommendResult, error) {
			return farm.RecommendResult{}, apperrors.Wrap(apperrors.CodeLLM, "recommendation is unavailable right now", io.ErrUnexpectedEOF)
		},
	}

	server := newRouterUnderTest(t, validatingAuth(7, auth.RoleManager), farmSvc, &stubDiagnosisService{})
	path := "/api/v1/farms/" + uuid.NewString() + "/weather/" + uuid.NewString() + "/recommendation"
	rec := performJSON(http.MethodPost, path, `{"plantId":"`+uuid.NewString()+`"}`, "Bearer token", server)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	body := decodeEnvelope(t, rec.Body.Bytes())
	require.Equal(t, "recommendation is unavailable right now", body["message"])
	errs := body["errors"].(map[string]any)
	require.Equal(t, "llm_error", errs["code"])
	// No debug detail outside debug mode.
	require.NotContains(t, errs, "detail")
}

func TestRouter_DiagnosisMultipart(t *testing.T) {
	diagSvc := &stubDiagnosisService{
		diagnoseFn: func(ctx context.Context, req diagnosis.Request) (diagnosis.Result, error) {
			require.Equal(t, "tomato", req.PlantName)
			require.Equal(t, "session-1", req.SessionID)
			require.NotEmpty(t, req.Image)
			return diagnosis.Result{HasDisease: false, Confidence: 0.9}, nil
		},
	}

	server := newRouterUnderTest(t, validatingAuth(7, auth.RoleManager), &stubFarmService{}, diagSvc)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "leaf.png")
	require.NoError(t, err)
	_, err = part.Write([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a})
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("plantName", "tomato"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/diagnosis", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set("X-Session-Id", "session-1")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec.Body.Bytes())
	data := body["data"].(map[string]any)
	require.Equal(t, false, data["hasDisease"])
	require.InDelta(t, 0.9, data["confidence"], 0.001)
}

func TestRouter_DiagnosisForbiddenForViewer(t *testing.T) {
	server := newRouterUnderTest(t, validatingAuth(7, auth.RoleViewer), &stubFarmService{}, &stubDiagnosisService{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "leaf.png")
	require.NoError(t, err)
	_, err = part.Write([]byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/diagnosis", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func performJSON(method, path, body, authorization string, server *http.Server) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, authSvc auth.Service, farmSvc farm.Service, diagSvc diagnosis.Service) *http.Server {
	t.Helper()
	handler := NewHandler(authSvc, farmSvc, diagSvc, newTestLogger())
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	return NewRouter(cfg, handler, authSvc)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

func validatingAuth(userID int64, roles ...string) *stubAuthService {
	return &stubAuthService{
		validateFn: func(ctx context.Context, token string) (auth.Claims, error) {
			return auth.Claims{UserID: userID, Roles: roles, TokenType: "access"}, nil
		},
	}
}

func decodeEnvelope(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

type stubAuthService struct {
	loginFn    func(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error)
	validateFn func(ctx context.Context, token string) (auth.Claims, error)
}

func (s *stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (auth.UserView, error) {
	return auth.UserView{Email: req.Email}, nil
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if s.loginFn != nil {
		return s.loginFn(ctx, req)
	}
	return auth.LoginResponse{}, nil
}

func (s *stubAuthService) ValidateToken(ctx context.Context, token string) (auth.Claims, error) {
	if s.validateFn != nil {
		return s.validateFn(ctx, token)
	}
	return auth.Claims{}, apperrors.Wrap("invalid_token", "token is invalid", nil)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (auth.LoginResponse, error) {
	return auth.LoginResponse{}, nil
}

func (s *stubAuthService) Profile(ctx context.Context, userID int64) (auth.UserView, error) {
	return auth.UserView{ID: userID}, nil
}

func (s *stubAuthService) AssignRoles(ctx context.Context, principal auth.Principal, userID int64, roles []string) (auth.UserView, error) {
	return auth.UserView{ID: userID, Roles: roles}, nil
}

type stubFarmService struct {
	listFarmsFn func(ctx context.Context, p auth.Principal) ([]farm.Farm, error)
	recommendFn func(ctx context.Context, p auth.Principal, farmID, recordID uuid.UUID, in farm.RecommendInput) (farm.RecommendResult, error)
}

func (s *stubFarmService) CreateFarm(ctx context.Context, p auth.Principal, in farm.FarmInput) (farm.Farm, error) {
	return farm.Farm{Name: in.Name, OwnerID: p.UserID}, nil
}

func (s *stubFarmService) GetFarm(ctx context.Context, p auth.Principal, id uuid.UUID) (farm.Farm, error) {
	return farm.Farm{ID: id}, nil
}

func (s *stubFarmService) ListFarms(ctx context.Context, p auth.Principal) ([]farm.Farm, error) {
	if s.listFarmsFn != nil {
		return s.listFarmsFn(ctx, p)
	}
	return nil, nil
}

func (s *stubFarmService) UpdateFarm(ctx context.Context, p auth.Principal, id uuid.UUID, in farm.FarmInput) (farm.Farm, error) {
	return farm.Farm{ID: id, Name: in.Name}, nil
}

func (s *stubFarmService) DeleteFarm(ctx context.Context, p auth.Principal, id uuid.UUID) error {
	return nil
}

func (s *stubFarmService) CreatePlant(ctx context.Context, p auth.Principal, farmID uuid.UUID, in farm.PlantInput) (farm.Plant, error) {
	return farm.Plant{FarmID: farmID, Name: in.Name}, nil
}

func (s *stubFarmService) ListPlants(ctx context.Context, p auth.Principal, farmID uuid.UUID) ([]farm.Plant, error) {
	return nil, nil
}

func (s *stubFarmService) UpdatePlant(ctx context.Context, p auth.Principal, farmID, plantID uuid.UUID, in farm.PlantInput) (farm.Plant, error) {
	return farm.Plant{ID: plantID, FarmID: farmID}, nil
}

func (s *stubFarmService) DeletePlant(ctx context.Context, p auth.Principal, farmID, plantID uuid.UUID) error {
	return nil
}

func (s *stubFarmService) CreateSpray(ctx context.Context, p auth.Principal, farmID uuid.UUID, in farm.SprayInput) (farm.SprayRecord, error) {
	return farm.SprayRecord{FarmID: farmID, Product: in.Product}, nil
}

func (s *stubFarmService) ListSprays(ctx context.Context, p auth.Principal, farmID uuid.UUID) ([]farm.SprayRecord, error) {
	return nil, nil
}

func (s *stubFarmService) DeleteSpray(ctx context.Context, p auth.Principal, farmID, sprayID uuid.UUID) error {
	return nil
}

func (s *stubFarmService) CreateWeatherRecord(ctx context.Context, p auth.Principal, farmID uuid.UUID, in farm.WeatherInput) (farm.WeatherRecord, error) {
	return farm.WeatherRecord{FarmID: farmID}, nil
}

func (s *stubFarmService) ListWeatherRecords(ctx context.Context, p auth.Principal, farmID uuid.UUID) ([]farm.WeatherRecord, error) {
	return nil, nil
}

func (s *stubFarmService) DeleteWeatherRecord(ctx context.Context, p auth.Principal, farmID, recordID uuid.UUID) error {
	return nil
}

func (s *stubFarmService) RecommendPlanting(ctx context.Context, p auth.Principal, farmID, recordID uuid.UUID, in farm.RecommendInput) (farm.RecommendResult, error) {
	if s.recommendFn != nil {
		return s.recommendFn(ctx, p, farmID, recordID, in)
	}
	return farm.RecommendResult{}, nil
}

type stubDiagnosisService struct {
	diagnoseFn func(ctx context.Context, req diagnosis.Request) (diagnosis.Result, error)
}

func (s *stubDiagnosisService) Diagnose(ctx context.Context, req diagnosis.Request) (diagnosis.Result, error) {
	if s.diagnoseFn != nil {
		return s.diagnoseFn(ctx, req)
	}
	return diagnosis.Result{}, nil
}
