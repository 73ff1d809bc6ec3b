package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.ApiService/controllers"
	jwtservice "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.ApiService/implementation/jwt"
	query "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.ApiService/implementation/query"
	"gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.ApiService/middleware"
	broadcast "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Broadcast"
	config "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Config"
	logger "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Logger"
	hmtmodels "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models"
	api_models "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models/api"
	implementation "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Repository/Implementation"
)

func testLogger() *logger.Logger {
	return logger.NewLogger(&config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"})
}

func testJWT() *jwtservice.Service {
	return jwtservice.NewService(api_models.Config{
		SecretKey:            "test-secret",
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 24 * time.Hour,
		Issuer:               "hmt-test",
	})
}

func testToken(t *testing.T, jwtSvc *jwtservice.Service) string {
	t.Helper()
	pair, err := jwtSvc.GenerateTokens("test-user")
	require.NoError(t, err)
	return pair.AccessToken
}

func newTelemetryRouter(t *testing.T, store *implementation.MemoryTelemetryRepository) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtSvc := testJWT()
	authMw := middleware.NewAuthMiddleware(jwtSvc, middleware.DefaultConfig())

	router := gin.New()
	svc := query.NewService(store, time.Hour, 10)
	controllers.NewTelemetryController(svc, 24, testLogger(), authMw).RegisterRoutes(router)
	return router, testToken(t, jwtSvc)
}

func newDeviceRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := implementation.NewMemoryDeviceRepository()
	require.NoError(t, repo.Seed(t.Context(), hmtmodels.SeedDevices()))

	jwtSvc := testJWT()
	authMw := middleware.NewAuthMiddleware(jwtSvc, middleware.DefaultConfig())

	router := gin.New()
	controllers.NewDeviceController(repo, testLogger(), authMw).RegisterRoutes(router)
	return router, testToken(t, jwtSvc)
}

func doRequest(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestCurrentDataEmptyStoreReturnsEmptyObject(t *testing.T) {
	router, token := newTelemetryRouter(t, implementation.NewMemoryTelemetryRepository())

	w := doRequest(router, http.MethodGet, "/api/current_data", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "{}", w.Body.String())
}

func TestCurrentDataReturnsLatestReading(t *testing.T) {
	store := implementation.NewMemoryTelemetryRepository()
	reading := hmtmodels.Reading{
		Timestamp:   time.Now().UTC(),
		Temperature: 23.4,
		Humidity:    50.0,
		AirQuality:  80,
		EnergyUsage: 1100.0,
		WaterUsage:  140.0,
		LightLevel:  55.0,
	}
	require.NoError(t, store.AppendSample(t.Context(), reading, nil))

	router, token := newTelemetryRouter(t, store)
	w := doRequest(router, http.MethodGet, "/api/current_data", token)
	require.Equal(t, http.StatusOK, w.Code)

	var got hmtmodels.Reading
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 23.4, got.Temperature)
	assert.Equal(t, 80, got.AirQuality)
}

func TestHistoricalDataRejectsBadHours(t *testing.T) {
	router, token := newTelemetryRouter(t, implementation.NewMemoryTelemetryRepository())

	for _, q := range []string{"hours=0", "hours=-3", "hours=abc"} {
		w := doRequest(router, http.MethodGet, "/api/historical_data?"+q, token)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestHistoricalDataDefaultsAndReturnsArray(t *testing.T) {
	store := implementation.NewMemoryTelemetryRepository()
	router, token := newTelemetryRouter(t, store)

	w := doRequest(router, http.MethodGet, "/api/historical_data", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	require.NoError(t, store.AppendSample(t.Context(), hmtmodels.Reading{Timestamp: time.Now().UTC()}, nil))

	w = doRequest(router, http.MethodGet, "/api/historical_data?hours=1", token)
	require.Equal(t, http.StatusOK, w.Code)

	var readings []hmtmodels.Reading
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &readings))
	assert.Len(t, readings, 1)
}

func TestSuggestionsReturnsArray(t *testing.T) {
	store := implementation.NewMemoryTelemetryRepository()
	router, token := newTelemetryRouter(t, store)

	w := doRequest(router, http.MethodGet, "/api/suggestions", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	now := time.Now().UTC()
	require.NoError(t, store.AppendSample(t.Context(), hmtmodels.Reading{Timestamp: now}, []hmtmodels.Advisory{
		{Timestamp: now, Message: "High humidity detected. Turn on dehumidifier for comfort.", Category: hmtmodels.CategoryComfort, Priority: 1},
	}))

	w = doRequest(router, http.MethodGet, "/api/suggestions", token)
	require.Equal(t, http.StatusOK, w.Code)

	var advisories []hmtmodels.Advisory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &advisories))
	require.Len(t, advisories, 1)
	assert.Equal(t, hmtmodels.CategoryComfort, advisories[0].Category)
}

func TestListDevicesReturnsSeededSet(t *testing.T) {
	router, token := newDeviceRouter(t)

	w := doRequest(router, http.MethodGet, "/api/devices", token)
	require.Equal(t, http.StatusOK, w.Code)

	var devices []hmtmodels.Device
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &devices))
	require.Len(t, devices, 6)
	assert.Equal(t, "Living Room Light", devices[0].Name)
}

func TestToggleDeviceFlipsStatus(t *testing.T) {
	router, token := newDeviceRouter(t)

	w := doRequest(router, http.MethodPost, "/api/device/1/toggle", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"off"}`, w.Body.String())

	w = doRequest(router, http.MethodPost, "/api/device/1/toggle", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"on"}`, w.Body.String())
}

func TestToggleDeviceErrors(t *testing.T) {
	router, token := newDeviceRouter(t)

	w := doRequest(router, http.MethodPost, "/api/device/999/toggle", token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodPost, "/api/device/abc/toggle", token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIRoutesRequireAuthentication(t *testing.T) {
	router, _ := newTelemetryRouter(t, implementation.NewMemoryTelemetryRepository())

	for _, path := range []string{"/api/current_data", "/api/historical_data", "/api/suggestions"} {
		w := doRequest(router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)

		w = doRequest(router, http.MethodGet, path, "not-a-valid-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestHealthEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hub := broadcast.NewHub(4, testLogger())
	defer hub.Close()

	router := gin.New()
	controllers.NewHealthController(nil, hub, testLogger()).RegisterRoutes(router)

	w := doRequest(router, http.MethodGet, "/health/live", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/health/ready", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
	assert.Equal(t, true, body["db"])
}
