package main

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"clockgeo/internal/geo"
	"clockgeo/internal/location/capture"
	"clockgeo/internal/location/coordcrypt"
	"clockgeo/internal/location/geofence"
	"clockgeo/internal/location/handler"
	"clockgeo/internal/location/models"
	"clockgeo/internal/location/permission"
	"clockgeo/internal/location/retention"
	"clockgeo/internal/location/store/memory"
	"clockgeo/internal/location/verification"
	"clockgeo/internal/platform/config"
	httpmetrics "clockgeo/internal/platform/metrics"
	"clockgeo/internal/platform/ratelimit"
	"clockgeo/internal/platform/token"
	id "clockgeo/pkg/domain"
	"clockgeo/pkg/platform/audit/publisher"
	auditmemory "clockgeo/pkg/platform/audit/store/memory"
	"clockgeo/pkg/platform/middleware/admin"
	"clockgeo/pkg/platform/middleware/request"
	"clockgeo/pkg/testutil"
)

type RouterSuite struct {
	suite.Suite
	router  http.Handler
	tokens  *token.Service
	events  *memory.ClockEventStore
	audit   *auditmemory.InMemoryStore
	userID  id.UserID
	eventID id.ClockEventID
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{
		Server: config.Server{
			AdminToken:     "ops-token",
			RequestTimeout: 5 * time.Second,
		},
		Geofence:  config.Geofence{StrictMode: true, RetentionDays: 90},
		RateLimit: config.RateLimit{Requests: 5, Window: time.Minute},
	}

	sites := memory.NewSiteLocationStore(models.SiteLocation{
		ID:           id.SiteLocationID(uuid.New()),
		SiteID:       id.SiteID(uuid.New()),
		SiteName:     "Jefferson Hospital",
		Name:         "Main entrance",
		Coordinate:   geo.Coordinate{Latitude: 39.9526, Longitude: -75.1652},
		RadiusMeters: 100,
		Active:       true,
	})
	s.events = memory.NewClockEventStore()
	s.userID = id.UserID(uuid.New())
	s.eventID = id.ClockEventID(uuid.New())
	s.events.Put(models.ClockEvent{ID: s.eventID, UserID: s.userID})

	s.audit = auditmemory.NewInMemoryStore()
	pub := publisher.NewPublisher(s.audit)
	recorder := verification.NewRecorder(memory.NewVerificationStore(), memory.NewAccuracyLogStore(), coordcrypt.NewPlaintext(),
		verification.WithLogger(log))
	tracker := permission.New(memory.NewPermissionStore(), permission.WithLogger(log), permission.WithAuditPublisher(pub))
	svc, err := capture.New(s.events, geofence.NewValidator(geofence.NewLocator(sites), geofence.WithLogger(log)), recorder,
		newTimeoutRunner(memory.NewTxRunner()),
		capture.WithLogger(log),
		capture.WithAuditPublisher(pub),
		capture.WithStrictMode(cfg.Geofence.StrictMode),
		capture.WithPermissionTracker(tracker),
	)
	s.Require().NoError(err)

	s.tokens = token.NewService("router-test-key", "clockgeo", "clockgeo-api")
	s.router = newRouter(cfg, log, httpmetrics.New(prometheus.NewRegistry()), s.tokens, ratelimit.NewMemoryStore(),
		handler.New(svc, tracker, log),
		handler.NewAdmin(retention.New(recorder, cfg.Geofence.RetentionDays, retention.WithAuditPublisher(pub)), log),
	)
}

func (s *RouterSuite) authed(req *http.Request) *http.Request {
	tok, err := s.tokens.Issue(s.userID, time.Hour)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+tok)
	return req
}

func (s *RouterSuite) captureBody(lat, lng float64) map[string]any {
	return map[string]any{
		"timeRecordId": s.eventID.String(),
		"captureType":  "clock_in",
		"latitude":     lat,
		"longitude":    lng,
		"accuracy":     8.0,
		"source":       "gps",
	}
}

func (s *RouterSuite) TestCaptureEndToEnd() {
	req := s.authed(testutil.NewJSONRequest(s.T(), http.MethodPost, "/locations/capture", s.captureBody(39.9527, -75.1652)))
	req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_2 like Mac OS X)")
	rr := testutil.DoRequest(s.router, req)
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	s.NotEmpty(rr.Header().Get(request.HeaderRequestID))

	body := testutil.UnmarshalResponse[handler.CaptureResponse](s.T(), rr)
	s.True(body.Success)
	s.Equal("high", body.Validation.Accuracy)
	s.Empty(body.Validation.Warnings)

	ev, err := s.events.FindByID(req.Context(), s.eventID)
	s.Require().NoError(err)
	s.True(ev.Captured(models.DirectionClockIn))

	rr = testutil.DoRequest(s.router, s.authed(testutil.NewJSONRequest(s.T(), http.MethodPost, "/locations/capture", s.captureBody(39.9527, -75.1652))))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
}

func (s *RouterSuite) TestCaptureOutsideStrictFence() {
	// roughly 1.1 km north of the site
	rr := testutil.DoRequest(s.router, s.authed(testutil.NewJSONRequest(s.T(), http.MethodPost, "/locations/capture", s.captureBody(39.9626, -75.1652))))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, "location_rejected")

	body := testutil.UnmarshalResponse[map[string]any](s.T(), rr)
	details, ok := (*body)["details"].([]any)
	s.Require().True(ok)
	s.NotEmpty(details)
	s.Contains(s.audit.Actions(), "location_rejected")
}

func (s *RouterSuite) TestCaptureRequiresToken() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/locations/capture", s.captureBody(39.9527, -75.1652)))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
}

func (s *RouterSuite) TestOperationalEndpoints() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/healthz", nil))
	s.Equal(http.StatusOK, rr.Code)

	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/metrics", nil))
	s.Equal(http.StatusOK, rr.Code)
}

func (s *RouterSuite) TestAdminRetention() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/admin/locations/retention", nil))
	s.Equal(http.StatusUnauthorized, rr.Code)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/admin/locations/retention?retentionDays=30", nil)
	req.Header.Set(admin.HeaderAdminToken, "ops-token")
	rr = testutil.DoRequest(s.router, req)
	s.Equal(http.StatusOK, rr.Code)
	s.Contains(s.audit.Actions(), "location_retention_cleanup")
}

func (s *RouterSuite) TestPerUserRateLimit() {
	for range 5 {
		rr := testutil.DoRequest(s.router, s.authed(testutil.NewJSONRequest(s.T(), http.MethodGet, "/locations/permissions", nil)))
		s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	}
	rr := testutil.DoRequest(s.router, s.authed(testutil.NewJSONRequest(s.T(), http.MethodGet, "/locations/permissions", nil)))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusTooManyRequests, "rate_limited")
	s.NotEmpty(rr.Header().Get("Retry-After"))
}
