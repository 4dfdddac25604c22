// internal/handlers/helpers_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"innerpath/internal/config"
	"innerpath/internal/corpus"
	"innerpath/internal/crypto"
	"innerpath/internal/handlers"
	"innerpath/internal/llm"
	"innerpath/internal/middleware"
	"innerpath/internal/model"
	"innerpath/internal/repository"
	"innerpath/internal/safety"
	"innerpath/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testProviderJSON = `{"title": "Noticing", "body": "Watch for the loop today.", "reflection_prompt": "When did it start?"}`

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
	tpl    *model.JourneyTemplate
	userID uuid.UUID
}

// newTestEnv wires the full API against an in-memory database with auth
// disabled, the way a dev deployment runs.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return newTestEnvWithDB(t, db)
}

// newTestEnvWithDB builds the API on top of an existing connection; the
// postgres integration test reuses it against a real database.
func newTestEnvWithDB(t *testing.T, db *gorm.DB) *testEnv {
	t.Helper()

	require.NoError(t, db.AutoMigrate(
		&model.JourneyTemplate{},
		&model.StepBlueprint{},
		&model.UserJourney{},
		&model.PauseInterval{},
		&model.StepRecord{},
		&model.SecurityEvent{},
	))

	tpl := &model.JourneyTemplate{
		TemplateID:   uuid.New(),
		Theme:        model.ThemeOverthinking,
		Title:        "Quiet the Loop",
		DurationDays: 7,
		Priority:     10,
	}
	for d := 1; d <= 7; d++ {
		tpl.Blueprints = append(tpl.Blueprints, model.StepBlueprint{
			TemplateID: tpl.TemplateID, DayIndex: d, Tags: "grounding", MaxTokens: 400,
		})
	}
	require.NoError(t, db.Create(tpl).Error)

	cfg := &config.Config{
		App: config.AppConfig{Env: "test", MaxActiveJourneys: 5, AgendaJourneyLimit: 20},
	}
	testLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cipher, err := crypto.New(map[string]string{"v1": "handler-secret"}, "v1", false, testLogger)
	require.NoError(t, err)
	corpusAdapter, err := corpus.NewStatic()
	require.NoError(t, err)

	jrnRepo := repository.NewGormJourneyRepository()
	tplRepo := repository.NewGormTemplateRepository()
	stepRepo := repository.NewGormStepRepository()
	secRepo := repository.NewGormSecurityEventRepository()
	gate := safety.NewGate()
	provider := &llm.MockProvider{ProviderName: "primary", Responses: []string{testProviderJSON}}
	generator := service.NewContentGenerator(db, stepRepo, secRepo, []llm.Provider{provider}, corpusAdapter, gate)

	journeyHandler := handlers.NewJourneyHandler(service.NewJourneyService(db, jrnRepo, tplRepo, stepRepo, cipher, cfg))
	stepHandler := handlers.NewStepHandler(service.NewStepService(db, jrnRepo, stepRepo, secRepo, generator, gate, cipher, &service.LogMailer{}, ""))
	agendaHandler := handlers.NewAgendaHandler(service.NewAgendaService(db, jrnRepo, stepRepo, generator, cfg))

	r := chi.NewRouter()
	r.Use(middleware.LoggingMiddleware(testLogger))
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.DevUserContextMiddleware)

			r.Get("/templates", journeyHandler.ListTemplates)
			r.Route("/journeys", func(r chi.Router) {
				r.Post("/", journeyHandler.StartJourneys)
				r.Get("/", journeyHandler.ListJourneys)
				r.Route("/{journey_id}", func(r chi.Router) {
					r.Post("/pause", journeyHandler.Pause)
					r.Post("/resume", journeyHandler.Resume)
					r.Post("/abandon", journeyHandler.Abandon)
					r.Get("/history", journeyHandler.History)
					r.Get("/steps/{day_index}", stepHandler.GetStep)
					r.Post("/steps/{day_index}/complete", stepHandler.CompleteStep)
				})
			})
			r.Get("/agenda/today", agendaHandler.GetTodayAgenda)
		})
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &testEnv{server: server, db: db, tpl: tpl, userID: uuid.New()}
}

// request sends a JSON request as the env's user, asserts the status code
// and returns the raw body.
func (e *testEnv) request(t *testing.T, method, path string, body interface{}, wantCode int) []byte {
	t.Helper()
	return e.requestAs(t, e.userID.String(), method, path, body, wantCode)
}

func (e *testEnv) requestAs(t *testing.T, userHeader, method, path string, body interface{}, wantCode int) []byte {
	t.Helper()

	var reader io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			reader = strings.NewReader(s)
		} else {
			raw, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userHeader != "" {
		req.Header.Set("X-User-ID", userHeader)
	}

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, wantCode, resp.StatusCode, "unexpected status, body: %s", raw)
	return raw
}

// startJourney starts one journey over the API and returns its response.
func (e *testEnv) startJourney(t *testing.T) *model.JourneyResponse {
	t.Helper()
	raw := e.request(t, http.MethodPost, "/api/v1/journeys", map[string]interface{}{
		"journeys": []map[string]interface{}{
			{"template_id": e.tpl.TemplateID, "pace": "daily"},
		},
	}, http.StatusCreated)

	var payload struct {
		Journeys []*model.JourneyResponse `json:"journeys"`
	}
	require.NoError(t, json.Unmarshal(raw, &payload))
	require.Len(t, payload.Journeys, 1)
	return payload.Journeys[0]
}

func errorCode(t *testing.T, raw []byte) string {
	t.Helper()
	var payload model.APIErrorResponse
	require.NoError(t, json.Unmarshal(raw, &payload))
	return payload.Error.Code
}
