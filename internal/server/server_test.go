package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/julianstephens/weekwise/internal/models"
	"github.com/julianstephens/weekwise/internal/slotstore"
	"github.com/julianstephens/weekwise/internal/storage"
)

type failingBackend struct {
	*storage.MemoryStore
	fail bool
}

func (b *failingBackend) Write(ctx context.Context, key string, value []byte) error {
	if b.fail {
		return errors.New("backend unavailable")
	}
	return b.MemoryStore.Write(ctx, key, value)
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newRouterUnderTest(t *testing.T) (http.Handler, *slotstore.Store, *failingBackend) {
	t.Helper()
	backend := &failingBackend{MemoryStore: storage.NewMemoryStore()}
	store := slotstore.New(backend)
	store.Load(context.Background())

	h := NewHandler(store, "UTC")
	// Monday 2026-10-12 20:30 UTC
	h.now = func() time.Time { return time.Date(2026, 10, 12, 20, 30, 0, 0, time.UTC) }
	return NewRouter(h), store, backend
}

func performRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &env))
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func TestRouter_Health(t *testing.T) {
	router, _, _ := newRouterUnderTest(t)

	recorder := performRequest(router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotEmpty(t, recorder.Header().Get(requestIDHeader))

	var data map[string]string
	env := decodeEnvelope(t, recorder, &data)
	require.Equal(t, 0, env.Code)
	require.Equal(t, "ok", data["status"])
	require.Equal(t, "memory", data["location"])
}

func TestRouter_RequestIDPassthrough(t *testing.T) {
	router, _, _ := newRouterUnderTest(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, "abc-123", recorder.Header().Get(requestIDHeader))
}

func TestRouter_SlotRoundTrip(t *testing.T) {
	router, store, _ := newRouterUnderTest(t)

	recorder := performRequest(router, http.MethodPut, "/api/v1/slots/monday/20", `{"type":"study","title":" Algebra ","notes":"ch. 3"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var put SlotView
	decodeEnvelope(t, recorder, &put)
	require.Equal(t, "Monday__20", put.ID)
	require.Equal(t, "Algebra", put.Title)
	require.Equal(t, "8:00 PM", put.Label)
	require.Equal(t, models.SlotStudy, store.Get(time.Monday, 20).Type)

	recorder = performRequest(router, http.MethodGet, "/api/v1/slots/Mon/8pm", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	var got SlotView
	decodeEnvelope(t, recorder, &got)
	require.Equal(t, put, got)

	recorder = performRequest(router, http.MethodDelete, "/api/v1/slots/monday/20", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, models.DefaultSlot(), store.Get(time.Monday, 20))

	// deleting again is a no-op
	recorder = performRequest(router, http.MethodDelete, "/api/v1/slots/monday/20", "")
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestRouter_ListSlots(t *testing.T) {
	router, store, _ := newRouterUnderTest(t)
	require.NoError(t, store.Set(context.Background(), time.Sunday, 23, models.Slot{Type: models.SlotEssential}))

	recorder := performRequest(router, http.MethodGet, "/api/v1/slots", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var slots []SlotView
	decodeEnvelope(t, recorder, &slots)
	require.Len(t, slots, 52)
	require.Equal(t, "Monday__20", slots[0].ID)
	last := slots[len(slots)-1]
	require.Equal(t, "Sunday__23", last.ID)
	require.Equal(t, models.SlotEssential, last.Type)
}

func TestRouter_InvalidSlotRequests(t *testing.T) {
	router, _, _ := newRouterUnderTest(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"unknown day", http.MethodGet, "/api/v1/slots/funday/20", ""},
		{"bad hour", http.MethodGet, "/api/v1/slots/monday/noon", ""},
		{"unplanned hour", http.MethodPut, "/api/v1/slots/monday/9", `{"type":"study"}`},
		{"bad type", http.MethodPut, "/api/v1/slots/monday/20", `{"type":"nap"}`},
		{"bad body", http.MethodPut, "/api/v1/slots/monday/20", `{"type":1}`},
		{"delete unplanned", http.MethodDelete, "/api/v1/slots/saturday/7", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := performRequest(router, tt.method, tt.path, tt.body)
			require.Equal(t, http.StatusBadRequest, recorder.Code)
			env := decodeEnvelope(t, recorder, nil)
			require.Equal(t, http.StatusBadRequest, env.Code)
			require.NotEmpty(t, env.Message)
		})
	}
}

func TestRouter_PersistFailure(t *testing.T) {
	router, store, backend := newRouterUnderTest(t)
	backend.fail = true

	recorder := performRequest(router, http.MethodPut, "/api/v1/slots/saturday/8", `{"type":"study"}`)
	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	require.Equal(t, models.DefaultSlot(), store.Get(time.Saturday, 8))
}

func TestRouter_ClearSlots(t *testing.T) {
	router, store, _ := newRouterUnderTest(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, time.Monday, 20, models.Slot{Type: models.SlotStudy}))
	require.NoError(t, store.Set(ctx, time.Friday, 23, models.Slot{Type: models.SlotEssential}))

	recorder := performRequest(router, http.MethodDelete, "/api/v1/slots", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, 0, store.Len())
}

func TestRouter_Stats(t *testing.T) {
	router, store, _ := newRouterUnderTest(t)
	ctx := context.Background()
	// Monday: 2 study, 1 essential, 1 non-essential = 4 / 8 = 50
	require.NoError(t, store.Set(ctx, time.Monday, 20, models.Slot{Type: models.SlotStudy}))
	require.NoError(t, store.Set(ctx, time.Monday, 21, models.Slot{Type: models.SlotStudy}))
	require.NoError(t, store.Set(ctx, time.Monday, 22, models.Slot{Type: models.SlotEssential}))
	require.NoError(t, store.Set(ctx, time.Monday, 23, models.Slot{Type: models.SlotNonEssential}))

	recorder := performRequest(router, http.MethodGet, "/api/v1/stats/days/monday", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	var day models.DayStatistics
	decodeEnvelope(t, recorder, &day)
	require.Equal(t, 50, day.Score)
	require.Equal(t, 4, day.FilledCount)
	require.Equal(t, "Monday", day.DayName)

	recorder = performRequest(router, http.MethodGet, "/api/v1/stats/week", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	var week struct {
		Week models.WeekStatistics `json:"week"`
		Bars []struct {
			Label string `json:"label"`
			Score int    `json:"score"`
		} `json:"bars"`
	}
	decodeEnvelope(t, recorder, &week)
	require.Equal(t, []int{50, 0, 0, 0, 0, 0, 0}, week.Week.Scores)
	require.Equal(t, 7, week.Week.AvgScore)
	require.Equal(t, "Mon", week.Bars[0].Label)

	recorder = performRequest(router, http.MethodGet, "/api/v1/stats/days/someday", "")
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRouter_Now(t *testing.T) {
	router, store, _ := newRouterUnderTest(t)
	require.NoError(t, store.Set(context.Background(), time.Monday, 20, models.Slot{Type: models.SlotStudy, Title: "Calc"}))

	recorder := performRequest(router, http.MethodGet, "/api/v1/now", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var now nowView
	decodeEnvelope(t, recorder, &now)
	require.True(t, now.InSchedule)
	require.NotNil(t, now.Slot)
	require.Equal(t, "Calc", now.Slot.Title)
	require.NotNil(t, now.Next)
	require.Equal(t, "Monday__21", now.Next.ID)
}

func TestRouter_ExportICS(t *testing.T) {
	router, store, _ := newRouterUnderTest(t)
	require.NoError(t, store.Set(context.Background(), time.Monday, 20, models.Slot{Type: models.SlotStudy, Title: "Calc"}))

	recorder := performRequest(router, http.MethodGet, "/api/v1/export/ics", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Header().Get("Content-Type"), "text/calendar")
	body := recorder.Body.String()
	require.Contains(t, body, "SUMMARY:Calc")
	require.Contains(t, body, "DTSTART:20261012T200000")
	require.Equal(t, 1, strings.Count(body, "BEGIN:VEVENT"))
}

func TestRouter_ExportJSON(t *testing.T) {
	router, store, _ := newRouterUnderTest(t)
	require.NoError(t, store.Set(context.Background(), time.Monday, 20, models.Slot{Type: models.SlotStudy}))

	recorder := performRequest(router, http.MethodGet, "/api/v1/export/json", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), `"Monday__20"`)
}

func TestRouter_NotFound(t *testing.T) {
	router, _, _ := newRouterUnderTest(t)
	recorder := performRequest(router, http.MethodGet, "/api/v2/nothing", "")
	require.Equal(t, http.StatusNotFound, recorder.Code)
}
