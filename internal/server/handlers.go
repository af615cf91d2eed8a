package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/weekwise/internal/export"
	"github.com/julianstephens/weekwise/internal/models"
	"github.com/julianstephens/weekwise/internal/schedule"
	"github.com/julianstephens/weekwise/internal/scoring"
	"github.com/julianstephens/weekwise/internal/slotstore"
	"github.com/julianstephens/weekwise/internal/utils"
)

// SlotView is one slot as returned by the API.
type SlotView struct {
	ID    string          `json:"id"`
	Day   string          `json:"day"`
	Hour  int             `json:"hour"`
	Label string          `json:"label"`
	Type  models.SlotType `json:"type"`
	Title string          `json:"title"`
	Notes string          `json:"notes"`
}

type slotRequest struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Notes string `json:"notes"`
}

type nowView struct {
	Time       time.Time `json:"time"`
	Day        string    `json:"day"`
	Hour       int       `json:"hour"`
	InSchedule bool      `json:"in_schedule"`
	Slot       *SlotView `json:"slot,omitempty"`
	Next       *SlotView `json:"next,omitempty"`
}

func newSlotView(day time.Weekday, hour int, slot models.Slot) SlotView {
	slot = slot.Normalize()
	return SlotView{
		ID:    schedule.SlotID(day, hour),
		Day:   day.String(),
		Hour:  hour,
		Label: schedule.FormatHourLabel(hour),
		Type:  slot.Type,
		Title: slot.Title,
		Notes: slot.Notes,
	}
}

func (h *Handler) Health(c *gin.Context) {
	success(c, gin.H{
		"status":   "ok",
		"location": h.store.Location(),
	})
}

// ListSlots returns every planned hour of the week, Monday first.
func (h *Handler) ListSlots(c *gin.Context) {
	slots := make([]SlotView, 0, schedule.TotalScheduledHours())
	for _, day := range schedule.Week {
		for _, hour := range schedule.ValidHours(day) {
			slots = append(slots, newSlotView(day, hour, h.store.Get(day, hour)))
		}
	}
	success(c, slots)
}

func (h *Handler) GetSlot(c *gin.Context) {
	day, hour, ok := slotParams(c)
	if !ok {
		return
	}
	success(c, newSlotView(day, hour, h.store.Get(day, hour)))
}

func (h *Handler) PutSlot(c *gin.Context) {
	day, hour, ok := slotParams(c)
	if !ok {
		return
	}

	var req slotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	t, err := models.ParseSlotType(req.Type)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	slot := models.Slot{Type: t, Title: req.Title, Notes: req.Notes}
	if err := h.store.Set(c.Request.Context(), day, hour, slot); err != nil {
		h.storeError(c, err)
		return
	}
	success(c, newSlotView(day, hour, h.store.Get(day, hour)))
}

func (h *Handler) DeleteSlot(c *gin.Context) {
	day, hour, ok := slotParams(c)
	if !ok {
		return
	}
	if err := h.store.Delete(c.Request.Context(), day, hour); err != nil {
		h.storeError(c, err)
		return
	}
	success(c, newSlotView(day, hour, h.store.Get(day, hour)))
}

func (h *Handler) ClearSlots(c *gin.Context) {
	if err := h.store.Clear(c.Request.Context()); err != nil {
		h.storeError(c, err)
		return
	}
	success(c, gin.H{"cleared": true})
}

func (h *Handler) WeekStats(c *gin.Context) {
	week := scoring.ComputeWeekStatistics(h.store)
	success(c, gin.H{
		"week":         week,
		"distribution": scoring.Distribution(week),
		"bars":         scoring.ScoreBars(week),
	})
}

func (h *Handler) DayStats(c *gin.Context) {
	day, err := schedule.ParseDay(c.Param("day"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	success(c, scoring.ComputeDayStatistics(day, h.store))
}

// Now reports the current slot in the configured timezone and the next
// planned hour.
func (h *Handler) Now(c *gin.Context) {
	now, err := h.currentTime()
	if err != nil {
		internalError(c, err)
		return
	}

	day, hour, in := utils.CurrentSlot(now)
	view := nowView{Time: now, Day: day.String(), Hour: hour, InSchedule: in}
	if in {
		cur := newSlotView(day, hour, h.store.Get(day, hour))
		view.Slot = &cur
	}
	nd, nh, _ := utils.NextSlot(now)
	next := newSlotView(nd, nh, h.store.Get(nd, nh))
	view.Next = &next
	success(c, view)
}

func (h *Handler) ExportICS(c *gin.Context) {
	now, err := h.currentTime()
	if err != nil {
		internalError(c, err)
		return
	}
	c.Header("Content-Type", "text/calendar; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename=weekwise.ics")
	c.Status(http.StatusOK)
	if _, err := export.WriteICS(c.Writer, h.store, export.ICSOptions{Now: now}); err != nil {
		_ = c.Error(err)
	}
}

func (h *Handler) ExportJSON(c *gin.Context) {
	c.Header("Content-Type", "application/json; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename=weekwise.json")
	c.Status(http.StatusOK)
	if err := export.WriteJSON(c.Writer, h.store.Snapshot(), h.now()); err != nil {
		_ = c.Error(err)
	}
}

func (h *Handler) currentTime() (time.Time, error) {
	loc, err := utils.LoadLocation(h.timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", h.timezone, err)
	}
	return h.now().In(loc), nil
}

func (h *Handler) storeError(c *gin.Context, err error) {
	if errors.Is(err, slotstore.ErrInvalidSlot) || errors.Is(err, slotstore.ErrInvalidType) {
		badRequest(c, err.Error())
		return
	}
	internalError(c, err)
}

// slotParams parses :day and :hour and rejects hours outside the schedule.
func slotParams(c *gin.Context) (time.Weekday, int, bool) {
	day, err := schedule.ParseDay(c.Param("day"))
	if err != nil {
		badRequest(c, err.Error())
		return 0, 0, false
	}
	hour, err := schedule.ParseHour(c.Param("hour"))
	if err != nil {
		badRequest(c, err.Error())
		return 0, 0, false
	}
	if !schedule.IsValidSlot(day, hour) {
		badRequest(c, fmt.Sprintf("%s %s is not a planned hour (%s)", day, schedule.FormatHourLabel(hour), schedule.RangeLabel(day)))
		return 0, 0, false
	}
	return day, hour, true
}
