package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/tripflow/internal/api"
	"github.com/nhle/tripflow/internal/model"
)

// TripServer is an in-memory fake of the Tripflow REST store for tests.
// It mirrors the store's contract, including the parts the client has to
// compensate for: deletes leave order index gaps, and the reorder
// endpoint applies updates verbatim without renumbering.
type TripServer struct {
	mu         sync.Mutex
	trips      map[string]model.Trip
	days       map[string]model.Day
	activities map[string]model.Activity

	// FailReorder makes POST /activities/reorder return 500 without
	// applying the batch.
	FailReorder bool

	// ReorderCalls counts reorder requests, failed ones included.
	ReorderCalls int

	srv *httptest.Server
}

// NewTripServer starts a fake trip store and closes it when the test
// completes.
func NewTripServer(t *testing.T) *TripServer {
	t.Helper()

	s := &TripServer{
		trips:      make(map[string]model.Trip),
		days:       make(map[string]model.Day),
		activities: make(map[string]model.Activity),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /trips", s.listTrips)
	mux.HandleFunc("POST /trips", s.createTrip)
	mux.HandleFunc("GET /trips/{id}", s.getTrip)
	mux.HandleFunc("DELETE /trips/{id}", s.deleteTrip)
	mux.HandleFunc("POST /trips/{id}/days", s.createDay)
	mux.HandleFunc("POST /trips/{tripID}/days/{dayID}/activities", s.createActivity)
	mux.HandleFunc("PUT /activities/{id}", s.updateActivity)
	mux.HandleFunc("DELETE /activities/{id}", s.deleteActivity)
	mux.HandleFunc("POST /activities/reorder", s.reorder)

	s.srv = httptest.NewServer(mux)
	t.Cleanup(s.srv.Close)

	return s
}

// URL returns the server's base URL for api.NewClient.
func (s *TripServer) URL() string {
	return s.srv.URL
}

// SeedTrip inserts a trip directly into the fake store, assigning an id
// when the trip has none.
func (s *TripServer) SeedTrip(trip model.Trip) model.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()
	if trip.ID == "" {
		trip.ID = uuid.NewString()
	}
	s.trips[trip.ID] = trip
	return trip
}

// SeedDay inserts a day directly into the fake store.
func (s *TripServer) SeedDay(day model.Day) model.Day {
	s.mu.Lock()
	defer s.mu.Unlock()
	if day.ID == "" {
		day.ID = uuid.NewString()
	}
	s.days[day.ID] = day
	return day
}

// SeedActivity inserts an activity directly into the fake store.
func (s *TripServer) SeedActivity(a model.Activity) model.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	s.activities[a.ID] = a
	return a
}

// ActivityState returns the stored day binding and order index of an
// activity, for asserting what a commit persisted.
func (s *TripServer) ActivityState(id string) (dayID string, orderIndex int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.activities[id]
	return a.DayID, a.OrderIndex, ok
}

func (s *TripServer) listTrips(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trips := make([]model.Trip, 0, len(s.trips))
	for _, t := range s.trips {
		trips = append(trips, t)
	}
	sort.Slice(trips, func(i, j int) bool {
		return trips[i].CreatedAt.After(trips[j].CreatedAt)
	})
	writeJSON(w, http.StatusOK, trips)
}

func (s *TripServer) createTrip(w http.ResponseWriter, r *http.Request) {
	var payload api.TripCreate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	trip := model.Trip{
		ID:        uuid.NewString(),
		Title:     payload.Title,
		DateStart: payload.DateStart,
		DateEnd:   payload.DateEnd,
		Currency:  payload.Currency,
		Theme:     payload.Theme,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.trips[trip.ID] = trip
	writeJSON(w, http.StatusOK, trip)
}

func (s *TripServer) getTrip(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trip, ok := s.trips[r.PathValue("id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Trip not found")
		return
	}

	snap := api.Snapshot{Trip: trip}
	for _, d := range s.days {
		if d.TripID == trip.ID {
			snap.Days = append(snap.Days, d)
		}
	}
	sort.Slice(snap.Days, func(i, j int) bool {
		return snap.Days[i].Index < snap.Days[j].Index
	})
	for _, a := range s.activities {
		if a.TripID == trip.ID {
			snap.Activities = append(snap.Activities, a)
		}
	}
	sort.Slice(snap.Activities, func(i, j int) bool {
		if snap.Activities[i].DayID != snap.Activities[j].DayID {
			return snap.Activities[i].DayID < snap.Activities[j].DayID
		}
		return snap.Activities[i].OrderIndex < snap.Activities[j].OrderIndex
	})
	writeJSON(w, http.StatusOK, snap)
}

func (s *TripServer) deleteTrip(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := r.PathValue("id")
	if _, ok := s.trips[id]; !ok {
		writeDetail(w, http.StatusNotFound, "Trip not found")
		return
	}
	delete(s.trips, id)
	for dayID, d := range s.days {
		if d.TripID == id {
			delete(s.days, dayID)
		}
	}
	for actID, a := range s.activities {
		if a.TripID == id {
			delete(s.activities, actID)
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Trip deleted"})
}

func (s *TripServer) createDay(w http.ResponseWriter, r *http.Request) {
	var payload api.DayCreate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tripID := r.PathValue("id")
	if _, ok := s.trips[tripID]; !ok {
		writeDetail(w, http.StatusNotFound, "Trip not found")
		return
	}
	day := model.Day{
		ID:        uuid.NewString(),
		TripID:    tripID,
		Date:      payload.Date,
		Index:     payload.Index,
		Notes:     payload.Notes,
		CreatedAt: time.Now().UTC(),
	}
	s.days[day.ID] = day
	writeJSON(w, http.StatusOK, day)
}

func (s *TripServer) createActivity(w http.ResponseWriter, r *http.Request) {
	var payload api.ActivityCreate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dayID := r.PathValue("dayID")
	if _, ok := s.days[dayID]; !ok {
		writeDetail(w, http.StatusNotFound, "Day not found")
		return
	}

	// New activities append at the end of the day's ordering.
	count := 0
	for _, a := range s.activities {
		if a.DayID == dayID {
			count++
		}
	}

	now := time.Now().UTC()
	activity := model.Activity{
		ID:           uuid.NewString(),
		TripID:       r.PathValue("tripID"),
		DayID:        dayID,
		Title:        payload.Title,
		StartTime:    payload.StartTime,
		EndTime:      payload.EndTime,
		LocationText: payload.LocationText,
		Category:     payload.Category,
		Notes:        payload.Notes,
		Cost:         payload.Cost,
		Priority:     payload.Priority,
		Color:        payload.Color,
		OrderIndex:   count,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.activities[activity.ID] = activity
	writeJSON(w, http.StatusOK, activity)
}

func (s *TripServer) updateActivity(w http.ResponseWriter, r *http.Request) {
	var payload api.ActivityUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[r.PathValue("id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Activity not found")
		return
	}

	if payload.Title != nil {
		a.Title = *payload.Title
	}
	if payload.StartTime != nil {
		a.StartTime = *payload.StartTime
	}
	if payload.EndTime != nil {
		a.EndTime = *payload.EndTime
	}
	if payload.LocationText != nil {
		a.LocationText = *payload.LocationText
	}
	if payload.Category != nil {
		a.Category = *payload.Category
	}
	if payload.Notes != nil {
		a.Notes = *payload.Notes
	}
	if payload.Cost != nil {
		a.Cost = *payload.Cost
	}
	if payload.Priority != nil {
		a.Priority = *payload.Priority
	}
	if payload.Color != nil {
		a.Color = *payload.Color
	}
	a.UpdatedAt = time.Now().UTC()
	s.activities[a.ID] = a
	writeJSON(w, http.StatusOK, a)
}

func (s *TripServer) deleteActivity(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := r.PathValue("id")
	if _, ok := s.activities[id]; !ok {
		writeDetail(w, http.StatusNotFound, "Activity not found")
		return
	}
	// The remaining activities of the day keep their order indexes; the
	// resulting gap is the client's problem.
	delete(s.activities, id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Activity deleted"})
}

func (s *TripServer) reorder(w http.ResponseWriter, r *http.Request) {
	var updates []api.ReorderUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ReorderCalls++
	if s.FailReorder {
		writeDetail(w, http.StatusInternalServerError, "reorder failed")
		return
	}

	// Updates are applied verbatim; the store never renumbers.
	for _, u := range updates {
		if a, ok := s.activities[u.ID]; ok {
			a.DayID = u.DayID
			a.OrderIndex = u.OrderIndex
			s.activities[a.ID] = a
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Reordered"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
