package appointments

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHandlerBookCreatesAppointment(t *testing.T) {
	store := &fakeStore{}
	h := NewHandler(newTestService(store, &fakeNotifier{}), nil)

	appt := validBooking()
	rec := postJSON(t, h.Book, "/appointments", BookRequest{
		FirstName: appt.FirstName,
		LastName:  appt.LastName,
		Email:     appt.Email,
		Phone:     appt.Phone,
		Date:      appt.Date,
		Time:      appt.Time,
		Doctor:    appt.Doctor,
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	var resp BookResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AppointmentNumber < 100000 || resp.AppointmentNumber > 999999 {
		t.Fatalf("appointment number out of range: %d", resp.AppointmentNumber)
	}
	if !resp.EmailSent {
		t.Fatal("expected email_sent to be true")
	}
	if len(store.rows) != 1 {
		t.Fatalf("expected one persisted row, got %d", len(store.rows))
	}
}

func TestHandlerBookRejectsMalformedBody(t *testing.T) {
	h := NewHandler(newTestService(&fakeStore{}, &fakeNotifier{}), nil)

	req := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.Book(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandlerBookValidationErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*BookRequest)
		status int
	}{
		{"bad name", func(r *BookRequest) { r.FirstName = "Alice3" }, http.StatusUnprocessableEntity},
		{"bad phone", func(r *BookRequest) { r.Phone = "123" }, http.StatusUnprocessableEntity},
		{"past date", func(r *BookRequest) { r.Date = "2020-01-01" }, http.StatusUnprocessableEntity},
		{"unknown doctor", func(r *BookRequest) { r.Doctor = "Dr. Nobody" }, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(newTestService(&fakeStore{}, &fakeNotifier{}), nil)
			appt := validBooking()
			req := BookRequest{
				FirstName: appt.FirstName,
				LastName:  appt.LastName,
				Email:     appt.Email,
				Phone:     appt.Phone,
				Date:      appt.Date,
				Time:      appt.Time,
				Doctor:    appt.Doctor,
			}
			tc.mutate(&req)
			rec := postJSON(t, h.Book, "/appointments", req)
			if rec.Code != tc.status {
				t.Fatalf("expected status %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandlerBookConflictOnDuplicateEmail(t *testing.T) {
	existing := validBooking()
	existing.Number = 111111
	store := &fakeStore{rows: []Appointment{existing}}
	h := NewHandler(newTestService(store, &fakeNotifier{}), nil)

	appt := validBooking()
	appt.Phone = "10987654321"
	appt.Time = "11:00"
	rec := postJSON(t, h.Book, "/appointments", BookRequest{
		FirstName: appt.FirstName,
		LastName:  appt.LastName,
		Email:     appt.Email,
		Phone:     appt.Phone,
		Date:      appt.Date,
		Time:      appt.Time,
		Doctor:    appt.Doctor,
	})

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d: %s", http.StatusConflict, rec.Code, rec.Body.String())
	}
}

func TestHandlerCancelLifecycle(t *testing.T) {
	existing := validBooking()
	existing.Number = 234567
	store := &fakeStore{rows: []Appointment{existing}}
	h := NewHandler(newTestService(store, &fakeNotifier{}), nil)

	rec := postJSON(t, h.Cancel, "/appointments/cancel", CancelRequest{
		AppointmentNumber: strconv.Itoa(existing.Number),
		Email:             existing.Email,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if len(store.rows) != 0 {
		t.Fatal("expected the row to be deleted")
	}

	// A second cancel of the same appointment is a 404.
	rec = postJSON(t, h.Cancel, "/appointments/cancel", CancelRequest{
		AppointmentNumber: strconv.Itoa(existing.Number),
		Email:             existing.Email,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestHandlerCancelPrefillEchoesQuery(t *testing.T) {
	h := NewHandler(newTestService(&fakeStore{}, &fakeNotifier{}), nil)

	req := httptest.NewRequest(http.MethodGet, "/cancel?appointment_number=234567&email=alice%40example.com", nil)
	rec := httptest.NewRecorder()
	h.CancelPrefill(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var resp CancelRequest
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AppointmentNumber != "234567" || resp.Email != "alice@example.com" {
		t.Fatalf("unexpected prefill: %+v", resp)
	}
}

func TestHandlerSlots(t *testing.T) {
	existing := validBooking()
	existing.Number = 111111
	existing.Time = "07:30"
	store := &fakeStore{rows: []Appointment{existing}}
	h := NewHandler(newTestService(store, &fakeNotifier{}), nil)

	req := httptest.NewRequest(http.MethodGet, "/appointments/slots?date=2026-03-16&doctor="+testDoctorQuery(), nil)
	rec := httptest.NewRecorder()
	h.Slots(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	var resp SlotsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Slots) == 0 {
		t.Fatal("expected a slot grid")
	}
	occupied := false
	for _, s := range resp.Slots {
		if s.Time == "07:30" && s.Occupied {
			occupied = true
		}
	}
	if !occupied {
		t.Fatal("expected 07:30 to be marked occupied")
	}
}

func TestHandlerSlotsRequiresParams(t *testing.T) {
	h := NewHandler(newTestService(&fakeStore{}, &fakeNotifier{}), nil)

	req := httptest.NewRequest(http.MethodGet, "/appointments/slots?date=2026-03-16", nil)
	rec := httptest.NewRecorder()
	h.Slots(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandlerList(t *testing.T) {
	existing := validBooking()
	existing.Number = 111111
	store := &fakeStore{rows: []Appointment{existing}}
	h := NewHandler(newTestService(store, &fakeNotifier{}), nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/appointments", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var resp ListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 1 || len(resp.Appointments) != 1 {
		t.Fatalf("unexpected listing: %+v", resp)
	}
}

func testDoctorQuery() string {
	return "Dr.%20Mary%20Johnson%20-%20General%20Physician"
}
