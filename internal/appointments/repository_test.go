package appointments

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestEmailExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectQuery("SELECT 1 FROM appointments WHERE email").
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.EmailExists(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if !exists {
		t.Fatal("expected email to exist")
	}

	mock.ExpectQuery("SELECT 1 FROM appointments WHERE email").
		WithArgs("bob@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err = repo.EmailExists(context.Background(), "bob@example.com")
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if exists {
		t.Fatal("expected email to be absent")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSlotAvailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectQuery("SELECT 1 FROM appointments WHERE date").
		WithArgs("2026-03-16", "10:00", "Dr. Mary Johnson - General Physician").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	available, err := repo.SlotAvailable(context.Background(), "2026-03-16", "10:00", "Dr. Mary Johnson - General Physician")
	if err != nil {
		t.Fatalf("SlotAvailable: %v", err)
	}
	if available {
		t.Fatal("expected occupied slot to be unavailable")
	}
}

func TestInsertMapsUniqueViolations(t *testing.T) {
	cases := []struct {
		constraint string
		want       error
	}{
		{"appointments_email_key", ErrEmailTaken},
		{"appointments_phone_key", ErrPhoneTaken},
		{"appointments_slot_key", ErrSlotTaken},
		{"appointments_number_key", ErrNumberTaken},
	}
	for _, tc := range cases {
		t.Run(tc.constraint, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("sqlmock: %v", err)
			}
			defer db.Close()
			repo := NewRepository(db)

			pgErr := &pgconn.PgError{Code: "23505", ConstraintName: tc.constraint}
			mock.ExpectExec("INSERT INTO appointments").WillReturnError(pgErr)

			err = repo.Insert(context.Background(), Appointment{Number: 123456})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestDeleteReportsMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectExec("DELETE FROM appointments").
		WithArgs(123456, "alice@example.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), 123456, "alice@example.com")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted {
		t.Fatal("expected no deletion for missing row")
	}
}

func TestOccupiedTimes(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectQuery("SELECT time FROM appointments WHERE date").
		WithArgs("2026-03-16", "Dr. Mary Johnson - General Physician").
		WillReturnRows(sqlmock.NewRows([]string{"time"}).AddRow("09:00").AddRow("10:30"))

	times, err := repo.OccupiedTimes(context.Background(), "2026-03-16", "Dr. Mary Johnson - General Physician")
	if err != nil {
		t.Fatalf("OccupiedTimes: %v", err)
	}
	if len(times) != 2 || times[0] != "09:00" || times[1] != "10:30" {
		t.Fatalf("unexpected times: %v", times)
	}
}

func TestListAllScansRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewRepository(db)

	rows := sqlmock.NewRows([]string{"appointment_number", "first_name", "last_name", "email", "phone", "date", "time", "doctor"}).
		AddRow(123456, "Alice", "Walker", "alice@example.com", "12345678901", "2026-03-16", "10:00", "Dr. Mary Johnson - General Physician")
	mock.ExpectQuery("SELECT appointment_number").WillReturnRows(rows)

	out, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(out) != 1 || out[0].Number != 123456 || out[0].Date != "2026-03-16" {
		t.Fatalf("unexpected result: %+v", out)
	}
}
