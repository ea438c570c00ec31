package appointments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Store is the persistence boundary for appointments. Uniqueness of email,
// phone, appointment number and (date, time, doctor) is enforced by the
// database; Insert reports violations as the matching sentinel error.
type Store interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
	SlotAvailable(ctx context.Context, date, tm, doctor string) (bool, error)
	Exists(ctx context.Context, number int, email string) (bool, error)
	OccupiedTimes(ctx context.Context, date, doctor string) ([]string, error)
	Insert(ctx context.Context, appt Appointment) error
	Delete(ctx context.Context, number int, email string) (bool, error)
	ListAll(ctx context.Context) ([]Appointment, error)
}

// Repository implements Store on PostgreSQL.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repository over the given database handle.
func NewRepository(db *sql.DB) *Repository {
	if db == nil {
		panic("appointments: db handle required")
	}
	return &Repository{db: db}
}

func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM appointments WHERE email = $1`, email)
}

func (r *Repository) PhoneExists(ctx context.Context, phone string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM appointments WHERE phone = $1`, phone)
}

// SlotAvailable reports whether no appointment occupies (date, time, doctor).
func (r *Repository) SlotAvailable(ctx context.Context, date, tm, doctor string) (bool, error) {
	taken, err := r.exists(ctx,
		`SELECT 1 FROM appointments WHERE date = $1 AND time = $2 AND doctor = $3`,
		date, tm, doctor)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

func (r *Repository) Exists(ctx context.Context, number int, email string) (bool, error) {
	return r.exists(ctx,
		`SELECT 1 FROM appointments WHERE appointment_number = $1 AND email = $2`,
		number, email)
}

func (r *Repository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("appointments: existence check: %w", err)
	}
	return true, nil
}

// OccupiedTimes returns the times already booked for the doctor on the day.
func (r *Repository) OccupiedTimes(ctx context.Context, date, doctor string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT time FROM appointments WHERE date = $1 AND doctor = $2 ORDER BY time`,
		date, doctor)
	if err != nil {
		return nil, fmt.Errorf("appointments: occupied times: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var tm string
		if err := rows.Scan(&tm); err != nil {
			return nil, fmt.Errorf("appointments: occupied times: %w", err)
		}
		out = append(out, tm)
	}
	return out, rows.Err()
}

func (r *Repository) Insert(ctx context.Context, appt Appointment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO appointments (appointment_number, first_name, last_name, email, phone, date, time, doctor)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		appt.Number, appt.FirstName, appt.LastName, appt.Email, appt.Phone,
		appt.Date, appt.Time, appt.Doctor)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("appointments: insert: %w", err)
	}
	return nil
}

// Delete removes the row matching (number, email) and reports whether one existed.
func (r *Repository) Delete(ctx context.Context, number int, email string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM appointments WHERE appointment_number = $1 AND email = $2`,
		number, email)
	if err != nil {
		return false, fmt.Errorf("appointments: delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("appointments: delete: %w", err)
	}
	return affected > 0, nil
}

func (r *Repository) ListAll(ctx context.Context) ([]Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT appointment_number, first_name, last_name, email, phone, date::text, time, doctor
		FROM appointments ORDER BY date, time`)
	if err != nil {
		return nil, fmt.Errorf("appointments: list: %w", err)
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.Number, &a.FirstName, &a.LastName, &a.Email,
			&a.Phone, &a.Date, &a.Time, &a.Doctor); err != nil {
			return nil, fmt.Errorf("appointments: list: %w", err)
		}
		out = append(out, a)
	}
	if out == nil {
		out = []Appointment{}
	}
	return out, rows.Err()
}

// ErrNumberTaken signals a collision on the randomly generated appointment
// number; the service retries with a fresh number.
var ErrNumberTaken = errors.New("appointment number already in use")

const uniqueViolation = "23505"

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case "appointments_email_key":
		return ErrEmailTaken
	case "appointments_phone_key":
		return ErrPhoneTaken
	case "appointments_slot_key":
		return ErrSlotTaken
	case "appointments_number_key":
		return ErrNumberTaken
	}
	return fmt.Errorf("appointments: unique violation on %s: %w", pgErr.ConstraintName, err)
}
