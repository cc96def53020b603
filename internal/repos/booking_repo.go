package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"travelhub/internal/domain"
)

type BookingRepo struct{ db *sqlx.DB }

func NewBookingRepo(db *sqlx.DB) *BookingRepo { return &BookingRepo{db: db} }

type BookingFilter struct {
	GuestID   string
	Status    string
	ListingID string
	Ordering  string
	Page      Page
}

const bookingSelect = `
	SELECT b.id, b.listing_id, l.title AS listing_title, b.guest_id, b.check_in, b.check_out,
	       b.guests_count, b.total_price, b.status, b.created_at, b.updated_at,
	       u.id AS "guest.id", u.username AS "guest.username", u.first_name AS "guest.first_name",
	       u.last_name AS "guest.last_name", u.email AS "guest.email"
	FROM bookings b
	JOIN listings l ON l.id = b.listing_id
	JOIN users u ON u.id = b.guest_id`

var bookingOrder = map[string]string{
	"created_at": "b.created_at",
	"check_in":   "b.check_in",
	"check_out":  "b.check_out",
}

func (r *BookingRepo) Get(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.GetContext(ctx, &b, bookingSelect+` WHERE b.id = ?`, id); err != nil {
		if notFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return &b, nil
}

// List never widens past GuestID when it is set.
func (r *BookingRepo) List(ctx context.Context, f BookingFilter) ([]domain.Booking, int, error) {
	w := &where{}
	if f.GuestID != "" {
		w.add("b.guest_id = ?", f.GuestID)
	}
	if f.Status != "" {
		w.add("b.status = ?", f.Status)
	}
	if f.ListingID != "" {
		w.add("b.listing_id = ?", f.ListingID)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM bookings b`+w.String(), w.args...); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	limit, offset := f.Page.limitOffset()
	q := bookingSelect + w.String() +
		" ORDER BY " + orderBy(f.Ordering, bookingOrder, "b.created_at DESC", "b.rowid") +
		" LIMIT ? OFFSET ?"
	out := []domain.Booking{}
	if err := r.db.SelectContext(ctx, &out, q, append(w.args, limit, offset)...); err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	return out, total, nil
}

func (r *BookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO bookings(id,listing_id,guest_id,check_in,check_out,guests_count,total_price,status,created_at,updated_at)
		VALUES(:id,:listing_id,:guest_id,:check_in,:check_out,:guests_count,:total_price,:status,:created_at,:updated_at)`, b)
	if err != nil {
		return fmt.Errorf("insert booking: %w", classify(err))
	}
	return nil
}

func (r *BookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE bookings SET listing_id=:listing_id, check_in=:check_in, check_out=:check_out,
		       guests_count=:guests_count, total_price=:total_price, status=:status, updated_at=:updated_at
		WHERE id=:id`, b)
	if err != nil {
		return fmt.Errorf("update booking: %w", classify(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Transition moves the booking to `to` only while its status is one of from.
// It reports false, without error, when the guard did not match.
func (r *BookingRepo) Transition(ctx context.Context, id string, to domain.BookingStatus, from ...domain.BookingStatus) (bool, error) {
	guard := make([]string, len(from))
	for i, st := range from {
		guard[i] = string(st)
	}
	q, args, err := sqlx.In(`
		UPDATE bookings SET status = ?, updated_at = ?
		WHERE id = ? AND status IN (?)`, string(to), time.Now().UTC(), id, guard)
	if err != nil {
		return false, err
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(q), args...)
	if err != nil {
		return false, fmt.Errorf("transition booking: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *BookingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
