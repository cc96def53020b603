package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"travelhub/internal/domain"
)

type ListingRepo struct{ db *sqlx.DB }

func NewListingRepo(db *sqlx.DB) *ListingRepo { return &ListingRepo{db: db} }

type ListingFilter struct {
	Type      string
	Available *bool
	Location  string
	Search    string
	OwnerID   string
	Ordering  string
	Page      Page
}

const listingSelect = `
	SELECT l.id, l.title, l.description, l.listing_type, l.price_per_night, l.location,
	       l.latitude, l.longitude, l.amenities, l.max_guests, l.is_available, l.owner_id,
	       l.created_at, l.updated_at,
	       u.id AS "owner.id", u.username AS "owner.username", u.first_name AS "owner.first_name",
	       u.last_name AS "owner.last_name", u.email AS "owner.email",
	       COALESCE((SELECT AVG(r.rating) FROM reviews r WHERE r.listing_id = l.id), 0) AS average_rating
	FROM listings l
	JOIN users u ON u.id = l.owner_id`

var listingOrder = map[string]string{
	"created_at":      "l.created_at",
	"price_per_night": "l.price_per_night",
	"title":           "l.title",
}

func (r *ListingRepo) Get(ctx context.Context, id string) (*domain.Listing, error) {
	var l domain.Listing
	if err := r.db.GetContext(ctx, &l, listingSelect+` WHERE l.id = ?`, id); err != nil {
		if notFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get listing: %w", err)
	}
	return &l, nil
}

// List returns one page of matching listings and the total match count.
func (r *ListingRepo) List(ctx context.Context, f ListingFilter) ([]domain.Listing, int, error) {
	w := &where{}
	if f.Type != "" {
		w.add("l.listing_type = ?", f.Type)
	}
	if f.Available != nil {
		w.add("l.is_available = ?", *f.Available)
	}
	if f.Location != "" {
		w.add("l.location = ?", f.Location)
	}
	if f.OwnerID != "" {
		w.add("l.owner_id = ?", f.OwnerID)
	}
	if f.Search != "" {
		like := "%" + likeEscaper.Replace(f.Search) + "%"
		w.add(`(l.title LIKE ? ESCAPE '\' OR l.description LIKE ? ESCAPE '\' OR l.location LIKE ? ESCAPE '\')`, like, like, like)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM listings l`+w.String(), w.args...); err != nil {
		return nil, 0, fmt.Errorf("count listings: %w", err)
	}

	limit, offset := f.Page.limitOffset()
	q := listingSelect + w.String() +
		" ORDER BY " + orderBy(f.Ordering, listingOrder, "l.created_at DESC", "l.rowid") +
		" LIMIT ? OFFSET ?"
	out := []domain.Listing{}
	if err := r.db.SelectContext(ctx, &out, q, append(w.args, limit, offset)...); err != nil {
		return nil, 0, fmt.Errorf("list listings: %w", err)
	}
	return out, total, nil
}

func (r *ListingRepo) Create(ctx context.Context, l *domain.Listing) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO listings(id,title,description,listing_type,price_per_night,location,latitude,longitude,
		                     amenities,max_guests,is_available,owner_id,created_at,updated_at)
		VALUES(:id,:title,:description,:listing_type,:price_per_night,:location,:latitude,:longitude,
		       :amenities,:max_guests,:is_available,:owner_id,:created_at,:updated_at)`, l)
	if err != nil {
		return fmt.Errorf("insert listing: %w", classify(err))
	}
	return nil
}

func (r *ListingRepo) Update(ctx context.Context, l *domain.Listing) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE listings SET title=:title, description=:description, listing_type=:listing_type,
		       price_per_night=:price_per_night, location=:location, latitude=:latitude, longitude=:longitude,
		       amenities=:amenities, max_guests=:max_guests, is_available=:is_available, updated_at=:updated_at
		WHERE id=:id`, l)
	if err != nil {
		return fmt.Errorf("update listing: %w", classify(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the listing; reviews and bookings go with it through ON DELETE CASCADE.
func (r *ListingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
