package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"travelhub/internal/domain"
)

type ReviewRepo struct{ db *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

type ReviewFilter struct {
	Rating     int
	ListingID  string
	ReviewerID string
	Ordering   string
	Page       Page
}

const reviewSelect = `
	SELECT rv.id, rv.listing_id, l.title AS listing_title, rv.reviewer_id, rv.rating, rv.comment,
	       rv.created_at, rv.updated_at,
	       u.id AS "reviewer.id", u.username AS "reviewer.username", u.first_name AS "reviewer.first_name",
	       u.last_name AS "reviewer.last_name", u.email AS "reviewer.email"
	FROM reviews rv
	JOIN listings l ON l.id = rv.listing_id
	JOIN users u ON u.id = rv.reviewer_id`

var reviewOrder = map[string]string{
	"created_at": "rv.created_at",
	"rating":     "rv.rating",
}

func (r *ReviewRepo) Get(ctx context.Context, id string) (*domain.Review, error) {
	var rv domain.Review
	if err := r.db.GetContext(ctx, &rv, reviewSelect+` WHERE rv.id = ?`, id); err != nil {
		if notFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return &rv, nil
}

func (r *ReviewRepo) List(ctx context.Context, f ReviewFilter) ([]domain.Review, int, error) {
	w := &where{}
	if f.Rating != 0 {
		w.add("rv.rating = ?", f.Rating)
	}
	if f.ListingID != "" {
		w.add("rv.listing_id = ?", f.ListingID)
	}
	if f.ReviewerID != "" {
		w.add("rv.reviewer_id = ?", f.ReviewerID)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM reviews rv`+w.String(), w.args...); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	limit, offset := f.Page.limitOffset()
	q := reviewSelect + w.String() +
		" ORDER BY " + orderBy(f.Ordering, reviewOrder, "rv.created_at DESC", "rv.rowid") +
		" LIMIT ? OFFSET ?"
	out := []domain.Review{}
	if err := r.db.SelectContext(ctx, &out, q, append(w.args, limit, offset)...); err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	return out, total, nil
}

// Create relies on UNIQUE(listing_id, reviewer_id): a second review by the same
// reviewer fails with ErrDuplicate and a missing listing with a missing reference.
func (r *ReviewRepo) Create(ctx context.Context, rv *domain.Review) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO reviews(id,listing_id,reviewer_id,rating,comment,created_at,updated_at)
		VALUES(:id,:listing_id,:reviewer_id,:rating,:comment,:created_at,:updated_at)`, rv)
	if err != nil {
		return fmt.Errorf("insert review: %w", classify(err))
	}
	return nil
}

func (r *ReviewRepo) Update(ctx context.Context, rv *domain.Review) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE reviews SET listing_id=:listing_id, rating=:rating, comment=:comment, updated_at=:updated_at
		WHERE id=:id`, rv)
	if err != nil {
		return fmt.Errorf("update review: %w", classify(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReviewRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
