package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"travelhub/internal/domain"
	"travelhub/internal/repos"
	"travelhub/internal/validate"
)

type ReviewInput struct {
	Listing *string `json:"listing" validate:"omitnil,min=1"`
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

func (in ReviewInput) apply(r *domain.Review, full bool) error {
	verr := &domain.ValidationError{}
	verr.Merge(validate.Struct(in))
	if full {
		required(verr, map[string]bool{
			"listing": in.Listing == nil,
			"rating":  in.Rating == nil,
		})
	}
	if in.Listing != nil {
		r.ListingID = strings.TrimSpace(*in.Listing)
	}
	if in.Rating != nil {
		verr.Merge(domain.ValidateRating(*in.Rating))
		r.Rating = *in.Rating
	}
	if in.Comment != nil {
		r.Comment = *in.Comment
	}
	return verr.OrNil()
}

type ReviewService struct {
	Reviews *repos.ReviewRepo
}

func NewReviewService(reviews *repos.ReviewRepo) *ReviewService {
	return &ReviewService{Reviews: reviews}
}

var errAlreadyReviewed = domain.NewObjectError("You have already reviewed this listing.")

// Create stores a review by actor. The store's (listing, reviewer) unique key is
// the only duplicate check, so concurrent duplicates cannot both land.
func (s *ReviewService) Create(ctx context.Context, actor *domain.User, in ReviewInput) (*domain.Review, error) {
	t := now()
	r := &domain.Review{ID: uuid.NewString(), ReviewerID: actor.ID, CreatedAt: t, UpdatedAt: t}
	if err := in.apply(r, true); err != nil {
		return nil, err
	}
	if err := s.Reviews.Create(ctx, r); err != nil {
		return nil, storeError(err, r.ListingID)
	}
	return s.Reviews.Get(ctx, r.ID)
}

func (s *ReviewService) Get(ctx context.Context, id string) (*domain.Review, error) {
	return s.Reviews.Get(ctx, id)
}

func (s *ReviewService) List(ctx context.Context, f repos.ReviewFilter) (Page[domain.Review], error) {
	items, total, err := s.Reviews.List(ctx, f)
	if err != nil {
		return Page[domain.Review]{}, err
	}
	return newPage(items, total, f.Page), nil
}

func (s *ReviewService) Mine(ctx context.Context, actor *domain.User, f repos.ReviewFilter) (Page[domain.Review], error) {
	f.ReviewerID = actor.ID
	return s.List(ctx, f)
}

func (s *ReviewService) Update(ctx context.Context, actor *domain.User, id string, in ReviewInput, partial bool) (*domain.Review, error) {
	r, err := s.authored(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(r, !partial); err != nil {
		return nil, err
	}
	r.UpdatedAt = now()
	if err := s.Reviews.Update(ctx, r); err != nil {
		return nil, storeError(err, r.ListingID)
	}
	return s.Reviews.Get(ctx, id)
}

func (s *ReviewService) Delete(ctx context.Context, actor *domain.User, id string) (*domain.Review, error) {
	r, err := s.authored(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return r, s.Reviews.Delete(ctx, id)
}

func (s *ReviewService) authored(ctx context.Context, actor *domain.User, id string) (*domain.Review, error) {
	r, err := s.Reviews.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == nil || r.ReviewerID != actor.ID {
		return nil, errNotPermitted
	}
	return r, nil
}

// storeError turns constraint failures on a review write into validation errors.
func storeError(err error, listingID string) error {
	switch {
	case errors.Is(err, repos.ErrDuplicate):
		return errAlreadyReviewed
	case repos.IsMissingRef(err):
		return invalidListing(listingID)
	}
	return err
}

func invalidListing(id string) error {
	return domain.NewFieldError("listing", fmt.Sprintf("Invalid pk %q - object does not exist.", id))
}
