package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"travelhub/internal/domain"
	"travelhub/internal/repos"
	"travelhub/internal/validate"
)

// ListingInput carries client-writable listing fields. A nil field was not sent.
type ListingInput struct {
	Title         *string          `json:"title" validate:"omitnil,min=1,max=200"`
	Description   *string          `json:"description" validate:"omitnil,min=1"`
	ListingType   *string          `json:"listing_type"`
	PricePerNight *domain.Money    `json:"price_per_night"`
	Location      *string          `json:"location" validate:"omitnil,min=1,max=200"`
	Latitude      *decimal.Decimal `json:"latitude"`
	Longitude     *decimal.Decimal `json:"longitude"`
	Amenities     *[]string        `json:"amenities" validate:"omitnil,dive,min=1,max=100"`
	MaxGuests     *int             `json:"max_guests"`
	IsAvailable   *bool            `json:"is_available"`
}

var (
	ninety    = decimal.NewFromInt(90)
	oneEighty = decimal.NewFromInt(180)
)

// apply copies supplied fields onto l. With full set, every required field must be present.
func (in ListingInput) apply(l *domain.Listing, full bool) error {
	verr := &domain.ValidationError{}
	verr.Merge(validate.Struct(in))
	if full {
		required(verr, map[string]bool{
			"title":           in.Title == nil,
			"description":     in.Description == nil,
			"price_per_night": in.PricePerNight == nil,
			"location":        in.Location == nil,
		})
	}
	if in.Title != nil {
		l.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		l.Description = *in.Description
	}
	if in.ListingType != nil {
		c, err := domain.ParseCategory("listing_type", *in.ListingType)
		verr.Merge(err)
		l.Type = c
	}
	if in.PricePerNight != nil {
		l.PricePerNight = *in.PricePerNight
	}
	if in.Location != nil {
		l.Location = strings.TrimSpace(*in.Location)
	}
	if in.Latitude != nil {
		if in.Latitude.Abs().GreaterThan(ninety) {
			verr.Add("latitude", "Ensure this value is between -90 and 90.")
		}
		l.Latitude = decimal.NewNullDecimal(*in.Latitude)
	}
	if in.Longitude != nil {
		if in.Longitude.Abs().GreaterThan(oneEighty) {
			verr.Add("longitude", "Ensure this value is between -180 and 180.")
		}
		l.Longitude = decimal.NewNullDecimal(*in.Longitude)
	}
	if in.Amenities != nil {
		l.Amenities = append(domain.Amenities{}, (*in.Amenities)...)
	}
	if in.MaxGuests != nil {
		l.MaxGuests = *in.MaxGuests
	}
	if in.IsAvailable != nil {
		l.IsAvailable = *in.IsAvailable
	}
	if err := verr.OrNil(); err != nil {
		return err
	}
	return l.Validate()
}

type ListingService struct {
	Listings   *repos.ListingRepo
	ReviewRepo *repos.ReviewRepo
}

func NewListingService(listings *repos.ListingRepo, reviews *repos.ReviewRepo) *ListingService {
	return &ListingService{Listings: listings, ReviewRepo: reviews}
}

// Create stores a listing owned by actor; an owner in the payload is never read.
func (s *ListingService) Create(ctx context.Context, actor *domain.User, in ListingInput) (*domain.Listing, error) {
	t := now()
	l := &domain.Listing{
		ID:          uuid.NewString(),
		Type:        domain.CategoryHotel,
		Amenities:   domain.Amenities{},
		MaxGuests:   1,
		IsAvailable: true,
		OwnerID:     actor.ID,
		CreatedAt:   t,
		UpdatedAt:   t,
	}
	if err := in.apply(l, true); err != nil {
		return nil, err
	}
	if err := s.Listings.Create(ctx, l); err != nil {
		return nil, err
	}
	return s.Listings.Get(ctx, l.ID)
}

func (s *ListingService) Get(ctx context.Context, id string) (*domain.Listing, error) {
	return s.Listings.Get(ctx, id)
}

func (s *ListingService) List(ctx context.Context, f repos.ListingFilter) (Page[domain.Listing], error) {
	items, total, err := s.Listings.List(ctx, f)
	if err != nil {
		return Page[domain.Listing]{}, err
	}
	return newPage(items, total, f.Page), nil
}

// Mine lists the actor's own listings; other owner filters are overridden.
func (s *ListingService) Mine(ctx context.Context, actor *domain.User, f repos.ListingFilter) (Page[domain.Listing], error) {
	f.OwnerID = actor.ID
	return s.List(ctx, f)
}

func (s *ListingService) Update(ctx context.Context, actor *domain.User, id string, in ListingInput, partial bool) (*domain.Listing, error) {
	l, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(l, !partial); err != nil {
		return nil, err
	}
	l.UpdatedAt = now()
	if err := s.Listings.Update(ctx, l); err != nil {
		return nil, err
	}
	return s.Listings.Get(ctx, id)
}

func (s *ListingService) Delete(ctx context.Context, actor *domain.User, id string) (*domain.Listing, error) {
	l, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return l, s.Listings.Delete(ctx, id)
}

// Reviews lists the reviews of one listing; a missing listing is NotFound.
func (s *ListingService) Reviews(ctx context.Context, id string, f repos.ReviewFilter) (Page[domain.Review], error) {
	if _, err := s.Listings.Get(ctx, id); err != nil {
		return Page[domain.Review]{}, err
	}
	f.ListingID = id
	items, total, err := s.ReviewRepo.List(ctx, f)
	if err != nil {
		return Page[domain.Review]{}, err
	}
	return newPage(items, total, f.Page), nil
}

func (s *ListingService) owned(ctx context.Context, actor *domain.User, id string) (*domain.Listing, error) {
	l, err := s.Listings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == nil || l.OwnerID != actor.ID {
		return nil, errNotPermitted
	}
	return l, nil
}
