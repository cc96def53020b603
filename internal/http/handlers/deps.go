package handlers

import (
	"time"

	"github.com/jmoiron/sqlx"

	"travelhub/internal/auth"
	"travelhub/internal/config"
	"travelhub/internal/notify"
	"travelhub/internal/repos"
	"travelhub/internal/services"
)

type Deps struct {
	Auth           *services.AuthService
	AuthHandler    *AuthHandler
	ListingHandler *ListingHandler
	ReviewHandler  *ReviewHandler
	BookingHandler *BookingHandler
	HealthHandler  *HealthHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, events notify.Sink) *Deps {
	userRepo := repos.NewUserRepo(db)
	listingRepo := repos.NewListingRepo(db)
	reviewRepo := repos.NewReviewRepo(db)
	bookingRepo := repos.NewBookingRepo(db)

	authSvc := &services.AuthService{
		Users:  userRepo,
		Tokens: auth.NewIssuer(cfg.JWTSecret, time.Duration(cfg.JWTExpireMin)*time.Minute),
		Events: events,
	}
	listingSvc := services.NewListingService(listingRepo, reviewRepo)
	reviewSvc := services.NewReviewService(reviewRepo)
	bookingSvc := services.NewBookingService(bookingRepo, listingRepo, events)

	return &Deps{
		Auth:           authSvc,
		AuthHandler:    &AuthHandler{Auth: authSvc},
		ListingHandler: &ListingHandler{Listings: listingSvc},
		ReviewHandler:  &ReviewHandler{Reviews: reviewSvc},
		BookingHandler: &BookingHandler{Bookings: bookingSvc},
		HealthHandler:  &HealthHandler{DB: db},
	}
}
