package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/staylink/staylink-backend/internal/domain"
	mw "github.com/staylink/staylink-backend/internal/http/middleware"
	"github.com/staylink/staylink-backend/internal/service"
)

type Handlers struct {
	authService    service.AuthService
	checkinService service.CheckinService
	stayService    service.StayService
	profileService service.ProfileService
	limiter        mw.Limiter
	jwtSecret      string
}

func New(
	authService service.AuthService,
	checkinService service.CheckinService,
	stayService service.StayService,
	profileService service.ProfileService,
	limiter mw.Limiter,
	jwtSecret string,
) *Handlers {
	return &Handlers{
		authService:    authService,
		checkinService: checkinService,
		stayService:    stayService,
		profileService: profileService,
		limiter:        limiter,
		jwtSecret:      jwtSecret,
	}
}

// Routes mounts the v1 API surface.
func (h *Handlers) Routes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/hotel/register", h.RegisterHotel)
			r.Post("/business/register", h.RegisterBusiness)

			r.Group(func(r chi.Router) {
				r.Use(mw.RateLimit(h.limiter, "guest_register", 5, time.Minute))
				r.Post("/guest/register", h.RegisterGuest)
			})
			r.Group(func(r chi.Router) {
				r.Use(mw.RateLimit(h.limiter, "login", 10, time.Minute))
				r.Post("/login", h.Login)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireJWT(h.jwtSecret))

			r.Route("/checkin", func(r chi.Router) {
				r.Use(mw.RequireRole(domain.RoleHotel))
				r.Post("/issue", h.IssueCode)
				r.Post("/revoke", h.RevokeCode)
			})

			r.Route("/stays", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(mw.RequireRole(domain.RoleGuest))
					r.Post("/checkin", h.CheckIn)
					r.Post("/checkout", h.CheckOut)
					r.Get("/me", h.CurrentStay)
				})
				r.Group(func(r chi.Router) {
					r.Use(mw.RequireRole(domain.RoleHotel))
					r.Post("/checkout-guest", h.CheckOutGuest)
				})
			})

			r.Route("/hotel", func(r chi.Router) {
				r.Use(mw.RequireRole(domain.RoleHotel))
				r.Get("/me", h.HotelMe)
				r.Patch("/me", h.UpdateHotel)
			})
			r.Route("/business", func(r chi.Router) {
				r.Use(mw.RequireRole(domain.RoleBusiness))
				r.Get("/me", h.BusinessMe)
				r.Patch("/me", h.UpdateBusiness)
			})
			r.Route("/guest", func(r chi.Router) {
				r.Use(mw.RequireRole(domain.RoleGuest))
				r.Get("/me", h.GuestMe)
				r.Patch("/me", h.UpdateGuest)
			})

			r.Get("/hotels", h.ListHotels)
			r.Get("/hotels/{id}", h.GetHotel)
		})
	})
}

func currentUserID(r *http.Request) int64 {
	if claims := mw.ClaimsFrom(r); claims != nil {
		return claims.Sub
	}
	return 0
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	return limit, offset
}
