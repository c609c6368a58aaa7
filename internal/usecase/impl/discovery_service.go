// Package impl contains the application-specific business rules implementations.
package impl

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"restaurandes/config"
	"restaurandes/internal/domain/entity"
	domainerrors "restaurandes/internal/domain/errors"
	"restaurandes/internal/domain/geo"
	"restaurandes/internal/domain/hours"
	"restaurandes/internal/domain/repository"
	"restaurandes/internal/domain/service"
	"restaurandes/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// discoveryService implements the DiscoveryUsecase interface.
type discoveryService struct {
	store            repository.RestaurantStore
	locationProvider service.LocationProvider
	logger           *slog.Logger

	defaultRadiusKm float64
	maxRadiusKm     float64
	openPolicy      entity.OpenPolicy
	location        *time.Location
	now             func() time.Time
}

// DiscoveryServiceParams holds dependencies for the discovery service, injected by Fx.
type DiscoveryServiceParams struct {
	fx.In

	Store            repository.RestaurantStore
	LocationProvider service.LocationProvider
	Config           *config.Config
	Logger           *slog.Logger
}

// NewDiscoveryService is the constructor for discoveryService.
func NewDiscoveryService(params DiscoveryServiceParams) (usecase.DiscoveryUsecase, error) {
	cfg := params.Config.Discovery

	location, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, errors.Wrapf(err, "load time zone %q", cfg.TimeZone)
	}

	return &discoveryService{
		store:            params.Store,
		locationProvider: params.LocationProvider,
		logger:           params.Logger,
		defaultRadiusKm:  cfg.DefaultRadiusKm,
		maxRadiusKm:      cfg.MaxRadiusKm,
		openPolicy:       entity.ParseOpenPolicy(cfg.OpenPolicy, entity.OpenPolicyHours),
		location:         location,
		now:              time.Now,
	}, nil
}

// GetAll returns every restaurant in snapshot order.
func (srv *discoveryService) GetAll() []entity.Restaurant {
	return srv.store.GetAll()
}

// GetByID returns one restaurant or ErrRestaurantNotFound.
func (srv *discoveryService) GetByID(id string) (*entity.Restaurant, error) {
	restaurant, err := srv.store.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, errors.WithStack(domainerrors.ErrRestaurantNotFound.WithDetails(id))
		}

		return nil, errors.Wrap(err, "failed to get restaurant")
	}

	return restaurant, nil
}

// Search matches the query, case-folded, as a substring of the name,
// description, category or any tag. A blank query matches nothing.
func (srv *discoveryService) Search(query string) []entity.Restaurant {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return []entity.Restaurant{}
	}

	// Casers keep internal state, so each call gets its own.
	caser := cases.Fold()
	needle := caser.String(trimmed)

	contains := func(field string) bool {
		return field != "" && strings.Contains(caser.String(field), needle)
	}

	return filter(srv.store.GetAll(), func(r *entity.Restaurant) bool {
		return contains(r.Name) ||
			contains(r.Description) ||
			contains(r.Category) ||
			slices.ContainsFunc(r.Tags, contains)
	})
}

// FilterByCategory returns restaurants whose category equals category, ignoring case.
func (srv *discoveryService) FilterByCategory(category string) []entity.Restaurant {
	want := strings.TrimSpace(category)

	return filter(srv.store.GetAll(), func(r *entity.Restaurant) bool {
		return strings.EqualFold(strings.TrimSpace(r.Category), want)
	})
}

// Nearby returns restaurants within radiusKm (inclusive) of the origin,
// nearest first. Ties keep snapshot order.
func (srv *discoveryService) Nearby(lat, lon, radiusKm float64) ([]entity.RestaurantDistance, error) {
	if err := srv.validateNearby(lat, lon, radiusKm); err != nil {
		return nil, err
	}

	all := srv.store.GetAll()
	results := make([]entity.RestaurantDistance, 0, len(all))
	for i := range all {
		distance := geo.DistanceKm(lat, lon, all[i].Latitude, all[i].Longitude)
		if distance <= radiusKm {
			results = append(results, entity.RestaurantDistance{Restaurant: all[i], DistanceKm: distance})
		}
	}

	slices.SortStableFunc(results, func(a, b entity.RestaurantDistance) int {
		return cmp.Compare(a.DistanceKm, b.DistanceKm)
	})

	return results, nil
}

// NearbyFromCurrentLocation resolves the caller's position and runs Nearby from it.
func (srv *discoveryService) NearbyFromCurrentLocation(ctx context.Context, radiusKm float64) (*usecase.NearbyResult, error) {
	location, err := srv.locationProvider.CurrentLocation(ctx)
	if err != nil {
		var appErr domainerrors.AppError
		if errors.As(err, &appErr) {
			return nil, errors.Wrap(err, "failed to resolve current location")
		}

		return nil, errors.WithStack(domainerrors.ErrLocationUnavailable.WithDetails(err.Error()))
	}

	restaurants, err := srv.Nearby(location.Latitude, location.Longitude, radiusKm)
	if err != nil {
		return nil, err
	}

	srv.logger.Debug("Nearby from current location",
		slog.Float64("lat", location.Latitude),
		slog.Float64("lon", location.Longitude),
		slog.Float64("radius_km", radiusKm),
		slog.Int("count", len(restaurants)),
	)

	return &usecase.NearbyResult{
		Origin:      *location,
		RadiusKm:    radiusKm,
		Restaurants: restaurants,
	}, nil
}

// FilterOpenNow returns restaurants open at the current wall-clock time.
func (srv *discoveryService) FilterOpenNow(policy entity.OpenPolicy) []entity.Restaurant {
	now := srv.now().In(srv.location)
	policy = srv.resolvePolicy(policy)

	return filter(srv.store.GetAll(), func(r *entity.Restaurant) bool {
		return isOpenAt(r, policy, now)
	})
}

// IsOpenNow evaluates a single restaurant with the given policy.
func (srv *discoveryService) IsOpenNow(restaurant *entity.Restaurant, policy entity.OpenPolicy) bool {
	if restaurant == nil {
		return false
	}

	return isOpenAt(restaurant, srv.resolvePolicy(policy), srv.now().In(srv.location))
}

// SortByRating orders by rating, highest first.
func (srv *discoveryService) SortByRating() []entity.Restaurant {
	return sortByRating(srv.store.GetAll())
}

// SortByPrice orders by price tier, cheapest first; unknown tiers go last.
func (srv *discoveryService) SortByPrice() []entity.Restaurant {
	return sortByPrice(srv.store.GetAll())
}

// Categories returns the distinct non-empty categories in Spanish collation order.
// Categories differing only in case are reported once, with the first spelling seen.
func (srv *discoveryService) Categories() []string {
	caser := cases.Fold()
	seen := make(map[string]struct{})
	categories := make([]string, 0)

	for _, r := range srv.store.GetAll() {
		category := strings.TrimSpace(r.Category)
		if category == "" {
			continue
		}
		key := caser.String(category)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		categories = append(categories, category)
	}

	collate.New(language.Spanish).SortStrings(categories)

	return categories
}

// List applies the combined home filters.
func (srv *discoveryService) List(query *usecase.ListQuery) ([]entity.Restaurant, error) {
	if query == nil {
		query = &usecase.ListQuery{}
	}

	var restaurants []entity.Restaurant
	if strings.TrimSpace(query.Category) != "" {
		restaurants = srv.FilterByCategory(query.Category)
	} else {
		restaurants = srv.store.GetAll()
	}

	if query.OpenNow {
		if query.Policy != "" && !query.Policy.IsValid() {
			return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails(
				fmt.Sprintf("unknown open policy %q", query.Policy)))
		}
		now := srv.now().In(srv.location)
		policy := srv.resolvePolicy(query.Policy)
		restaurants = filter(restaurants, func(r *entity.Restaurant) bool {
			return isOpenAt(r, policy, now)
		})
	}

	switch query.Sort {
	case usecase.SortNone:
	case usecase.SortRating:
		restaurants = sortByRating(restaurants)
	case usecase.SortPrice:
		restaurants = sortByPrice(restaurants)
	default:
		return nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails(
			fmt.Sprintf("unknown sort order %q", query.Sort)))
	}

	return restaurants, nil
}

// DefaultRadiusKm is the radius used when a nearby query names none.
func (srv *discoveryService) DefaultRadiusKm() float64 {
	return srv.defaultRadiusKm
}

// DefaultOpenPolicy is the policy used when a query names none.
func (srv *discoveryService) DefaultOpenPolicy() entity.OpenPolicy {
	return srv.openPolicy
}

func (srv *discoveryService) resolvePolicy(policy entity.OpenPolicy) entity.OpenPolicy {
	if policy.IsValid() {
		return policy
	}

	return srv.openPolicy
}

func (srv *discoveryService) validateNearby(lat, lon, radiusKm float64) error {
	if !entity.ValidCoordinate(lat, lon) {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails(
			fmt.Sprintf("invalid coordinate (%v, %v)", lat, lon)))
	}

	if math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) || radiusKm < 0 {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails(
			fmt.Sprintf("radius must be a non-negative number of kilometers, got %v", radiusKm)))
	}

	if srv.maxRadiusKm > 0 && radiusKm > srv.maxRadiusKm {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails(
			fmt.Sprintf("radius %v km exceeds the maximum of %v km", radiusKm, srv.maxRadiusKm)))
	}

	return nil
}

func isOpenAt(r *entity.Restaurant, policy entity.OpenPolicy, at time.Time) bool {
	if policy == entity.OpenPolicyFlag {
		return r.IsOpen
	}

	return hours.IsOpen(r.OpeningHours, at, r.IsOpen)
}

func filter(restaurants []entity.Restaurant, keep func(r *entity.Restaurant) bool) []entity.Restaurant {
	out := make([]entity.Restaurant, 0, len(restaurants))
	for i := range restaurants {
		if keep(&restaurants[i]) {
			out = append(out, restaurants[i])
		}
	}

	return out
}

func sortByRating(restaurants []entity.Restaurant) []entity.Restaurant {
	slices.SortStableFunc(restaurants, func(a, b entity.Restaurant) int {
		return cmp.Compare(b.Rating, a.Rating)
	})

	return restaurants
}

func sortByPrice(restaurants []entity.Restaurant) []entity.Restaurant {
	slices.SortStableFunc(restaurants, func(a, b entity.Restaurant) int {
		return cmp.Compare(a.PriceRange.Rank(), b.PriceRange.Rank())
	})

	return restaurants
}
