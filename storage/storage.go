package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"mobibot/pkg/models"
)

type IStorage interface {
	Trip() ITripStorage
	Match() IMatchStorage
	Favorite() IFavoriteStorage
	Profile() IProfileStorage
	Recurring() IRecurringStorage
	Notification() INotificationStorage
	Close()
	GetPool() *pgxpool.Pool
}

type ITripStorage interface {
	Create(ctx context.Context, input models.TripInput) (string, error)
	GetByID(ctx context.Context, id string) (*models.Trip, error)
	SetDropoff(ctx context.Context, tripID string, point models.Point, radiusMeters int) error
	Close(ctx context.Context, tripID string) error
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

// MatchQuery carries the tunable parameters of one match query.
type MatchQuery struct {
	TripID        string
	Limit         int
	PreferDropoff bool
	RadiusMeters  int
	WindowDays    int
}

// IMatchStorage is the match query engine boundary. Both methods return the
// canonical MatchResult rows, deduplicated per counterpart user and capped at
// Limit; a query-layer failure is reported as an error, which callers must
// keep distinct from an empty slice.
type IMatchStorage interface {
	MatchDriversForTrip(ctx context.Context, q MatchQuery) ([]models.MatchResult, error)
	MatchPassengersForTrip(ctx context.Context, q MatchQuery) ([]models.MatchResult, error)
}

type IFavoriteStorage interface {
	List(ctx context.Context, userID string) ([]*models.Favorite, error)
	GetByID(ctx context.Context, userID, favoriteID string) (*models.Favorite, error)
	// Save upserts: at most one favorite per (user, kind) for the named
	// kinds; kind "other" always inserts a new row.
	Save(ctx context.Context, userID string, kind models.FavoriteKind, label string, point models.Point) (*models.Favorite, error)
}

type IProfileStorage interface {
	GetOrCreate(ctx context.Context, whatsapp string) (*models.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	GetVehicleType(ctx context.Context, userID string) (*string, error)
	SetVehicleType(ctx context.Context, userID, vehicleType string) error
	GetVehiclePlate(ctx context.Context, userID string) (*string, error)
	SetVehiclePlate(ctx context.Context, userID, plate string) error
}

type IRecurringStorage interface {
	Create(ctx context.Context, trip *models.RecurringTrip) (string, error)
	ListByUser(ctx context.Context, userID string) ([]*models.RecurringTrip, error)
}

type INotificationStorage interface {
	CountRecent(ctx context.Context, recipientID string, since time.Time) (int, error)
	Record(ctx context.Context, tripID, recipientID string) error
}

// IStateStorage is the durable conversation state store: one active state per
// user, set overwrites, clear removes.
type IStateStorage interface {
	Get(ctx context.Context, userID string) (*models.ConversationState, error)
	Set(ctx context.Context, userID string, state models.ConversationState) error
	Clear(ctx context.Context, userID string) error
}

// ILocationCacheStorage keeps each user's last shared location with a TTL,
// plus their most recent nearby search intent.
type ILocationCacheStorage interface {
	GetLocation(ctx context.Context, userID string) (*models.CachedLocation, error)
	SaveLocation(ctx context.Context, userID string, point models.Point, at time.Time) error
	GetRecentIntent(ctx context.Context, userID string, mode models.NearbyMode) (*models.NearbyIntent, error)
	SaveRecentIntent(ctx context.Context, userID string, mode models.NearbyMode, intent models.NearbyIntent) error
}
