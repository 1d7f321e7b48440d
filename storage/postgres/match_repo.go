package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mobibot/pkg/logger"
	"mobibot/pkg/models"
	"mobibot/storage"
)

type matchRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewMatchRepo(db *pgxpool.Pool, log logger.ILogger) storage.IMatchStorage {
	return &matchRepo{db: db, log: log}
}

func (r *matchRepo) MatchDriversForTrip(ctx context.Context, q storage.MatchQuery) ([]models.MatchResult, error) {
	return r.match(ctx, q, models.RoleDriver)
}

func (r *matchRepo) MatchPassengersForTrip(ctx context.Context, q storage.MatchQuery) ([]models.MatchResult, error) {
	return r.match(ctx, q, models.RolePassenger)
}

// match pairs the anchor trip against open counterpart trips of the given
// role: same vehicle type, pickup within the search radius, created inside
// the recency window. One row per counterpart user, keeping the nearest
// pickup. With PreferDropoff set the dropoff proximity widens the candidate
// set; it never narrows it below the pickup-only result.
func (r *matchRepo) match(ctx context.Context, q storage.MatchQuery, counterRole models.TripRole) ([]models.MatchResult, error) {
	query := `
		WITH anchor AS (
			SELECT id, creator_user_id, vehicle_type, pickup_lat, pickup_lng,
			       dropoff_lat, dropoff_lng
			FROM trips
			WHERE id = $1
		)
		SELECT DISTINCT ON (t.creator_user_id)
			t.id,
			t.creator_user_id,
			p.whatsapp,
			p.ref_code,
			2 * 6371 * asin(sqrt(
				power(sin(radians(t.pickup_lat - a.pickup_lat) / 2), 2) +
				cos(radians(a.pickup_lat)) * cos(radians(t.pickup_lat)) *
				power(sin(radians(t.pickup_lng - a.pickup_lng) / 2), 2)
			)) AS distance_km,
			t.pickup_text,
			t.dropoff_text,
			t.created_at
		FROM trips t
		JOIN anchor a ON TRUE
		JOIN profiles p ON p.user_id = t.creator_user_id
		WHERE t.role = $2
		  AND t.creator_user_id <> a.creator_user_id
		  AND t.vehicle_type = a.vehicle_type
		  AND t.status IN ('open', 'scheduled')
		  AND t.expires_at > now()
		  AND t.created_at > now() - make_interval(days => $3)
		  AND (
			2 * 6371000 * asin(sqrt(
				power(sin(radians(t.pickup_lat - a.pickup_lat) / 2), 2) +
				cos(radians(a.pickup_lat)) * cos(radians(t.pickup_lat)) *
				power(sin(radians(t.pickup_lng - a.pickup_lng) / 2), 2)
			)) <= $4
			OR (
				$5::bool
				AND a.dropoff_lat IS NOT NULL
				AND t.dropoff_lat IS NOT NULL
				AND 2 * 6371000 * asin(sqrt(
					power(sin(radians(t.dropoff_lat - a.dropoff_lat) / 2), 2) +
					cos(radians(a.dropoff_lat)) * cos(radians(t.dropoff_lat)) *
					power(sin(radians(t.dropoff_lng - a.dropoff_lng) / 2), 2)
				)) <= $4
			)
		  )
		ORDER BY t.creator_user_id, distance_km ASC
	`

	rows, err := r.db.Query(ctx, query, q.TripID, counterRole, q.WindowDays, q.RadiusMeters, q.PreferDropoff)
	if err != nil {
		r.log.Error("match query failed",
			logger.String("trip_id", q.TripID),
			logger.String("counter_role", string(counterRole)),
			logger.Error(err))
		return nil, fmt.Errorf("match query failed: %w", err)
	}
	defer rows.Close()

	results, err := scanMatches(rows)
	if err != nil {
		r.log.Error("match scan failed", logger.String("trip_id", q.TripID), logger.Error(err))
		return nil, fmt.Errorf("match scan failed: %w", err)
	}

	// DISTINCT ON forbids a cross-user ORDER BY, so the per-user winners are
	// ranked here before capping.
	sortByDistance(results)
	if q.Limit > 0 && len(results) > q.Limit {
		results = results[:q.Limit]
	}
	return results, nil
}

func scanMatches(rows pgx.Rows) ([]models.MatchResult, error) {
	var results []models.MatchResult
	for rows.Next() {
		var m models.MatchResult
		var dist float64
		if err := rows.Scan(
			&m.TripID,
			&m.CounterpartUserID,
			&m.ContactHandle,
			&m.ReferenceCode,
			&dist,
			&m.PickupText,
			&m.DropoffText,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		d := dist
		m.DistanceKm = &d
		results = append(results, m)
	}
	return results, rows.Err()
}

func sortByDistance(results []models.MatchResult) {
	sort.Slice(results, func(i, j int) bool {
		av, bv := distOrInf(results[i]), distOrInf(results[j])
		if av != bv {
			return av < bv
		}
		return results[i].TripID < results[j].TripID
	})
}

func distOrInf(m models.MatchResult) float64 {
	if m.DistanceKm == nil {
		return 1e18
	}
	return *m.DistanceKm
}
