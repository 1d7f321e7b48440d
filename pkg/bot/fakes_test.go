package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"mobibot/pkg/models"
	"mobibot/pkg/wa"
	"mobibot/storage"
)

// sentMessage records one outbound message for assertions.
type sentMessage struct {
	To      string
	Body    string
	Buttons []wa.Button
	List    *wa.List
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (f *fakeSender) SendText(_ context.Context, to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{To: to, Body: body})
	return nil
}

func (f *fakeSender) SendButtons(_ context.Context, to, body string, buttons []wa.Button) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{To: to, Body: body, Buttons: buttons})
	return nil
}

func (f *fakeSender) SendList(_ context.Context, to string, list wa.List) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l := list
	f.sent = append(f.sent, sentMessage{To: to, Body: list.Body, List: &l})
	return nil
}

// last returns the newest message addressed to the test user, skipping the
// asynchronous fan-out alerts sent to counterparts.
func (f *fakeSender) last() sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.sent) - 1; i >= 0; i-- {
		if f.sent[i].To == testUser {
			return f.sent[i]
		}
	}
	return sentMessage{}
}

type fakeTripStore struct {
	mu      sync.Mutex
	seq     int
	trips   map[string]*models.Trip
	created []models.TripInput
}

func newFakeTripStore() *fakeTripStore {
	return &fakeTripStore{trips: map[string]*models.Trip{}}
}

func (f *fakeTripStore) Create(_ context.Context, input models.TripInput) (string, error) {
	if err := input.Pickup.Validate(); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	id := fmt.Sprintf("trip-%d", f.seq)
	status := models.TripOpen
	if input.ScheduledAt != nil {
		status = models.TripScheduled
	}
	f.trips[id] = &models.Trip{
		ID:                 id,
		CreatorUserID:      input.CreatorUserID,
		Role:               input.Role,
		VehicleType:        input.VehicleType,
		Pickup:             input.Pickup,
		PickupRadiusMeters: input.RadiusMeters,
		Status:             status,
		ScheduledAt:        input.ScheduledAt,
		Recurrence:         input.Recurrence,
		CreatedAt:          time.Now(),
		ExpiresAt:          time.Now().Add(time.Hour),
	}
	f.created = append(f.created, input)
	return id, nil
}

func (f *fakeTripStore) GetByID(_ context.Context, id string) (*models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.trips[id]
	if !ok {
		return nil, errors.New("trip not found")
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTripStore) SetDropoff(_ context.Context, tripID string, point models.Point, radiusMeters int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.trips[tripID]
	if !ok {
		return errors.New("trip not found")
	}
	t.Dropoff = &point
	t.DropoffRadiusMeters = &radiusMeters
	return nil
}

func (f *fakeTripStore) Close(_ context.Context, tripID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.trips[tripID]; ok {
		t.Status = models.TripClosed
	}
	return nil
}

func (f *fakeTripStore) ExpireStale(_ context.Context, _ time.Time) (int64, error) { return 0, nil }

func (f *fakeTripStore) createdCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

type fakeMatchStore struct {
	mu      sync.Mutex
	results []models.MatchResult
	err     error
	calls   int
}

func (f *fakeMatchStore) MatchDriversForTrip(_ context.Context, _ storage.MatchQuery) ([]models.MatchResult, error) {
	return f.run()
}

func (f *fakeMatchStore) MatchPassengersForTrip(_ context.Context, _ storage.MatchQuery) ([]models.MatchResult, error) {
	return f.run()
}

func (f *fakeMatchStore) run() ([]models.MatchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.MatchResult, len(f.results))
	copy(out, f.results)
	return out, nil
}

type fakeFavoriteStore struct {
	mu        sync.Mutex
	seq       int
	favorites map[string]*models.Favorite
}

func newFakeFavoriteStore() *fakeFavoriteStore {
	return &fakeFavoriteStore{favorites: map[string]*models.Favorite{}}
}

func (f *fakeFavoriteStore) List(_ context.Context, userID string) ([]*models.Favorite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Favorite
	for _, fav := range f.favorites {
		if fav.UserID == userID {
			out = append(out, fav)
		}
	}
	return out, nil
}

func (f *fakeFavoriteStore) GetByID(_ context.Context, userID, favoriteID string) (*models.Favorite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fav, ok := f.favorites[favoriteID]
	if !ok || fav.UserID != userID {
		return nil, errors.New("favorite not found")
	}
	return fav, nil
}

func (f *fakeFavoriteStore) Save(_ context.Context, userID string, kind models.FavoriteKind, label string, point models.Point) (*models.Favorite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	fav := &models.Favorite{
		ID:        fmt.Sprintf("fav-%d", f.seq),
		UserID:    userID,
		Kind:      kind,
		Label:     label,
		Location:  point,
		CreatedAt: time.Now(),
	}
	f.favorites[fav.ID] = fav
	return fav, nil
}

type fakeProfileStore struct {
	mu       sync.Mutex
	profiles map[string]*models.Profile
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: map[string]*models.Profile{}}
}

func (f *fakeProfileStore) GetOrCreate(_ context.Context, whatsapp string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.profiles[whatsapp]; ok {
		cp := *p
		return &cp, nil
	}
	p := &models.Profile{
		UserID:   "user-" + whatsapp,
		WhatsApp: whatsapp,
		RefCode:  "RD-" + whatsapp[len(whatsapp)-4:],
	}
	f.profiles[whatsapp] = p
	cp := *p
	return &cp, nil
}

func (f *fakeProfileStore) GetByUserID(_ context.Context, userID string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.profiles {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, errors.New("profile not found")
}

func (f *fakeProfileStore) GetVehicleType(_ context.Context, userID string) (*string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.profiles {
		if p.UserID == userID {
			return p.VehicleType, nil
		}
	}
	return nil, nil
}

func (f *fakeProfileStore) SetVehicleType(_ context.Context, userID, vehicleType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.profiles {
		if p.UserID == userID {
			v := vehicleType
			p.VehicleType = &v
		}
	}
	return nil
}

func (f *fakeProfileStore) GetVehiclePlate(_ context.Context, userID string) (*string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.profiles {
		if p.UserID == userID {
			return p.VehiclePlate, nil
		}
	}
	return nil, nil
}

func (f *fakeProfileStore) SetVehiclePlate(_ context.Context, userID, plate string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.profiles {
		if p.UserID == userID {
			v := plate
			p.VehiclePlate = &v
		}
	}
	return nil
}

type fakeRecurringStore struct {
	mu    sync.Mutex
	seq   int
	trips []*models.RecurringTrip
	err   error
}

func (f *fakeRecurringStore) Create(_ context.Context, trip *models.RecurringTrip) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.seq++
	cp := *trip
	cp.ID = fmt.Sprintf("recur-%d", f.seq)
	f.trips = append(f.trips, &cp)
	return cp.ID, nil
}

func (f *fakeRecurringStore) ListByUser(_ context.Context, userID string) ([]*models.RecurringTrip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.RecurringTrip
	for _, t := range f.trips {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeNotificationStore struct {
	mu       sync.Mutex
	recorded []string
}

func (f *fakeNotificationStore) CountRecent(_ context.Context, recipientID string, _ time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.recorded {
		if r == recipientID {
			n++
		}
	}
	return n, nil
}

func (f *fakeNotificationStore) Record(_ context.Context, _, recipientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recorded = append(f.recorded, recipientID)
	return nil
}

func (f *fakeNotificationStore) recordedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.recorded)
}

type fakeStorage struct {
	trip         *fakeTripStore
	match        *fakeMatchStore
	favorite     *fakeFavoriteStore
	profile      *fakeProfileStore
	recurring    *fakeRecurringStore
	notification *fakeNotificationStore
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		trip:         newFakeTripStore(),
		match:        &fakeMatchStore{},
		favorite:     newFakeFavoriteStore(),
		profile:      newFakeProfileStore(),
		recurring:    &fakeRecurringStore{},
		notification: &fakeNotificationStore{},
	}
}

func (f *fakeStorage) Trip() storage.ITripStorage                 { return f.trip }
func (f *fakeStorage) Match() storage.IMatchStorage               { return f.match }
func (f *fakeStorage) Favorite() storage.IFavoriteStorage         { return f.favorite }
func (f *fakeStorage) Profile() storage.IProfileStorage           { return f.profile }
func (f *fakeStorage) Recurring() storage.IRecurringStorage       { return f.recurring }
func (f *fakeStorage) Notification() storage.INotificationStorage { return f.notification }
func (f *fakeStorage) Close()                                     {}
func (f *fakeStorage) GetPool() *pgxpool.Pool                     { return nil }

type fakeStateStore struct {
	mu     sync.Mutex
	states map[string]models.ConversationState
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{states: map[string]models.ConversationState{}}
}

func (f *fakeStateStore) Get(_ context.Context, userID string) (*models.ConversationState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.states[userID]
	if !ok {
		return nil, nil
	}
	cp := s
	return &cp, nil
}

func (f *fakeStateStore) Set(_ context.Context, userID string, state models.ConversationState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[userID] = state
	return nil
}

func (f *fakeStateStore) Clear(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.states, userID)
	return nil
}

type fakeCache struct {
	mu        sync.Mutex
	locations map[string]models.CachedLocation
	intents   map[string]models.NearbyIntent
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		locations: map[string]models.CachedLocation{},
		intents:   map[string]models.NearbyIntent{},
	}
}

func (f *fakeCache) GetLocation(_ context.Context, userID string) (*models.CachedLocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	loc, ok := f.locations[userID]
	if !ok {
		return nil, nil
	}
	return &loc, nil
}

func (f *fakeCache) SaveLocation(_ context.Context, userID string, point models.Point, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locations[userID] = models.CachedLocation{UserID: userID, Location: point, CachedAt: at}
	return nil
}

func (f *fakeCache) GetRecentIntent(_ context.Context, userID string, mode models.NearbyMode) (*models.NearbyIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	intent, ok := f.intents[string(mode)+":"+userID]
	if !ok {
		return nil, nil
	}
	return &intent, nil
}

func (f *fakeCache) SaveRecentIntent(_ context.Context, userID string, mode models.NearbyMode, intent models.NearbyIntent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.intents[string(mode)+":"+userID] = intent
	return nil
}
