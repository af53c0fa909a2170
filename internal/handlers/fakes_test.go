package handlers

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/auth"
	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/models"
	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/services"
	"github.com/gofiber/fiber/v2"
)

type fakeVehicles struct {
	mu      sync.Mutex
	rows    []models.Vehicle
	nextID  int64
	err     error
	created []services.CreateVehicleInput
	deleted []int64
}

func (f *fakeVehicles) ListOwn(_ context.Context, discordID string) ([]models.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Vehicle{}
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].DiscordID == discordID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeVehicles) ListAll(_ context.Context) ([]models.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Vehicle{}
	for i := len(f.rows) - 1; i >= 0; i-- {
		out = append(out, f.rows[i])
	}
	return out, nil
}

func (f *fakeVehicles) Create(_ context.Context, in services.CreateVehicleInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if strings.TrimSpace(in.DiscordID) == "" || strings.TrimSpace(in.Plate) == "" {
		return services.ErrValidation
	}
	f.nextID++
	f.created = append(f.created, in)
	f.rows = append(f.rows, models.Vehicle{
		ID:        f.nextID,
		DiscordID: strings.TrimSpace(in.DiscordID),
		Plate:     strings.TrimSpace(in.Plate),
		CreatedAt: time.Now(),
		CreatedBy: in.CreatedBy,
	})
	return nil
}

func (f *fakeVehicles) DeleteByID(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	kept := f.rows[:0]
	for _, v := range f.rows {
		if v.ID != id {
			kept = append(kept, v)
		}
	}
	f.rows = kept
	return nil
}

type fakeUsers struct {
	mu        sync.Mutex
	users     map[string]models.User
	upsertErr error
	searchErr error
	queries   []string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]models.User{}}
}

func (f *fakeUsers) Upsert(_ context.Context, id *auth.Identity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.users[id.ID] = models.User{DiscordID: id.ID, Username: id.Username, Discriminator: id.Discriminator, Avatar: id.Avatar}
	return nil
}

func (f *fakeUsers) Search(_ context.Context, query string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, services.ErrValidation
	}
	out := []models.User{}
	for _, u := range f.users {
		disc := ""
		if u.Discriminator != nil {
			disc = *u.Discriminator
		}
		if strings.Contains(strings.ToLower(u.Username+"#"+disc), q) || u.DiscordID == q {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeProvider struct {
	identity *auth.Identity
	err      error
	codes    []string
}

func (f *fakeProvider) AuthCodeURL(state string) string {
	return "https://discord.example/authorize?state=" + state
}

func (f *fakeProvider) Exchange(_ context.Context, code string) (*auth.Identity, error) {
	f.codes = append(f.codes, code)
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

type fakeSessions struct {
	logins   []*auth.Identity
	logouts  int
	loginErr error
}

func (f *fakeSessions) Login(_ *fiber.Ctx, id *auth.Identity) error {
	if f.loginErr != nil {
		return f.loginErr
	}
	f.logins = append(f.logins, id)
	return nil
}

func (f *fakeSessions) Logout(_ *fiber.Ctx) error {
	f.logouts++
	return nil
}

var errDBDown = errors.New("connection refused")

func userRow(id, name string, disc *string) models.User {
	return models.User{DiscordID: id, Username: name, Discriminator: disc}
}
