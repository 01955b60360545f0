package admin

import (
	"context"
	"strings"
	"sync"
	"testing"

	"pctracer-svc/src/internal/config"
	"pctracer-svc/src/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// memoryRepository mimics the Admins collection with its unique email index.
type memoryRepository struct {
	mu     sync.Mutex
	admins []Admin
}

func (m *memoryRepository) List(context.Context) ([]Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	admins := make([]Summary, 0, len(m.admins))
	for i := range m.admins {
		admins = append(admins, m.admins[i].ToSummary())
	}
	return admins, nil
}

func (m *memoryRepository) FindByEmail(_ context.Context, email string) (*Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.admins {
		if m.admins[i].Email == email {
			admin := m.admins[i]
			return &admin, nil
		}
	}
	return nil, models.ErrAdminNotFound
}

func (m *memoryRepository) Create(_ context.Context, admin *Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Email == admin.Email {
			return models.ErrDuplicateRecord
		}
	}
	admin.ID = primitive.NewObjectID()
	m.admins = append(m.admins, *admin)
	return nil
}

func (m *memoryRepository) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.admins {
		if a.ID == id {
			m.admins = append(m.admins[:i], m.admins[i+1:]...)
			return nil
		}
	}
	return models.ErrAdminNotFound
}

func (m *memoryRepository) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.admins {
		if m.admins[i].ID == id {
			m.admins[i].Password = hash
			return nil
		}
	}
	return models.ErrAdminNotFound
}

func (m *memoryRepository) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.admins)), nil
}

func newTestService(repo Repository) Service {
	return NewAdminService(repo, &config.SecuritySettings{BcryptCost: bcrypt.MinCost, MinPasswordLn: 4})
}

func TestCreate_StoresHash(t *testing.T) {
	repo := &memoryRepository{}
	svc := newTestService(repo)

	admin, err := svc.Create(context.Background(), CreateRequest{Name: "Root", Email: "root@x", Password: "secret"})
	require.NoError(t, err)

	require.Len(t, repo.admins, 1)
	assert.Equal(t, admin.ID, repo.admins[0].ID)
	assert.NotEqual(t, "secret", repo.admins[0].Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.admins[0].Password), []byte("secret")))
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo := &memoryRepository{}
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), CreateRequest{Name: "A", Email: "a@x", Password: "1234"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateRequest{Name: "B", Email: "a@x", Password: "5678"})
	assert.ErrorIs(t, err, models.ErrDuplicateRecord)
	assert.Len(t, repo.admins, 1)
	assert.Equal(t, "A", repo.admins[0].Name)
}

func TestCreate_RequiresAllFields(t *testing.T) {
	tests := []struct {
		name string
		req  CreateRequest
	}{
		{name: "missing name", req: CreateRequest{Email: "a@x", Password: "1234"}},
		{name: "missing email", req: CreateRequest{Name: "A", Password: "1234"}},
		{name: "missing password", req: CreateRequest{Name: "A", Email: "a@x"}},
		{name: "blank name", req: CreateRequest{Name: "  ", Email: "a@x", Password: "1234"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memoryRepository{}
			_, err := newTestService(repo).Create(context.Background(), tt.req)
			assert.ErrorIs(t, err, models.ErrInvalidParams)
			assert.Empty(t, repo.admins)
		})
	}
}

func TestDelete(t *testing.T) {
	existing := Admin{ID: primitive.NewObjectID(), Name: "A", Email: "a@x"}
	repo := &memoryRepository{admins: []Admin{existing}}
	svc := newTestService(repo)

	assert.ErrorIs(t, svc.Delete(context.Background(), "xyz"), models.ErrInvalidID)

	err := svc.Delete(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, models.ErrAdminNotFound)
	assert.Len(t, repo.admins, 1)

	require.NoError(t, svc.Delete(context.Background(), existing.ID.Hex()))
	assert.Empty(t, repo.admins)
}

func TestUpdatePassword(t *testing.T) {
	existing := Admin{ID: primitive.NewObjectID(), Name: "A", Email: "a@x", Password: "old"}
	repo := &memoryRepository{admins: []Admin{existing}}
	svc := newTestService(repo)
	ctx := context.Background()

	assert.ErrorIs(t, svc.UpdatePassword(ctx, existing.ID.Hex(), "abc"), models.ErrInvalidParams)
	assert.ErrorIs(t, svc.UpdatePassword(ctx, "xyz", "abcd"), models.ErrInvalidID)
	assert.ErrorIs(t, svc.UpdatePassword(ctx, primitive.NewObjectID().Hex(), "abcd"), models.ErrAdminNotFound)
	assert.Equal(t, "old", repo.admins[0].Password)

	require.NoError(t, svc.UpdatePassword(ctx, existing.ID.Hex(), "abcd"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.admins[0].Password), []byte("abcd")))
}

func TestUpdatePassword_CountsCharacters(t *testing.T) {
	existing := Admin{ID: primitive.NewObjectID(), Name: "A", Email: "a@x", Password: "old"}
	repo := &memoryRepository{admins: []Admin{existing}}
	svc := newTestService(repo)
	ctx := context.Background()

	// four bytes, two characters
	assert.ErrorIs(t, svc.UpdatePassword(ctx, existing.ID.Hex(), "ğğ"), models.ErrInvalidParams)
	assert.Equal(t, "old", repo.admins[0].Password)

	require.NoError(t, svc.UpdatePassword(ctx, existing.ID.Hex(), "ğğğğ"))
}

func TestPasswordTooLongForBcrypt(t *testing.T) {
	existing := Admin{ID: primitive.NewObjectID(), Name: "A", Email: "a@x", Password: "old"}
	repo := &memoryRepository{admins: []Admin{existing}}
	svc := newTestService(repo)
	ctx := context.Background()
	long := strings.Repeat("a", 73)

	err := svc.UpdatePassword(ctx, existing.ID.Hex(), long)
	assert.ErrorIs(t, err, models.ErrInvalidParams)
	assert.Equal(t, "old", repo.admins[0].Password)

	_, err = svc.Create(ctx, CreateRequest{Name: "B", Email: "b@x", Password: long})
	assert.ErrorIs(t, err, models.ErrInvalidParams)
	assert.Len(t, repo.admins, 1)

	require.NoError(t, svc.UpdatePassword(ctx, existing.ID.Hex(), strings.Repeat("a", 72)))
}

func TestAuthenticate(t *testing.T) {
	repo := &memoryRepository{}
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{Name: "A", Email: "a@x", Password: "pw1234"})
	require.NoError(t, err)

	admin, err := svc.Authenticate(ctx, "a@x", "pw1234")
	require.NoError(t, err)
	assert.Equal(t, "A", admin.Name)

	_, err = svc.Authenticate(ctx, "a@x", "nope")
	assert.ErrorIs(t, err, models.ErrWrongPassword)

	_, err = svc.Authenticate(ctx, "b@x", "pw1234")
	assert.ErrorIs(t, err, models.ErrAdminNotFound)
}

func TestEnsureDefaultAdmin(t *testing.T) {
	repo := &memoryRepository{}
	svc := newTestService(repo)
	seed := &config.SeedSettings{AdminName: "Admin", AdminEmail: "admin@admin", AdminPassword: "admin"}

	created, err := svc.EnsureDefaultAdmin(context.Background(), seed)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureDefaultAdmin(context.Background(), seed)
	require.NoError(t, err)
	assert.False(t, created)

	require.Len(t, repo.admins, 1)
	assert.Equal(t, "admin@admin", repo.admins[0].Email)

	_, err = svc.Authenticate(context.Background(), "admin@admin", "admin")
	assert.NoError(t, err)
}
