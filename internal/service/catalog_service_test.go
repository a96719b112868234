package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

type fakeBlobStore struct {
	saved   map[string]string
	removed []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{saved: map[string]string{}}
}

func (s *fakeBlobStore) Save(_ context.Context, originalName string, r io.Reader) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	path := "images/" + originalName
	s.saved[path] = string(content)
	return path, nil
}

func (s *fakeBlobStore) Remove(_ context.Context, relPath string) error {
	delete(s.saved, relPath)
	s.removed = append(s.removed, relPath)
	return nil
}

type catalogEnv struct {
	services *fakeServiceRepo
	requests *fakeRequestRepo
	blobs    *fakeBlobStore
	redis    *miniredis.Miniredis
	svc      *CatalogService
	admin    *domain.User
}

func newCatalogEnv(t *testing.T) *catalogEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	services := newFakeServiceRepo()
	requests := newFakeRequestRepo()
	blobs := newFakeBlobStore()

	return &catalogEnv{
		services: services,
		requests: requests,
		blobs:    blobs,
		redis:    mr,
		svc: NewCatalogService(CatalogDependencies{
			ServiceRepo: services,
			RequestRepo: requests,
			BlobStore:   blobs,
			Cache:       client,
			CacheTTL:    time.Minute,
		}, zap.NewNop()),
		admin: &domain.User{ID: "admin", Role: domain.RoleAdmin, Status: domain.UserStatusActive},
	}
}

func TestCatalogCreateValidation(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, env.admin, ServiceInput{Name: "", BasePrice: 10})
	assertCode(t, err, "VALIDATION_FAILED")

	_, err = env.svc.Create(ctx, env.admin, ServiceInput{Name: "Plumbing", BasePrice: -1})
	assertCode(t, err, "VALIDATION_FAILED")

	service, err := env.svc.Create(ctx, env.admin, ServiceInput{Name: "Plumbing", BasePrice: 0})
	require.NoError(t, err, "zero price is allowed")
	assert.Equal(t, "Plumbing", service.Name)
}

func TestCatalogUpdateValidation(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()

	service, err := env.svc.Create(ctx, env.admin, ServiceInput{Name: "Plumbing", BasePrice: 75})
	require.NoError(t, err)

	_, err = env.svc.Update(ctx, env.admin, service.ID, ServiceInput{Name: "Plumbing", BasePrice: -5})
	assertCode(t, err, "VALIDATION_FAILED")

	stored, err := env.services.GetByID(ctx, service.ID)
	require.NoError(t, err)
	assert.Equal(t, 75.0, stored.BasePrice, "rejected update must not persist")

	updated, err := env.svc.Update(ctx, env.admin, service.ID, ServiceInput{Name: "Plumbing Pro", BasePrice: 90})
	require.NoError(t, err)
	assert.Equal(t, "Plumbing Pro", updated.Name)
	assert.Equal(t, 90.0, updated.BasePrice)
}

func TestCatalogWritesRequireAdmin(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()
	customer := &domain.User{ID: "c1", Role: domain.RoleCustomer, Status: domain.UserStatusActive}

	_, err := env.svc.Create(ctx, customer, ServiceInput{Name: "Plumbing", BasePrice: 75})
	assertCode(t, err, "FORBIDDEN")

	err = env.svc.Delete(ctx, customer, "anything")
	assertCode(t, err, "FORBIDDEN")
}

func TestCatalogListUsesCache(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, env.admin, ServiceInput{Name: "Plumbing", BasePrice: 75})
	require.NoError(t, err)

	require.False(t, env.redis.Exists(catalogCacheKey))

	first, err := env.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.True(t, env.redis.Exists(catalogCacheKey), "list warms the cache")

	// Second read is served from Redis even if the repo changed underneath.
	extra := &domain.Service{Name: "Cleaning", BasePrice: 30}
	require.NoError(t, env.services.Create(ctx, extra))

	second, err := env.svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, second, 1, "warm cache hides the uncached write")
}

func TestCatalogWritesInvalidateCache(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()

	service, err := env.svc.Create(ctx, env.admin, ServiceInput{Name: "Plumbing", BasePrice: 75})
	require.NoError(t, err)

	_, err = env.svc.List(ctx)
	require.NoError(t, err)
	require.True(t, env.redis.Exists(catalogCacheKey))

	_, err = env.svc.Update(ctx, env.admin, service.ID, ServiceInput{Name: "Plumbing", BasePrice: 80})
	require.NoError(t, err)
	assert.False(t, env.redis.Exists(catalogCacheKey), "update drops the cache")

	listed, err := env.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, 80.0, listed[0].BasePrice)
}

func TestCatalogDeleteBlockedByOpenRequests(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()

	service, err := env.svc.Create(ctx, env.admin, ServiceInput{Name: "Plumbing", BasePrice: 75})
	require.NoError(t, err)

	open := &domain.ServiceRequest{
		CustomerID:  "c1",
		ServiceID:   service.ID,
		Status:      domain.RequestStatusRequested,
		RequestedAt: tick(),
	}
	require.NoError(t, env.requests.Create(ctx, open))

	err = env.svc.Delete(ctx, env.admin, service.ID)
	assertCode(t, err, "CONFLICT")

	// Once the request reaches a terminal state the delete goes through.
	open.Status = domain.RequestStatusRejected
	require.NoError(t, env.requests.Update(ctx, open))
	require.NoError(t, env.svc.Delete(ctx, env.admin, service.ID))

	_, err = env.services.GetByID(ctx, service.ID)
	assert.Error(t, err)
}

func TestCatalogAttachImage(t *testing.T) {
	env := newCatalogEnv(t)
	ctx := context.Background()

	service, err := env.svc.Create(ctx, env.admin, ServiceInput{Name: "Plumbing", BasePrice: 75})
	require.NoError(t, err)

	updated, err := env.svc.AttachImage(ctx, env.admin, service.ID, "pipe.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.NotNil(t, updated.ImagePath)
	assert.Equal(t, "images/pipe.png", *updated.ImagePath)

	// Replacing the image removes the previous blob.
	updated, err = env.svc.AttachImage(ctx, env.admin, service.ID, "pipe2.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "images/pipe2.png", *updated.ImagePath)
	assert.Contains(t, env.blobs.removed, "images/pipe.png")
}
