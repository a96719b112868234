package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/domain"
)

type authEnv struct {
	users     *fakeUserRepo
	customers *fakeCustomerRepo
	profs     *fakeProfessionalRepo
	resets    *fakeResetRepo
	svc       *AuthService
}

func newAuthEnv(adminPassword string) *authEnv {
	users := newFakeUserRepo()
	customers := newFakeCustomerRepo()
	profs := newFakeProfessionalRepo(users)
	resets := newFakeResetRepo()

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			AccessTokenTTLMinutes:   60,
			PasswordResetTTLMinutes: 30,
			BcryptCost:              4,
		},
		Admin: config.AdminConfig{Username: "admin", Password: adminPassword},
	}

	return &authEnv{
		users:     users,
		customers: customers,
		profs:     profs,
		resets:    resets,
		svc: NewAuthService(cfg, AuthDependencies{
			UserRepo:          users,
			CustomerRepo:      customers,
			ProfessionalRepo:  profs,
			PasswordResetRepo: resets,
		}, zap.NewNop()),
	}
}

func TestRegisterCustomer(t *testing.T) {
	env := newAuthEnv("")
	ctx := context.Background()

	user, token, exp, err := env.svc.Register(ctx, RegisterInput{
		Username: "alice",
		Password: "s3cret",
		Role:     domain.RoleCustomer,
		FullName: "Alice A",
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.Equal(t, domain.UserStatusActive, user.Status)
	assert.NotEmpty(t, token)
	assert.False(t, exp.IsZero())
	assert.NotEqual(t, "s3cret", user.PasswordHash)

	customer, err := env.customers.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice A", customer.FullName)
}

func TestRegisterProfessionalStartsPending(t *testing.T) {
	env := newAuthEnv("")
	ctx := context.Background()

	user, _, _, err := env.svc.Register(ctx, RegisterInput{
		Username:    "bob",
		Password:    "s3cret",
		Role:        domain.RoleProfessional,
		ServiceType: "Plumbing",
	})
	require.NoError(t, err)

	prof, err := env.profs.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalPending, prof.Approval)
	assert.False(t, prof.Assignable())
}

func TestRegisterValidation(t *testing.T) {
	env := newAuthEnv("")
	ctx := context.Background()

	_, _, _, err := env.svc.Register(ctx, RegisterInput{Username: "", Password: "x", Role: domain.RoleCustomer})
	assertCode(t, err, "VALIDATION_FAILED")

	_, _, _, err = env.svc.Register(ctx, RegisterInput{Username: "eve", Password: "x", Role: domain.RoleAdmin})
	assertCode(t, err, "VALIDATION_FAILED")

	_, _, _, err = env.svc.Register(ctx, RegisterInput{Username: "bob", Password: "x", Role: domain.RoleProfessional})
	assertCode(t, err, "VALIDATION_FAILED")
}

func TestRegisterDuplicateHandle(t *testing.T) {
	env := newAuthEnv("")
	ctx := context.Background()

	_, _, _, err := env.svc.Register(ctx, RegisterInput{Username: "alice", Password: "x", Role: domain.RoleCustomer})
	require.NoError(t, err)

	_, _, _, err = env.svc.Register(ctx, RegisterInput{Username: "alice", Password: "y", Role: domain.RoleProfessional, ServiceType: "Plumbing"})
	assertCode(t, err, "DUPLICATE_HANDLE")
}

func TestLogin(t *testing.T) {
	env := newAuthEnv("")
	ctx := context.Background()

	registered, _, _, err := env.svc.Register(ctx, RegisterInput{Username: "alice", Password: "s3cret", Role: domain.RoleCustomer})
	require.NoError(t, err)

	user, token, _, err := env.svc.Login(ctx, "alice", "s3cret", domain.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, token)

	// Every failure path collapses to the same error.
	_, _, _, err = env.svc.Login(ctx, "alice", "wrong", domain.RoleCustomer)
	assertCode(t, err, "INVALID_CREDENTIALS")

	_, _, _, err = env.svc.Login(ctx, "nobody", "s3cret", domain.RoleCustomer)
	assertCode(t, err, "INVALID_CREDENTIALS")

	_, _, _, err = env.svc.Login(ctx, "alice", "s3cret", domain.RoleProfessional)
	assertCode(t, err, "INVALID_CREDENTIALS")
}

func TestLoginBlockedUserFails(t *testing.T) {
	env := newAuthEnv("")
	ctx := context.Background()

	user, _, _, err := env.svc.Register(ctx, RegisterInput{Username: "alice", Password: "s3cret", Role: domain.RoleCustomer})
	require.NoError(t, err)

	user.Status = domain.UserStatusBlocked
	require.NoError(t, env.users.Update(ctx, user))

	_, _, _, err = env.svc.Login(ctx, "alice", "s3cret", domain.RoleCustomer)
	assertCode(t, err, "INVALID_CREDENTIALS")
}

func TestEnsureAdmin(t *testing.T) {
	env := newAuthEnv("admin-pass")
	ctx := context.Background()

	require.NoError(t, env.svc.EnsureAdmin(ctx))
	admin, err := env.users.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)

	// Idempotent.
	require.NoError(t, env.svc.EnsureAdmin(ctx))
	all, err := env.users.List(ctx, userFilterAll())
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, _, _, err = env.svc.Login(ctx, "admin", "admin-pass", domain.RoleAdmin)
	assert.NoError(t, err)
}

func TestEnsureAdminSkippedWithoutPassword(t *testing.T) {
	env := newAuthEnv("")
	ctx := context.Background()

	require.NoError(t, env.svc.EnsureAdmin(ctx))
	_, err := env.users.GetByUsername(ctx, "admin")
	assert.Error(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	env := newAuthEnv("")
	ctx := context.Background()

	_, _, _, err := env.svc.Register(ctx, RegisterInput{Username: "alice", Password: "old-pass", Role: domain.RoleCustomer})
	require.NoError(t, err)

	token, err := env.svc.RequestPasswordReset(ctx, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token.Token)

	require.NoError(t, env.svc.ConfirmPasswordReset(ctx, token.Token, "new-pass"))

	_, _, _, err = env.svc.Login(ctx, "alice", "old-pass", domain.RoleCustomer)
	assertCode(t, err, "INVALID_CREDENTIALS")
	_, _, _, err = env.svc.Login(ctx, "alice", "new-pass", domain.RoleCustomer)
	assert.NoError(t, err)

	// Token is single use.
	err = env.svc.ConfirmPasswordReset(ctx, token.Token, "another-pass")
	assertCode(t, err, "VALIDATION_FAILED")
}

func TestChangePassword(t *testing.T) {
	env := newAuthEnv("")
	ctx := context.Background()

	user, _, _, err := env.svc.Register(ctx, RegisterInput{Username: "alice", Password: "old-pass", Role: domain.RoleCustomer})
	require.NoError(t, err)

	err = env.svc.ChangePassword(ctx, user.ID, "wrong", "new-pass")
	assertCode(t, err, "INVALID_CREDENTIALS")

	require.NoError(t, env.svc.ChangePassword(ctx, user.ID, "old-pass", "new-pass"))
	_, _, _, err = env.svc.Login(ctx, "alice", "new-pass", domain.RoleCustomer)
	assert.NoError(t, err)
}
