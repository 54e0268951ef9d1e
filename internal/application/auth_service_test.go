package application

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digicommerce/internal/domain/entity"
	"digicommerce/internal/domain/repository"
	"digicommerce/pkg/helpers"
)

// fakeUserRepo is an in-memory UserRepository with case-insensitive
// email uniqueness, mirroring the storage constraint.
type fakeUserRepo struct {
	seq     int
	byID    map[string]*entity.User
	failDup bool // force Create to report a duplicate regardless of state
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]*entity.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	if f.failDup {
		return repository.ErrDuplicateEmail
	}
	for _, existing := range f.byID {
		if strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	f.seq++
	u.ID = "user-" + strconv.Itoa(f.seq)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	if _, ok := f.byID[u.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Password = hash
	return nil
}

func (f *fakeUserRepo) SetVerified(_ context.Context, id string) error {
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsVerified = true
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, _, _ int) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(f.byID))
	for _, u := range f.byID {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func newTestAuthService(repo repository.UserRepository) *AuthService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	return NewAuthService(repo, jwt, logger, nil, 4, "digicommerce-test")
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(newFakeUserRepo())
	res, err := svc.Register(context.Background(), RegisterInput{
		Email:     "Buyer@Example.com",
		Password:  "secret123",
		FirstName: "Ana",
		LastName:  "Sari",
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "buyer@example.com", res.User.Email)
	assert.Equal(t, entity.RoleBuyer, res.User.Role)
	assert.False(t, res.User.IsVerified)
}

func TestRegister_EmailTaken(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(newFakeUserRepo())
	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "dup@example.com", Password: "secret123", FirstName: "First",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{
		Email: "DUP@example.com", Password: "secret456", FirstName: "Second",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_DuplicateOnCreate(t *testing.T) {
	t.Parallel()

	// The pre-check passes but the storage unique constraint fires,
	// as happens when two registrations race.
	repo := newFakeUserRepo()
	repo.failDup = true
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "race@example.com", Password: "secret123", FirstName: "Race",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_AdminRoleRejected(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(newFakeUserRepo())
	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "root@example.com", Password: "secret123", FirstName: "Root", Role: entity.RoleAdmin,
	})
	assert.ErrorIs(t, err, ErrRoleNotAllowed)
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(newFakeUserRepo())
	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "seller@example.com", Password: "secret123", FirstName: "Budi", Role: entity.RoleSeller,
	})
	require.NoError(t, err)

	res, err := svc.Login(context.Background(), "seller@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, entity.RoleSeller, res.User.Role)
}

func TestLogin_FailuresIndistinguishable(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(newFakeUserRepo())
	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "known@example.com", Password: "secret123", FirstName: "Known",
	})
	require.NoError(t, err)

	_, errUnknown := svc.Login(context.Background(), "unknown@example.com", "secret123")
	_, errBadPass := svc.Login(context.Background(), "known@example.com", "wrong-password")

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errBadPass, ErrInvalidCredentials)
	assert.Equal(t, errUnknown, errBadPass)
}

func TestVerifyEmail_Idempotent(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(newFakeUserRepo())
	res, err := svc.Register(context.Background(), RegisterInput{
		Email: "verify@example.com", Password: "secret123", FirstName: "Vera",
	})
	require.NoError(t, err)

	first, err := svc.VerifyEmail(context.Background(), res.User.ID)
	require.NoError(t, err)
	assert.True(t, first.IsVerified)

	second, err := svc.VerifyEmail(context.Background(), res.User.ID)
	require.NoError(t, err)
	assert.True(t, second.IsVerified)
}

func TestVerifyEmail_UnknownUser(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(newFakeUserRepo())
	_, err := svc.VerifyEmail(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRefresh_ReissuesFromClaims(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(newFakeUserRepo())
	claims := &helpers.Claims{UserID: "user-9", Email: "r@example.com", Role: entity.RoleBuyer}

	token, expiresAt, err := svc.Refresh(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	parsed, err := svc.JWT.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-9", parsed.UserID)
	assert.Equal(t, entity.RoleBuyer, parsed.Role)
}

func TestUpdateProfile_PartialFields(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(newFakeUserRepo())
	res, err := svc.Register(context.Background(), RegisterInput{
		Email: "profile@example.com", Password: "secret123", FirstName: "Old", LastName: "Name",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(context.Background(), res.User.ID, UpdateProfileInput{Bio: "Digital goods seller"})
	require.NoError(t, err)
	assert.Equal(t, "Digital goods seller", updated.Bio)
	assert.Equal(t, "Old", updated.FirstName)
}
