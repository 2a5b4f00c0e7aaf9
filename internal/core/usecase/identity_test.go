package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"vacancyboard/internal/core/model"
)

// MockIdentityStore is a mock implementation of the IdentityStore port.
type MockIdentityStore struct {
	identities map[string]model.Identity

	// ConflictOnFirstSave simulates losing the first-registration race: the
	// first SaveIdentity call reports a uniqueness violation after another
	// caller's row appeared.
	ConflictOnFirstSave *model.Identity

	GetErr  error
	SaveErr error

	saves int
}

func (m *MockIdentityStore) GetIdentityByEmail(ctx context.Context, email string) (*model.Identity, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if identity, ok := m.identities[email]; ok {
		return &identity, nil
	}
	return nil, model.ErrNotFound
}

func (m *MockIdentityStore) SaveIdentity(ctx context.Context, identity *model.Identity) error {
	m.saves++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if m.identities == nil {
		m.identities = make(map[string]model.Identity)
	}
	if m.ConflictOnFirstSave != nil && m.saves == 1 {
		m.identities[m.ConflictOnFirstSave.Email] = *m.ConflictOnFirstSave
		return model.ErrConflict
	}
	if _, ok := m.identities[identity.Email]; ok {
		return model.ErrConflict
	}
	m.identities[identity.Email] = *identity
	return nil
}

var identityTestTime = time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

func newIdentityServiceForTest(store *MockIdentityStore) *IdentityService {
	return NewIdentityService(
		IdentityServiceArgs{Store: store},
		WithIdentityNowFunc(func() time.Time { return identityTestTime }),
	)
}

func TestResolveCreatesOnFirstSight(t *testing.T) {
	store := &MockIdentityStore{}
	svc := newIdentityServiceForTest(store)

	resp, err := svc.Resolve(context.Background(), model.ResolveIdentityArgs{Email: "a@x.com"})
	require.NoError(t, err)
	require.Equal(t, "a@x.com", resp.Identity.Email)
	require.Equal(t, model.RoleUser, resp.Identity.Role)
	require.Equal(t, identityTestTime, resp.Identity.CreatedAt)
	require.NotEqual(t, uuid.Nil, resp.Identity.ID)
}

func TestResolveIsStableAcrossCalls(t *testing.T) {
	store := &MockIdentityStore{}
	svc := newIdentityServiceForTest(store)

	first, err := svc.Resolve(context.Background(), model.ResolveIdentityArgs{Email: "a@x.com"})
	require.NoError(t, err)
	second, err := svc.Resolve(context.Background(), model.ResolveIdentityArgs{Email: "a@x.com"})
	require.NoError(t, err)

	require.Equal(t, first.Identity.ID, second.Identity.ID)
	require.Equal(t, 1, store.saves)
}

func TestResolveNormalizesTheAddress(t *testing.T) {
	store := &MockIdentityStore{}
	svc := newIdentityServiceForTest(store)

	first, err := svc.Resolve(context.Background(), model.ResolveIdentityArgs{Email: "  A@X.com "})
	require.NoError(t, err)
	require.Equal(t, "a@x.com", first.Identity.Email)

	second, err := svc.Resolve(context.Background(), model.ResolveIdentityArgs{Email: "a@x.com"})
	require.NoError(t, err)
	require.Equal(t, first.Identity.ID, second.Identity.ID)
}

func TestResolveRejectsUnparsableEmails(t *testing.T) {
	svc := newIdentityServiceForTest(&MockIdentityStore{})

	for _, email := range []string{"", "   ", "not-an-email", "@x.com"} {
		_, err := svc.Resolve(context.Background(), model.ResolveIdentityArgs{Email: email})
		assert.ErrorIs(t, err, model.ErrInvalidEmail, "email %q", email)
	}
}

func TestResolveReReadsAfterUniquenessConflict(t *testing.T) {
	winner := model.Identity{ID: uuid.New(), Email: "a@x.com", Role: model.RoleUser, CreatedAt: identityTestTime.Add(-time.Minute)}
	store := &MockIdentityStore{ConflictOnFirstSave: &winner}
	svc := newIdentityServiceForTest(store)

	resp, err := svc.Resolve(context.Background(), model.ResolveIdentityArgs{Email: "a@x.com"})
	require.NoError(t, err)
	require.Equal(t, winner, resp.Identity)
}

func TestResolveSurfacesStoreErrors(t *testing.T) {
	storeErr := errors.New("store unreachable")
	svc := newIdentityServiceForTest(&MockIdentityStore{GetErr: storeErr})

	_, err := svc.Resolve(context.Background(), model.ResolveIdentityArgs{Email: "a@x.com"})
	assert.ErrorIs(t, err, storeErr)
}
