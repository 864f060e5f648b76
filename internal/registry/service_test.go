package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aou-community/aubot/internal/domain"
)

// Mock objects
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Insert(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockRepository) FindByTwitchID(ctx context.Context, id int64) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockRepository) FindByDiscordID(ctx context.Context, id string) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockRepository) FindByTwitchLogin(ctx context.Context, login string) (*domain.Member, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockRepository) AttachDiscord(ctx context.Context, twitchID int64, discordID, discordName string) error {
	args := m.Called(ctx, twitchID, discordID, discordName)
	return args.Error(0)
}

func (m *MockRepository) OverwriteTwitch(ctx context.Context, discordID string, twitchID int64, twitchLogin string) error {
	args := m.Called(ctx, discordID, twitchID, twitchLogin)
	return args.Error(0)
}

func (m *MockRepository) SetDiscordIdentity(ctx context.Context, discordID, newID, newName string) error {
	args := m.Called(ctx, discordID, newID, newName)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, discordID string) error {
	args := m.Called(ctx, discordID)
	return args.Error(0)
}

func (m *MockRepository) SetAdmin(ctx context.Context, discordID string, isAdmin bool) error {
	args := m.Called(ctx, discordID, isAdmin)
	return args.Error(0)
}

func (m *MockRepository) SyncAdminFlags(ctx context.Context, adminIDs []string) error {
	args := m.Called(ctx, adminIDs)
	return args.Error(0)
}

func (m *MockRepository) SetDisplayName(ctx context.Context, discordID, name string) error {
	args := m.Called(ctx, discordID, name)
	return args.Error(0)
}

func (m *MockRepository) SetStream(ctx context.Context, discordID string, stream *domain.StreamInfo) error {
	args := m.Called(ctx, discordID, stream)
	return args.Error(0)
}

func (m *MockRepository) Top(ctx context.Context, limit int) ([]domain.Member, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Member), args.Error(1)
}

func (m *MockRepository) All(ctx context.Context) ([]domain.Member, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Member), args.Error(1)
}

var identity = DiscordIdentity{ID: "100", Name: "someone#1234", IsAdmin: false}

func TestPlanRegistration_NewMember(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	ctx := context.Background()

	repo.On("FindByTwitchID", ctx, int64(42)).Return(nil, domain.ErrMemberNotFound)
	repo.On("FindByDiscordID", ctx, "100").Return(nil, domain.ErrMemberNotFound)
	repo.On("Insert", ctx, mock.MatchedBy(func(m *domain.Member) bool {
		return m.TwitchID == 42 && m.TwitchLogin == "fresh" &&
			m.DiscordID == "100" && m.Points == 0
	})).Return(nil)

	plan, err := svc.PlanRegistration(ctx, 42, "fresh", identity)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNew, plan.Outcome)
	assert.Nil(t, plan.Previous)

	require.NoError(t, plan.Apply(ctx))
	repo.AssertExpectations(t)
}

func TestPlanRegistration_LinksUnclaimedRecord(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	ctx := context.Background()

	existing := &domain.Member{TwitchID: 42, TwitchLogin: "fresh", Points: 500}
	repo.On("FindByTwitchID", ctx, int64(42)).Return(existing, nil)
	repo.On("AttachDiscord", ctx, int64(42), "100", "someone#1234").Return(nil)

	plan, err := svc.PlanRegistration(ctx, 42, "fresh", identity)
	require.NoError(t, err)
	assert.Equal(t, OutcomeLinked, plan.Outcome)
	assert.Equal(t, int64(500), plan.Previous.Points, "points preserved when linking")

	require.NoError(t, plan.Apply(ctx))
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestPlanRegistration_OverwriteResetsPoints(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	ctx := context.Background()

	mine := &domain.Member{TwitchID: 7, TwitchLogin: "oldname", DiscordID: "100", Points: 900}
	repo.On("FindByTwitchID", ctx, int64(42)).Return(nil, domain.ErrMemberNotFound)
	repo.On("FindByDiscordID", ctx, "100").Return(mine, nil)
	repo.On("OverwriteTwitch", ctx, "100", int64(42), "newname").Return(nil)

	plan, err := svc.PlanRegistration(ctx, 42, "newname", identity)
	require.NoError(t, err)
	assert.Equal(t, OutcomeOverwritten, plan.Outcome)
	assert.Equal(t, "oldname", plan.Previous.TwitchLogin)

	require.NoError(t, plan.Apply(ctx))
	repo.AssertExpectations(t)
}

func TestPlanRegistration_ConflictNeverMutates(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	ctx := context.Background()

	claimed := &domain.Member{TwitchID: 42, TwitchLogin: "fresh", DiscordID: "999"}
	repo.On("FindByTwitchID", ctx, int64(42)).Return(claimed, nil)

	plan, err := svc.PlanRegistration(ctx, 42, "fresh", identity)
	assert.Nil(t, plan)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAccountClaimed)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "999", conflict.ClaimedBy)

	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "AttachDiscord", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "OverwriteTwitch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPlanRegistration_SelfReclaimIsConflict(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	ctx := context.Background()

	claimed := &domain.Member{TwitchID: 42, TwitchLogin: "fresh", DiscordID: "100"}
	repo.On("FindByTwitchID", ctx, int64(42)).Return(claimed, nil)

	_, err := svc.PlanRegistration(ctx, 42, "fresh", identity)
	assert.ErrorIs(t, err, domain.ErrAccountClaimed)
}

func TestPlanUnregister(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	ctx := context.Background()

	member := &domain.Member{TwitchLogin: "fresh", DiscordID: "100", Points: 10}
	repo.On("FindByDiscordID", ctx, "100").Return(member, nil)
	repo.On("Delete", ctx, "100").Return(nil)

	got, apply, err := svc.PlanUnregister(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, member, got)

	require.NoError(t, apply(ctx))
	repo.AssertExpectations(t)
}

func TestPlanUnregister_NotRegistered(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	ctx := context.Background()

	repo.On("FindByDiscordID", ctx, "100").Return(nil, domain.ErrMemberNotFound)

	_, _, err := svc.PlanUnregister(ctx, "100")
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestUpdateStreamStatus_TransitionWrites(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	ctx := context.Background()

	stream := &domain.StreamInfo{Platform: "Twitch", URL: "https://twitch.tv/fresh"}
	offline := &domain.Member{DiscordID: "100"}
	repo.On("FindByDiscordID", ctx, "100").Return(offline, nil)
	repo.On("SetStream", ctx, "100", stream).Return(nil)

	written, err := svc.UpdateStreamStatus(ctx, "100", stream)
	require.NoError(t, err)
	assert.True(t, written)
	repo.AssertExpectations(t)
}

func TestUpdateStreamStatus_NoTransitionNoWrite(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	ctx := context.Background()

	stream := &domain.StreamInfo{Platform: "Twitch", URL: "https://twitch.tv/fresh"}
	live := &domain.Member{DiscordID: "100", Stream: stream}
	repo.On("FindByDiscordID", ctx, "100").Return(live, nil)

	written, err := svc.UpdateStreamStatus(ctx, "100", stream)
	require.NoError(t, err)
	assert.False(t, written, "still-streaming notification must not write")
	repo.AssertNotCalled(t, "SetStream", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStreamStatus_StopTransitionClears(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	ctx := context.Background()

	live := &domain.Member{DiscordID: "100", Stream: &domain.StreamInfo{Platform: "Twitch"}}
	repo.On("FindByDiscordID", ctx, "100").Return(live, nil)
	repo.On("SetStream", ctx, "100", (*domain.StreamInfo)(nil)).Return(nil)

	written, err := svc.UpdateStreamStatus(ctx, "100", nil)
	require.NoError(t, err)
	assert.True(t, written)
	repo.AssertExpectations(t)
}

func TestUpdateStreamStatus_UnregisteredIsNoop(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	ctx := context.Background()

	repo.On("FindByDiscordID", ctx, "100").Return(nil, domain.ErrMemberNotFound)

	written, err := svc.UpdateStreamStatus(ctx, "100", nil)
	require.NoError(t, err)
	assert.False(t, written)
}

func TestSyncAdmins(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	ctx := context.Background()

	repo.On("SyncAdminFlags", ctx, []string{"1", "2"}).Return(nil)

	require.NoError(t, svc.SyncAdmins(ctx, []string{"1", "2"}))
	repo.AssertExpectations(t)
}

func TestRemoveMember_MissingRecordTolerated(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	ctx := context.Background()

	repo.On("Delete", ctx, "100").Return(domain.ErrMemberNotFound)

	assert.NoError(t, svc.RemoveMember(ctx, "100"))
}
