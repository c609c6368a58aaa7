package impl

import (
	"context"
	"sync"
	"testing"
	"time"

	"restaurandes/config"
	"restaurandes/internal/domain/entity"
	domainerrors "restaurandes/internal/domain/errors"
	mockRepo "restaurandes/internal/mocks/repository"
	mockService "restaurandes/internal/mocks/service"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createTestFavoritesService(t *testing.T, maxSessions int, ttl time.Duration) (*favoritesService, *mockRepo.MockProfileRepository) {
	t.Helper()

	repo := mockRepo.NewMockProfileRepository(t)
	srv := newFavoritesService(repo, mockService.NewMockEventPublisher(t), discardLogger(), &config.FavoritesConfig{
		WriteTimeout: time.Second,
		MaxSessions:  maxSessions,
		SessionTTL:   ttl,
	})

	return srv, repo
}

func TestFavoritesService_SessionLoadsOnce(t *testing.T) {
	srv, repo := createTestFavoritesService(t, 10, time.Hour)
	repo.EXPECT().GetFavorites(mock.Anything, "u1").Return([]string{"cafe"}, nil).Once()

	first, err := srv.Session(context.Background(), "u1")
	require.NoError(t, err)
	second, err := srv.Session(context.Background(), "u1")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.True(t, first.IsFavorite("cafe"))
	assert.Equal(t, 1, srv.ActiveSessions())
}

func TestFavoritesService_ConcurrentFirstRequestsShareLoad(t *testing.T) {
	srv, repo := createTestFavoritesService(t, 10, time.Hour)

	release := make(chan struct{})
	repo.EXPECT().GetFavorites(mock.Anything, "u1").
		RunAndReturn(func(context.Context, string) ([]string, error) {
			<-release

			return []string{"pizza"}, nil
		}).Once()

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			coordinator, err := srv.Session(context.Background(), "u1")
			assert.NoError(t, err)
			assert.True(t, coordinator.IsFavorite("pizza"))
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, 1, srv.ActiveSessions())
}

func TestFavoritesService_SessionLoadFailureIsNotCached(t *testing.T) {
	srv, repo := createTestFavoritesService(t, 10, time.Hour)
	repo.EXPECT().GetFavorites(mock.Anything, "u1").Return(nil, errors.New("unavailable")).Once()
	repo.EXPECT().GetFavorites(mock.Anything, "u1").Return([]string{}, nil).Once()

	_, err := srv.Session(context.Background(), "u1")
	assert.ErrorIs(t, err, domainerrors.ErrProfileUnavailable)
	assert.Zero(t, srv.ActiveSessions())

	coordinator, err := srv.Session(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.SessionLoggedIn, coordinator.State())
}

func TestFavoritesService_SessionRequiresUser(t *testing.T) {
	srv, _ := createTestFavoritesService(t, 10, time.Hour)

	_, err := srv.Session(context.Background(), "")

	assert.ErrorIs(t, err, domainerrors.ErrNotLoggedIn)
}

func TestFavoritesService_EndSessionLogsOut(t *testing.T) {
	srv, repo := createTestFavoritesService(t, 10, time.Hour)
	repo.EXPECT().GetFavorites(mock.Anything, "u1").Return([]string{"cafe"}, nil).Once()

	coordinator, err := srv.Session(context.Background(), "u1")
	require.NoError(t, err)

	assert.True(t, srv.EndSession("u1"))
	assert.Equal(t, entity.SessionLoggedOut, coordinator.State())
	assert.Zero(t, srv.ActiveSessions())
	assert.False(t, srv.EndSession("u1"))
}

func TestFavoritesService_EvictsLeastRecentlyUsed(t *testing.T) {
	srv, repo := createTestFavoritesService(t, 1, time.Hour)
	repo.EXPECT().GetFavorites(mock.Anything, "u1").Return(nil, nil).Once()
	repo.EXPECT().GetFavorites(mock.Anything, "u2").Return(nil, nil).Once()

	first, err := srv.Session(context.Background(), "u1")
	require.NoError(t, err)
	_, err = srv.Session(context.Background(), "u2")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return first.State() == entity.SessionLoggedOut
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, srv.ActiveSessions())
}

func TestFavoritesService_IdleSessionsExpire(t *testing.T) {
	srv, repo := createTestFavoritesService(t, 10, 50*time.Millisecond)
	repo.EXPECT().GetFavorites(mock.Anything, "u1").Return(nil, nil).Once()

	coordinator, err := srv.Session(context.Background(), "u1")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return coordinator.State() == entity.SessionLoggedOut
	}, time.Second, 10*time.Millisecond)
}

func TestFavoritesService_SlowSaveDoesNotBlockOtherUsers(t *testing.T) {
	srv, repo := createTestFavoritesService(t, 10, time.Hour)
	repo.EXPECT().GetFavorites(mock.Anything, "u1").Return([]string{}, nil).Once()
	repo.EXPECT().GetFavorites(mock.Anything, "u2").Return([]string{"cafe"}, nil).Once()

	writing := make(chan struct{})
	release := make(chan struct{})
	repo.EXPECT().SaveFavorites(mock.Anything, "u1", []string{"pizza"}).
		RunAndReturn(func(context.Context, string, []string) error {
			close(writing)
			<-release

			return nil
		}).Once()
	srv.publisher.(*mockService.MockEventPublisher).EXPECT().
		PublishFavoritesChanged(mock.Anything, mock.Anything).Return(nil).Maybe()

	first, err := srv.Session(context.Background(), "u1")
	require.NoError(t, err)

	addDone := make(chan error, 1)
	go func() { addDone <- first.Add(context.Background(), "pizza") }()
	<-writing

	endDone := make(chan bool, 1)
	go func() { endDone <- srv.EndSession("u1") }()

	// EndSession for u1 now waits on the in-flight save; u2 must not.
	time.Sleep(20 * time.Millisecond)
	start := time.Now()
	second, err := srv.Session(context.Background(), "u2")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 200*time.Millisecond)
	assert.True(t, second.IsFavorite("cafe"))
	assert.Equal(t, 1, srv.ActiveSessions())

	close(release)
	require.NoError(t, <-addDone)
	assert.True(t, <-endDone)
	assert.Equal(t, entity.SessionLoggedOut, first.State())
}
