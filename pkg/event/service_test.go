package event

import (
	"context"
	"testing"
	"time"

	"github.com/gatherhub/event-manager/internal/errdef"
	"github.com/gatherhub/event-manager/pkg/model"
	"github.com/gatherhub/event-manager/pkg/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestService_Create(t *testing.T) {
	repository := &mockEventRepository{}
	repository.
		On("create", mock.Anything, mock.AnythingOfType("*model.Event")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*model.Event).ID = 1
		}).
		Return(nil)
	created := &model.Event{
		ID:          1,
		Title:       "Gophers meetup",
		CreatedByID: 123,
		CreatedBy:   model.User{ID: 123, Name: "Someone"},
	}
	repository.
		On("findById", mock.Anything, uint(1)).
		Return(created, nil)
	hub := &mockHub{}
	hub.
		On("BroadcastGlobal", notification.EventCreated, created).
		Return()
	service := NewService(repository, hub)

	event, err := service.Create(context.Background(), 123, CreateEventData{
		Title:       "  Gophers meetup  ",
		Description: "Monthly meetup",
		Date:        time.Now().Add(24 * time.Hour),
		Location:    "Copenhagen",
		Category:    "tech",
		CoverURL:    "https://example.com/cover.png",
	})

	require.NoError(t, err)
	assert.Equal(t, created, event)
	createdEvent := repository.Calls[0].Arguments.Get(1).(*model.Event)
	assert.Equal(t, "Gophers meetup", createdEvent.Title)
	assert.Equal(t, uint(123), createdEvent.CreatedByID)
	assert.Empty(t, createdEvent.Attendees)
	repository.AssertExpectations(t)
	hub.AssertExpectations(t)
}

func TestService_Update(t *testing.T) {
	t.Run("AppliesOnlyPresentFields", func(t *testing.T) {
		date := time.Date(2024, time.June, 1, 18, 0, 0, 0, time.UTC)
		event := &model.Event{
			ID:          1,
			Title:       "Gophers meetup",
			Description: "Monthly meetup",
			Date:        date,
			Location:    "Copenhagen",
			CreatedByID: 123,
		}
		repository := &mockEventRepository{}
		repository.
			On("findById", mock.Anything, uint(1)).
			Return(event, nil)
		repository.
			On("save", mock.Anything, event).
			Return(nil)
		hub := &mockHub{}
		hub.
			On("BroadcastToRoom", uint(1), notification.EventUpdated, event).
			Return()
		service := NewService(repository, hub)

		title := "  Gophers meetup vol. 2  "
		updated, err := service.Update(context.Background(), 123, 1, UpdateEventData{Title: &title})

		require.NoError(t, err)
		assert.Equal(t, "Gophers meetup vol. 2", updated.Title)
		assert.Equal(t, "Monthly meetup", updated.Description)
		assert.Equal(t, date, updated.Date)
		assert.Equal(t, "Copenhagen", updated.Location)
		repository.AssertExpectations(t)
		hub.AssertExpectations(t)
	})

	t.Run("ForbiddenForNonCreator", func(t *testing.T) {
		repository := &mockEventRepository{}
		repository.
			On("findById", mock.Anything, uint(1)).
			Return(&model.Event{ID: 1, CreatedByID: 123}, nil)
		hub := &mockHub{}
		service := NewService(repository, hub)

		title := "hijacked"
		_, err := service.Update(context.Background(), 456, 1, UpdateEventData{Title: &title})

		require.Error(t, err)
		assert.True(t, errdef.IsForbidden(err))
		repository.AssertNotCalled(t, "save", mock.Anything, mock.Anything)
		hub.AssertNotCalled(t, "BroadcastToRoom", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NotFound", func(t *testing.T) {
		repository := &mockEventRepository{}
		repository.
			On("findById", mock.Anything, uint(1)).
			Return(nil, errdef.NewNotFound("event %d not found", 1))
		service := NewService(repository, &mockHub{})

		title := "whatever"
		_, err := service.Update(context.Background(), 456, 1, UpdateEventData{Title: &title})

		require.Error(t, err)
		assert.True(t, errdef.IsNotFound(err), "not found takes precedence over forbidden")
	})
}

func TestService_Delete(t *testing.T) {
	t.Run("BroadcastsIdGlobally", func(t *testing.T) {
		event := &model.Event{ID: 1, CreatedByID: 123}
		repository := &mockEventRepository{}
		repository.
			On("findById", mock.Anything, uint(1)).
			Return(event, nil)
		repository.
			On("delete", mock.Anything, event).
			Return(nil)
		hub := &mockHub{}
		hub.
			On("BroadcastGlobal", notification.EventDeleted, uint(1)).
			Return()
		service := NewService(repository, hub)

		err := service.Delete(context.Background(), 123, 1)

		require.NoError(t, err)
		repository.AssertExpectations(t)
		hub.AssertExpectations(t)
	})

	t.Run("ForbiddenForNonCreator", func(t *testing.T) {
		repository := &mockEventRepository{}
		repository.
			On("findById", mock.Anything, uint(1)).
			Return(&model.Event{ID: 1, CreatedByID: 123}, nil)
		hub := &mockHub{}
		service := NewService(repository, hub)

		err := service.Delete(context.Background(), 456, 1)

		require.Error(t, err)
		assert.True(t, errdef.IsForbidden(err))
		repository.AssertNotCalled(t, "delete", mock.Anything, mock.Anything)
		hub.AssertNotCalled(t, "BroadcastGlobal", mock.Anything, mock.Anything)
	})
}

func TestService_Join(t *testing.T) {
	t.Run("AddsAttendeeAndNotifiesRoom", func(t *testing.T) {
		event := &model.Event{ID: 1, CreatedByID: 123}
		updated := &model.Event{ID: 1, CreatedByID: 123, Attendees: []model.User{{ID: 456}}}
		repository := &mockEventRepository{}
		repository.
			On("findById", mock.Anything, uint(1)).
			Return(event, nil).
			Once()
		repository.
			On("addAttendee", mock.Anything, event, uint(456)).
			Return(nil)
		repository.
			On("findById", mock.Anything, uint(1)).
			Return(updated, nil).
			Once()
		hub := &mockHub{}
		hub.
			On("BroadcastToRoom", uint(1), notification.EventUpdated, updated).
			Return()
		service := NewService(repository, hub)

		got, err := service.Join(context.Background(), 456, 1)

		require.NoError(t, err)
		assert.Equal(t, updated, got)
		repository.AssertExpectations(t)
		hub.AssertExpectations(t)
	})

	t.Run("ConflictWhenAlreadyJoined", func(t *testing.T) {
		repository := &mockEventRepository{}
		repository.
			On("findById", mock.Anything, uint(1)).
			Return(&model.Event{ID: 1, Attendees: []model.User{{ID: 456}}}, nil)
		hub := &mockHub{}
		service := NewService(repository, hub)

		_, err := service.Join(context.Background(), 456, 1)

		require.Error(t, err)
		assert.True(t, errdef.IsConflict(err))
		repository.AssertNotCalled(t, "addAttendee", mock.Anything, mock.Anything, mock.Anything)
		hub.AssertNotCalled(t, "BroadcastToRoom", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_Leave(t *testing.T) {
	t.Run("RemovesAttendee", func(t *testing.T) {
		event := &model.Event{ID: 1, Attendees: []model.User{{ID: 456}}}
		updated := &model.Event{ID: 1}
		repository := &mockEventRepository{}
		repository.
			On("findById", mock.Anything, uint(1)).
			Return(event, nil).
			Once()
		repository.
			On("removeAttendee", mock.Anything, event, uint(456)).
			Return(nil)
		repository.
			On("findById", mock.Anything, uint(1)).
			Return(updated, nil).
			Once()
		hub := &mockHub{}
		hub.
			On("BroadcastToRoom", uint(1), notification.EventUpdated, updated).
			Return()
		service := NewService(repository, hub)

		got, err := service.Leave(context.Background(), 456, 1)

		require.NoError(t, err)
		assert.Equal(t, updated, got)
		repository.AssertExpectations(t)
		hub.AssertExpectations(t)
	})

	t.Run("NoopForNonAttendee", func(t *testing.T) {
		event := &model.Event{ID: 1}
		repository := &mockEventRepository{}
		repository.
			On("findById", mock.Anything, uint(1)).
			Return(event, nil)
		repository.
			On("removeAttendee", mock.Anything, event, uint(456)).
			Return(nil)
		hub := &mockHub{}
		hub.
			On("BroadcastToRoom", uint(1), notification.EventUpdated, event).
			Return()
		service := NewService(repository, hub)

		_, err := service.Leave(context.Background(), 456, 1)

		require.NoError(t, err)
		repository.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		repository := &mockEventRepository{}
		repository.
			On("findById", mock.Anything, uint(1)).
			Return(nil, errdef.NewNotFound("event %d not found", 1))
		service := NewService(repository, &mockHub{})

		_, err := service.Leave(context.Background(), 456, 1)

		require.Error(t, err)
		assert.True(t, errdef.IsNotFound(err))
	})
}

func TestService_FindAll(t *testing.T) {
	t.Run("RejectsInvertedDateRange", func(t *testing.T) {
		service := NewService(&mockEventRepository{}, &mockHub{})
		from := time.Date(2024, time.June, 2, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

		_, _, err := service.FindAll(context.Background(), ListParams{DateFrom: &from, DateTo: &to})

		require.Error(t, err)
		assert.True(t, errdef.IsBadRequest(err))
	})

	t.Run("ReturnsPagination", func(t *testing.T) {
		events := []*model.Event{{ID: 1}, {ID: 2}}
		repository := &mockEventRepository{}
		repository.
			On("findAll", mock.Anything, mock.AnythingOfType("event.ListParams")).
			Return(events, int64(42), nil)
		service := NewService(repository, &mockHub{})

		got, pagination, err := service.FindAll(context.Background(), ListParams{Page: 2, PageSize: 10})

		require.NoError(t, err)
		assert.Equal(t, events, got)
		assert.Equal(t, Pagination{
			Page:        2,
			PageSize:    10,
			TotalItems:  42,
			TotalPages:  5,
			HasNextPage: true,
			HasPrevPage: true,
		}, pagination)
	})
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		pageSize   int
		totalItems int64
		want       Pagination
	}{
		{
			name:       "FirstOfMany",
			page:       1,
			pageSize:   10,
			totalItems: 25,
			want:       Pagination{Page: 1, PageSize: 10, TotalItems: 25, TotalPages: 3, HasNextPage: true, HasPrevPage: false},
		},
		{
			name:       "LastPage",
			page:       3,
			pageSize:   10,
			totalItems: 25,
			want:       Pagination{Page: 3, PageSize: 10, TotalItems: 25, TotalPages: 3, HasNextPage: false, HasPrevPage: true},
		},
		{
			name:       "Empty",
			page:       1,
			pageSize:   10,
			totalItems: 0,
			want:       Pagination{Page: 1, PageSize: 10, TotalItems: 0, TotalPages: 0, HasNextPage: false, HasPrevPage: false},
		},
		{
			name:       "ExactMultiple",
			page:       2,
			pageSize:   5,
			totalItems: 10,
			want:       Pagination{Page: 2, PageSize: 5, TotalItems: 10, TotalPages: 2, HasNextPage: false, HasPrevPage: true},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, newPagination(test.page, test.pageSize, test.totalItems))
		})
	}
}

type mockEventRepository struct{ mock.Mock }

func (m *mockEventRepository) create(ctx context.Context, event *model.Event) error {
	called := m.Called(ctx, event)
	return called.Error(0)
}

func (m *mockEventRepository) save(ctx context.Context, event *model.Event) error {
	called := m.Called(ctx, event)
	return called.Error(0)
}

func (m *mockEventRepository) findById(ctx context.Context, id uint) (*model.Event, error) {
	called := m.Called(ctx, id)
	event, _ := called.Get(0).(*model.Event)
	return event, called.Error(1)
}

func (m *mockEventRepository) findAll(ctx context.Context, params ListParams) ([]*model.Event, int64, error) {
	called := m.Called(ctx, params)
	events, _ := called.Get(0).([]*model.Event)
	return events, called.Get(1).(int64), called.Error(2)
}

func (m *mockEventRepository) delete(ctx context.Context, event *model.Event) error {
	called := m.Called(ctx, event)
	return called.Error(0)
}

func (m *mockEventRepository) addAttendee(ctx context.Context, event *model.Event, userId uint) error {
	called := m.Called(ctx, event, userId)
	return called.Error(0)
}

func (m *mockEventRepository) removeAttendee(ctx context.Context, event *model.Event, userId uint) error {
	called := m.Called(ctx, event, userId)
	return called.Error(0)
}

type mockHub struct{ mock.Mock }

func (m *mockHub) BroadcastGlobal(event string, payload any) {
	m.Called(event, payload)
}

func (m *mockHub) BroadcastToRoom(eventId uint, event string, payload any) {
	m.Called(eventId, event, payload)
}
