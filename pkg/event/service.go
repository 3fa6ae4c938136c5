package event

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/gatherhub/event-manager/internal/errdef"

	"github.com/gatherhub/event-manager/pkg/model"
	"github.com/gatherhub/event-manager/pkg/notification"
)

func NewService(repository eventRepository, hub hub) *Service {
	return &Service{
		repository: repository,
		hub:        hub,
	}
}

type eventRepository interface {
	create(ctx context.Context, event *model.Event) error
	save(ctx context.Context, event *model.Event) error
	findById(ctx context.Context, id uint) (*model.Event, error)
	findAll(ctx context.Context, params ListParams) ([]*model.Event, int64, error)
	delete(ctx context.Context, event *model.Event) error
	addAttendee(ctx context.Context, event *model.Event, userId uint) error
	removeAttendee(ctx context.Context, event *model.Event, userId uint) error
}

type hub interface {
	BroadcastGlobal(event string, payload any)
	BroadcastToRoom(eventId uint, event string, payload any)
}

type Service struct {
	repository eventRepository
	hub        hub
}

// ListParams filter, sort and paginate the event listing.
type ListParams struct {
	Category  string
	DateFrom  *time.Time
	DateTo    *time.Time
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

type Pagination struct {
	Page        int   `json:"page"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

func newPagination(page int, pageSize int, totalItems int64) Pagination {
	totalPages := int(math.Ceil(float64(totalItems) / float64(pageSize)))
	return Pagination{
		Page:        page,
		PageSize:    pageSize,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

func (s Service) FindAll(ctx context.Context, params ListParams) ([]*model.Event, Pagination, error) {
	if params.DateFrom != nil && params.DateTo != nil && params.DateFrom.After(*params.DateTo) {
		return nil, Pagination{}, errdef.NewBadRequest("invalid date range: dateFrom is after dateTo")
	}

	events, total, err := s.repository.findAll(ctx, params)
	if err != nil {
		return nil, Pagination{}, err
	}

	return events, newPagination(params.Page, params.PageSize, total), nil
}

func (s Service) FindById(ctx context.Context, id uint) (*model.Event, error) {
	return s.repository.findById(ctx, id)
}

// CreateEventData holds the validated fields of a new event.
type CreateEventData struct {
	Title       string
	Description string
	Date        time.Time
	Location    string
	Category    string
	CoverURL    string
	ImageURLs   []string
}

func (s Service) Create(ctx context.Context, createdById uint, data CreateEventData) (*model.Event, error) {
	event := &model.Event{
		Title:       strings.TrimSpace(data.Title),
		Description: strings.TrimSpace(data.Description),
		Date:        data.Date,
		Location:    strings.TrimSpace(data.Location),
		Category:    strings.TrimSpace(data.Category),
		CoverURL:    data.CoverURL,
		ImageURLs:   data.ImageURLs,
		CreatedByID: createdById,
	}

	if err := s.repository.create(ctx, event); err != nil {
		return nil, err
	}

	created, err := s.repository.findById(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastGlobal(notification.EventCreated, created)

	return created, nil
}

// UpdateEventData holds the fields of a partial event update. Only non-nil
// fields are applied.
type UpdateEventData struct {
	Title       *string
	Description *string
	Date        *time.Time
	Location    *string
	Category    *string
	CoverURL    *string
	ImageURLs   *[]string
}

func (s Service) Update(ctx context.Context, callerId uint, id uint, data UpdateEventData) (*model.Event, error) {
	event, err := s.repository.findById(ctx, id)
	if err != nil {
		return nil, err
	}

	if !event.IsCreatedBy(callerId) {
		return nil, errdef.NewForbidden("only the creator of event %d can update it", id)
	}

	if data.Title != nil {
		event.Title = strings.TrimSpace(*data.Title)
	}
	if data.Description != nil {
		event.Description = strings.TrimSpace(*data.Description)
	}
	if data.Date != nil {
		event.Date = *data.Date
	}
	if data.Location != nil {
		event.Location = strings.TrimSpace(*data.Location)
	}
	if data.Category != nil {
		event.Category = strings.TrimSpace(*data.Category)
	}
	if data.CoverURL != nil {
		event.CoverURL = *data.CoverURL
	}
	if data.ImageURLs != nil {
		event.ImageURLs = *data.ImageURLs
	}

	if err := s.repository.save(ctx, event); err != nil {
		return nil, err
	}

	s.hub.BroadcastToRoom(event.ID, notification.EventUpdated, event)

	return event, nil
}

func (s Service) Delete(ctx context.Context, callerId uint, id uint) error {
	event, err := s.repository.findById(ctx, id)
	if err != nil {
		return err
	}

	if !event.IsCreatedBy(callerId) {
		return errdef.NewForbidden("only the creator of event %d can delete it", id)
	}

	if err := s.repository.delete(ctx, event); err != nil {
		return err
	}

	s.hub.BroadcastGlobal(notification.EventDeleted, id)

	return nil
}

func (s Service) Join(ctx context.Context, callerId uint, id uint) (*model.Event, error) {
	event, err := s.repository.findById(ctx, id)
	if err != nil {
		return nil, err
	}

	if event.HasAttendee(callerId) {
		return nil, errdef.NewConflict("user %d has already joined event %d", callerId, id)
	}

	if err := s.repository.addAttendee(ctx, event, callerId); err != nil {
		return nil, err
	}

	updated, err := s.repository.findById(ctx, id)
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToRoom(id, notification.EventUpdated, updated)

	return updated, nil
}

// Leave removes the caller from the attendee set. Leaving an event the caller
// never joined succeeds without effect.
func (s Service) Leave(ctx context.Context, callerId uint, id uint) (*model.Event, error) {
	event, err := s.repository.findById(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repository.removeAttendee(ctx, event, callerId); err != nil {
		return nil, err
	}

	updated, err := s.repository.findById(ctx, id)
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToRoom(id, notification.EventUpdated, updated)

	return updated, nil
}
