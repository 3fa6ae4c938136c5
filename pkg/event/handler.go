package event

import (
	"context"
	"net/http"
	"time"

	"github.com/gatherhub/event-manager/internal/handler"

	"github.com/gatherhub/event-manager/pkg/model"
	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

func NewHandler(eventService eventService) Handler {
	return Handler{eventService}
}

type Handler struct {
	eventService eventService
}

type eventService interface {
	FindAll(ctx context.Context, params ListParams) ([]*model.Event, Pagination, error)
	FindById(ctx context.Context, id uint) (*model.Event, error)
	Create(ctx context.Context, createdById uint, data CreateEventData) (*model.Event, error)
	Update(ctx context.Context, callerId uint, id uint, data UpdateEventData) (*model.Event, error)
	Delete(ctx context.Context, callerId uint, id uint) error
	Join(ctx context.Context, callerId uint, id uint) (*model.Event, error)
	Leave(ctx context.Context, callerId uint, id uint) (*model.Event, error)
}

type ListEventsRequest struct {
	Category  string     `form:"category"`
	DateFrom  *time.Time `form:"dateFrom" time_format:"2006-01-02T15:04:05Z07:00"`
	DateTo    *time.Time `form:"dateTo" time_format:"2006-01-02T15:04:05Z07:00"`
	Search    string     `form:"search"`
	SortBy    string     `form:"sortBy,default=date" binding:"oneOf=date title attendeeCount"`
	SortOrder string     `form:"sortOrder,default=asc" binding:"oneOf=asc desc"`
	Page      int        `form:"page,default=1" binding:"gte=1"`
	PageSize  int        `form:"pageSize,default=10" binding:"gte=1,lte=100"`
}

// UserSummary is the shape users take when embedded in event listings.
// Attendee summaries carry no email.
type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type EventSummary struct {
	ID            uint           `json:"id"`
	CreatedAt     time.Time      `json:"createdAt"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Date          time.Time      `json:"date"`
	Location      string         `json:"location"`
	Category      string         `json:"category"`
	CoverURL      string         `json:"coverUrl"`
	ImageURLs     pq.StringArray `json:"imageUrls"`
	CreatedBy     UserSummary    `json:"createdBy"`
	Attendees     []UserSummary  `json:"attendees"`
	AttendeeCount int            `json:"attendeeCount"`
}

func newEventSummary(event *model.Event) EventSummary {
	attendees := make([]UserSummary, len(event.Attendees))
	for i, attendee := range event.Attendees {
		attendees[i] = UserSummary{ID: attendee.ID, Name: attendee.Name}
	}

	return EventSummary{
		ID:          event.ID,
		CreatedAt:   event.CreatedAt,
		Title:       event.Title,
		Description: event.Description,
		Date:        event.Date,
		Location:    event.Location,
		Category:    event.Category,
		CoverURL:    event.CoverURL,
		ImageURLs:   event.ImageURLs,
		CreatedBy: UserSummary{
			ID:    event.CreatedBy.ID,
			Name:  event.CreatedBy.Name,
			Email: event.CreatedBy.Email,
		},
		Attendees:     attendees,
		AttendeeCount: len(attendees),
	}
}

type ListEventsResponse struct {
	Events     []EventSummary `json:"events"`
	Pagination Pagination     `json:"pagination"`
}

// FindAll lists events filtered, sorted and paginated.
func (h Handler) FindAll(c *gin.Context) {
	var request ListEventsRequest

	if err := handler.QueryBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	events, pagination, err := h.eventService.FindAll(c.Request.Context(), ListParams{
		Category:  request.Category,
		DateFrom:  request.DateFrom,
		DateTo:    request.DateTo,
		Search:    request.Search,
		SortBy:    request.SortBy,
		SortOrder: request.SortOrder,
		Page:      request.Page,
		PageSize:  request.PageSize,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	summaries := make([]EventSummary, len(events))
	for i, event := range events {
		summaries[i] = newEventSummary(event)
	}

	c.JSON(http.StatusOK, ListEventsResponse{Events: summaries, Pagination: pagination})
}

// FindById returns the full event including creator and attendees.
func (h Handler) FindById(c *gin.Context) {
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	event, err := h.eventService.FindById(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, event)
}

type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required,notblank,max=200"`
	Description string    `json:"description" binding:"required,notblank,max=2000"`
	Date        time.Time `json:"date" binding:"required"`
	Location    string    `json:"location" binding:"required,notblank,max=200"`
	Category    string    `json:"category" binding:"required,notblank,max=50"`
	CoverURL    string    `json:"coverUrl" binding:"required,url"`
	ImageURLs   []string  `json:"imageUrls" binding:"omitempty,dive,url"`
}

// Create a new event. The caller becomes the creator; the attendee set starts
// empty.
func (h Handler) Create(c *gin.Context) {
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var request CreateEventRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	event, err := h.eventService.Create(c.Request.Context(), user.ID, CreateEventData{
		Title:       request.Title,
		Description: request.Description,
		Date:        request.Date,
		Location:    request.Location,
		Category:    request.Category,
		CoverURL:    request.CoverURL,
		ImageURLs:   request.ImageURLs,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

type UpdateEventRequest struct {
	Title       *string    `json:"title" binding:"omitempty,notblank,max=200"`
	Description *string    `json:"description" binding:"omitempty,notblank,max=2000"`
	Date        *time.Time `json:"date" binding:"omitempty"`
	Location    *string    `json:"location" binding:"omitempty,notblank,max=200"`
	Category    *string    `json:"category" binding:"omitempty,notblank,max=50"`
	CoverURL    *string    `json:"coverUrl" binding:"omitempty,url"`
	ImageURLs   *[]string  `json:"imageUrls" binding:"omitempty,dive,url"`
}

// Update applies the present fields; absent fields keep their value. Creator
// only.
func (h Handler) Update(c *gin.Context) {
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	var request UpdateEventRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	event, err := h.eventService.Update(c.Request.Context(), user.ID, id, UpdateEventData{
		Title:       request.Title,
		Description: request.Description,
		Date:        request.Date,
		Location:    request.Location,
		Category:    request.Category,
		CoverURL:    request.CoverURL,
		ImageURLs:   request.ImageURLs,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// Delete removes the event and its attendee associations. Creator only.
func (h Handler) Delete(c *gin.Context) {
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	if err := h.eventService.Delete(c.Request.Context(), user.ID, id); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "event deleted"})
}

// Join adds the caller to the attendee set. Joining twice is a conflict.
func (h Handler) Join(c *gin.Context) {
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	event, err := h.eventService.Join(c.Request.Context(), user.ID, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// Leave removes the caller from the attendee set.
func (h Handler) Leave(c *gin.Context) {
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	event, err := h.eventService.Leave(c.Request.Context(), user.ID, id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, event)
}
