package event

import (
	"context"
	"errors"

	"github.com/gatherhub/event-manager/internal/errdef"

	"github.com/gatherhub/event-manager/pkg/model"
	"gorm.io/gorm"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(db *gorm.DB) *repository {
	return &repository{db}
}

type repository struct {
	db *gorm.DB
}

func (r repository) create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(&event).Error
}

func (r repository) save(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Save(&event).Error
}

func (r repository) findById(ctx context.Context, id uint) (*model.Event, error) {
	var event *model.Event
	err := r.db.
		WithContext(ctx).
		Preload("CreatedBy").
		Preload("Attendees").
		First(&event, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("failed to find event with id %d", id)
	}
	return event, err
}

// findAll runs the count and the page query in one transaction so the
// pagination metadata is consistent with the returned page.
func (r repository) findAll(ctx context.Context, params ListParams) ([]*model.Event, int64, error) {
	var events []*model.Event
	var total int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&model.Event{})

		if params.Category != "" {
			query = query.Where("LOWER(category) = LOWER(?)", params.Category)
		}
		if params.DateFrom != nil {
			query = query.Where("date >= ?", *params.DateFrom)
		}
		if params.DateTo != nil {
			query = query.Where("date <= ?", *params.DateTo)
		}
		if params.Search != "" {
			pattern := "%" + params.Search + "%"
			query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
		}

		if err := query.Count(&total).Error; err != nil {
			return err
		}

		return query.
			Preload("CreatedBy").
			Preload("Attendees").
			Order(orderClause(params.SortBy, params.SortOrder)).
			Offset((params.Page - 1) * params.PageSize).
			Limit(params.PageSize).
			Find(&events).Error
	})

	return events, total, err
}

func orderClause(sortBy string, sortOrder string) string {
	direction := "ASC"
	if sortOrder == "desc" {
		direction = "DESC"
	}

	switch sortBy {
	case "title":
		return "title " + direction
	case "attendeeCount":
		// sorts by the cardinality of the attendee set
		return "(SELECT COUNT(*) FROM event_attendees WHERE event_attendees.event_id = events.id) " + direction
	default:
		return "date " + direction
	}
}

func (r repository) delete(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(event).Association("Attendees").Clear(); err != nil {
			return err
		}
		return tx.Delete(event).Error
	})
}

// addAttendee inserts into the join table. The association upsert makes the
// add idempotent at the storage level; the user facing already-joined conflict
// comes from the service's membership check.
func (r repository) addAttendee(ctx context.Context, event *model.Event, userId uint) error {
	return r.db.
		WithContext(ctx).
		Model(event).
		Association("Attendees").
		Append(&model.User{ID: userId})
}

// removeAttendee is a no-op when the user isn't a member.
func (r repository) removeAttendee(ctx context.Context, event *model.Event, userId uint) error {
	return r.db.
		WithContext(ctx).
		Model(event).
		Association("Attendees").
		Delete(&model.User{ID: userId})
}
