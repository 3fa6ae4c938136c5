package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name      string
		sortBy    string
		sortOrder string
		want      string
	}{
		{
			name:      "DateAscendingByDefault",
			sortBy:    "",
			sortOrder: "",
			want:      "date ASC",
		},
		{
			name:      "DateDescending",
			sortBy:    "date",
			sortOrder: "desc",
			want:      "date DESC",
		},
		{
			name:      "TitleAscending",
			sortBy:    "title",
			sortOrder: "asc",
			want:      "title ASC",
		},
		{
			name:      "TitleDescending",
			sortBy:    "title",
			sortOrder: "desc",
			want:      "title DESC",
		},
		{
			name:      "AttendeeCountAscending",
			sortBy:    "attendeeCount",
			sortOrder: "asc",
			want:      "(SELECT COUNT(*) FROM event_attendees WHERE event_attendees.event_id = events.id) ASC",
		},
		{
			name:      "AttendeeCountDescending",
			sortBy:    "attendeeCount",
			sortOrder: "desc",
			want:      "(SELECT COUNT(*) FROM event_attendees WHERE event_attendees.event_id = events.id) DESC",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, orderClause(test.sortBy, test.sortOrder))
		})
	}
}
