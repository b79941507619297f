package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/schoolops/timetable-api/pkg/errors"
)

func TestProjectSessionDate(t *testing.T) {
	anchor := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		priority int
		session  int
		want     string
	}{
		{"first week first session lands on the anchor", 1, 1, "2025-06-02"},
		{"second session advances one day", 1, 2, "2025-06-03"},
		{"second week starts seven days later", 2, 1, "2025-06-09"},
		{"pre-learning lands before the anchor", 1, -1, "2025-06-01"},
		{"deeper pre-learning goes further back", 1, -2, "2025-05-31"},
		{"pre-learning of a later week precedes that week", 3, -1, "2025-06-15"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ProjectSessionDate(&anchor, tc.priority, tc.session)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Format("2006-01-02"))
		})
	}
}

func TestProjectSessionDateMissingAnchor(t *testing.T) {
	_, err := ProjectSessionDate(nil, 1, 1)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrMissingAnchor))

	zero := time.Time{}
	_, err = ProjectSessionDate(&zero, 1, 1)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrMissingAnchor))
}

func TestProjectSessionDateInvalidInputs(t *testing.T) {
	anchor := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	_, err := ProjectSessionDate(&anchor, 0, 1)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))

	_, err = ProjectSessionDate(&anchor, 1, 0)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}
