package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIngestionStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusProcessing.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
}

func TestIngestionStatusValid(t *testing.T) {
	for _, s := range []IngestionStatus{StatusPending, StatusProcessing, StatusCompleted, StatusFailed} {
		assert.True(t, s.Valid())
	}
	assert.False(t, IngestionStatus("UNKNOWN").Valid())
	assert.False(t, IngestionStatus("").Valid())
}

func TestGroupKey(t *testing.T) {
	a := AcademicLoadFile{FacultyID: 1, SchoolID: 2, TermID: 3, Version: 1}
	b := AcademicLoadFile{FacultyID: 1, SchoolID: 2, TermID: 3, Version: 5}
	c := AcademicLoadFile{FacultyID: 1, SchoolID: 2, TermID: 4}

	assert.Equal(t, a.Group(), b.Group())
	assert.NotEqual(t, a.Group(), c.Group())
}
