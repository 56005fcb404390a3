package listing

import (
	"testing"

	"github.com/xzeggaedu/fica-academic-sub002/internal/model"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func file(id, facultyID, schoolID, termID int64, version int, active bool) model.AcademicLoadFile {
	return model.AcademicLoadFile{
		ID:        id,
		FacultyID: facultyID,
		SchoolID:  schoolID,
		TermID:    termID,
		Version:   version,
		IsActive:  active,
		Status:    model.StatusCompleted,
	}
}

func TestFlatViewOrdersGroupsWithVersionsDescending(t *testing.T) {
	files := []model.AcademicLoadFile{
		file(4, 2, 1, 1, 1, true),
		file(2, 1, 1, 1, 1, false),
		file(1, 1, 1, 1, 2, true),
		file(3, 1, 2, 1, 1, true),
	}

	rows := FlatView(files, "")

	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.File.ID
	}
	assert.Equal(t, []int64{1, 2, 3, 4}, ids)

	assert.True(t, rows[0].NewGroup)
	assert.False(t, rows[1].NewGroup)
	assert.True(t, rows[2].NewGroup)
	assert.True(t, rows[3].NewGroup)
}

func TestFlatViewIsDeterministic(t *testing.T) {
	files := []model.AcademicLoadFile{
		file(3, 1, 1, 1, 1, false),
		file(1, 1, 1, 1, 1, false), // same version, id breaks the tie
		file(2, 1, 1, 1, 2, true),
	}

	first := FlatView(files, "")
	second := FlatView(files, "")

	assert.Equal(t, first, second)
	assert.Equal(t, int64(2), first[0].File.ID)
	assert.Equal(t, int64(1), first[1].File.ID)
	assert.Equal(t, int64(3), first[2].File.ID)
}

func TestFlatViewFlagsActiveWithInactiveFollowing(t *testing.T) {
	// Scenario: two versions in one group, the newer one active.
	files := []model.AcademicLoadFile{
		file(1, 1, 1, 1, 2, true),
		file(2, 1, 1, 1, 1, false),
	}

	rows := FlatView(files, "")

	assert.Equal(t, int64(1), rows[0].File.ID)
	assert.Equal(t, int64(2), rows[1].File.ID)
	assert.True(t, rows[0].HasInactiveFollowing)
	assert.False(t, rows[1].HasInactiveFollowing)
}

func TestFlatViewActiveLastInGroupNotFlagged(t *testing.T) {
	// The backend may reactivate an older version; the flag only applies
	// when an inactive record follows in the same group.
	files := []model.AcademicLoadFile{
		file(1, 1, 1, 1, 2, false),
		file(2, 1, 1, 1, 1, true),
	}

	rows := FlatView(files, "")

	assert.False(t, rows[0].HasInactiveFollowing)
	assert.False(t, rows[1].HasInactiveFollowing)
}

func TestFlatViewSearchMatchesAnyField(t *testing.T) {
	f1 := file(1, 1, 1, 1, 1, true)
	f1.OriginalFilename = "carga_economia.xlsx"
	f1.FacultyName = "Engineering"
	f1.SchoolName = "Computing"
	f1.UserName = "mlopez"

	f2 := file(2, 2, 2, 2, 1, true)
	f2.OriginalFilename = "other.xlsx"
	f2.FacultyName = "Medicine"
	f2.SchoolName = "Nursing"
	f2.UserName = "jperez"

	files := []model.AcademicLoadFile{f1, f2}

	assert.Len(t, FlatView(files, "ECONOMIA"), 1)
	assert.Len(t, FlatView(files, "nurs"), 1)
	assert.Len(t, FlatView(files, "mlopez"), 1)
	assert.Len(t, FlatView(files, ".xlsx"), 2)
	assert.Len(t, FlatView(files, "philosophy"), 0)
	assert.Len(t, FlatView(files, ""), 2)
}

func TestTermViewBucketsByTermMetadata(t *testing.T) {
	f1 := file(1, 1, 10, 5, 1, true)
	f1.TermNumber = intPtr(1)
	f1.TermYear = intPtr(2024)

	f2 := file(2, 1, 11, 5, 1, true)
	f2.TermNumber = intPtr(1)
	f2.TermYear = intPtr(2024)

	buckets := TermView([]model.AcademicLoadFile{f1, f2}, nil)

	assert.Len(t, buckets, 1)
	assert.Equal(t, "5_1_2024", buckets[0].Key.String())
	assert.Len(t, buckets[0].Files, 2)
	// Within a bucket order follows (school_id, version desc).
	assert.Equal(t, int64(1), buckets[0].Files[0].ID)
	assert.Equal(t, int64(2), buckets[0].Files[1].ID)
	assert.False(t, buckets[0].HasBillingReport)
}

func TestTermViewEveryBucketableRecordPlacedOnce(t *testing.T) {
	var files []model.AcademicLoadFile
	for i := int64(1); i <= 20; i++ {
		f := file(i, 1, i%3, i%4+1, 1, true)
		f.TermNumber = intPtr(int(i % 2))
		f.TermYear = intPtr(2024)
		files = append(files, f)
	}
	// Duplicate entries for the same id must not produce double placement.
	files = append(files, files[0], files[5])

	buckets := TermView(files, nil)

	seen := make(map[int64]int)
	for _, b := range buckets {
		for _, f := range b.Files {
			seen[f.ID]++
		}
	}

	assert.Len(t, seen, 20)
	for id, count := range seen {
		assert.Equalf(t, 1, count, "id %d placed %d times", id, count)
	}
}

func TestTermViewDropsRecordsWithMissingTermMetadata(t *testing.T) {
	complete := file(1, 1, 1, 5, 1, true)
	complete.TermNumber = intPtr(2)
	complete.TermYear = intPtr(2025)

	noNumber := file(2, 1, 1, 6, 1, true)
	noNumber.TermYear = intPtr(2025)

	noYear := file(3, 1, 1, 7, 1, true)
	noYear.TermNumber = intPtr(2)

	files := []model.AcademicLoadFile{complete, noNumber, noYear}

	buckets := TermView(files, nil)
	assert.Len(t, buckets, 1)
	assert.Len(t, buckets[0].Files, 1)
	assert.Equal(t, int64(1), buckets[0].Files[0].ID)

	dropped := Dropped(files)
	assert.Len(t, dropped, 2)
}

func TestTermViewBillingReportFlag(t *testing.T) {
	f1 := file(1, 1, 1, 5, 1, true)
	f1.TermNumber = intPtr(1)
	f1.TermYear = intPtr(2024)

	f2 := file(2, 1, 1, 6, 1, true)
	f2.TermNumber = intPtr(2)
	f2.TermYear = intPtr(2024)

	reports := map[int64]struct{}{1: {}}

	buckets := TermView([]model.AcademicLoadFile{f1, f2}, reports)

	assert.Len(t, buckets, 2)
	assert.True(t, buckets[0].HasBillingReport)
	assert.False(t, buckets[1].HasBillingReport)
	// The flag never filters membership.
	assert.Len(t, buckets[1].Files, 1)
}

func TestTermViewOrdersBucketsByTerm(t *testing.T) {
	f1 := file(1, 1, 1, 9, 1, true)
	f1.TermNumber = intPtr(2)
	f1.TermYear = intPtr(2024)

	f2 := file(2, 1, 1, 3, 1, true)
	f2.TermNumber = intPtr(1)
	f2.TermYear = intPtr(2024)

	buckets := TermView([]model.AcademicLoadFile{f1, f2}, nil)

	assert.Len(t, buckets, 2)
	assert.Equal(t, int64(3), buckets[0].Key.TermID)
	assert.Equal(t, int64(9), buckets[1].Key.TermID)
}
