// Package listing turns a fetched set of academic load files into the
// render-ready orderings used by the dashboard: a flat faculty-first view
// for regular users and a term-first bucketed view for deans.
package listing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xzeggaedu/fica-academic-sub002/internal/model"
)

// Row is one entry of the default flat view, carrying the markers the
// presentation needs to draw group separators and version hints.
type Row struct {
	File model.AcademicLoadFile `json:"file"`
	// NewGroup is true when this row starts a new (faculty, school, term)
	// group relative to its predecessor.
	NewGroup bool `json:"new_group"`
	// HasInactiveFollowing is true when this row is the active version and
	// the next row in sequence belongs to the same group but is inactive.
	HasInactiveFollowing bool `json:"has_inactive_following"`
}

// FlatView filters by the free-text query and orders records by
// (faculty_id, school_id, term_id) ascending with versions descending
// inside each group. Record id is the final tiebreaker so the order is
// total.
func FlatView(files []model.AcademicLoadFile, query string) []Row {
	filtered := make([]model.AcademicLoadFile, 0, len(files))
	for _, f := range files {
		if matchesQuery(f, query) {
			filtered = append(filtered, f)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if a.FacultyID != b.FacultyID {
			return a.FacultyID < b.FacultyID
		}
		if a.SchoolID != b.SchoolID {
			return a.SchoolID < b.SchoolID
		}
		if a.TermID != b.TermID {
			return a.TermID < b.TermID
		}
		if a.Version != b.Version {
			return a.Version > b.Version
		}
		return a.ID < b.ID
	})

	rows := make([]Row, len(filtered))
	for i, f := range filtered {
		row := Row{File: f}
		if i == 0 || filtered[i-1].Group() != f.Group() {
			row.NewGroup = true
		}
		if f.IsActive && i+1 < len(filtered) &&
			filtered[i+1].Group() == f.Group() && !filtered[i+1].IsActive {
			row.HasInactiveFollowing = true
		}
		rows[i] = row
	}

	return rows
}

// matchesQuery reports whether any searchable field contains the query,
// case-insensitive. An empty query matches everything.
func matchesQuery(f model.AcademicLoadFile, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, field := range []string{f.OriginalFilename, f.FacultyName, f.SchoolName, f.UserName} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// BucketKey identifies one term bucket of the privileged view.
type BucketKey struct {
	TermID int64 `json:"term_id"`
	Number int   `json:"number"`
	Year   int   `json:"year"`
}

func (k BucketKey) String() string {
	return fmt.Sprintf("%d_%d_%d", k.TermID, k.Number, k.Year)
}

// Bucket is a term group of the privileged view together with its files
// and the derived billing-report flag.
type Bucket struct {
	Key   BucketKey                `json:"key"`
	Files []model.AcademicLoadFile `json:"files"`
	// HasBillingReport enables the consolidated-report action; it never
	// filters membership.
	HasBillingReport bool `json:"has_billing_report"`
}

// TermView buckets records by (term_id, term number, term year) for the
// dean view, ordering by (term_id, school_id, version desc, id). Records
// with missing term metadata cannot be placed in any bucket and are
// dropped. An id is placed at most once even if inconsistent term
// metadata would make it eligible for more than one bucket.
func TermView(files []model.AcademicLoadFile, reportFileIDs map[int64]struct{}) []Bucket {
	ordered := make([]model.AcademicLoadFile, len(files))
	copy(ordered, files)

	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.TermID != b.TermID {
			return a.TermID < b.TermID
		}
		if a.SchoolID != b.SchoolID {
			return a.SchoolID < b.SchoolID
		}
		if a.Version != b.Version {
			return a.Version > b.Version
		}
		return a.ID < b.ID
	})

	var buckets []Bucket
	index := make(map[BucketKey]int)
	seen := make(map[int64]struct{})

	for _, f := range ordered {
		if f.TermNumber == nil || f.TermYear == nil {
			continue
		}
		if _, dup := seen[f.ID]; dup {
			continue
		}
		seen[f.ID] = struct{}{}

		key := BucketKey{TermID: f.TermID, Number: *f.TermNumber, Year: *f.TermYear}
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, Bucket{Key: key})
		}

		buckets[i].Files = append(buckets[i].Files, f)
		if _, hasReport := reportFileIDs[f.ID]; hasReport {
			buckets[i].HasBillingReport = true
		}
	}

	return buckets
}

// Dropped returns the records TermView cannot bucket because their term
// metadata is incomplete. Used for diagnostics only.
func Dropped(files []model.AcademicLoadFile) []model.AcademicLoadFile {
	var dropped []model.AcademicLoadFile
	for _, f := range files {
		if f.TermNumber == nil || f.TermYear == nil {
			dropped = append(dropped, f)
		}
	}
	return dropped
}
