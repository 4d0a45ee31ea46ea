// Package memory provides in-memory implementations of all repository
// interfaces. Used by tests and by single-instructor desktop deployments
// that run without Postgres.
package memory

import (
	"sync"
	"time"

	"github.com/directaula/classroom-engine/internal/domain/group"
	"github.com/directaula/classroom-engine/internal/domain/ledger"
	"github.com/directaula/classroom-engine/internal/domain/student"
	"github.com/directaula/classroom-engine/pkg/timeutil"
)

// gradeKey is the upsert key for grade entries.
type gradeKey struct {
	studentCode  string
	categoryName string
	date         string
}

// attendanceKey is the upsert key for attendance entries.
type attendanceKey struct {
	studentCode string
	date        string
}

// db is the shared backing state. One mutex guards everything so that
// multi-table operations (student removal with ledger purge) stay atomic.
type db struct {
	mu         sync.RWMutex
	groups     map[string]group.Group
	rubrics    map[string]group.CategorySet
	students   map[student.EnrollmentCode]student.Student
	grades     map[gradeKey]ledger.GradeEntry
	attendance map[attendanceKey]ledger.AttendanceEntry
}

// Store bundles the in-memory repositories over one shared state.
type Store struct {
	Groups     *GroupRepository
	Rubrics    *RubricRepository
	Roster     *RosterRepository
	Grades     *GradeRepository
	Attendance *AttendanceRepository
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	d := &db{
		groups:     make(map[string]group.Group),
		rubrics:    make(map[string]group.CategorySet),
		students:   make(map[student.EnrollmentCode]student.Student),
		grades:     make(map[gradeKey]ledger.GradeEntry),
		attendance: make(map[attendanceKey]ledger.AttendanceEntry),
	}
	return &Store{
		Groups:     &GroupRepository{d: d},
		Rubrics:    &RubricRepository{d: d},
		Roster:     &RosterRepository{d: d},
		Grades:     &GradeRepository{d: d},
		Attendance: &AttendanceRepository{d: d},
	}
}

func dateKey(t time.Time) string {
	return timeutil.FormatDate(timeutil.DateOf(t))
}
