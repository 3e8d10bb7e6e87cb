package services

import (
	"testing"

	"edulearn_backend/internal/repositories"
	"edulearn_backend/internal/testutil"
	"edulearn_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollmentLifecycle(t *testing.T) {
	f := newCourseFixture(t)
	svc := NewEnrollmentService(repositories.NewEnrollmentRepository(), repositories.NewCourseRepository())
	student := claimsFor(testutil.CreateStudent(t, f.db, "yanis@edulearn.fr"))
	course := createCourse(t, f, "a,b")

	mine, err := svc.ListMyCourses(f.db, student)
	require.NoError(t, err)
	assert.Empty(t, mine)

	_, err = svc.Enroll(f.db, student, 9999)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	enrollment, err := svc.Enroll(f.db, student, course.ID)
	require.NoError(t, err)
	assert.Equal(t, course.ID, enrollment.CourseID)
	assert.Equal(t, student.ID, enrollment.StudentID)

	_, err = svc.Enroll(f.db, student, course.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyEnrolled)

	mine, err = svc.ListMyCourses(f.db, student)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, []string{"a", "b"}, mine[0].Support)

	require.NoError(t, svc.Unenroll(f.db, student, course.ID))
	assert.ErrorIs(t, svc.Unenroll(f.db, student, course.ID), apperrors.ErrNotEnrolled)
}
