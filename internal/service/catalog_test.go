package service

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCourseValidation(t *testing.T) {
	_, catalog, _ := newTestServices(t)

	_, err := catalog.CreateCourse(CourseInput{Title: ""})
	assert.True(t, errors.Is(err, ErrValidation))

	// The rejected create never reached storage.
	courses, err := catalog.ListCourses("", "", "")
	require.NoError(t, err)
	assert.Empty(t, courses)

	_, err = catalog.CreateCourse(CourseInput{Title: "Intro", YoutubeLink: "https://vimeo.com/abc"})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = catalog.CreateCourse(CourseInput{Title: "Intro", YoutubeLink: "https://youtu.be/abc123"})
	assert.NoError(t, err)

	_, err = catalog.CreateCourse(CourseInput{Title: "No Video"})
	assert.NoError(t, err)

	_, err = catalog.CreateCourse(CourseInput{Title: "Bad Level", Level: "expert"})
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestListCoursesSortFallback(t *testing.T) {
	_, catalog, _ := newTestServices(t)

	for _, title := range []string{"banana", "apple", "cherry"} {
		_, err := catalog.CreateCourse(CourseInput{Title: title})
		require.NoError(t, err)
	}

	courses, err := catalog.ListCourses("", "not_a_real_column", "")
	require.NoError(t, err)
	require.Len(t, courses, 3)
	assert.Equal(t, "apple", courses[0].Title)
	assert.Equal(t, "banana", courses[1].Title)
	assert.Equal(t, "cherry", courses[2].Title)

	courses, err = catalog.ListCourses("", "course_id", "desc")
	require.NoError(t, err)
	assert.Equal(t, "cherry", courses[0].Title)

	// Orders outside ASC/DESC fall back to ascending.
	courses, err = catalog.ListCourses("", "title", "sideways")
	require.NoError(t, err)
	assert.Equal(t, "apple", courses[0].Title)
}

func TestListCoursesSearch(t *testing.T) {
	_, catalog, _ := newTestServices(t)

	for _, title := range []string{"Go Basics", "Advanced Go", "Rust Basics"} {
		_, err := catalog.CreateCourse(CourseInput{Title: title})
		require.NoError(t, err)
	}

	courses, err := catalog.ListCourses("Go", "", "")
	require.NoError(t, err)
	assert.Len(t, courses, 2)

	courses, err = catalog.ListCourses("", "", "")
	require.NoError(t, err)
	assert.Len(t, courses, 3)
}

func TestUpdateCourseOverwritesAllFields(t *testing.T) {
	_, catalog, _ := newTestServices(t)

	course, err := catalog.CreateCourse(CourseInput{
		Title:       "Intro",
		Description: "old description",
		Instructor:  "Smith",
		Level:       "beginner",
	})
	require.NoError(t, err)

	err = catalog.UpdateCourse(course.ID, CourseInput{Title: "Intro v2", Level: "intermediate"})
	require.NoError(t, err)

	courses, err := catalog.ListCourses("", "", "")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Intro v2", courses[0].Title)
	assert.Equal(t, "", courses[0].Description)
	assert.Equal(t, "", courses[0].Instructor)
	assert.Equal(t, "intermediate", courses[0].Level)
}

func TestStudentValidation(t *testing.T) {
	_, catalog, _ := newTestServices(t)

	_, err := catalog.CreateStudent(StudentInput{Name: "", Email: "alice@x.com"})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = catalog.CreateStudent(StudentInput{Name: "Alice", Email: "alicex.com"})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = catalog.CreateStudent(StudentInput{Name: "Alice", Email: "alice@xcom"})
	assert.True(t, errors.Is(err, ErrValidation))

	students, err := catalog.ListStudents("", "", "")
	require.NoError(t, err)
	assert.Empty(t, students)
}

func TestStudentDuplicateEmail(t *testing.T) {
	_, catalog, _ := newTestServices(t)

	_, err := catalog.CreateStudent(StudentInput{Name: "Alice", Email: "alice@x.com"})
	require.NoError(t, err)

	_, err = catalog.CreateStudent(StudentInput{Name: "Other Alice", Email: "alice@x.com"})
	assert.True(t, errors.Is(err, ErrDuplicate))

	bob, err := catalog.CreateStudent(StudentInput{Name: "Bob", Email: "bob@x.com"})
	require.NoError(t, err)

	err = catalog.UpdateStudent(bob.ID, StudentInput{Name: "Bob", Email: "alice@x.com"})
	assert.True(t, errors.Is(err, ErrDuplicate))
}

func TestStudentListSort(t *testing.T) {
	_, catalog, _ := newTestServices(t)

	_, err := catalog.CreateStudent(StudentInput{Name: "Zoe", Email: "a@x.com"})
	require.NoError(t, err)
	_, err = catalog.CreateStudent(StudentInput{Name: "Alice", Email: "z@x.com"})
	require.NoError(t, err)

	students, err := catalog.ListStudents("", "bogus", "")
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Alice", students[0].Name)

	students, err = catalog.ListStudents("", "email", "ASC")
	require.NoError(t, err)
	assert.Equal(t, "Zoe", students[0].Name)
}

func TestStudentUpdateAndDelete(t *testing.T) {
	_, catalog, _ := newTestServices(t)

	student, err := catalog.CreateStudent(StudentInput{Name: "Alice", Email: "alice@x.com"})
	require.NoError(t, err)

	require.NoError(t, catalog.UpdateStudent(student.ID, StudentInput{Name: "Alice B", Email: "alice.b@x.com"}))

	students, err := catalog.ListStudents("", "", "")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Alice B", students[0].Name)
	assert.Equal(t, "alice.b@x.com", students[0].Email)

	require.NoError(t, catalog.DeleteStudent(student.ID))

	students, err = catalog.ListStudents("", "", "")
	require.NoError(t, err)
	assert.Empty(t, students)
}
