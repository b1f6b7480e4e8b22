package service

import (
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Rogue-Bear-Innovations/schoolhouse-back/internal/db"
)

type (
	// Catalog manages the two flat entities, courses and students. They are
	// structurally parallel: create/list/update/delete plus substring search
	// and an allow-listed sort column.
	Catalog struct {
		db       *gorm.DB
		logger   *zap.SugaredLogger
		validate *validator.Validate
	}

	CourseInput struct {
		Title       string `validate:"required"`
		Description string
		Instructor  string
		Level       string `validate:"omitempty,oneof=beginner intermediate advanced"`
		YoutubeLink string `validate:"omitempty,videohost"`
	}

	StudentInput struct {
		Name  string `validate:"required"`
		Email string `validate:"required,emailshape"`
	}
)

// Caller-supplied sort columns are mapped through these tables and never
// interpolated into a query directly. Unknown values fall back to the
// entity's display column.
var (
	courseSortColumns = map[string]string{
		"course_id":       "course_id",
		"title":           "title",
		"instructor_name": "instructor_name",
		"level":           "level",
	}
	studentSortColumns = map[string]string{
		"student_id": "student_id",
		"name":       "name",
		"email":      "email",
	}
)

func NewCatalog(client *gorm.DB, l *zap.SugaredLogger, v *validator.Validate) *Catalog {
	return &Catalog{
		db:       client,
		logger:   l,
		validate: v,
	}
}

func orderClause(allowed map[string]string, sortBy, fallback, order string) string {
	col, ok := allowed[sortBy]
	if !ok {
		col = fallback
	}
	dir := strings.ToUpper(order)
	if dir != "ASC" && dir != "DESC" {
		dir = "ASC"
	}
	return col + " " + dir
}

func (s *Catalog) CreateCourse(in CourseInput) (*db.Course, error) {
	if err := s.validate.Struct(&in); err != nil {
		return nil, invalid(err)
	}

	model := db.Course{
		Title:       in.Title,
		Description: in.Description,
		Instructor:  in.Instructor,
		Level:       in.Level,
		YoutubeLink: in.YoutubeLink,
	}
	res := s.db.Create(&model)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "insert course")
	}
	return &model, nil
}

func (s *Catalog) ListCourses(search, sortBy, order string) ([]db.Course, error) {
	q := squirrel.
		Select("course_id", "title", "description", "instructor_name", "level", "youtube_link").
		From("courses").
		OrderBy(orderClause(courseSortColumns, sortBy, "title", order))
	if search != "" {
		q = q.Where(squirrel.Like{"title": "%" + search + "%"})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build sql")
	}

	courses := make([]db.Course, 0)
	res := s.db.Raw(sql, args...).Scan(&courses)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "scan")
	}
	return courses, nil
}

// UpdateCourse overwrites every mutable field; there is no partial patch.
func (s *Catalog) UpdateCourse(id uint64, in CourseInput) error {
	if err := s.validate.Struct(&in); err != nil {
		return invalid(err)
	}

	res := s.db.Model(&db.Course{}).Where("course_id = ?", id).Updates(map[string]interface{}{
		"title":           in.Title,
		"description":     in.Description,
		"instructor_name": in.Instructor,
		"level":           in.Level,
		"youtube_link":    in.YoutubeLink,
	})
	if res.Error != nil {
		return errors.Wrap(res.Error, "update course")
	}
	return nil
}

// DeleteCourse hard-deletes the course; its favorites rows go with it via
// the cascade rule. Callers holding derived views must refresh them.
func (s *Catalog) DeleteCourse(id uint64) error {
	res := s.db.Delete(&db.Course{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete course")
	}
	return nil
}

func (s *Catalog) CreateStudent(in StudentInput) (*db.Student, error) {
	if err := s.validate.Struct(&in); err != nil {
		return nil, invalid(err)
	}

	model := db.Student{
		Name:  in.Name,
		Email: in.Email,
	}
	res := s.db.Create(&model)
	if res.Error != nil {
		if db.IsDuplicate(res.Error) {
			return nil, ErrDuplicate
		}
		return nil, errors.Wrap(res.Error, "insert student")
	}
	return &model, nil
}

func (s *Catalog) ListStudents(search, sortBy, order string) ([]db.Student, error) {
	q := squirrel.
		Select("student_id", "name", "email").
		From("students").
		OrderBy(orderClause(studentSortColumns, sortBy, "name", order))
	if search != "" {
		q = q.Where(squirrel.Like{"name": "%" + search + "%"})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build sql")
	}

	students := make([]db.Student, 0)
	res := s.db.Raw(sql, args...).Scan(&students)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "scan")
	}
	return students, nil
}

func (s *Catalog) UpdateStudent(id uint64, in StudentInput) error {
	if err := s.validate.Struct(&in); err != nil {
		return invalid(err)
	}

	res := s.db.Model(&db.Student{}).Where("student_id = ?", id).Updates(map[string]interface{}{
		"name":  in.Name,
		"email": in.Email,
	})
	if res.Error != nil {
		if db.IsDuplicate(res.Error) {
			return ErrDuplicate
		}
		return errors.Wrap(res.Error, "update student")
	}
	return nil
}

func (s *Catalog) DeleteStudent(id uint64) error {
	res := s.db.Delete(&db.Student{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete student")
	}
	return nil
}
