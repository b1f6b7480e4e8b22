package service

import (
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Rogue-Bear-Innovations/schoolhouse-back/internal/db"
)

type (
	// Favorites manages the student<->course relation keyed on the composite
	// (student_id, course_id) pair.
	Favorites struct {
		db     *gorm.DB
		logger *zap.SugaredLogger
	}

	// FavoriteRow is one joined entry: the relation plus both display labels.
	FavoriteRow struct {
		StudentID   uint64
		CourseID    uint64
		StudentName string
		CourseTitle string
		IsFavorite  bool
		Likes       int64
	}
)

// Sort ordinals follow the display column order of the favorites panel.
// Anything out of range sorts by student name.
var favoriteSortColumns = map[int]string{
	0: "s.name",
	1: "c.title",
	2: "f.is_favorite",
	3: "f.likes",
}

func NewFavorites(client *gorm.DB, l *zap.SugaredLogger) *Favorites {
	return &Favorites{
		db:     client,
		logger: l,
	}
}

// Upsert inserts the pair or, when it already exists, updates is_favorite
// only. The merge is a single statement, so a concurrent adjust can never
// be clobbered by a stale likes value read earlier.
func (s *Favorites) Upsert(studentID, courseID uint64, isFavorite bool, likes int64) error {
	if likes < 0 {
		likes = 0
	}
	row := db.Favorite{
		StudentID:  studentID,
		CourseID:   courseID,
		IsFavorite: isFavorite,
		Likes:      likes,
	}
	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "course_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"is_favorite": isFavorite}),
	}).Create(&row)
	if res.Error != nil {
		return errors.Wrap(res.Error, "upsert favorite")
	}
	return nil
}

// AdjustLikes shifts the counter by delta, clamped at zero in the statement
// itself. A missing row is a no-op, not an error.
func (s *Favorites) AdjustLikes(studentID, courseID uint64, delta int64) error {
	res := s.db.Model(&db.Favorite{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Update("likes", gorm.Expr("MAX(likes + ?, 0)", delta))
	if res.Error != nil {
		return errors.Wrap(res.Error, "adjust likes")
	}
	return nil
}

func (s *Favorites) Likes(studentID, courseID uint64) (int64, error) {
	row := db.Favorite{}
	res := s.db.Where("student_id = ? AND course_id = ?", studentID, courseID).First(&row)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, errors.Wrap(res.Error, "find favorite")
	}
	return row.Likes, nil
}

// List returns the joined favorites view. The inner join guarantees rows
// whose parent student or course is gone never appear.
func (s *Favorites) List(sortIdx int, order string) ([]FavoriteRow, error) {
	col, ok := favoriteSortColumns[sortIdx]
	if !ok {
		col = "s.name"
	}
	dir := strings.ToUpper(order)
	if dir != "ASC" && dir != "DESC" {
		dir = "ASC"
	}

	sql, args, err := squirrel.
		Select("s.name AS student_name", "c.title AS course_title",
			"f.is_favorite", "f.likes", "f.student_id", "f.course_id").
		From("favorites f").
		Join("students s ON f.student_id = s.student_id").
		Join("courses c ON f.course_id = c.course_id").
		OrderBy(col + " " + dir).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build sql")
	}

	rows := make([]FavoriteRow, 0)
	res := s.db.Raw(sql, args...).Scan(&rows)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "scan")
	}
	return rows, nil
}

func (s *Favorites) Delete(studentID, courseID uint64) error {
	res := s.db.Where("student_id = ? AND course_id = ?", studentID, courseID).Delete(&db.Favorite{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete favorite")
	}
	return nil
}
