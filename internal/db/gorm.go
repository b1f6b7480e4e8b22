package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Rogue-Bear-Innovations/schoolhouse-back/internal/config"
)

type (
	User struct {
		ID           uint64 `gorm:"column:user_id;primaryKey"`
		Username     string `gorm:"column:username;unique;not null"`
		PasswordHash string `gorm:"column:password_hash;not null"`
	}

	Course struct {
		ID          uint64 `gorm:"column:course_id;primaryKey"`
		Title       string `gorm:"column:title;not null"`
		Description string `gorm:"column:description"`
		Instructor  string `gorm:"column:instructor_name"`
		Level       string `gorm:"column:level"`
		YoutubeLink string `gorm:"column:youtube_link"`
	}

	Student struct {
		ID    uint64 `gorm:"column:student_id;primaryKey"`
		Name  string `gorm:"column:name;not null"`
		Email string `gorm:"column:email;unique;not null"`
	}

	Favorite struct {
		StudentID  uint64 `gorm:"column:student_id;primaryKey;autoIncrement:false"`
		CourseID   uint64 `gorm:"column:course_id;primaryKey;autoIncrement:false"`
		IsFavorite bool   `gorm:"column:is_favorite"`
		Likes      int64  `gorm:"column:likes"`
	}
)

func (User) TableName() string     { return "users" }
func (Course) TableName() string   { return "courses" }
func (Student) TableName() string  { return "students" }
func (Favorite) TableName() string { return "favorites" }

// The DDL is kept literal so the file stays readable by the previous
// generation of the tool. AutoMigrate would invent its own constraint and
// index shapes.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id INTEGER PRIMARY KEY AUTOINCREMENT,
		username VARCHAR(100) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		course_id INTEGER PRIMARY KEY AUTOINCREMENT,
		title VARCHAR(255) NOT NULL,
		description TEXT,
		instructor_name VARCHAR(100),
		level VARCHAR(50),
		youtube_link VARCHAR(255)
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		student_id INTEGER PRIMARY KEY AUTOINCREMENT,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(100) UNIQUE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS favorites (
		student_id INTEGER,
		course_id INTEGER,
		is_favorite BOOLEAN DEFAULT FALSE,
		likes INTEGER DEFAULT 0,
		PRIMARY KEY (student_id, course_id),
		FOREIGN KEY (student_id) REFERENCES students(student_id) ON DELETE CASCADE,
		FOREIGN KEY (course_id) REFERENCES courses(course_id) ON DELETE CASCADE
	)`,
}

func NewClient(cfg *config.Config) (*gorm.DB, error) {
	newLogger := logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		Colorful:                  true,
		IgnoreRecordNotFoundError: false,
	})

	// sqlite does not enforce foreign keys unless every connection asks for
	// it; cascade deletes silently stop working otherwise.
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", cfg.DBPath)
	client, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	sqlDB, err := client.DB()
	if err != nil {
		return nil, errors.Wrap(err, "unwrap sql.DB")
	}
	// Single writer. Every storage call goes through one connection, which
	// removes the lost-update window between a read and a dependent write.
	sqlDB.SetMaxOpenConns(1)

	if err := Init(client); err != nil {
		return nil, err
	}

	return client, nil
}

// Init creates the four tables if absent. Safe to call on every start.
func Init(client *gorm.DB) error {
	for _, stmt := range schema {
		if err := client.Exec(stmt).Error; err != nil {
			return errors.Wrap(err, "create tables")
		}
	}
	return nil
}

// IsDuplicate reports whether err is a uniqueness-constraint violation, the
// one storage error callers branch on. Everything else is a generic failure.
func IsDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
