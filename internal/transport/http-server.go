package transport

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/schoolhouse-back/internal/config"
	"github.com/Rogue-Bear-Innovations/schoolhouse-back/internal/db"
	"github.com/Rogue-Bear-Innovations/schoolhouse-back/internal/service"
)

type (
	RegisterReq struct {
		Username        string `json:"username" validate:"required,min=3"`
		Password        string `json:"password" validate:"required,min=6"`
		PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	}

	LoginReq struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	CourseReq struct {
		Title       string `json:"title" validate:"required"`
		Description string `json:"description"`
		Instructor  string `json:"instructor"`
		Level       string `json:"level"`
		YoutubeLink string `json:"youtube_link"`
	}

	CourseResp struct {
		ID          uint64 `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description,omitempty"`
		Instructor  string `json:"instructor,omitempty"`
		Level       string `json:"level,omitempty"`
		YoutubeLink string `json:"youtube_link,omitempty"`
	}

	StudentReq struct {
		Name  string `json:"name" validate:"required"`
		Email string `json:"email" validate:"required"`
	}

	StudentResp struct {
		ID    uint64 `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	FavoriteReq struct {
		StudentID  uint64 `json:"student_id" validate:"required"`
		CourseID   uint64 `json:"course_id" validate:"required"`
		IsFavorite bool   `json:"is_favorite"`
		Likes      int64  `json:"likes"`
	}

	LikesReq struct {
		StudentID uint64 `json:"student_id" validate:"required"`
		CourseID  uint64 `json:"course_id" validate:"required"`
		Delta     int64  `json:"delta" validate:"required"`
	}

	FavoriteResp struct {
		StudentID   uint64 `json:"student_id"`
		CourseID    uint64 `json:"course_id"`
		StudentName string `json:"student_name"`
		CourseTitle string `json:"course_title"`
		IsFavorite  bool   `json:"is_favorite"`
		Likes       int64  `json:"likes"`
	}

	CustomValidator struct {
		validator *validator.Validate
	}

	HTTPServer struct {
		echo       *echo.Echo
		credential *service.Credential
		catalog    *service.Catalog
		favorites  *service.Favorites
		sessions   *SessionStore
		logger     *zap.SugaredLogger
	}
)

func newServer(credential *service.Credential, catalog *service.Catalog, favorites *service.Favorites,
	sessions *SessionStore, validate *validator.Validate, logger *zap.SugaredLogger) *HTTPServer {
	e := echo.New()

	instance := HTTPServer{
		echo:       e,
		credential: credential,
		catalog:    catalog,
		favorites:  favorites,
		sessions:   sessions,
		logger:     logger,
	}

	e.POST("/auth/register", instance.Register)
	e.POST("/auth/login", instance.Login)

	courseG := e.Group("/course")
	courseG.GET("", instance.CourseList)
	courseG.POST("", instance.CourseCreate)
	courseG.PUT("/:id", instance.CourseUpdate)
	courseG.DELETE("/:id", instance.CourseDelete)

	studentG := e.Group("/student")
	studentG.GET("", instance.StudentList)
	studentG.POST("", instance.StudentCreate)
	studentG.PUT("/:id", instance.StudentUpdate)
	studentG.DELETE("/:id", instance.StudentDelete)

	favoriteG := e.Group("/favorite")
	favoriteG.GET("", instance.FavoriteList)
	favoriteG.PUT("", instance.FavoriteUpsert)
	favoriteG.POST("/likes", instance.FavoriteAdjustLikes)
	favoriteG.DELETE("/:student_id/:course_id", instance.FavoriteDelete)

	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Use(instance.AuthMiddleware)

	e.Validator = &CustomValidator{validator: validate}

	echo.NotFoundHandler = func(c echo.Context) error {
		return c.NoContent(http.StatusNotFound)
	}

	return &instance
}

func NewHTTPServer(lc fx.Lifecycle, cfg *config.Config, credential *service.Credential,
	catalog *service.Catalog, favorites *service.Favorites, sessions *SessionStore,
	validate *validator.Validate, logger *zap.SugaredLogger) *HTTPServer {
	instance := newServer(credential, catalog, favorites, sessions, validate, logger)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				listen := cfg.Host + ":" + cfg.Port
				if err := instance.echo.Start(listen); err != nil && err != http.ErrServerClosed {
					instance.echo.Logger.Fatal("shutting down the server")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server.")
			return instance.echo.Shutdown(ctx)
		},
	})

	return instance
}

func (s *HTTPServer) Register(c echo.Context) error {
	req := RegisterReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	if err := s.credential.Register(req.Username, req.Password); err != nil {
		return s.httpError(err)
	}
	resp := struct {
		Status string `json:"status"`
	}{
		Status: "registered",
	}
	return c.JSON(http.StatusCreated, &resp)
}

func (s *HTTPServer) Login(c echo.Context) error {
	req := LoginReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	ok, err := s.credential.Verify(req.Username, req.Password)
	if err != nil {
		return s.httpError(err)
	}
	if !ok {
		return c.NoContent(http.StatusUnauthorized)
	}

	token := uuid.New().String()
	s.sessions.Put(token, req.Username)
	resp := struct {
		Token string `json:"token"`
	}{
		Token: token,
	}
	return c.JSON(http.StatusOK, &resp)
}

func (s *HTTPServer) CourseList(c echo.Context) error {
	courses, err := s.catalog.ListCourses(
		c.QueryParam("search"), c.QueryParam("sort_by"), c.QueryParam("order"))
	if err != nil {
		return s.httpError(err)
	}

	resp := make([]CourseResp, len(courses))
	for i := range courses {
		resp[i] = courseResp(&courses[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *HTTPServer) CourseCreate(c echo.Context) error {
	req := CourseReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	model, err := s.catalog.CreateCourse(courseInput(&req))
	if err != nil {
		return s.httpError(err)
	}
	return c.JSON(http.StatusOK, courseResp(model))
}

func (s *HTTPServer) CourseUpdate(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}

	req := CourseReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	if err := s.catalog.UpdateCourse(id, courseInput(&req)); err != nil {
		return s.httpError(err)
	}

	resp := courseResp(&db.Course{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Instructor:  req.Instructor,
		Level:       req.Level,
		YoutubeLink: req.YoutubeLink,
	})
	return c.JSON(http.StatusOK, resp)
}

func (s *HTTPServer) CourseDelete(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	if err := s.catalog.DeleteCourse(id); err != nil {
		return s.httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *HTTPServer) StudentList(c echo.Context) error {
	students, err := s.catalog.ListStudents(
		c.QueryParam("search"), c.QueryParam("sort_by"), c.QueryParam("order"))
	if err != nil {
		return s.httpError(err)
	}

	resp := make([]StudentResp, len(students))
	for i := range students {
		resp[i] = StudentResp{
			ID:    students[i].ID,
			Name:  students[i].Name,
			Email: students[i].Email,
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *HTTPServer) StudentCreate(c echo.Context) error {
	req := StudentReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	model, err := s.catalog.CreateStudent(service.StudentInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return s.httpError(err)
	}
	return c.JSON(http.StatusOK, StudentResp{
		ID:    model.ID,
		Name:  model.Name,
		Email: model.Email,
	})
}

func (s *HTTPServer) StudentUpdate(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}

	req := StudentReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	if err := s.catalog.UpdateStudent(id, service.StudentInput{
		Name:  req.Name,
		Email: req.Email,
	}); err != nil {
		return s.httpError(err)
	}
	return c.JSON(http.StatusOK, StudentResp{
		ID:    id,
		Name:  req.Name,
		Email: req.Email,
	})
}

func (s *HTTPServer) StudentDelete(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	if err := s.catalog.DeleteStudent(id); err != nil {
		return s.httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *HTTPServer) FavoriteList(c echo.Context) error {
	sortIdx, _ := strconv.Atoi(c.QueryParam("sort_by"))

	rows, err := s.favorites.List(sortIdx, c.QueryParam("order"))
	if err != nil {
		return s.httpError(err)
	}

	resp := make([]FavoriteResp, len(rows))
	for i := range rows {
		resp[i] = FavoriteResp{
			StudentID:   rows[i].StudentID,
			CourseID:    rows[i].CourseID,
			StudentName: rows[i].StudentName,
			CourseTitle: rows[i].CourseTitle,
			IsFavorite:  rows[i].IsFavorite,
			Likes:       rows[i].Likes,
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *HTTPServer) FavoriteUpsert(c echo.Context) error {
	req := FavoriteReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	if err := s.favorites.Upsert(req.StudentID, req.CourseID, req.IsFavorite, req.Likes); err != nil {
		return s.httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *HTTPServer) FavoriteAdjustLikes(c echo.Context) error {
	req := LikesReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	if err := s.favorites.AdjustLikes(req.StudentID, req.CourseID, req.Delta); err != nil {
		return s.httpError(err)
	}

	likes, err := s.favorites.Likes(req.StudentID, req.CourseID)
	if err != nil {
		return s.httpError(err)
	}
	resp := struct {
		Likes int64 `json:"likes"`
	}{
		Likes: likes,
	}
	return c.JSON(http.StatusOK, &resp)
}

func (s *HTTPServer) FavoriteDelete(c echo.Context) error {
	studentID, err := GetAndParseParam(c, "student_id")
	if err != nil {
		return err
	}
	courseID, err := GetAndParseParam(c, "course_id")
	if err != nil {
		return err
	}
	if err := s.favorites.Delete(studentID, courseID); err != nil {
		return s.httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *HTTPServer) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Path() == "/auth/register" || c.Path() == "/auth/login" || c.Path() == "/ping" {
			return next(c)
		}
		token := ""
		for key, values := range c.Request().Header {
			if strings.ToLower(key) == "x-token" {
				token = values[0]
				break
			}
		}
		if token == "" {
			return c.NoContent(http.StatusUnauthorized)
		}
		username, ok := s.sessions.Username(token)
		if !ok {
			return c.NoContent(http.StatusUnauthorized)
		}

		c.Set("username", username)
		return next(c)
	}
}

// httpError maps the three caller-visible error kinds: duplicate key,
// validation, and everything else (generic storage failure).
func (s *HTTPServer) httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrDuplicate):
		return echo.NewHTTPError(http.StatusConflict, "duplicate")
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		s.logger.Errorw("storage failure", "error", err)
		return err
	}
}

func courseInput(req *CourseReq) service.CourseInput {
	return service.CourseInput{
		Title:       req.Title,
		Description: req.Description,
		Instructor:  req.Instructor,
		Level:       req.Level,
		YoutubeLink: req.YoutubeLink,
	}
}

func courseResp(model *db.Course) CourseResp {
	return CourseResp{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		Instructor:  model.Instructor,
		Level:       model.Level,
		YoutubeLink: model.YoutubeLink,
	}
}

////////

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func BindAndValidate(c echo.Context, v interface{}) error {
	var err error
	if err = c.Bind(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err = c.Validate(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func GetParam(c echo.Context, name string) (string, error) {
	value := c.Param(name)
	if value == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid path param '"+name+"'")
	}
	return value, nil
}

func GetAndParseParam(c echo.Context, name string) (uint64, error) {
	v, e := GetParam(c, name)
	if e != nil {
		return 0, e
	}
	vv, e := strconv.ParseUint(v, 10, 64)
	if e != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid path param '"+name+"'")
	}
	return vv, nil
}
