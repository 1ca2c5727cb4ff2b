package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/crewbase/core/internal/adapters/memory"
	"github.com/crewbase/core/internal/application/services"
	"github.com/crewbase/core/internal/domain/entities"
	"github.com/crewbase/core/internal/infrastructure/logger"
	"github.com/crewbase/core/internal/ports"
)

type structValidator struct {
	validate *validator.Validate
}

func (v *structValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// handlerEnv is a minimal wired router: real stores, real services, real
// handlers, no infrastructure server.
type handlerEnv struct {
	e       *echo.Echo
	foreman *entities.User
	tiler   *entities.User
	project *entities.Project
	task    *entities.Task
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()

	ctx := context.Background()
	log := &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}

	users := memory.NewUserStore()
	projects := memory.NewProjectStore()
	activity := memory.NewActivityStore()

	foreman := &entities.User{DisplayName: "Marko"}
	tiler := &entities.User{DisplayName: "Jana"}
	require.NoError(t, users.Create(ctx, foreman))
	require.NoError(t, users.Create(ctx, tiler))

	projectSvc := services.NewProjectService(projects, users, log)
	taskSvc := services.NewTaskService(projects, users, activity, log)
	sessionSvc := services.NewSessionService(users, log)

	project, err := projectSvc.CreateProject(ctx, ports.CreateProjectRequest{
		Name:      "Hartley Kitchen",
		MemberIDs: []uuid.UUID{tiler.ID},
	}, foreman.ID)
	require.NoError(t, err)

	task, err := taskSvc.CreateTask(ctx, project.ID, foreman.ID, ports.CreateTaskRequest{
		Title:       "Demo old tiles",
		AssigneeIDs: []uuid.UUID{tiler.ID},
	})
	require.NoError(t, err)

	e := echo.New()
	e.Validator = &structValidator{validate: validator.New()}

	taskHandler := NewTaskHandler(taskSvc, log)
	group := e.Group("/projects", ActingUserMiddleware(sessionSvc))
	group.POST("/:id/tasks", taskHandler.CreateTask)
	group.GET("/:id/tasks/:taskId", taskHandler.GetTask)
	group.POST("/:id/tasks/:taskId/accept", taskHandler.AcceptTask)
	group.DELETE("/:id/tasks/:taskId", taskHandler.DeleteTask)

	return &handlerEnv{e: e, foreman: foreman, tiler: tiler, project: project, task: task}
}

func (env *handlerEnv) do(method, path, body string, actingUser uuid.UUID) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if actingUser != uuid.Nil {
		req.Header.Set(actingUserHeader, actingUser.String())
	}

	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func TestActingUserMiddleware(t *testing.T) {
	env := newHandlerEnv(t)
	path := fmt.Sprintf("/projects/%s/tasks/%s", env.project.ID, env.task.ID)

	t.Run("malformed header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set(actingUserHeader, "not-a-uuid")
		rec := httptest.NewRecorder()
		env.e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing header falls back to the session persona", func(t *testing.T) {
		// The session defaults to the first created user, a project member,
		// so the request succeeds without a header.
		rec := env.do(http.MethodGet, path, "", uuid.Nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestTaskHandler_CreateTask(t *testing.T) {
	env := newHandlerEnv(t)
	path := fmt.Sprintf("/projects/%s/tasks", env.project.ID)

	t.Run("creates a task for the acting user", func(t *testing.T) {
		rec := env.do(http.MethodPost, path, `{"title":"Order grout"}`, env.foreman.ID)
		require.Equal(t, http.StatusCreated, rec.Code)

		var task entities.Task
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
		require.Equal(t, "Order grout", task.Title)
		require.Equal(t, env.foreman.ID, task.CreatorID)
	})

	t.Run("missing title fails validation", func(t *testing.T) {
		rec := env.do(http.MethodPost, path, `{}`, env.foreman.ID)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("non-member assignee is unprocessable", func(t *testing.T) {
		body := fmt.Sprintf(`{"title":"Rogue","assignee_ids":[%q]}`, uuid.New())
		rec := env.do(http.MethodPost, path, body, env.foreman.ID)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestTaskHandler_ErrorMapping(t *testing.T) {
	env := newHandlerEnv(t)

	t.Run("unknown task is 404", func(t *testing.T) {
		path := fmt.Sprintf("/projects/%s/tasks/%s", env.project.ID, uuid.New())
		rec := env.do(http.MethodGet, path, "", env.foreman.ID)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non-creator delete is 403", func(t *testing.T) {
		path := fmt.Sprintf("/projects/%s/tasks/%s", env.project.ID, env.task.ID)
		rec := env.do(http.MethodDelete, path, "", env.tiler.ID)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("deleted task resolves as 410", func(t *testing.T) {
		path := fmt.Sprintf("/projects/%s/tasks/%s", env.project.ID, env.task.ID)
		rec := env.do(http.MethodDelete, path, "", env.foreman.ID)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(http.MethodGet, path, "", env.foreman.ID)
		require.Equal(t, http.StatusGone, rec.Code)
	})
}

func TestTaskHandler_AcceptTask(t *testing.T) {
	env := newHandlerEnv(t)
	path := fmt.Sprintf("/projects/%s/tasks/%s/accept", env.project.ID, env.task.ID)

	rec := env.do(http.MethodPost, path, `{"comment":"Starting tomorrow"}`, env.tiler.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	var task entities.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	require.True(t, task.IsAcknowledgedBy(env.tiler.ID))
}
