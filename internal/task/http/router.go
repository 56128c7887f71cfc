package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	commonhttp "github.com/taskcrate/backend/internal/common/http"
	"github.com/taskcrate/backend/internal/common/jwtverify"
	"github.com/taskcrate/backend/internal/common/logger"
	"github.com/taskcrate/backend/internal/task/domain"
	"github.com/taskcrate/backend/internal/task/service"
	userdomain "github.com/taskcrate/backend/internal/user/domain"
)

type createTaskRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date" validate:"required"`
}

type updateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Completed   *bool      `json:"completed"`
}

type taskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	Completed   bool      `json:"completed"`
	UserID      int64     `json:"user_id"`
}

type Handler struct {
	tasks    *service.TaskService
	validate *validator.Validate
	log      *logger.Logger
}

// NewHandler wires every /tasks route behind the bearer-token gate,
// each request bounded by a per-request deadline.
func NewHandler(
	tasks *service.TaskService,
	authGate func(http.Handler) http.Handler,
	requestTimeout time.Duration,
	log *logger.Logger,
) http.Handler {
	h := &Handler{
		tasks:    tasks,
		validate: validator.New(),
		log:      log,
	}

	mux := http.NewServeMux()
	mux.Handle("/tasks/", authGate(commonhttp.WithTimeout(requestTimeout)(h.route)))
	return mux
}

// route dispatches /tasks/, /tasks/{id} and /tasks/{id}/complete by
// hand; the path shapes are too few to warrant a router dependency.
func (h *Handler) route(w http.ResponseWriter, r *http.Request) {
	requester, ok := jwtverify.UserFromContext(r.Context())
	if !ok {
		commonhttp.WriteErrorCode(w, http.StatusUnauthorized, commonhttp.CodeInvalidToken, "could not validate credentials")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/tasks/")
	if rest == "" {
		switch r.Method {
		case http.MethodPost:
			h.create(w, r, requester)
		case http.MethodGet:
			h.list(w, r, requester)
		default:
			commonhttp.WriteErrorCode(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed")
		}
		return
	}

	id, complete, ok := parseTaskPath(rest)
	if !ok {
		commonhttp.WriteErrorCode(w, http.StatusNotFound, commonhttp.CodeInvalidPath, "task not found")
		return
	}

	switch {
	case complete && r.Method == http.MethodPut:
		h.complete(w, r, requester, id)
	case !complete && r.Method == http.MethodPut:
		h.update(w, r, requester, id)
	case !complete && r.Method == http.MethodDelete:
		h.delete(w, r, requester, id)
	default:
		commonhttp.WriteErrorCode(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed")
	}
}

// parseTaskPath understands "{id}" and "{id}/complete".
func parseTaskPath(rest string) (domain.ID, bool, bool) {
	rest = strings.TrimSuffix(rest, "/")
	parts := strings.Split(rest, "/")

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, false, false
	}

	switch len(parts) {
	case 1:
		return domain.ID(id), false, true
	case 2:
		if parts[1] == "complete" {
			return domain.ID(id), true, true
		}
	}
	return 0, false, false
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, requester userdomain.User) {
	var req createTaskRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("task create failed: invalid json: %v", err)
		commonhttp.WriteErrorCode(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.log.Warnf("task create failed: invalid payload: %v", err)
		commonhttp.WriteErrorCode(w, http.StatusBadRequest, commonhttp.CodeBadRequest, "invalid request payload")
		return
	}

	task, err := h.tasks.Create(r.Context(), requester, service.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, requester userdomain.User) {
	tasks, err := h.tasks.List(r.Context(), requester)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	out := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, toTaskResponse(task))
	}
	commonhttp.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, requester userdomain.User, id domain.ID) {
	var req updateTaskRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("task update failed: invalid json: %v", err)
		commonhttp.WriteErrorCode(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json")
		return
	}

	task, err := h.tasks.Update(r.Context(), requester, id, domain.Patch{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Completed:   req.Completed,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request, requester userdomain.User, id domain.ID) {
	task, err := h.tasks.Complete(r.Context(), requester, id)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, requester userdomain.User, id domain.ID) {
	task, err := h.tasks.Delete(r.Context(), requester, id)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toTaskResponse(task))
}

func toTaskResponse(task domain.Task) taskResponse {
	return taskResponse{
		ID:          int64(task.ID),
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		Completed:   task.Completed,
		UserID:      int64(task.OwnerID),
	}
}
