package service

import (
	"context"
	"errors"
	"time"

	commonerrors "github.com/taskcrate/backend/internal/common/errors"
	"github.com/taskcrate/backend/internal/common/logger"
	"github.com/taskcrate/backend/internal/observability/metrics"
	"github.com/taskcrate/backend/internal/task/domain"
	"github.com/taskcrate/backend/internal/task/policy"
	taskrepo "github.com/taskcrate/backend/internal/task/repository"
	userdomain "github.com/taskcrate/backend/internal/user/domain"
)

type TaskService struct {
	repo taskrepo.Repository
	log  *logger.Logger
}

func NewTaskService(repo taskrepo.Repository, log *logger.Logger) *TaskService {
	return &TaskService{
		repo: repo,
		log:  log,
	}
}

type CreateInput struct {
	Title       string
	Description string
	DueDate     time.Time
}

func (s *TaskService) Create(ctx context.Context, requester userdomain.User, input CreateInput) (domain.Task, error) {
	task, err := s.repo.Create(ctx, domain.Task{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Completed:   false,
		OwnerID:     requester.ID,
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": int64(requester.ID),
			"action":  "task_create_failed",
		}).Errorf("task create failed: %v", err)
		metrics.TaskOperationsTotal.WithLabelValues("create", "error").Inc()
		return domain.Task{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	metrics.TaskOperationsTotal.WithLabelValues("create", "success").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"task_id": int64(task.ID),
		"user_id": int64(requester.ID),
		"action":  "task_created",
	}).Info("task created")

	return task, nil
}

// List returns every task for admins and only the requester's own
// tasks otherwise.
func (s *TaskService) List(ctx context.Context, requester userdomain.User) ([]domain.Task, error) {
	var (
		tasks []domain.Task
		err   error
	)
	if requester.IsAdmin() {
		tasks, err = s.repo.ListAll(ctx)
	} else {
		tasks, err = s.repo.ListByOwner(ctx, requester.ID)
	}

	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": int64(requester.ID),
			"action":  "task_list_failed",
		}).Errorf("task list failed: %v", err)
		metrics.TaskOperationsTotal.WithLabelValues("list", "error").Inc()
		return nil, commonerrors.ErrDatabaseError.WithCause(err)
	}

	metrics.TaskOperationsTotal.WithLabelValues("list", "success").Inc()
	return tasks, nil
}

func (s *TaskService) Update(ctx context.Context, requester userdomain.User, id domain.ID, patch domain.Patch) (domain.Task, error) {
	if err := s.authorize(ctx, requester, id, "update"); err != nil {
		return domain.Task{}, err
	}

	task, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		// The task can vanish between the policy check and the write.
		if errors.Is(err, taskrepo.ErrTaskNotFound) {
			metrics.TaskOperationsTotal.WithLabelValues("update", "not_found").Inc()
			return domain.Task{}, ErrTaskNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"task_id": int64(id),
			"user_id": int64(requester.ID),
			"action":  "task_update_failed",
		}).Errorf("task update failed: %v", err)
		metrics.TaskOperationsTotal.WithLabelValues("update", "error").Inc()
		return domain.Task{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	metrics.TaskOperationsTotal.WithLabelValues("update", "success").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"task_id": int64(task.ID),
		"user_id": int64(requester.ID),
		"action":  "task_updated",
	}).Info("task updated")

	return task, nil
}

// Complete is the dedicated mark-complete operation: a partial update
// that unconditionally sets completed and touches nothing else.
func (s *TaskService) Complete(ctx context.Context, requester userdomain.User, id domain.ID) (domain.Task, error) {
	completed := true
	return s.Update(ctx, requester, id, domain.Patch{Completed: &completed})
}

func (s *TaskService) Delete(ctx context.Context, requester userdomain.User, id domain.ID) (domain.Task, error) {
	if err := s.authorize(ctx, requester, id, "delete"); err != nil {
		return domain.Task{}, err
	}

	task, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, taskrepo.ErrTaskNotFound) {
			metrics.TaskOperationsTotal.WithLabelValues("delete", "not_found").Inc()
			return domain.Task{}, ErrTaskNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"task_id": int64(id),
			"user_id": int64(requester.ID),
			"action":  "task_delete_failed",
		}).Errorf("task delete failed: %v", err)
		metrics.TaskOperationsTotal.WithLabelValues("delete", "error").Inc()
		return domain.Task{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	metrics.TaskOperationsTotal.WithLabelValues("delete", "success").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"task_id": int64(task.ID),
		"user_id": int64(requester.ID),
		"action":  "task_deleted",
	}).Info("task deleted")

	return task, nil
}

// authorize loads the task and applies the access policy. Not-found
// wins over forbidden: a requester who cannot see the task learns only
// that it does not exist for them when the id is absent.
func (s *TaskService) authorize(ctx context.Context, requester userdomain.User, id domain.ID, operation string) error {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, taskrepo.ErrTaskNotFound) {
			metrics.TaskOperationsTotal.WithLabelValues(operation, "not_found").Inc()
			return ErrTaskNotFound
		}
		return commonerrors.ErrDatabaseError.WithCause(err)
	}

	if !policy.CanAccess(requester, task) {
		s.log.WithFields(ctx, logger.Fields{
			"task_id":  int64(id),
			"user_id":  int64(requester.ID),
			"owner_id": int64(task.OwnerID),
			"action":   "task_access_denied",
		}).Warnf("task %s denied by access policy", operation)
		metrics.TaskAccessDenied.Inc()
		metrics.TaskOperationsTotal.WithLabelValues(operation, "forbidden").Inc()
		return ErrTaskAccessDenied
	}

	return nil
}
