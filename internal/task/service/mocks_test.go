package service_test

import (
	"context"

	"github.com/taskcrate/backend/internal/task/domain"
	taskrepo "github.com/taskcrate/backend/internal/task/repository"
	userdomain "github.com/taskcrate/backend/internal/user/domain"
)

type mockTaskRepo struct {
	createFunc      func(ctx context.Context, task domain.Task) (domain.Task, error)
	findByIDFunc    func(ctx context.Context, id domain.ID) (domain.Task, error)
	listAllFunc     func(ctx context.Context) ([]domain.Task, error)
	listByOwnerFunc func(ctx context.Context, ownerID userdomain.ID) ([]domain.Task, error)
	updateFunc      func(ctx context.Context, id domain.ID, patch domain.Patch) (domain.Task, error)
	deleteFunc      func(ctx context.Context, id domain.ID) (domain.Task, error)
}

func (m *mockTaskRepo) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, task)
	}
	task.ID = 1
	return task, nil
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id domain.ID) (domain.Task, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return domain.Task{}, taskrepo.ErrTaskNotFound
}

func (m *mockTaskRepo) ListAll(ctx context.Context) ([]domain.Task, error) {
	if m.listAllFunc != nil {
		return m.listAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockTaskRepo) ListByOwner(ctx context.Context, ownerID userdomain.ID) ([]domain.Task, error) {
	if m.listByOwnerFunc != nil {
		return m.listByOwnerFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockTaskRepo) Update(ctx context.Context, id domain.ID, patch domain.Patch) (domain.Task, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, patch)
	}
	return domain.Task{}, taskrepo.ErrTaskNotFound
}

func (m *mockTaskRepo) Delete(ctx context.Context, id domain.ID) (domain.Task, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return domain.Task{}, taskrepo.ErrTaskNotFound
}
