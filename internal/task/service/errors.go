package service

import (
	"net/http"

	commonerrors "github.com/taskcrate/backend/internal/common/errors"
)

var (
	ErrTaskNotFound = commonerrors.NewDomainError(
		"TASK_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"task not found",
	)

	ErrTaskAccessDenied = commonerrors.NewDomainError(
		"TASK_ACCESS_DENIED",
		commonerrors.CategoryForbidden,
		http.StatusForbidden,
		"not authorized to access this task",
	)
)
