package services

import (
	"errors"

	"academic-management-api/repository"
)

var (
	ErrNotFound             = repository.ErrNotFound
	ErrForbidden            = errors.New("insufficient permissions")
	ErrInvalidOrcidID       = errors.New("invalid ORCID identifier")
	ErrProfileUnavailable   = errors.New("researcher profile could not be retrieved from ORCID")
	ErrOrcidSyncRunNotFound = errors.New("orcid sync run not found")

	ErrInvalidProjectRole = errors.New("role must be leader, manager or member")
	ErrAlreadyMember      = errors.New("user is already an active member of the project")
	ErrRemoveLeader       = errors.New("the project leader cannot be removed")
)
