package usecase

import "errors"

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrRankingInProgress   = errors.New("ranking recalculation already in progress")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInternal            = errors.New("internal error")
)
