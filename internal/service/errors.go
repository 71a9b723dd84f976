package service

import (
	"errors"

	"insurebot/internal/repository"
)

// Sentinel errors returned to handlers
var (
	ErrSessionNotFound         = repository.ErrSessionNotFound
	ErrPlanNotFound            = repository.ErrPlanNotFound
	ErrNoEmbedding             = repository.ErrNoEmbedding
	ErrVectorSearchUnavailable = errors.New("vector search requires the postgres catalog backend")
)
