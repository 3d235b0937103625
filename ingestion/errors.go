package ingestion

import "errors"

var (
	// ErrExperienceRepositoryRequired is returned when an experience repository is not provided.
	ErrExperienceRepositoryRequired = errors.New("experience repository required")

	// ErrIndexRequired is returned when a search index is not provided.
	ErrIndexRequired = errors.New("search index required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")
)
