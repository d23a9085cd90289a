package orchestrator

import "errors"

var (
	// ErrPartialCommitHazard marks writes skipped because a document changed
	// between planning and commit.
	ErrPartialCommitHazard = errors.New("orchestrator: partial commit hazard")
	// ErrAborted marks pending insertions dropped because a strict run found
	// blocking pairs.
	ErrAborted = errors.New("orchestrator: run aborted")
)
