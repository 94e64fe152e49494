package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrEventNotFound     = errors.New("event not found")
	ErrTeamNotFound      = errors.New("team not found")
	ErrJudgeNotFound     = errors.New("judge profile not found")
	ErrCriterionNotFound = errors.New("criterion not found")
	ErrDuplicateID       = errors.New("duplicate id")
	ErrAlreadyScored     = errors.New("judge already scored this team")
	ErrRubricLocked      = errors.New("rubric locked once judging has started")
	ErrScoreOutOfRange   = errors.New("score outside criterion bounds")
	ErrIncomplete        = errors.New("submission is not complete")
)
