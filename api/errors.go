package api

import "errors"

var (
	// ErrRankerRequired indicates that a ranker was not provided.
	ErrRankerRequired = errors.New("ranker is required")

	// ErrParserRequired indicates that an intent parser was not provided.
	ErrParserRequired = errors.New("intent parser is required")

	// ErrPlannerRequired indicates that a route planner was not provided.
	ErrPlannerRequired = errors.New("route planner is required")
)
