package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrBuildSystem  = errors.New("unable to build rating system")
	ErrReplay       = errors.New("replay failed")
	ErrUnknownRider = errors.New("unknown rider")
)
