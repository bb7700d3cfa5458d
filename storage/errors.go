package storage

import "errors"

var ErrNotFound = errors.New("item not found in storage")
var ErrItemWithIDAlreadyExists = errors.New("item with this id already exists")
var ErrConditionFailed = errors.New("storage condition check failed")
var ErrTeamFull = errors.New("team already has the maximum number of members")
var ErrAlreadyInTeam = errors.New("participant already belongs to a team")
var ErrSlotTaken = errors.New("slot is held by another team")
