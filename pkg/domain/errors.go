package domain

import "errors"

// ErrProfileNotFound is returned when no profile is stored under a player name.
var ErrProfileNotFound = errors.New("profile not found")

// ErrInvalidProfile is returned when stored profile data does not satisfy the Profile record.
var ErrInvalidProfile = errors.New("invalid profile")

// ErrInvalidPlayerName is returned for names that cannot key a profile.
var ErrInvalidPlayerName = errors.New("invalid player name")

// ErrEntryNotFound is returned when a catalog entry does not exist.
var ErrEntryNotFound = errors.New("catalog entry not found")

// ErrInvalidTilemap is returned when tilemap grids are empty or not rectangular.
var ErrInvalidTilemap = errors.New("invalid tilemap")

// ErrProfileExists is returned when creating a profile for a player who already has one.
var ErrProfileExists = errors.New("profile already exists")
