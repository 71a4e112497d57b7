package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Catalog errors
	ErrUserNotFound = fmt.Errorf("user not found")
	ErrSongNotFound = fmt.Errorf("song not found")
	ErrNameTaken    = fmt.Errorf("username already taken")
	ErrEmailTaken   = fmt.Errorf("email already taken")
	ErrInvalidField = fmt.Errorf("invalid field")

	// Authentication errors
	ErrWrongPassword = fmt.Errorf("wrong password")

	// Playlist errors
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrDuplicateName    = fmt.Errorf("playlist name already exists")
	ErrAlreadyPresent   = fmt.Errorf("song already in playlist")
	ErrNotPresent       = fmt.Errorf("song not in playlist")

	// Persistence errors
	ErrSnapshotLoad = fmt.Errorf("failed to load snapshot")
	ErrSnapshotSave = fmt.Errorf("failed to save snapshot")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
