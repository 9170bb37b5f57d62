package types

import "github.com/m-mizutani/goerr/v2"

var (
	ErrInvalidName   = goerr.New("invalid repository name")
	ErrMirrorExists  = goerr.New("mirror already exists")
	ErrInvalidOption = goerr.New("invalid option")
	ErrManagerClosed = goerr.New("job manager is closed")
)

// Failure classes for errors propagated from the filesystem and the
// external collaborators. The cause is wrapped as-is; tags classify it.
var (
	ErrTagStorage  = goerr.NewTag("storage")
	ErrTagTransfer = goerr.NewTag("transfer")
	ErrTagListing  = goerr.NewTag("listing")
)
