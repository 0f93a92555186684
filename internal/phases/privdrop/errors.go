package privdrop

import "errors"

var (
	ErrRootTarget   = errors.New("refusing to run the server as root")
	ErrUnknownUser  = errors.New("unknown user")
	ErrUnknownGroup = errors.New("unknown group")
	ErrVerifyFailed = errors.New("privilege drop verification failed")
	ErrUnsupported  = errors.New("privilege dropping is not supported on this platform")
)
