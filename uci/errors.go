package uci

import "errors"

// ErrEngineUnavailable reports that the subprocess is not running, could not
// be started, or has crashed. The session stays Crashed until Restart.
var ErrEngineUnavailable = errors.New("engine unavailable")

// ErrTimeout reports that an analysis exceeded its computed time budget. A
// best-effort stop command has already been sent when this is returned.
var ErrTimeout = errors.New("engine timeout")

// ErrProtocol reports malformed or inconsistent engine output, such as a best
// move whose promotion geometry contradicts the side to move.
var ErrProtocol = errors.New("engine protocol error")

// ErrBusy reports that an analysis is already in flight; only one request may
// be outstanding per engine session.
var ErrBusy = errors.New("analysis already in progress")
