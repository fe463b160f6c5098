package supervisor

import (
	"errors"
	"fmt"
	"strings"
)

// FaultKind identifies the class of a protocol fault reported by the daemon
type FaultKind int

const (
	// FaultGeneric is used for any fault the daemon reports that is not in the table
	FaultGeneric FaultKind = iota
	// FaultUnknownMethod indicates the requested method does not exist
	FaultUnknownMethod
	// FaultIncorrectParameters indicates the wrong number of parameters was passed
	FaultIncorrectParameters
	// FaultBadArguments indicates a parameter had the wrong type or value
	FaultBadArguments
	// FaultSignatureUnsupported indicates the method does not support introspection of its signature
	FaultSignatureUnsupported
	// FaultShutdownState indicates the daemon is shutting down and refuses the call
	FaultShutdownState
	// FaultBadName indicates the process or group name is unknown
	FaultBadName
	// FaultBadSignal indicates the signal name or number is invalid
	FaultBadSignal
	// FaultNoFile indicates the requested file (log, command) does not exist
	FaultNoFile
	// FaultNotExecutable indicates the process command is not executable
	FaultNotExecutable
	// FaultFailed indicates the operation failed for an unspecified reason
	FaultFailed
	// FaultAbnormalTermination indicates the process exited unexpectedly while stopping
	FaultAbnormalTermination
	// FaultSpawnError indicates the process could not be spawned
	FaultSpawnError
	// FaultAlreadyStarted indicates the process is already running
	FaultAlreadyStarted
	// FaultNotRunning indicates the process is not running
	FaultNotRunning
	// FaultSuccess is reported by the daemon for successful multicall members in some versions
	FaultSuccess
	// FaultAlreadyAdded indicates the process group is already active
	FaultAlreadyAdded
	// FaultStillRunning indicates the group still has running processes
	FaultStillRunning
	// FaultCantReread indicates the daemon could not reread its configuration
	FaultCantReread
)

// Protocol fault identifiers and codes, as sent by the daemon
const (
	faultUnknownMethodID        = "UNKNOWN_METHOD"
	faultIncorrectParametersID  = "INCORRECT_PARAMETERS"
	faultBadArgumentsID         = "BAD_ARGUMENTS"
	faultSignatureUnsupportedID = "SIGNATURE_UNSUPPORTED"
	faultShutdownStateID        = "SHUTDOWN_STATE"
	faultBadNameID              = "BAD_NAME"
	faultBadSignalID            = "BAD_SIGNAL"
	faultNoFileID               = "NO_FILE"
	faultNotExecutableID        = "NOT_EXECUTABLE"
	faultFailedID               = "FAILED"
	faultAbnormalTerminationID  = "ABNORMAL_TERMINATION"
	faultSpawnErrorID           = "SPAWN_ERROR"
	faultAlreadyStartedID       = "ALREADY_STARTED"
	faultNotRunningID           = "NOT_RUNNING"
	faultSuccessID              = "SUCCESS"
	faultAlreadyAddedID         = "ALREADY_ADDED"
	faultStillRunningID         = "STILL_RUNNING"
	faultCantRereadID           = "CANT_REREAD"
	faultGenericID              = "FAULT"
)

// faultEntry describes one row of the fault table
type faultEntry struct {
	id   string
	code int
	err  error
}

// Common errors for classified faults. Every *Fault matches ErrFault with
// errors.Is; classified faults also match the sentinel of their kind.
var (
	// ErrFault matches any protocol fault
	ErrFault = errors.New("supervisor: fault")

	ErrUnknownMethod        = errors.New("supervisor: unknown method")
	ErrIncorrectParameters  = errors.New("supervisor: incorrect parameters")
	ErrBadArguments         = errors.New("supervisor: bad arguments")
	ErrSignatureUnsupported = errors.New("supervisor: signature unsupported")
	ErrShutdownState        = errors.New("supervisor: shutdown state")
	ErrBadName              = errors.New("supervisor: bad name")
	ErrBadSignal            = errors.New("supervisor: bad signal")
	ErrNoFile               = errors.New("supervisor: no file")
	ErrNotExecutable        = errors.New("supervisor: not executable")
	ErrFailed               = errors.New("supervisor: failed")
	ErrAbnormalTermination  = errors.New("supervisor: abnormal termination")
	ErrSpawnError           = errors.New("supervisor: spawn error")
	ErrAlreadyStarted       = errors.New("supervisor: already started")
	ErrNotRunning           = errors.New("supervisor: not running")
	ErrSuccess              = errors.New("supervisor: success")
	ErrAlreadyAdded         = errors.New("supervisor: already added")
	ErrStillRunning         = errors.New("supervisor: still running")
	ErrCantReread           = errors.New("supervisor: can't reread")
)

// faultTable maps every known kind to its protocol identifier, code and sentinel.
// Adding a kind only requires a new constant and a row here.
var faultTable = map[FaultKind]faultEntry{
	FaultUnknownMethod:        {faultUnknownMethodID, 1, ErrUnknownMethod},
	FaultIncorrectParameters:  {faultIncorrectParametersID, 2, ErrIncorrectParameters},
	FaultBadArguments:         {faultBadArgumentsID, 3, ErrBadArguments},
	FaultSignatureUnsupported: {faultSignatureUnsupportedID, 4, ErrSignatureUnsupported},
	FaultShutdownState:        {faultShutdownStateID, 6, ErrShutdownState},
	FaultBadName:              {faultBadNameID, 10, ErrBadName},
	FaultBadSignal:            {faultBadSignalID, 11, ErrBadSignal},
	FaultNoFile:               {faultNoFileID, 20, ErrNoFile},
	FaultNotExecutable:        {faultNotExecutableID, 21, ErrNotExecutable},
	FaultFailed:               {faultFailedID, 30, ErrFailed},
	FaultAbnormalTermination:  {faultAbnormalTerminationID, 40, ErrAbnormalTermination},
	FaultSpawnError:           {faultSpawnErrorID, 50, ErrSpawnError},
	FaultAlreadyStarted:       {faultAlreadyStartedID, 60, ErrAlreadyStarted},
	FaultNotRunning:           {faultNotRunningID, 70, ErrNotRunning},
	FaultSuccess:              {faultSuccessID, 80, ErrSuccess},
	FaultAlreadyAdded:         {faultAlreadyAddedID, 90, ErrAlreadyAdded},
	FaultStillRunning:         {faultStillRunningID, 91, ErrStillRunning},
	FaultCantReread:           {faultCantRereadID, 92, ErrCantReread},
}

// Reverse lookup tables, built from faultTable
var (
	faultKindsByID   = make(map[string]FaultKind, len(faultTable))
	faultKindsByCode = make(map[int]FaultKind, len(faultTable))
)

func init() {
	for kind, entry := range faultTable {
		faultKindsByID[entry.id] = kind
		faultKindsByCode[entry.code] = kind
	}
}

// String returns the protocol identifier of the kind
func (k FaultKind) String() string {
	if entry, ok := faultTable[k]; ok {
		return entry.id
	}
	return faultGenericID
}

// Code returns the numeric code the daemon uses for this kind, or 0 for FaultGeneric
func (k FaultKind) Code() int {
	return faultTable[k].code
}

// Fault is a typed protocol fault. It keeps the daemon's original code and
// message for diagnostics.
type Fault struct {
	// Kind is the classified fault kind
	Kind FaultKind
	// Code is the fault code as reported by the daemon
	Code int
	// Message is the fault string as reported by the daemon
	Message string
}

// Error returns a formatted error message
func (f *Fault) Error() string {
	return fmt.Sprintf("supervisor fault %d: %s", f.Code, f.Message)
}

// Unwrap exposes ErrFault and, for classified faults, the kind's sentinel
func (f *Fault) Unwrap() []error {
	if entry, ok := faultTable[f.Kind]; ok {
		return []error{entry.err, ErrFault}
	}
	return []error{ErrFault}
}

// Identifier extracts the protocol identifier from a fault string.
// The daemon sends either a bare identifier or "IDENTIFIER: detail".
func Identifier(message string) string {
	id, _, _ := strings.Cut(message, ":")
	return strings.TrimSpace(id)
}

// Classify maps a protocol fault to a typed Fault. The identifier at the
// start of the message takes priority, the numeric code is the fallback, and
// anything else yields FaultGeneric. It never returns nil.
func Classify(code int, message string) *Fault {
	kind, ok := faultKindsByID[Identifier(message)]
	if !ok {
		kind, ok = faultKindsByCode[code]
	}
	if !ok {
		kind = FaultGeneric
	}
	return &Fault{Kind: kind, Code: code, Message: message}
}

// IsFault reports whether err is or wraps a *Fault of the given kind
func IsFault(err error, kind FaultKind) bool {
	var f *Fault
	return errors.As(err, &f) && f.Kind == kind
}
