// Boot sequence state machine implementation.
// Tracks the one-way lifecycle of a container startup attempt.
package finitestate

import (
	"context"
	"log/slog"
	"time"

	"github.com/robbyt/go-fsm"
)

// Boot states, in phase order.
const (
	StateInit               = "init"
	StateProbing            = "probing"             // waiting for dependencies
	StateMigrating          = "migrating"           // schema migration subcommand
	StatePreparingAssets    = "preparing_assets"    // static asset subcommand
	StateDroppingPrivileges = "dropping_privileges" // one-way setuid transition
	StateRunning            = "running"             // server process alive
	StateTerminating        = "terminating"         // grace period countdown
	StateExited             = "exited"              // terminal
)

// BootTransitions defines the legal phase order. Each forward arrow
// requires the previous phase's success; every state can also jump
// straight to exited, which is how fatal results and cancellation leave
// the sequence without running later phases.
var BootTransitions = map[string][]string{
	StateInit:               {StateProbing, StateExited},
	StateProbing:            {StateMigrating, StateExited},
	StateMigrating:          {StatePreparingAssets, StateExited},
	StatePreparingAssets:    {StateDroppingPrivileges, StateExited},
	StateDroppingPrivileges: {StateRunning, StateExited},
	StateRunning:            {StateTerminating, StateExited},
	StateTerminating:        {StateExited},
	StateExited:             {}, // Exited is a terminal state
}

// SubscriberOption is a functional option for configuring state channel behavior
type SubscriberOption = fsm.SubscriberOption

// WithSyncTimeout sets a timeout for synchronous broadcast operations
var WithSyncTimeout = fsm.WithSyncTimeout

// Machine defines the interface for the finite state machine that tracks
// the boot sequence. The abstraction keeps the runner testable against
// alternative implementations.
type Machine interface {
	// Transition attempts to transition the state machine to the specified state.
	Transition(state string) error

	// TransitionBool attempts to transition the state machine to the specified state.
	TransitionBool(state string) bool

	// TransitionIfCurrentState attempts to transition the state machine to the specified state
	TransitionIfCurrentState(currentState, newState string) error

	// SetState sets the state of the state machine to the specified state.
	SetState(state string) error

	// GetState returns the current state of the state machine.
	GetState() string

	// GetStateChan returns a channel that emits the state machine's state whenever it changes.
	// The channel is closed when the provided context is canceled.
	GetStateChan(ctx context.Context) <-chan string

	// GetStateChanWithOptions returns a channel with custom configuration options.
	// The channel is closed when the provided context is canceled.
	GetStateChanWithOptions(ctx context.Context, opts ...SubscriberOption) <-chan string
}

// BootFSM embeds fsm.Machine and overrides GetStateChan for sync broadcast
type BootFSM struct {
	*fsm.Machine
}

// GetStateChan returns a sync broadcast channel with 5-second timeout to ensure state updates are delivered during shutdown
func (m *BootFSM) GetStateChan(ctx context.Context) <-chan string {
	return m.GetStateChanWithOptions(ctx, WithSyncTimeout(5*time.Second))
}

// New creates the boot state machine, starting in the init state.
func New(handler slog.Handler) (Machine, error) {
	machine, err := fsm.New(handler, StateInit, BootTransitions)
	if err != nil {
		return nil, err
	}
	return &BootFSM{Machine: machine}, nil
}
