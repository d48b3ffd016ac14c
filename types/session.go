package types

import "time"

// SessionStatus is the lifecycle state of a build session. Sessions move
// forward through the sequence below; "error" is reachable from any
// non-terminal state.
type SessionStatus string

const (
	StatusInitializing       SessionStatus = "initializing"
	StatusGeneratingFrontend SessionStatus = "generating-frontend"
	StatusGeneratingBackend  SessionStatus = "generating-backend"
	StatusIntegrating        SessionStatus = "integrating"
	StatusPreviewing         SessionStatus = "previewing"
	StatusCompleted          SessionStatus = "completed"
	StatusError              SessionStatus = "error"
)

var statusOrder = map[SessionStatus]int{
	StatusInitializing:       0,
	StatusGeneratingFrontend: 1,
	StatusGeneratingBackend:  2,
	StatusIntegrating:        3,
	StatusPreviewing:         4,
	StatusCompleted:          5,
}

// Valid reports whether s is a known session status.
func (s SessionStatus) Valid() bool {
	if s == StatusError {
		return true
	}
	_, ok := statusOrder[s]
	return ok
}

// Terminal reports whether no further transitions are allowed from s.
func (s SessionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// CanTransitionTo reports whether moving from s to next is a legal
// transition: strictly forward through the status sequence, or to error
// from any non-terminal state. Terminal states admit no transitions.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	if !next.Valid() || s.Terminal() {
		return false
	}
	if next == StatusError {
		return true
	}
	return statusOrder[next] > statusOrder[s]
}

// ProgressStep is a named milestone appended to a session's history as
// the build advances.
type ProgressStep struct {
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}

// GeneratedCode holds the templated code pair produced for a session.
type GeneratedCode struct {
	Frontend string `json:"frontend,omitempty"`
	Backend  string `json:"backend,omitempty"`
}

// BuildSession represents one user-initiated app-generation workflow
// instance, tracked through a status sequence.
type BuildSession struct {
	// ID is the unique identifier of the session.
	ID string `json:"id"`

	// UserID is the identifier of the owning user.
	UserID string `json:"user_id"`

	// Status is the current lifecycle state.
	Status SessionStatus `json:"status"`

	// AppName, Description, and Requirements are the user's build request.
	AppName      string `json:"app_name"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`

	// GeneratedCode holds the templated frontend/backend pair once the
	// generation step has run.
	GeneratedCode GeneratedCode `json:"generated_code"`

	// SelectedIntegrations lists the integrations activated for this
	// session, in activation order.
	SelectedIntegrations []Integration `json:"selected_integrations"`

	// Steps is the ordered progress history of the build.
	Steps []ProgressStep `json:"steps"`

	// PreviewURL is set once the session reaches the previewing state.
	PreviewURL string `json:"preview_url,omitempty"`

	// CreatedAt is the timestamp when the session was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp of the most recent mutation.
	UpdatedAt time.Time `json:"updated_at"`
}
