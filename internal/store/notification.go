package store

// Severity classifies a [Notification].
type Severity int

const (
	SeveritySuccess Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	default:
		return ""
	}
}

// Notification is the single user-facing message slot.
type Notification struct {
	Message  string
	Severity Severity
}

// IsError reports whether the notification reports a failure.
func (n Notification) IsError() bool {
	return n.Severity == SeverityError
}

const (
	msgMovieAdded       = "Movie added to your rental library"
	msgMovieDuplicate   = "Movie cannot be added to the library, it already exists in library"
	msgMovieInvalid     = "Movie cannot be added to the library: "
	msgRentalCreated    = "Rental successfully created"
	msgRentalReturned   = "Movie successfully returned"
	msgSelectionMissing = "Select a movie and a customer before creating a rental"
	msgErrorPrefix      = "An error occurred: "
)

func success(msg string) *Notification {
	return &Notification{Message: msg, Severity: SeveritySuccess}
}

func failure(msg string) *Notification {
	return &Notification{Message: msg, Severity: SeverityError}
}
