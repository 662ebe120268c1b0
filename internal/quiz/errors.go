package quiz

import "errors"

var (
	// ErrFetchFailure is returned when any per-category request in a batch fails.
	// Nothing is persisted when it is returned.
	ErrFetchFailure = errors.New("failed to load questions")
	// ErrNoSelection reports that every category count is zero.
	ErrNoSelection = errors.New("no categories selected")
	// ErrUnknownCategory is returned for names outside the category table.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrFetchInProgress is returned by TryGenerateQuiz while another batch runs.
	ErrFetchInProgress = errors.New("a fetch is already in progress")
)

// UserMessage maps an error to the single line shown to users.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrFetchFailure):
		return "Failed to load questions."
	case errors.Is(err, ErrFetchInProgress):
		return "Questions are already loading."
	case errors.Is(err, ErrNoSelection):
		return "Select at least one category."
	default:
		return err.Error()
	}
}
