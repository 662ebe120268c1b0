package opentdb

import "fmt"

// FetchError reports a failed question request for one category.
type FetchError struct {
	CategoryID   int
	Status       int
	ResponseCode int
	Err          error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch category %d: %v", e.CategoryID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func errResponseCode(code int) error {
	switch code {
	case 2:
		return fmt.Errorf("invalid parameter (response_code 2)")
	case 3:
		return fmt.Errorf("session token not found (response_code 3)")
	case 4:
		return fmt.Errorf("session token exhausted (response_code 4)")
	case 5:
		return fmt.Errorf("rate limited (response_code 5)")
	default:
		return fmt.Errorf("unexpected response_code %d", code)
	}
}
