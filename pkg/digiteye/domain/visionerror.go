package domain

// VisionError is returned when no answer could be obtained for a drawing. The message is meant to be shown
// to the user as is.
type VisionError struct {
	Message string
	Err     error
}

func NewVisionError(message string) *VisionError {
	return &VisionError{Message: message}
}

// WrapVisionError keeps `err` reachable with errors.As/errors.Is.
func WrapVisionError(err error) *VisionError {
	return &VisionError{Message: err.Error(), Err: err}
}

func (v *VisionError) Error() string {
	return "vision query failed: " + v.Message
}

func (v *VisionError) Unwrap() error {
	return v.Err
}
