package bridge

import "fmt"

// AirGapError reports provisioning that would need network access while
// air-gap mode forbids it.
type AirGapError struct {
	Reason string
}

func (e *AirGapError) Error() string {
	return e.Reason
}

// IntegrityError reports a download, extraction, or manifest whose contents
// did not match expectations.
type IntegrityError struct {
	Reason string
}

func (e *IntegrityError) Error() string {
	return e.Reason
}

// ExecutableNotFoundError reports a missing engine binary; it carries the
// install path the binary was expected under.
type ExecutableNotFoundError struct {
	InstallPath string
}

func (e *ExecutableNotFoundError) Error() string {
	return fmt.Sprintf("Bridge CLI executable could not be found at %s", e.InstallPath)
}
