package settings

import "fmt"

// TestState is the connection-test state shown in the dialog.
type TestState int

const (
	TestIdle TestState = iota
	TestTesting
	TestSuccess
	TestError
)

func (s TestState) String() string {
	switch s {
	case TestIdle:
		return "idle"
	case TestTesting:
		return "testing"
	case TestSuccess:
		return "success"
	case TestError:
		return "error"
	}
	return "unknown"
}

func (s TestState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *TestState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "idle":
		*s = TestIdle
	case "testing":
		*s = TestTesting
	case "success":
		*s = TestSuccess
	case "error":
		*s = TestError
	default:
		return fmt.Errorf("unknown test state %q", b)
	}
	return nil
}
