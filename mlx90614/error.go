package mlx90614

import "fmt"

// BusError reports a transaction that never completed cleanly: a timeout,
// a no-acknowledge, an arbitration loss, or any other bus level fault.
// None of the bytes of the failed transaction are interpreted.
type BusError struct {
	Op  string
	Err error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("mlx90614: bus error during %s: %v", e.Op, e.Err)
}

func (e *BusError) Unwrap() error { return e.Err }

// IntegrityError reports a completed transaction whose packet error code
// did not match the locally computed value. The sample is treated as
// corrupt and no physical values are produced from it.
type IntegrityError struct {
	Received byte
	Computed byte
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("mlx90614: pec mismatch: received 0x%02x computed 0x%02x", e.Received, e.Computed)
}

// RangeError reports a sample whose flag bit was set by the sensor. The
// packet error code matched, but the sensor itself marked the measurement
// invalid.
type RangeError struct {
	Raw uint16
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("mlx90614: sensor flagged sample 0x%04x as invalid", e.Raw)
}
