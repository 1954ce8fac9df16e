package sojourn

import "fmt"

// Status is a non-generic description of a machine, for introspection
// surfaces (debug HTTP, CLI) that cannot name the state type parameter.
type Status struct {
	ID             string  `json:"id"`
	Phase          string  `json:"phase"`
	State          string  `json:"state"`
	Previous       string  `json:"previous"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

// Inspector is implemented by every Machine regardless of state type.
type Inspector interface {
	Describe() Status
}

// Describe reports the machine's current status, with states rendered via
// fmt. It does not arm the lazy clock subscription: inspection is a
// read-only outside view, not an access by the owning logic.
func (m *Machine[T]) Describe() Status {
	return Status{
		ID:             m.id,
		Phase:          m.phase.String(),
		State:          fmt.Sprint(m.current),
		Previous:       fmt.Sprint(m.previous),
		ElapsedSeconds: m.elapsed.Seconds(),
	}
}
