package blackboard

import "encoding/json"

// Snapshot is the serializable subset of blackboard state: named bindings
// whose values marshal to JSON, plus explicit condition flags. It is what the
// platform persists for a process that is waiting on external input.
type Snapshot struct {
	Bindings   map[string]json.RawMessage `json:"bindings"`
	Conditions map[string]bool            `json:"conditions"`
}

// Snapshot captures the current serializable state. Bindings whose values
// cannot be marshaled are skipped.
func (b *Blackboard) Snapshot() Snapshot {
	s := Snapshot{
		Bindings:   make(map[string]json.RawMessage, len(b.bindings)),
		Conditions: make(map[string]bool, len(b.conditions)),
	}
	for name, v := range b.bindings {
		data, err := json.Marshal(v)
		if err != nil {
			continue
		}
		s.Bindings[name] = data
	}
	for name, v := range b.conditions {
		s.Conditions[name] = v
	}
	return s
}

// Restore applies a snapshot. Condition flags are set directly; bindings are
// rebound as raw JSON for the caller to decode into typed values before the
// process resumes.
func (b *Blackboard) Restore(s Snapshot) {
	for name, v := range s.Conditions {
		b.SetCondition(name, v)
	}
	for name, data := range s.Bindings {
		b.Bind(name, data)
	}
}
