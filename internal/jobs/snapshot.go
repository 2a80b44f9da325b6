package jobs

import (
	"encoding/json"
	"strings"
)

// Snapshot is an immutable view of every kind's running flag. It always
// covers all kinds; a zero Snapshot means everything is idle.
type Snapshot struct {
	running [kindCount]bool
	// Version increases by one with every published snapshot.
	Version uint64
}

// Running reports whether k is marked running. Invalid kinds are never running.
func (s Snapshot) Running(k Kind) bool {
	if !k.Valid() {
		return false
	}
	return s.running[k]
}

// AllIdle reports whether no kind is running.
func (s Snapshot) AllIdle() bool {
	for _, r := range s.running {
		if r {
			return false
		}
	}
	return true
}

// AllRunning reports whether every kind is running.
func (s Snapshot) AllRunning() bool {
	for _, r := range s.running {
		if !r {
			return false
		}
	}
	return true
}

// Map returns the mapping as a fresh map containing every kind.
func (s Snapshot) Map() map[Kind]bool {
	m := make(map[Kind]bool, kindCount)
	for _, k := range Kinds() {
		m[k] = s.running[k]
	}
	return m
}

// MarshalJSON renders the snapshot as {"version":N,"jobs":{"factorial":false,...}}.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	jobs := make(map[string]bool, kindCount)
	for _, k := range Kinds() {
		jobs[k.String()] = s.running[k]
	}
	return json.Marshal(struct {
		Version uint64          `json:"version"`
		Jobs    map[string]bool `json:"jobs"`
	}{Version: s.Version, Jobs: jobs})
}

// String lists the running kinds, or "idle".
func (s Snapshot) String() string {
	var names []string
	for _, k := range Kinds() {
		if s.running[k] {
			names = append(names, k.String())
		}
	}
	if len(names) == 0 {
		return "idle"
	}
	return "running: " + strings.Join(names, ", ")
}

func (s Snapshot) with(k Kind, running bool) Snapshot {
	s.running[k] = running
	return s
}
