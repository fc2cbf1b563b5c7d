package models

// PacingSignal controls the delay between demo fragments of one stream.
type PacingSignal struct {
	DelayMilliseconds uint64 `json:"delay"`
}

// Fragment is a self-contained piece of markup plus the id of the element
// the client merges it into.
type Fragment struct {
	MountID string `json:"mountId"`
	Markup  string `json:"markup"`
}

// RawSignals are the textual key/value pairs a client submitted.
type RawSignals map[string]string

// Get returns the value for key, or "" when absent.
func (s RawSignals) Get(key string) string { return s[key] }

// Values returns the value for key as a slice, or nil when absent.
func (s RawSignals) Values(key string) []string {
	v, ok := s[key]
	if !ok {
		return nil
	}
	return []string{v}
}

// StreamResult describes how a fragment stream ended.
type StreamResult struct {
	Sent    int  `json:"sent"`
	Aborted bool `json:"aborted"`
}
