package audit

import "time"

// Action identifies what happened. Admin mutations and degraded resolutions
// are the events worth keeping a trail for.
type Action string

const (
	ActionCacheCleared    Action = "cache_cleared"
	ActionCacheEvicted    Action = "cache_entry_evicted"
	ActionMappingSet      Action = "custom_mapping_set"
	ActionMappingDeleted  Action = "custom_mapping_deleted"
	ActionMappingsCleared Action = "custom_mappings_cleared"
	ActionFallbackServed  Action = "fallback_served"
)

// Event is a single append-only audit record.
type Event struct {
	Action    Action    `json:"action"`
	Subject   string    `json:"subject,omitempty"` // cache key or period name
	Actor     string    `json:"actor,omitempty"`   // client identity, when known
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
