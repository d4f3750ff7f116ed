// Package search implements the context search tool against the Oppla API.
// Searches are silently scoped to the user's synced task context: the caller's
// filter is overlaid with the ambient TaskSyncData wherever the caller left a
// field unset.
package search

import (
	syncpkg "oppla/internal/sync"
)

// ContentTypeAuto signals downstream that scoping was inferred from the
// ambient context rather than specified explicitly by the caller.
const ContentTypeAuto = "auto"

// Filter narrows a search request. All fields are optional; empty strings are
// omitted from the wire format, never sent as empty values.
type Filter struct {
	// Type of content to search: "conversations", "tasks", "compressed", or "all"
	SearchType string `json:"type,omitempty"`

	// Content to extract: "work_item", "big_bet", or "auto"
	ContentType string `json:"content_type,omitempty"`

	// Search within a specific thread
	ThreadID string `json:"thread_id,omitempty"`

	// Scope by account / product / board / task
	AccountID string `json:"account_id,omitempty"`
	ProductID string `json:"product_id,omitempty"`
	BoardID   string `json:"board_id,omitempty"`
	TaskID    string `json:"task_id,omitempty"`
}

// IsZero reports whether no field is set.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// MergeFilter produces the effective filter for a search call.
//
// Pure function of its two inputs. The caller wins for every field it set to
// a non-empty value; ambient identifiers fill the gaps. An empty string in
// the ambient context means "unset" and is never copied. TaskID is copied
// only when the ambient context actually carries one - board-level context
// never synthesizes a task scope. When any ambient field was introduced and
// the caller did not specify ContentType, it defaults to "auto".
func MergeFilter(caller *Filter, ambient *syncpkg.TaskSyncData) Filter {
	var merged Filter
	if caller != nil {
		merged = *caller
	}
	if ambient == nil {
		return merged
	}

	introduced := false
	fill := func(dst *string, ambientValue string) {
		if *dst == "" && ambientValue != "" {
			*dst = ambientValue
			introduced = true
		}
	}

	fill(&merged.AccountID, ambient.AccountID)
	fill(&merged.ProductID, ambient.ProductID)
	fill(&merged.BoardID, ambient.BoardID)
	fill(&merged.TaskID, ambient.TaskID)

	if introduced && merged.ContentType == "" {
		merged.ContentType = ContentTypeAuto
	}

	return merged
}
