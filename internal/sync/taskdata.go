// Package sync implements the out-of-band task-context synchronization
// handshake against the Oppla web app: a short-lived bearer token is acquired,
// a single-callback local HTTP listener is bound on an ephemeral port, the
// browser is handed a URL carrying both, and the web app calls back with the
// identifiers of the task the user picked. The result is held in a shared
// Store that downstream tools read to scope their searches.
package sync

import (
	"net/url"
	"time"
)

// TaskSyncData is the payload delivered by a successful sync callback.
// It is an immutable value: the store replaces it wholesale, never mutates it.
//
// AccountID, ProductID and BoardID are always populated together by a valid
// callback; an empty string means "unset" downstream, never an empty-but-valid
// ID. TaskID and its display fields are correlated: when TaskID is empty the
// work item fields are meaningless and must not be sent downstream.
type TaskSyncData struct {
	// Account information
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`

	// Product information
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`

	// Big Bet (board) information
	BoardID           string `json:"board_id"`
	BigBet            string `json:"big_bet,omitempty"`             // Display name for the big bet (board name)
	BigBetDescription string `json:"big_bet_description,omitempty"` // Board description

	// Work Item (task) information (optional)
	TaskID              string `json:"task_id,omitempty"`
	WorkItem            string `json:"work_item,omitempty"`             // Display name for the work item (task name)
	WorkItemDescription string `json:"work_item_description,omitempty"` // Task description

	// Metadata
	SyncedAt time.Time `json:"synced_at"`
}

// HasTask reports whether a specific work item was synced, as opposed to
// board-level context only.
func (d TaskSyncData) HasTask() bool {
	return d.TaskID != ""
}

// HasCoreIDs reports whether the three required identifiers are all present.
func (d TaskSyncData) HasCoreIDs() bool {
	return d.AccountID != "" && d.ProductID != "" && d.BoardID != ""
}

// ParseCallbackQuery populates a TaskSyncData from callback query parameters.
// Recognized keys map 1:1 to fields; board_name/board_description and
// task_name/task_description carry the big bet and work item display strings.
// Unrecognized keys are ignored so newer web app versions can add parameters
// without breaking older clients. SyncedAt is stamped with the current time,
// never taken from the request.
func ParseCallbackQuery(query url.Values) TaskSyncData {
	data := TaskSyncData{
		SyncedAt: time.Now(),
	}

	for key, values := range query {
		if len(values) == 0 {
			continue
		}
		value := values[0]
		switch key {
		case "account_id":
			data.AccountID = value
		case "account_name":
			data.AccountName = value
		case "product_id":
			data.ProductID = value
		case "product_name":
			data.ProductName = value
		case "board_id":
			data.BoardID = value
		case "board_name":
			data.BigBet = value
		case "board_description":
			data.BigBetDescription = value
		case "task_id":
			data.TaskID = value
		case "task_name":
			data.WorkItem = value
		case "task_description":
			data.WorkItemDescription = value
		}
	}

	return data
}

// QueryValues encodes the payload back into callback query parameters.
// Optional fields are omitted when empty. SyncedAt is not encoded; it is
// local metadata, not part of the wire format.
func (d TaskSyncData) QueryValues() url.Values {
	q := url.Values{}
	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	set("account_id", d.AccountID)
	set("account_name", d.AccountName)
	set("product_id", d.ProductID)
	set("product_name", d.ProductName)
	set("board_id", d.BoardID)
	set("board_name", d.BigBet)
	set("board_description", d.BigBetDescription)
	set("task_id", d.TaskID)
	set("task_name", d.WorkItem)
	set("task_description", d.WorkItemDescription)
	return q
}
