// Package board defines the normalized domain types for a Projects v2 board.
// These types represent the concepts the scheduling engine works with,
// independent of the GraphQL API structure that produces them.
package board

// Project identifies a Projects v2 board.
type Project struct {
	ID     string // board node ID
	Number int    // project number within the owner's namespace
	Title  string
	Owner  string // owner login (organization or user)
}

// Field is a project field definition.
type Field struct {
	ID   string
	Name string
	Type string // GraphQL dataType, see FieldType constants
}

// FieldType constants for the field types the engine touches.
const (
	FieldTypeText         = "TEXT"
	FieldTypeNumber       = "NUMBER"
	FieldTypeDate         = "DATE"
	FieldTypeSingleSelect = "SINGLE_SELECT"
	FieldTypeIteration    = "ITERATION"
)

// ContentType constants for item content.
const (
	ContentTypeIssue       = "Issue"
	ContentTypePullRequest = "PullRequest"
	ContentTypeDraftIssue  = "DraftIssue"
)

// DraftItemTitle is the display title used for items whose content carries
// no readable title (draft or access-restricted content).
const DraftItemTitle = "Draft Item"

// DateFieldAliases lists the accepted names for the due-date field.
// Boards created by different tooling disagree on the exact spelling, so
// a DATE field named by the configured name or any alias matches.
var DateFieldAliases = []string{"Target date", "Due Date", "Due date", "Target Date"}

// Iteration is one entry of an iteration field's configured schedule.
type Iteration struct {
	ID           string
	Title        string
	StartDate    Date
	DurationDays int
}

// EndDate returns the last day covered by the iteration. An iteration
// spanning DurationDays days starting at StartDate covers the closed
// interval [StartDate, StartDate+DurationDays-1].
func (it Iteration) EndDate() Date {
	if it.DurationDays <= 0 {
		return it.StartDate
	}
	return it.StartDate.AddDays(it.DurationDays - 1)
}

// Item is a project item in normalized form: the issue behind it plus the
// current values of the two fields the engine manages.
type Item struct {
	ID             string // ProjectV2Item node ID
	ContentType    string
	Number         int    // issue/PR number, 0 for drafts
	Title          string // content title, DraftItemTitle when unreadable
	IterationTitle string // current iteration field value, empty if unset
	DueDate        Date   // current due-date field value, zero if unset
}

// HasDueDate reports whether the item already carries a due date.
func (i Item) HasDueDate() bool {
	return !i.DueDate.IsZero()
}
