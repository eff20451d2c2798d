package model

// OrderKey builds the composite key for a (kid, column) kanban bucket.
func OrderKey(kidID, column string) string {
	return kidID + "|" + column
}

// KanbanOrders maps OrderKey(kid, column) to the user-defined ordering of
// instance ids in that bucket. Buckets with no ids are deleted rather
// than stored empty.
type KanbanOrders map[string][]string
