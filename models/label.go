package models

// Label is one row of the hand-labelled account table.
type Label struct {
	UserName string
	Category string
}
