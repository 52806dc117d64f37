package graph

import "errors"

var (
	// ErrTransactionNested is returned by StartTransaction when any
	// transaction, implicit or named, is already open.
	ErrTransactionNested = errors.New("graph: nested non-implicit transaction not supported")

	// ErrTransactionNotOpen is returned by EndTransaction when no
	// transaction is currently open.
	ErrTransactionNotOpen = errors.New("graph: attempted to end non-existing transaction")

	// ErrGroupExists is returned by Groups.Add when the name is taken.
	ErrGroupExists = errors.New("graph: group with that name already exists")
)
