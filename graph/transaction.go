package graph

import "github.com/protoflo/protoflo/bus"

// StartTransaction opens a named transaction. Only one named transaction
// may be open at a time; starting one while any transaction is open is
// rejected. The graph's own per-mutation transactions use the id
// "implicit"; an empty id leaves no transaction recorded as open, since an
// empty Transaction.ID means none is.
func (g *Graph) StartTransaction(id string, metadata Metadata) error {
	g.mu.Lock()
	if g.transaction.Active() {
		g.mu.Unlock()
		return ErrTransactionNested
	}
	g.transaction = Transaction{ID: id, Depth: 0}
	g.mu.Unlock()

	g.Emit(EventStartTransaction, bus.Fields{"id": id, "metadata": metadata})
	return nil
}

// EndTransaction closes the named transaction opened by StartTransaction.
func (g *Graph) EndTransaction(id string, metadata Metadata) error {
	g.mu.Lock()
	if !g.transaction.Active() {
		g.mu.Unlock()
		return ErrTransactionNotOpen
	}
	g.transaction = Transaction{}
	g.mu.Unlock()

	g.Emit(EventEndTransaction, bus.Fields{"id": id, "metadata": metadata})
	return nil
}

// checkTransactionStart opens an implicit transaction if none is open yet,
// and otherwise bumps the depth counter of whichever transaction (implicit
// or named) is already active. Every mutating collection method calls this
// before performing its mutation.
func (g *Graph) checkTransactionStart() {
	g.mu.Lock()
	if !g.transaction.Active() {
		g.transaction = Transaction{ID: "implicit", Depth: 0}
		g.mu.Unlock()
		g.Emit(EventStartTransaction, bus.Fields{"id": "implicit", "metadata": nil})
		g.mu.Lock()
	}
	g.transaction.Depth++
	g.mu.Unlock()
}

// checkTransactionEnd decrements the depth counter and, once it reaches
// zero on an implicit transaction, closes it automatically. Named
// transactions are only closed by an explicit EndTransaction call.
func (g *Graph) checkTransactionEnd() {
	g.mu.Lock()
	if !g.transaction.Active() {
		g.mu.Unlock()
		return
	}
	g.transaction.Depth--
	depth := g.transaction.Depth
	id := g.transaction.ID
	g.mu.Unlock()

	if depth <= 0 && id == "implicit" {
		g.mu.Lock()
		g.transaction = Transaction{}
		g.mu.Unlock()
		g.Emit(EventEndTransaction, bus.Fields{"id": id, "metadata": nil})
	}
}
