package table

//ID identifies a row within a single table. IDs are never reused, even after the row is deleted.
type ID uint64

//Allocator hands out monotonically increasing row identifiers. It is not safe for concurrent
//use; callers are expected to hold whatever lock guards the owning table.
type Allocator struct {
	last ID
}

//Next returns an identifier that has never been returned before
func (a *Allocator) Next() ID {
	a.last++
	return a.last
}

//Observe makes sure that subsequent calls to Next return values greater than id
func (a *Allocator) Observe(id ID) {
	if id > a.last {
		a.last = id
	}
}

//Last returns the most recently issued (or observed) identifier
func (a *Allocator) Last() ID {
	return a.last
}
