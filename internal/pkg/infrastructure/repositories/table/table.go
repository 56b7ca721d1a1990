package table

import (
	"iter"
	"slices"
)

//Row wraps a value together with the identifier it was assigned on insertion
type Row[T any] struct {
	ID    ID
	Value T
}

//Table is an insertion ordered collection of rows of a single entity type
type Table[T any] struct {
	ids  Allocator
	rows []*Row[T]
}

//New creates an empty table
func New[T any]() *Table[T] {
	return &Table[T]{}
}

//Insert allocates a new identifier, appends the value and returns the identifier
func (t *Table[T]) Insert(value T) ID {
	id := t.Allocate()
	t.Put(id, value)
	return id
}

//Allocate reserves an identifier without inserting a row. An identifier that is never
//Put is simply retired.
func (t *Table[T]) Allocate() ID {
	return t.ids.Next()
}

//Put appends a row with a known identifier, e.g. one that was reserved with Allocate or
//one that is restored from storage.
func (t *Table[T]) Put(id ID, value T) {
	t.ids.Observe(id)
	t.rows = append(t.rows, &Row[T]{ID: id, Value: value})
}

//Reserve makes sure the table never hands out identifiers up to and including id
func (t *Table[T]) Reserve(id ID) {
	t.ids.Observe(id)
}

//LastID returns the highest identifier issued by this table so far
func (t *Table[T]) LastID() ID {
	return t.ids.Last()
}

//Find returns the first row, in insertion order, that matches the predicate
func (t *Table[T]) Find(predicate func(*Row[T]) bool) (*Row[T], bool) {
	for _, row := range t.rows {
		if predicate(row) {
			return row, true
		}
	}
	return nil, false
}

//Get returns the row with the given identifier
func (t *Table[T]) Get(id ID) (*Row[T], bool) {
	return t.Find(func(r *Row[T]) bool { return r.ID == id })
}

//Delete removes the row with the given identifier and returns its final value
func (t *Table[T]) Delete(id ID) (T, bool) {
	for i, row := range t.rows {
		if row.ID == id {
			t.rows = slices.Delete(t.rows, i, i+1)
			return row.Value, true
		}
	}

	var zero T
	return zero, false
}

//DeleteWhere removes every row that matches the predicate and returns how many were removed
func (t *Table[T]) DeleteWhere(predicate func(*Row[T]) bool) int {
	kept := t.rows[:0]
	for _, row := range t.rows {
		if !predicate(row) {
			kept = append(kept, row)
		}
	}

	removed := len(t.rows) - len(kept)

	// clear the tail so that removed rows can be collected
	for i := len(kept); i < len(t.rows); i++ {
		t.rows[i] = nil
	}
	t.rows = kept

	return removed
}

//Scan returns a sequence over all current rows in insertion order. The sequence can be
//ranged over any number of times and yields pointers that may be mutated in place.
//Rows must not be inserted or deleted while a scan is in progress.
func (t *Table[T]) Scan() iter.Seq[*Row[T]] {
	return func(yield func(*Row[T]) bool) {
		for _, row := range t.rows {
			if !yield(row) {
				return
			}
		}
	}
}

//Len returns the number of rows currently in the table
func (t *Table[T]) Len() int {
	return len(t.rows)
}
