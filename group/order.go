package group

import (
	"slices"

	"github.com/google/uuid"

	"github.com/boilerrat/grant-attestoor/application"
)

// ID is a stable surrogate identifier for one record of a group. It never
// appears in the serialized document.
type ID string

// NewID returns a fresh random identifier.
func NewID() ID {
	return ID(uuid.NewString())
}

// Order is the ordered list of record identifiers of one group. It is kept in
// lock-step with the group's records: position i of the Order identifies
// record i. Like the record operations, every method returns a new Order.
type Order struct {
	ids []ID
}

// NewOrder returns an Order of n fresh identifiers.
func NewOrder(n int) Order {
	ids := make([]ID, n)
	for i := range ids {
		ids[i] = NewID()
	}
	return Order{ids: ids}
}

// Len returns the number of identifiers.
func (o Order) Len() int { return len(o.ids) }

// IDs returns a copy of the identifiers in record order.
func (o Order) IDs() []ID {
	return slices.Clone(o.ids)
}

// At returns the identifier of the record at index.
func (o Order) At(index int) (ID, error) {
	if index < 0 || index >= len(o.ids) {
		return "", application.IndexOutOfRange(index, len(o.ids))
	}
	return o.ids[index], nil
}

// IndexOf returns the current position of id, or -1.
func (o Order) IndexOf(id ID) int {
	return slices.Index(o.ids, id)
}

// Append returns a new Order with a fresh identifier at the end.
func (o Order) Append() (Order, ID) {
	id := NewID()
	return Order{ids: Append(o.ids, id)}, id
}

// RemoveAt returns a new Order without the identifier at index.
func (o Order) RemoveAt(index int) (Order, error) {
	ids, err := RemoveAt(o.ids, index)
	if err != nil {
		return o, err
	}
	return Order{ids: ids}, nil
}
