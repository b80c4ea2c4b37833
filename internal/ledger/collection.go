package ledger

import (
	"container/list"

	"wallet/internal/core"
)

// collection is an insertion-ordered map of transactions keyed by id.
// Lookups, replacement and removal never shift positions of other entries.
type collection struct {
	order *list.List
	index map[string]*list.Element
}

func newCollection() *collection {
	return &collection{
		order: list.New(),
		index: make(map[string]*list.Element),
	}
}

func (c *collection) len() int {
	return c.order.Len()
}

func (c *collection) get(id string) (core.Transaction, bool) {
	el, ok := c.index[id]
	if !ok {
		return core.Transaction{}, false
	}
	return el.Value.(core.Transaction), true
}

// append adds tx at the end. It reports false if the id is taken.
func (c *collection) append(tx core.Transaction) bool {
	if _, exists := c.index[tx.ID]; exists {
		return false
	}
	c.index[tx.ID] = c.order.PushBack(tx)
	return true
}

// replace swaps the stored record with the same id, keeping its position.
func (c *collection) replace(tx core.Transaction) bool {
	el, ok := c.index[tx.ID]
	if !ok {
		return false
	}
	el.Value = tx
	return true
}

// remove deletes id and returns a func that puts it back where it was.
// The restore func is only valid until the collection is modified again.
func (c *collection) remove(id string) (restore func(), ok bool) {
	el, ok := c.index[id]
	if !ok {
		return nil, false
	}
	tx := el.Value.(core.Transaction)
	next := el.Next()
	c.order.Remove(el)
	delete(c.index, id)

	return func() {
		if next != nil {
			c.index[id] = c.order.InsertBefore(tx, next)
			return
		}
		c.index[id] = c.order.PushBack(tx)
	}, true
}

// slice returns the records in insertion order.
func (c *collection) slice() []core.Transaction {
	out := make([]core.Transaction, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(core.Transaction))
	}
	return out
}

// totals sums income and expense amounts.
func (c *collection) totals() (income, expense core.Money) {
	for el := c.order.Front(); el != nil; el = el.Next() {
		tx := el.Value.(core.Transaction)
		switch tx.Type {
		case core.Income:
			income = income.Add(tx.Amount)
		case core.Expense:
			expense = expense.Add(tx.Amount)
		}
	}
	return income, expense
}
