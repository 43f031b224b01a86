package kitchen

import (
	"mckitchen/internal/models"
)

// OrderQueue holds every order the kitchen has seen, completed ones
// included, in a single ordered sequence. Among PENDING entries, all VIP
// orders precede all NORMAL orders and each class keeps arrival order.
// Insert and Reinsert maintain that invariant; state transitions never
// move an entry.
type OrderQueue struct {
	orders []*models.Order
}

func NewOrderQueue() *OrderQueue {
	return &OrderQueue{orders: []*models.Order{}}
}

// Insert places an order into the sequence. NORMAL orders always go to the
// absolute tail. VIP orders seek a slot: immediately after the last pending
// VIP, else immediately before the first pending NORMAL, else the tail.
func (q *OrderQueue) Insert(order *models.Order) {
	if order.Priority != models.PriorityVIP {
		q.orders = append(q.orders, order)
		return
	}

	lastVIP := -1
	firstNormal := -1
	for i, cur := range q.orders {
		if cur.State != models.OrderPending {
			continue
		}
		if cur.Priority == models.PriorityVIP {
			lastVIP = i
		} else if firstNormal == -1 {
			firstNormal = i
		}
	}

	switch {
	case lastVIP >= 0:
		q.insertAt(lastVIP+1, order)
	case firstNormal >= 0:
		q.insertAt(firstNormal, order)
	default:
		q.orders = append(q.orders, order)
	}
}

// Reinsert returns an in-flight order to PENDING after it lost its bot.
// The order re-seeks its priority slot as if freshly submitted, so it lands
// behind already-pending orders of its own class.
func (q *OrderQueue) Reinsert(order *models.Order) {
	q.remove(order.ID)
	order.State = models.OrderPending
	order.AssignedBot = nil
	order.StartedAt = nil
	q.Insert(order)
}

// Remove deletes the order from the sequence entirely. Returns false if no
// order with that id is present.
func (q *OrderQueue) Remove(id int) bool {
	return q.remove(id)
}

func (q *OrderQueue) remove(id int) bool {
	for i, cur := range q.orders {
		if cur.ID == id {
			q.orders = append(q.orders[:i], q.orders[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns the live order record for id, or nil.
func (q *OrderQueue) Find(id int) *models.Order {
	for _, cur := range q.orders {
		if cur.ID == id {
			return cur
		}
	}
	return nil
}

// HeadPending returns the first PENDING order in the sequence. By the
// ordering invariant this is the highest-priority, oldest pending order.
func (q *OrderQueue) HeadPending() *models.Order {
	for _, cur := range q.orders {
		if cur.State == models.OrderPending {
			return cur
		}
	}
	return nil
}

// Pending returns a copy of all PENDING orders in sequence order.
func (q *OrderQueue) Pending() []models.Order {
	return q.filter(models.OrderPending)
}

// Processing returns a copy of all PROCESSING orders in sequence order.
func (q *OrderQueue) Processing() []models.Order {
	return q.filter(models.OrderProcessing)
}

// Complete returns a copy of all COMPLETE orders in sequence order.
func (q *OrderQueue) Complete() []models.Order {
	return q.filter(models.OrderComplete)
}

func (q *OrderQueue) filter(state models.OrderState) []models.Order {
	out := []models.Order{}
	for _, cur := range q.orders {
		if cur.State == state {
			out = append(out, *cur)
		}
	}
	return out
}

func (q *OrderQueue) insertAt(i int, order *models.Order) {
	q.orders = append(q.orders, nil)
	copy(q.orders[i+1:], q.orders[i:])
	q.orders[i] = order
}
