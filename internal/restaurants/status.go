package restaurants

import (
	"errors"
	"fmt"
)

var ErrInvalidTransition = errors.New("order cannot move to the requested status")

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// kitchen flow, in order
var flow = []OrderStatus{OrderStatusPending, OrderStatusPreparing, OrderStatusReady, OrderStatusDelivered}

var actionLabels = map[OrderStatus]string{
	OrderStatusPending:   "Start Cooking",
	OrderStatusPreparing: "Mark Ready",
	OrderStatusReady:     "Served",
}

func (s OrderStatus) IsValid() bool {
	return s == OrderStatusCancelled || s.rank() >= 0
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) rank() int {
	for i, f := range flow {
		if f == s {
			return i
		}
	}
	return -1
}

// ActionLabel is the kitchen button shown for an order in this status; empty for terminal statuses
func (s OrderStatus) ActionLabel() string {
	return actionLabels[s]
}

// Advance moves one step along the kitchen flow. It never yields cancelled.
func Advance(s OrderStatus) (OrderStatus, error) {
	if s.IsTerminal() || !s.IsValid() {
		return s, fmt.Errorf("%w: %s is final", ErrInvalidTransition, s)
	}
	return flow[s.rank()+1], nil
}

// CanTransition allows forward moves and cancellation out of a non-terminal status.
// Setting the current status again is a no-op and allowed.
func CanTransition(from, to OrderStatus) bool {
	if !to.IsValid() {
		return false
	}
	if from == to {
		return true
	}
	if from.IsTerminal() {
		return false
	}
	if to == OrderStatusCancelled {
		return true
	}
	return to.rank() > from.rank()
}
