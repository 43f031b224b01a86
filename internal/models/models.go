package models

import "time"

// Priority is an order's queue class. VIP orders take queue precedence
// over NORMAL orders but never preempt in-flight work.
type Priority string

const (
	PriorityVIP    Priority = "VIP"
	PriorityNormal Priority = "NORMAL"
)

// OrderState is an order's lifecycle state.
type OrderState string

const (
	OrderPending    OrderState = "PENDING"
	OrderProcessing OrderState = "PROCESSING"
	OrderComplete   OrderState = "COMPLETE"
)

// BotState is a bot's lifecycle state.
type BotState string

const (
	BotIdle BotState = "IDLE"
	BotBusy BotState = "BUSY"
)

// Order represents a unit of kitchen work.
// AssignedBot and StartedAt are set iff the order is PROCESSING.
type Order struct {
	ID          int        `json:"id"`
	Priority    Priority   `json:"priority"`
	State       OrderState `json:"state"`
	AssignedBot *int       `json:"assigned_bot,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Bot represents a worker that processes exactly one order at a time.
// CurrentOrder is set iff the bot is BUSY, and always mirrors the
// order's AssignedBot.
type Bot struct {
	ID           int      `json:"id"`
	State        BotState `json:"state"`
	CurrentOrder *int     `json:"current_order,omitempty"`
}
