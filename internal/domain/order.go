package domain

// Status is the lifecycle state of an order as carried on the wire.
type Status string

const (
	StatusPendiente Status = "PENDIENTE"
	StatusEnCamino  Status = "EN_CAMINO"
	StatusEntregado Status = "ENTREGADO"
	StatusRechazado Status = "RECHAZADO"
	StatusCancelado Status = "CANCELADO"
)

// ordinal positions along the main delivery path. Terminal rejections and
// cancellations sit past everything a dealer can still act on.
var statusRank = map[Status]int{
	StatusPendiente: 0,
	StatusEnCamino:  1,
	StatusEntregado: 2,
	StatusRechazado: 2,
	StatusCancelado: 2,
}

func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// DealerRelevant reports whether an order in this status belongs in a
// dealer's active queue.
func (s Status) DealerRelevant() bool {
	return s == StatusPendiente || s == StatusEnCamino
}

func (s Status) Terminal() bool {
	return s == StatusEntregado || s == StatusRechazado || s == StatusCancelado
}

// Satisfies reports whether an authoritative event carrying status s settles
// an in-flight action targeting target: equal, or strictly past it in the
// state machine.
func (s Status) Satisfies(target Status) bool {
	if s == target {
		return true
	}
	return statusRank[s] > statusRank[target]
}

// CanTransitionTo reports whether next is a legal transition out of s for a
// dealer-issued command.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPendiente:
		return next == StatusEnCamino || next == StatusRechazado || next == StatusCancelado
	case StatusEnCamino:
		return next == StatusEntregado || next == StatusCancelado
	default:
		return false
	}
}

// OrderSnapshot is the authoritative server-side view of one order as
// broadcast on the status stream. ID is stable for the order's lifetime;
// Version, when the server supplies one, increases monotonically per order.
type OrderSnapshot struct {
	ID           int64      `json:"id"`
	Status       Status     `json:"status"`
	Total        float64    `json:"total"`
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	Version      int64      `json:"version,omitempty"`
	OrderDetails []LineItem `json:"orderDetails"`
	Customer     Customer   `json:"customer"`
	CustomerID   int64      `json:"customerId"`
	DealerID     int64      `json:"dealerId,omitempty"`
}

type LineItem struct {
	ID        int64   `json:"id"`
	Amount    int     `json:"amount"`
	UnitPrice float64 `json:"unitPrice"`
	Product   Product `json:"product"`
}

type Product struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	URLImage   string      `json:"urlImage"`
	Restaurant *Restaurant `json:"restaurant,omitempty"`
}

type Restaurant struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Customer struct {
	ID         int64      `json:"id"`
	UserEntity UserEntity `json:"userEntity"`
}

type UserEntity struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// StatusCommand is the outbound request to move an order to a new status.
type StatusCommand struct {
	OrderID  int64  `json:"orderId"`
	DealerID int64  `json:"dealerId"`
	Status   Status `json:"status"`
}

// ErrorEvent is a command rejection delivered on the per-dealer error queue.
// OrderID is zero for connection-level failures.
type ErrorEvent struct {
	OrderID int64    `json:"orderId,omitempty"`
	Errors  []string `json:"errors"`
}

// Notification is a transient, surfaced-once failure handed to the UI layer.
type Notification struct {
	OrderID  int64    `json:"orderId,omitempty"`
	Messages []string `json:"messages"`
}
