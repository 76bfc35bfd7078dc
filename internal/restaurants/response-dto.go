package restaurants

// KOTTicket is an open order as shown on the kitchen board
type KOTTicket struct {
	Order
	NextAction string `json:"next_action"`
}

type KOTResponse struct {
	Pending   []KOTTicket `json:"pending"`
	Preparing []KOTTicket `json:"preparing"`
	Ready     []KOTTicket `json:"ready"`
}

// BuildKOT groups non-terminal orders by status, keeping the given order within each column
func BuildKOT(orders []Order) *KOTResponse {
	kot := &KOTResponse{Pending: []KOTTicket{}, Preparing: []KOTTicket{}, Ready: []KOTTicket{}}
	for _, o := range orders {
		ticket := KOTTicket{Order: o, NextAction: o.Status.ActionLabel()}
		switch o.Status {
		case OrderStatusPending:
			kot.Pending = append(kot.Pending, ticket)
		case OrderStatusPreparing:
			kot.Preparing = append(kot.Preparing, ticket)
		case OrderStatusReady:
			kot.Ready = append(kot.Ready, ticket)
		}
	}
	return kot
}
