package model

// TradeRequest selects how a position is written.
// Implemented only by CreateRequest, EditRequest and MergeRequest.
type TradeRequest interface {
	tradeRequest()
}

// CreateRequest creates a new position for a symbol that is not held yet.
type CreateRequest struct {
	Position Position
}

// EditRequest overwrites every field of the position with the given id.
type EditRequest struct {
	ID       int64
	Position Position
}

// MergeRequest adds units to the position with the given id using the weighted average.
type MergeRequest struct {
	ID    int64
	Trade Trade
}

func (CreateRequest) tradeRequest() {}
func (EditRequest) tradeRequest()   {}
func (MergeRequest) tradeRequest()  {}
