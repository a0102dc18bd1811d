package handler

import "assetgov/pkg/domain"

// ModuleResponse reports the binding state after bind or unbind.
type ModuleResponse struct {
	Engine domain.Address `json:"engine"`
	Module domain.Address `json:"module"`
	Bound  bool           `json:"bound"`
}

// CallResponse acknowledges an applied module call.
type CallResponse struct {
	Module domain.Address `json:"module"`
	Method string         `json:"method"`
	Calls  int            `json:"calls"`
}
