package handler

import "assetgov/pkg/domain"

// DeploymentResponse answers POST /deployments.
type DeploymentResponse struct {
	Key   string       `json:"key"`
	Suite domain.Suite `json:"suite"`
}
