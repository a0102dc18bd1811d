package handler

import "assetgov/pkg/domain"

// VersionResponse answers add and promote requests.
type VersionResponse struct {
	Registry domain.Address `json:"registry"`
	Version  string         `json:"version"`
	Active   bool           `json:"active"`
}

// FetchResponse carries the bundle copied from the reference registry.
type FetchResponse struct {
	Registry domain.Address `json:"registry"`
	Version  string         `json:"version"`
	Bundle   domain.Bundle  `json:"bundle"`
}

// MigrationResponse names the authority the suite now follows.
type MigrationResponse struct {
	Asset     domain.Address `json:"asset"`
	Authority domain.Address `json:"authority"`
}
