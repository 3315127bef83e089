package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"wallet-registry.backend/internal/domain/entities"
	"wallet-registry.backend/internal/domain/repositories"
	"wallet-registry.backend/internal/interfaces/http/response"
)

type networkLister interface {
	GetAll(ctx context.Context) ([]*entities.Network, error)
}

// NetworkHandler serves the fixed supported-network set.
type NetworkHandler struct {
	networkRepo networkLister
}

// NewNetworkHandler creates a new network handler.
func NewNetworkHandler(networkRepo repositories.NetworkRepository) *NetworkHandler {
	return &NetworkHandler{networkRepo: networkRepo}
}

// ListNetworks lists the active supported networks.
// GET /api/v1/networks
func (h *NetworkHandler) ListNetworks(c *gin.Context) {
	networks, err := h.networkRepo.GetAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	if networks == nil {
		networks = []*entities.Network{}
	}
	response.Success(c, http.StatusOK, gin.H{"networks": networks})
}
