package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wallet-registry.backend/internal/domain/entities"
	domainerrors "wallet-registry.backend/internal/domain/errors"
	"wallet-registry.backend/internal/interfaces/http/middleware"
	"wallet-registry.backend/internal/usecases"
)

type walletServiceStub struct {
	listResult    *usecases.WalletListResult
	listErr       error
	addResult     *entities.Wallet
	addErr        error
	removeResult  *usecases.RemoveWalletResult
	removeErr     error
	removeAddrRes *usecases.RemoveAddressResult
	removeAddrErr error
	setPrimaryErr error

	lastQuery         usecases.ListQuery
	lastAddInput      *entities.AddWalletInput
	lastActiveNetwork string
	lastWalletID      uuid.UUID
	lastAddress       string
}

func (s *walletServiceStub) List(_ context.Context, _ uuid.UUID, query usecases.ListQuery) (*usecases.WalletListResult, error) {
	s.lastQuery = query
	return s.listResult, s.listErr
}

func (s *walletServiceStub) Add(_ context.Context, _ uuid.UUID, input *entities.AddWalletInput) (*entities.Wallet, error) {
	s.lastAddInput = input
	return s.addResult, s.addErr
}

func (s *walletServiceStub) RemoveWallet(_ context.Context, _ uuid.UUID, walletID uuid.UUID, activeNetworkID string) (*usecases.RemoveWalletResult, error) {
	s.lastWalletID = walletID
	s.lastActiveNetwork = activeNetworkID
	return s.removeResult, s.removeErr
}

func (s *walletServiceStub) RemoveAddress(_ context.Context, _ uuid.UUID, address, activeNetworkID string) (*usecases.RemoveAddressResult, error) {
	s.lastAddress = address
	s.lastActiveNetwork = activeNetworkID
	return s.removeAddrRes, s.removeAddrErr
}

func (s *walletServiceStub) SetPrimary(_ context.Context, _ uuid.UUID, walletID uuid.UUID) error {
	s.lastWalletID = walletID
	return s.setPrimaryErr
}

func newWalletTestRouter(stub *walletServiceStub, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &WalletHandler{walletUsecase: stub}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != uuid.Nil {
			c.Set(middleware.UserIDKey, userID)
		}
		c.Next()
	})
	r.GET("/wallets", h.ListWallets)
	r.POST("/wallets", h.AddWallet)
	r.POST("/wallets/remove", h.RemoveWallet)
	r.POST("/wallets/remove-address", h.RemoveAddress)
	r.POST("/wallets/set-primary", h.SetPrimaryWallet)
	return r
}

func performJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Error.Message)
	return body.Error.Code
}

func TestWalletHandler_ListWallets_Success(t *testing.T) {
	userID := uuid.New()
	primaryID := uuid.New()
	stub := &walletServiceStub{
		listResult: &usecases.WalletListResult{
			Wallets: []*entities.Wallet{{ID: primaryID, Address: "0xabc", NetworkID: "eip155:1", IsPrimary: true}},
			Quota:   entities.Quota{UsedAddresses: 1, UsedRows: 1, Total: 3, Plan: entities.PlanFree},
			PrimaryWalletID: &primaryID,
			ActiveSelection: &entities.ActiveSelection{Address: "0xabc", NetworkID: "eip155:1"},
		},
	}
	r := newWalletTestRouter(stub, userID)

	w := performJSON(t, r, http.MethodGet,
		"/wallets?rememberedAddress=0xabc&rememberedNetwork=eip155:1&activeNetwork=eip155:137", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0xabc", stub.lastQuery.RememberedAddress)
	assert.Equal(t, "eip155:1", stub.lastQuery.RememberedNetwork)
	assert.Equal(t, "eip155:137", stub.lastQuery.ActiveNetworkID)

	var body struct {
		Wallets []json.RawMessage `json:"wallets"`
		Quota   entities.Quota    `json:"quota"`
		Active  struct {
			PrimaryWalletID string `json:"primaryWalletId"`
			Address         string `json:"address"`
			NetworkID       string `json:"networkId"`
		} `json:"activeHint"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Wallets, 1)
	assert.Equal(t, 1, body.Quota.UsedAddresses)
	assert.Equal(t, primaryID.String(), body.Active.PrimaryWalletID)
	assert.Equal(t, "0xabc", body.Active.Address)
}

func TestWalletHandler_ListWallets_EmptyRegistryBody(t *testing.T) {
	stub := &walletServiceStub{
		listResult: &usecases.WalletListResult{
			Quota: entities.Quota{Total: 3, Plan: entities.PlanFree},
		},
	}
	r := newWalletTestRouter(stub, uuid.New())

	w := performJSON(t, r, http.MethodGet, "/wallets", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"wallets":[]`, "empty list serializes as an array")
}

func TestWalletHandler_ListWallets_Unauthenticated(t *testing.T) {
	r := newWalletTestRouter(&walletServiceStub{}, uuid.Nil)

	w := performJSON(t, r, http.MethodGet, "/wallets", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, domainerrors.CodeUnauthorized, errorCode(t, w))
}

func TestWalletHandler_AddWallet_Success(t *testing.T) {
	stub := &walletServiceStub{
		addResult: &entities.Wallet{ID: uuid.New(), Address: "0xabc", NetworkID: "eip155:1", IsPrimary: true},
	}
	r := newWalletTestRouter(stub, uuid.New())

	w := performJSON(t, r, http.MethodPost, "/wallets", gin.H{
		"addressOrName": "0xabc",
		"networkId":     "eip155:1",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "0xabc", stub.lastAddInput.AddressOrName)
	assert.Contains(t, w.Body.String(), `"isPrimary":true`)
}

func TestWalletHandler_AddWallet_BindingFailure(t *testing.T) {
	r := newWalletTestRouter(&walletServiceStub{}, uuid.New())

	w := performJSON(t, r, http.MethodPost, "/wallets", gin.H{"networkId": "eip155:1"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domainerrors.CodeInvalidInput, errorCode(t, w))
}

func TestWalletHandler_AddWallet_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"duplicate", domainerrors.ErrAlreadyExists, http.StatusConflict, domainerrors.CodeDuplicate},
		{"quota", domainerrors.ErrQuotaExceeded, http.StatusConflict, domainerrors.CodeQuotaExceeded},
		{"invalid address", domainerrors.ErrInvalidAddress, http.StatusUnprocessableEntity, domainerrors.CodeInvalidAddress},
		{"private key", domainerrors.ErrPrivateKeyDetected, http.StatusUnprocessableEntity, domainerrors.CodePrivateKeyDetected},
		{"seed phrase", domainerrors.ErrSeedPhraseDetected, http.StatusUnprocessableEntity, domainerrors.CodeSeedPhraseDetected},
		{"bad network", domainerrors.ErrUnsupportedNetwork, http.StatusUnprocessableEntity, domainerrors.CodeInvalidNetwork},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &walletServiceStub{addErr: tc.err}
			r := newWalletTestRouter(stub, uuid.New())

			w := performJSON(t, r, http.MethodPost, "/wallets", gin.H{
				"addressOrName": "0xabc",
				"networkId":     "eip155:1",
			})

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, errorCode(t, w))
		})
	}
}

func TestWalletHandler_RemoveWallet_Success(t *testing.T) {
	newPrimary := uuid.New()
	stub := &walletServiceStub{removeResult: &usecases.RemoveWalletResult{NewPrimaryID: &newPrimary}}
	r := newWalletTestRouter(stub, uuid.New())
	target := uuid.New()

	w := performJSON(t, r, http.MethodPost, "/wallets/remove?activeNetwork=eip155:137", gin.H{
		"walletId": target.String(),
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, target, stub.lastWalletID)
	assert.Equal(t, "eip155:137", stub.lastActiveNetwork)
	assert.Contains(t, w.Body.String(), newPrimary.String())
}

func TestWalletHandler_RemoveWallet_NoReassignmentOmitsNewPrimary(t *testing.T) {
	stub := &walletServiceStub{removeResult: &usecases.RemoveWalletResult{}}
	r := newWalletTestRouter(stub, uuid.New())

	w := performJSON(t, r, http.MethodPost, "/wallets/remove", gin.H{"walletId": uuid.New().String()})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "newPrimaryId")
}

func TestWalletHandler_RemoveWallet_MalformedID(t *testing.T) {
	r := newWalletTestRouter(&walletServiceStub{}, uuid.New())

	w := performJSON(t, r, http.MethodPost, "/wallets/remove", gin.H{"walletId": "not-a-uuid"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWalletHandler_RemoveWallet_NotFound(t *testing.T) {
	stub := &walletServiceStub{removeErr: domainerrors.ErrNotFound}
	r := newWalletTestRouter(stub, uuid.New())

	w := performJSON(t, r, http.MethodPost, "/wallets/remove", gin.H{"walletId": uuid.New().String()})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, domainerrors.CodeNotFound, errorCode(t, w))
}

func TestWalletHandler_RemoveAddress_Success(t *testing.T) {
	newPrimary := uuid.New()
	stub := &walletServiceStub{
		removeAddrRes: &usecases.RemoveAddressResult{DeletedCount: 2, NewPrimaryID: &newPrimary},
	}
	r := newWalletTestRouter(stub, uuid.New())

	w := performJSON(t, r, http.MethodPost, "/wallets/remove-address", gin.H{"address": "0xAbC"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0xAbC", stub.lastAddress)
	assert.Contains(t, w.Body.String(), `"deletedCount":2`)
}

func TestWalletHandler_SetPrimary_Success(t *testing.T) {
	stub := &walletServiceStub{}
	r := newWalletTestRouter(stub, uuid.New())
	target := uuid.New()

	w := performJSON(t, r, http.MethodPost, "/wallets/set-primary", gin.H{"walletId": target.String()})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, target, stub.lastWalletID)
	assert.Contains(t, w.Body.String(), target.String())
}

func TestWalletHandler_SetPrimary_NotFound(t *testing.T) {
	stub := &walletServiceStub{setPrimaryErr: domainerrors.ErrNotFound}
	r := newWalletTestRouter(stub, uuid.New())

	w := performJSON(t, r, http.MethodPost, "/wallets/set-primary", gin.H{"walletId": uuid.New().String()})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, domainerrors.CodeNotFound, errorCode(t, w))
}
