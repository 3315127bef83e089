package blockchain

import (
	"context"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ensRegistryAddress is the ENS registry deployed on mainnet.
var ensRegistryAddress = common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e")

var (
	ErrNameNotFound = errors.New("name has no resolver or address record")

	dialENSClient = ethclient.Dial
)

// ENSResolver resolves ENS names to addresses via two view calls against the
// registry and the name's resolver contract. It satisfies the registry
// engine's NameResolver interface.
type ENSResolver struct {
	client   *ethclient.Client
	registry common.Address
	// testCallView allows deterministic unit tests without network sockets.
	testCallView func(ctx context.Context, to common.Address, data []byte) ([]byte, error)
}

// NewENSResolver creates a resolver backed by the given RPC endpoint.
func NewENSResolver(rpcURL string) (*ENSResolver, error) {
	client, err := dialENSClient(rpcURL)
	if err != nil {
		return nil, err
	}
	return &ENSResolver{client: client, registry: ensRegistryAddress}, nil
}

// NewENSResolverWithCallView creates a resolver with an injected call
// implementation, for unit tests where RPC sockets are unavailable.
func NewENSResolverWithCallView(callViewFn func(ctx context.Context, to common.Address, data []byte) ([]byte, error)) *ENSResolver {
	return &ENSResolver{registry: ensRegistryAddress, testCallView: callViewFn}
}

// Resolve returns the hex address an ENS name points to.
func (r *ENSResolver) Resolve(ctx context.Context, name string) (string, error) {
	node := NameHash(name)

	// resolver(bytes32) selector: 0x0178b8bf
	data := append(common.Hex2Bytes("0178b8bf"), node[:]...)
	out, err := r.callView(ctx, r.registry, data)
	if err != nil {
		return "", err
	}
	if len(out) < 32 {
		return "", ErrNameNotFound
	}
	resolver := common.BytesToAddress(out[12:32])
	if resolver == (common.Address{}) {
		return "", ErrNameNotFound
	}

	// addr(bytes32) selector: 0x3b3b57de
	data = append(common.Hex2Bytes("3b3b57de"), node[:]...)
	out, err = r.callView(ctx, resolver, data)
	if err != nil {
		return "", err
	}
	if len(out) < 32 {
		return "", ErrNameNotFound
	}
	addr := common.BytesToAddress(out[12:32])
	if addr == (common.Address{}) {
		return "", ErrNameNotFound
	}

	return addr.Hex(), nil
}

func (r *ENSResolver) callView(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	if r.testCallView != nil {
		return r.testCallView(ctx, to, data)
	}
	msg := ethereum.CallMsg{To: &to, Data: data}
	return r.client.CallContract(ctx, msg, nil)
}

// NameHash computes the EIP-137 namehash of an ENS name.
func NameHash(name string) [32]byte {
	var node [32]byte
	if name == "" {
		return node
	}

	labels := strings.Split(strings.ToLower(strings.TrimSpace(name)), ".")
	for i := len(labels) - 1; i >= 0; i-- {
		labelHash := crypto.Keccak256([]byte(labels[i]))
		copy(node[:], crypto.Keccak256(node[:], labelHash))
	}
	return node
}
