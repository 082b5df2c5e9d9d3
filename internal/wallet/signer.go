package wallet

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// TxParams carries everything needed to build a dynamic-fee transaction. The
// tip and fee cap are expected to be the values negotiated with the relay.
type TxParams struct {
	ChainID   *big.Int
	Nonce     uint64
	To        common.Address
	Value     *big.Int
	Gas       uint64
	GasTipCap *big.Int // maxPriorityFeePerGas, wei
	GasFeeCap *big.Int // maxFeePerGas, wei
	Data      []byte
}

// Signer signs transactions for one wallet.
type Signer struct {
	wallet *Wallet
	ks     KeystoreBackend
}

// NewSigner creates a signer for the given wallet.
func NewSigner(w *Wallet, ks KeystoreBackend) *Signer {
	return &Signer{wallet: w, ks: ks}
}

// SignTx builds and signs an EIP-1559 transaction, returning the raw signed
// bytes ready for relay submission or direct broadcast.
func (s *Signer) SignTx(p TxParams) ([]byte, error) {
	hexKey, err := s.ks.Retrieve(s.wallet.KeyRef)
	if err != nil {
		return nil, fmt.Errorf("retrieving key: %w", err)
	}

	privKey, err := crypto.HexToECDSA(stripHexPrefix(hexKey))
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   p.ChainID,
		Nonce:     p.Nonce,
		To:        &p.To,
		Value:     p.Value,
		Gas:       p.Gas,
		GasTipCap: p.GasTipCap,
		GasFeeCap: p.GasFeeCap,
		Data:      p.Data,
	})

	signed, err := types.SignTx(tx, types.NewLondonSigner(p.ChainID), privKey)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}

	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshaling signed tx: %w", err)
	}
	return raw, nil
}

// Address returns the wallet's address.
func (s *Signer) Address() common.Address {
	return common.HexToAddress(s.wallet.Address)
}
