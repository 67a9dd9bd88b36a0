// SPDX-License-Identifier: Apache-2.0
package client

import (
	"context"
	"math/big"

	"github.com/pkg/errors"

	"vizard.network/vizard-aztec-bridge/session/pxe"
)

// Default fee padding of 20% over the current quote, expressed as a ratio so
// the math stays in integers.
const (
	DefaultFeePaddingNum = 6
	DefaultFeePaddingDen = 5
)

// FeeParams tunes BuildFeeOptions per call. Zero values fall back to the
// session's resolved payment method and the default padding.
type FeeParams struct {
	PaymentMethod *pxe.FeePaymentMethod
	PaddingNum    int64
	PaddingDen    int64
}

// BuildFeeOptions reads the network's current fee quote and pads it into a
// bound the fee market will accept. Purely derived; the only side effect is
// the read.
func (c *VizardClient) BuildFeeOptions(ctx context.Context, params FeeParams) (*pxe.FeeOptions, error) {
	client, err := c.sess.Client()
	if err != nil {
		return nil, err
	}

	if params.PaddingNum <= 0 || params.PaddingDen <= 0 {
		params.PaddingNum = DefaultFeePaddingNum
		params.PaddingDen = DefaultFeePaddingDen
	}
	if params.PaddingNum < params.PaddingDen {
		return nil, errors.Errorf("fee padding %d/%d below current quote",
			params.PaddingNum, params.PaddingDen)
	}

	fees, err := client.CurrentGasFees(ctx)
	if err != nil {
		return nil, errors.WithMessage(err, "querying gas fees")
	}

	method := params.PaymentMethod
	if method == nil {
		if method, err = c.sess.ResolveFeeMethod(ctx); err != nil {
			return nil, err
		}
	}

	return &pxe.FeeOptions{
		MaxFeePerDaGas: padFee(fees.FeePerDaGas, params.PaddingNum, params.PaddingDen),
		MaxFeePerL2Gas: padFee(fees.FeePerL2Gas, params.PaddingNum, params.PaddingDen),
		PaymentMethod:  method,
	}, nil
}

// padFee returns ceil(v * num / den).
func padFee(v *big.Int, num, den int64) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	padded := new(big.Int).Mul(v, big.NewInt(num))
	padded.Add(padded, big.NewInt(den-1))
	return padded.Div(padded, big.NewInt(den))
}
