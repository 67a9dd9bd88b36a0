// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"os"

	"vizard.network/vizard-aztec-bridge/client"
	"vizard.network/vizard-aztec-bridge/session"
	"vizard.network/vizard-aztec-bridge/session/pxe"
	"vizard.network/vizard-aztec-bridge/utils"
	"vizard.network/vizard-aztec-bridge/wallet"
)

const defaultPXEURL = "http://127.0.0.1:8080"

func main() {
	keyHex := os.Getenv("VIZARD_SIGNER_KEY")
	if keyHex == "" {
		log.Fatal("set VIZARD_SIGNER_KEY to a hex-encoded secp256k1 private key")
	}

	pxeURL := os.Getenv("VIZARD_PXE_URL")
	if pxeURL == "" {
		pxeURL = defaultPXEURL
	}

	signer, err := wallet.LocalSignerFromHex(keyHex)
	if err != nil {
		log.Fatalf("loading signer key: %v", err)
	}

	cfg := session.Config{
		PXEURL:   pxeURL,
		FeeMode:  pxe.FeeModeSponsored,
		AutoSync: true,
	}

	vc := client.NewVizardClient(session.NewSession(cfg, signer))
	unsubscribe := vc.Subscribe(func(st session.ConnectionState) {
		log.Printf("session: %s (%s)", st.Status, st.Message)
	})
	defer unsubscribe()

	ctx := context.Background()
	handle, err := vc.Connect(ctx)
	if err != nil {
		log.Fatalf("connecting: %v", err)
	}
	defer vc.Disconnect()

	evmAddr, err := vc.EVMAddress()
	if err != nil {
		log.Fatalf("reading signer address: %v", err)
	}
	fmt.Println("EVM signer:    ", evmAddr.Hex())
	fmt.Println("Aztec account: ", handle.Address)
	fmt.Println("Fresh deploy:  ", handle.Deployed)

	pxeClient, err := vc.PXE()
	if err != nil {
		log.Fatalf("pxe: %v", err)
	}

	block, err := pxeClient.BlockNumber(ctx)
	if err != nil {
		log.Fatalf("querying block number: %v", err)
	}
	fmt.Println("Current block: ", utils.FormatWithUnderscores(block))

	fees, err := vc.BuildFeeOptions(ctx, client.FeeParams{})
	if err != nil {
		log.Fatalf("building fee options: %v", err)
	}
	fmt.Printf("Padded fees:    da=%s l2=%s (mode %s)\n",
		formatFee(fees.MaxFeePerDaGas), formatFee(fees.MaxFeePerL2Gas),
		fees.PaymentMethod.Mode)
}

func formatFee(v *big.Int) string {
	if v == nil {
		return "0"
	}
	if !v.IsUint64() {
		return v.String()
	}
	return utils.FormatWithUnderscores(v.Uint64())
}
