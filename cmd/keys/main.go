package main

import (
	"encoding/hex"
	"fmt"
	"log"

	"github.com/ethereum/go-ethereum/crypto"
)

// Generates a fresh secp256k1 signing key for the payment service and prints
// it with its wallet address. Keep the private key out of version control.
func main() {
	key, err := crypto.GenerateKey()
	if err != nil {
		log.Fatalf("Error generating key: %v", err)
	}
	fmt.Println("address: ", crypto.PubkeyToAddress(key.PublicKey).Hex())
	fmt.Println("private key: ", hex.EncodeToString(crypto.FromECDSA(key)))
}
