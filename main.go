/*
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"log"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	auction "github.com/nandlab/fabric-nft-auction/chaincode-go/smart-contract"
)

func main() {
	auctionChaincode, err := contractapi.NewChaincode(&auction.SmartContract{})
	if err != nil {
		log.Panicf("Error creating NFT auction chaincode: %v", err)
	}

	if err := auctionChaincode.Start(); err != nil {
		log.Panicf("Error starting NFT auction chaincode: %v", err)
	}
}
