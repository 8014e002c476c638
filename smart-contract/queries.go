/*
SPDX-License-Identifier: Apache-2.0
*/

package auction

import (
	"fmt"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

/**************** READ-ONLY QUERIES ****************/

// GetAuction returns the auction record for an asset
func (s *SmartContract) GetAuction(ctx contractapi.TransactionContextInterface, assetID string) (*Auction, error) {
	auction, err := getAuction(ctx.GetStub(), assetID)
	if err != nil {
		return nil, fmt.Errorf("could not get the auction: %v", err)
	}
	if auction == nil {
		return nil, fmt.Errorf("asset %s: %w", assetID, ErrNoSuchAuction)
	}
	return auction, nil
}

// AuctionStatusCheck reports whether an open auction exists for the asset
func (s *SmartContract) AuctionStatusCheck(ctx contractapi.TransactionContextInterface, assetID string) (bool, error) {
	auction, err := getAuction(ctx.GetStub(), assetID)
	if err != nil {
		return false, fmt.Errorf("could not get the auction: %v", err)
	}
	return auction != nil && auction.Status == Open, nil
}

// TotalAuctions returns how many auctions have ever been created
func (s *SmartContract) TotalAuctions(ctx contractapi.TransactionContextInterface) (uint64, error) {
	return getTotalAuctions(ctx.GetStub())
}

// ConductedAuctions lists the assets an account has put up for auction, in
// listing order.
func (s *SmartContract) ConductedAuctions(ctx contractapi.TransactionContextInterface, account string) ([]string, error) {
	return getIndex(ctx.GetStub(), conductedPrefix, account)
}

// ParticipatedAuctions lists the assets an account has bid on. Entries stay
// even after the account is outbid.
func (s *SmartContract) ParticipatedAuctions(ctx contractapi.TransactionContextInterface, account string) ([]string, error) {
	return getIndex(ctx.GetStub(), participatedPrefix, account)
}

// CollectedAssets lists the assets an account has won at auction
func (s *SmartContract) CollectedAssets(ctx contractapi.TransactionContextInterface, account string) ([]string, error) {
	return getIndex(ctx.GetStub(), collectedPrefix, account)
}

// CreditOf returns an account's withdrawable refund credit
func (s *SmartContract) CreditOf(ctx contractapi.TransactionContextInterface, account string) (uint64, error) {
	return getCredit(ctx.GetStub(), account)
}
