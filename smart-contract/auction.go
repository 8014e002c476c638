/*
SPDX-License-Identifier: Apache-2.0
*/

package auction

import (
	"fmt"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// This contract implements an English auction marketplace for NFTs.
// Sellers list a token they own, bidders compete with strictly increasing
// bids, and on finish the token goes to the high bidder while the proceeds
// go to the seller. Each invocation is one atomic transition: any returned
// error discards the whole write set, including cross-chaincode transfers
// made on the same channel.
type SmartContract struct {
	contractapi.Contract
}

/**************** LIFECYCLE ****************/

// deployerMSPID is the organization allowed to wire the marketplace.
const deployerMSPID = "Org1MSP"

// Initialize wires the marketplace to its collaborators: the NFT chaincode
// whose tokens are auctioned, the fungible token chaincode bids are paid in,
// and the marketplace account that holds assets and funds in escrow.
// Only a client of the deploying organization may call it, and only once.
func (s *SmartContract) Initialize(ctx contractapi.TransactionContextInterface, nftChaincode string, fundsChaincode string, escrowAccount string) error {
	clientMSPID, err := ctx.GetClientIdentity().GetMSPID()
	if err != nil {
		return fmt.Errorf("failed to get client MSPID: %v", err)
	}
	if clientMSPID != deployerMSPID {
		return fmt.Errorf("client from %s is not authorized to initialize the contract", clientMSPID)
	}

	return initializeMarket(ctx.GetStub(), nftChaincode, fundsChaincode, escrowAccount)
}

// initializeMarket writes the collaborator wiring exactly once.
func initializeMarket(stub ledgerStub, nftChaincode, fundsChaincode, escrowAccount string) error {
	configBin, err := stub.GetState(configKey)
	if err != nil {
		return fmt.Errorf("failed to check for existing configuration: %v", err)
	}
	if configBin != nil {
		return ErrAlreadyInitialized
	}

	if nftChaincode == "" || fundsChaincode == "" || escrowAccount == "" {
		return fmt.Errorf("nftChaincode, fundsChaincode and escrowAccount must all be set")
	}

	return putConfig(stub, &marketConfig{
		NFTChaincode:   nftChaincode,
		FundsChaincode: fundsChaincode,
		EscrowAccount:  escrowAccount,
	})
}

/**************** SELLER METHODS ****************/

// CreateAuction lists an owned asset for auction. The submitting client must
// own the asset on the token chaincode and have approved the escrow account,
// which takes custody of the asset for the duration of the auction.
func (s *SmartContract) CreateAuction(ctx contractapi.TransactionContextInterface, assetID string, reservePrice uint64) error {
	seller, err := s.GetSubmittingClientIdentity(ctx)
	if err != nil {
		return fmt.Errorf("failed to get client identity: %v", err)
	}

	stub := ctx.GetStub()
	config, err := getConfig(stub)
	if err != nil {
		return err
	}

	return createAuction(stub, newNFTClient(stub, config.NFTChaincode), config.EscrowAccount, assetID, seller, reservePrice)
}

// FinishAuction settles an open auction. Only the seller may call it. With a
// high bidder the asset goes to the winner and the escrowed high bid to the
// seller; without one the asset simply returns to the seller.
func (s *SmartContract) FinishAuction(ctx contractapi.TransactionContextInterface, assetID string) error {
	caller, err := s.GetSubmittingClientIdentity(ctx)
	if err != nil {
		return fmt.Errorf("failed to get client identity: %v", err)
	}

	stub := ctx.GetStub()
	config, err := getConfig(stub)
	if err != nil {
		return err
	}

	return finishAuction(stub, newNFTClient(stub, config.NFTChaincode), newFundsClient(stub, config.FundsChaincode), config.EscrowAccount, assetID, caller)
}

/**************** BIDDER METHODS ****************/

// PlaceBid places an ascending bid on an open auction. The amount is pulled
// from the bidder into escrow within the same transaction; the previous high
// bidder is refunded first.
func (s *SmartContract) PlaceBid(ctx contractapi.TransactionContextInterface, assetID string, amount uint64) error {
	bidder, err := s.GetSubmittingClientIdentity(ctx)
	if err != nil {
		return fmt.Errorf("failed to get client identity: %v", err)
	}

	stub := ctx.GetStub()
	config, err := getConfig(stub)
	if err != nil {
		return err
	}

	return placeBid(stub, newFundsClient(stub, config.FundsChaincode), config.EscrowAccount, assetID, bidder, amount)
}

// WithdrawCredit pays out the caller's accumulated refund credit, if any.
func (s *SmartContract) WithdrawCredit(ctx contractapi.TransactionContextInterface) (uint64, error) {
	account, err := s.GetSubmittingClientIdentity(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get client identity: %v", err)
	}

	stub := ctx.GetStub()
	config, err := getConfig(stub)
	if err != nil {
		return 0, err
	}

	return payOutCredit(stub, newFundsClient(stub, config.FundsChaincode), config.EscrowAccount, account)
}

/**************** CORE TRANSITIONS ****************/

// createAuction opens the ledger record for an asset after custody succeeds.
// The acting account is threaded in explicitly; only the contractapi
// wrappers touch the identity API.
func createAuction(stub ledgerStub, nft tokenClient, escrowAccount, assetID, seller string, reservePrice uint64) error {
	existing, err := getAuction(stub, assetID)
	if err != nil {
		return fmt.Errorf("could not check for an existing auction: %v", err)
	}
	if existing != nil && existing.Status == Open {
		return fmt.Errorf("asset %s: %w", assetID, ErrDuplicateAuction)
	}

	if err := holdAsset(stub, nft, assetID, seller, escrowAccount); err != nil {
		return err
	}

	createdAt, err := txSeconds(stub)
	if err != nil {
		return err
	}

	auction := Auction{
		AssetID:      assetID,
		Seller:       seller,
		ReservePrice: reservePrice,
		HighBid:      0,
		HighBidder:   "",
		Status:       Open,
		CreatedAt:    createdAt,
	}
	if err := putAuction(stub, &auction); err != nil {
		return fmt.Errorf("could not save the new auction in the world state: %v", err)
	}

	if err := incrementTotalAuctions(stub); err != nil {
		return err
	}
	if err := appendIndex(stub, conductedPrefix, seller, assetID); err != nil {
		return err
	}

	return setAuctionEvent(stub, &auction)
}

// placeBid validates the bid against the ordering rules and swaps the
// escrowed funds: refund the superseded bidder first, then take custody of
// the new amount. A failing refund becomes a credit and never blocks the
// bid; a failing pull of the new amount aborts the whole transition.
func placeBid(stub ledgerStub, funds fundsClient, escrowAccount, assetID, bidder string, amount uint64) error {
	auction, err := getAuction(stub, assetID)
	if err != nil {
		return fmt.Errorf("could not get the auction: %v", err)
	}
	if auction == nil {
		return fmt.Errorf("asset %s: %w", assetID, ErrNoSuchAuction)
	}

	if auction.Status != Open {
		return fmt.Errorf("asset %s: %w", assetID, ErrAuctionClosed)
	}
	if bidder == auction.Seller {
		return fmt.Errorf("asset %s: %w", assetID, ErrSelfBid)
	}

	// even a reserve of 0 never admits a zero bid, so the escrow always
	// holds a non-zero attribution for the high bidder
	if amount == 0 {
		return fmt.Errorf("asset %s: zero bids are not accepted: %w", assetID, ErrBidTooLow)
	}

	if auction.HighBidder == "" {
		if amount < auction.ReservePrice {
			return fmt.Errorf("bid %d is below the reserve price %d: %w", amount, auction.ReservePrice, ErrBidTooLow)
		}
	} else if amount <= auction.HighBid {
		return fmt.Errorf("bid %d does not exceed the high bid %d: %w", amount, auction.HighBid, ErrBidTooLow)
	}

	if err := refundOrCredit(stub, funds, escrowAccount, assetID); err != nil {
		return err
	}
	if err := acceptFunds(stub, funds, escrowAccount, assetID, bidder, amount); err != nil {
		return err
	}

	auction.HighBid = amount
	auction.HighBidder = bidder
	if err := putAuction(stub, auction); err != nil {
		return fmt.Errorf("could not save the updated auction: %v", err)
	}

	if err := appendIndexOnce(stub, participatedPrefix, bidder, assetID); err != nil {
		return err
	}

	return setAuctionEvent(stub, auction)
}

// finishAuction moves the record to Finished exactly once and settles
// custody: asset to the winner and proceeds to the seller, or asset back to
// the seller when nobody bid.
func finishAuction(stub ledgerStub, nft tokenClient, funds fundsClient, escrowAccount, assetID, caller string) error {
	auction, err := getAuction(stub, assetID)
	if err != nil {
		return fmt.Errorf("could not get the auction: %v", err)
	}
	if auction == nil {
		return fmt.Errorf("asset %s: %w", assetID, ErrNoSuchAuction)
	}

	if auction.Status == Finished {
		return fmt.Errorf("asset %s: %w", assetID, ErrAlreadyFinished)
	}
	if caller != auction.Seller {
		return fmt.Errorf("asset %s: %w", assetID, ErrNotSeller)
	}

	if auction.HighBidder == "" {
		if err := releaseAsset(stub, nft, assetID, auction.Seller, escrowAccount); err != nil {
			return err
		}
	} else {
		if err := releaseAsset(stub, nft, assetID, auction.HighBidder, escrowAccount); err != nil {
			return err
		}
		if err := releaseProceeds(stub, funds, escrowAccount, assetID, auction.Seller); err != nil {
			return err
		}
		if err := appendIndex(stub, collectedPrefix, auction.HighBidder, assetID); err != nil {
			return err
		}
	}

	auction.Status = Finished
	if err := putAuction(stub, auction); err != nil {
		return fmt.Errorf("could not save the finished auction: %v", err)
	}

	if auction.HighBidder != "" {
		fmt.Printf("Auction for %s won by %s at %d\n", assetID, auction.HighBidder, auction.HighBid)
	} else {
		fmt.Printf("Auction for %s finished without bids, asset returned to %s\n", assetID, auction.Seller)
	}

	return setAuctionEvent(stub, auction)
}
