/*
SPDX-License-Identifier: Apache-2.0
*/

package auction

import "errors"

// enum possible status: open, finished
type AuctionStatus int

const (
	Open     AuctionStatus = iota // Bidders can place ascending bids
	Finished                      // Auction is settled and the record is history
)

// Auction is the canonical record of one listing, keyed by the asset it sells.
type Auction struct {
	AssetID      string        `json:"assetId"`
	Seller       string        `json:"seller"` // The seller who opened this auction
	ReservePrice uint64        `json:"reservePrice"`
	HighBid      uint64        `json:"highBid"`
	HighBidder   string        `json:"highBidder"` // empty until the first accepted bid
	Status       AuctionStatus `json:"status"`
	CreatedAt    int64         `json:"createdAt"` // transaction timestamp, unix seconds
}

// escrowAttribution records whose funds the escrow account currently holds
// for an open auction. At most one exists per auction at any time.
type escrowAttribution struct {
	AssetID string `json:"assetId"`
	Bidder  string `json:"bidder"`
	Amount  uint64 `json:"amount"`
}

// custodyRecord marks an asset as held by the marketplace while its auction runs.
type custodyRecord struct {
	AssetID string `json:"assetId"`
	Seller  string `json:"seller"`
}

// refundCredit is a withdrawable balance left behind when a refund transfer
// could not be completed inside the bidding transaction.
type refundCredit struct {
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
}

// marketConfig wires the contract to its collaborators. Written once by Initialize.
type marketConfig struct {
	NFTChaincode   string `json:"nftChaincode"`   // ERC-721 style token chaincode on the same channel
	FundsChaincode string `json:"fundsChaincode"` // ERC-20 style token chaincode on the same channel
	EscrowAccount  string `json:"escrowAccount"`  // marketplace account holding escrowed assets and funds
}

// Error kinds callers can test for with errors.Is. Every precondition
// violation aborts the transition; the peer then discards the write set, so
// callers never observe a partial transition.
var (
	ErrNotInitialized     = errors.New("contract is not initialized")
	ErrAlreadyInitialized = errors.New("contract is already initialized")
	ErrNoSuchAuction      = errors.New("auction not found")
	ErrNotOwner           = errors.New("caller does not own the asset")
	ErrNotApproved        = errors.New("marketplace is not approved to transfer the asset")
	ErrDuplicateAuction   = errors.New("an auction for this asset is already open")
	ErrAuctionClosed      = errors.New("auction is closed")
	ErrBidTooLow          = errors.New("bid does not exceed the current high bid")
	ErrSelfBid            = errors.New("seller cannot bid on their own auction")
	ErrNotSeller          = errors.New("only the auction seller may finish the auction")
	ErrAlreadyFinished    = errors.New("auction already finished")
	ErrInsufficientFunds  = errors.New("could not take custody of the bid amount")
	ErrRefundFailed       = errors.New("credit payout transfer failed")
	ErrNoCredit           = errors.New("no withdrawable credit")
)
