/*
SPDX-License-Identifier: Apache-2.0
*/

package auction

import (
	"encoding/json"
	"fmt"
)

// getEscrowAttribution returns whose funds the escrow account holds for the
// given auction, or nil when it holds none.
func getEscrowAttribution(stub ledgerStub, assetID string) (*escrowAttribution, error) {
	attributionBin, err := stub.GetState(escrowKey(assetID))
	if err != nil {
		return nil, err
	}
	if attributionBin == nil {
		return nil, nil
	}
	var attribution escrowAttribution
	if err := json.Unmarshal(attributionBin, &attribution); err != nil {
		return nil, err
	}
	return &attribution, nil
}

// acceptFunds pulls the bid amount from the bidder into the escrow account
// and records the attribution. The escrow balance for an open auction always
// equals the current high bid.
func acceptFunds(stub ledgerStub, funds fundsClient, escrowAccount, assetID, bidder string, amount uint64) error {
	if err := funds.Transfer(bidder, escrowAccount, amount); err != nil {
		return fmt.Errorf("bidder %s: %v: %w", bidder, err, ErrInsufficientFunds)
	}
	attributionBin, err := json.Marshal(&escrowAttribution{AssetID: assetID, Bidder: bidder, Amount: amount})
	if err != nil {
		return err
	}
	return stub.PutState(escrowKey(assetID), attributionBin)
}

// refundOrCredit returns the currently attributed funds to their bidder
// before a superseding bid is accepted. A failing refund transfer must not
// block the new bid, so it is converted into a withdrawable credit instead.
func refundOrCredit(stub ledgerStub, funds fundsClient, escrowAccount, assetID string) error {
	attribution, err := getEscrowAttribution(stub, assetID)
	if err != nil {
		return err
	}
	if attribution == nil {
		return nil
	}

	if err := funds.Transfer(escrowAccount, attribution.Bidder, attribution.Amount); err != nil {
		fmt.Printf("Refund of %d to %s failed, converting to credit: %v\n", attribution.Amount, attribution.Bidder, err)
		if err := addCredit(stub, attribution.Bidder, attribution.Amount); err != nil {
			return err
		}
	}
	return stub.DelState(escrowKey(assetID))
}

// releaseProceeds pays the attributed high bid out to the seller on finish.
// A seller whose account refuses the transfer gets a credit as well, so
// settlement can never be held hostage.
func releaseProceeds(stub ledgerStub, funds fundsClient, escrowAccount, assetID, seller string) error {
	attribution, err := getEscrowAttribution(stub, assetID)
	if err != nil {
		return err
	}
	if attribution == nil {
		return fmt.Errorf("invariant violation: no escrowed funds for auction %s", assetID)
	}

	if err := funds.Transfer(escrowAccount, seller, attribution.Amount); err != nil {
		fmt.Printf("Proceeds payout of %d to %s failed, converting to credit: %v\n", attribution.Amount, seller, err)
		if err := addCredit(stub, seller, attribution.Amount); err != nil {
			return err
		}
	}
	return stub.DelState(escrowKey(assetID))
}

// getCredit reads an account's withdrawable credit balance
func getCredit(stub ledgerStub, account string) (uint64, error) {
	creditBin, err := stub.GetState(creditKey(account))
	if err != nil {
		return 0, err
	}
	if creditBin == nil {
		return 0, nil
	}
	var credit refundCredit
	if err := json.Unmarshal(creditBin, &credit); err != nil {
		return 0, err
	}
	return credit.Amount, nil
}

func addCredit(stub ledgerStub, account string, amount uint64) error {
	current, err := getCredit(stub, account)
	if err != nil {
		return err
	}
	creditBin, err := json.Marshal(&refundCredit{Account: account, Amount: current + amount})
	if err != nil {
		return err
	}
	return stub.PutState(creditKey(account), creditBin)
}

// payOutCredit transfers an account's accumulated credit back to it and
// clears the record. Unlike a refund inside placeBid, a failure here aborts
// the whole withdrawal, leaving the credit intact for a later retry.
func payOutCredit(stub ledgerStub, funds fundsClient, escrowAccount, account string) (uint64, error) {
	amount, err := getCredit(stub, account)
	if err != nil {
		return 0, err
	}
	if amount == 0 {
		return 0, ErrNoCredit
	}
	if err := funds.Transfer(escrowAccount, account, amount); err != nil {
		return 0, fmt.Errorf("%v: %w", err, ErrRefundFailed)
	}
	if err := stub.DelState(creditKey(account)); err != nil {
		return 0, err
	}
	return amount, nil
}
