/*
SPDX-License-Identifier: Apache-2.0
*/

package auction

import (
	"encoding/json"
	"fmt"
)

// holdAsset verifies the seller's ownership and the marketplace approval,
// then pulls the asset into the escrow account and records custody. The
// custody record exists exactly while the auction is open.
func holdAsset(stub ledgerStub, nft tokenClient, assetID, seller, escrowAccount string) error {
	owner, err := nft.OwnerOf(assetID)
	if err != nil {
		return fmt.Errorf("could not verify ownership of asset %s: %v", assetID, err)
	}
	if owner != seller {
		return fmt.Errorf("asset %s belongs to another account: %w", assetID, ErrNotOwner)
	}

	approved, err := nft.IsApprovedForAll(seller, escrowAccount)
	if err != nil {
		return fmt.Errorf("could not check approval for asset %s: %v", assetID, err)
	}
	if !approved {
		return fmt.Errorf("asset %s: %w", assetID, ErrNotApproved)
	}

	if err := nft.TransferFrom(seller, escrowAccount, assetID); err != nil {
		return fmt.Errorf("could not take custody of asset %s: %v", assetID, err)
	}

	custodyBin, err := json.Marshal(&custodyRecord{AssetID: assetID, Seller: seller})
	if err != nil {
		return err
	}
	return stub.PutState(custodyKey(assetID), custodyBin)
}

// releaseAsset hands the held asset to exactly one recipient and clears the
// custody record. Calling it for an asset that is not held is an invariant
// violation, never a recoverable condition.
func releaseAsset(stub ledgerStub, nft tokenClient, assetID, to, escrowAccount string) error {
	custodyBin, err := stub.GetState(custodyKey(assetID))
	if err != nil {
		return err
	}
	if custodyBin == nil {
		return fmt.Errorf("invariant violation: asset %s is not in custody", assetID)
	}

	if err := nft.TransferFrom(escrowAccount, to, assetID); err != nil {
		return fmt.Errorf("could not release asset %s to %s: %v", assetID, to, err)
	}
	return stub.DelState(custodyKey(assetID))
}
