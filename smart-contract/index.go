/*
SPDX-License-Identifier: Apache-2.0
*/

package auction

import "encoding/json"

// The account index keeps three append-only lists of asset IDs per account:
// auctions the account conducted, auctions it bid in, and assets it won.
// They are derived views over ledger transitions, never a source of truth,
// and entries are never removed. Being outbid does not erase participation.

func getIndex(stub ledgerStub, prefix, account string) ([]string, error) {
	listBin, err := stub.GetState(indexKey(prefix, account))
	if err != nil {
		return nil, err
	}
	if listBin == nil {
		return []string{}, nil
	}
	var list []string
	if err := json.Unmarshal(listBin, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func appendIndex(stub ledgerStub, prefix, account, assetID string) error {
	list, err := getIndex(stub, prefix, account)
	if err != nil {
		return err
	}
	list = append(list, assetID)
	listBin, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return stub.PutState(indexKey(prefix, account), listBin)
}

// appendIndexOnce appends only if the asset is not already listed. Used for
// participation, which records each bidder once per auction no matter how
// many bids they place.
func appendIndexOnce(stub ledgerStub, prefix, account, assetID string) error {
	list, err := getIndex(stub, prefix, account)
	if err != nil {
		return err
	}
	for _, listed := range list {
		if listed == assetID {
			return nil
		}
	}
	list = append(list, assetID)
	listBin, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return stub.PutState(indexKey(prefix, account), listBin)
}
