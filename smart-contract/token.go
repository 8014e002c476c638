/*
SPDX-License-Identifier: Apache-2.0
*/

package auction

import (
	"fmt"
	"strconv"

	"github.com/hyperledger/fabric-chaincode-go/shim"
)

// tokenClient is the ownership surface of the deployed NFT chaincode. The
// auction contract queries and moves tokens through it and never touches
// token metadata.
type tokenClient interface {
	OwnerOf(assetID string) (string, error)
	IsApprovedForAll(owner, operator string) (bool, error)
	TransferFrom(from, to, assetID string) error
}

// fundsClient moves bid amounts between accounts on the fungible token chaincode.
type fundsClient interface {
	Transfer(from, to string, amount uint64) error
}

// nftChaincodeClient reaches the ERC-721 style token chaincode with
// cross-chaincode invocations on the same channel, so the token transfer
// commits or aborts together with the auction transition.
type nftChaincodeClient struct {
	stub      ledgerStub
	chaincode string
}

func newNFTClient(stub ledgerStub, chaincode string) *nftChaincodeClient {
	return &nftChaincodeClient{stub: stub, chaincode: chaincode}
}

func (c *nftChaincodeClient) invoke(args ...string) ([]byte, error) {
	argsBin := make([][]byte, len(args))
	for i, arg := range args {
		argsBin[i] = []byte(arg)
	}
	resp := c.stub.InvokeChaincode(c.chaincode, argsBin, "")
	if resp.Status != shim.OK {
		return nil, fmt.Errorf("token chaincode %s: %s", c.chaincode, resp.Message)
	}
	return resp.Payload, nil
}

func (c *nftChaincodeClient) OwnerOf(assetID string) (string, error) {
	owner, err := c.invoke("OwnerOf", assetID)
	if err != nil {
		return "", err
	}
	return string(owner), nil
}

func (c *nftChaincodeClient) IsApprovedForAll(owner, operator string) (bool, error) {
	approvedBin, err := c.invoke("IsApprovedForAll", owner, operator)
	if err != nil {
		return false, err
	}
	approved, err := strconv.ParseBool(string(approvedBin))
	if err != nil {
		return false, fmt.Errorf("token chaincode %s returned a malformed approval flag: %v", c.chaincode, err)
	}
	return approved, nil
}

func (c *nftChaincodeClient) TransferFrom(from, to, assetID string) error {
	_, err := c.invoke("TransferFrom", from, to, assetID)
	return err
}

// fundsChaincodeClient reaches the ERC-20 style token chaincode the same way.
type fundsChaincodeClient struct {
	stub      ledgerStub
	chaincode string
}

func newFundsClient(stub ledgerStub, chaincode string) *fundsChaincodeClient {
	return &fundsChaincodeClient{stub: stub, chaincode: chaincode}
}

func (c *fundsChaincodeClient) Transfer(from, to string, amount uint64) error {
	args := [][]byte{
		[]byte("TransferFrom"),
		[]byte(from),
		[]byte(to),
		[]byte(strconv.FormatUint(amount, 10)),
	}
	resp := c.stub.InvokeChaincode(c.chaincode, args, "")
	if resp.Status != shim.OK {
		return fmt.Errorf("funds chaincode %s: %s", c.chaincode, resp.Message)
	}
	return nil
}
