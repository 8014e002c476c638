/*
SPDX-License-Identifier: Apache-2.0
*/

package auction

import (
	"testing"

	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-protos-go/peer"
	"github.com/stretchr/testify/require"
)

func TestNFTClientInvocations(t *testing.T) {
	stub := newFakeStub()
	var gotChaincode string
	var gotArgs []string
	stub.invoke = func(chaincode string, args [][]byte) peer.Response {
		gotChaincode = chaincode
		gotArgs = nil
		for _, arg := range args {
			gotArgs = append(gotArgs, string(arg))
		}
		switch string(args[0]) {
		case "OwnerOf":
			return peer.Response{Status: shim.OK, Payload: []byte("alice")}
		case "IsApprovedForAll":
			return peer.Response{Status: shim.OK, Payload: []byte("true")}
		case "TransferFrom":
			return peer.Response{Status: shim.OK}
		}
		return peer.Response{Status: shim.ERROR, Message: "unknown function"}
	}

	nft := newNFTClient(stub, "token-erc721")

	owner, err := nft.OwnerOf("token0")
	require.NoError(t, err)
	require.Equal(t, "alice", owner)
	require.Equal(t, "token-erc721", gotChaincode)
	require.Equal(t, []string{"OwnerOf", "token0"}, gotArgs)

	approved, err := nft.IsApprovedForAll("alice", "escrow")
	require.NoError(t, err)
	require.True(t, approved)
	require.Equal(t, []string{"IsApprovedForAll", "alice", "escrow"}, gotArgs)

	require.NoError(t, nft.TransferFrom("alice", "escrow", "token0"))
	require.Equal(t, []string{"TransferFrom", "alice", "escrow", "token0"}, gotArgs)
}

func TestNFTClientPropagatesFailure(t *testing.T) {
	stub := newFakeStub()
	stub.invoke = func(chaincode string, args [][]byte) peer.Response {
		return peer.Response{Status: shim.ERROR, Message: "token does not exist"}
	}

	nft := newNFTClient(stub, "token-erc721")
	_, err := nft.OwnerOf("token0")
	require.Error(t, err)
	require.Contains(t, err.Error(), "token does not exist")
}

func TestFundsClientInvocation(t *testing.T) {
	stub := newFakeStub()
	var gotArgs []string
	stub.invoke = func(chaincode string, args [][]byte) peer.Response {
		gotArgs = nil
		for _, arg := range args {
			gotArgs = append(gotArgs, string(arg))
		}
		return peer.Response{Status: shim.OK}
	}

	funds := newFundsClient(stub, "token-erc20")
	require.NoError(t, funds.Transfer("bob", "escrow", 42))
	require.Equal(t, []string{"TransferFrom", "bob", "escrow", "42"}, gotArgs)
}
