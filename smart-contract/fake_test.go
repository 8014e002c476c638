/*
SPDX-License-Identifier: Apache-2.0
*/

package auction

import (
	"fmt"

	"github.com/golang/protobuf/ptypes/timestamp"
	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-protos-go/peer"
)

// recordedEvent keeps one emitted chaincode event in emission order.
type recordedEvent struct {
	name    string
	payload []byte
}

// fakeStub is a map-backed ledgerStub for tests.
type fakeStub struct {
	state  map[string][]byte
	events []recordedEvent
	now    int64
	invoke func(chaincode string, args [][]byte) peer.Response
}

func newFakeStub() *fakeStub {
	return &fakeStub{
		state: map[string][]byte{},
		now:   1700000000,
	}
}

func (f *fakeStub) GetState(key string) ([]byte, error) {
	return f.state[key], nil
}

func (f *fakeStub) PutState(key string, value []byte) error {
	f.state[key] = value
	return nil
}

func (f *fakeStub) DelState(key string) error {
	delete(f.state, key)
	return nil
}

func (f *fakeStub) SetEvent(name string, payload []byte) error {
	f.events = append(f.events, recordedEvent{name: name, payload: payload})
	return nil
}

func (f *fakeStub) GetTxTimestamp() (*timestamp.Timestamp, error) {
	return &timestamp.Timestamp{Seconds: f.now}, nil
}

func (f *fakeStub) InvokeChaincode(chaincode string, args [][]byte, channel string) peer.Response {
	if f.invoke == nil {
		return peer.Response{Status: shim.ERROR, Message: "no chaincode registered in test stub"}
	}
	return f.invoke(chaincode, args)
}

// fakeNFT is an in-memory stand-in for the ERC-721 collaborator.
type fakeNFT struct {
	owners   map[string]string
	approved map[string]bool // "owner operator"
}

func newFakeNFT() *fakeNFT {
	return &fakeNFT{owners: map[string]string{}, approved: map[string]bool{}}
}

func (f *fakeNFT) approveAll(owner, operator string) {
	f.approved[owner+" "+operator] = true
}

func (f *fakeNFT) OwnerOf(assetID string) (string, error) {
	owner, ok := f.owners[assetID]
	if !ok {
		return "", fmt.Errorf("token %s does not exist", assetID)
	}
	return owner, nil
}

func (f *fakeNFT) IsApprovedForAll(owner, operator string) (bool, error) {
	return f.approved[owner+" "+operator], nil
}

func (f *fakeNFT) TransferFrom(from, to, assetID string) error {
	if f.owners[assetID] != from {
		return fmt.Errorf("token %s is not owned by %s", assetID, from)
	}
	f.owners[assetID] = to
	return nil
}

// fakeFunds is an in-memory stand-in for the fungible token collaborator.
// Accounts in refuse reject incoming transfers, which is how a hostile
// refund recipient shows up to the contract.
type fakeFunds struct {
	balances map[string]uint64
	refuse   map[string]bool
}

func newFakeFunds() *fakeFunds {
	return &fakeFunds{balances: map[string]uint64{}, refuse: map[string]bool{}}
}

func (f *fakeFunds) Transfer(from, to string, amount uint64) error {
	if f.refuse[to] {
		return fmt.Errorf("account %s refuses the transfer", to)
	}
	if f.balances[from] < amount {
		return fmt.Errorf("account %s has insufficient balance", from)
	}
	f.balances[from] -= amount
	f.balances[to] += amount
	return nil
}

// market bundles the fakes into one fixture.
type market struct {
	stub   *fakeStub
	nft    *fakeNFT
	funds  *fakeFunds
	escrow string
}

func newMarket() *market {
	return &market{
		stub:   newFakeStub(),
		nft:    newFakeNFT(),
		funds:  newFakeFunds(),
		escrow: "escrow",
	}
}

// apply runs one transition with the peer's commit semantics: when the
// transition returns an error, every state change it made is discarded.
func (m *market) apply(fn func() error) error {
	stateCopy := map[string][]byte{}
	for k, v := range m.stub.state {
		stateCopy[k] = v
	}
	eventsCopy := append([]recordedEvent(nil), m.stub.events...)
	ownersCopy := map[string]string{}
	for k, v := range m.nft.owners {
		ownersCopy[k] = v
	}
	balancesCopy := map[string]uint64{}
	for k, v := range m.funds.balances {
		balancesCopy[k] = v
	}

	err := fn()
	if err != nil {
		m.stub.state = stateCopy
		m.stub.events = eventsCopy
		m.nft.owners = ownersCopy
		m.funds.balances = balancesCopy
	}
	return err
}

func (m *market) create(seller, assetID string, reservePrice uint64) error {
	return m.apply(func() error {
		return createAuction(m.stub, m.nft, m.escrow, assetID, seller, reservePrice)
	})
}

func (m *market) bid(bidder, assetID string, amount uint64) error {
	return m.apply(func() error {
		return placeBid(m.stub, m.funds, m.escrow, assetID, bidder, amount)
	})
}

func (m *market) finish(caller, assetID string) error {
	return m.apply(func() error {
		return finishAuction(m.stub, m.nft, m.funds, m.escrow, assetID, caller)
	})
}

func (m *market) withdraw(account string) (uint64, error) {
	var amount uint64
	err := m.apply(func() error {
		var errPayOut error
		amount, errPayOut = payOutCredit(m.stub, m.funds, m.escrow, account)
		return errPayOut
	})
	return amount, err
}
