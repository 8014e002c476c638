package auction

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/golang/protobuf/ptypes/timestamp"
	"github.com/hyperledger/fabric-protos-go/peer"
)

// ledgerStub is the slice of shim.ChaincodeStubInterface the contract uses.
// Every state helper takes it explicitly, so the transition logic can run
// against a map-backed fake in tests.
type ledgerStub interface {
	GetState(key string) ([]byte, error)
	PutState(key string, value []byte) error
	DelState(key string) error
	SetEvent(name string, payload []byte) error
	GetTxTimestamp() (*timestamp.Timestamp, error)
	InvokeChaincode(chaincodeName string, args [][]byte, channel string) peer.Response
}

// auctionKey gets a world state key from the auctioned asset ID
func auctionKey(assetID string) string {
	return fmt.Sprintf("auction %s", assetID)
}

func custodyKey(assetID string) string {
	return fmt.Sprintf("custody %s", assetID)
}

func escrowKey(assetID string) string {
	return fmt.Sprintf("escrow %s", assetID)
}

func creditKey(account string) string {
	return fmt.Sprintf("credit %s", account)
}

const (
	configKey          = "config"
	totalKey           = "auction total"
	conductedPrefix    = "conducted"
	participatedPrefix = "participated"
	collectedPrefix    = "collected"
)

func indexKey(prefix, account string) string {
	return fmt.Sprintf("%s %s", prefix, account)
}

// getAuction retrieves the auction for the given asset from the world state.
// It returns nil without an error when no auction exists.
func getAuction(stub ledgerStub, assetID string) (*Auction, error) {
	auctionBin, errGetState := stub.GetState(auctionKey(assetID))
	if errGetState != nil {
		return nil, errGetState
	}
	if auctionBin == nil {
		return nil, nil
	}
	var auction Auction
	err := json.Unmarshal(auctionBin, &auction)
	if err != nil {
		return nil, err
	}
	return &auction, nil
}

// putAuction saves the given auction in the contract world state
func putAuction(stub ledgerStub, auction *Auction) error {
	auctionBin, err := json.Marshal(auction)
	if err != nil {
		return err
	}
	return stub.PutState(auctionKey(auction.AssetID), auctionBin)
}

// setAuctionEvent emits the current auction record as a chaincode event,
// which contract users can subscribe to.
func setAuctionEvent(stub ledgerStub, auction *Auction) error {
	if auction == nil {
		return fmt.Errorf("auction cannot be nil")
	}
	auctionBin, err := json.Marshal(auction)
	if err != nil {
		return err
	}
	return stub.SetEvent(auctionKey(auction.AssetID), auctionBin)
}

// getConfig loads the collaborator wiring written by Initialize
func getConfig(stub ledgerStub) (*marketConfig, error) {
	configBin, err := stub.GetState(configKey)
	if err != nil {
		return nil, err
	}
	if configBin == nil {
		return nil, ErrNotInitialized
	}
	var config marketConfig
	if err := json.Unmarshal(configBin, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

func putConfig(stub ledgerStub, config *marketConfig) error {
	configBin, err := json.Marshal(config)
	if err != nil {
		return err
	}
	return stub.PutState(configKey, configBin)
}

// getTotalAuctions reads the running count of auctions ever created
func getTotalAuctions(stub ledgerStub) (uint64, error) {
	totalBin, err := stub.GetState(totalKey)
	if err != nil {
		return 0, err
	}
	if totalBin == nil {
		return 0, nil
	}
	if len(totalBin) != 8 {
		return 0, fmt.Errorf("malformed auction counter")
	}
	return binary.BigEndian.Uint64(totalBin), nil
}

func incrementTotalAuctions(stub ledgerStub) error {
	total, err := getTotalAuctions(stub)
	if err != nil {
		return err
	}
	totalBin := make([]byte, 8)
	binary.BigEndian.PutUint64(totalBin, total+1)
	return stub.PutState(totalKey, totalBin)
}

// txSeconds returns the transaction timestamp as unix seconds. Every endorser
// sees the same value, so it is safe to store in a record.
func txSeconds(stub ledgerStub) (int64, error) {
	ts, err := stub.GetTxTimestamp()
	if err != nil {
		return 0, fmt.Errorf("failed to get transaction timestamp: %v", err)
	}
	return ts.GetSeconds(), nil
}
