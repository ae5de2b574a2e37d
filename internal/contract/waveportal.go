// Package contract holds the Go binding for the deployed WavePortal contract.
package contract

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
)

// WavePortalABI is the input ABI used to generate the binding from.
const WavePortalABI = `[
	{"anonymous":false,"inputs":[
		{"indexed":true,"internalType":"address","name":"from","type":"address"},
		{"indexed":false,"internalType":"uint256","name":"timestamp","type":"uint256"},
		{"indexed":false,"internalType":"string","name":"message","type":"string"}],
	 "name":"NewWave","type":"event"},
	{"inputs":[],"name":"getAllWaves","outputs":[
		{"components":[
			{"internalType":"address","name":"waver","type":"address"},
			{"internalType":"string","name":"countryCode","type":"string"},
			{"internalType":"uint256","name":"timestamp","type":"uint256"},
			{"internalType":"string","name":"message","type":"string"}],
		 "internalType":"struct WavePortal.Wave[]","name":"","type":"tuple[]"}],
	 "stateMutability":"view","type":"function"},
	{"inputs":[],"name":"getTotalWaves","outputs":[
		{"internalType":"uint256","name":"","type":"uint256"}],
	 "stateMutability":"view","type":"function"},
	{"inputs":[
		{"internalType":"string","name":"_message","type":"string"},
		{"internalType":"string","name":"_countryCode","type":"string"}],
	 "name":"wave","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

const newWaveEvent = "NewWave"

// WavePortalWave is an auto generated low-level Go binding around an user-defined struct.
type WavePortalWave struct {
	Waver       common.Address
	CountryCode string
	Timestamp   *big.Int
	Message     string
}

// WavePortalNewWave represents a NewWave event raised by the WavePortal contract.
type WavePortalNewWave struct {
	From      common.Address
	Timestamp *big.Int
	Message   string
	Raw       types.Log // Blockchain specific contextual infos
}

// WavePortal is a binding around the deployed WavePortal contract.
type WavePortal struct {
	address  common.Address
	abi      abi.ABI
	contract *bind.BoundContract
}

// ParsedABI returns the parsed WavePortal ABI.
func ParsedABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(WavePortalABI))
}

// NewWavePortal creates a new instance of WavePortal, bound to a specific deployed contract.
func NewWavePortal(address common.Address, backend bind.ContractBackend) (*WavePortal, error) {
	parsed, err := ParsedABI()
	if err != nil {
		return nil, fmt.Errorf("failed to parse WavePortal ABI: %w", err)
	}
	return &WavePortal{
		address:  address,
		abi:      parsed,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
	}, nil
}

// Address returns the contract address the binding talks to.
func (w *WavePortal) Address() common.Address {
	return w.address
}

// NewWaveTopic returns the topic hash identifying NewWave logs.
func (w *WavePortal) NewWaveTopic() common.Hash {
	return w.abi.Events[newWaveEvent].ID
}

// GetAllWaves is a free data retrieval call binding the contract method getAllWaves.
//
// Solidity: function getAllWaves() view returns((address,string,uint256,string)[])
func (w *WavePortal) GetAllWaves(opts *bind.CallOpts) ([]WavePortalWave, error) {
	var out []interface{}
	if err := w.contract.Call(opts, &out, "getAllWaves"); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("getAllWaves returned no values")
	}
	return *abi.ConvertType(out[0], new([]WavePortalWave)).(*[]WavePortalWave), nil
}

// GetTotalWaves is a free data retrieval call binding the contract method getTotalWaves.
//
// Solidity: function getTotalWaves() view returns(uint256)
func (w *WavePortal) GetTotalWaves(opts *bind.CallOpts) (*big.Int, error) {
	var out []interface{}
	if err := w.contract.Call(opts, &out, "getTotalWaves"); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("getTotalWaves returned no values")
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// Wave is a paid mutator transaction binding the contract method wave.
//
// Solidity: function wave(string _message, string _countryCode) returns()
func (w *WavePortal) Wave(opts *bind.TransactOpts, message string, countryCode string) (*types.Transaction, error) {
	return w.contract.Transact(opts, "wave", message, countryCode)
}

// ParseNewWave is a log parse operation binding the contract event NewWave.
func (w *WavePortal) ParseNewWave(log types.Log) (*WavePortalNewWave, error) {
	ev := new(WavePortalNewWave)
	if err := w.contract.UnpackLog(ev, newWaveEvent, log); err != nil {
		return nil, err
	}
	ev.Raw = log
	return ev, nil
}

// FilterNewWave retrieves NewWave logs in the block range given by opts.
func (w *WavePortal) FilterNewWave(opts *bind.FilterOpts) ([]*WavePortalNewWave, error) {
	logs, sub, err := w.contract.FilterLogs(opts, newWaveEvent)
	if err != nil {
		return nil, err
	}
	defer sub.Unsubscribe()

	var events []*WavePortalNewWave
	for {
		select {
		case log := <-logs:
			ev, err := w.ParseNewWave(log)
			if err != nil {
				return nil, err
			}
			events = append(events, ev)
		case err := <-sub.Err():
			// All buffered logs are queued before the filter subscription ends
			for {
				select {
				case log := <-logs:
					ev, perr := w.ParseNewWave(log)
					if perr != nil {
						return nil, perr
					}
					events = append(events, ev)
				default:
					return events, err
				}
			}
		}
	}
}

// WatchNewWave is a free log subscription operation binding the contract event NewWave.
//
// Solidity: event NewWave(address indexed from, uint256 timestamp, string message)
func (w *WavePortal) WatchNewWave(opts *bind.WatchOpts, sink chan<- *WavePortalNewWave) (event.Subscription, error) {
	logs, sub, err := w.contract.WatchLogs(opts, newWaveEvent)
	if err != nil {
		return nil, err
	}
	return event.NewSubscription(func(quit <-chan struct{}) error {
		defer sub.Unsubscribe()
		for {
			select {
			case log := <-logs:
				ev, err := w.ParseNewWave(log)
				if err != nil {
					return err
				}
				select {
				case sink <- ev:
				case err := <-sub.Err():
					return err
				case <-quit:
					return nil
				}
			case err := <-sub.Err():
				return err
			case <-quit:
				return nil
			}
		}
	}), nil
}
