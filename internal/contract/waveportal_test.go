package contract

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var portalAddress = common.HexToAddress("0xd31cA6d8c9FeAa0C07514Aa634451a7DC14901BE")

// stubCaller answers eth_call with a fixed payload.
type stubCaller struct {
	output []byte
	calls  []ethereum.CallMsg
}

func (s *stubCaller) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{0x1}, nil
}

func (s *stubCaller) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	s.calls = append(s.calls, call)
	return s.output, nil
}

// backend routes calls to stubCaller and leaves everything else unimplemented.
type backend struct {
	bind.ContractBackend
	stubCaller *stubCaller
}

func (b *backend) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	return b.stubCaller.CodeAt(ctx, contract, blockNumber)
}

func (b *backend) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return b.stubCaller.CallContract(ctx, call, blockNumber)
}

func newPortal(t *testing.T) *WavePortal {
	t.Helper()
	p, err := NewWavePortal(portalAddress, nil)
	require.NoError(t, err)
	return p
}

func TestParsedABI(t *testing.T) {
	parsed, err := ParsedABI()
	require.NoError(t, err)

	assert.Contains(t, parsed.Methods, "getAllWaves")
	assert.Contains(t, parsed.Methods, "getTotalWaves")
	assert.Contains(t, parsed.Methods, "wave")
	assert.Contains(t, parsed.Events, "NewWave")
	assert.Equal(t, portalAddress, newPortal(t).Address())
}

func TestParseNewWave(t *testing.T) {
	p := newPortal(t)
	sender := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	data, err := p.abi.Events["NewWave"].Inputs.NonIndexed().Pack(big.NewInt(1_700_000_000), "hello")
	require.NoError(t, err)

	log := types.Log{
		Address:     portalAddress,
		Topics:      []common.Hash{p.NewWaveTopic(), common.BytesToHash(sender.Bytes())},
		Data:        data,
		BlockNumber: 42,
		Index:       3,
	}

	ev, err := p.ParseNewWave(log)
	require.NoError(t, err)
	assert.Equal(t, sender, ev.From)
	assert.Equal(t, int64(1_700_000_000), ev.Timestamp.Int64())
	assert.Equal(t, "hello", ev.Message)
	assert.Equal(t, uint64(42), ev.Raw.BlockNumber)
}

func TestParseNewWaveRejectsForeignLog(t *testing.T) {
	p := newPortal(t)
	_, err := p.ParseNewWave(types.Log{Topics: []common.Hash{common.HexToHash("0x01")}})
	assert.Error(t, err)
}

func TestGetTotalWaves(t *testing.T) {
	parsed, err := ParsedABI()
	require.NoError(t, err)
	out, err := parsed.Methods["getTotalWaves"].Outputs.Pack(big.NewInt(7))
	require.NoError(t, err)

	caller := &stubCaller{output: out}
	p, err := NewWavePortal(portalAddress, &backend{stubCaller: caller})
	require.NoError(t, err)

	total, err := p.GetTotalWaves(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total.Int64())
	require.Len(t, caller.calls, 1)
	assert.Equal(t, &portalAddress, caller.calls[0].To)
}

func TestGetAllWaves(t *testing.T) {
	parsed, err := ParsedABI()
	require.NoError(t, err)

	want := []WavePortalWave{
		{Waver: common.HexToAddress("0x01"), CountryCode: "US", Timestamp: big.NewInt(100), Message: "hi"},
		{Waver: common.HexToAddress("0x02"), CountryCode: "FR", Timestamp: big.NewInt(200), Message: "salut"},
	}
	out, err := parsed.Methods["getAllWaves"].Outputs.Pack(want)
	require.NoError(t, err)

	p, err := NewWavePortal(portalAddress, &backend{stubCaller: &stubCaller{output: out}})
	require.NoError(t, err)

	got, err := p.GetAllWaves(nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, want[0].Waver, got[0].Waver)
	assert.Equal(t, "FR", got[1].CountryCode)
	assert.Equal(t, int64(200), got[1].Timestamp.Int64())
	assert.Equal(t, "salut", got[1].Message)
}
