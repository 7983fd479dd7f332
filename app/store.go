package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iov-one/drip"
	"github.com/iov-one/drip/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp implements the state and query side of abci.Application. It is
// embedded by BaseApp, which adds transaction processing.
//
// Info, InitChain, Commit and the block hooks take no user input. Any error
// there means the node cannot continue, so those panic.
type StoreApp struct {
	name        string
	logger      log.Logger
	store       *CommitStore
	initializer drip.Initializer
	queryRouter drip.QueryRouter

	// chainID is empty until InitChain persists it.
	chainID string
	// baseContext is valid for the lifetime of the app.
	baseContext drip.Context
	// blockContext is rebuilt on every BeginBlock.
	blockContext drip.Context
}

// NewStoreApp loads the chain id and the last committed height from store.
// It panics if the store cannot be read.
func NewStoreApp(name string, store drip.CommitKVStore, queryRouter drip.QueryRouter, baseContext drip.Context) *StoreApp {
	s := &StoreApp{
		name:        name,
		store:       NewCommitStore(store),
		queryRouter: queryRouter,
		baseContext: baseContext,
	}
	s.WithLogger(log.NewNopLogger())

	chainID, err := loadChainID(s.DeliverStore())
	if err != nil {
		panic(err)
	}
	if chainID != "" {
		s.setChainID(chainID)
	}
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.blockContext = drip.WithHeight(s.baseContext, info.Version)
	return s
}

func (s *StoreApp) WithInit(init drip.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithLogger sets the logger used by the app and by every context it builds.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.baseContext = drip.WithLogger(s.baseContext, logger)
	return s
}

func (s *StoreApp) GetChainID() string                  { return s.chainID }
func (s *StoreApp) BlockContext() drip.Context          { return s.blockContext }
func (s *StoreApp) DeliverStore() drip.CacheableKVStore { return s.store.DeliverStore() }
func (s *StoreApp) CheckStore() drip.CacheableKVStore   { return s.store.CheckStore() }

func (s *StoreApp) setChainID(chainID string) {
	s.chainID = chainID
	s.baseContext = drip.WithChainID(s.baseContext, chainID)
}

// parseAppState persists the chain id and hands the genesis app_state to the
// initializer. It runs once, on the first InitChain.
func (s *StoreApp) parseAppState(data []byte, chainID string, init drip.Initializer) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "already initialized for chain %s", s.chainID)
	}
	if len(data) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state missing from genesis")
	}
	var appState drip.Options
	if err := json.Unmarshal(data, &appState); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := saveChainID(s.DeliverStore(), chainID); err != nil {
		return err
	}
	s.setChainID(chainID)
	if init == nil {
		return nil
	}
	return init.FromGenesis(appState, s.DeliverStore())
}

func (s *StoreApp) Info(abci.RequestInfo) abci.ResponseInfo {
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.logger.Info("Info synced", "height", info.Version, "hash", fmt.Sprintf("%X", info.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		Version:          drip.Version(),
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

func (s *StoreApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

// Query serves "/<bucket>[/<index>][?prefix]" paths against the last
// committed state. Key and Value of the response are serialized ResultSets
// of equal length.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := splitPath(req.Path)
	h := s.queryRouter.Handler(path)
	if h == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "query path %q", req.Path))
	}
	info, err := s.store.CommitInfo()
	if err != nil {
		return queryError(err)
	}
	db := s.store.ReadStore()
	defer db.Discard()

	models, err := h.Query(db, mod, req.Data)
	if err != nil {
		return queryError(err)
	}
	res := abci.ResponseQuery{Height: info.Version}
	if res.Key, err = ResultsFromKeys(models).Marshal(); err != nil {
		return queryError(err)
	}
	if res.Value, err = ResultsFromValues(models).Marshal(); err != nil {
		return queryError(err)
	}
	return res
}

// splitPath separates the query modifier following "?".
func splitPath(full string) (path, mod string) {
	if i := strings.IndexByte(full, '?'); i >= 0 {
		return full[:i], full[i+1:]
	}
	return full, ""
}

func queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{Code: code, Log: log}
}

func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.store.Commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("Commit synced", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.parseAppState(req.AppStateBytes, req.ChainId, s.initializer); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock resets the block context with the new header, height and
// block time.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := drip.WithHeader(s.baseContext, req.Header)
	ctx = drip.WithHeight(ctx, req.Header.GetHeight())
	s.blockContext = drip.WithBlockTime(ctx, req.Header.GetTime())
	return abci.ResponseBeginBlock{}
}

// EndBlock never changes the validator set.
func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}
