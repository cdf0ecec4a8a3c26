package hera

import "github.com/ethereum/go-ethereum/log"

// BindEEI returns the HostFunc table an Engine Adapter should wire as the
// "ethereum" import namespace's resolver for one invocation's EEIState. If
// allowDebug is true, "debug"::"print32" is also bound (validator.go gates
// whether a module is even allowed to import it).
func BindEEI(s *EEIState, allowDebug bool) map[string]HostFunc {
	fns := map[string]HostFunc{
		"useGas": func(args []uint64) ([]uint64, error) {
			return nil, s.useGas(int64(args[0]))
		},
		"getGasLeft": func(args []uint64) ([]uint64, error) {
			v, err := s.getGasLeft()
			return []uint64{uint64(v)}, err
		},
		"getAddress": func(args []uint64) ([]uint64, error) {
			return nil, s.getAddress(args[0])
		},
		"getExternalBalance": func(args []uint64) ([]uint64, error) {
			return nil, s.getExternalBalance(args[0], args[1])
		},
		"getBlockHash": func(args []uint64) ([]uint64, error) {
			v, err := s.getBlockHash(int64(args[0]), args[1])
			return []uint64{uint64(uint32(v))}, err
		},
		"getCallDataSize": func(args []uint64) ([]uint64, error) {
			v, err := s.getCallDataSize()
			return []uint64{uint64(uint32(v))}, err
		},
		"callDataCopy": func(args []uint64) ([]uint64, error) {
			return nil, s.callDataCopy(args[0], args[1], args[2])
		},
		"getCaller": func(args []uint64) ([]uint64, error) {
			return nil, s.getCaller(args[0])
		},
		"getCallValue": func(args []uint64) ([]uint64, error) {
			return nil, s.getCallValue(args[0])
		},
		"codeCopy": func(args []uint64) ([]uint64, error) {
			return nil, s.codeCopy(args[0], args[1], args[2])
		},
		"getCodeSize": func(args []uint64) ([]uint64, error) {
			v, err := s.getCodeSize()
			return []uint64{uint64(uint32(v))}, err
		},
		"externalCodeCopy": func(args []uint64) ([]uint64, error) {
			return nil, s.externalCodeCopy(args[0], args[1], args[2], args[3])
		},
		"getExternalCodeSize": func(args []uint64) ([]uint64, error) {
			v, err := s.getExternalCodeSize(args[0])
			return []uint64{uint64(uint32(v))}, err
		},
		"getBlockCoinbase": func(args []uint64) ([]uint64, error) {
			return nil, s.getBlockCoinbase(args[0])
		},
		"getBlockDifficulty": func(args []uint64) ([]uint64, error) {
			return nil, s.getBlockDifficulty(args[0])
		},
		"getBlockGasLimit": func(args []uint64) ([]uint64, error) {
			v, err := s.getBlockGasLimit()
			return []uint64{uint64(v)}, err
		},
		"getTxGasPrice": func(args []uint64) ([]uint64, error) {
			return nil, s.getTxGasPrice(args[0])
		},
		"log": func(args []uint64) ([]uint64, error) {
			nTopics := uint32(args[2])
			var topicOffs [4]uint64
			copy(topicOffs[:], args[3:7])
			return nil, s.log(args[0], args[1], nTopics, topicOffs)
		},
		"getBlockNumber": func(args []uint64) ([]uint64, error) {
			v, err := s.getBlockNumber()
			return []uint64{uint64(v)}, err
		},
		"getBlockTimestamp": func(args []uint64) ([]uint64, error) {
			v, err := s.getBlockTimestamp()
			return []uint64{uint64(v)}, err
		},
		"getTxOrigin": func(args []uint64) ([]uint64, error) {
			return nil, s.getTxOrigin(args[0])
		},
		"storageStore": func(args []uint64) ([]uint64, error) {
			return nil, s.storageStore(args[0], args[1])
		},
		"storageLoad": func(args []uint64) ([]uint64, error) {
			return nil, s.storageLoad(args[0], args[1])
		},
		"finish": func(args []uint64) ([]uint64, error) {
			return nil, s.finish(args[0], args[1])
		},
		"revert": func(args []uint64) ([]uint64, error) {
			return nil, s.revert(args[0], args[1])
		},
		"getReturnDataSize": func(args []uint64) ([]uint64, error) {
			v, err := s.getReturnDataSize()
			return []uint64{uint64(uint32(v))}, err
		},
		"returnDataCopy": func(args []uint64) ([]uint64, error) {
			return nil, s.returnDataCopy(args[0], args[1], args[2])
		},
		"call": func(args []uint64) ([]uint64, error) {
			v, err := s.call(int64(args[0]), args[1], args[2], args[3], args[4])
			return []uint64{uint64(uint32(v))}, err
		},
		"callCode": func(args []uint64) ([]uint64, error) {
			v, err := s.callCode(int64(args[0]), args[1], args[2], args[3], args[4])
			return []uint64{uint64(uint32(v))}, err
		},
		"callDelegate": func(args []uint64) ([]uint64, error) {
			v, err := s.callDelegate(int64(args[0]), args[1], args[2], args[3])
			return []uint64{uint64(uint32(v))}, err
		},
		"callStatic": func(args []uint64) ([]uint64, error) {
			v, err := s.callStatic(int64(args[0]), args[1], args[2], args[3])
			return []uint64{uint64(uint32(v))}, err
		},
		"create": func(args []uint64) ([]uint64, error) {
			v, err := s.create(args[0], args[1], args[2], args[3])
			return []uint64{uint64(uint32(v))}, err
		},
		"selfDestruct": func(args []uint64) ([]uint64, error) {
			return nil, s.selfDestruct(args[0])
		},
	}
	if allowDebug {
		fns["print32"] = func(args []uint64) ([]uint64, error) {
			log.Trace("hera: debug.print32", "value", int32(args[0]))
			return nil, nil
		}
	}
	return fns
}
