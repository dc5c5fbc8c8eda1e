package solver

import (
	"sync"

	"github.com/templar-zk/templar/logger"
)

var (
	registry  = make(map[HintID]Hint)
	registryM sync.RWMutex
)

// RegisterHint registers hint functions in the global registry. Gadget
// packages call this from init so that their hints are available to every
// solve without explicit options.
func RegisterHint(hintFns ...Hint) {
	registryM.Lock()
	defer registryM.Unlock()
	for _, hintFn := range hintFns {
		key := GetHintID(hintFn)
		if _, ok := registry[key]; ok {
			log := logger.Logger()
			log.Debug().Str("name", GetHintName(hintFn)).Msg("hint function registered multiple times")
			continue
		}
		registry[key] = hintFn
	}
}

// GetRegisteredHint returns the hint registered under key, or nil.
func GetRegisteredHint(key HintID) Hint {
	registryM.RLock()
	defer registryM.RUnlock()
	return registry[key]
}

func cloneHintRegistry() map[HintID]Hint {
	registryM.RLock()
	defer registryM.RUnlock()
	res := make(map[HintID]Hint, len(registry))
	for k, v := range registry {
		res[k] = v
	}
	return res
}
