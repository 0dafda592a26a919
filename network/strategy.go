//go:build linux

package network

import (
	"errors"
	"sync"

	"github.com/libcell/libcell/configs"
)

var (
	ErrNotValidStrategyType = errors.New("not a valid network strategy type")

	strategiesMtx sync.RWMutex
	strategies    = map[string]NetworkStrategy{
		"loopback": &Loopback{},
	}
)

// NetworkStrategy represents a specific network configuration for
// a container's networking stack. Initialize is called inside the
// container's network namespace.
type NetworkStrategy interface {
	Initialize(*configs.Network) error
}

// GetStrategy returns the specific network strategy for the
// provided type.  If no strategy is registered for the type an
// ErrNotValidStrategyType is returned.
func GetStrategy(tpe string) (NetworkStrategy, error) {
	strategiesMtx.RLock()
	defer strategiesMtx.RUnlock()
	s, exists := strategies[tpe]
	if !exists {
		return nil, ErrNotValidStrategyType
	}
	return s, nil
}

// AddStrategy registers a network strategy to be used for the
// provided type. If there is a strategy already associated with
// that type, it will be overridden. Multiple goroutines can
// safely call AddStrategy.
func AddStrategy(tpe string, strategy NetworkStrategy) {
	strategiesMtx.Lock()
	defer strategiesMtx.Unlock()
	strategies[tpe] = strategy
}

// Initialize brings up every configured interface, in order, in the
// calling process's network namespace.
func Initialize(networks []*configs.Network) error {
	for _, config := range networks {
		strategy, err := GetStrategy(config.Type)
		if err != nil {
			return err
		}
		if err := strategy.Initialize(config); err != nil {
			return err
		}
	}
	return nil
}
