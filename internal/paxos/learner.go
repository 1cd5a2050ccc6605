package paxos

import (
	"strings"

	"github.com/khanh101/paxoskv/internal/logx"
)

// Mutator is the narrow interface the Learner needs onto the co-located
// KV service's map. Modeling it this way (spec.md §9) avoids the true
// object cycle the original has (Learner holds the KeyValueStoreImpl,
// which constructs the Learner): the KV service just hands the Learner a
// mutator at construction time.
type Mutator interface {
	Put(key, value string)
	Delete(key string) (existed bool)
}

// Learner applies decided values into the local map.
type Learner struct {
	store  Mutator
	logger *logx.Logger
}

func NewLearner(store Mutator, logger *logx.Logger) *Learner {
	return &Learner{store: store, logger: logger}
}

// Learn tokenizes value the same way the KV service tokenizes client
// commands and applies it to the local map. See spec.md §4.4.
func (l *Learner) Learn(value string) {
	parts := strings.SplitN(value, " ", 3)
	if len(parts) == 0 || parts[0] == "" {
		l.logger.LogError("learner: operation not provided in value %q", value)
		return
	}

	switch strings.ToUpper(parts[0]) {
	case "PUT":
		if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
			l.logger.LogError("learner: invalid PUT operation format: %q", value)
			return
		}
		l.store.Put(parts[1], parts[2])
		l.logger.LogActivity("learner: PUT key %q value %q applied", parts[1], parts[2])
	case "DELETE":
		if len(parts) < 2 || parts[1] == "" {
			l.logger.LogError("learner: invalid DELETE operation format: %q", value)
			return
		}
		if l.store.Delete(parts[1]) {
			l.logger.LogActivity("learner: DELETE key %q applied", parts[1])
		} else {
			l.logger.LogError("learner: DELETE key %q not found", parts[1])
		}
	default:
		l.logger.LogError("learner: unknown operation %q in value %q", parts[0], value)
	}
}
