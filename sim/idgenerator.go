package sim

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator generates unique IDs for events and progress bars.
type IDGenerator interface {
	Generate() string
}

// SequentialIDGenerator generates "1", "2", ... Runs that use it produce the
// same IDs every time.
type SequentialIDGenerator struct {
	last atomic.Uint64
}

// Generate returns the next number.
func (g *SequentialIDGenerator) Generate() string {
	return strconv.FormatUint(g.last.Add(1), 10)
}

// XIDGenerator generates globally unique xid strings.
type XIDGenerator struct{}

// Generate returns a new xid.
func (XIDGenerator) Generate() string {
	return xid.New().String()
}

var (
	idGeneratorLock sync.Mutex
	idGenerator     IDGenerator
)

// SetIDGenerator selects the process-wide generator. It panics once an ID
// has been generated, since mixing generators breaks uniqueness.
func SetIDGenerator(g IDGenerator) {
	idGeneratorLock.Lock()
	defer idGeneratorLock.Unlock()

	if idGenerator != nil {
		panic("the id generator is already in use")
	}

	idGenerator = g
}

// GetIDGenerator returns the process-wide generator. A sequential generator
// is used unless another one was set before the first call.
func GetIDGenerator() IDGenerator {
	idGeneratorLock.Lock()
	defer idGeneratorLock.Unlock()

	if idGenerator == nil {
		idGenerator = &SequentialIDGenerator{}
	}

	return idGenerator
}
