package uid

import (
	"crypto/rand"
	"math/big"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates time-ordered 63-bit numeric IDs.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake creates a generator with a random node number.
//
// The node number only has to be distinct between concurrently running
// instances; a random pick from the 10-bit space is good enough for the small
// deployments this service targets.
func NewSnowflake() (*Snowflake, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1024))
	if err != nil {
		return nil, err
	}

	node, err := snowflake.NewNode(n.Int64())
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new numeric ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
