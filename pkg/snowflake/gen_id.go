package snowflake

import (
	"fmt"
	"time"

	"github.com/sony/sonyflake"
)

// epoch anchors the id space. Changing it after ids have been issued would
// let new ids collide with old ones.
var epoch = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// Generator issues unique bill reference numbers. Ids are time-ordered, so
// references sort roughly by creation time.
type Generator struct {
	node *sonyflake.Sonyflake
}

// NewGenerator builds a Generator for one machine id. Every process writing
// to the same database must use a distinct machine id.
func NewGenerator(machineID uint16) (*Generator, error) {
	node := sonyflake.NewSonyflake(sonyflake.Settings{
		StartTime: epoch,
		MachineID: func() (uint16, error) { return machineID, nil },
	})
	if node == nil {
		return nil, fmt.Errorf("failed to initialize sonyflake node")
	}
	return &Generator{node: node}, nil
}

// GetID returns the next raw id.
func (g *Generator) GetID() (uint64, error) {
	return g.node.NextID()
}

// NextReference returns the next id formatted as a printable reference,
// e.g. "B9007199254740993" for prefix "B".
func (g *Generator) NextReference(prefix string) (string, error) {
	id, err := g.node.NextID()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%d", prefix, id), nil
}
