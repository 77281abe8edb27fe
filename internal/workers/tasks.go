// internal/workers/tasks.go
package workers

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task type names routed through asynq
const (
	TypeLowStockScan = "stock:scan_low"
)

// LowStockScanPayload parameterizes a low-stock scan
type LowStockScanPayload struct {
	Threshold int64 `json:"threshold"`
}

// NewLowStockScanTask creates a task that scans the ledger for articles at or
// below threshold
func NewLowStockScanTask(threshold int64) (*asynq.Task, error) {
	payload, err := json.Marshal(LowStockScanPayload{Threshold: threshold})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal low stock payload: %w", err)
	}
	return asynq.NewTask(TypeLowStockScan, payload, asynq.MaxRetry(3)), nil
}
