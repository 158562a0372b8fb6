package game

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/k-jun/mahjong-tui-sub000/common/log"
)

// Monitor periodically reports this node's load through report.
type Monitor struct {
	nodeID         string
	roomManager    *RoomManager
	report         func(*LoadInfo) error
	updateInterval time.Duration
	stopCh         chan struct{}
	stopOnce       sync.Once
}

func NewMonitor(nodeID string, roomManager *RoomManager, report func(*LoadInfo) error, updateInterval time.Duration) *Monitor {
	return &Monitor{
		nodeID:         nodeID,
		roomManager:    roomManager,
		report:         report,
		updateInterval: updateInterval,
		stopCh:         make(chan struct{}),
	}
}

func (m *Monitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.updateInterval)
	defer ticker.Stop()

	m.reportLoad()
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.reportLoad()
		}
	}
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

func (m *Monitor) reportLoad() {
	info := m.collectLoadInfo()
	if err := m.report(info); err != nil {
		log.Warn("report load: %v", err)
		return
	}
	log.Debug("load %.2f, games %d, players %d", info.Load, info.GameCount, info.PlayerCount)
}

func (m *Monitor) collectLoadInfo() *LoadInfo {
	gameCount, playerCount := m.roomManager.GetStats()
	info := &LoadInfo{
		NodeID:      m.nodeID,
		GameCount:   gameCount,
		PlayerCount: playerCount,
		MemUsage:    heapUsage(),
	}
	info.Load = info.CalculateLoad()
	return info
}

func heapUsage() float64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	if ms.HeapSys == 0 {
		return 0
	}
	return float64(ms.HeapInuse) / float64(ms.HeapSys) * 100.0
}
