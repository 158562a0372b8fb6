package game

// LoadInfo is what a node reports about itself.
type LoadInfo struct {
	NodeID      string  `json:"nodeId"`
	GameCount   int     `json:"gameCount"`
	PlayerCount int     `json:"playerCount"`
	MemUsage    float64 `json:"memUsage"` // heap in use over heap reserved, 0-100
	Load        float64 `json:"load"`
}

// CalculateLoad weighs memory 20%, games 40% and players 40%; lower is
// less loaded. Counts saturate at 100.
func (li *LoadInfo) CalculateLoad() float64 {
	normalizedGameCount := float64(li.GameCount) / 100.0
	if normalizedGameCount > 1.0 {
		normalizedGameCount = 1.0
	}
	normalizedPlayerCount := float64(li.PlayerCount) / 100.0
	if normalizedPlayerCount > 1.0 {
		normalizedPlayerCount = 1.0
	}
	return li.MemUsage*0.2 + normalizedGameCount*100*0.4 + normalizedPlayerCount*100*0.4
}
