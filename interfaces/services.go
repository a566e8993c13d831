package interfaces

// EngineStats counts what an engine did with the transactions it was fed
type EngineStats struct {
	Applied  int `json:"applied"`
	Rejected int `json:"rejected"`
	Accounts int `json:"accounts"`
	Shards   int `json:"shards"`
}

// Add merges the counters of another engine or shard
func (s EngineStats) Add(o EngineStats) EngineStats {
	return EngineStats{
		Applied:  s.Applied + o.Applied,
		Rejected: s.Rejected + o.Rejected,
		Accounts: s.Accounts + o.Accounts,
		Shards:   s.Shards + o.Shards,
	}
}
