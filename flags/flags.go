package flags

const (
	Home  = "home"
	Trace = "trace"

	DB_Engine = "db.engine"

	Log_Level = "log.level"

	Chain_ID = "chain.id"

	Mine_Enabled = "mine.enabled"
	Mine_Threads = "mine.threads"
	Mine_Miner   = "mine.miner"

	RPC_Addr        = "rpc.addr"
	RPC_CORSDomains = "rpc.corsdomains"

	Eth_Keys           = "eth.keys"
	Eth_GasPrice       = "eth.gasprice"
	Eth_GasCap         = "eth.gascap"
	Eth_EstimateRevert = "eth.estimaterevert"
)
