package version

// Semantic version of the node software, set at build time via -ldflags.
var (
	Version         = "0.2.0"
	VersionWithMeta = Version
	Commit          = ""
	Date            = ""
)

// ProtocolVersion is the wire protocol version reported by
// eth_protocolVersion.
const ProtocolVersion = 63
