/*
RPC implementation in ember node is based on
[github.com/ethereum/go-ethereum/rpc] that follows JSON-RPC 2.0.

# Example

request:

	{"jsonrpc": "2.0", "method": "eth_blockNumber", "params": [], "id": 1}

response:

	{"jsonrpc":"2.0","id":1,"result":"0x1"}

# Request

`method` in request is defined in `{namespace}_{methodName}` format where
  - `namespace` is defined when registering a struct by calling [RegisterName],
    `API List` below shows namespaces and corresponding structs
  - `methodName` is public methods of the struct in uncapitalized form

`params` are the parameters of the public method

# Response

`result` in response is the return values of the public method

# Subscriptions

Subscription is supported in websocket streams.

Method is defined in `{namespace}_subscribe` format. First param is
uncapitalized public method name that returns a
[github.com/ethereum/go-ethereum/rpc.Subscription]

For example:

	{"jsonrpc": "2.0", "method": "eth_subscribe", "params": ["newHeads"], "id": 1}

will execute [github.com/emberchain/node/core.SubAPI.NewHeads]

Result will be like:

	{"jsonrpc":"2.0","id":1,"result":"0xd37be67a9aaa143969d24cada292a445"}
	{"jsonrpc":"2.0","method":"eth_subscription","params":{"subscription":"0xd37be67a9aaa143969d24cada292a445","result":{"parentHash":"000000A891B5201E56D50B52D619B442E6E89C6AC66ADAF919F3BAFF805924C5","sha3Uncles":"E3B0C44298FC1C149AFBF4C8996FB92427AE41E4649B934CA495991B7852B855","miner":"","stateRoot":"E3B0C44298FC1C149AFBF4C8996FB92427AE41E4649B934CA495991B7852B855","transactionsRoot":"E3B0C44298FC1C149AFBF4C8996FB92427AE41E4649B934CA495991B7852B855","receiptsRoot":"E3B0C44298FC1C149AFBF4C8996FB92427AE41E4649B934CA495991B7852B855","difficulty":2157515,"height":5286,"gasLimit":30000000,"gasUsed":0,"timestamp":1688641961,"extraData":"","nonce":"0x45b97c08b2d57274"}}}

# API List

Here are some namespaces and their corresponding structs, methods can be found
from the public methods of each struct.

`eth`
  - chain queries [github.com/emberchain/node/eth.ReadAPI]
  - transactions and calls [github.com/emberchain/node/eth.TxAPI]
  - mining [github.com/emberchain/node/eth.MiningAPI]
  - subscriptions [github.com/emberchain/node/core.SubAPI]

`ember`
  - chain internals [github.com/emberchain/node/core.API]

`node`
  - [github.com/emberchain/node/node.API]

`txpool`
  - [github.com/emberchain/node/mempool.API]
*/
package rpc
