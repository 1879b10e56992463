package srv

import (
	"fmt"
	"net/rpc"

	"github.com/wangkuiyi/parallel"
)

// RpcClient represents rpc.Client and the address.  This makes it easy
// to display RPC connections in logs or expvars.
type RpcClient struct {
	*rpc.Client
	Name string
}

// String is required by interface Stringer.
func (r *RpcClient) String() string {
	return r.Name
}

// ConnectToGazetteers dials every gazetteer server of the job.
func ConnectToGazetteers(addrs []string) ([]*RpcClient, error) {
	clients := make([]*RpcClient, len(addrs))
	if e := parallel.For(0, len(addrs), 1, func(i int) error {
		if cl, e := rpc.DialHTTP("tcp", addrs[i]); e == nil {
			clients[i] = &RpcClient{cl, addrs[i]}
		} else {
			return fmt.Errorf("Connect to gazetteer %s: %v", addrs[i], e)
		}
		return nil
	}); e != nil {
		return nil, e
	}
	return clients, nil
}

func CloseAll(closers []*RpcClient) error {
	return parallel.For(0, len(closers), 1, func(i int) error {
		return closers[i].Close()
	})
}
