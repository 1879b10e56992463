package gazetteer

import (
	"log"
	"net/rpc"
)

// RPC argument/reply types shared with the gazetteer service.
type LookupArgs struct {
	Name string
}
type LookupReply struct {
	Ids []int32
}
type LocationArgs struct {
	Id int32
}
type LocationReply struct {
	Loc   Location
	Found bool
}

// Remote is a Gazetteer served by a gazetteerd process, so several
// trainers share one loaded gazetteer.
type Remote struct {
	client *RPCClient
}

// RPCClient represents rpc.Client and the address.  This makes it
// easy to display RPC connections in logs or expvars.
type RPCClient struct {
	*rpc.Client
	Name string
}

func (r *RPCClient) String() string {
	return r.Name
}

func DialRemote(addr string) (*Remote, error) {
	cl, e := rpc.DialHTTP("tcp", addr)
	if e != nil {
		return nil, e
	}
	return &Remote{client: &RPCClient{cl, addr}}, nil
}

func (r *Remote) Close() error {
	return r.client.Close()
}

func (r *Remote) Contains(name string) bool {
	return len(r.Get(name)) > 0
}

func (r *Remote) Get(name string) []int32 {
	var reply LookupReply
	if e := r.client.Call("Gazetteer.Get", &LookupArgs{Name: name},
		&reply); e != nil {
		log.Printf("gazetteer: remote get(%q): %v", name, e)
		return nil
	}
	return reply.Ids
}

func (r *Remote) Location(id int32) (Location, bool) {
	var reply LocationReply
	if e := r.client.Call("Gazetteer.Location", &LocationArgs{Id: id},
		&reply); e != nil {
		log.Printf("gazetteer: remote location(%d): %v", id, e)
		return Location{}, false
	}
	return reply.Loc, reply.Found
}
