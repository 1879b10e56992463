package srv

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"net/rpc"

	"github.com/utcompling/textgrounder-sub011/core/gazetteer"
)

// GazetteerService exposes a loaded gazetteer over net/rpc, so several
// training and resolution processes share one copy instead of each
// loading its own.  The service registers under the name "Gazetteer",
// which is what gazetteer.DialRemote calls.
type GazetteerService struct {
	gaz gazetteer.Gazetteer
}

func NewGazetteerService(gaz gazetteer.Gazetteer) *GazetteerService {
	return &GazetteerService{gaz: gaz}
}

func (s *GazetteerService) Get(args *gazetteer.LookupArgs,
	reply *gazetteer.LookupReply) error {

	reply.Ids = s.gaz.Get(args.Name)
	return nil
}

func (s *GazetteerService) Location(args *gazetteer.LocationArgs,
	reply *gazetteer.LocationReply) error {

	reply.Loc, reply.Found = s.gaz.Location(args.Id)
	return nil
}

// RunGazetteerService serves the gazetteer on addr.  It blocks for the
// life of the process.
func RunGazetteerService(addr string, gaz gazetteer.Gazetteer) error {
	if e := rpc.RegisterName("Gazetteer", NewGazetteerService(gaz)); e != nil {
		return fmt.Errorf("Register gazetteer service: %v", e)
	}
	rpc.HandleHTTP()

	l, e := net.Listen("tcp", addr)
	if e != nil {
		return fmt.Errorf("Listen on %s: %v", addr, e)
	}
	log.Printf("Gazetteer service listening on %s", addr)
	return http.Serve(l, nil)
}
