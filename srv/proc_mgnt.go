package srv

import (
	"fmt"
	"log"

	"github.com/wangkuiyi/parallel"
	"github.com/wangkuiyi/prism"
)

// LaunchGazetteers starts a gazetteerd process on every address in
// cfg.Gazetteers and verifies each one answers RPC dials.
func LaunchGazetteers(cfg *Config) error {
	log.Println("Try killing gazetteers before launching them ...")
	KillGazetteers(cfg) // in case there are some left there.

	f, e := cfg.Encode()
	if e != nil {
		return fmt.Errorf("Encoding config %s: %v", cfg, e)
	}

	if e := parallel.For(0, len(cfg.Gazetteers), 1, func(i int) error {
		return prism.Launch(cfg.Gazetteers[i], cfg.DeployDir, "gazetteerd",
			[]string{"-config=" + f, "-addr=" + cfg.Gazetteers[i]},
			cfg.LogDir, cfg.Retry)
	}); e != nil {
		return e
	}

	clients, e := ConnectToGazetteers(cfg.Gazetteers)
	if e != nil {
		return fmt.Errorf("Launched gazetteers not answering: %v", e)
	}
	return CloseAll(clients)
}

// KillGazetteers tells Prism to kill processes listening on the
// gazetteer addresses.
func KillGazetteers(cfg *Config) error {
	return parallel.For(0, len(cfg.Gazetteers), 1, func(i int) error {
		return prism.Kill(cfg.Gazetteers[i])
	})
}
