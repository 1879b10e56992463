// gazetteerd serves a gazetteer over RPC so several trainers and
// resolvers share one copy instead of each loading its own.  The
// backend is an in-memory TSV load by default, a Postgres table with
// -postgres, and either can sit behind a Redis lookup cache with
// -redis.
//
// With -launch it acts as the fleet launcher instead: it deploys a
// gazetteerd on every address in the job configuration through prism
// and exits.  The launched processes receive the same configuration
// JSON-encoded in their -config flag.
// Usage:
/*
  $GOPATH/bin/gazetteerd -gazetteer=./gazetteer.tsv.gz -addr=:7070
  $GOPATH/bin/gazetteerd -config_file=./job.json -launch
*/
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/utcompling/textgrounder-sub011/core/gazetteer"
	"github.com/utcompling/textgrounder-sub011/core/utils"
	"github.com/utcompling/textgrounder-sub011/srv"
)

func main() {
	if e := godotenv.Load(); e == nil {
		log.Printf("Loaded flag defaults from .env")
	}

	cfg := new(srv.Config)
	cfg.RegisterAsFlag()
	flagConfigFile := flag.String("config_file", "",
		"JSON job configuration file, alternative to -config")
	flagAddr := flag.String("addr", ":7070", "RPC listening address")
	flagLaunch := flag.Bool("launch", false,
		"Deploy a gazetteerd on every configured address and exit")
	flagGazetteer := flag.String("gazetteer", os.Getenv("GAZETTEER_FILE"),
		"Gazetteer TSV file for the memory backend")
	flagDSN := flag.String("postgres", os.Getenv("POSTGRES_DSN"),
		"Postgres DSN; selects the Postgres backend")
	flagRedis := flag.String("redis", os.Getenv("REDIS_ADDR"),
		"Redis address; caches lookups in front of the backend")
	flagTTL := flag.Duration("redis_ttl", 24*time.Hour,
		"Expiry of cached Redis entries")
	flag.Parse()

	if len(*flagConfigFile) > 0 {
		c, e := srv.LoadConfig(*flagConfigFile)
		if e != nil {
			log.Fatalf("Cannot load config %s: %v", *flagConfigFile, e)
		}
		cfg = c
	}

	if *flagLaunch {
		if e := srv.LaunchGazetteers(cfg); e != nil {
			log.Fatalf("Launching gazetteers: %v", e)
		}
		log.Printf("Launched %d gazetteers.", len(cfg.Gazetteers))
		return
	}

	gazFile := *flagGazetteer
	if len(gazFile) == 0 {
		gazFile = cfg.GazetteerFile
	}

	var gaz gazetteer.Gazetteer
	if len(*flagDSN) > 0 {
		pg, e := gazetteer.OpenPostgres(*flagDSN)
		if e != nil {
			log.Fatalf("Cannot open Postgres gazetteer: %v", e)
		}
		defer pg.Close()
		gaz = pg
	} else {
		gaz = utils.LoadGazetteerOrDie(gazFile)
	}
	if len(*flagRedis) > 0 {
		gaz = gazetteer.NewRedisCache(gaz, *flagRedis, *flagTTL)
	}

	if e := srv.RunGazetteerService(*flagAddr, gaz); e != nil {
		log.Fatal(e)
	}
}
