package srv

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/wangkuiyi/file"
)

// Config contains the configuration of a toponym resolution job.  The
// same Config is passed, JSON-encoded, to every process the job
// launches.
type Config struct {
	// DeployDir and LogDir define the directories where binaries and
	// log files are stored on the machines running gazetteer servers.
	DeployDir string
	LogDir    string

	// JobName identifies the job in naming log files.
	JobName string

	// CorpusFile, LexiconFile, StopwordFile and GazetteerFile define
	// the input of a training job.  Files may live on an HDFS or local
	// path and may be gzip-compressed.  StopwordFile may be empty.
	CorpusFile    string
	LexiconFile   string
	StopwordFile  string
	GazetteerFile string

	// SegmenterDict is the sego dictionary used to segment untagged
	// CJK text.  Empty means whitespace tokenization only.
	SegmenterDict string

	// Gazetteers lists addresses of gazetteer RPC servers, e.g.
	// "host:1234".  When non-empty the job looks toponyms up remotely
	// instead of loading GazetteerFile in-process.
	Gazetteers []string

	// Retry in starting processes.
	Retry int

	// JobDir is the directory containing all outputs of a job.
	JobDir string

	// Grid resolution and Dirichlet priors.
	DegreesPerRegion float64
	Alpha            float64
	Beta             float64

	// Annealing schedule.
	InitialTemperature   float64
	TemperatureDecrement float64
	TargetTemperature    float64
	Iterations           int
	Samples              int
	Lag                  int

	// Log-likelihood is computed after every LogllPeriod sweeps.
	LogllPeriod int
}

// The directory structure in JobDir is as:
//
//	JobDir
//	    |-model.gz
//	    |-lexicon.gz
//	    |-placements.tsv
//	    \-logll
//
// The logll file is a text file of two columns per line: the
// log-likelihood of the corpus and its token count at one evaluation
// point.  These two numbers make it easy to compute the perplexity.
const (
	MODEL_FILE     = "model.gz"
	LEXICON_FILE   = "lexicon.gz"
	PLACEMENT_FILE = "placements.tsv"
	LOGLL_FILE     = "logll"
)

func (c *Config) Validate() error {
	if len(c.JobName) <= 0 {
		return errors.New("c.JobName must be specified")
	}
	if len(c.CorpusFile) <= 0 {
		return errors.New("c.CorpusFile must be specified")
	}
	if len(c.GazetteerFile) <= 0 && len(c.Gazetteers) <= 0 {
		return errors.New(
			"either c.GazetteerFile or c.Gazetteers must be specified")
	}

	msg := ""
	if c.DegreesPerRegion <= 0 || c.DegreesPerRegion > 180 {
		msg += fmt.Sprintf("c.DegreesPerRegion = %f out of (0, 180]\n",
			c.DegreesPerRegion)
	}
	if c.Alpha <= 0 {
		msg += fmt.Sprintf("c.Alpha = %f must be positive\n", c.Alpha)
	}
	if c.Beta <= 0 {
		msg += fmt.Sprintf("c.Beta = %f must be positive\n", c.Beta)
	}
	if c.InitialTemperature < c.TargetTemperature {
		msg += fmt.Sprintf("c.InitialTemperature = %f below target %f\n",
			c.InitialTemperature, c.TargetTemperature)
	}
	if c.InitialTemperature != c.TargetTemperature &&
		c.TemperatureDecrement <= 0 {
		msg += "c.TemperatureDecrement must be positive when annealing\n"
	}
	if c.Iterations <= 0 {
		msg += "c.Iterations must be positive\n"
	}
	if c.Samples > 0 && c.Lag <= 0 {
		msg += "c.Lag must be positive when collecting samples\n"
	}

	if len(msg) > 0 {
		return errors.New(msg)
	}
	return nil
}

// Encode returns the JSON-encoded Config, which can be used as the
// value of a command line flag to pass information to sub-processes.
func (c *Config) Encode() (string, error) {
	var buf bytes.Buffer
	if e := json.NewEncoder(&buf).Encode(c); e != nil {
		return "", fmt.Errorf("JSON encoding failed: %v", e)
	}
	return buf.String(), nil
}

// String is required by interface flag.Var
func (c *Config) String() string {
	if b, e := json.MarshalIndent(c, " ", "  "); e == nil {
		return fmt.Sprintf("%s", b)
	}
	return ""
}

// Set is required by interface flag.Var.  It decodes a JSON encoded
// Config variable.
func (c *Config) Set(value string) error {
	e := json.NewDecoder(strings.NewReader(value)).Decode(c)
	if e != nil {
		return fmt.Errorf("Error decoding JSON: %v", e)
	}
	return nil
}

// RegisterAsFlag registers a flag with name "config" that accepts a
// JSON encoded Config object as the value.  This function must be
// called before flag.Parse().
func (c *Config) RegisterAsFlag() {
	flag.Var(c, "config", "JSON encoded configuration")
}

func LoadConfig(filename string) (*Config, error) {
	f, e := file.Open(filename)
	if e != nil {
		return nil, fmt.Errorf("Cannot open config file %s: %v", filename, e)
	}
	defer f.Close()

	cfg := new(Config)
	if e = json.NewDecoder(f).Decode(cfg); e != nil {
		return nil, fmt.Errorf("Parse JSON config file: %v", e)
	}

	if e := cfg.Validate(); e != nil {
		return nil, fmt.Errorf("Invalid configuration: %v", e)
	}
	return cfg, nil
}

// GazetteerId returns the index of a gazetteer server address, or -1.
func (c *Config) GazetteerId(addr string) int {
	for i, a := range c.Gazetteers {
		if a == addr {
			return i
		}
	}
	return -1
}
