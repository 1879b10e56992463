package srv

import (
	"bytes"
	"encoding/json"
	"flag"
	"os"
	"strings"
	"testing"
)

func createTestingConfig() *Config {
	return &Config{
		JobName:       "unittest",
		CorpusFile:    "inmem:/usr/textgrounder/corpus.gz",
		LexiconFile:   "inmem:/usr/textgrounder/lexicon.gz",
		GazetteerFile: "inmem:/usr/textgrounder/gazetteer.tsv",
		JobDir:        "inmem:/usr/unittest",
		Gazetteers:    []string{"vm0:10040", "vm1:10041"},

		DegreesPerRegion: 3.0,
		Alpha:            0.1,
		Beta:             0.01,

		InitialTemperature:   10,
		TemperatureDecrement: 0.1,
		TargetTemperature:    1,
		Iterations:           100,
		Samples:              10,
		Lag:                  10,
	}
}

func TestConfigJsonCodec(t *testing.T) {
	c := createTestingConfig()
	var buf bytes.Buffer
	e := json.NewEncoder(&buf).Encode(c)
	if e != nil {
		t.Errorf("Failed in encoding: %v", e)
	}

	d := json.NewDecoder(strings.NewReader(buf.String()))
	var c1 Config
	if e := d.Decode(&c1); e != nil {
		t.Errorf("Failed in decoding: %v", e)
	}

	b, _ := json.Marshal(c)
	b1, _ := json.Marshal(c1)
	if !bytes.Equal(b, b1) {
		t.Errorf("Encoded and decoded JSON does not equal to the original")
	}
}

func TestConfigValidate(t *testing.T) {
	c := createTestingConfig()
	if e := c.Validate(); e != nil {
		t.Errorf("Unexpected error from Config.Validate(): %v", e)
	}

	c.JobName = ""
	if e := c.Validate(); e == nil {
		t.Errorf("Expecting an error but got none")
	}

	c = createTestingConfig()
	c.Gazetteers = nil
	c.GazetteerFile = ""
	if e := c.Validate(); e == nil {
		t.Errorf("Expecting an error but got none")
	}

	c = createTestingConfig()
	c.DegreesPerRegion = 0
	if e := c.Validate(); e == nil {
		t.Errorf("Expecting an error but got none")
	}

	c = createTestingConfig()
	c.InitialTemperature = 0.5
	c.TargetTemperature = 1
	if e := c.Validate(); e == nil {
		t.Errorf("Expecting an error but got none")
	}
}

func TestConfigArgs(t *testing.T) {
	c := createTestingConfig()
	f, e := c.Encode()
	if e != nil {
		t.Errorf("Failed encode config.Config")
	}
	os.Args = make([]string, 2)
	os.Args[1] = "-config=" + f
	var c1 Config
	c1.RegisterAsFlag()
	flag.Parse()

	en1, _ := c1.Encode()
	en2, _ := c.Encode()
	if en1 != en2 {
		t.Errorf("Decoded an encoded Config %s not consistent with %s",
			en1, en2)
	}
}

func TestConfigGazetteerId(t *testing.T) {
	c := createTestingConfig()
	if c.GazetteerId("vm0:10040") != 0 {
		t.Errorf("Expecting 0, got %d", c.GazetteerId("vm0:10040"))
	}
	if c.GazetteerId("vm1:10041") != 1 {
		t.Errorf("Expecting 1, got %d", c.GazetteerId("vm1:10041"))
	}
	if c.GazetteerId("nowhere:1") != -1 {
		t.Errorf("Expecting -1, got %d", c.GazetteerId("nowhere:1"))
	}
}
