package main

import (
	"flag"
	"time"

	"github.com/mstoykov/envconfig"
)

// config holds predictd's settings. Environment variables fill in
// anything the flags leave at their defaults; flags win.
type config struct {
	Addr         string        `envconfig:"PREDICT_ADDR"`
	WasmPath     string        `envconfig:"PREDICT_WASM"`
	ModelPath    string        `envconfig:"PREDICT_MODEL"`
	LabelsPath   string        `envconfig:"PREDICT_LABELS"`
	FetchTimeout time.Duration `envconfig:"PREDICT_FETCH_TIMEOUT"`
	InferTimeout time.Duration `envconfig:"PREDICT_INFER_TIMEOUT"`
	Debug        bool          `envconfig:"PREDICT_DEBUG"`
}

func defaultConfig() config {
	return config{
		Addr:         "127.0.0.1:3000",
		WasmPath:     "model/optimized-wasi.wasm",
		ModelPath:    "model/mobilenet_v2_1.4_224_frozen.pb",
		LabelsPath:   "model/labels.txt",
		FetchTimeout: 30 * time.Second,
		InferTimeout: 60 * time.Second,
	}
}

// loadConfig resolves configuration from the environment and then the
// given command line. lookup abstracts os.LookupEnv for tests.
func loadConfig(args []string, lookup func(string) (string, bool)) (config, bool, error) {
	cfg := defaultConfig()
	if err := envconfig.Process("", &cfg, lookup); err != nil {
		return cfg, false, err
	}

	fs := flag.NewFlagSet("predictd", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")
	fs.StringVar(&cfg.WasmPath, "wasm", cfg.WasmPath, "Path to the guest inference module")
	fs.StringVar(&cfg.ModelPath, "model", cfg.ModelPath, "Path to the model weights")
	fs.StringVar(&cfg.LabelsPath, "labels", cfg.LabelsPath, "Path to the label file (one label per line)")
	fs.DurationVar(&cfg.FetchTimeout, "fetch-timeout", cfg.FetchTimeout, "Timeout for downloading an image")
	fs.DurationVar(&cfg.InferTimeout, "infer-timeout", cfg.InferTimeout, "Timeout for one guest inference call")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug logging")
	interactive := fs.Bool("i", false, "Interactive console instead of the HTTP server")

	if err := fs.Parse(args); err != nil {
		return cfg, false, err
	}
	return cfg, *interactive, nil
}
