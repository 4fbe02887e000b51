// Package service composes the prediction flow for one request: fetch
// the image, read the model, stand up a fresh guest instance, marshal
// both buffers into it, run the inference call, and map the class index
// to a label. It also owns the HTTP surface, which collapses every
// internal failure into one opaque response.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/visionhost/predict/guest"
)

// DefaultInferTimeout bounds the guest inference call. The reference
// behavior had no bound at all; an unresponsive guest would block the
// request forever.
const DefaultInferTimeout = 60 * time.Second

// Fetcher downloads the image named by a request.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ModelSource returns the model bytes for one request.
type ModelSource interface {
	Model() ([]byte, error)
}

// Labeler resolves a 1-indexed class index to a human-readable label.
type Labeler interface {
	Label(index int) (string, error)
}

// Config wires a Predictor's collaborators.
type Config struct {
	Module  *guest.Module
	Models  ModelSource
	Labels  Labeler
	Fetcher Fetcher

	// InferTimeout bounds the guest call; 0 means DefaultInferTimeout.
	InferTimeout time.Duration

	Logger *zap.Logger
}

// Predictor runs one inference per call. Safe for concurrent use: all
// per-request state (the instance, its offsets) is request-local.
type Predictor struct {
	module       *guest.Module
	models       ModelSource
	labels       Labeler
	fetcher      Fetcher
	inferTimeout time.Duration
	log          *zap.Logger
}

func NewPredictor(cfg Config) *Predictor {
	p := &Predictor{
		module:       cfg.Module,
		models:       cfg.Models,
		labels:       cfg.Labels,
		fetcher:      cfg.Fetcher,
		inferTimeout: cfg.InferTimeout,
		log:          cfg.Logger,
	}
	if p.inferTimeout == 0 {
		p.inferTimeout = DefaultInferTimeout
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	return p
}

// Predict downloads the image at imageURL, runs the guest over it and
// returns the predicted label. The guest instance lives exactly as long
// as this call; offsets never escape it.
func (p *Predictor) Predict(ctx context.Context, imageURL string) (string, error) {
	image, err := p.fetcher.Fetch(ctx, imageURL)
	if err != nil {
		return "", err
	}
	model, err := p.models.Model()
	if err != nil {
		return "", err
	}

	inst, err := p.module.Instantiate(ctx)
	if err != nil {
		return "", err
	}
	defer inst.Close(ctx)

	modelOff, err := inst.WriteBytes(ctx, model)
	if err != nil {
		return "", err
	}
	imageOff, err := inst.WriteBytes(ctx, image)
	if err != nil {
		return "", err
	}

	ictx, cancel := context.WithTimeout(ctx, p.inferTimeout)
	defer cancel()

	start := time.Now()
	index, err := inst.Infer(ictx, modelOff, uint32(len(model)), imageOff, uint32(len(image)))
	if err != nil {
		return "", err
	}
	p.log.Info("inference complete",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int32("class", index))

	return p.labels.Label(int(index))
}
