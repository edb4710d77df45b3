// Package augment produces randomly transformed copies of a single source image.
//
// A Sampler draws a Params value per output from the configured ranges, and Apply warps
// the untouched source with it. Nothing is shared between outputs except the read-only
// source buffer, so outputs can be streamed one by one (Flow) or built on several
// goroutines (Augmenter.Generate).
package augment

import (
	"context"
	"io"
	"math/rand"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Request bundles everything one augmentation run needs.
type Request struct {
	Source *Image
	Config Config
	Count  int
}

func (r Request) Validate() error {
	if r.Count < 0 {
		return errors.Wrapf(ErrInvalidConfig, "count must be >= 0, got %d", r.Count)
	}
	if err := r.Config.Validate(); err != nil {
		return err
	}
	return r.Source.Validate()
}

type Augmenter struct {
	cfg     Config
	sampler *Sampler
}

// New checks cfg and binds it to rng. The rng is owned by the Augmenter from here on.
func New(cfg Config, rng *rand.Rand) (*Augmenter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, errors.Wrap(ErrInvalidConfig, "nil random source")
	}
	return &Augmenter{cfg: cfg, sampler: NewSampler(cfg, rng)}, nil
}

func (a *Augmenter) Config() Config {
	return a.cfg
}

// Flow is a finite lazy sequence of augmented images. It is not safe for concurrent use.
type Flow struct {
	aug   *Augmenter
	src   *Image
	count int
	next  int
}

// Flow returns a sequence that yields exactly n augmented copies of src.
func (a *Augmenter) Flow(src *Image, n int) (*Flow, error) {
	if err := (Request{Source: src, Config: a.cfg, Count: n}).Validate(); err != nil {
		return nil, err
	}
	return &Flow{aug: a, src: src, count: n}, nil
}

// Next produces the next image and its index. It returns io.EOF once all images are out.
func (f *Flow) Next() (int, *Image, error) {
	if f.next >= f.count {
		return f.next, nil, io.EOF
	}
	p := f.aug.sampler.Sample(f.src.Width, f.src.Height)
	img, err := Apply(f.src, p, f.aug.cfg.FillMode)
	if err != nil {
		return f.next, nil, err
	}
	i := f.next
	f.next++
	return i, img, nil
}

func (f *Flow) Len() int {
	return f.count
}

func (f *Flow) Remaining() int {
	return f.count - f.next
}

// Sink receives the image with the given index. Generate may call it from several goroutines.
type Sink func(index int, img *Image) error

// Generate builds n augmented copies of src on up to workers goroutines. Parameters are
// drawn up front in index order, so the output for a given seed does not depend on
// scheduling. The first error returned by Apply or sink stops the run.
func (a *Augmenter) Generate(ctx context.Context, src *Image, n, workers int, sink Sink) error {
	if err := (Request{Source: src, Config: a.cfg, Count: n}).Validate(); err != nil {
		return err
	}
	params := make([]Params, n)
	for i := range params {
		params[i] = a.sampler.Sample(src.Width, src.Height)
	}

	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range params {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := Apply(src, p, a.cfg.FillMode)
			if err != nil {
				return err
			}
			return sink(i, img)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Augment runs req to completion and returns all images in index order.
func Augment(req Request, rng *rand.Rand) ([]*Image, error) {
	aug, err := New(req.Config, rng)
	if err != nil {
		return nil, err
	}
	flow, err := aug.Flow(req.Source, req.Count)
	if err != nil {
		return nil, err
	}
	out := make([]*Image, 0, req.Count)
	for {
		_, img, err := flow.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
}
